package dagger

import (
	"context"
	"fmt"
	"os"
	"time"

	"dagger.io/dagger"
	"github.com/cryptellation/auditreport/pkg/logging"
	"go.uber.org/zap"
)

// cargoAuditVulnerable is the exit code of cargo-audit when it found vulnerabilities.
const cargoAuditVulnerable = 1

// RunCargoAuditParams contains parameters for RunCargoAudit.
type RunCargoAuditParams struct {
	ProjectDir string
	Image      string
}

// Dagger defines the interface for Dagger operations.
//
//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -destination=mock_dagger.gen.go -package=dagger . Dagger
type Dagger interface {
	RunCargoAudit(ctx context.Context, params RunCargoAuditParams) ([]byte, error)
	Close() error
}

// daggerAdapter implements the Dagger interface.
type daggerAdapter struct {
	client *dagger.Client
}

// NewDagger returns a new instance implementing the Dagger interface.
func NewDagger(ctx context.Context) (Dagger, error) {
	client, err := dagger.Connect(ctx, dagger.WithLogOutput(os.Stderr))
	if err != nil {
		return nil, err
	}

	return &daggerAdapter{
		client: client,
	}, nil
}

// Close closes the Dagger client connection.
func (d *daggerAdapter) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

// RunCargoAudit mounts the lockfile of the project into a Rust container,
// installs cargo-audit and returns its JSON report.
func (d *daggerAdapter) RunCargoAudit(ctx context.Context, params RunCargoAuditParams) ([]byte, error) {
	logger := logging.C(ctx)
	logger.Info("Running cargo-audit in container",
		zap.String("project_dir", params.ProjectDir),
		zap.String("image", params.Image))

	src := d.client.Host().Directory(params.ProjectDir, dagger.HostDirectoryOpts{
		Include: []string{"Cargo.lock"},
	})

	container := d.client.Container().From(params.Image).
		WithMountedCache("/usr/local/cargo/registry", d.client.CacheVolume("cargo-registry")).
		WithExec([]string{"cargo", "install", "--locked", "cargo-audit"})

	// The advisory database changes every day: never reuse a cached audit result.
	cacheBuster := fmt.Sprintf("audit_%d", time.Now().UnixNano())
	container = container.
		WithEnvVariable("CACHE_BUSTER", cacheBuster).
		WithMountedDirectory("/src", src).
		WithWorkdir("/src").
		WithExec([]string{"cargo", "audit", "--json"}, dagger.ContainerWithExecOpts{
			Expect: dagger.ReturnTypeAny,
		})

	code, err := container.ExitCode(ctx)
	if err != nil {
		logger.Error("Failed to run cargo-audit", zap.Error(err))
		return nil, fmt.Errorf("failed to run cargo-audit: %w", err)
	}
	if code != 0 && code != cargoAuditVulnerable {
		stderr, _ := container.Stderr(ctx)
		logger.Error("cargo-audit failed", zap.Int("exit_code", code), zap.String("stderr", stderr))
		return nil, fmt.Errorf("cargo-audit exited with code %d", code)
	}

	out, err := container.Stdout(ctx)
	if err != nil {
		logger.Error("Failed to read cargo-audit output", zap.Error(err))
		return nil, fmt.Errorf("failed to read cargo-audit output: %w", err)
	}

	logger.Info("cargo-audit completed", zap.Int("exit_code", code), zap.Int("report_size", len(out)))
	return []byte(out), nil
}
