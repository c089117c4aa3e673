//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -destination=mock_source.gen.go -package=advisory -source=source.go Source
package advisory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cryptellation/auditreport/pkg/adapters/dagger"
	"github.com/cryptellation/auditreport/pkg/depgraph"
	"github.com/cryptellation/auditreport/pkg/logging"
	"go.uber.org/zap"
)

// StdinPath selects standard input as the report location.
const StdinPath = "-"

// Source supplies the vulnerabilities already matched against the lockfile.
type Source interface {
	Fetch(ctx context.Context) ([]Vulnerability, error)
}

// fileSource reads a cargo-audit report from a file or standard input.
type fileSource struct {
	path  string
	stdin io.Reader
}

// Ensure fileSource implements Source.
var _ Source = (*fileSource)(nil)

// NewFileSource returns a Source reading path, or stdin when path is "-".
func NewFileSource(path string, stdin io.Reader) Source {
	return &fileSource{path: path, stdin: stdin}
}

func (s *fileSource) Fetch(ctx context.Context) ([]Vulnerability, error) {
	if s.path == StdinPath {
		logging.C(ctx).Debug("Reading cargo-audit report from stdin")
		return ParseCargoAudit(s.stdin)
	}

	logging.C(ctx).Debug("Reading cargo-audit report", zap.String("path", s.path))
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cargo-audit report: %w", err)
	}
	defer f.Close()
	return ParseCargoAudit(f)
}

// containerSource runs cargo-audit inside a container.
type containerSource struct {
	dagger     dagger.Dagger
	projectDir string
	image      string
}

// Ensure containerSource implements Source.
var _ Source = (*containerSource)(nil)

// NewContainerSource returns a Source running cargo-audit on projectDir with Dagger.
func NewContainerSource(d dagger.Dagger, projectDir, image string) Source {
	return &containerSource{dagger: d, projectDir: projectDir, image: image}
}

func (s *containerSource) Fetch(ctx context.Context) ([]Vulnerability, error) {
	out, err := s.dagger.RunCargoAudit(ctx, dagger.RunCargoAuditParams{
		ProjectDir: s.projectDir,
		Image:      s.image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run cargo-audit: %w", err)
	}
	return ParseCargoAudit(bytes.NewReader(out))
}

func packageOf(v cargoAuditVulnerability) depgraph.Package {
	return depgraph.Package{
		Name:    v.Package.Name,
		Version: v.Package.Version,
		Source:  v.Package.Source,
	}
}
