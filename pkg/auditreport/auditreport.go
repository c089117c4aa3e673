// Package auditreport runs the conversion of a cargo-audit result into a
// dependency-scanning report.
package auditreport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/cryptellation/auditreport/pkg/adapters/dagger"
	"github.com/cryptellation/auditreport/pkg/adapters/github"
	"github.com/cryptellation/auditreport/pkg/advisory"
	"github.com/cryptellation/auditreport/pkg/config"
	"github.com/cryptellation/auditreport/pkg/depgraph"
	"github.com/cryptellation/auditreport/pkg/finding"
	"github.com/cryptellation/auditreport/pkg/logging"
	"github.com/cryptellation/auditreport/pkg/repo"
	"github.com/cryptellation/auditreport/pkg/report"
	"github.com/cryptellation/auditreport/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrNoRoots is returned when the lockfile declares no project or workspace member.
var ErrNoRoots = errors.New("no project or workspace roots in lockfile")

// Version is the analyzer version written in the scan block. It is set at
// build time.
var Version = "dev"

const unknownVersion = "unknown"

var analyzer = report.ToolInfo{
	ID:     "auditreport",
	Name:   "auditreport",
	Vendor: "cryptellation",
}

var scanner = report.ToolInfo{
	ID:      "cargo_audit",
	Name:    "cargo-audit",
	Version: unknownVersion,
	Vendor:  "RustSec",
}

// Runner represents the auditreport application that orchestrates lockfile
// loading, advisory fetching and report assembly.
type Runner struct {
	version    report.Version
	policy     depgraph.DirectPolicy
	ecosystem  depgraph.Ecosystem
	file       string
	loader     repo.LockfileLoader
	builder    depgraph.GraphBuilder
	source     advisory.Source
	normalizer *finding.Normalizer
	dagger     dagger.Dagger
	now        func() time.Time
}

// New creates a Runner from cfg. The GitHub token is only used when the
// lockfile is fetched from a repository; stdin feeds the "-" advisory path.
func New(ctx context.Context, cfg *config.Config, token string, stdin io.Reader) (*Runner, error) {
	version, err := report.ParseVersion(cfg.SchemaVersion)
	if err != nil {
		return nil, err
	}
	policy, err := depgraph.ParseDirectPolicy(cfg.DirectPolicy)
	if err != nil {
		return nil, err
	}
	ecosystem, err := depgraph.ParseEcosystem(cfg.Lockfile.Ecosystem)
	if err != nil {
		return nil, err
	}
	builder, err := depgraph.NewGraphBuilder(ecosystem)
	if err != nil {
		return nil, err
	}
	idMode, err := finding.ParseIDMode(cfg.Finding.IDMode)
	if err != nil {
		return nil, err
	}

	opts := finding.DefaultOptions()
	opts.IDMode = idMode
	opts.IdentifierType = cfg.Finding.IdentifierType
	opts.IdentifierURL = cfg.Finding.IdentifierURL

	paths := repo.LockfilePaths{Path: cfg.Lockfile.Path, GraphPath: cfg.Lockfile.GraphPath}
	var loader repo.LockfileLoader
	if cfg.Lockfile.Repository != "" {
		fetcher := repo.NewFilesFetcher(github.New(token))
		loader = repo.NewRemoteLoader(fetcher, cfg.Lockfile.Repository, cfg.Lockfile.Ref, paths)
	} else {
		loader = repo.NewLocalLoader(paths)
	}

	r := &Runner{
		version:    version,
		policy:     policy,
		ecosystem:  ecosystem,
		file:       cfg.Lockfile.Path,
		loader:     loader,
		builder:    builder,
		normalizer: finding.NewNormalizer(opts),
		now:        time.Now,
	}

	switch cfg.Advisories.Source {
	case "container":
		d, err := dagger.NewDagger(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create dagger adapter: %w", err)
		}
		r.dagger = d
		r.source = advisory.NewContainerSource(d, projectDir(cfg.Lockfile.Path), cfg.Advisories.Image)
	default:
		r.source = advisory.NewFileSource(cfg.Advisories.Path, stdin)
	}

	return r, nil
}

// Close closes the Runner and its resources.
func (r *Runner) Close() error {
	if r.dagger != nil {
		return r.dagger.Close()
	}
	return nil
}

// Run produces the report, writes it to out and a summary to summary.
// Nothing is written to out unless every stage succeeded.
func (r *Runner) Run(ctx context.Context, out, summary io.Writer) error {
	ctx, span := tracing.Start(ctx, "auditreport.Run")
	defer span.End()

	doc, err := r.generate(ctx)
	if err != nil {
		return tracing.RecordError(span, err)
	}

	if err := report.Encode(out, doc); err != nil {
		return tracing.RecordError(span, err)
	}
	if err := report.WriteSummary(summary, doc, r.ecosystem); err != nil {
		return tracing.RecordError(span, fmt.Errorf("failed to write summary: %w", err))
	}

	logging.C(ctx).Info("Report written",
		zap.String("schema_version", doc.Version),
		zap.Int("vulnerabilities", len(doc.Vulnerabilities)),
		zap.Int("dependency_files", len(doc.DependencyFiles)))
	return nil
}

func (r *Runner) generate(ctx context.Context) (*report.Document, error) {
	graph, err := r.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	roots := graph.Roots()
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRoots, r.file)
	}

	start := r.now()
	vulns, err := r.fetchVulnerabilities(ctx)
	if err != nil {
		return nil, err
	}
	end := r.now()

	findings := r.normalizer.NormalizeAll(vulns)
	resolutions := r.resolve(ctx, graph, roots)

	a := analyzer
	a.Version = Version
	return report.Assemble(report.Input{
		Version:     r.version,
		Graph:       graph,
		Resolutions: resolutions,
		Findings:    findings,
		File:        r.file,
		Scan: &report.ScanInfo{
			Analyzer: a,
			Scanner:  scanner,
			Start:    start,
			End:      end,
		},
	}), nil
}

func (r *Runner) loadGraph(ctx context.Context) (*depgraph.Graph, error) {
	ctx, span := tracing.Start(ctx, "auditreport.LoadGraph")
	defer span.End()

	lockfile, err := r.loader.Load(ctx)
	if err != nil {
		return nil, tracing.RecordError(span, fmt.Errorf("failed to load lockfile: %w", err))
	}
	graph, err := r.builder.BuildGraph(lockfile)
	if err != nil {
		return nil, tracing.RecordError(span, fmt.Errorf("failed to build dependency graph: %w", err))
	}

	span.SetAttributes(attribute.Int("graph.nodes", graph.Len()))
	logging.C(ctx).Debug("Dependency graph built",
		zap.String("lockfile", lockfile.Path),
		zap.String("ecosystem", string(graph.Ecosystem())),
		zap.Int("nodes", graph.Len()))
	return graph, nil
}

func (r *Runner) fetchVulnerabilities(ctx context.Context) ([]advisory.Vulnerability, error) {
	ctx, span := tracing.Start(ctx, "auditreport.FetchVulnerabilities")
	defer span.End()

	vulns, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, tracing.RecordError(span, fmt.Errorf("failed to fetch vulnerabilities: %w", err))
	}

	span.SetAttributes(attribute.Int("vulnerabilities", len(vulns)))
	for _, v := range vulns {
		logging.C(ctx).Debug("Vulnerability matched",
			zap.String("advisory", v.Advisory.ID),
			zap.String("purl", v.Package.PURL(r.ecosystem)))
	}
	return vulns, nil
}

func (r *Runner) resolve(ctx context.Context, graph *depgraph.Graph, roots []depgraph.IID) []*depgraph.Resolution {
	ctx, span := tracing.Start(ctx, "auditreport.Resolve")
	defer span.End()

	resolutions := make([]*depgraph.Resolution, 0, len(roots))
	for _, root := range roots {
		res := depgraph.Resolve(graph, root, r.policy)
		logging.C(ctx).Debug("Root resolved",
			zap.String("root", graph.Package(root).String()),
			zap.String("policy", r.policy.String()),
			zap.Int("dependencies", res.Len()))
		resolutions = append(resolutions, res)
	}
	span.SetAttributes(attribute.Int("roots", len(roots)))
	return resolutions
}

// projectDir is the directory holding the lockfile.
func projectDir(lockfilePath string) string {
	dir := filepath.Dir(lockfilePath)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
