//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=lockfile.go -destination=mock_lockfile.gen.go -package=repo
package repo

import (
	"context"
	"fmt"
	"os"

	"github.com/cryptellation/auditreport/pkg/depgraph"
)

// LockfileLoader loads the lockfile of the scanned project.
type LockfileLoader interface {
	Load(ctx context.Context) (depgraph.Lockfile, error)
}

// LockfilePaths locates a lockfile and its optional graph listing.
type LockfilePaths struct {
	Path      string
	GraphPath string
}

type localLoader struct {
	paths LockfilePaths
}

// NewLocalLoader reads the lockfile from the filesystem.
func NewLocalLoader(paths LockfilePaths) LockfileLoader {
	return &localLoader{paths: paths}
}

func (l *localLoader) Load(_ context.Context) (depgraph.Lockfile, error) {
	lf := depgraph.Lockfile{Path: l.paths.Path}

	content, err := os.ReadFile(l.paths.Path)
	if err != nil {
		return depgraph.Lockfile{}, fmt.Errorf("failed to read lockfile: %w", err)
	}
	lf.Content = content

	if l.paths.GraphPath != "" {
		graph, err := os.ReadFile(l.paths.GraphPath)
		if err != nil {
			return depgraph.Lockfile{}, fmt.Errorf("failed to read dependency graph: %w", err)
		}
		lf.Graph = graph
	}
	return lf, nil
}

type remoteLoader struct {
	fetcher FilesFetcher
	repoURL string
	ref     string
	paths   LockfilePaths
}

// NewRemoteLoader fetches the lockfile from a GitHub repository at ref.
func NewRemoteLoader(fetcher FilesFetcher, repoURL, ref string, paths LockfilePaths) LockfileLoader {
	return &remoteLoader{
		fetcher: fetcher,
		repoURL: repoURL,
		ref:     ref,
		paths:   paths,
	}
}

func (l *remoteLoader) Load(ctx context.Context) (depgraph.Lockfile, error) {
	files := []string{l.paths.Path}
	if l.paths.GraphPath != "" {
		files = append(files, l.paths.GraphPath)
	}

	contents, err := l.fetcher.Fetch(ctx, l.repoURL, l.ref, files...)
	if err != nil {
		return depgraph.Lockfile{}, fmt.Errorf("failed to fetch lockfile from %s: %w", l.repoURL, err)
	}

	lf := depgraph.Lockfile{
		Path:    l.paths.Path,
		Content: contents[l.paths.Path],
	}
	if l.paths.GraphPath != "" {
		lf.Graph = contents[l.paths.GraphPath]
	}
	return lf, nil
}
