//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=files_fetcher.go -destination=mock_files_fetcher.gen.go -package=repo
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cryptellation/auditreport/pkg/adapters/github"
)

// ErrInvalidRepoURL is returned when the repository URL cannot be parsed.
var ErrInvalidRepoURL = errors.New("invalid repository URL")

// FilesFetcher defines the interface for fetching repository files.
type FilesFetcher interface {
	Fetch(ctx context.Context, repoURL, ref string, files ...string) (map[string][]byte, error)
}

// fetcher fetches content from repositories using the GitHub adapter.
type fetcher struct {
	client github.Client
}

// Ensure fetcher implements FilesFetcher.
var _ FilesFetcher = (*fetcher)(nil)

func NewFilesFetcher(client github.Client) FilesFetcher {
	return &fetcher{client: client}
}

// Fetch fetches the content of the given files from the specified repository URL and ref.
func (f *fetcher) Fetch(
	ctx context.Context,
	repoURL, ref string,
	files ...string,
) (map[string][]byte, error) {
	owner, name := parseOwnerAndRepo(repoURL)
	if owner == "" || name == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRepoURL, repoURL)
	}
	results := make(map[string][]byte, len(files))
	for _, file := range files {
		content, err := f.client.GetFileContent(ctx, github.GetFileContentParams{
			Owner: owner,
			Repo:  name,
			Path:  file,
			Ref:   ref,
		})
		if err != nil {
			return nil, err
		}
		results[file] = content
	}
	return results, nil
}

// parseOwnerAndRepo extracts the owner and repo name from a GitHub URL such
// as https://github.com/owner/repo.git.
func parseOwnerAndRepo(url string) (owner, repo string) {
	const prefix = "github.com/"
	idx := strings.Index(url, prefix)
	if idx == -1 {
		return "", ""
	}
	rest := strings.TrimSuffix(strings.TrimSuffix(url[idx+len(prefix):], "/"), ".git")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ""
	}
	return parts[0], parts[1]
}
