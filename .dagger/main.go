// CI functions for auditreport
//
// The functions run the unit tests, the integration tests against GitHub and
// Dagger, and the linters on the main module and on this one.

package main

import (
	"dagger/auditreport/internal/dagger"
)

type Auditreport struct{}

// UnitTests runs the unit-tagged tests of the whole module.
func (m *Auditreport) UnitTests(sourceDir *dagger.Directory) *dagger.Container {
	return goContainer(sourceDir).
		WithExec([]string{"go", "test", "-tags", "unit", "./...", "-v"})
}

// IntegrationTests runs the integration-tagged tests of the adapters.
func (m *Auditreport) IntegrationTests(sourceDir *dagger.Directory, githubToken *dagger.Secret) *dagger.Container {
	return goContainer(sourceDir).
		WithSecretVariable("GITHUB_TOKEN", githubToken).
		WithExec([]string{"go", "test", "-tags", "integration", "./pkg/adapters/...", "-v"})
}

// Lint runs golangci-lint on the main repo (./...) only.
func (m *Auditreport) Lint(sourceDir *dagger.Directory) *dagger.Container {
	c := lintContainer(sourceDir)
	return c.WithExec([]string{"golangci-lint", "run", "--build-tags", "unit,integration", "--timeout", "10m", "./..."})
}

// LintDagger runs golangci-lint on the .dagger directory only.
func (m *Auditreport) LintDagger(sourceDir *dagger.Directory) *dagger.Container {
	c := lintContainer(sourceDir)
	return c.WithExec([]string{"sh", "-c", "cd .dagger && golangci-lint run --config ../.golangci.yml --timeout 10m ."})
}

func goContainer(sourceDir *dagger.Directory) *dagger.Container {
	return dag.Container().From("golang:1.24").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("auditreport-gomod")).
		WithMountedDirectory("/src", sourceDir).
		WithWorkdir("/src")
}

func lintContainer(sourceDir *dagger.Directory) *dagger.Container {
	return dag.Container().
		From("golangci/golangci-lint:v1.62.0").
		WithMountedCache("/root/.cache/golangci-lint", dag.CacheVolume("golangci-lint")).
		WithMountedDirectory("/src", sourceDir).
		WithWorkdir("/src")
}
