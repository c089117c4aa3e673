//go:build unit
// +build unit

package depgraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const workspaceLock = `
version = 3

[[package]]
name = "app"
version = "0.1.0"
dependencies = [
 "serde",
 "tokio 1.28.0",
]

[[package]]
name = "cli"
version = "0.1.0"
dependencies = [
 "app",
 "tokio 1.20.0 (registry+https://github.com/rust-lang/crates.io-index)",
]

[[package]]
name = "serde"
version = "1.0.160"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "bb2f3770c8bce3bcda7e149193a069a0f4365bda1fa5cd88e03bca26afc1216c"

[[package]]
name = "tokio"
version = "1.20.0"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "tokio"
version = "1.28.0"
source = "registry+https://github.com/rust-lang/crates.io-index"
dependencies = [
 "serde",
]
`

func TestCargoBuilder_Workspace(t *testing.T) {
	g, err := NewCargoBuilder().BuildGraph(Lockfile{Path: "Cargo.lock", Content: []byte(workspaceLock)})
	require.NoError(t, err)
	require.Equal(t, EcosystemCargo, g.Ecosystem())
	require.Equal(t, 5, g.Len())

	roots := g.Roots()
	require.Len(t, roots, 2)
	require.Equal(t, "app", g.Package(roots[0]).Name)
	require.Equal(t, "cli", g.Package(roots[1]).Name)

	app := roots[0]
	var deps []Package
	for _, id := range g.Dependencies(app) {
		deps = append(deps, g.Package(id))
	}
	require.Equal(t, []Package{
		{Name: "serde", Version: "1.0.160", Source: registry},
		{Name: "tokio", Version: "1.28.0", Source: registry},
	}, deps)

	cli := roots[1]
	require.Len(t, g.Dependencies(cli), 2)
	require.Equal(t, "1.20.0", g.Package(g.Dependencies(cli)[1]).Version)
}

func TestCargoBuilder_UnknownDependency(t *testing.T) {
	lock := `
[[package]]
name = "app"
version = "0.1.0"
dependencies = ["missing"]
`
	_, err := NewCargoBuilder().BuildGraph(Lockfile{Path: "Cargo.lock", Content: []byte(lock)})
	require.ErrorIs(t, err, ErrUnknownPackage)
}

func TestCargoBuilder_AmbiguousDependency(t *testing.T) {
	lock := `
[[package]]
name = "app"
version = "0.1.0"
dependencies = ["tokio"]

[[package]]
name = "tokio"
version = "1.0.0"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "tokio"
version = "2.0.0"
source = "registry+https://github.com/rust-lang/crates.io-index"
`
	_, err := NewCargoBuilder().BuildGraph(Lockfile{Path: "Cargo.lock", Content: []byte(lock)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "ambiguous")
}

func TestCargoBuilder_InvalidToml(t *testing.T) {
	_, err := NewCargoBuilder().BuildGraph(Lockfile{Path: "Cargo.lock", Content: []byte("[[package]\nname =")})
	require.Error(t, err)
}

func TestCargoBuilder_PackageWithoutVersion(t *testing.T) {
	_, err := NewCargoBuilder().BuildGraph(Lockfile{Path: "Cargo.lock", Content: []byte("[[package]]\nname = \"app\"\n")})
	require.Error(t, err)
}

const goMod = `module github.com/example/app

go 1.22

require github.com/example/lib v1.2.0
`

const goModGraph = `github.com/example/app github.com/example/lib@v1.2.0
github.com/example/app go@1.22
github.com/example/lib@v1.2.0 golang.org/x/text@v0.14.0
github.com/example/tool golang.org/x/text@v0.14.0
`

func TestGoModBuilder(t *testing.T) {
	g, err := NewGoModBuilder().BuildGraph(Lockfile{
		Path:    "go.mod",
		Content: []byte(goMod),
		Graph:   []byte(goModGraph),
	})
	require.NoError(t, err)
	require.Equal(t, EcosystemGo, g.Ecosystem())
	require.Equal(t, 4, g.Len())

	roots := g.Roots()
	require.Len(t, roots, 2)
	require.Equal(t, Package{Name: "github.com/example/app"}, g.Package(roots[0]))
	require.Equal(t, Package{Name: "github.com/example/tool"}, g.Package(roots[1]))

	lib, ok := g.Lookup(Package{Name: "github.com/example/lib", Version: "v1.2.0", Source: GoModuleSource})
	require.True(t, ok)
	require.Equal(t, []IID{lib}, g.Dependencies(roots[0]))
}

func TestGoModBuilder_InvalidVersion(t *testing.T) {
	_, err := NewGoModBuilder().BuildGraph(Lockfile{
		Path:    "go.mod",
		Content: []byte(goMod),
		Graph:   []byte("github.com/example/app github.com/example/lib@latest\n"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid version")
}

func TestGoModBuilder_MalformedLine(t *testing.T) {
	_, err := NewGoModBuilder().BuildGraph(Lockfile{
		Path:    "go.mod",
		Content: []byte(goMod),
		Graph:   []byte("github.com/example/app\n"),
	})
	require.Error(t, err)
}

func TestGoModBuilder_NoModuleDirective(t *testing.T) {
	_, err := NewGoModBuilder().BuildGraph(Lockfile{Path: "go.mod", Content: []byte("go 1.22\n")})
	require.Error(t, err)
}

func TestNewGraphBuilder(t *testing.T) {
	b, err := NewGraphBuilder(EcosystemCargo)
	require.NoError(t, err)
	require.IsType(t, &cargoBuilder{}, b)

	b, err = NewGraphBuilder(EcosystemGo)
	require.NoError(t, err)
	require.IsType(t, &goModBuilder{}, b)

	_, err = NewGraphBuilder(Ecosystem("npm"))
	require.Error(t, err)
}
