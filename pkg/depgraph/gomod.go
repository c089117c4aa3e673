package depgraph

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
)

// GoModuleSource marks modules fetched from outside the workspace.
const GoModuleSource = "proxy.golang.org"

type goModBuilder struct{}

// NewGoModBuilder returns a builder reading a go.mod file (for the main
// module) and the output of `go mod graph` (for the edges).
func NewGoModBuilder() GraphBuilder {
	return &goModBuilder{}
}

func (b *goModBuilder) BuildGraph(lockfile Lockfile) (*Graph, error) {
	mf, err := modfile.Parse(lockfile.Path, lockfile.Content, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", lockfile.Path, err)
	}
	if mf.Module == nil {
		return nil, fmt.Errorf("no module directive in %s", lockfile.Path)
	}

	g := NewGraph(EcosystemGo)
	g.AddPackage(Package{Name: mf.Module.Mod.Path})

	scanner := bufio.NewScanner(bytes.NewReader(lockfile.Graph))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed module graph line %d: %q", line, scanner.Text())
		}
		from, err := parseGoModule(fields[0])
		if err != nil {
			return nil, fmt.Errorf("module graph line %d: %w", line, err)
		}
		to, err := parseGoModule(fields[1])
		if err != nil {
			return nil, fmt.Errorf("module graph line %d: %w", line, err)
		}
		// go and toolchain requirements are not modules.
		if isGoDirective(from) || isGoDirective(to) {
			continue
		}
		g.AddEdge(g.AddPackage(from), g.AddPackage(to))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read module graph: %w", err)
	}
	return g, nil
}

// parseGoModule parses "path" (a workspace module) or "path@version".
func parseGoModule(s string) (Package, error) {
	path, version, found := strings.Cut(s, "@")
	if !found {
		return Package{Name: path}, nil
	}
	if path == "go" || path == "toolchain" {
		return Package{Name: path, Version: version, Source: GoModuleSource}, nil
	}
	if !semver.IsValid(version) {
		return Package{}, fmt.Errorf("invalid version %q for module %s", version, path)
	}
	return Package{Name: path, Version: version, Source: GoModuleSource}, nil
}

func isGoDirective(p Package) bool {
	return p.Name == "go" || p.Name == "toolchain"
}
