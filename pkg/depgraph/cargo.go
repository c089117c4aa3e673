package depgraph

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type cargoLock struct {
	Version  int            `toml:"version"`
	Packages []cargoPackage `toml:"package"`
}

type cargoPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Dependencies []string `toml:"dependencies"`
}

type cargoBuilder struct{}

// NewCargoBuilder returns a builder reading Cargo.lock files.
func NewCargoBuilder() GraphBuilder {
	return &cargoBuilder{}
}

func (b *cargoBuilder) BuildGraph(lockfile Lockfile) (*Graph, error) {
	var lock cargoLock
	if err := toml.Unmarshal(lockfile.Content, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", lockfile.Path, err)
	}

	// First pass: create all nodes (no dependencies yet)
	g := NewGraph(EcosystemCargo)
	ids := make([]IID, len(lock.Packages))
	byName := make(map[string][]int)
	for i, p := range lock.Packages {
		if p.Name == "" || p.Version == "" {
			return nil, fmt.Errorf("package #%d in %s has no name or version", i+1, lockfile.Path)
		}
		ids[i] = g.AddPackage(Package{Name: p.Name, Version: p.Version, Source: p.Source})
		byName[p.Name] = append(byName[p.Name], i)
	}

	// Second pass: resolve dependency specs and wire edges
	for i, p := range lock.Packages {
		for _, spec := range p.Dependencies {
			j, err := resolveCargoSpec(lock.Packages, byName, spec)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dependency of %s %s: %w", p.Name, p.Version, err)
			}
			g.AddEdge(ids[i], ids[j])
		}
	}
	return g, nil
}

// resolveCargoSpec finds the package a dependency entry refers to. Entries are
// "name", "name version" or "name version (source)"; the short forms are only
// written by cargo when they are unambiguous.
func resolveCargoSpec(packages []cargoPackage, byName map[string][]int, spec string) (int, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty dependency entry")
	}
	name := fields[0]
	var version, source string
	if len(fields) > 1 {
		version = fields[1]
	}
	if len(fields) > 2 {
		source = strings.TrimSuffix(strings.TrimPrefix(fields[2], "("), ")")
	}

	var matches []int
	for _, i := range byName[name] {
		if version != "" && packages[i].Version != version {
			continue
		}
		if source != "" && packages[i].Source != source {
			continue
		}
		matches = append(matches, i)
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPackage, spec)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("ambiguous dependency entry %q matches %d packages", spec, len(matches))
	}
}
