//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -destination=mock_builder.gen.go -package=depgraph -source=builder.go GraphBuilder
package depgraph

import (
	"errors"
	"fmt"
)

// ErrUnknownPackage is returned when a lockfile references a package it does not define.
var ErrUnknownPackage = errors.New("unknown package")

// Lockfile is the input of a builder: the lockfile content and, for
// ecosystems whose lockfile lacks edges, the dependency graph listing.
type Lockfile struct {
	Path    string
	Content []byte
	Graph   []byte
}

// GraphBuilder defines the interface for building dependency graphs.
type GraphBuilder interface {
	BuildGraph(lockfile Lockfile) (*Graph, error)
}

// NewGraphBuilder returns the builder for the given ecosystem.
func NewGraphBuilder(ecosystem Ecosystem) (GraphBuilder, error) {
	switch ecosystem {
	case EcosystemCargo:
		return NewCargoBuilder(), nil
	case EcosystemGo:
		return NewGoModBuilder(), nil
	default:
		return nil, fmt.Errorf("unsupported ecosystem: %s", ecosystem)
	}
}
