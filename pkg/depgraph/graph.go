package depgraph

import "fmt"

// IID is the handle of a graph node. Handles are dense, start at 1 and are
// only meaningful for the graph that issued them.
type IID uint64

// Graph is a directed dependency graph: an edge u→v means u depends on v.
// Nodes live in an arena indexed by IID-1. A graph is filled by a builder
// and must not be modified once handed to the resolver.
type Graph struct {
	ecosystem Ecosystem
	packages  []Package
	deps      [][]IID
	index     map[Package]IID
}

func NewGraph(ecosystem Ecosystem) *Graph {
	return &Graph{
		ecosystem: ecosystem,
		index:     make(map[Package]IID),
	}
}

func (g *Graph) Ecosystem() Ecosystem {
	return g.ecosystem
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.packages)
}

// AddPackage inserts p and returns its handle. Adding the same package twice
// returns the existing handle.
func (g *Graph) AddPackage(p Package) IID {
	if id, ok := g.index[p]; ok {
		return id
	}
	g.packages = append(g.packages, p)
	g.deps = append(g.deps, nil)
	id := IID(len(g.packages))
	g.index[p] = id
	return id
}

// AddEdge records that from depends on to. Both handles must belong to g.
func (g *Graph) AddEdge(from, to IID) {
	g.mustContain(from)
	g.mustContain(to)
	g.deps[from-1] = append(g.deps[from-1], to)
}

// Package returns the package behind id.
func (g *Graph) Package(id IID) Package {
	g.mustContain(id)
	return g.packages[id-1]
}

// Dependencies returns the out-neighbors of id in insertion order.
// The returned slice must not be modified.
func (g *Graph) Dependencies(id IID) []IID {
	g.mustContain(id)
	return g.deps[id-1]
}

// Roots returns the local packages in insertion order.
func (g *Graph) Roots() []IID {
	var roots []IID
	for i, p := range g.packages {
		if p.IsLocal() {
			roots = append(roots, IID(i+1))
		}
	}
	return roots
}

// Lookup finds the node of p. When no node matches p exactly, the first node
// with the same name and version is returned.
func (g *Graph) Lookup(p Package) (IID, bool) {
	if id, ok := g.index[p]; ok {
		return id, true
	}
	for i, candidate := range g.packages {
		if candidate.Name == p.Name && candidate.Version == p.Version {
			return IID(i + 1), true
		}
	}
	return 0, false
}

func (g *Graph) mustContain(id IID) {
	if id == 0 || int(id) > len(g.packages) {
		panic(fmt.Sprintf("depgraph: node %d does not belong to the graph (%d nodes)", id, len(g.packages)))
	}
}
