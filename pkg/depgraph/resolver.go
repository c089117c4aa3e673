package depgraph

import "fmt"

// DirectPolicy decides how a dependency is classified as direct.
type DirectPolicy int

const (
	// PolicyAdjacency traverses breadth-first and marks a node direct iff it
	// is an immediate out-neighbor of the root.
	PolicyAdjacency DirectPolicy = iota
	// PolicyDiscovery reproduces the older depth-first behaviour: a node is
	// direct iff it was discovered by the root itself. A node reachable both
	// directly and through an earlier sibling comes out transitive.
	PolicyDiscovery
)

// ParseDirectPolicy parses a configured policy name.
func ParseDirectPolicy(s string) (DirectPolicy, error) {
	switch s {
	case "adjacency", "":
		return PolicyAdjacency, nil
	case "discovery":
		return PolicyDiscovery, nil
	default:
		return 0, fmt.Errorf("unsupported direct policy: %s", s)
	}
}

func (p DirectPolicy) String() string {
	if p == PolicyDiscovery {
		return "discovery"
	}
	return "adjacency"
}

// Entry is the position of one reachable node relative to a root.
// Path lists the intermediate nodes in root-to-node order; it never contains
// the root or the node itself.
type Entry struct {
	IID    IID
	Direct bool
	Path   []IID
}

// Resolution holds every node reachable from Root, once each, in discovery order.
type Resolution struct {
	Root    IID
	Entries []Entry
	byIID   map[IID]int
}

// Get returns the entry of id, if id is reachable from the root.
func (r *Resolution) Get(id IID) (Entry, bool) {
	i, ok := r.byIID[id]
	if !ok {
		return Entry{}, false
	}
	return r.Entries[i], true
}

func (r *Resolution) Len() int {
	return len(r.Entries)
}

// Resolve walks g from root and classifies every reachable node.
//
// When several shortest paths lead to a node, the predecessor dequeued first
// wins, following the insertion order of edges. The result is stable for a
// given graph value but two graphs describing the same dependencies in a
// different order may produce different paths.
func Resolve(g *Graph, root IID, policy DirectPolicy) *Resolution {
	g.mustContain(root)

	// pred[id] is the node that discovered id; 0 means undiscovered.
	pred := make([]IID, g.Len()+1)
	pred[root] = root

	var order []IID
	if policy == PolicyDiscovery {
		order = discoverDepthFirst(g, root, pred)
	} else {
		order = discoverBreadthFirst(g, root, pred)
	}

	adjacent := make(map[IID]bool, len(g.Dependencies(root)))
	for _, id := range g.Dependencies(root) {
		adjacent[id] = true
	}

	res := &Resolution{
		Root:    root,
		Entries: make([]Entry, 0, len(order)),
		byIID:   make(map[IID]int, len(order)),
	}
	for _, id := range order {
		path := pathTo(pred, root, id)
		direct := adjacent[id]
		if policy == PolicyDiscovery {
			direct = len(path) == 0
		}
		res.byIID[id] = len(res.Entries)
		res.Entries = append(res.Entries, Entry{IID: id, Direct: direct, Path: path})
	}
	return res
}

func discoverBreadthFirst(g *Graph, root IID, pred []IID) []IID {
	var order []IID
	queue := []IID{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Dependencies(cur) {
			if pred[next] != 0 {
				continue
			}
			pred[next] = cur
			order = append(order, next)
			queue = append(queue, next)
		}
	}
	return order
}

func discoverDepthFirst(g *Graph, root IID, pred []IID) []IID {
	type frame struct {
		node IID
		next int
	}

	var order []IID
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := g.Dependencies(top.node)
		if top.next >= len(deps) {
			stack = stack[:len(stack)-1]
			continue
		}
		next := deps[top.next]
		top.next++
		if pred[next] != 0 {
			continue
		}
		pred[next] = top.node
		order = append(order, next)
		stack = append(stack, frame{node: next})
	}
	return order
}

// pathTo walks predecessors from id back to root and returns the
// intermediate nodes in root-to-node order.
func pathTo(pred []IID, root, id IID) []IID {
	var path []IID
	for cur := pred[id]; cur != root; cur = pred[cur] {
		if cur == 0 {
			panic(fmt.Sprintf("depgraph: no predecessor recorded on the path to node %d", id))
		}
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
