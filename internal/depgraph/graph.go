package depgraph

import (
	"slices"
	"sort"

	"github.com/specialistvlad/compsolve/internal/component"
	"github.com/specialistvlad/compsolve/internal/version"
)

// Graph maps component names to their version pools.
//
// A (name, version, build) key occurs at most once per graph.
type Graph struct {
	pools  map[string]map[version.Long]*Node
	policy version.Policy
}

// New creates an empty graph ordering versions with policy.
func New(policy version.Policy) *Graph {
	if policy == nil {
		policy = version.PromoteNewest{}
	}
	return &Graph{
		pools:  make(map[string]map[version.Long]*Node),
		policy: policy,
	}
}

// Policy returns the ordering policy of g.
func (g *Graph) Policy() version.Policy { return g.policy }

// AddNode inserts n. It returns false, leaving g untouched, when a node with
// the same key is already present.
func (g *Graph) AddNode(n *Node) bool {
	pool, ok := g.pools[n.Name()]
	if !ok {
		pool = make(map[version.Long]*Node)
		g.pools[n.Name()] = pool
	}
	if _, exists := pool[n.Long()]; exists {
		return false
	}
	pool[n.Long()] = n
	return true
}

// AddComponent wraps c in a new node and inserts it.
func (g *Graph) AddComponent(c *component.Component) (*Node, bool) {
	n := NewNode(c)
	if !g.AddNode(n) {
		return g.pools[c.Name][c.Long()], false
	}
	return n, true
}

// RemoveNode deletes n from g. Its edges are left alone.
func (g *Graph) RemoveNode(n *Node) bool {
	pool, ok := g.pools[n.Name()]
	if !ok || pool[n.Long()] != n {
		return false
	}
	delete(pool, n.Long())
	if len(pool) == 0 {
		delete(g.pools, n.Name())
	}
	return true
}

// Contains reports whether n itself is a member of g.
func (g *Graph) Contains(n *Node) bool {
	return g.pools[n.Name()][n.Long()] == n
}

// Lookup finds the node of c's key.
func (g *Graph) Lookup(c *component.Component) (*Node, bool) {
	n, ok := g.pools[c.Name][c.Long()]
	return n, ok
}

// Names returns the component names present in g, sorted.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.pools))
	for name := range g.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of nodes in g.
func (g *Graph) Len() int {
	total := 0
	for _, pool := range g.pools {
		total += len(pool)
	}
	return total
}

// PoolSize returns the number of versions of name in g.
func (g *Graph) PoolSize(name string) int {
	return len(g.pools[name])
}

// NodesSorted returns the version pool of name ordered by the graph policy,
// oldest first when ascending is true.
func (g *Graph) NodesSorted(name string, ascending bool) []*Node {
	pool := g.pools[name]
	nodes := make([]*Node, 0, len(pool))
	for _, n := range pool {
		nodes = append(nodes, n)
	}
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		c := a.Compare(b, g.policy)
		if c == 0 {
			// policy ties still need a stable answer
			c = a.Long().Compare(b.Long())
		}
		if !ascending {
			c = -c
		}
		return c
	})
	return nodes
}

// Latest returns the newest version of name, or nil.
func (g *Graph) Latest(name string) *Node {
	nodes := g.NodesSorted(name, true)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[len(nodes)-1]
}

// Nodes returns every node, grouped by name and oldest first within a name.
func (g *Graph) Nodes() []*Node {
	var out []*Node
	for _, name := range g.Names() {
		out = append(out, g.NodesSorted(name, true)...)
	}
	return out
}

// UpgradeToNode collapses the version pool of n's name to n alone and
// returns the displaced nodes, oldest first. n must already be in g.
// Displaced nodes keep their edges; clear them before reuse.
func (g *Graph) UpgradeToNode(n *Node) []*Node {
	var displaced []*Node
	for _, other := range g.NodesSorted(n.Name(), true) {
		if other == n {
			continue
		}
		g.RemoveNode(other)
		displaced = append(displaced, other)
	}
	return displaced
}

// Copy returns a graph with fresh, edge-free nodes wrapping the same
// components and carrying the same bonus flags.
func (g *Graph) Copy() *Graph {
	c := New(g.policy)
	for name, pool := range g.pools {
		cp := make(map[version.Long]*Node, len(pool))
		for key, n := range pool {
			cp[key] = &Node{component: n.component, bonus: n.bonus}
		}
		c.pools[name] = cp
	}
	return c
}

// ClearLinks removes every edge between the nodes of g.
func (g *Graph) ClearLinks() {
	for _, n := range g.Nodes() {
		n.ClearLinks()
	}
}
