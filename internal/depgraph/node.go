package depgraph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/compsolve/internal/component"
	"github.com/specialistvlad/compsolve/internal/version"
)

// nodeSet is an insertion-ordered set of nodes. Ordering keeps graph walks
// reproducible from one run to the next.
type nodeSet struct {
	items []*Node
	index map[*Node]struct{}
}

func (s *nodeSet) add(n *Node) bool {
	if s.has(n) {
		return false
	}
	if s.index == nil {
		s.index = make(map[*Node]struct{})
	}
	s.index[n] = struct{}{}
	s.items = append(s.items, n)
	return true
}

func (s *nodeSet) remove(n *Node) bool {
	if !s.has(n) {
		return false
	}
	delete(s.index, n)
	s.items = slices.DeleteFunc(s.items, func(m *Node) bool { return m == n })
	return true
}

func (s *nodeSet) has(n *Node) bool {
	_, ok := s.index[n]
	return ok
}

func (s *nodeSet) list() []*Node {
	return slices.Clone(s.items)
}

func (s *nodeSet) len() int {
	return len(s.items)
}

// Node is one component version inside a Graph.
type Node struct {
	component *component.Component
	// bonus is the per-graph copy of the component's bonus flag, so that
	// search branches can move it around without touching the component.
	bonus bool

	dependencies nodeSet
	optional     map[*Node]struct{}
	parents      nodeSet
	conflicts    nodeSet

	// onPath marks the node while a cycle walk is inside it.
	onPath bool
}

// NewNode wraps c. The node starts with c's bonus flag and no edges.
func NewNode(c *component.Component) *Node {
	return &Node{component: c, bonus: c.Bonus}
}

func (n *Node) Component() *component.Component { return n.component }
func (n *Node) Name() string                     { return n.component.Name }
func (n *Node) Long() version.Long               { return n.component.Long() }
func (n *Node) State() component.State           { return n.component.State }
func (n *Node) Installed() bool                  { return n.component.State == component.StateInstalled }
func (n *Node) Bonus() bool                      { return n.bonus }
func (n *Node) SetBonus(b bool)                  { n.bonus = b }
func (n *Node) String() string                   { return n.component.ID() }

// AddDependency records that n depends on other. It returns false when the
// edge already exists.
func (n *Node) AddDependency(other *Node, optional bool) bool {
	if !n.dependencies.add(other) {
		return false
	}
	other.parents.add(n)
	if optional {
		if n.optional == nil {
			n.optional = make(map[*Node]struct{})
		}
		n.optional[other] = struct{}{}
	}
	return true
}

// AddConflict records that n and other cannot both be installed. The edge is
// symmetric; it returns false when it already exists.
func (n *Node) AddConflict(other *Node) bool {
	if !n.conflicts.add(other) {
		return false
	}
	other.conflicts.add(n)
	return true
}

// IsOptional reports whether the dependency edge to dep came from an optional constraint.
func (n *Node) IsOptional(dep *Node) bool {
	_, ok := n.optional[dep]
	return ok
}

func (n *Node) Dependencies() []*Node { return n.dependencies.list() }
func (n *Node) Parents() []*Node      { return n.parents.list() }
func (n *Node) Conflicts() []*Node    { return n.conflicts.list() }
func (n *Node) HasParents() bool      { return n.parents.len() > 0 }

// ClearLinks detaches n from every node it is linked to. A node must be
// cleared before it moves to another graph.
func (n *Node) ClearLinks() {
	for _, dep := range n.dependencies.items {
		if !dep.parents.remove(n) {
			panic(fmt.Sprintf("depgraph: %s depends on %s but is not among its parents", n, dep))
		}
	}
	for _, parent := range n.parents.items {
		if !parent.dependencies.remove(n) {
			panic(fmt.Sprintf("depgraph: %s is a parent of %s but does not depend on it", parent, n))
		}
		delete(parent.optional, n)
	}
	for _, other := range n.conflicts.items {
		other.conflicts.remove(n)
	}
	n.dependencies = nodeSet{}
	n.parents = nodeSet{}
	n.conflicts = nodeSet{}
	n.optional = nil
}

// Compare orders n against other, two versions of the same component.
func (n *Node) Compare(other *Node, policy version.Policy) int {
	return policy.Compare(n.component.Key(), other.component.Key())
}
