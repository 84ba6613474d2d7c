package depgraph

import (
	"slices"

	"github.com/specialistvlad/compsolve/internal/component"
)

// CheckCycles walks the dependency edges depth first and fails on the first
// node reached again while it is still on the current path.
func (g *Graph) CheckCycles() error {
	nodes := g.Nodes()
	defer func() {
		for _, n := range nodes {
			n.onPath = false
		}
	}()

	done := make(map[*Node]bool, len(nodes))
	var path []*Node

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if n.onPath {
			return cycleError(n, path)
		}
		if done[n] {
			return nil
		}
		n.onPath = true
		path = append(path, n)
		for _, dep := range n.dependencies.items {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		n.onPath = false
		done[n] = true
		return nil
	}

	for _, n := range nodes {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

func cycleError(n *Node, path []*Node) error {
	start := slices.Index(path, n)
	var names []string
	if start >= 0 {
		for _, p := range path[start:] {
			names = append(names, p.String())
		}
		names = append(names, n.String())
	}
	return &CycleError{Component: n.component, Path: names}
}

// ToList linearizes g so that every node comes after its dependencies.
//
// The walk starts at the root nodes, the ones nothing depends on. Only
// components in the given state are emitted; StateUnknown emits all. With
// allNodes, nodes no root reaches are emitted after the rest. With sorted,
// dependencies are visited by name and version instead of insertion order.
func (g *Graph) ToList(state component.State, allNodes, sorted bool) []*component.Component {
	visited := make(map[*Node]bool)
	var out []*component.Component

	var visit func(n *Node)
	visit = func(n *Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		deps := n.Dependencies()
		if sorted {
			slices.SortFunc(deps, func(a, b *Node) int {
				if a.Name() != b.Name() {
					if a.Name() < b.Name() {
						return -1
					}
					return 1
				}
				return a.Long().Compare(b.Long())
			})
		}
		for _, dep := range deps {
			visit(dep)
		}
		if state == component.StateUnknown || n.State() == state {
			out = append(out, n.component)
		}
	}

	nodes := g.Nodes()
	for _, n := range nodes {
		if !n.HasParents() {
			visit(n)
		}
	}
	if allNodes {
		for _, n := range nodes {
			visit(n)
		}
	}
	return out
}
