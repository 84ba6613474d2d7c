package depgraph

import "github.com/specialistvlad/compsolve/internal/component"

// ConstructLinks scans every node's constraints against the version pools of
// g and adds the matching edges.
//
// Every matching version gets a dependency edge. Unless force is set, a
// required constraint with no match fails with UnsatisfiedDependencyError.
// With constructConflicts, matching conflicts become conflict edges and,
// unless force is set, fail with ConflictError.
func (g *Graph) ConstructLinks(constructConflicts, force bool) error {
	for _, n := range g.Nodes() {
		for _, req := range n.component.Requires {
			matches := g.matching(req, n)
			if len(matches) == 0 && !req.Optional && !force {
				return &UnsatisfiedDependencyError{Component: n.component, Constraint: req}
			}
			for _, m := range matches {
				n.AddDependency(m, req.Optional)
			}
		}

		if !constructConflicts {
			continue
		}
		for _, con := range n.component.Conflicts {
			for _, m := range g.matching(con, n) {
				n.AddConflict(m)
				if !force {
					return &ConflictError{Component: n.component, Other: m.component, Constraint: con}
				}
			}
		}
	}
	return nil
}

// matching returns the nodes of con's pool that satisfy it, oldest first.
func (g *Graph) matching(con component.Constraint, self *Node) []*Node {
	var out []*Node
	for _, candidate := range g.NodesSorted(con.Name, true) {
		if candidate == self {
			continue
		}
		if con.Matches(candidate.component) {
			out = append(out, candidate)
		}
	}
	return out
}

// Unsatisfied lists every required constraint that matches no node of g,
// in node order. It does not touch the edges.
func (g *Graph) Unsatisfied() []*UnsatisfiedDependencyError {
	var out []*UnsatisfiedDependencyError
	for _, n := range g.Nodes() {
		for _, req := range n.component.Requires {
			if req.Optional || len(g.matching(req, n)) > 0 {
				continue
			}
			out = append(out, &UnsatisfiedDependencyError{Component: n.component, Constraint: req})
		}
	}
	return out
}
