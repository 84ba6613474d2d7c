package resolver

import (
	"errors"
	"slices"
	"strings"

	"github.com/specialistvlad/compsolve/internal/depgraph"
	"github.com/specialistvlad/compsolve/internal/searchtrace"
)

// solution is the pair of graphs a successful branch ends with.
type solution struct {
	pos, neg *depgraph.Graph
}

// search picks one version for every name that still has several
// candidates. Names that allow multiple versions go first.
func (rn *run) search(pos, neg *depgraph.Graph) (*solution, error) {
	var names []string
	for _, name := range pos.Names() {
		if pos.PoolSize(name) > 1 {
			names = append(names, name)
		}
	}
	slices.SortStableFunc(names, func(a, b string) int {
		ma, mb := multiVersion(pos, a), multiVersion(pos, b)
		switch {
		case ma && !mb:
			return -1
		case mb && !ma:
			return 1
		}
		return 0
	})
	if len(names) > 0 {
		rn.logger.Debug("Searching versions.", "names", names)
	}
	return rn.solve(pos, neg, names, 0, searchtrace.Root)
}

func (rn *run) solve(pos, neg *depgraph.Graph, names []string, depth, parent int) (*solution, error) {
	if depth == len(names) {
		return rn.finish(pos, neg)
	}
	name := names[depth]

	var retained error
	for _, keep := range rn.assignments(pos, name) {
		if rn.budget > 0 && rn.trace.Branches() >= rn.budget {
			return nil, &BudgetError{Budget: rn.budget}
		}
		id := rn.trace.Begin(parent, depth, name, label(keep))

		p, n := pos.Copy(), neg.Copy()
		rn.assign(p, n, name, keep)

		sol, err := rn.solve(p, n, names, depth+1, id)
		if err == nil {
			rn.trace.Accept(id)
			return sol, nil
		}
		if errors.Is(err, ErrBudgetExceeded) {
			return nil, err
		}
		rn.trace.Reject(id, err)
		rn.logger.Debug("Rejected search branch.", "name", name, "candidate", label(keep), "error", err)
		if retained == nil || rank(err) > rank(retained) {
			retained = err
		}
	}
	return nil, retained
}

// assignments lists the version sets to try for name, most preferred first.
func (rn *run) assignments(pos *depgraph.Graph, name string) [][]*depgraph.Node {
	nodes := pos.NodesSorted(name, false)
	var out [][]*depgraph.Node

	newest := nodes[0]
	var installed *depgraph.Node
	if multiVersion(pos, name) && !newest.Installed() {
		for _, n := range nodes {
			if n.Installed() {
				installed = n
				break
			}
		}
	}
	if installed != nil {
		out = append(out, []*depgraph.Node{installed, newest}, []*depgraph.Node{newest})
	}
	for _, n := range nodes {
		if installed != nil && n == newest {
			continue
		}
		out = append(out, []*depgraph.Node{n})
	}
	return out
}

// assign collapses the pool of name in p to the nodes of keep, moving the
// rest to n. A displaced node hands its bonus to the newest kept node.
func (rn *run) assign(p, n *depgraph.Graph, name string, keep []*depgraph.Node) {
	kept := make([]*depgraph.Node, 0, len(keep))
	for _, k := range keep {
		node, _ := p.Lookup(k.Component())
		kept = append(kept, node)
	}
	heir := kept[len(kept)-1]
	for _, k := range kept {
		if k.Compare(heir, p.Policy()) > 0 {
			heir = k
		}
	}

	for _, node := range p.NodesSorted(name, true) {
		if slices.Contains(kept, node) {
			continue
		}
		p.RemoveNode(node)
		n.AddNode(node)
		if node.Bonus() {
			node.SetBonus(false)
			heir.SetBonus(true)
		}
	}
}

// finish validates a complete assignment.
func (rn *run) finish(pos, neg *depgraph.Graph) (*solution, error) {
	if err := pos.ConstructLinks(false, true); err != nil {
		return nil, err
	}
	rn.prune(pos, neg)

	if err := pos.ConstructLinks(true, false); err != nil {
		var unsat *depgraph.UnsatisfiedDependencyError
		if errors.As(err, &unsat) {
			return nil, rn.explainUnsatisfied(unsat, neg)
		}
		return nil, err
	}
	if err := pos.CheckCycles(); err != nil {
		return nil, err
	}

	for _, name := range neg.Names() {
		newest := pos.Latest(name)
		if newest == nil {
			continue
		}
		for _, old := range neg.NodesSorted(name, true) {
			if _, ok := rn.removed[old.Component().ID()]; ok {
				continue
			}
			if old.Installed() && rn.wasBonus[old.Component()] && newest.Compare(old, pos.Policy()) < 0 {
				return nil, &DowngradeError{Installed: old.Component(), Target: newest.Component()}
			}
		}
	}
	for _, node := range neg.Nodes() {
		if node.Bonus() && !node.Installed() {
			return nil, &InvalidInstallError{Component: node.Component()}
		}
	}

	if err := neg.ConstructLinks(false, true); err != nil {
		return nil, err
	}
	return &solution{pos: pos, neg: neg}, nil
}

func multiVersion(g *depgraph.Graph, name string) bool {
	for _, n := range g.NodesSorted(name, false) {
		if n.Component().AllowsMultipleVersions {
			return true
		}
	}
	return false
}

func label(nodes []*depgraph.Node) string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.String()
	}
	return strings.Join(ids, "+")
}
