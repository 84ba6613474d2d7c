package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/specialistvlad/compsolve/internal/bonusstore"
	"github.com/specialistvlad/compsolve/internal/component"
	"github.com/specialistvlad/compsolve/internal/ctxlog"
	"github.com/specialistvlad/compsolve/internal/depgraph"
	"github.com/specialistvlad/compsolve/internal/searchtrace"
	"github.com/specialistvlad/compsolve/internal/version"
)

// Input is one resolution request.
type Input struct {
	// Available lists the components the catalog offers.
	Available []*component.Component
	// Installed lists the components already on the system.
	Installed []*component.Component
	// Uninstall lists installed components the user asked to remove.
	Uninstall []*component.Component
	// Bonus answers whether an installed component was explicitly requested.
	// Nil means no installed component was.
	Bonus bonusstore.Store
	// Trace, when set, records every search branch.
	Trace *searchtrace.Trace
}

// Result is the plan produced by a successful resolution.
type Result struct {
	// Install is ordered so that dependencies come first.
	Install []*component.Component
	// Uninstall is ordered so that dependents come first.
	Uninstall []*component.Component
	// Upgrade maps a replaced installed component to its successor.
	Upgrade map[*component.Component]*component.Component
	// Bonused holds the bonus flags that changed and should be persisted.
	Bonused map[*component.Component]bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPolicy sets the version ordering. The default is promote-newest.
func WithPolicy(p version.Policy) Option {
	return func(r *Resolver) { r.policy = p }
}

// WithBudget caps the number of search branches. Zero means no cap.
func WithBudget(branches int) Option {
	return func(r *Resolver) { r.budget = branches }
}

// WithMetrics makes the resolver record into m.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// Resolver computes install plans. It holds no per-request state and may be
// shared between goroutines.
type Resolver struct {
	policy  version.Policy
	budget  int
	metrics *Metrics
}

// New creates a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{policy: version.PromoteNewest{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.policy == nil {
		r.policy = version.PromoteNewest{}
	}
	return r
}

// Resolve computes the plan for in.
//
// Resolve sets the State of every input component and, on success, the
// Bonus flag of every component that stays on or joins the system. The
// bonus store is only read.
func (r *Resolver) Resolve(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	trace := in.Trace
	if trace == nil {
		trace = searchtrace.New()
	}

	res, err := r.resolve(ctx, in, trace)
	r.metrics.observe(err, trace.Branches(), time.Since(start))

	logger := ctxlog.FromContext(ctx)
	if err != nil {
		logger.Debug("Resolution failed.", "error", err, "search", trace.String())
		return nil, err
	}
	logger.Debug("Resolution finished.",
		"install", len(res.Install),
		"uninstall", len(res.Uninstall),
		"upgrade", len(res.Upgrade),
		"search", trace.String(),
	)
	return res, nil
}

// run carries the state of one resolution.
type run struct {
	policy version.Policy
	budget int
	trace  *searchtrace.Trace
	logger *slog.Logger

	// removed holds the IDs of installed components the user asked to drop.
	removed map[string]*component.Component
	// wasBonus is the bonus flag of each component before resolution.
	wasBonus map[*component.Component]bool
}

func (r *Resolver) resolve(ctx context.Context, in Input, trace *searchtrace.Trace) (*Result, error) {
	rn := &run{
		policy:   r.policy,
		budget:   r.budget,
		trace:    trace,
		logger:   ctxlog.FromContext(ctx),
		removed:  make(map[string]*component.Component),
		wasBonus: make(map[*component.Component]bool),
	}

	pos, neg, err := rn.seed(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := rn.checkOffers(pos, in.Available); err != nil {
		return nil, err
	}
	rn.transferBonus(pos)

	if err := pos.ConstructLinks(false, true); err != nil {
		return nil, err
	}
	rn.prune(pos, neg)

	for _, unsat := range pos.Unsatisfied() {
		// names with several candidates are settled by the search
		if pos.PoolSize(unsat.Component.Name) > 1 {
			continue
		}
		return nil, rn.explainUnsatisfied(unsat, neg)
	}

	// cycles are checked per assignment in finish, once every pool holds
	// only the versions that are kept
	sol, err := rn.search(pos, neg)
	if err != nil {
		return nil, err
	}
	return rn.result(sol), nil
}

// seed splits the input into the positive graph, holding what may end up
// installed, and the negative graph, holding what will be removed.
func (rn *run) seed(ctx context.Context, in Input) (pos, neg *depgraph.Graph, err error) {
	offered := make(map[*component.Component]bool, len(in.Available))
	for _, c := range in.Available {
		if err := c.Validate(); err != nil {
			return nil, nil, fmt.Errorf("available component: %w", err)
		}
		offered[c] = c.Bonus
		c.State = component.StateToInstall
	}
	for _, c := range in.Installed {
		if err := c.Validate(); err != nil {
			return nil, nil, fmt.Errorf("installed component: %w", err)
		}
		c.State = component.StateInstalled
		c.Bonus = false
		if in.Bonus != nil {
			b, err := in.Bonus.GetBonus(ctx, c.ID())
			if err != nil {
				return nil, nil, fmt.Errorf("reading bonus of %s: %w", c, err)
			}
			c.Bonus = b
		}
	}
	for c := range offered {
		rn.wasBonus[c] = c.Bonus
	}
	for _, c := range in.Installed {
		rn.wasBonus[c] = c.Bonus
	}

	installedIDs := make(map[string]bool, len(in.Installed))
	for _, c := range in.Installed {
		installedIDs[c.ID()] = true
	}
	for _, c := range in.Uninstall {
		if !installedIDs[c.ID()] {
			rn.logger.Warn("Ignoring uninstall of a component that is not installed.", "component", c.ID())
			continue
		}
		rn.removed[c.ID()] = c
	}

	pos = depgraph.New(rn.policy)
	neg = depgraph.New(rn.policy)
	debonused := make(map[string]bool)

	for _, c := range in.Installed {
		if _, ok := rn.removed[c.ID()]; ok {
			debonused[c.Name] = true
			if c.Bonus {
				// pruning decides whether it can really go
				n, _ := pos.AddComponent(c)
				n.SetBonus(false)
				continue
			}
			neg.AddComponent(c)
			continue
		}
		if _, added := pos.AddComponent(c); !added {
			return nil, nil, fmt.Errorf("component %s is installed twice", c)
		}
	}

	for _, c := range in.Available {
		if _, ok := rn.removed[c.ID()]; ok {
			continue
		}
		n, added := pos.AddComponent(c)
		if !added {
			if n.Installed() && offered[c] && !debonused[c.Name] {
				n.SetBonus(true)
			}
			continue
		}
		if debonused[c.Name] {
			n.SetBonus(false)
		}
	}

	rn.logger.Debug("Seeded resolution graphs.", "candidates", pos.Len(), "removed", neg.Len())
	return pos, neg, nil
}

// checkOffers fails when a requested installed component is only offered
// in older versions.
func (rn *run) checkOffers(pos *depgraph.Graph, available []*component.Component) error {
	newest := make(map[string]*component.Component)
	for _, c := range available {
		if _, ok := rn.removed[c.ID()]; ok {
			continue
		}
		cur, ok := newest[c.Name]
		if !ok || rn.policy.Compare(c.Key(), cur.Key()) > 0 {
			newest[c.Name] = c
		}
	}
	for _, n := range pos.Nodes() {
		if !n.Installed() || !n.Bonus() {
			continue
		}
		offer, ok := newest[n.Name()]
		if !ok || n.Component().AllowsMultipleVersions {
			continue
		}
		if rn.policy.Compare(offer.Key(), n.Component().Key()) < 0 {
			return &DowngradeError{Installed: n.Component(), Target: offer}
		}
	}
	return nil
}

// transferBonus moves the bonus of older versions to the newest version of
// the same name when that version is not installed yet.
func (rn *run) transferBonus(pos *depgraph.Graph) {
	for _, name := range pos.Names() {
		nodes := pos.NodesSorted(name, true)
		newest := nodes[len(nodes)-1]
		if newest.Installed() {
			continue
		}
		for _, n := range nodes[:len(nodes)-1] {
			if !n.Bonus() {
				continue
			}
			n.SetBonus(false)
			newest.SetBonus(true)
			rn.logger.Debug("Moved bonus to newer version.", "from", n.String(), "to", newest.String())
		}
	}
}

// prune moves every node nothing needs into neg, repeating until no more
// nodes qualify. Links of pos must be built.
func (rn *run) prune(pos, neg *depgraph.Graph) {
	var queue []*depgraph.Node
	for _, n := range pos.Nodes() {
		if prunable(n) {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !pos.Contains(n) || !prunable(n) {
			continue
		}
		deps := n.Dependencies()
		n.ClearLinks()
		pos.RemoveNode(n)
		neg.AddNode(n)
		for _, d := range deps {
			if pos.Contains(d) && prunable(d) {
				queue = append(queue, d)
			}
		}
	}
}

func prunable(n *depgraph.Node) bool {
	return !n.HasParents() && !n.Bonus() && !n.Component().AllowsMultipleVersions
}

// explainUnsatisfied turns a missing dependency on a component the user
// asked to remove into a NeededError.
func (rn *run) explainUnsatisfied(unsat *depgraph.UnsatisfiedDependencyError, neg *depgraph.Graph) error {
	for _, n := range neg.NodesSorted(unsat.Constraint.Name, false) {
		if _, ok := rn.removed[n.Component().ID()]; ok {
			return &NeededError{Needed: n.Component(), By: unsat.Component, Err: unsat}
		}
	}
	return unsat
}

// result converts a solution into the caller's plan and commits the bonus
// flags it settled on.
func (rn *run) result(sol *solution) *Result {
	res := &Result{
		Install: sol.pos.ToList(component.StateToInstall, false, true),
		Upgrade: make(map[*component.Component]*component.Component),
		Bonused: make(map[*component.Component]bool),
	}

	uninstall := sol.neg.ToList(component.StateInstalled, true, true)
	slices.Reverse(uninstall)
	res.Uninstall = uninstall

	for _, name := range sol.pos.Names() {
		newest := sol.pos.Latest(name)
		var replaced []*depgraph.Node
		for _, n := range sol.pos.NodesSorted(name, true) {
			if n != newest && n.Installed() && !newest.Installed() {
				replaced = append(replaced, n)
			}
		}
		for _, n := range sol.neg.NodesSorted(name, true) {
			if n.Installed() {
				replaced = append(replaced, n)
			}
		}
		for _, n := range replaced {
			res.Upgrade[n.Component()] = newest.Component()
		}
	}

	for _, n := range sol.pos.Nodes() {
		c := n.Component()
		switch {
		case n.Installed() && n.Bonus() != rn.wasBonus[c]:
			res.Bonused[c] = n.Bonus()
		case !n.Installed() && n.Bonus():
			res.Bonused[c] = true
		}
		c.Bonus = n.Bonus()
	}
	for _, n := range sol.neg.Nodes() {
		c := n.Component()
		if n.Installed() && rn.wasBonus[c] {
			res.Bonused[c] = false
			c.Bonus = false
		}
	}
	return res
}

// rank orders failures by how much they tell the user.
func rank(err error) int {
	switch {
	case errors.Is(err, depgraph.ErrConflict):
		return 3
	case errors.Is(err, ErrDowngrade):
		return 2
	default:
		return 1
	}
}
