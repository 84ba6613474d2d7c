package depgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/compsolve/internal/component"
	"github.com/specialistvlad/compsolve/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// comp builds a component from "Name", "version" and constraint strings.
// Constraints prefixed with "!" are conflicts.
func comp(name, ver string, constraints ...string) *component.Component {
	c := &component.Component{Name: name, Version: ver, Build: 1, State: component.StateToInstall}
	for _, raw := range constraints {
		if raw[0] == '!' {
			c.Conflicts = append(c.Conflicts, component.MustParseConstraint(raw[1:]))
			continue
		}
		c.Requires = append(c.Requires, component.MustParseConstraint(raw))
	}
	return c
}

func installed(c *component.Component) *component.Component {
	c.State = component.StateInstalled
	return c
}

func build(t *testing.T, comps ...*component.Component) *Graph {
	t.Helper()
	g := New(version.PromoteNewest{})
	for _, c := range comps {
		_, ok := g.AddComponent(c)
		require.True(t, ok, "duplicate component %s", c)
	}
	return g
}

func ids(comps []*component.Component) []string {
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = c.ID()
	}
	return out
}

func TestNodeLinks(t *testing.T) {
	t.Run("dependency is mirrored as parent", func(t *testing.T) {
		a, b := NewNode(comp("A", "1")), NewNode(comp("B", "1"))

		assert.True(t, a.AddDependency(b, false))
		assert.False(t, a.AddDependency(b, true), "second add is a no-op")
		assert.Equal(t, []*Node{b}, a.Dependencies())
		assert.Equal(t, []*Node{a}, b.Parents())
		assert.False(t, a.IsOptional(b))
	})

	t.Run("optional dependency is indexed", func(t *testing.T) {
		a, b := NewNode(comp("A", "1")), NewNode(comp("B", "1"))
		a.AddDependency(b, true)
		assert.True(t, a.IsOptional(b))
	})

	t.Run("conflict is symmetric and idempotent", func(t *testing.T) {
		a, b := NewNode(comp("A", "1")), NewNode(comp("B", "1"))
		assert.True(t, a.AddConflict(b))
		assert.False(t, b.AddConflict(a))
		assert.Equal(t, []*Node{b}, a.Conflicts())
		assert.Equal(t, []*Node{a}, b.Conflicts())
	})

	t.Run("clear links detaches both ends", func(t *testing.T) {
		a, b, c := NewNode(comp("A", "1")), NewNode(comp("B", "1")), NewNode(comp("C", "1"))
		a.AddDependency(b, true)
		b.AddDependency(c, false)
		b.AddConflict(a)

		b.ClearLinks()
		assert.Empty(t, b.Dependencies())
		assert.Empty(t, b.Parents())
		assert.Empty(t, b.Conflicts())
		assert.Empty(t, a.Dependencies())
		assert.False(t, a.IsOptional(b))
		assert.Empty(t, a.Conflicts())
		assert.False(t, c.HasParents())
	})

	t.Run("broken mirror edge panics", func(t *testing.T) {
		a, b := NewNode(comp("A", "1")), NewNode(comp("B", "1"))
		a.AddDependency(b, false)
		b.parents.remove(a)
		assert.Panics(t, a.ClearLinks)
	})
}

func TestGraphPools(t *testing.T) {
	lib1, lib2, lib3 := comp("Lib", "1"), comp("Lib", "2"), comp("Lib", "1.5")
	g := build(t, lib1, lib2, lib3, comp("App", "1"))

	t.Run("duplicate key is rejected", func(t *testing.T) {
		existing, ok := g.AddComponent(comp("Lib", "1"))
		assert.False(t, ok)
		assert.Same(t, lib1, existing.Component())
		assert.Equal(t, 4, g.Len())
	})

	t.Run("sorted pools", func(t *testing.T) {
		asc := g.NodesSorted("Lib", true)
		require.Len(t, asc, 3)
		assert.Equal(t, []string{"1", "1.5", "2"}, []string{asc[0].Long().Version, asc[1].Long().Version, asc[2].Long().Version})
		desc := g.NodesSorted("Lib", false)
		assert.Same(t, lib2, desc[0].Component())
		assert.Same(t, lib2, g.Latest("Lib").Component())
		assert.Nil(t, g.Latest("Missing"))
		assert.Equal(t, []string{"App", "Lib"}, g.Names())
	})

	t.Run("upgrade collapses the pool", func(t *testing.T) {
		g := g.Copy()
		latest := g.Latest("Lib")
		displaced := g.UpgradeToNode(latest)
		require.Len(t, displaced, 2)
		assert.Same(t, lib1, displaced[0].Component())
		assert.Same(t, lib3, displaced[1].Component())
		assert.Equal(t, 1, g.PoolSize("Lib"))
		assert.True(t, g.Contains(latest))
	})

	t.Run("remove node", func(t *testing.T) {
		g := g.Copy()
		n, ok := g.Lookup(lib1)
		require.True(t, ok)
		assert.True(t, g.RemoveNode(n))
		assert.False(t, g.RemoveNode(n))
		assert.False(t, g.Contains(n))
	})

	t.Run("copy is independent", func(t *testing.T) {
		orig := build(t, comp("A", "1", "B>=1"), comp("B", "1"))
		require.NoError(t, orig.ConstructLinks(false, false))
		a, _ := orig.Lookup(comp("A", "1"))
		a.SetBonus(true)

		cp := orig.Copy()
		ca, ok := cp.Lookup(comp("A", "1"))
		require.True(t, ok)
		assert.NotSame(t, a, ca)
		assert.Same(t, a.Component(), ca.Component())
		assert.True(t, ca.Bonus())
		assert.Empty(t, ca.Dependencies(), "copies carry no edges")
		assert.Len(t, a.Dependencies(), 1)
	})
}

func TestConstructLinks(t *testing.T) {
	t.Run("links every matching version", func(t *testing.T) {
		app := comp("App", "1", "Lib>=1", "Opt:Docs>=1")
		g := build(t, app, comp("Lib", "1"), comp("Lib", "2"))
		require.NoError(t, g.ConstructLinks(true, false))

		n, _ := g.Lookup(app)
		assert.Len(t, n.Dependencies(), 2)
	})

	t.Run("missing required dependency", func(t *testing.T) {
		app := comp("App", "1", "Lib>=3")
		g := build(t, app, comp("Lib", "2"))

		err := g.ConstructLinks(false, false)
		var unsat *UnsatisfiedDependencyError
		require.ErrorAs(t, err, &unsat)
		assert.Same(t, app, unsat.Component)
		assert.Equal(t, "Lib", unsat.Constraint.Name)
		assert.ErrorIs(t, err, ErrUnsatisfied)

		assert.NoError(t, g.ConstructLinks(false, true), "force ignores missing dependencies")
	})

	t.Run("conflict forms", func(t *testing.T) {
		tests := []struct {
			name        string
			a, b        *component.Component
			wantMessage string
		}{
			{"both new", comp("A", "1", "!B"), comp("B", "1"), "cannot install both A-1-1 and B-1-1"},
			{"new against installed", comp("A", "1", "!B"), installed(comp("B", "1")), "cannot install A-1-1: it conflicts with installed B-1-1"},
			{"installed against new", installed(comp("A", "1", "!B")), comp("B", "1"), "cannot install B-1-1: it conflicts with installed A-1-1"},
			{"both installed", installed(comp("A", "1", "!B")), installed(comp("B", "1")), "installed components A-1-1 and B-1-1 conflict"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				g := build(t, tt.a, tt.b)
				err := g.ConstructLinks(true, false)
				var conflict *ConflictError
				require.ErrorAs(t, err, &conflict)
				assert.ErrorIs(t, err, ErrConflict)
				assert.Contains(t, err.Error(), tt.wantMessage)
			})
		}
	})

	t.Run("unsatisfied scan reports every gap", func(t *testing.T) {
		g := build(t,
			comp("App", "1", "Lib>=3", "Opt:Docs", "Tool"),
			comp("Lib", "2"),
		)
		var got []string
		for _, u := range g.Unsatisfied() {
			got = append(got, u.Constraint.Name)
		}
		assert.Equal(t, []string{"Lib", "Tool"}, got)
		assert.Empty(t, g.Nodes()[0].Dependencies())
	})

	t.Run("forced conflicts become edges", func(t *testing.T) {
		a := comp("A", "1", "!B<2")
		g := build(t, a, comp("B", "1"), comp("B", "2"))
		require.NoError(t, g.ConstructLinks(true, true))
		n, _ := g.Lookup(a)
		require.Len(t, n.Conflicts(), 1)
		assert.Equal(t, "B-1-1", n.Conflicts()[0].String())
	})
}

func TestCheckCycles(t *testing.T) {
	t.Run("acyclic diamond", func(t *testing.T) {
		g := build(t, comp("A", "1", "B", "C"), comp("B", "1", "D"), comp("C", "1", "D"), comp("D", "1"))
		require.NoError(t, g.ConstructLinks(false, false))
		assert.NoError(t, g.CheckCycles())
	})

	t.Run("cycle is named and marks are cleared", func(t *testing.T) {
		g := build(t, comp("A", "1", "B"), comp("B", "1", "C"), comp("C", "1", "A"), comp("X", "1"))
		require.NoError(t, g.ConstructLinks(false, false))

		err := g.CheckCycles()
		var cycle *CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, "A", cycle.Component.Name)
		assert.Equal(t, []string{"A-1-1", "B-1-1", "C-1-1", "A-1-1"}, cycle.Path)
		assert.ErrorContains(t, err, "A-1-1 -> B-1-1")
		for _, n := range g.Nodes() {
			assert.False(t, n.onPath, "mark left on %s", n)
		}
	})
}

func TestToList(t *testing.T) {
	app := comp("App", "1", "Lib", "Tool")
	lib := comp("Lib", "1", "Base")
	tool := installed(comp("Tool", "1", "Base"))
	base := comp("Base", "1")
	lonely := installed(comp("Lonely", "1"))

	g := build(t, app, lib, tool, base, lonely)
	require.NoError(t, g.ConstructLinks(false, false))

	t.Run("dependencies first", func(t *testing.T) {
		got := ids(g.ToList(component.StateUnknown, false, true))
		want := []string{"Base-1-1", "Lib-1-1", "Tool-1-1", "App-1-1", "Lonely-1-1"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ToList mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("state filter walks through other nodes", func(t *testing.T) {
		got := ids(g.ToList(component.StateToInstall, false, true))
		assert.Equal(t, []string{"Base-1-1", "Lib-1-1", "App-1-1"}, got)
	})

	t.Run("unreachable nodes need allNodes", func(t *testing.T) {
		cyc := build(t, comp("A", "1", "B"), comp("B", "1", "A"))
		require.NoError(t, cyc.ConstructLinks(false, false))
		assert.Empty(t, cyc.ToList(component.StateUnknown, false, true))
		assert.Len(t, cyc.ToList(component.StateUnknown, true, true), 2)
	})
}
