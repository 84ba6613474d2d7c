package app

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/specialistvlad/compsolve/internal/component"
	"github.com/specialistvlad/compsolve/internal/resolver"
	"github.com/specialistvlad/compsolve/internal/searchtrace"
)

type planComponent struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   int    `json:"build"`
}

type planUpgrade struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type planSearch struct {
	Branches int `json:"branches"`
	Depth    int `json:"depth"`
}

// plan is the rendered form of a resolver.Result.
type plan struct {
	Install   []planComponent `json:"install"`
	Uninstall []planComponent `json:"uninstall"`
	Upgrade   []planUpgrade   `json:"upgrade"`
	Bonus     map[string]bool `json:"bonus"`
	Search    planSearch      `json:"search"`
}

func newPlan(res *resolver.Result, trace *searchtrace.Trace) plan {
	p := plan{
		Install:   planComponents(res.Install),
		Uninstall: planComponents(res.Uninstall),
		Upgrade:   []planUpgrade{},
		Bonus:     make(map[string]bool, len(res.Bonused)),
		Search:    planSearch{Branches: trace.Branches(), Depth: trace.MaxDepth()},
	}
	for from, to := range res.Upgrade {
		p.Upgrade = append(p.Upgrade, planUpgrade{From: from.ID(), To: to.ID()})
	}
	sort.Slice(p.Upgrade, func(i, j int) bool { return p.Upgrade[i].From < p.Upgrade[j].From })
	for c, b := range res.Bonused {
		p.Bonus[c.ID()] = b
	}
	return p
}

func planComponents(comps []*component.Component) []planComponent {
	out := make([]planComponent, 0, len(comps))
	for _, c := range comps {
		out = append(out, planComponent{ID: c.ID(), Name: c.Name, Version: c.Version, Build: c.Build})
	}
	return out
}

// render writes the plan to the app output in the configured format.
func (app *App) render(res *resolver.Result, trace *searchtrace.Trace) error {
	p := newPlan(res, trace)
	if app.config.Format == FormatJSON {
		enc := json.NewEncoder(app.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	if len(p.Install) == 0 && len(p.Uninstall) == 0 {
		_, err := fmt.Fprintln(app.outW, "Nothing to do.")
		return err
	}
	w := &errWriter{w: app.outW}
	if len(p.Install) > 0 {
		w.printf("Install (%d):\n", len(p.Install))
		for _, c := range p.Install {
			w.printf("  %s\n", c.ID)
		}
	}
	if len(p.Uninstall) > 0 {
		w.printf("Uninstall (%d):\n", len(p.Uninstall))
		for _, c := range p.Uninstall {
			w.printf("  %s\n", c.ID)
		}
	}
	if len(p.Upgrade) > 0 {
		w.printf("Upgrade (%d):\n", len(p.Upgrade))
		for _, u := range p.Upgrade {
			w.printf("  %s -> %s\n", u.From, u.To)
		}
	}
	w.printf("Search: %s\n", trace)
	return w.err
}

// errWriter keeps the first write error so a run of prints needs one check.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
