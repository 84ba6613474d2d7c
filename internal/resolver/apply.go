package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/compsolve/internal/bonusstore"
	"github.com/specialistvlad/compsolve/internal/component"
	"github.com/specialistvlad/compsolve/internal/ctxlog"
)

// ApplyBonus writes the bonus changes of res to store, in ID order.
func ApplyBonus(ctx context.Context, store bonusstore.Store, res *Result) error {
	comps := make([]*component.Component, 0, len(res.Bonused))
	for c := range res.Bonused {
		comps = append(comps, c)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].ID() < comps[j].ID() })

	logger := ctxlog.FromContext(ctx)
	for _, c := range comps {
		if err := store.SetBonus(ctx, c.ID(), res.Bonused[c]); err != nil {
			return fmt.Errorf("storing bonus of %s: %w", c, err)
		}
		logger.Debug("Stored bonus flag.", "component", c.ID(), "bonus", res.Bonused[c])
	}
	return nil
}
