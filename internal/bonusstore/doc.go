// Package bonusstore persists which installed components are bonus
// (product) components, the ones whose presence is a goal in its own right.
//
// The resolver reads the flag for each installed component at the start of
// a run. After a successful run the caller writes back the changes reported
// in the resolution result; the resolver itself never writes.
//
// Two implementations are provided: Memory, an ephemeral sync.Map-backed
// store for tests and dry runs, and File, which keeps the flags in an HCL
// file next to the installed-component database.
package bonusstore

import "context"

// Store is the bonus flag contract.
type Store interface {
	GetBonus(ctx context.Context, id string) (bool, error)
	SetBonus(ctx context.Context, id string, bonus bool) error
}
