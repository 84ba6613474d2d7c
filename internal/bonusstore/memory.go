package bonusstore

import (
	"context"
	"sync"
)

// Memory is an in-memory Store. The zero value is ready to use.
type Memory struct {
	flags sync.Map // Key: component id, Value: bool
}

// NewMemory returns a store seeded with initial.
func NewMemory(initial map[string]bool) *Memory {
	m := &Memory{}
	for id, bonus := range initial {
		m.flags.Store(id, bonus)
	}
	return m
}

// GetBonus returns false for ids that were never set.
func (m *Memory) GetBonus(ctx context.Context, id string) (bool, error) {
	v, ok := m.flags.Load(id)
	if !ok {
		return false, nil
	}
	return v.(bool), nil
}

func (m *Memory) SetBonus(ctx context.Context, id string, bonus bool) error {
	m.flags.Store(id, bonus)
	return nil
}

// Snapshot returns the ids currently flagged as bonus.
func (m *Memory) Snapshot() map[string]bool {
	out := make(map[string]bool)
	m.flags.Range(func(k, v any) bool {
		if v.(bool) {
			out[k.(string)] = true
		}
		return true
	})
	return out
}
