// Package store provides PunchStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tempo/punch-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	punches map[string][]engine.Punch // ISO date -> chronological punches
}

func NewMemory() *Memory {
	return &Memory{punches: make(map[string][]engine.Punch)}
}

func (m *Memory) Load(_ context.Context, p engine.Period) (map[string][]engine.Punch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]engine.Punch)
	for _, day := range p.Days() {
		key := day.String()
		if list, ok := m.punches[key]; ok {
			result[key] = append([]engine.Punch(nil), list...)
		}
	}
	return result, nil
}

func (m *Memory) PunchesForDate(_ context.Context, date engine.Date) ([]engine.Punch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]engine.Punch(nil), m.punches[date.String()]...), nil
}

func (m *Memory) Insert(_ context.Context, date engine.Date, at engine.ClockTime, t engine.PunchType) (engine.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := date.String()
	list := m.punches[key]
	for _, p := range list {
		if p.Time == at {
			return engine.Duplicate, nil
		}
	}

	// Insert in chronological position so snapshots stay ordered.
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Time.After(at)
	})
	list = append(list, engine.Punch{})
	copy(list[i+1:], list[i:])
	list[i] = engine.Punch{Type: t, Time: at}
	m.punches[key] = list

	return engine.Inserted, nil
}

func (m *Memory) Remove(_ context.Context, date engine.Date, at engine.ClockTime) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := date.String()
	list := m.punches[key]
	for i, p := range list {
		if p.Time == at {
			m.punches[key] = append(list[:i:i], list[i+1:]...)
			if len(m.punches[key]) == 0 {
				delete(m.punches, key)
			}
			return nil
		}
	}
	return nil
}

func (m *Memory) Nuke(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.punches = make(map[string][]engine.Punch)
	return nil
}
