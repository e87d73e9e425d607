package store

import (
	"context"
	"sync"

	"github.com/tidwall/btree"
)

// MemoryStore keeps definitions in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	apps *btree.Map[string, *btree.Map[string, Definition]]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: btree.NewMap[string, *btree.Map[string, Definition]](0)}
}

func (m *MemoryStore) Load(_ context.Context, app string) ([]Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	defs, ok := m.apps.Get(app)
	if !ok {
		return nil, nil
	}
	out := make([]Definition, 0, defs.Len())
	var err error
	defs.Scan(func(_ string, def Definition) bool {
		var c Definition
		if c, err = clone(def); err != nil {
			return false
		}
		out = append(out, c)
		return true
	})
	return out, err
}

func (m *MemoryStore) Save(_ context.Context, app string, defs []Definition) error {
	if err := validate(app, defs); err != nil {
		return err
	}
	copies := make([]Definition, 0, len(defs))
	for _, def := range defs {
		c, err := clone(def)
		if err != nil {
			return err
		}
		copies = append(copies, c)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.apps.Get(app)
	if !ok {
		table = btree.NewMap[string, Definition](0)
		m.apps.Set(app, table)
	}
	for _, def := range copies {
		table.Set(def.Suffix, def)
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, app, suffix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.apps.Get(app)
	if !ok {
		return nil
	}
	table.Delete(suffix)
	if table.Len() == 0 {
		m.apps.Delete(app)
	}
	return nil
}

func (m *MemoryStore) Apps(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, m.apps.Len())
	m.apps.Scan(func(name string, _ *btree.Map[string, Definition]) bool {
		names = append(names, name)
		return true
	})
	return names, nil
}

func (m *MemoryStore) Close() error { return nil }
