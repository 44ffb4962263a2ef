package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps snapshots in memory.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Save(ctx context.Context, s *Snapshot) error {
	if err := checkSave(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[s.ID]; ok {
		return errDuplicate(s.ID)
	}
	m.snapshots[s.ID] = clone(s)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[id]
	if !ok {
		return nil, notFound(id)
	}
	return clone(s), nil
}

func (m *MemoryStore) Latest(ctx context.Context, name string) (*Snapshot, error) {
	summaries, _ := m.List(ctx, name)
	if len(summaries) == 0 {
		return nil, notFound(name)
	}
	return m.Get(ctx, summaries[0].ID)
}

func (m *MemoryStore) List(ctx context.Context, name string) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		if name == "" || s.Name == name {
			out = append(out, s.Summary())
		}
	}
	slices.SortFunc(out, newer)
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[id]; !ok {
		return notFound(id)
	}
	delete(m.snapshots, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func clone(s *Snapshot) *Snapshot {
	c := *s
	c.Packages = slices.Clone(s.Packages)
	return &c
}

var _ Store = (*MemoryStore)(nil)
