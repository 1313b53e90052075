package storage

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps payloads in a map. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, workspaceID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.data[workspaceID]
	if !ok {
		return nil, notFound(workspaceID)
	}
	return slices.Clone(d), nil
}

func (m *Memory) Put(_ context.Context, workspaceID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[workspaceID] = slices.Clone(data)
	return nil
}

// Workspaces returns the ids with a stored layout, sorted.
func (m *Memory) Workspaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m *Memory) Close() error { return nil }
