package storage

import (
	"context"
	"sync"
)

// Storage is a small string key-value store used by the client for
// sessions, the local user registry and locally saved lists
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// SetAll writes every pair or none of them
	SetAll(ctx context.Context, values map[string]string) error
	// Remove deletes every key or none of them
	Remove(ctx context.Context, keys ...string) error
}

// Set writes a single key
func Set(ctx context.Context, s Storage, key, value string) error {
	return s.SetAll(ctx, map[string]string{key: value})
}

// Memory is an in-process Storage
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) SetAll(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *Memory) Remove(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
