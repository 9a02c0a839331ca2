package store

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore is a mutex-guarded in-process Store. Values are copied on the
// way in and out so callers cannot alias stored bytes.
type MemoryStore struct {
	mu         sync.Mutex
	data       map[string][]byte
	failWrites bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return &WriteError{Key: key, Cause: errors.New("memory store is read-only")}
	}
	m.data[key] = append([]byte(nil), raw...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return &WriteError{Key: key, Cause: errors.New("memory store is read-only")}
	}
	delete(m.data, key)
	return nil
}

// FailWrites makes every subsequent Set and Delete fail until called with false.
func (m *MemoryStore) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Keys returns the stored keys in no particular order.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
