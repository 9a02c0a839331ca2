package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jonathan/resume-assistant/internal/store"
)

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *store.MemoryStore {
	return store.NewMemoryStore()
}

// NewSQLiteStore creates a migrated in-memory SQLite store.
// The store is automatically closed when the test completes.
func NewSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// SlowStore delays every Get by Latency before returning, widening the window
// between a read and the write that follows it.
type SlowStore struct {
	store.Store
	Latency time.Duration
}

// NewSlowStore wraps s with a read latency of d.
func NewSlowStore(s store.Store, d time.Duration) *SlowStore {
	return &SlowStore{Store: s, Latency: d}
}

func (s *SlowStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.Store.Get(ctx, key)
	time.Sleep(s.Latency)
	return raw, err
}
