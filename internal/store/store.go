// Package store provides the durable key/value storage that every repository
// of a workspace session sits on.
//
// A Store maps a logical record key (profiles, applications, the active
// profile pointer, the workspace draft) to raw bytes. It knows nothing about
// the shape of those bytes; decoding and default-filling belong to
// internal/records. Absent keys read as (nil, nil).
//
// Backends:
//
//   - MemoryStore  : process-local map, used in tests and for --store=memory
//   - SQLiteStore  : single-file local database (modernc.org/sqlite, goose migrations)
//   - PostgresStore: shared database through pgxpool
//
// Namespace scopes a Store to one session so that sessions never share their
// singleton records.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Logical record keys.
const (
	KeyApplications    = "applications"
	KeyProfiles        = "profiles"
	KeyActiveProfileID = "active_profile_id"
	KeyWorkspaceDraft  = "workspace_draft"
)

// ErrWrite is matched (errors.Is) by every failed Set or Delete.
var ErrWrite = errors.New("storage write failed")

// WriteError reports a failed write of one key.
type WriteError struct {
	Key   string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Key, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrWrite) true for any WriteError.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

// Store is the durable key/value contract.
type Store interface {
	// Get returns the raw bytes stored under key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, raw []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Namespaced prefixes every key of an underlying Store.
type Namespaced struct {
	inner  Store
	prefix string
}

// Namespace returns a Store whose keys live under ns. An empty ns returns s.
func Namespace(s Store, ns string) Store {
	if ns == "" {
		return s
	}
	return &Namespaced{inner: s, prefix: ns + "/"}
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, raw []byte) error {
	return n.inner.Set(ctx, n.prefix+key, raw)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
