package store

import (
	"context"
	"fmt"
	"io"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	SQLitePath  string
	DatabaseURL string
}

// Closer is a Store that holds resources.
type Closer interface {
	Store
	io.Closer
}

type nopCloser struct{ Store }

func (nopCloser) Close() error { return nil }

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (Closer, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite_path required for sqlite store")
		}
		return OpenSQLite(ctx, opts.SQLitePath)
	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("database_url required for postgres store")
		}
		return ConnectPostgres(ctx, opts.DatabaseURL)
	case BackendMemory:
		return nopCloser{NewMemoryStore()}, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", opts.Backend)
	}
}
