// Package migrations embeds the goose migrations of the local SQLite store.
package migrations

import "embed"

// Migrations holds the *.sql files applied by goose.
//
//go:embed *.sql
var Migrations embed.FS
