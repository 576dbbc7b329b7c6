package db

import "embed"

// MigrationFS carries the schema migrations so cmd/migrate ships as a single
// binary with no files on disk.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
