// Package migrate moves the schema between versions using the SQL files
// embedded in internal/db.
package migrate

import (
	"errors"
	"fmt"

	"tour-platform/api/internal/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ErrNoChange means the schema is already at the target version.
var ErrNoChange = migrate.ErrNoChange

// Run migrates the database at dsn in the given direction, "up" to the latest
// version or "down" to an empty schema. A schema already at the target yields
// ErrNoChange.
func Run(dsn, direction string) error {
	if dsn == "" {
		return errors.New("empty database DSN")
	}

	src, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	var step func() error
	switch direction {
	case "up":
		step = m.Up
	case "down":
		step = m.Down
	default:
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}

	if err := step(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
