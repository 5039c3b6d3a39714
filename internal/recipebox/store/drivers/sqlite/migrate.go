package sqlite

import (
	"errors"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending migrations from the embedded
// migrations directory to the store's database. The SQL files are compiled
// into the binary, so a fresh database file needs nothing beside it.
//
// Migrations run directly on the store's single connection rather than in a
// transaction of our own; golang-migrate wraps each file itself.
func (s *Store) ApplyMigrations() error {
	// Reuse the open handle so ":memory:" databases see the schema.
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return err
	}

	migrationsFilesystem, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", migrationsFilesystem, "", driver)
	if err != nil {
		return err
	}

	// ErrNoChange just means the schema is current.
	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
