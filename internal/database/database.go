// Package database opens the PostgreSQL connection pool and manages the
// schema through embedded migrations.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // Register the postgres migration driver.
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/lib/pq" // Register the PostgreSQL driver with database/sql.
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens a PostgreSQL connection pool using the given DSN, then pings
// the database with a 5-second timeout to confirm it is reachable.
// Returns the pool on success, or an error if the connection cannot be
// established.
func Open(dsn string) (*sql.DB, error) {
	// sql.Open only validates the DSN format; it does not actually connect yet.
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// PingContext performs a real round-trip to verify the database is reachable.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// RunMigrations applies every pending migration from the embedded SQL files.
// A database that is already up to date is not an error.
func RunMigrations(dsn string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
