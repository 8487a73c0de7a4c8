package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// MigrationStatus is the schema version recorded by golang-migrate.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

func newMigrate(dbURL string) (*migrate.Migrate, error) {
	if !IsPostgres(dbURL) {
		return nil, fmt.Errorf("SQL migrations require a postgres database, got %q", redact(dbURL))
	}
	m, err := createMigrateInstance(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending migrations.
func Migrate(dbURL string, log *zap.Logger) error {
	m, err := newMigrate(dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, _ := m.Version()
	log.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to run, database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := m.Version()
	log.Info("migrations complete", zap.Uint("version", newVersion))
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(dbURL string, steps int, log *zap.Logger) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}
	m, err := newMigrate(dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	log.Info("rolling back migrations", zap.Int("steps", steps))
	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("rolled back all migrations")
		return nil
	}
	log.Info("rolled back", zap.Uint("version", version))
	return nil
}

// Status returns the current migration version.
func Status(dbURL string) (MigrationStatus, error) {
	m, err := newMigrate(dbURL)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return MigrationStatus{}, nil
		}
		return MigrationStatus{}, err
	}
	return MigrationStatus{Version: version, Dirty: dirty, Applied: true}, nil
}
