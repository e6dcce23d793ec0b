package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

func newMigrator(dbURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration files: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// Run executes all pending up migrations
func Run(dbURL string, log *zap.Logger) error {
	m, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("📦 Migrations: no new migrations to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info("✅ Migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Rollback reverts the last migration
func Rollback(dbURL string, log *zap.Logger) error {
	m, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	log.Info("✅ Last migration rolled back")
	return nil
}
