// Package database opens the gorm connection used by the repositories.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quocanhngo/signalsender/internal/config"
	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/quocanhngo/signalsender/migrations"
)

// Models lists every table owned by this service
func Models() []interface{} {
	return []interface{}{
		&model.Recipient{},
		&model.AlertLog{},
	}
}

// Open connects to the configured database. production keeps gorm quiet.
func Open(cfg config.DBConfig, production bool) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if production {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}
	gormCfg := &gorm.Config{Logger: gormLogger}

	switch cfg.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.SQLitePath)
		db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// single writer for SQLite
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	}
}

// Migrate brings the schema up to date. Postgres uses the versioned SQL
// migrations and falls back to AutoMigrate when they cannot be applied;
// SQLite always uses AutoMigrate.
func Migrate(db *gorm.DB, cfg config.DBConfig, log *zap.Logger) error {
	if cfg.Driver == "postgres" {
		err := migrations.Run(cfg.URL(), log)
		if err == nil {
			return nil
		}
		log.Warn("⚠️  Migration failed, falling back to GORM AutoMigrate", zap.Error(err))
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
