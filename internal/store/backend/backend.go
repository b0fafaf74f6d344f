// Package backend opens the store.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"catering-platform/internal/config"
	"catering-platform/internal/database"
	"catering-platform/internal/logger"
	"catering-platform/internal/store"
	"catering-platform/internal/store/badgerstore"
	"catering-platform/internal/store/gormstore"
	"catering-platform/internal/store/memory"
)

// Open connects to the configured backend and prepares its schema
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, error) {
	fields := map[string]interface{}{"backend": cfg.Storage.Backend}

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.DatabaseURL(), log)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("db_connected", "Connected to PostgreSQL database", "startup", fields)
		return db, nil

	case config.BackendGorm:
		dsn := cfg.Storage.SQLitePath
		if cfg.Storage.GormDialect == gormstore.DialectPostgres {
			dsn = cfg.DatabaseURL()
		}
		s, err := gormstore.Open(cfg.Storage.GormDialect, dsn, log)
		if err != nil {
			return nil, err
		}
		fields["dialect"] = cfg.Storage.GormDialect
		log.Info("db_connected", "Connected to GORM database", "startup", fields)
		return s, nil

	case config.BackendBadger:
		s, err := badgerstore.Open(cfg.Storage.BadgerPath, log)
		if err != nil {
			return nil, err
		}
		fields["path"] = cfg.Storage.BadgerPath
		log.Info("db_connected", "Opened Badger database", "startup", fields)
		return s, nil

	case config.BackendMemory:
		log.Info("db_connected", "Using in-memory store", "startup", fields)
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
