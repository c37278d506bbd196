package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/database/migrations"
	"github.com/vermy/vermy/internal/pkg/logger"
)

// goose keeps its dialect and filesystem in package globals
var gooseMu sync.Mutex

// Migrate applies all pending migrations for the backend
func (db *DB) Migrate(ctx context.Context) error {
	return db.withGoose(func() error {
		if err := goose.UpContext(ctx, db.DB.DB, db.Backend); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back the most recent migration
func (db *DB) MigrateDown(ctx context.Context) error {
	return db.withGoose(func() error {
		if err := goose.DownContext(ctx, db.DB.DB, db.Backend); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return nil
	})
}

// SchemaVersion returns the currently applied migration version
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	var version int64
	err := db.withGoose(func() error {
		v, err := goose.GetDBVersionContext(ctx, db.DB.DB)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func (db *DB) withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(gooseDialect(db.Backend)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn()
}

func gooseDialect(backend string) string {
	if backend == config.BackendPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// gooseLogger routes goose output through zap
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logger.Sugar.Debugf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logger.Error("migration failed", zap.String("detail", fmt.Sprintf(format, v...)))
}
