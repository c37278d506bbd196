package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/logger"
)

// Executor is the query surface shared by *sqlx.DB and *sqlx.Tx.
// Repositories only ever talk to an Executor obtained from DB.Conn.
type Executor = sqlx.ExtContext

// DB wraps the relational store behind both storage backends
type DB struct {
	*sqlx.DB
	Backend string
}

type txKey struct{}

// Open connects to the backend selected in the configuration
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	var (
		db  *DB
		err error
	)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err = NewSQLite(ctx, cfg.Storage.SQLitePath)
	case config.BackendPostgres:
		db, err = NewPostgres(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Storage.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Close closes the underlying connection pool
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// Conn returns the executor bound to ctx: the running transaction if there
// is one, the pool otherwise. Every call is timed and counted.
func (db *DB) Conn(ctx context.Context) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return &tracedExecutor{ext: tx, backend: db.Backend}
	}
	return &tracedExecutor{ext: db.DB, backend: db.Backend}
}

// InTransaction reports whether ctx carries an open transaction
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return ok
}

// Transaction runs fn inside a transaction. fn must use the context it is
// handed; calls nested inside an existing transaction join it.
func (db *DB) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("failed to rollback transaction",
				zap.Error(rbErr),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
