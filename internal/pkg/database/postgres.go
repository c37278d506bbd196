package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/logger"
)

const postgresDriver = "pgx"

// NewPostgres connects to the remote PostgreSQL backend
func NewPostgres(ctx context.Context, cfg config.PostgresConfig) (*DB, error) {
	return NewPostgresDSN(ctx, cfg.DSN(), cfg.MaxConns, cfg.MinConns)
}

// NewPostgresDSN connects using a raw connection string
func NewPostgresDSN(ctx context.Context, dsn string, maxConns, minConns int) (*DB, error) {
	db, err := sqlx.Open(postgresDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if minConns > 0 {
		db.SetMaxIdleConns(minConns)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("connected to PostgreSQL",
		zap.Int("max_conns", maxConns),
	)

	return &DB{DB: db, Backend: config.BackendPostgres}, nil
}
