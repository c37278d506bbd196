// Package app wires the storage connections, repositories and services
// shared by the API server, the worker and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/database"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/pkg/objectstore"
)

// Databases holds all storage connections. Redis and Store are nil when
// they are not configured or not reachable.
type Databases struct {
	DB    *database.DB
	Redis *database.RedisDB
	Store *objectstore.Store
}

// OpenDatabases connects the primary database and the optional Redis and
// object store backends
func OpenDatabases(ctx context.Context, cfg *config.Config) (*Databases, error) {
	dbs := &Databases{}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Storage.Backend, err)
	}
	dbs.DB = db

	if cfg.Redis.Enabled {
		redis, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
		} else {
			dbs.Redis = redis
		}
	}

	if cfg.ObjectStoreEnabled() {
		store, err := objectstore.New(ctx, cfg.MinIO)
		if err != nil {
			logger.Warn("object store unavailable, documents are stored inline", zap.Error(err))
		} else {
			dbs.Store = store
		}
	}

	return dbs, nil
}

// Close closes all connections
func (d *Databases) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
