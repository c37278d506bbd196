package main

import (
	"context"

	"github.com/vermy/vermy/internal/app"
	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/handler"
	"github.com/vermy/vermy/internal/middleware"
	"github.com/vermy/vermy/internal/worker"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config

	Databases    *app.Databases
	Repositories *app.Repositories
	Services     *app.Services
	Handlers     *Handlers

	AuthMiddleware *middleware.AuthMiddleware
	// LoginRateLimit counts login attempts per client address,
	// RateLimitMiddleware counts authenticated requests per user
	LoginRateLimit      *middleware.RateLimitMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	// Jobs is nil when redis is disabled
	Jobs *worker.Client
}

// initDependencies initializes all dependencies
func initDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	dbs, err := app.OpenDatabases(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config:    cfg,
		Databases: dbs,
	}
	deps.Repositories = app.NewRepositories(dbs.DB)
	deps.Services = app.NewServices(cfg, dbs, deps.Repositories)

	if err := deps.Services.Auth.EnsureAdmin(ctx); err != nil {
		dbs.Close()
		return nil, err
	}

	var jobs handler.BackupEnqueuer
	if dbs.Redis != nil {
		deps.Jobs = worker.NewClient(cfg)
		jobs = deps.Jobs
	}

	deps.Handlers = initHandlers(deps.Services, dbs, jobs, appVersion)
	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.Services.Auth)
	if dbs.Redis != nil && cfg.RateLimit.Enabled {
		rl := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit.RequestsPerMinute > 0 {
			rl.Max = cfg.RateLimit.RequestsPerMinute
		}
		deps.RateLimitMiddleware = middleware.NewRateLimitMiddleware(dbs.Redis, rl)

		rl.KeyGenerator = middleware.ClientIPKey
		deps.LoginRateLimit = middleware.NewRateLimitMiddleware(dbs.Redis, rl)
	}

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() {
	if d.Jobs != nil {
		_ = d.Jobs.Close()
	}
	if d.Databases != nil {
		d.Databases.Close()
	}
}
