package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/app"
	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	if !cfg.Redis.Enabled {
		log.Fatal("the worker needs redis; set VERMY_REDIS_ENABLED=true")
	}
	if !cfg.ObjectStoreEnabled() {
		log.Fatal("the worker archives backups to the object store; set VERMY_MINIO_ENDPOINT")
	}

	log.Info("starting worker service")

	deps, cleanup, err := initWorkerDependencies(cfg)
	if err != nil {
		log.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	defer cleanup()

	workerServer, err := worker.NewServer(log, cfg, deps)
	if err != nil {
		log.Fatal("failed to create worker server", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- workerServer.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down worker...")
		workerServer.Stop()
	case err := <-errCh:
		if err != nil {
			log.Error("worker server error", zap.Error(err))
		}
	}

	log.Info("worker stopped")
}

// initWorkerDependencies initializes dependencies for the worker
func initWorkerDependencies(cfg *config.Config) (*worker.WorkerDependencies, func(), error) {
	dbs, err := app.OpenDatabases(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}
	if dbs.Store == nil {
		dbs.Close()
		return nil, nil, fmt.Errorf("object store is not reachable")
	}

	svcs := app.NewServices(cfg, dbs, app.NewRepositories(dbs.DB))

	return &worker.WorkerDependencies{Backups: svcs.Backup}, dbs.Close, nil
}
