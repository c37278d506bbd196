package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
)

// Archiver is the part of the backup service the worker drives
type Archiver interface {
	Archive(ctx context.Context) (*domain.BackupFile, error)
	Prune(ctx context.Context, keep int) (int, error)
}

// BackupWorker archives backup bundles to the object store
type BackupWorker struct {
	logger    *zap.Logger
	backups   Archiver
	retention int
}

// NewBackupWorker creates a new backup worker. retention is the number of
// archived bundles kept when a task does not set its own.
func NewBackupWorker(logger *zap.Logger, backups Archiver, retention int) *BackupWorker {
	return &BackupWorker{
		logger:    logger,
		backups:   backups,
		retention: retention,
	}
}

// ProcessTask processes a backup archive task
func (w *BackupWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload BackupArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	w.logger.Info("archiving backup", zap.String("reason", payload.Reason))

	file, err := w.backups.Archive(ctx)
	if err != nil {
		return fmt.Errorf("failed to archive backup: %w", err)
	}

	keep := payload.Keep
	if keep <= 0 {
		keep = w.retention
	}
	removed, err := w.backups.Prune(ctx, keep)
	if err != nil {
		// Archive already succeeded, so the task must not be retried.
		w.logger.Warn("failed to prune old backups", zap.Error(err))
	}

	w.logger.Info("backup archived",
		zap.String("key", file.Key),
		zap.Int64("size_bytes", file.Size),
		zap.Int("pruned", removed),
	)
	return nil
}
