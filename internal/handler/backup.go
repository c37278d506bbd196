package handler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/service"
)

// Backupper exports and restores the whole dataset
type Backupper interface {
	Export(ctx context.Context) (*domain.BackupBundle, error)
	Import(ctx context.Context, bundle *domain.BackupBundle) (*domain.ImportResult, error)
	Files(ctx context.Context) ([]domain.BackupFile, error)
	ImportFile(ctx context.Context, key string) (*domain.ImportResult, error)
}

// BackupEnqueuer schedules an asynchronous archive run and returns the job id
type BackupEnqueuer interface {
	EnqueueBackup(ctx context.Context) (string, error)
}

// BackupHandler handles backup endpoints
type BackupHandler struct {
	backups Backupper
	jobs    BackupEnqueuer
}

// NewBackupHandler creates a new backup handler. jobs may be nil when no
// job queue is configured.
func NewBackupHandler(backups Backupper, jobs BackupEnqueuer) *BackupHandler {
	return &BackupHandler{backups: backups, jobs: jobs}
}

// Export handles GET /api/backup/export
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	bundle, err := h.backups.Export(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	data, err := service.EncodeBundle(bundle)
	if err != nil {
		return handleError(c, err)
	}

	filename := fmt.Sprintf("vermy-backup-%s.json", bundle.Meta.ExportedAt.UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Import handles POST /api/backup/import. The body is a bundle as produced
// by Export; with ?key= the bundle is read from the archive instead.
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	var (
		result *domain.ImportResult
		err    error
	)

	if key := c.Query("key"); key != "" {
		result, err = h.backups.ImportFile(c.UserContext(), key)
	} else {
		if len(c.Body()) == 0 {
			return handleError(c, apperrors.BadRequest("request body is required"))
		}
		var bundle *domain.BackupBundle
		bundle, err = service.DecodeBundle(bytes.NewReader(c.Body()))
		if err != nil {
			return handleError(c, err)
		}
		result, err = h.backups.Import(c.UserContext(), bundle)
	}
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(result)
}

// EnqueueJob handles POST /api/backup/jobs
func (h *BackupHandler) EnqueueJob(c *fiber.Ctx) error {
	if h.jobs == nil {
		return handleError(c, apperrors.Unavailable("job queue"))
	}

	id, err := h.jobs.EnqueueBackup(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	logger.FromContext(c.UserContext()).Info("backup job enqueued", zap.String("job_id", id))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"jobId":      id,
		"enqueuedAt": time.Now().UTC(),
	})
}

// Files handles GET /api/backup/files
func (h *BackupHandler) Files(c *fiber.Ctx) error {
	files, err := h.backups.Files(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{
		"items":      files,
		"totalCount": len(files),
	})
}

// RegisterRoutes registers backup routes
func (h *BackupHandler) RegisterRoutes(router fiber.Router) {
	backup := router.Group("/backup")
	backup.Get("/export", h.Export)
	backup.Post("/import", h.Import)
	backup.Post("/jobs", h.EnqueueJob)
	backup.Get("/files", h.Files)
}
