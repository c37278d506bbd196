package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeBackupArchive is the task type for archiving a backup bundle
	TypeBackupArchive = "backup:archive"
)

// Trigger values for BackupArchivePayload.Reason
const (
	ReasonScheduled = "scheduled"
	ReasonManual    = "manual"
)

// BackupArchivePayload is the payload for backup archive tasks
type BackupArchivePayload struct {
	Reason      string    `json:"reason"`
	Keep        int       `json:"keep,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewBackupArchiveTask creates a backup archive task
func NewBackupArchiveTask(payload *BackupArchivePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup archive payload: %w", err)
	}
	return asynq.NewTask(TypeBackupArchive, data, asynq.MaxRetry(3), asynq.Timeout(15*time.Minute)), nil
}
