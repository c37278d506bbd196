package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vermy/vermy/internal/config"
)

// Enqueuer is the subset of asynq.Client used to submit tasks
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client submits background jobs from the API process
type Client struct {
	enqueuer Enqueuer
	queue    string
	closer   func() error
	now      func() time.Time
}

// NewClient connects a job client to the redis instance the worker uses
func NewClient(cfg *config.Config) *Client {
	c := asynq.NewClient(RedisOpt(cfg.Redis))
	return &Client{
		enqueuer: c,
		queue:    queueOr(cfg.Worker.QueueDefault, "default"),
		closer:   c.Close,
		now:      time.Now,
	}
}

// NewClientWithEnqueuer wraps an existing enqueuer
func NewClientWithEnqueuer(e Enqueuer, queue string) *Client {
	return &Client{
		enqueuer: e,
		queue:    queueOr(queue, "default"),
		now:      time.Now,
	}
}

// EnqueueBackup schedules an immediate backup archive and returns the job id
func (c *Client) EnqueueBackup(ctx context.Context) (string, error) {
	task, err := NewBackupArchiveTask(&BackupArchivePayload{
		Reason:      ReasonManual,
		RequestedAt: c.now().UTC(),
	})
	if err != nil {
		return "", err
	}
	info, err := c.enqueuer.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	if err != nil {
		return "", fmt.Errorf("failed to enqueue backup: %w", err)
	}
	return info.ID, nil
}

// Close releases the redis connection
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
