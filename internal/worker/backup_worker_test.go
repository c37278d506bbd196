package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/domain"
)

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context) (*domain.BackupFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BackupFile), args.Error(1)
}

func (m *MockArchiver) Prune(ctx context.Context, keep int) (int, error) {
	args := m.Called(ctx, keep)
	return args.Int(0), args.Error(1)
}

func TestNewBackupArchiveTask(t *testing.T) {
	requested := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	task, err := NewBackupArchiveTask(&BackupArchivePayload{Reason: ReasonManual, Keep: 5, RequestedAt: requested})
	require.NoError(t, err)
	assert.Equal(t, TypeBackupArchive, task.Type())

	var decoded BackupArchivePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, ReasonManual, decoded.Reason)
	assert.Equal(t, 5, decoded.Keep)
	assert.True(t, requested.Equal(decoded.RequestedAt))
}

func TestBackupWorker_ProcessTask(t *testing.T) {
	file := &domain.BackupFile{Key: "backups/vermy-20260301T030000Z.json", Size: 1024}

	t.Run("archives and prunes with the configured retention", func(t *testing.T) {
		backups := new(MockArchiver)
		backups.On("Archive", mock.Anything).Return(file, nil)
		backups.On("Prune", mock.Anything, 14).Return(2, nil)

		task, err := NewBackupArchiveTask(&BackupArchivePayload{Reason: ReasonScheduled})
		require.NoError(t, err)

		w := NewBackupWorker(zap.NewNop(), backups, 14)
		require.NoError(t, w.ProcessTask(context.Background(), task))
		backups.AssertExpectations(t)
	})

	t.Run("payload retention overrides the default", func(t *testing.T) {
		backups := new(MockArchiver)
		backups.On("Archive", mock.Anything).Return(file, nil)
		backups.On("Prune", mock.Anything, 3).Return(0, nil)

		task, err := NewBackupArchiveTask(&BackupArchivePayload{Reason: ReasonManual, Keep: 3})
		require.NoError(t, err)

		w := NewBackupWorker(zap.NewNop(), backups, 14)
		require.NoError(t, w.ProcessTask(context.Background(), task))
		backups.AssertExpectations(t)
	})

	t.Run("archive failure is returned for retry", func(t *testing.T) {
		backups := new(MockArchiver)
		backups.On("Archive", mock.Anything).Return(nil, errors.New("bucket unreachable"))

		task, err := NewBackupArchiveTask(&BackupArchivePayload{Reason: ReasonScheduled})
		require.NoError(t, err)

		w := NewBackupWorker(zap.NewNop(), backups, 14)
		err = w.ProcessTask(context.Background(), task)
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
		backups.AssertNotCalled(t, "Prune", mock.Anything, mock.Anything)
	})

	t.Run("prune failure does not fail the task", func(t *testing.T) {
		backups := new(MockArchiver)
		backups.On("Archive", mock.Anything).Return(file, nil)
		backups.On("Prune", mock.Anything, 14).Return(0, errors.New("delete denied"))

		task, err := NewBackupArchiveTask(&BackupArchivePayload{Reason: ReasonScheduled})
		require.NoError(t, err)

		w := NewBackupWorker(zap.NewNop(), backups, 14)
		assert.NoError(t, w.ProcessTask(context.Background(), task))
	})

	t.Run("malformed payload skips retry", func(t *testing.T) {
		w := NewBackupWorker(zap.NewNop(), new(MockArchiver), 14)
		err := w.ProcessTask(context.Background(), asynq.NewTask(TypeBackupArchive, []byte("{")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, asynq.SkipRetry))
	})
}

func TestQueues(t *testing.T) {
	t.Run("weights the configured queues", func(t *testing.T) {
		q := Queues(config.WorkerConfig{QueueCritical: "critical", QueueDefault: "default", QueueLow: "low"})
		assert.Equal(t, map[string]int{"critical": 6, "default": 3, "low": 1}, q)
	})

	t.Run("falls back to a default queue", func(t *testing.T) {
		assert.Equal(t, map[string]int{"default": 1}, Queues(config.WorkerConfig{}))
	})
}

func TestNewServer_RequiresBackups(t *testing.T) {
	_, err := NewServer(zap.NewNop(), &config.Config{}, &WorkerDependencies{})
	assert.Error(t, err)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

func TestClient_EnqueueBackup(t *testing.T) {
	t.Run("returns the task id", func(t *testing.T) {
		e := new(MockEnqueuer)
		e.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
			var p BackupArchivePayload
			return task.Type() == TypeBackupArchive &&
				json.Unmarshal(task.Payload(), &p) == nil &&
				p.Reason == ReasonManual
		}), mock.Anything).Return(&asynq.TaskInfo{ID: "job-42", Queue: "default"}, nil)

		id, err := NewClientWithEnqueuer(e, "").EnqueueBackup(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "job-42", id)
		e.AssertExpectations(t)
	})

	t.Run("wraps enqueue failures", func(t *testing.T) {
		e := new(MockEnqueuer)
		e.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

		_, err := NewClientWithEnqueuer(e, "default").EnqueueBackup(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis down")
	})
}
