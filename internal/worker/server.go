package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/config"
)

// Server is the worker server
type Server struct {
	logger    *zap.Logger
	config    *config.Config
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	client    *asynq.Client
}

// WorkerDependencies holds dependencies for workers
type WorkerDependencies struct {
	Backups Archiver
}

// RedisOpt builds the asynq connection options from the redis config
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Queues returns the weighted queue set for the worker config
func Queues(cfg config.WorkerConfig) map[string]int {
	queues := map[string]int{}
	add := func(name string, weight int) {
		if name != "" {
			queues[name] += weight
		}
	}
	add(cfg.QueueCritical, 6)
	add(cfg.QueueDefault, 3)
	add(cfg.QueueLow, 1)
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}

// NewServer creates a new worker server
func NewServer(
	logger *zap.Logger,
	cfg *config.Config,
	deps *WorkerDependencies,
) (*Server, error) {
	if deps == nil || deps.Backups == nil {
		return nil, fmt.Errorf("worker dependencies are incomplete")
	}

	redisOpt := RedisOpt(cfg.Redis)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues:      Queues(cfg.Worker),
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task processing failed",
					zap.String("type", task.Type()),
					zap.Error(err),
				)
			}),
			Logger: &asynqLogger{logger: logger},
		},
	)

	backupWorker := NewBackupWorker(logger, deps.Backups, cfg.Backup.Retention)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBackupArchive, backupWorker.ProcessTask)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: &asynqLogger{logger: logger},
	})

	client := asynq.NewClient(redisOpt)

	return &Server{
		logger:    logger,
		config:    cfg,
		server:    server,
		mux:       mux,
		scheduler: scheduler,
		client:    client,
	}, nil
}

// Start starts the worker server
func (s *Server) Start() error {
	if err := s.registerScheduledTasks(); err != nil {
		return fmt.Errorf("failed to register scheduled tasks: %w", err)
	}

	go func() {
		if err := s.scheduler.Run(); err != nil {
			s.logger.Error("scheduler stopped", zap.Error(err))
		}
	}()

	s.logger.Info("starting worker server",
		zap.Int("concurrency", s.config.Worker.Concurrency),
		zap.String("backup_schedule", s.config.Backup.Schedule),
	)

	return s.server.Run(s.mux)
}

// Stop stops the worker server
func (s *Server) Stop() {
	s.server.Shutdown()
	s.scheduler.Shutdown()
	s.client.Close()
}

// Client returns the asynq client for enqueuing tasks
func (s *Server) Client() *asynq.Client {
	return s.client
}

// registerScheduledTasks registers periodic tasks with the scheduler.
// An empty schedule disables the periodic backup.
func (s *Server) registerScheduledTasks() error {
	if s.config.Backup.Schedule == "" {
		return nil
	}

	task, err := NewBackupArchiveTask(&BackupArchivePayload{Reason: ReasonScheduled})
	if err != nil {
		return err
	}
	_, err = s.scheduler.Register(
		s.config.Backup.Schedule,
		task,
		asynq.Queue(queueOr(s.config.Worker.QueueLow, "low")),
	)
	if err != nil {
		return fmt.Errorf("failed to register backup task: %w", err)
	}
	return nil
}

func queueOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// asynqLogger adapts zap.Logger to asynq.Logger
type asynqLogger struct {
	logger *zap.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Fatal(fmt.Sprint(args...))
}
