package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/infrastructure/buffer"
	"github.com/taskhive/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor replays buffered task and account mutations against the
// primary stores once the monitor reports them healthy again.
type BufferProcessor struct {
	store    *buffer.Store
	monitor  ConnectionHealth
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:    store,
		monitor:  monitor,
		userRepo: userRepo,
		taskRepo: taskRepo,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started")
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// BufferOperation enqueues an operation for later replay.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return domain.ErrInvalidPayload
	}
	return bp.store.Enqueue(item)
}

// Drain processes buffered items synchronously.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	if err := bp.store.Cleanup(time.Now().Add(-bp.cfg.Retention)); err != nil {
		bp.logger.Warn("buffer cleanup failed", zap.Error(err))
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := bp.apply(ctx, item); err != nil {
			bp.retry(item, err)
			continue
		}
		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to remove replayed item", zap.String("id", item.ID), zap.Error(err))
		}
	}
	return nil
}

func (bp *BufferProcessor) apply(ctx context.Context, item buffer.Item) error {
	switch item.Entity {
	case buffer.EntityTask:
		return bp.applyTask(ctx, item)
	case buffer.EntityAccount:
		return bp.applyAccount(ctx, item)
	default:
		// unknown entity: nothing will ever consume it
		return nil
	}
}

func (bp *BufferProcessor) applyTask(ctx context.Context, item buffer.Item) error {
	var task domain.Task
	if err := json.Unmarshal(item.Data, &task); err != nil {
		return nil // malformed payloads are dropped, not retried
	}

	switch item.Operation {
	case buffer.OperationCreate:
		_, err := bp.taskRepo.Create(ctx, &task)
		return err
	case buffer.OperationUpdate:
		err := bp.taskRepo.Update(ctx, &task)
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	case buffer.OperationDelete:
		err := bp.taskRepo.Delete(ctx, task.ID)
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (bp *BufferProcessor) applyAccount(ctx context.Context, item buffer.Item) error {
	var user domain.User
	if err := json.Unmarshal(item.Data, &user); err != nil {
		return nil
	}
	err := bp.userRepo.Update(ctx, &user)
	if domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil
	}
	return err
}

func (bp *BufferProcessor) retry(item buffer.Item, cause error) {
	item.Retries++
	if item.Retries >= bp.cfg.MaxRetries {
		bp.logger.Error("dropping buffered operation after max retries",
			zap.String("id", item.ID),
			zap.String("entity", item.Entity),
			zap.String("operation", item.Operation),
			zap.Error(cause),
		)
		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to drop buffered item", zap.Error(err))
		}
		return
	}
	if err := bp.store.Remove(item); err != nil {
		bp.logger.Warn("failed to dequeue item for requeue", zap.Error(err))
	}
	if err := bp.store.Requeue(item); err != nil {
		bp.logger.Error("failed to requeue buffered item", zap.Error(err))
	}
}
