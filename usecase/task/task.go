package task

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
)

type UseCase struct {
	tasks  repository.TaskRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		buffer: buffer,
		logger: logger,
	}
}

// Patch describes a partial task update. Nil fields keep their stored values.
type Patch struct {
	Title       *string
	Description *string
	Priority    *domain.TaskPriority
	Status      *domain.TaskStatus
	DueDate     *time.Time
}

// List returns the owner's tasks, newest first, optionally filtered by
// priority and status. The repository caps the page size at 100.
func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

// Get fetches a task and enforces ownership: a task that exists but belongs
// to someone else is a forbidden error, not a missing one.
func (uc *UseCase) Get(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		return nil, domain.ErrNotTaskOwner
	}
	return task, nil
}

// Create persists a new task owned by ownerID, applying enum defaults.
func (uc *UseCase) Create(ctx context.Context, ownerID string, task *domain.Task) (*domain.Task, error) {
	task.OwnerID = ownerID
	task.ApplyDefaults()
	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return created, nil
}

// Update applies a partial update after the ownership check. Fields absent
// from the patch keep their prior values; the owner never changes.
func (uc *UseCase) Update(ctx context.Context, id, ownerID string, patch Patch) (*domain.Task, error) {
	task, err := uc.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return task, nil
}

// Delete removes the owner's task. No soft delete; tasks have no children.
func (uc *UseCase) Delete(ctx context.Context, id, ownerID string) error {
	task, err := uc.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := uc.tasks.Delete(ctx, id); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task, err) {
			return nil
		}
		return err
	}
	return nil
}

// shouldBuffer queues the operation for replay when the failure looks like an
// infrastructure outage rather than a domain rejection.
func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	var dErr *domain.Error
	if errors.As(cause, &dErr) {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
