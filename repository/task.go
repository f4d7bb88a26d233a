package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// TaskFilter scopes list queries. OwnerID is always set by the caller; a task
// is never visible outside its owner's scope.
type TaskFilter struct {
	OwnerID  string
	Status   domain.TaskStatus
	Priority domain.TaskPriority
	Limit    int
	Offset   int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
