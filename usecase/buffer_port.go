package usecase

import (
	"context"

	"github.com/taskhive/backend/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic. Mutations that fail while postgres is unreachable are
// handed here and replayed later.
type OperationBuffer interface {
	BufferAccount(ctx context.Context, operation string, user *domain.User) error
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
}
