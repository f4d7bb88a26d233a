package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// UserRepository persists user accounts. Username lookups expect the
// normalized (lowercased) form.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
}
