package account

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
)

type UseCase struct {
	users  repository.UserRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(users repository.UserRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		buffer: buffer,
		logger: logger,
	}
}

// Patch describes a partial account update. Username, password hash and the
// active flag are not reachable through this path.
type Patch struct {
	Email    *string
	FullName *string
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// Update applies a partial profile update to the caller's own record.
func (uc *UseCase) Update(ctx context.Context, userID string, patch Patch) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FullName != nil {
		if len(*patch.FullName) > domain.FullNameMaxLength {
			return nil, domain.NewError(domain.ErrCodeInvalid, "full name must be at most 100 characters")
		}
		user.FullName = *patch.FullName
	}

	if err := uc.users.Update(ctx, user); err != nil {
		var dErr *domain.Error
		if uc.buffer != nil && !errors.As(err, &dErr) {
			if bufErr := uc.buffer.BufferAccount(ctx, usecase.OperationUpdate, user); bufErr != nil {
				uc.logger.Error("failed to buffer account update", zap.Error(bufErr))
				return nil, err
			}
			uc.logger.Warn("account update buffered", zap.Error(err))
			return user, nil
		}
		return nil, err
	}
	return user, nil
}
