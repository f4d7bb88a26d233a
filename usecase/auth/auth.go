package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/security"
	"github.com/taskhive/backend/repository"
)

type UseCase struct {
	users     repository.UserRepository
	denylist  repository.TokenDenylist
	tokens    *security.TokenService
	passwords *security.PasswordHasher
	logger    *zap.Logger
}

func New(
	users repository.UserRepository,
	denylist repository.TokenDenylist,
	tokens *security.TokenService,
	passwords *security.PasswordHasher,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:     users,
		denylist:  denylist,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput carries the registration fields after transport validation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// Register normalizes and validates credentials, checks for duplicates
// (email first, then username) and persists the new account as active.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := domain.NormalizeUsername(in.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	if _, err := uc.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}
	if _, err := uc.users.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := uc.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues a bearer token. An unknown username
// and a wrong password fail identically.
func (uc *UseCase) Login(ctx context.Context, username, password string) (string, error) {
	username = domain.NormalizeUsername(username)

	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	if err := uc.passwords.Compare(user.PasswordHash, password); err != nil {
		return "", domain.ErrUnauthorized
	}
	if !user.IsActive {
		return "", domain.ErrInactiveUser
	}

	return uc.tokens.Issue(user.Username)
}

// CurrentUser resolves a verified token subject to the stored user record.
func (uc *UseCase) CurrentUser(ctx context.Context, subject string) (*domain.User, error) {
	if subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return uc.users.GetByUsername(ctx, subject)
}

// Logout verifies the presented token and denylists it until its natural
// expiry, after which the denylist entry lapses on its own.
func (uc *UseCase) Logout(ctx context.Context, tokenString string) error {
	claims, err := uc.tokens.Verify(tokenString)
	if err != nil {
		return err
	}
	return uc.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}
