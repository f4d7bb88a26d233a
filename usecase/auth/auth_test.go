package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/security"
	"github.com/taskhive/backend/repository/inmemory"
	authUC "github.com/taskhive/backend/usecase/auth"
)

type fixture struct {
	uc       *authUC.UseCase
	users    *inmemory.UserStorage
	denylist *inmemory.Denylist
	tokens   *security.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := inmemory.NewUserStorage()
	denylist := inmemory.NewDenylist()
	tokens := security.NewTokenService(security.TokenConfig{
		Secret: "test-secret-key",
		Issuer: "taskhive-test",
		TTL:    time.Hour,
	})
	passwords := security.NewPasswordHasher(bcrypt.MinCost)
	return &fixture{
		uc:       authUC.New(users, denylist, tokens, passwords, zap.NewNop()),
		users:    users,
		denylist: denylist,
		tokens:   tokens,
	}
}

func register(t *testing.T, f *fixture, username, email, password string) *domain.User {
	t.Helper()
	user, err := f.uc.Register(context.Background(), authUC.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestRegister_NormalizesUsername(t *testing.T) {
	f := newFixture(t)

	user := register(t, f, "Alice", "alice@example.com", "Password1")

	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "Password1", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "Password1")

	_, err := f.uc.Register(context.Background(), authUC.RegisterInput{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "Password1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "Password1")

	// case-insensitive: Alice normalizes to the taken name
	_, err := f.uc.Register(context.Background(), authUC.RegisterInput{
		Username: "Alice",
		Email:    "alice2@example.com",
		Password: "Password1",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegister_RejectsBadInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input authUC.RegisterInput
	}{
		{name: "non-alphanumeric username", input: authUC.RegisterInput{Username: "ali_ce", Email: "a@b.com", Password: "Password1"}},
		{name: "short password", input: authUC.RegisterInput{Username: "alice", Email: "a@b.com", Password: "Pass1"}},
		{name: "no uppercase", input: authUC.RegisterInput{Username: "alice", Email: "a@b.com", Password: "password1"}},
		{name: "no digit", input: authUC.RegisterInput{Username: "alice", Email: "a@b.com", Password: "Passwordx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Register(context.Background(), tt.input)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		})
	}
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "Password1")

	token, err := f.uc.Login(context.Background(), "Alice", "Password1")
	require.NoError(t, err)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "Password1")

	_, err := f.uc.Login(context.Background(), "alice", "WrongPass1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// unknown usernames fail identically
	_, err = f.uc.Login(context.Background(), "mallory", "Password1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newFixture(t)
	user := register(t, f, "alice", "alice@example.com", "Password1")

	user.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), user))

	_, err := f.uc.Login(context.Background(), "alice", "Password1")
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "Password1")

	user, err := f.uc.CurrentUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = f.uc.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = f.uc.CurrentUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "Password1")

	token, err := f.uc.Login(context.Background(), "alice", "Password1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(context.Background(), token))

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	revoked, err := f.denylist.IsRevoked(context.Background(), claims.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogout_InvalidToken(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Logout(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
