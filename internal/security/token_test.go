package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/security"
)

const testSecret = "test-secret-key"

func newService(ttl time.Duration) *security.TokenService {
	return security.NewTokenService(security.TokenConfig{
		Secret: testSecret,
		Issuer: "taskhive-test",
		TTL:    ttl,
	})
}

func TestIssueAndVerify(t *testing.T) {
	svc := newService(time.Hour)

	token, err := svc.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestVerify_Malformed(t *testing.T) {
	svc := newService(time.Hour)

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	svc := newService(time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(expired)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := newService(time.Hour)
	other := security.NewTokenService(security.TokenConfig{Secret: "another-secret", TTL: time.Hour})

	token, err := other.Issue("alice")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_WrongSigningMethod(t *testing.T) {
	svc := newService(time.Hour)

	// alg=none tokens must never pass
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
