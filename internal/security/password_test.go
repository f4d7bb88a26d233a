package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/backend/internal/security"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hasher := security.NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Password1")
	require.NoError(t, err)
	require.NotEqual(t, "Password1", hash)

	assert.NoError(t, hasher.Compare(hash, "Password1"))
	assert.Error(t, hasher.Compare(hash, "password1"))
	assert.Error(t, hasher.Compare(hash, ""))
}

func TestPasswordHashesDiffer(t *testing.T) {
	hasher := security.NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Password1")
	require.NoError(t, err)
	second, err := hasher.Hash("Password1")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	// out-of-range costs fall back to the bcrypt default instead of failing at hash time
	hasher := security.NewPasswordHasher(99)
	hash, err := hasher.Hash("Password1")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "Password1"))
}
