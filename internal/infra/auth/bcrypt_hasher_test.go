package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tasktracker/config"
	domainerrors "tasktracker/internal/domain/errors"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	password := "pw1"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("same password", first))
	assert.True(t, hasher.Check("same password", second))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)
	password := "StrongPass123!"

	// Generate hash
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("WrongPassword123!", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with malformed hashes
	assert.False(t, hasher.Check(password, "invalid_hash"))
	assert.False(t, hasher.Check(password, ""))
	assert.False(t, hasher.Check(password, "$2a$04$short"))
}

func TestBcryptHasher_EmptyPasswordIsAccepted(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("")
	require.NoError(t, err)
	assert.True(t, hasher.Check("", hash))
	assert.False(t, hasher.Check("x", hash))
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	hasher := NewBcryptHasherWithCost(customCost)

	password := "StrongPass123!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Verify the hash uses the correct cost
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestNewBcryptHasher_FromConfig(t *testing.T) {
	t.Run("default cost when unset", func(t *testing.T) {
		hasher, err := NewBcryptHasher(&config.Config{})
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, hasher.(*bcryptHasher).cost)
	})

	t.Run("configured cost", func(t *testing.T) {
		hasher, err := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 5}})
		require.NoError(t, err)
		assert.Equal(t, 5, hasher.(*bcryptHasher).cost)
	})

	t.Run("out of range cost", func(t *testing.T) {
		hasher, err := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 40}})
		assert.Error(t, err)
		assert.Nil(t, hasher)
	})
}

func TestBcryptHasher_Hash_InvalidCost(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MaxCost + 1)

	hash, err := hasher.Hash("pw1")
	require.Error(t, err)
	assert.Empty(t, hash)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}
