package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
}

func TestCheckPassword(t *testing.T) {
	assert.ErrorIs(t, CheckPassword("12345"), ErrPasswordTooShort)
	assert.NoError(t, CheckPassword("123456"))
}

func TestNewResetSecret(t *testing.T) {
	s1, h1, err := NewResetSecret()
	require.NoError(t, err)
	s2, h2, err := NewResetSecret()
	require.NoError(t, err)

	assert.Len(t, s1, 2*ResetSecretBytes)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, h1, HashSecret(s1))
	assert.NotEqual(t, s1, h1)
}
