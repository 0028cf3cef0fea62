package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPasswordValid(t *testing.T) {
	// Minimum length with a digit is acceptable
	assert.True(t, IsPasswordValid("abc123"))
	assert.True(t, IsPasswordValid("longerpassword9"))

	// No digit
	assert.False(t, IsPasswordValid("abcdef"))
	// Too short
	assert.False(t, IsPasswordValid("a1"))
	assert.False(t, IsPasswordValid(""))
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("abc123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "abc123", hash)

	assert.NoError(t, VerifyPassword(hash, "abc123"))
	assert.Error(t, VerifyPassword(hash, "abc124"))
}

func TestVerifyPasswordEmptyHash(t *testing.T) {
	// Accounts without a stored hash can never authenticate by password
	assert.Error(t, VerifyPassword("", "abc123"))
}
