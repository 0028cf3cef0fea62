package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "softwareshop-test",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := testJWTManager()

	token, jti, err := m.GenerateAccessToken(42, "user@example.com", "USER", 3)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := testJWTManager()
	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour})

	token, _, err := m.GenerateAccessToken(1, "a@b.c", "USER", 0)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	m := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute, // already expired at issue time
	})

	token, _, err := m.GenerateAccessToken(1, "a@b.c", "USER", 0)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshAccessTokenRequiresRefreshType(t *testing.T) {
	m := testJWTManager()

	accessToken, _, err := m.GenerateAccessToken(1, "a@b.c", "USER", 0)
	require.NoError(t, err)

	_, _, err = m.RefreshAccessToken(accessToken, 0)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refreshToken, _, err := m.GenerateRefreshToken(1, "a@b.c", "USER", 0)
	require.NoError(t, err)

	newAccess, _, err := m.RefreshAccessToken(refreshToken, 0)
	require.NoError(t, err)

	claims, err := m.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
}

func TestGetTokenExpiry(t *testing.T) {
	m := testJWTManager()

	token, _, err := m.GenerateAccessToken(1, "a@b.c", "USER", 0)
	require.NoError(t, err)

	exp, err := m.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}
