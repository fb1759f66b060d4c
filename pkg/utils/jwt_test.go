package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenPair(t *testing.T) {
	svc := NewJWTService("test-secret")

	access, refresh, expiresIn, err := svc.GenerateTokenPair("user-1", "dev@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Greater(t, expiresIn, int64(0))

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", accessClaims.UserID)
	assert.Equal(t, "dev@example.com", accessClaims.Email)
	assert.Equal(t, "access", accessClaims.Type)

	refreshClaims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.Type)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	access, _, _, err := NewJWTService("secret-a").GenerateTokenPair("user-1", "dev@example.com")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(access)
	assert.Error(t, err)
}

func TestValidateRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	access, _, _, err := svc.GenerateTokenPair("user-1", "dev@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestRefreshAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, refresh, _, err := svc.GenerateTokenPair("user-1", "dev@example.com")
	require.NoError(t, err)

	access, expiresAt, err := svc.RefreshAccessToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.Greater(t, expiresAt, int64(0))

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
}
