package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewJWTService("test-secret-key-for-jwt", "1h", "24h")
}

func TestAccessTokenCarriesClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	tokenString, expiresAt, err := svc.GenerateAccessToken("u1", "tanaka@example.com", "Tanaka", true)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Positive(t, expiresAt)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	userID, _ := token.Get("user_id")
	assert.Equal(t, "u1", userID)

	isAdmin, _ := token.Get("is_admin")
	assert.Equal(t, true, isAdmin)

	tokenType, _ := token.Get("type")
	assert.Equal(t, "access", tokenType)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	tokenString, _, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)

	userID, err := svc.ParseRefreshToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	tokenString, _, err := svc.GenerateAccessToken("u1", "tanaka@example.com", "Tanaka", false)
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(tokenString)
	assert.Error(t, err)
}

func TestRevocation(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	tokenString, _, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(tokenString))
	svc.RevokeToken(tokenString)
	assert.True(t, svc.IsTokenRevoked(tokenString))
}

func TestRefreshTokenCookie(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	cookie := svc.RefreshTokenCookie("some-token", 1767225600)
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Equal(t, "some-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
}
