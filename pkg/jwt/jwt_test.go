package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator() *Generator {
	return NewGenerator(TokenConfig{
		Secret:               "test-secret-at-least-32-characters!!",
		Issuer:               "propertypassport-test",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	})
}

func TestGenerator_AccessToken(t *testing.T) {
	g := newTestGenerator()

	token, expiresAt, err := g.GenerateAccessToken("user-1", "alice@example.com", "Alice Doe", "agent", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := g.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "agent", claims.Role)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestGenerator_EmptyUserID(t *testing.T) {
	g := newTestGenerator()

	_, _, err := g.GenerateAccessToken("", "a@b.c", "", "consumer", false)
	assert.ErrorIs(t, err, ErrEmptyUserID)

	_, _, err = g.GenerateRefreshToken("")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestGenerator_TokenPair(t *testing.T) {
	g := newTestGenerator()

	pair, err := g.GenerateTokenPair("user-2", "bob@example.com", "Bob", "consumer", true)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := g.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, access.IsAdmin)

	refresh, err := g.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-2", refresh.UserID)
	assert.NotEmpty(t, refresh.ID)
}

func TestGenerator_TokenTypeEnforced(t *testing.T) {
	g := newTestGenerator()

	access, _, err := g.GenerateAccessToken("user-3", "c@example.com", "", "consumer", false)
	require.NoError(t, err)
	refresh, _, err := g.GenerateRefreshToken("user-3")
	require.NoError(t, err)

	_, err = g.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = g.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestGenerator_ExpiredToken(t *testing.T) {
	g := NewGenerator(TokenConfig{
		Secret:              "test-secret-at-least-32-characters!!",
		Issuer:              "propertypassport-test",
		AccessTokenDuration: -time.Minute,
	})

	token, _, err := g.GenerateAccessToken("user-4", "d@example.com", "", "consumer", false)
	require.NoError(t, err)

	_, err = g.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGenerator_WrongSecret(t *testing.T) {
	g := newTestGenerator()
	other := NewGenerator(TokenConfig{
		Secret:              "a-completely-different-secret-value!",
		AccessTokenDuration: 15 * time.Minute,
	})

	token, _, err := g.GenerateAccessToken("user-5", "e@example.com", "", "consumer", false)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
