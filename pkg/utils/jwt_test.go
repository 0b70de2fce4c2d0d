package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "bookforge")

	pair, err := m.GenerateTokenPair("u-1", "writer@example.com", "author", time.Minute, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(60), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "writer@example.com", claims.Email)
	assert.Equal(t, "author", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.Type)
}

func TestJWTRejectsWrongSecretAndIssuer(t *testing.T) {
	token, err := NewJWTManager("secret", "bookforge").GenerateToken("u-1", "", "author", TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = NewJWTManager("other", "bookforge").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTManager("secret", "someone-else").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("secret", "bookforge")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateToken("u-1", "", "author", TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
