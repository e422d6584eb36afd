package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	refreshTTL := 720 * time.Hour
	maker := NewJWTMaker(secretKey, tokenTTL, refreshTTL)

	tests := []struct {
		name   string
		userID int
		email  string
		role   string
	}{
		{
			name:   "admin user",
			userID: 1,
			email:  "admin@example.com",
			role:   "admin",
		},
		{
			name:   "regular user",
			userID: 42,
			email:  "user@example.com",
			role:   "user",
		},
		{
			name:   "moderator",
			userID: 7,
			email:  "mod@example.com",
			role:   "moderator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, TypeAccess, claims.TokenType)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_RefreshToken(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute, 720*time.Hour)

	token, err := maker.GenerateRefreshToken(42, "user@example.com", "user")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, TypeRefresh, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(720*time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute, 720*time.Hour)

	otherMaker := NewJWTMaker("another_secret_key", 15*time.Minute, 720*time.Hour)
	foreignToken, err := otherMaker.GenerateToken(1, "user@example.com", "user")
	require.NoError(t, err)

	expiredMaker := NewJWTMaker(secretKey, -time.Minute, 720*time.Hour)
	expiredToken, err := expiredMaker.GenerateToken(1, "user@example.com", "user")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "token signed with another key",
			token: foreignToken,
		},
		{
			name:  "expired token",
			token: expiredToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
