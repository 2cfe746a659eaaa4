package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdesk/config"
	"ledgerdesk/internal/auth"
	"ledgerdesk/internal/domain"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "ledgerdesk-test",
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := auth.GenerateAccessToken(cfg, 7, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "ledgerdesk-test", claims.Issuer)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := auth.GenerateAccessToken(cfg, 7, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	other := testJWTConfig()
	other.AccessSecret = "someone-else"
	_, err = auth.ParseAccessToken(other, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAccessToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute

	token, err := auth.GenerateAccessToken(cfg, 7, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := auth.GenerateRefreshToken(cfg, 42)
	require.NoError(t, err)

	adminID, err := auth.ParseRefreshToken(cfg, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, adminID)
}

func TestRefreshToken_NotValidAsAccessToken(t *testing.T) {
	// The two token kinds are signed with different secrets.
	cfg := testJWTConfig()

	refresh, err := auth.GenerateRefreshToken(cfg, 42)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(cfg, refresh)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRefreshToken_Garbage(t *testing.T) {
	_, err := auth.ParseRefreshToken(testJWTConfig(), "definitely.not.ajwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
