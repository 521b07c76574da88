package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ielts/backend/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      30 * time.Minute,
		AdminTokenTTL: 60 * time.Minute,
	}
}

func TestUserTokenRoundTrip(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateUserToken(42, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseTokenClaims(token, cfg)
	require.NoError(t, err)

	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, false, claims["admin"])
}

func TestAdminTokenClaims(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateAdminToken("admin@example.com", cfg)
	require.NoError(t, err)

	claims, err := ParseTokenClaims(token, cfg)
	require.NoError(t, err)

	assert.Equal(t, true, claims["admin"])
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.Equal(t, float64(0), claims["user_id"])
}

func TestParseTokenClaimsRejectsEmptyToken(t *testing.T) {
	_, err := ParseTokenClaims("", testConfig())
	assert.Error(t, err)
}

func TestParseTokenClaimsRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateUserToken(7, cfg)
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "different-secret"

	_, err = ParseTokenClaims(token, other)
	assert.Error(t, err)
}
