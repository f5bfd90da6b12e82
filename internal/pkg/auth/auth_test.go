package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-test-secret-test-secret!",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(42, "jane@example.com", true)
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestTokenTypeEnforcement(t *testing.T) {
	manager := NewJWTManager(testConfig())

	refresh, err := manager.GenerateRefreshToken(42, "jane@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(refresh)
	assert.Error(t, err)

	claims, err := manager.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	// Admin flag never rides on refresh tokens
	assert.False(t, claims.IsAdmin)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(1, "a@example.com", false)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token + "x")
	assert.Error(t, err)

	other := testConfig()
	other.JWT.Secret = "another-secret-another-secret-another!"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

func TestPasswordManager(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	t.Run("hash and verify", func(t *testing.T) {
		hash, err := manager.HashPassword("Sufficient1")
		require.NoError(t, err)
		assert.NoError(t, manager.VerifyPassword("Sufficient1", hash))
		assert.Error(t, manager.VerifyPassword("wrong", hash))
	})

	t.Run("validation rules", func(t *testing.T) {
		assert.Error(t, manager.ValidatePassword("short1A"))
		assert.Error(t, manager.ValidatePassword("alllowercase1"))
		assert.Error(t, manager.ValidatePassword("ALLUPPERCASE1"))
		assert.Error(t, manager.ValidatePassword("NoNumbersHere"))
		assert.NoError(t, manager.ValidatePassword("GoodPass1"))
	})
}
