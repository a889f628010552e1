package auth

import (
	"testing"
	"time"

	"github.com/companyportal/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-only-32ch"

func newTestTokenManager() *TokenManager {
	return NewTokenManager(testSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestTokenManager_GenerateAndValidateAccessToken(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.GenerateAccessToken("user_1", "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeAccess, claims.Type)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_GenerateTokenPair(t *testing.T) {
	tm := newTestTokenManager()

	pair, err := tm.GenerateTokenPair("user_1", "test@example.com")
	require.NoError(t, err)

	accessClaims, err := tm.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeAccess, accessClaims.Type)

	refreshClaims, err := tm.ValidateToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeRefresh, refreshClaims.Type)
}

func TestTokenManager_ValidateToken_WrongSecret(t *testing.T) {
	tm := newTestTokenManager()
	other := NewTokenManager("a-completely-different-secret-value", 15*time.Minute, 7*24*time.Hour)

	token, err := tm.GenerateAccessToken("user_1", "test@example.com")
	require.NoError(t, err)

	claims, err := other.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenManager_ValidateToken_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, -1*time.Minute, 7*24*time.Hour)

	token, err := tm.GenerateAccessToken("user_1", "test@example.com")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenManager_ValidateToken_Garbage(t *testing.T) {
	tm := newTestTokenManager()

	claims, err := tm.ValidateToken("not.a.token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}
