package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/companyportal/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsCapturingHandler(captured **models.TokenClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidAccessToken(t *testing.T) {
	tm := newTestTokenManager()
	token, err := tm.GenerateAccessToken("user_1", "test@example.com")
	require.NoError(t, err)

	var captured *models.TokenClaims
	handler := AuthMiddleware(tm)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user_1", captured.UserID)
	assert.Equal(t, "test@example.com", captured.Email)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tm := newTestTokenManager()

	var captured *models.TokenClaims
	handler := AuthMiddleware(tm)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tm := newTestTokenManager()

	var captured *models.TokenClaims
	handler := AuthMiddleware(tm)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tm := newTestTokenManager()

	var captured *models.TokenClaims
	handler := AuthMiddleware(tm)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestAuthMiddleware_RejectsRefreshToken(t *testing.T) {
	tm := newTestTokenManager()
	token, err := tm.GenerateRefreshToken("user_1", "test@example.com")
	require.NoError(t, err)

	var captured *models.TokenClaims
	handler := AuthMiddleware(tm)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestGetUserFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	assert.Nil(t, GetUserFromContext(req))
}
