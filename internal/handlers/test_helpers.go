package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/companyportal/backend/internal/auth"
	"github.com/companyportal/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewTestRequest builds a JSON request for handler tests
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext injects authenticated claims the way the middleware does
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		Type:   models.TokenTypeAccess,
		UserID: userID,
		Email:  email,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// DecodeEnvelope asserts the status code and returns the decoded response body
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) envelope {
	t.Helper()

	assert.Equal(t, wantStatus, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

// envelope mirrors the wire shape of pkg/http.Envelope with Data left as a map
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    map[string]any      `json:"data"`
	Errors  map[string][]string `json:"errors"`
}
