package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/companyportal/backend/internal/models"
	"github.com/companyportal/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	LoginFunc          func(ctx context.Context, email, password string) (*services.LoginChallenge, error)
	VerifyLoginOTPFunc func(ctx context.Context, email, token, code string) (*services.AuthResult, error)
	ResendLoginOTPFunc func(ctx context.Context, email, token string) (string, error)
	RefreshTokenFunc   func(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginChallenge, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) VerifyLoginOTP(ctx context.Context, email, token, code string) (*services.AuthResult, error) {
	if m.VerifyLoginOTPFunc != nil {
		return m.VerifyLoginOTPFunc(ctx, email, token, code)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) ResendLoginOTP(ctx context.Context, email, token string) (string, error) {
	if m.ResendLoginOTPFunc != nil {
		return m.ResendLoginOTPFunc(ctx, email, token)
	}
	return "", models.ErrInternalServer
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return nil, models.ErrInternalServer
}

const testLoginToken = "d2f1c9e8-3b4a-4c5d-9e6f-7a8b9c0d1e2f"

func TestAuthHandler_Login_Success(t *testing.T) {
	service := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.LoginChallenge, error) {
			assert.Equal(t, "test@example.com", email)
			return &services.LoginChallenge{UserID: "user_1", Token: testLoginToken}, nil
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "test@example.com",
		Password: "SecurePass123",
	})
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusOK)
	assert.True(t, env.Success)
	assert.Equal(t, "OTP sent to your email", env.Message)
	assert.Equal(t, "user_1", env.Data["user_id"])
	assert.Equal(t, testLoginToken, env.Data["token"])
	assert.NotContains(t, env.Data, "access_token")
}

func TestAuthHandler_Login_EagerSessionIncludesTokens(t *testing.T) {
	service := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.LoginChallenge, error) {
			return &services.LoginChallenge{
				UserID: "user_1",
				Token:  testLoginToken,
				Tokens: &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
			}, nil
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "test@example.com",
		Password: "SecurePass123",
	})
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusOK)
	assert.Equal(t, "access", env.Data["access_token"])
	assert.Equal(t, "refresh", env.Data["refresh_token"])
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	service := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.LoginChallenge, error) {
			return nil, models.ErrNotFound
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "unknown@example.com",
		Password: "SecurePass123",
	})
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusNotFound)
	assert.False(t, env.Success)
	assert.Equal(t, "User with this email does not exist", env.Message)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	service := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.LoginChallenge, error) {
			return nil, models.ErrUnauthorized
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "test@example.com",
		Password: "WrongPassword",
	})
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusUnauthorized)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestAuthHandler_Login_ValidationErrors(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email: "not-an-email",
	})
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusBadRequest)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestAuthHandler_VerifyOTP_Success(t *testing.T) {
	user := &models.User{ID: "user_1", Email: "test@example.com", FullName: "Test User"}
	service := &MockAuthService{
		VerifyLoginOTPFunc: func(ctx context.Context, email, token, code string) (*services.AuthResult, error) {
			assert.Equal(t, testLoginToken, token)
			assert.Equal(t, "111111", code)
			return &services.AuthResult{
				User:   user,
				Tokens: &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
			}, nil
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/verify-otp", VerifyOTPRequest{
		Email: "test@example.com",
		Token: testLoginToken,
		OTP:   "111111",
	})
	rec := httptest.NewRecorder()

	handler.VerifyOTP(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusOK)
	assert.Equal(t, "Login successful", env.Message)
	assert.Equal(t, "access", env.Data["access_token"])
	assert.Equal(t, "refresh", env.Data["refresh_token"])
	require.Contains(t, env.Data, "user")
	userData := env.Data["user"].(map[string]any)
	assert.Equal(t, "user_1", userData["id"])
}

func TestAuthHandler_VerifyOTP_Invalid(t *testing.T) {
	service := &MockAuthService{
		VerifyLoginOTPFunc: func(ctx context.Context, email, token, code string) (*services.AuthResult, error) {
			return nil, models.ErrOTPInvalid
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/verify-otp", VerifyOTPRequest{
		Email: "test@example.com",
		Token: testLoginToken,
		OTP:   "000000",
	})
	rec := httptest.NewRecorder()

	handler.VerifyOTP(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Invalid OTP or token", env.Message)
}

func TestAuthHandler_VerifyOTP_Expired(t *testing.T) {
	service := &MockAuthService{
		VerifyLoginOTPFunc: func(ctx context.Context, email, token, code string) (*services.AuthResult, error) {
			return nil, models.ErrOTPExpired
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/verify-otp", VerifyOTPRequest{
		Email: "test@example.com",
		Token: testLoginToken,
		OTP:   "111111",
	})
	rec := httptest.NewRecorder()

	handler.VerifyOTP(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusBadRequest)
	assert.Equal(t, "OTP has expired", env.Message)
}

func TestAuthHandler_ResendOTP_Success(t *testing.T) {
	service := &MockAuthService{
		ResendLoginOTPFunc: func(ctx context.Context, email, token string) (string, error) {
			return "new-token", nil
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/resend-otp", ResendOTPRequest{
		Email: "test@example.com",
		Token: testLoginToken,
	})
	rec := httptest.NewRecorder()

	handler.ResendOTP(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusOK)
	assert.Equal(t, "OTP resent to your email", env.Message)
	assert.Equal(t, "new-token", env.Data["token"])
}

func TestAuthHandler_ResendOTP_TokenOptional(t *testing.T) {
	var gotToken string
	service := &MockAuthService{
		ResendLoginOTPFunc: func(ctx context.Context, email, token string) (string, error) {
			gotToken = token
			return "new-token", nil
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/resend-otp", ResendOTPRequest{
		Email: "test@example.com",
	})
	rec := httptest.NewRecorder()

	handler.ResendOTP(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusOK)
	assert.True(t, env.Success)
	assert.Empty(t, gotToken)
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	service := &MockAuthService{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
			return &models.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/token/refresh", RefreshTokenRequest{
		RefreshToken: "some-refresh-token",
	})
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusOK)
	assert.Equal(t, "new-access", env.Data["access_token"])
	assert.Equal(t, "new-refresh", env.Data["refresh_token"])
}

func TestAuthHandler_Refresh_Invalid(t *testing.T) {
	service := &MockAuthService{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
			return nil, models.ErrUnauthorized
		},
	}
	handler := NewAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/v1/token/refresh", RefreshTokenRequest{
		RefreshToken: "expired-token",
	})
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	env := DecodeEnvelope(t, rec, http.StatusUnauthorized)
	assert.Equal(t, "Invalid or expired refresh token", env.Message)
}
