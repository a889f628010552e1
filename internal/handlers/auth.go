package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/companyportal/backend/internal/models"
	"github.com/companyportal/backend/internal/services"
	pkghttp "github.com/companyportal/backend/pkg/http"
)

// AuthServiceInterface defines the interface for login business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*services.LoginChallenge, error)
	VerifyLoginOTP(ctx context.Context, email, token, code string) (*services.AuthResult, error)
	ResendLoginOTP(ctx context.Context, email, token string) (string, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

// AuthHandler handles login and session HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPRequest represents the request body for login code verification
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,uuid"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

// ResendOTPRequest represents the request body for resending a login code.
// The token is optional; without it the outstanding code is left to expire.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"omitempty,uuid"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Login checks credentials and sends a login code. The session pair is only
// included when eager issuance is configured.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	challenge, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User with this email does not exist")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	data := map[string]any{
		"user_id": challenge.UserID,
		"token":   challenge.Token,
	}
	if challenge.Tokens != nil {
		data["access_token"] = challenge.Tokens.AccessToken
		data["refresh_token"] = challenge.Tokens.RefreshToken
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "OTP sent to your email", data)
}

// VerifyOTP redeems a login code and returns the session pair
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	result, err := h.service.VerifyLoginOTP(r.Context(), req.Email, req.Token, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOTPExpired):
			pkghttp.WriteBadRequest(w, "OTP has expired")
		case errors.Is(err, models.ErrOTPInvalid):
			pkghttp.WriteBadRequest(w, "Invalid OTP or token")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Login successful", map[string]any{
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"user":          result.User.ToPublic(),
	})
}

// ResendOTP invalidates the outstanding login code and sends a new one
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	token, err := h.service.ResendLoginOTP(r.Context(), req.Email, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User with this email does not exist")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "OTP resent to your email", map[string]any{
		"token": token,
	})
}

// Refresh reissues the session pair from a valid refresh token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	tokens, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid or expired refresh token")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Token refreshed", map[string]any{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}
