package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/companyportal/backend/internal/auth"
	"github.com/companyportal/backend/internal/models"
	"github.com/companyportal/backend/internal/services"
	pkghttp "github.com/companyportal/backend/pkg/http"
)

// UserServiceInterface defines the interface for account management
type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, update services.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, password string) error
}

// AccountHandler handles account management HTTP requests
type AccountHandler struct {
	service UserServiceInterface
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service UserServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// UpdateProfileRequest carries optional profile fields; absent fields stay unchanged
type UpdateProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Gender   *string `json:"gender" validate:"omitempty,oneof=m f o"`
	MobileNo *string `json:"mobile_no" validate:"omitempty,mobile"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// DeleteAccountRequest represents the request body for account deletion
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// GetProfile returns the authenticated user's profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	user, err := h.service.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "", user.ToPublic())
}

// UpdateProfile applies a partial profile update
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.UserID, services.ProfileUpdate{
		Email:    req.Email,
		FullName: req.FullName,
		Gender:   req.Gender,
		MobileNo: req.MobileNo,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrDuplicateEmail):
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", map[string][]string{
				"email": {"A user with this email already exists"},
			})
		case errors.Is(err, models.ErrDuplicateMobile):
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", map[string][]string{
				"mobile_no": {"A user with this mobile number already exists"},
			})
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Profile updated successfully", user.ToPublic())
}

// ChangePassword verifies the current password and sets a new one
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	err := h.service.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Current password is incorrect")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "New password does not meet requirements")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Password changed successfully", nil)
}

// DeleteAccount verifies the password and removes the account and its
// company profile
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	err := h.service.DeleteAccount(r.Context(), claims.UserID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Password is incorrect")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Account deleted successfully", nil)
}
