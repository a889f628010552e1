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

// RegistrationServiceInterface defines the interface for the staged
// registration flow
type RegistrationServiceInterface interface {
	Stage(ctx context.Context, input services.StageInput) (string, error)
	VerifyOTP(ctx context.Context, email, token, code string) (string, error)
	Finalize(ctx context.Context, input services.StageInput) (*services.AuthResult, error)
}

// RegistrationHandler handles registration HTTP requests
type RegistrationHandler struct {
	service RegistrationServiceInterface
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(service RegistrationServiceInterface) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// RegistrationRequest carries the registration fields. The same body is sent
// to the staging and the finalize endpoints.
type RegistrationRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	FullName   string `json:"full_name" validate:"required,min=1,max=255"`
	MobileNo   string `json:"mobile_no" validate:"omitempty,mobile"`
	Gender     string `json:"gender" validate:"omitempty,oneof=m f o"`
	SignupType string `json:"signup_type" validate:"omitempty,len=1"`
}

// VerifyRegistrationOTPRequest represents the request body for registration
// code verification
type VerifyRegistrationOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,uuid"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

func (r *RegistrationRequest) toInput() services.StageInput {
	return services.StageInput{
		Email:      r.Email,
		Password:   r.Password,
		FullName:   r.FullName,
		MobileNo:   r.MobileNo,
		Gender:     r.Gender,
		SignupType: r.SignupType,
	}
}

// SendOTP stages the registration and emails the verification code
func (h *RegistrationHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	token, err := h.service.Stage(r.Context(), req.toInput())
	if err != nil {
		switch {
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

	pkghttp.WriteSuccess(w, http.StatusOK, "OTP sent to your email", map[string]any{
		"token": token,
	})
}

// VerifyOTP redeems the registration code and unlocks finalization
func (h *RegistrationHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyRegistrationOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	verificationToken, err := h.service.VerifyOTP(r.Context(), req.Email, req.Token, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSessionExpired):
			pkghttp.WriteBadRequest(w, "Registration session expired, please register again")
		case errors.Is(err, models.ErrOTPExpired):
			pkghttp.WriteBadRequest(w, "OTP has expired")
		case errors.Is(err, models.ErrOTPInvalid):
			pkghttp.WriteBadRequest(w, "Invalid OTP or token")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Email verified successfully", map[string]any{
		"verification_token": verificationToken,
	})
}

// Register finalizes a verified registration into an account with a session
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	result, err := h.service.Finalize(r.Context(), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrVerificationRequired):
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Please verify your email with OTP before completing registration.", map[string][]string{
				"email": {"Email verification required"},
			})
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

	var firebaseUID string
	if result.User.FirebaseUID != nil {
		firebaseUID = *result.User.FirebaseUID
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Registration successful", map[string]any{
		"user_id":       result.User.ID,
		"email":         result.User.Email,
		"firebase_uid":  firebaseUID,
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"user":          result.User.ToPublic(),
	})
}
