package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/companyportal/backend/internal/auth"
	"github.com/companyportal/backend/internal/models"
	"github.com/companyportal/backend/internal/services"
	pkghttp "github.com/companyportal/backend/pkg/http"
)

// MaxImageSize caps multipart image uploads at 5 MiB
const MaxImageSize = 5 << 20

// CompanyServiceInterface defines the interface for company profile business logic
type CompanyServiceInterface interface {
	Register(ctx context.Context, ownerID string, input services.CompanyInput) (*models.CompanyProfile, error)
	Get(ctx context.Context, ownerID string) (*models.CompanyProfile, error)
	Update(ctx context.Context, ownerID string, input services.CompanyInput) (*models.CompanyProfile, error)
	UploadLogo(ctx context.Context, ownerID string, data io.Reader) (string, error)
	UploadBanner(ctx context.Context, ownerID string, data io.Reader) (string, error)
}

// CompanyHandler handles company profile HTTP requests
type CompanyHandler struct {
	service CompanyServiceInterface
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(service CompanyServiceInterface) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// CompanyRequest carries company profile fields; pointer fields are optional
type CompanyRequest struct {
	CompanyName string            `json:"company_name" validate:"required,min=1,max=255"`
	Address     string            `json:"address" validate:"omitempty,max=1000"`
	City        string            `json:"city" validate:"omitempty,max=100"`
	State       string            `json:"state" validate:"omitempty,max=100"`
	Country     string            `json:"country" validate:"omitempty,max=100"`
	PostalCode  string            `json:"postal_code" validate:"omitempty,max=20"`
	Website     *string           `json:"website" validate:"omitempty,url"`
	Industry    string            `json:"industry" validate:"omitempty,max=100"`
	FoundedDate *string           `json:"founded_date" validate:"omitempty,datetime=2006-01-02"`
	Description *string           `json:"description" validate:"omitempty,max=5000"`
	SocialLinks map[string]string `json:"social_links" validate:"omitempty,dive,url"`
}

// UpdateCompanyRequest relaxes the name requirement for partial updates
type UpdateCompanyRequest struct {
	CompanyName string            `json:"company_name" validate:"omitempty,min=1,max=255"`
	Address     string            `json:"address" validate:"omitempty,max=1000"`
	City        string            `json:"city" validate:"omitempty,max=100"`
	State       string            `json:"state" validate:"omitempty,max=100"`
	Country     string            `json:"country" validate:"omitempty,max=100"`
	PostalCode  string            `json:"postal_code" validate:"omitempty,max=20"`
	Website     *string           `json:"website" validate:"omitempty,url"`
	Industry    string            `json:"industry" validate:"omitempty,max=100"`
	FoundedDate *string           `json:"founded_date" validate:"omitempty,datetime=2006-01-02"`
	Description *string           `json:"description" validate:"omitempty,max=5000"`
	SocialLinks map[string]string `json:"social_links" validate:"omitempty,dive,url"`
}

func parseFoundedDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil
	}
	return &parsed
}

// Register creates the authenticated user's company profile
func (h *CompanyHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	company, err := h.service.Register(r.Context(), claims.UserID, services.CompanyInput{
		CompanyName: req.CompanyName,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		PostalCode:  req.PostalCode,
		Website:     req.Website,
		Industry:    req.Industry,
		FoundedDate: parseFoundedDate(req.FoundedDate),
		Description: req.Description,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "Company profile already exists for this account")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Company registered successfully", company)
}

// GetProfile returns the authenticated user's company profile
func (h *CompanyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	company, err := h.service.Get(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Company profile not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "", company)
}

// UpdateProfile applies a partial update to the company profile
func (h *CompanyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	company, err := h.service.Update(r.Context(), claims.UserID, services.CompanyInput{
		CompanyName: req.CompanyName,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		PostalCode:  req.PostalCode,
		Website:     req.Website,
		Industry:    req.Industry,
		FoundedDate: parseFoundedDate(req.FoundedDate),
		Description: req.Description,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Company profile not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Company updated successfully", company)
}

// UploadLogo accepts a multipart "logo" file and stores it
func (h *CompanyHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "logo", h.service.UploadLogo)
}

// UploadBanner accepts a multipart "banner" file and stores it
func (h *CompanyHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "banner", h.service.UploadBanner)
}

func (h *CompanyHandler) uploadImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	upload func(ctx context.Context, ownerID string, data io.Reader) (string, error),
) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxImageSize)
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid or oversized upload")
		return
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, "Validation failed", map[string][]string{
			field: {"this field is required"},
		})
		return
	}
	defer file.Close()

	url, err := upload(r.Context(), claims.UserID, file)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Company profile not found")
		case errors.Is(err, models.ErrUpstream):
			pkghttp.WriteInternalError(w, "Image upload failed")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Image uploaded successfully", map[string]any{
		"url": url,
	})
}
