package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/companyportal/backend/internal/models"
	"github.com/companyportal/backend/internal/storage"
	"github.com/google/uuid"
)

// Upload folders on the image store
const (
	logoFolder   = "company_logos"
	bannerFolder = "company_banners"
)

// CompanyRepository defines the interface for company profile data operations
type CompanyRepository interface {
	Create(ctx context.Context, company *models.CompanyProfile) (*models.CompanyProfile, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.CompanyProfile, error)
	Update(ctx context.Context, ownerID string, company *models.CompanyProfile) (*models.CompanyProfile, error)
	UpdateImageURL(ctx context.Context, ownerID, column, url string) error
}

// CompanyInput carries company profile fields; pointer fields are optional
type CompanyInput struct {
	CompanyName string
	Address     string
	City        string
	State       string
	Country     string
	PostalCode  string
	Website     *string
	Industry    string
	FoundedDate *time.Time
	Description *string
	SocialLinks map[string]string
}

// CompanyService handles company profile business logic
type CompanyService struct {
	companyRepo CompanyRepository
	uploader    storage.ImageUploader
	logger      *slog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo CompanyRepository, uploader storage.ImageUploader, logger *slog.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

// Register creates the owner's company profile. Each account holds at most one.
func (s *CompanyService) Register(ctx context.Context, ownerID string, input CompanyInput) (*models.CompanyProfile, error) {
	if _, err := s.companyRepo.GetByOwner(ctx, ownerID); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check existing company", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	company := &models.CompanyProfile{
		OwnerID:     ownerID,
		CompanyName: input.CompanyName,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Country:     input.Country,
		PostalCode:  input.PostalCode,
		Website:     input.Website,
		Industry:    input.Industry,
		FoundedDate: input.FoundedDate,
		Description: input.Description,
		SocialLinks: input.SocialLinks,
	}

	created, err := s.companyRepo.Create(ctx, company)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create company profile", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("company registered",
		slog.String("owner_id", ownerID),
		slog.String("company_id", created.ID))

	return created, nil
}

// Get returns the owner's company profile
func (s *CompanyService) Get(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
	return s.companyRepo.GetByOwner(ctx, ownerID)
}

// Update applies a partial update to the owner's company profile
func (s *CompanyService) Update(ctx context.Context, ownerID string, input CompanyInput) (*models.CompanyProfile, error) {
	company, err := s.companyRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if input.CompanyName != "" {
		company.CompanyName = input.CompanyName
	}
	if input.Address != "" {
		company.Address = input.Address
	}
	if input.City != "" {
		company.City = input.City
	}
	if input.State != "" {
		company.State = input.State
	}
	if input.Country != "" {
		company.Country = input.Country
	}
	if input.PostalCode != "" {
		company.PostalCode = input.PostalCode
	}
	if input.Industry != "" {
		company.Industry = input.Industry
	}
	if input.Website != nil {
		company.Website = input.Website
	}
	if input.FoundedDate != nil {
		company.FoundedDate = input.FoundedDate
	}
	if input.Description != nil {
		company.Description = input.Description
	}
	if input.SocialLinks != nil {
		company.SocialLinks = input.SocialLinks
	}

	updated, err := s.companyRepo.Update(ctx, ownerID, company)
	if err != nil {
		s.logger.Error("failed to update company profile", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("company updated", slog.String("owner_id", ownerID))

	return updated, nil
}

// UploadLogo stores a logo image and persists its URL
func (s *CompanyService) UploadLogo(ctx context.Context, ownerID string, data io.Reader) (string, error) {
	return s.uploadImage(ctx, ownerID, logoFolder, "logo_url", data)
}

// UploadBanner stores a banner image and persists its URL
func (s *CompanyService) UploadBanner(ctx context.Context, ownerID string, data io.Reader) (string, error) {
	return s.uploadImage(ctx, ownerID, bannerFolder, "banner_url", data)
}

func (s *CompanyService) uploadImage(ctx context.Context, ownerID, folder, column string, data io.Reader) (string, error) {
	// Profile must exist before an image can be attached
	if _, err := s.companyRepo.GetByOwner(ctx, ownerID); err != nil {
		return "", err
	}

	url, err := s.uploader.UploadImage(ctx, folder, uuid.New().String(), data)
	if err != nil {
		s.logger.Error("image upload failed",
			slog.String("owner_id", ownerID),
			slog.String("folder", folder),
			slog.Any("error", err))
		return "", models.ErrUpstream
	}

	if err := s.companyRepo.UpdateImageURL(ctx, ownerID, column, url); err != nil {
		s.logger.Error("failed to persist image url", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	s.logger.Info("company image uploaded",
		slog.String("owner_id", ownerID),
		slog.String("folder", folder))

	return url, nil
}
