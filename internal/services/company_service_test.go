package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/companyportal/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_Register_Success(t *testing.T) {
	var created *models.CompanyProfile
	companyRepo := &MockCompanyRepository{
		GetByOwnerFunc: func(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, company *models.CompanyProfile) (*models.CompanyProfile, error) {
			company.ID = "company_1"
			created = company
			return company, nil
		},
	}

	service := NewCompanyService(companyRepo, &MockImageUploader{}, slog.Default())

	company, err := service.Register(context.Background(), "user_1", CompanyInput{
		CompanyName: "Acme Corp",
		City:        "Springfield",
		SocialLinks: map[string]string{"linkedin": "https://linkedin.com/company/acme"},
	})

	require.NoError(t, err)
	assert.Equal(t, "company_1", company.ID)
	assert.Equal(t, "user_1", created.OwnerID)
	assert.Equal(t, "Acme Corp", created.CompanyName)
}

func TestCompanyService_Register_AlreadyExists(t *testing.T) {
	companyRepo := &MockCompanyRepository{
		GetByOwnerFunc: func(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
			return &models.CompanyProfile{ID: "company_1", OwnerID: ownerID}, nil
		},
	}

	service := NewCompanyService(companyRepo, &MockImageUploader{}, slog.Default())

	company, err := service.Register(context.Background(), "user_1", CompanyInput{CompanyName: "Acme Corp"})

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Nil(t, company)
}

func TestCompanyService_Update_PartialFields(t *testing.T) {
	existing := &models.CompanyProfile{
		ID:          "company_1",
		OwnerID:     "user_1",
		CompanyName: "Acme Corp",
		City:        "Springfield",
		Industry:    "Manufacturing",
	}
	companyRepo := &MockCompanyRepository{
		GetByOwnerFunc: func(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, ownerID string, company *models.CompanyProfile) (*models.CompanyProfile, error) {
			return company, nil
		},
	}

	service := NewCompanyService(companyRepo, &MockImageUploader{}, slog.Default())

	updated, err := service.Update(context.Background(), "user_1", CompanyInput{
		City: "Shelbyville",
	})

	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", updated.City)
	assert.Equal(t, "Acme Corp", updated.CompanyName)
	assert.Equal(t, "Manufacturing", updated.Industry)
}

func TestCompanyService_Update_NotFound(t *testing.T) {
	service := NewCompanyService(&MockCompanyRepository{}, &MockImageUploader{}, slog.Default())

	updated, err := service.Update(context.Background(), "user_1", CompanyInput{City: "Shelbyville"})

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, updated)
}

func TestCompanyService_UploadLogo_Success(t *testing.T) {
	var persistedColumn, persistedURL, uploadFolder string
	companyRepo := &MockCompanyRepository{
		GetByOwnerFunc: func(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
			return &models.CompanyProfile{ID: "company_1", OwnerID: ownerID}, nil
		},
		UpdateImageURLFunc: func(ctx context.Context, ownerID, column, url string) error {
			persistedColumn = column
			persistedURL = url
			return nil
		},
	}
	uploader := &MockImageUploader{
		UploadImageFunc: func(ctx context.Context, folder, publicID string, data io.Reader) (string, error) {
			uploadFolder = folder
			return "https://images.example/logo.png", nil
		},
	}

	service := NewCompanyService(companyRepo, uploader, slog.Default())

	url, err := service.UploadLogo(context.Background(), "user_1", bytes.NewReader([]byte("png-bytes")))

	require.NoError(t, err)
	assert.Equal(t, "https://images.example/logo.png", url)
	assert.Equal(t, "company_logos", uploadFolder)
	assert.Equal(t, "logo_url", persistedColumn)
	assert.Equal(t, url, persistedURL)
}

func TestCompanyService_UploadBanner_Success(t *testing.T) {
	var persistedColumn, uploadFolder string
	companyRepo := &MockCompanyRepository{
		GetByOwnerFunc: func(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
			return &models.CompanyProfile{ID: "company_1", OwnerID: ownerID}, nil
		},
		UpdateImageURLFunc: func(ctx context.Context, ownerID, column, url string) error {
			persistedColumn = column
			return nil
		},
	}
	uploader := &MockImageUploader{
		UploadImageFunc: func(ctx context.Context, folder, publicID string, data io.Reader) (string, error) {
			uploadFolder = folder
			return "https://images.example/banner.png", nil
		},
	}

	service := NewCompanyService(companyRepo, uploader, slog.Default())

	url, err := service.UploadBanner(context.Background(), "user_1", bytes.NewReader([]byte("png-bytes")))

	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, "company_banners", uploadFolder)
	assert.Equal(t, "banner_url", persistedColumn)
}

func TestCompanyService_UploadLogo_NoProfile(t *testing.T) {
	service := NewCompanyService(&MockCompanyRepository{}, &MockImageUploader{}, slog.Default())

	url, err := service.UploadLogo(context.Background(), "user_1", bytes.NewReader(nil))

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, url)
}

func TestCompanyService_UploadLogo_UpstreamFailure(t *testing.T) {
	companyRepo := &MockCompanyRepository{
		GetByOwnerFunc: func(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
			return &models.CompanyProfile{ID: "company_1", OwnerID: ownerID}, nil
		},
	}
	uploader := &MockImageUploader{
		UploadImageFunc: func(ctx context.Context, folder, publicID string, data io.Reader) (string, error) {
			return "", errors.New("cloudinary unavailable")
		},
	}

	service := NewCompanyService(companyRepo, uploader, slog.Default())

	url, err := service.UploadLogo(context.Background(), "user_1", bytes.NewReader([]byte("png-bytes")))

	assert.ErrorIs(t, err, models.ErrUpstream)
	assert.Empty(t, url)
}
