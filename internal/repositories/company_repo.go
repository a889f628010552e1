package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/companyportal/backend/internal/database"
	"github.com/companyportal/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const companyColumns = `id, owner_id, company_name, address, city, state, country, postal_code,
	website, logo_url, banner_url, industry, founded_date, description, social_links, created_at, updated_at`

// CompanyRepository handles company profile data access
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *database.DB) *CompanyRepository {
	return &CompanyRepository{pool: db.Pool}
}

// scanCompanyRow populates a CompanyProfile model, decoding the social links JSON column
func scanCompanyRow(row rowScanner) (*models.CompanyProfile, error) {
	var company models.CompanyProfile
	var socialLinks []byte

	err := row.Scan(
		&company.ID, &company.OwnerID, &company.CompanyName,
		&company.Address, &company.City, &company.State, &company.Country, &company.PostalCode,
		&company.Website, &company.LogoURL, &company.BannerURL,
		&company.Industry, &company.FoundedDate, &company.Description,
		&socialLinks, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if len(socialLinks) > 0 {
		if err := json.Unmarshal(socialLinks, &company.SocialLinks); err != nil {
			return nil, fmt.Errorf("failed to decode social links: %w", err)
		}
	}

	return &company, nil
}

func encodeSocialLinks(links map[string]string) ([]byte, error) {
	if links == nil {
		links = map[string]string{}
	}
	return json.Marshal(links)
}

func (r *CompanyRepository) Create(ctx context.Context, company *models.CompanyProfile) (*models.CompanyProfile, error) {
	company.ID = uuid.New().String()

	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	socialLinks, err := encodeSocialLinks(company.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode social links: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO company_profiles (id, owner_id, company_name, address, city, state, country, postal_code,
			website, logo_url, banner_url, industry, founded_date, description, social_links, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING %s
	`, companyColumns)

	return scanCompanyRow(r.pool.QueryRow(ctx, query,
		company.ID, company.OwnerID, company.CompanyName,
		company.Address, company.City, company.State, company.Country, company.PostalCode,
		company.Website, company.LogoURL, company.BannerURL,
		company.Industry, company.FoundedDate, company.Description,
		socialLinks, company.CreatedAt, company.UpdatedAt,
	))
}

func (r *CompanyRepository) GetByOwner(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM company_profiles WHERE owner_id = $1`, companyColumns)

	return scanCompanyRow(r.pool.QueryRow(ctx, query, ownerID))
}

func (r *CompanyRepository) Update(ctx context.Context, ownerID string, company *models.CompanyProfile) (*models.CompanyProfile, error) {
	company.UpdatedAt = time.Now()

	socialLinks, err := encodeSocialLinks(company.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode social links: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE company_profiles
		SET company_name = $1, address = $2, city = $3, state = $4, country = $5, postal_code = $6,
			website = $7, industry = $8, founded_date = $9, description = $10, social_links = $11, updated_at = $12
		WHERE owner_id = $13
		RETURNING %s
	`, companyColumns)

	return scanCompanyRow(r.pool.QueryRow(ctx, query,
		company.CompanyName, company.Address, company.City, company.State, company.Country, company.PostalCode,
		company.Website, company.Industry, company.FoundedDate, company.Description,
		socialLinks, company.UpdatedAt, ownerID,
	))
}

// UpdateImageURL persists an uploaded image URL. Column must be one of the
// image columns; callers pass a constant, never user input.
func (r *CompanyRepository) UpdateImageURL(ctx context.Context, ownerID, column, url string) error {
	if column != "logo_url" && column != "banner_url" {
		return fmt.Errorf("invalid image column: %s", column)
	}

	query := fmt.Sprintf(`UPDATE company_profiles SET %s = $1, updated_at = $2 WHERE owner_id = $3`, column)

	result, err := r.pool.Exec(ctx, query, url, time.Now(), ownerID)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
