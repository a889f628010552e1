package models

import (
	"time"
)

// CompanyProfile is the 1:1 profile owned by a user account
type CompanyProfile struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"owner_id"`
	CompanyName string            `json:"company_name"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Country     string            `json:"country"`
	PostalCode  string            `json:"postal_code"`
	Website     *string           `json:"website,omitempty"`
	LogoURL     *string           `json:"logo_url,omitempty"`
	BannerURL   *string           `json:"banner_url,omitempty"`
	Industry    string            `json:"industry"`
	FoundedDate *time.Time        `json:"founded_date,omitempty"`
	Description *string           `json:"description,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
