package models

import (
	"time"
)

// StagedRegistration is the cache-resident registration payload written at the
// staging step and consumed (or expired) before any user row exists. The
// password travels in plaintext inside the cache entry for the staging window.
type StagedRegistration struct {
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	FullName   string    `json:"full_name"`
	MobileNo   string    `json:"mobile_no"`
	Gender     string    `json:"gender"`
	SignupType string    `json:"signup_type"`
	TempToken  string    `json:"temp_token"`
	CreatedAt  time.Time `json:"created_at"`
}
