package models

import (
	"time"
)

// OTP purposes
const (
	OTPPurposeLogin         = "login"
	OTPPurposeRegistration  = "registration"
	OTPPurposePasswordReset = "password_reset"
)

// DefaultOTPTTL is the validity window applied when no expiry is set
const DefaultOTPTTL = 10 * time.Minute

// OTP is a single-use 6-digit code correlated to its issuance by an opaque token.
// Registration OTPs are issued before any user row exists, so UserID is nullable.
type OTP struct {
	ID        string     `json:"id"`
	UserID    *string    `json:"user_id,omitempty"`
	Purpose   string     `json:"purpose"`
	Code      string     `json:"-"` // Never expose the code
	Token     string     `json:"token"`
	Used      bool       `json:"used"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// IsExpired checks if the code has passed its expiry
func (o *OTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// IsValid checks if the code is still redeemable (not used and not expired)
func (o *OTP) IsValid() bool {
	return !o.Used && !o.IsExpired()
}
