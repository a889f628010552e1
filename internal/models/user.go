package models

import (
	"time"
)

// Gender codes stored on the user row
const (
	GenderMale   = "m"
	GenderFemale = "f"
	GenderOther  = "o"
)

// DefaultSignupType marks email/password signups
const DefaultSignupType = "e"

type User struct {
	ID             string
	Email          string
	PasswordHash   string
	FullName       string
	SignupType     string  // 1-char signup channel tag, e.g. "e" for email
	Gender         *string // "m", "f", "o" or nil
	MobileNo       string
	MobileVerified bool
	EmailVerified  bool
	FirebaseUID    *string // External identity id; nil until federation runs
	Active         bool
	Staff          bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the representation returned to clients
type PublicUser struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	Gender         *string `json:"gender,omitempty"`
	MobileNo       string  `json:"mobile_no"`
	MobileVerified bool    `json:"mobile_verified"`
	EmailVerified  bool    `json:"email_verified"`
	FirebaseUID    *string `json:"firebase_uid,omitempty"`
}

// ToPublic strips credential and bookkeeping fields
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Gender:         u.Gender,
		MobileNo:       u.MobileNo,
		MobileVerified: u.MobileVerified,
		EmailVerified:  u.EmailVerified,
		FirebaseUID:    u.FirebaseUID,
	}
}
