package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Registration and OTP state machine errors
	ErrDuplicateEmail       = errors.New("email is already registered")
	ErrDuplicateMobile      = errors.New("mobile number is already registered")
	ErrInvalidMobile        = errors.New("invalid mobile number")
	ErrOTPInvalid           = errors.New("invalid otp or token")
	ErrOTPExpired           = errors.New("otp has expired")
	ErrSessionExpired       = errors.New("registration session expired or invalid")
	ErrVerificationRequired = errors.New("email verification required")

	// External collaborator failures
	ErrUpstream = errors.New("upstream provider error")
)
