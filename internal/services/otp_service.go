package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/companyportal/backend/internal/models"
	"github.com/companyportal/backend/pkg/logger"
	"github.com/google/uuid"
)

// OTPRepository defines the interface for one-time code ledger operations
type OTPRepository interface {
	Create(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	GetForVerification(ctx context.Context, userID *string, token, code, purpose string) (*models.OTP, error)
	Consume(ctx context.Context, id string) error
	InvalidateUnused(ctx context.Context, userID *string, token, purpose string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// OTPService issues, verifies and consumes one-time codes
type OTPService struct {
	otpRepo OTPRepository
	mailer  Mailer
	logger  *slog.Logger
	expiry  time.Duration

	// generateCode is swappable so tests can pin a known code
	generateCode func() (string, error)
}

// NewOTPService creates a new OTPService
func NewOTPService(otpRepo OTPRepository, mailer Mailer, logger *slog.Logger, expiry time.Duration) *OTPService {
	if expiry <= 0 {
		expiry = models.DefaultOTPTTL
	}
	return &OTPService{
		otpRepo:      otpRepo,
		mailer:       mailer,
		logger:       logger,
		expiry:       expiry,
		generateCode: generateNumericCode,
	}
}

// generateNumericCode draws a uniform 6-digit code in [100000, 999999]
func generateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue creates a ledger entry and emails the code. The returned token
// correlates the later verification call with this issuance. Email delivery
// failure does not fail the issuance.
func (s *OTPService) Issue(ctx context.Context, userID *string, purpose, email string) (*models.OTP, error) {
	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}

	otp := &models.OTP{
		UserID:    userID,
		Purpose:   purpose,
		Code:      code,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.expiry),
	}

	created, err := s.otpRepo.Create(ctx, otp)
	if err != nil {
		s.logger.Error("failed to create otp",
			slog.String("purpose", purpose),
			slog.Any("error", err))
		return nil, err
	}

	if err := s.mailer.SendOTPEmail(ctx, email, code, purpose); err != nil {
		s.logger.Warn("otp email delivery failed",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.String("purpose", purpose),
			slog.Any("error", err))
	}

	s.logger.Info("otp issued",
		slog.String("purpose", purpose),
		slog.String("token", created.Token))

	return created, nil
}

// Verify checks a token/code pair without consuming it. An unknown or used
// code yields the generic ErrOTPInvalid so callers cannot distinguish the two.
func (s *OTPService) Verify(ctx context.Context, userID *string, token, code, purpose string) (*models.OTP, error) {
	otp, err := s.otpRepo.GetForVerification(ctx, userID, token, code, purpose)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrOTPInvalid
		}
		s.logger.Error("otp lookup failed", slog.Any("error", err))
		return nil, err
	}

	if otp.IsExpired() {
		return nil, models.ErrOTPExpired
	}

	return otp, nil
}

// Consume redeems a verified code. Exactly one concurrent caller succeeds;
// the rest get ErrOTPInvalid.
func (s *OTPService) Consume(ctx context.Context, id string) error {
	return s.otpRepo.Consume(ctx, id)
}

// Invalidate marks all outstanding codes for the token as used so a resend
// supersedes them
func (s *OTPService) Invalidate(ctx context.Context, userID *string, token, purpose string) error {
	return s.otpRepo.InvalidateUnused(ctx, userID, token, purpose)
}
