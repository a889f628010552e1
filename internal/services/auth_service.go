package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/companyportal/backend/internal/auth"
	"github.com/companyportal/backend/internal/models"
	pkgauth "github.com/companyportal/backend/pkg/auth"
	pkglogger "github.com/companyportal/backend/pkg/logger"
)

// AuthResult bundles an authenticated account with its session pair.
// Tokens is nil while a login still awaits OTP verification.
type AuthResult struct {
	User   *models.User
	Tokens *models.TokenPair
}

// LoginChallenge is the state handed back after a successful password check:
// the client must verify the emailed code before getting a session, unless
// eager issuance is enabled.
type LoginChallenge struct {
	UserID string
	Token  string
	Tokens *models.TokenPair
}

// AuthService handles login, OTP verification and token refresh
type AuthService struct {
	userRepo     UserRepository
	otps         *OTPService
	tm           *auth.TokenManager
	logger       *slog.Logger
	eagerSession bool
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserRepository, otps *OTPService, tm *auth.TokenManager, logger *slog.Logger, eagerSession bool) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		otps:         otps,
		tm:           tm,
		logger:       logger,
		eagerSession: eagerSession,
	}
}

// Login checks credentials and issues a login code. An unknown email yields
// ErrNotFound while a wrong password yields ErrUnauthorized; the two cases
// are deliberately distinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginChallenge, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.ErrNotFound
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: unknown email")
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid password", slog.String("user_id", user.ID))
		return nil, models.ErrUnauthorized
	}

	otp, err := s.otps.Issue(ctx, &user.ID, models.OTPPurposeLogin, user.Email)
	if err != nil {
		return nil, models.ErrInternalServer
	}

	challenge := &LoginChallenge{
		UserID: user.ID,
		Token:  otp.Token,
	}

	if s.eagerSession {
		tokens, err := s.tm.GenerateTokenPair(user.ID, user.Email)
		if err != nil {
			s.logger.Error("failed to issue eager session", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		challenge.Tokens = tokens
	}

	s.logger.Info("login challenge issued", slog.String("user_id", user.ID))

	return challenge, nil
}

// VerifyLoginOTP redeems a login code and issues the session pair
func (s *AuthService) VerifyLoginOTP(ctx context.Context, email, token, code string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrOTPInvalid
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	otp, err := s.otps.Verify(ctx, &user.ID, token, code, models.OTPPurposeLogin)
	if err != nil {
		return nil, err
	}

	if err := s.otps.Consume(ctx, otp.ID); err != nil {
		return nil, err
	}

	tokens, err := s.tm.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to issue session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("login verified", slog.String("user_id", user.ID))

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// ResendLoginOTP issues a fresh code under a new token. A supplied token also
// invalidates the outstanding code it refers to; without one the old code is
// left to expire on its own.
func (s *AuthService) ResendLoginOTP(ctx context.Context, email, token string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	if token != "" {
		if err := s.otps.Invalidate(ctx, &user.ID, token, models.OTPPurposeLogin); err != nil {
			s.logger.Error("failed to invalidate outstanding otps", slog.Any("error", err))
			return "", models.ErrInternalServer
		}
	}

	otp, err := s.otps.Issue(ctx, &user.ID, models.OTPPurposeLogin, user.Email)
	if err != nil {
		return "", models.ErrInternalServer
	}

	s.logger.Info("login otp resent",
		slog.String("user_id", user.ID),
		slog.String("email", pkglogger.SanitizedEmail(email)))

	return otp.Token, nil
}

// RefreshToken validates a refresh token and reissues the session pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.tm.ValidateToken(refreshToken)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	if claims.Type != models.TokenTypeRefresh {
		return nil, models.ErrUnauthorized
	}

	// The account may have been deleted since the token was minted
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user for refresh", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	tokens, err := s.tm.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to reissue session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return tokens, nil
}
