package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/companyportal/backend/internal/cache"
	"github.com/companyportal/backend/internal/clients/firebase"
	"github.com/companyportal/backend/internal/models"
	pkgauth "github.com/companyportal/backend/pkg/auth"
	pkglogger "github.com/companyportal/backend/pkg/logger"
	"github.com/google/uuid"
)

// IdentityProvider federates accounts to an external identity platform
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, phoneNumber string) (string, error)
}

// SessionIssuer mints the access/refresh pair for an authenticated account
type SessionIssuer interface {
	GenerateTokenPair(userID, email string) (*models.TokenPair, error)
}

// StageInput carries the registration fields held in cache until the email
// is verified. SignupType is the 1-char signup channel; empty means email.
type StageInput struct {
	Email      string
	Password   string
	FullName   string
	MobileNo   string
	Gender     string
	SignupType string
}

func (in StageInput) signupType() string {
	if in.SignupType == "" {
		return models.DefaultSignupType
	}
	return in.SignupType
}

// RegistrationService drives the staged registration state machine: stage to
// cache, verify the emailed code, then finalize the account.
type RegistrationService struct {
	userRepo UserRepository
	otps     *OTPService
	store    cache.Store
	identity IdentityProvider
	sessions SessionIssuer
	logger   *slog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	userRepo UserRepository,
	otps *OTPService,
	store cache.Store,
	identity IdentityProvider,
	sessions SessionIssuer,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		userRepo: userRepo,
		otps:     otps,
		store:    store,
		identity: identity,
		sessions: sessions,
		logger:   logger,
	}
}

// Stage validates uniqueness, parks the registration payload in the cache and
// issues the registration code. No database row is written here; an abandoned
// registration simply expires.
func (s *RegistrationService) Stage(ctx context.Context, input StageInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	inUse, err := s.userRepo.EmailInUse(ctx, email, "")
	if err != nil {
		s.logger.Error("email uniqueness check failed", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	if inUse {
		return "", models.ErrDuplicateEmail
	}

	if input.MobileNo != "" {
		inUse, err := s.userRepo.MobileInUse(ctx, input.MobileNo, "")
		if err != nil {
			s.logger.Error("mobile uniqueness check failed", slog.Any("error", err))
			return "", models.ErrInternalServer
		}
		if inUse {
			return "", models.ErrDuplicateMobile
		}
	}

	otp, err := s.otps.Issue(ctx, nil, models.OTPPurposeRegistration, email)
	if err != nil {
		return "", models.ErrInternalServer
	}

	staged := &models.StagedRegistration{
		Email:      email,
		Password:   input.Password,
		FullName:   input.FullName,
		MobileNo:   input.MobileNo,
		Gender:     input.Gender,
		SignupType: input.signupType(),
		TempToken:  otp.Token,
		CreatedAt:  time.Now(),
	}

	if err := s.store.Set(ctx, cache.RegistrationDataKey(otp.Token), staged, cache.StagingTTL); err != nil {
		s.logger.Error("failed to stage registration", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	if err := s.store.Set(ctx, cache.RegistrationEmailKey(email), otp.Token, cache.StagingTTL); err != nil {
		s.logger.Error("failed to index staged registration", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	s.logger.Info("registration staged",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("token", otp.Token))

	return otp.Token, nil
}

// VerifyOTP redeems the registration code. Both cache keys must agree on the
// token before the ledger is consulted, so a stale token from an earlier
// staging attempt cannot verify a newer one.
func (s *RegistrationService) VerifyOTP(ctx context.Context, email, token, code string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var stagedToken string
	if err := s.store.Get(ctx, cache.RegistrationEmailKey(email), &stagedToken); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return "", models.ErrSessionExpired
		}
		s.logger.Error("failed to read staging index", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	if stagedToken != token {
		return "", models.ErrOTPInvalid
	}

	var staged models.StagedRegistration
	if err := s.store.Get(ctx, cache.RegistrationDataKey(token), &staged); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return "", models.ErrSessionExpired
		}
		s.logger.Error("failed to read staged registration", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	if staged.Email != email {
		return "", models.ErrOTPInvalid
	}

	otp, err := s.otps.Verify(ctx, nil, token, code, models.OTPPurposeRegistration)
	if err != nil {
		return "", err
	}

	if err := s.otps.Consume(ctx, otp.ID); err != nil {
		return "", err
	}

	if err := s.store.Set(ctx, cache.RegistrationVerifiedKey(email), true, cache.VerifiedTTL); err != nil {
		s.logger.Error("failed to flag verified registration", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	if err := s.store.Delete(ctx, cache.RegistrationDataKey(token), cache.RegistrationEmailKey(email)); err != nil {
		s.logger.Warn("failed to clear staging keys", slog.Any("error", err))
	}

	s.logger.Info("registration email verified",
		slog.String("email", pkglogger.SanitizedEmail(email)))

	// Correlation id for the client; finalization is gated on the verified flag
	return uuid.New().String(), nil
}

// Finalize writes the account once the email has been verified. An account
// row that already exists for the email is updated in place, so a crash
// between the durable write and session issuance is recoverable by
// re-submitting the same verified registration.
func (s *RegistrationService) Finalize(ctx context.Context, input StageInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var verified bool
	if err := s.store.Get(ctx, cache.RegistrationVerifiedKey(email), &verified); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, models.ErrVerificationRequired
		}
		s.logger.Error("failed to read verified flag", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if !verified {
		return nil, models.ErrVerificationRequired
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to look up account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	var account *models.User
	if existing != nil {
		account, err = s.updateVerifiedAccount(ctx, existing, input)
	} else {
		account, err = s.createVerifiedAccount(ctx, email, input)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, cache.RegistrationVerifiedKey(email)); err != nil {
		s.logger.Warn("failed to clear verified flag", slog.Any("error", err))
	}

	tokens, err := s.sessions.GenerateTokenPair(account.ID, account.Email)
	if err != nil {
		s.logger.Error("failed to issue session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("registration finalized", slog.String("user_id", account.ID))

	return &AuthResult{User: account, Tokens: tokens}, nil
}

func (s *RegistrationService) createVerifiedAccount(ctx context.Context, email string, input StageInput) (*models.User, error) {
	if input.MobileNo != "" {
		inUse, err := s.userRepo.MobileInUse(ctx, input.MobileNo, "")
		if err != nil {
			s.logger.Error("mobile uniqueness check failed", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		if inUse {
			return nil, models.ErrDuplicateMobile
		}
	}

	passwordHash, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// Best effort: a federation failure must not block the account
	firebaseUID, err := s.identity.CreateUser(ctx, email, input.Password, input.MobileNo)
	if err != nil {
		firebaseUID = firebase.PlaceholderUID()
		s.logger.Warn("identity federation failed, using placeholder uid",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
	}

	var gender *string
	if input.Gender != "" {
		gender = &input.Gender
	}

	user := &models.User{
		Email:         email,
		PasswordHash:  passwordHash,
		FullName:      input.FullName,
		SignupType:    input.signupType(),
		Gender:        gender,
		MobileNo:      input.MobileNo,
		EmailVerified: true,
		FirebaseUID:   &firebaseUID,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrDuplicateEmail
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return created, nil
}

// updateVerifiedAccount re-applies the verified registration to an account row
// that already carries the email, keeping finalization idempotent.
func (s *RegistrationService) updateVerifiedAccount(ctx context.Context, existing *models.User, input StageInput) (*models.User, error) {
	if input.MobileNo != "" && input.MobileNo != existing.MobileNo {
		inUse, err := s.userRepo.MobileInUse(ctx, input.MobileNo, existing.ID)
		if err != nil {
			s.logger.Error("mobile uniqueness check failed", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		if inUse {
			return nil, models.ErrDuplicateMobile
		}
		existing.MobileNo = input.MobileNo
	}

	if input.Password != "" {
		passwordHash, err := pkgauth.HashPassword(input.Password)
		if err != nil {
			s.logger.Error("failed to hash password", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		existing.PasswordHash = passwordHash
	}

	if input.FullName != "" {
		existing.FullName = input.FullName
	}
	if input.Gender != "" {
		gender := input.Gender
		existing.Gender = &gender
	}
	existing.SignupType = input.signupType()
	existing.EmailVerified = true

	if existing.FirebaseUID == nil || *existing.FirebaseUID == "" {
		firebaseUID, err := s.identity.CreateUser(ctx, existing.Email, input.Password, existing.MobileNo)
		if err != nil {
			firebaseUID = firebase.PlaceholderUID()
			s.logger.Warn("identity federation failed, using placeholder uid",
				slog.String("email", pkglogger.SanitizedEmail(existing.Email)),
				slog.Any("error", err))
		}
		existing.FirebaseUID = &firebaseUID
	}

	updated, err := s.userRepo.Update(ctx, existing.ID, existing)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrDuplicateMobile
		}
		s.logger.Error("failed to update user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return updated, nil
}
