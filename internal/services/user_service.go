package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/companyportal/backend/internal/models"
	pkgauth "github.com/companyportal/backend/pkg/auth"
)

// UserRepository defines the interface for account data operations
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	MobileInUse(ctx context.Context, mobileNo, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// ProfileUpdate carries the optional profile fields; nil means leave unchanged
type ProfileUpdate struct {
	Email    *string
	FullName *string
	Gender   *string
	MobileNo *string
}

// UserService handles account management business logic
type UserService struct {
	userRepo UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the account for the id
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial profile update. A changed email or mobile
// number is re-checked for uniqueness among active accounts, excluding the
// caller. An email change clears the verified flag until re-verified.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email != strings.ToLower(user.Email) {
			inUse, err := s.userRepo.EmailInUse(ctx, email, userID)
			if err != nil {
				s.logger.Error("email uniqueness check failed", slog.Any("error", err))
				return nil, models.ErrInternalServer
			}
			if inUse {
				return nil, models.ErrDuplicateEmail
			}
			user.Email = email
			user.EmailVerified = false
		}
	}
	if update.FullName != nil {
		user.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.Gender != nil {
		if *update.Gender == "" {
			user.Gender = nil
		} else {
			user.Gender = update.Gender
		}
	}
	if update.MobileNo != nil && *update.MobileNo != user.MobileNo {
		inUse, err := s.userRepo.MobileInUse(ctx, *update.MobileNo, userID)
		if err != nil {
			s.logger.Error("mobile uniqueness check failed", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		if inUse {
			return nil, models.ErrDuplicateMobile
		}
		user.MobileNo = *update.MobileNo
		user.MobileVerified = false
	}

	updated, err := s.userRepo.Update(ctx, userID, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrDuplicateEmail
		}
		s.logger.Error("failed to update profile", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("profile updated", slog.String("user_id", userID))

	return updated, nil
}

// ChangePassword re-verifies the current password before setting a new one
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return models.ErrUnauthorized
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return models.ErrBadRequest
	}

	newHash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, newHash); err != nil {
		s.logger.Error("failed to update password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password changed", slog.String("user_id", userID))

	return nil
}

// DeleteAccount re-verifies the password before removing the account. The
// repository deletes the account and its company profile in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return models.ErrUnauthorized
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		s.logger.Error("failed to delete account", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("account deleted", slog.String("user_id", userID))

	return nil
}
