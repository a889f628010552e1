package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/companyportal/backend/internal/models"
	pkgauth "github.com/companyportal/backend/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestUserService_GetProfile_Success(t *testing.T) {
	user := NewTestUser("user_1", "test@example.com", "Test User")
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	got, err := service.GetProfile(context.Background(), "user_1")

	assert.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestUserService_UpdateProfile_Success(t *testing.T) {
	user := NewTestUser("user_1", "test@example.com", "Test User")
	var updatedUser *models.User
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		UpdateFunc: func(ctx context.Context, id string, u *models.User) (*models.User, error) {
			updatedUser = u
			return u, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	got, err := service.UpdateProfile(context.Background(), "user_1", ProfileUpdate{
		FullName: strptr("  New Name  "),
		Gender:   strptr(models.GenderOther),
	})

	require.NoError(t, err)
	assert.Equal(t, "New Name", got.FullName)
	require.NotNil(t, updatedUser.Gender)
	assert.Equal(t, models.GenderOther, *updatedUser.Gender)
}

func TestUserService_UpdateProfile_MobileChangeResetsVerification(t *testing.T) {
	user := NewTestUser("user_1", "test@example.com", "Test User")
	user.MobileNo = "+15550000000"
	user.MobileVerified = true

	var checkedExclude string
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		MobileInUseFunc: func(ctx context.Context, mobileNo, excludeID string) (bool, error) {
			checkedExclude = excludeID
			return false, nil
		},
		UpdateFunc: func(ctx context.Context, id string, u *models.User) (*models.User, error) {
			return u, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	got, err := service.UpdateProfile(context.Background(), "user_1", ProfileUpdate{
		MobileNo: strptr("+15551234567"),
	})

	require.NoError(t, err)
	assert.Equal(t, "+15551234567", got.MobileNo)
	assert.False(t, got.MobileVerified)
	assert.Equal(t, "user_1", checkedExclude)
}

func TestUserService_UpdateProfile_DuplicateMobile(t *testing.T) {
	user := NewTestUser("user_1", "test@example.com", "Test User")
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		MobileInUseFunc: func(ctx context.Context, mobileNo, excludeID string) (bool, error) {
			return true, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	got, err := service.UpdateProfile(context.Background(), "user_1", ProfileUpdate{
		MobileNo: strptr("+15551234567"),
	})

	assert.ErrorIs(t, err, models.ErrDuplicateMobile)
	assert.Nil(t, got)
}

func TestUserService_UpdateProfile_EmailChangeResetsVerification(t *testing.T) {
	user := NewTestUser("user_1", "old@example.com", "Test User")

	var checkedEmail, checkedExclude string
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		EmailInUseFunc: func(ctx context.Context, email, excludeID string) (bool, error) {
			checkedEmail = email
			checkedExclude = excludeID
			return false, nil
		},
		UpdateFunc: func(ctx context.Context, id string, u *models.User) (*models.User, error) {
			return u, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	got, err := service.UpdateProfile(context.Background(), "user_1", ProfileUpdate{
		Email: strptr("  New@Example.com "),
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.False(t, got.EmailVerified)
	assert.Equal(t, "new@example.com", checkedEmail)
	assert.Equal(t, "user_1", checkedExclude)
}

func TestUserService_UpdateProfile_SameEmailUnchanged(t *testing.T) {
	user := NewTestUser("user_1", "test@example.com", "Test User")

	emailChecked := false
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		EmailInUseFunc: func(ctx context.Context, email, excludeID string) (bool, error) {
			emailChecked = true
			return false, nil
		},
		UpdateFunc: func(ctx context.Context, id string, u *models.User) (*models.User, error) {
			return u, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	got, err := service.UpdateProfile(context.Background(), "user_1", ProfileUpdate{
		Email: strptr("Test@Example.com"),
	})

	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.False(t, emailChecked)
}

func TestUserService_UpdateProfile_DuplicateEmail(t *testing.T) {
	user := NewTestUser("user_1", "old@example.com", "Test User")
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		EmailInUseFunc: func(ctx context.Context, email, excludeID string) (bool, error) {
			return true, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	got, err := service.UpdateProfile(context.Background(), "user_1", ProfileUpdate{
		Email: strptr("taken@example.com"),
	})

	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	assert.Nil(t, got)
}

func TestUserService_ChangePassword_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("OldPassword1")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user_1", "test@example.com", "Test User", hash)

	var storedHash string
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id, passwordHash string) error {
			storedHash = passwordHash
			return nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	err = service.ChangePassword(context.Background(), "user_1", "OldPassword1", "NewPassword1")

	require.NoError(t, err)
	assert.NotEmpty(t, storedHash)
	assert.NoError(t, pkgauth.ComparePassword(storedHash, "NewPassword1"))
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	hash, err := pkgauth.HashPassword("OldPassword1")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user_1", "test@example.com", "Test User", hash)

	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	err = service.ChangePassword(context.Background(), "user_1", "WrongPassword", "NewPassword1")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestUserService_ChangePassword_WeakNewPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("OldPassword1")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user_1", "test@example.com", "Test User", hash)

	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	err = service.ChangePassword(context.Background(), "user_1", "OldPassword1", "short")

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestUserService_DeleteAccount_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("SecurePass123")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user_1", "test@example.com", "Test User", hash)

	userDeleted := false
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			assert.Equal(t, "user_1", id)
			userDeleted = true
			return nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	err = service.DeleteAccount(context.Background(), "user_1", "SecurePass123")

	require.NoError(t, err)
	assert.True(t, userDeleted)
}

func TestUserService_DeleteAccount_WrongPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("SecurePass123")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user_1", "test@example.com", "Test User", hash)

	userDeleted := false
	userRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			userDeleted = true
			return nil
		},
	}

	service := NewUserService(userRepo, slog.Default())

	err = service.DeleteAccount(context.Background(), "user_1", "WrongPassword")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.False(t, userDeleted)
}
