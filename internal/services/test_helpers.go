package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/companyportal/backend/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	EmailInUseFunc     func(ctx context.Context, email, excludeID string) (bool, error)
	MobileInUseFunc    func(ctx context.Context, mobileNo, excludeID string) (bool, error)
	CreateFunc         func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc         func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	if m.EmailInUseFunc != nil {
		return m.EmailInUseFunc(ctx, email, excludeID)
	}
	return false, nil
}

func (m *MockUserRepository) MobileInUse(ctx context.Context, mobileNo, excludeID string) (bool, error) {
	if m.MobileInUseFunc != nil {
		return m.MobileInUseFunc(ctx, mobileNo, excludeID)
	}
	return false, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = "user_created"
	return user, nil
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return user, nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockOTPRepository implements OTPRepository for testing
type MockOTPRepository struct {
	CreateFunc             func(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	GetForVerificationFunc func(ctx context.Context, userID *string, token, code, purpose string) (*models.OTP, error)
	ConsumeFunc            func(ctx context.Context, id string) error
	InvalidateUnusedFunc   func(ctx context.Context, userID *string, token, purpose string) error
	CleanupExpiredFunc     func(ctx context.Context) (int64, error)
}

func (m *MockOTPRepository) Create(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, otp)
	}
	otp.ID = "otp_created"
	otp.CreatedAt = time.Now()
	return otp, nil
}

func (m *MockOTPRepository) GetForVerification(ctx context.Context, userID *string, token, code, purpose string) (*models.OTP, error) {
	if m.GetForVerificationFunc != nil {
		return m.GetForVerificationFunc(ctx, userID, token, code, purpose)
	}
	return nil, models.ErrNotFound
}

func (m *MockOTPRepository) Consume(ctx context.Context, id string) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, id)
	}
	return nil
}

func (m *MockOTPRepository) InvalidateUnused(ctx context.Context, userID *string, token, purpose string) error {
	if m.InvalidateUnusedFunc != nil {
		return m.InvalidateUnusedFunc(ctx, userID, token, purpose)
	}
	return nil
}

func (m *MockOTPRepository) CleanupExpired(ctx context.Context) (int64, error) {
	if m.CleanupExpiredFunc != nil {
		return m.CleanupExpiredFunc(ctx)
	}
	return 0, nil
}

// MockCompanyRepository implements CompanyRepository for testing
type MockCompanyRepository struct {
	CreateFunc         func(ctx context.Context, company *models.CompanyProfile) (*models.CompanyProfile, error)
	GetByOwnerFunc     func(ctx context.Context, ownerID string) (*models.CompanyProfile, error)
	UpdateFunc         func(ctx context.Context, ownerID string, company *models.CompanyProfile) (*models.CompanyProfile, error)
	UpdateImageURLFunc func(ctx context.Context, ownerID, column, url string) error
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *models.CompanyProfile) (*models.CompanyProfile, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, company)
	}
	company.ID = "company_created"
	return company, nil
}

func (m *MockCompanyRepository) GetByOwner(ctx context.Context, ownerID string) (*models.CompanyProfile, error) {
	if m.GetByOwnerFunc != nil {
		return m.GetByOwnerFunc(ctx, ownerID)
	}
	return nil, models.ErrNotFound
}

func (m *MockCompanyRepository) Update(ctx context.Context, ownerID string, company *models.CompanyProfile) (*models.CompanyProfile, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, company)
	}
	return company, nil
}

func (m *MockCompanyRepository) UpdateImageURL(ctx context.Context, ownerID, column, url string) error {
	if m.UpdateImageURLFunc != nil {
		return m.UpdateImageURLFunc(ctx, ownerID, column, url)
	}
	return nil
}

// MockMailer implements Mailer for testing
type MockMailer struct {
	SendOTPEmailFunc func(ctx context.Context, email, code, purpose string) error
}

func (m *MockMailer) SendOTPEmail(ctx context.Context, email, code, purpose string) error {
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(ctx, email, code, purpose)
	}
	return nil
}

// MockIdentityProvider implements IdentityProvider for testing
type MockIdentityProvider struct {
	CreateUserFunc func(ctx context.Context, email, password, phoneNumber string) (string, error)
}

func (m *MockIdentityProvider) CreateUser(ctx context.Context, email, password, phoneNumber string) (string, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, email, password, phoneNumber)
	}
	return "firebase_uid_test", nil
}

// MockSessionIssuer implements SessionIssuer for testing
type MockSessionIssuer struct {
	GenerateTokenPairFunc func(userID, email string) (*models.TokenPair, error)
}

func (m *MockSessionIssuer) GenerateTokenPair(userID, email string) (*models.TokenPair, error) {
	if m.GenerateTokenPairFunc != nil {
		return m.GenerateTokenPairFunc(userID, email)
	}
	return &models.TokenPair{
		AccessToken:  "access_" + userID,
		RefreshToken: "refresh_" + userID,
	}, nil
}

// MockImageUploader implements storage.ImageUploader for testing
type MockImageUploader struct {
	UploadImageFunc func(ctx context.Context, folder, publicID string, data io.Reader) (string, error)
}

func (m *MockImageUploader) UploadImage(ctx context.Context, folder, publicID string, data io.Reader) (string, error) {
	if m.UploadImageFunc != nil {
		return m.UploadImageFunc(ctx, folder, publicID, data)
	}
	return "https://images.example/" + folder + "/" + publicID, nil
}

// NewTestUser constructs an active test account
func NewTestUser(id, email, fullName string) *models.User {
	now := time.Now()
	return &models.User{
		ID:            id,
		Email:         email,
		FullName:      fullName,
		SignupType:    models.DefaultSignupType,
		EmailVerified: true,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewTestUserWithPassword constructs a test account with a password hash
func NewTestUserWithPassword(id, email, fullName, passwordHash string) *models.User {
	user := NewTestUser(id, email, fullName)
	user.PasswordHash = passwordHash
	return user
}

// NewTestOTP constructs a live one-time code
func NewTestOTP(id string, userID *string, purpose, code, token string) *models.OTP {
	return &models.OTP{
		ID:        id,
		UserID:    userID,
		Purpose:   purpose,
		Code:      code,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
}

// pinnedCodeOTPService builds an OTP service whose generator always returns code
func pinnedCodeOTPService(repo OTPRepository, mailer Mailer, code string) *OTPService {
	svc := NewOTPService(repo, mailer, slog.Default(), 10*time.Minute)
	svc.generateCode = func() (string, error) { return code, nil }
	return svc
}
