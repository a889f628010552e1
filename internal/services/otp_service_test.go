package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/companyportal/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestOTPService_Issue_Success(t *testing.T) {
	emailSent := false
	var sentCode string

	otpRepo := &MockOTPRepository{
		CreateFunc: func(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
			otp.ID = "otp_1"
			return otp, nil
		},
	}
	mailer := &MockMailer{
		SendOTPEmailFunc: func(ctx context.Context, email, code, purpose string) error {
			emailSent = true
			sentCode = code
			return nil
		},
	}

	service := pinnedCodeOTPService(otpRepo, mailer, "111111")

	otp, err := service.Issue(context.Background(), nil, models.OTPPurposeRegistration, "test@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, otp)
	assert.Equal(t, "111111", otp.Code)
	assert.NotEmpty(t, otp.Token)
	assert.True(t, emailSent)
	assert.Equal(t, "111111", sentCode)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), otp.ExpiresAt, 5*time.Second)
}

func TestOTPService_Issue_EmailFailureDoesNotFail(t *testing.T) {
	otpRepo := &MockOTPRepository{}
	mailer := &MockMailer{
		SendOTPEmailFunc: func(ctx context.Context, email, code, purpose string) error {
			return errors.New("ses unavailable")
		},
	}

	service := pinnedCodeOTPService(otpRepo, mailer, "111111")

	otp, err := service.Issue(context.Background(), nil, models.OTPPurposeLogin, "test@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, otp)
}

func TestOTPService_Issue_RepositoryError(t *testing.T) {
	otpRepo := &MockOTPRepository{
		CreateFunc: func(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
			return nil, errors.New("database error")
		},
	}

	service := pinnedCodeOTPService(otpRepo, &MockMailer{}, "111111")

	otp, err := service.Issue(context.Background(), nil, models.OTPPurposeLogin, "test@example.com")

	assert.Error(t, err)
	assert.Nil(t, otp)
}

func TestOTPService_Verify_Success(t *testing.T) {
	stored := NewTestOTP("otp_1", nil, models.OTPPurposeRegistration, "111111", "token_1")

	otpRepo := &MockOTPRepository{
		GetForVerificationFunc: func(ctx context.Context, userID *string, token, code, purpose string) (*models.OTP, error) {
			assert.Equal(t, "token_1", token)
			assert.Equal(t, "111111", code)
			assert.Equal(t, models.OTPPurposeRegistration, purpose)
			return stored, nil
		},
	}

	service := NewOTPService(otpRepo, &MockMailer{}, slog.Default(), 10*time.Minute)

	otp, err := service.Verify(context.Background(), nil, "token_1", "111111", models.OTPPurposeRegistration)

	assert.NoError(t, err)
	assert.Equal(t, "otp_1", otp.ID)
}

func TestOTPService_Verify_UnknownCode(t *testing.T) {
	otpRepo := &MockOTPRepository{
		GetForVerificationFunc: func(ctx context.Context, userID *string, token, code, purpose string) (*models.OTP, error) {
			return nil, models.ErrNotFound
		},
	}

	service := NewOTPService(otpRepo, &MockMailer{}, slog.Default(), 10*time.Minute)

	otp, err := service.Verify(context.Background(), nil, "token_1", "000000", models.OTPPurposeRegistration)

	assert.ErrorIs(t, err, models.ErrOTPInvalid)
	assert.Nil(t, otp)
}

func TestOTPService_Verify_Expired(t *testing.T) {
	stored := NewTestOTP("otp_1", nil, models.OTPPurposeRegistration, "111111", "token_1")
	stored.ExpiresAt = time.Now().Add(-1 * time.Minute)

	otpRepo := &MockOTPRepository{
		GetForVerificationFunc: func(ctx context.Context, userID *string, token, code, purpose string) (*models.OTP, error) {
			return stored, nil
		},
	}

	service := NewOTPService(otpRepo, &MockMailer{}, slog.Default(), 10*time.Minute)

	otp, err := service.Verify(context.Background(), nil, "token_1", "111111", models.OTPPurposeRegistration)

	assert.ErrorIs(t, err, models.ErrOTPExpired)
	assert.Nil(t, otp)
}

func TestOTPService_Consume_AlreadyUsed(t *testing.T) {
	otpRepo := &MockOTPRepository{
		ConsumeFunc: func(ctx context.Context, id string) error {
			return models.ErrOTPInvalid
		},
	}

	service := NewOTPService(otpRepo, &MockMailer{}, slog.Default(), 10*time.Minute)

	err := service.Consume(context.Background(), "otp_1")

	assert.ErrorIs(t, err, models.ErrOTPInvalid)
}

func TestGenerateNumericCode_SixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateNumericCode()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
