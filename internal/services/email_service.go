package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/companyportal/backend/pkg/logger"
)

// Mailer defines the interface for sending one-time code emails
type Mailer interface {
	SendOTPEmail(ctx context.Context, email, code, purpose string) error
}

// AWSSESMailer sends emails using AWS SES
type AWSSESMailer struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESMailer creates a new AWS SES mailer
func NewAWSSESMailer(region, fromAddress string, logger *slog.Logger) (*AWSSESMailer, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESMailer{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

func subjectFor(purpose string) string {
	switch purpose {
	case "registration":
		return "Verify your email address"
	case "password_reset":
		return "Reset your password"
	default:
		return "Your login code"
	}
}

// SendOTPEmail sends a one-time code to the user
func (s *AWSSESMailer) SendOTPEmail(ctx context.Context, email, code, purpose string) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { font-size: 32px; letter-spacing: 8px; font-weight: bold; text-align: center; padding: 16px; background-color: #f8f9fa; border-radius: 4px; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <p>Your verification code is:</p>
        <div class="code">%s</div>
        <p>This code will expire in 10 minutes. If you did not request it, you can ignore this email.</p>
        <div class="footer">
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`, code)

	textBody := fmt.Sprintf(`Your verification code is: %s

This code will expire in 10 minutes. If you did not request it, you can ignore this email.
`, code)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subjectFor(purpose)),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send otp email via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("otp email sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("purpose", purpose),
		slog.String("message_id", *result.MessageId))

	return nil
}
