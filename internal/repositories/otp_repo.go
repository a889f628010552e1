package repositories

import (
	"context"
	"fmt"

	"github.com/companyportal/backend/internal/database"
	"github.com/companyportal/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OTPRepository handles one-time code ledger data access
type OTPRepository struct {
	pool *pgxpool.Pool
}

// NewOTPRepository creates a new OTPRepository
func NewOTPRepository(db *database.DB) *OTPRepository {
	return &OTPRepository{pool: db.Pool}
}

// scanOTPRow populates an OTP model from a database row
func scanOTPRow(row rowScanner) (*models.OTP, error) {
	var otp models.OTP

	err := row.Scan(
		&otp.ID, &otp.UserID, &otp.Purpose, &otp.Code, &otp.Token,
		&otp.Used, &otp.CreatedAt, &otp.ExpiresAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &otp, nil
}

// Create inserts a new code into the ledger
func (r *OTPRepository) Create(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	query := `
		INSERT INTO otps (user_id, purpose, code, token, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, purpose, code, token, used, created_at, expires_at
	`

	created, err := scanOTPRow(r.pool.QueryRow(ctx, query,
		otp.UserID, otp.Purpose, otp.Code, otp.Token, otp.ExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create otp: %w", err)
	}

	return created, nil
}

// GetForVerification finds the unused row matching the token/code/purpose
// triple. Registration codes have no user binding, so userID is nullable and
// only constrains the match when set.
func (r *OTPRepository) GetForVerification(ctx context.Context, userID *string, token, code, purpose string) (*models.OTP, error) {
	query := `
		SELECT id, user_id, purpose, code, token, used, created_at, expires_at
		FROM otps
		WHERE token = $1 AND code = $2 AND purpose = $3
			AND NOT used
			AND ($4::uuid IS NULL OR user_id = $4::uuid)
		ORDER BY created_at DESC
		LIMIT 1
	`

	otp, err := scanOTPRow(r.pool.QueryRow(ctx, query, token, code, purpose, userID))
	if err != nil {
		return nil, err
	}

	return otp, nil
}

// Consume flips the used flag. The conditional update is the single point
// deciding concurrent redemption races: exactly one caller sees the row flip.
func (r *OTPRepository) Consume(ctx context.Context, id string) error {
	query := `UPDATE otps SET used = TRUE WHERE id = $1 AND NOT used`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrOTPInvalid
	}

	return nil
}

// InvalidateUnused marks all outstanding codes for the token/purpose pair as
// used so a resend supersedes them.
func (r *OTPRepository) InvalidateUnused(ctx context.Context, userID *string, token, purpose string) error {
	query := `
		UPDATE otps SET used = TRUE
		WHERE token = $1 AND purpose = $2
			AND NOT used
			AND ($3::uuid IS NULL OR user_id = $3::uuid)
	`

	if _, err := r.pool.Exec(ctx, query, token, purpose, userID); err != nil {
		return fmt.Errorf("failed to invalidate otps: %w", err)
	}

	return nil
}

// CleanupExpired deletes codes whose expiry is long past
func (r *OTPRepository) CleanupExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM otps
		WHERE expires_at < NOW() - INTERVAL '30 days'
	`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired otps: %w", err)
	}

	return result.RowsAffected(), nil
}
