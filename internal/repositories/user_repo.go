package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/companyportal/backend/internal/database"
	"github.com/companyportal/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, password_hash, full_name, signup_type, gender, mobile_no,
	mobile_verified, email_verified, firebase_uid, is_active, is_staff, created_at, updated_at`

type UserRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db, pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.SignupType, &user.Gender, &user.MobileNo,
		&user.MobileVerified, &user.EmailVerified, &user.FirebaseUID,
		&user.Active, &user.Staff,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 AND is_active`, userColumns)

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail matches case-insensitively and only returns active accounts
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1) AND is_active`, userColumns)

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

// EmailInUse reports whether an active account other than excludeID holds the
// email. Pass an empty excludeID to check against all active accounts.
func (r *UserRepository) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE LOWER(email) = LOWER($1) AND is_active AND ($2 = '' OR id != $2::uuid)
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}

	return exists, nil
}

// MobileInUse reports whether an active account other than excludeID holds the
// mobile number.
func (r *UserRepository) MobileInUse(ctx context.Context, mobileNo, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE mobile_no = $1 AND mobile_no != '' AND is_active AND ($2 = '' OR id != $2::uuid)
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, mobileNo, excludeID).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}

	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.SignupType == "" {
		user.SignupType = models.DefaultSignupType
	}
	user.Active = true

	query := fmt.Sprintf(`
		INSERT INTO users (id, email, password_hash, full_name, signup_type, gender, mobile_no,
			mobile_verified, email_verified, firebase_uid, is_active, is_staff, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s
	`, userColumns)

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName,
		user.SignupType, user.Gender, user.MobileNo,
		user.MobileVerified, user.EmailVerified, user.FirebaseUID,
		user.Active, user.Staff, user.CreatedAt, user.UpdatedAt,
	))
}

func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		UPDATE users SET email = $1, full_name = $2, signup_type = $3, gender = $4,
			mobile_no = $5, mobile_verified = $6, email_verified = $7, firebase_uid = $8,
			password_hash = $9, updated_at = $10
		WHERE id = $11
		RETURNING %s
	`, userColumns)

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Email, user.FullName, user.SignupType, user.Gender,
		user.MobileNo, user.MobileVerified, user.EmailVerified, user.FirebaseUID,
		user.PasswordHash, user.UpdatedAt, id,
	))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes the account and its company profile in one transaction, so
// a failure leaves both rows in place.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM company_profiles WHERE owner_id = $1`, id); err != nil {
			return database.MapPostgresError(err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return database.MapPostgresError(err)
		}

		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		return nil
	})
}
