package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

// VerificationTokenRepository handles database operations for email
// verification tokens
type VerificationTokenRepository struct {
	db *pgxpool.Pool
}

// NewVerificationTokenRepository creates a new VerificationTokenRepository
func NewVerificationTokenRepository(db *pgxpool.Pool) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

// Create stores a verification token for a user. Any previous token for the
// same user is replaced.
func (r *VerificationTokenRepository) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if err := r.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	query := squirrel.Insert("email_verification_tokens").
		Columns("user_id", "token", "expires_at").
		Values(userID, token, expiresAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error storing verification token: %w", err)
	}
	return nil
}

// GetUserID resolves a verification token to its user
func (r *VerificationTokenRepository) GetUserID(ctx context.Context, token string) (int64, error) {
	query := squirrel.Select("user_id", "expires_at").
		From("email_verification_tokens").
		Where("token = ?", token).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var userID int64
	var expiresAt time.Time
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&userID, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		return 0, fmt.Errorf("error looking up verification token: %w", err)
	}

	if time.Now().After(expiresAt) {
		return 0, apperrors.ErrTokenExpired
	}
	return userID, nil
}

// Delete removes a verification token after use
func (r *VerificationTokenRepository) Delete(ctx context.Context, token string) error {
	query := squirrel.Delete("email_verification_tokens").
		Where("token = ?", token).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting verification token: %w", err)
	}
	return nil
}

// DeleteByUser removes every verification token issued to a user
func (r *VerificationTokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query := squirrel.Delete("email_verification_tokens").
		Where("user_id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting verification tokens: %w", err)
	}
	return nil
}
