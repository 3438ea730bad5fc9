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

// PasswordResetTokenRepository handles database operations for password
// reset tokens
type PasswordResetTokenRepository struct {
	db *pgxpool.Pool
}

// NewPasswordResetTokenRepository creates a new PasswordResetTokenRepository
func NewPasswordResetTokenRepository(db *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

// Create stores a reset token for a user
func (r *PasswordResetTokenRepository) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := squirrel.Insert("password_reset_tokens").
		Columns("user_id", "token", "expires_at").
		Values(userID, token, expiresAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}
	return nil
}

// GetUserID resolves an unused, unexpired reset token to its user
func (r *PasswordResetTokenRepository) GetUserID(ctx context.Context, token string) (int64, error) {
	query := squirrel.Select("user_id", "expires_at", "used").
		From("password_reset_tokens").
		Where("token = ?", token).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var userID int64
	var expiresAt time.Time
	var used bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&userID, &expiresAt, &used); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		return 0, fmt.Errorf("error looking up reset token: %w", err)
	}

	if used {
		return 0, apperrors.ErrTokenNotFound
	}
	if time.Now().After(expiresAt) {
		return 0, apperrors.ErrTokenExpired
	}
	return userID, nil
}

// MarkUsed consumes a reset token so it cannot be replayed
func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, token string) error {
	query := squirrel.Update("password_reset_tokens").
		Set("used", true).
		Where("token = ?", token).
		Where("used = ?", false).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error consuming reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}
