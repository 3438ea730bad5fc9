package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/dberrors"
)

// TrainerProfileRepository handles database operations for trainer profiles
type TrainerProfileRepository struct {
	db *pgxpool.Pool
}

// NewTrainerProfileRepository creates a new TrainerProfileRepository
func NewTrainerProfileRepository(db *pgxpool.Pool) *TrainerProfileRepository {
	return &TrainerProfileRepository{db: db}
}

// GetByUserID retrieves a trainer profile by the owning user's ID
func (r *TrainerProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.TrainerProfile, error) {
	query := squirrel.Select("id", "user_id", "expertise", "city", "sessions_delivered", "average_rating").
		From("trainer_profiles").
		Where("user_id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var profile models.TrainerProfile
	err = r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID, &profile.UserID, &profile.Expertise,
		&profile.City, &profile.SessionsDelivered, &profile.AverageRating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &profile, nil
}

// GetAll retrieves all trainer profiles
func (r *TrainerProfileRepository) GetAll(ctx context.Context) ([]models.TrainerProfile, error) {
	query := squirrel.Select("id", "user_id", "expertise", "city", "sessions_delivered", "average_rating").
		From("trainer_profiles").
		OrderBy("sessions_delivered DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var profiles []models.TrainerProfile
	for rows.Next() {
		var profile models.TrainerProfile
		err := rows.Scan(&profile.ID, &profile.UserID, &profile.Expertise,
			&profile.City, &profile.SessionsDelivered, &profile.AverageRating)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// Upsert creates or replaces the trainer profile for a user
func (r *TrainerProfileRepository) Upsert(ctx context.Context, profile *models.TrainerProfile) error {
	sql := `INSERT INTO trainer_profiles (user_id, expertise, city)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET expertise = EXCLUDED.expertise, city = EXCLUDED.city`

	if _, err := r.db.Exec(ctx, sql, profile.UserID, profile.Expertise, profile.City); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error upserting trainer profile: %w", err)
	}
	return nil
}

// RecordDeliveredSession bumps the session counter and folds the rating into
// the running average.
func (r *TrainerProfileRepository) RecordDeliveredSession(ctx context.Context, userID int64, rating *int) error {
	sql := `UPDATE trainer_profiles
		SET sessions_delivered = sessions_delivered + 1,
			average_rating = CASE
				WHEN $2::int IS NULL THEN average_rating
				WHEN average_rating IS NULL THEN $2::int
				ELSE (average_rating * sessions_delivered + $2::int) / (sessions_delivered + 1)
			END
		WHERE user_id = $1`

	tag, err := r.db.Exec(ctx, sql, userID, rating)
	if err != nil {
		return fmt.Errorf("error recording delivered session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
