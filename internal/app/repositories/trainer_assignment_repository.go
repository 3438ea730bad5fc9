package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/dberrors"
)

var assignmentColumns = []string{
	"id", "event_id", "trainer_id", "status", "match_score", "score_breakdown",
	"invitation_token", "trainer_rating", "coordinator_rating", "assigned_by",
	"created_at", "updated_at",
}

// TrainerAssignmentRepository handles database operations for trainer assignments
type TrainerAssignmentRepository struct {
	db *pgxpool.Pool
}

// NewTrainerAssignmentRepository creates a new TrainerAssignmentRepository
func NewTrainerAssignmentRepository(db *pgxpool.Pool) *TrainerAssignmentRepository {
	return &TrainerAssignmentRepository{db: db}
}

func scanAssignment(row pgx.Row, extra ...interface{}) (*models.TrainerAssignment, error) {
	var a models.TrainerAssignment
	dest := []interface{}{
		&a.ID, &a.EventID, &a.TrainerID, &a.Status, &a.MatchScore, &a.ScoreBreakdown,
		&a.InvitationToken, &a.TrainerRating, &a.CoordinatorRating, &a.AssignedBy,
		&a.CreatedAt, &a.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error scanning trainer assignment: %w", err)
	}
	return &a, nil
}

// GetByID retrieves an assignment by ID
func (r *TrainerAssignmentRepository) GetByID(ctx context.Context, id int64) (*models.TrainerAssignment, error) {
	query := squirrel.Select(assignmentColumns...).
		From("trainer_assignments").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanAssignment(r.db.QueryRow(ctx, sql, args...))
}

// GetByToken retrieves an assignment by its invitation token
func (r *TrainerAssignmentRepository) GetByToken(ctx context.Context, token string) (*models.TrainerAssignment, error) {
	query := squirrel.Select(assignmentColumns...).
		From("trainer_assignments").
		Where("invitation_token = ?", token).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	assignment, err := scanAssignment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrAssignmentNotFound) {
			return nil, apperrors.ErrInvitationTokenUnknown
		}
		return nil, err
	}
	return assignment, nil
}

// GetByEvent retrieves the assignments for an event
func (r *TrainerAssignmentRepository) GetByEvent(ctx context.Context, eventID int64) ([]models.TrainerAssignment, error) {
	return r.list(ctx, squirrel.Eq{"event_id": eventID})
}

// GetByTrainer retrieves the assignments of a trainer
func (r *TrainerAssignmentRepository) GetByTrainer(ctx context.Context, trainerID int64) ([]models.TrainerAssignment, error) {
	return r.list(ctx, squirrel.Eq{"trainer_id": trainerID})
}

func (r *TrainerAssignmentRepository) list(ctx context.Context, where squirrel.Eq) ([]models.TrainerAssignment, error) {
	query := squirrel.Select(assignmentColumns...).
		From("trainer_assignments").
		Where(where).
		OrderBy("created_at DESC").
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

	var assignments []models.TrainerAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}

	return assignments, nil
}

// Create creates a new trainer assignment
func (r *TrainerAssignmentRepository) Create(ctx context.Context, a *models.TrainerAssignment) (int64, error) {
	query := squirrel.Insert("trainer_assignments").
		Columns("event_id", "trainer_id", "status", "match_score", "score_breakdown", "assigned_by").
		Values(a.EventID, a.TrainerID, a.Status, a.MatchScore, a.ScoreBreakdown, a.AssignedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrConflict
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrResourceNotFound
		}
		return 0, fmt.Errorf("error creating trainer assignment: %w", err)
	}
	return id, nil
}

// UpdateStatus moves an assignment from one status to another, optionally
// storing the invitation token generated for the invite step.
func (r *TrainerAssignmentRepository) UpdateStatus(ctx context.Context, id int64, from, to models.AssignmentStatus, invitationToken *string) error {
	builder := squirrel.Update("trainer_assignments").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		Where("status = ?", from).
		PlaceholderFormat(squirrel.Dollar)

	if invitationToken != nil {
		builder = builder.Set("invitation_token", *invitationToken)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating assignment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// SetTrainerRating records the coordinator's rating of the trainer
func (r *TrainerAssignmentRepository) SetTrainerRating(ctx context.Context, id int64, rating int) error {
	return r.setRating(ctx, id, "trainer_rating", rating)
}

// SetCoordinatorRating records the trainer's rating of the engagement
func (r *TrainerAssignmentRepository) SetCoordinatorRating(ctx context.Context, id int64, rating int) error {
	return r.setRating(ctx, id, "coordinator_rating", rating)
}

func (r *TrainerAssignmentRepository) setRating(ctx context.Context, id int64, column string, rating int) error {
	sql := fmt.Sprintf(`UPDATE trainer_assignments SET %s = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ($3, $4) AND %s IS NULL`, column, column)

	tag, err := r.db.Exec(ctx, sql, id, rating, models.AssignmentConfirmed, models.AssignmentCompleted)
	if err != nil {
		return fmt.Errorf("error setting rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRatingNotAllowed
	}
	return nil
}
