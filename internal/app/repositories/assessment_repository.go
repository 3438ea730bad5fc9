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
)

var assessmentColumns = []string{
	"id", "member_id", "chapter_id", "status",
	"answer_1", "answer_2", "answer_3", "answer_4", "answer_5",
	"skill_score", "will_score", "category", "recommended_vertical_id",
	"created_at", "completed_at",
}

// AssessmentRepository handles database operations for skill-will assessments
type AssessmentRepository struct {
	db *pgxpool.Pool
}

// NewAssessmentRepository creates a new AssessmentRepository
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func scanAssessment(row pgx.Row) (*models.Assessment, error) {
	var a models.Assessment
	err := row.Scan(
		&a.ID, &a.MemberID, &a.ChapterID, &a.Status,
		&a.Answer1, &a.Answer2, &a.Answer3, &a.Answer4, &a.Answer5,
		&a.SkillScore, &a.WillScore, &a.Category, &a.RecommendedVerticalID,
		&a.CreatedAt, &a.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("error scanning assessment: %w", err)
	}
	return &a, nil
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepository) GetByID(ctx context.Context, id int64) (*models.Assessment, error) {
	query := squirrel.Select(assessmentColumns...).
		From("assessments").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanAssessment(r.db.QueryRow(ctx, sql, args...))
}

// GetActiveByMember retrieves the member's open assessment, if any
func (r *AssessmentRepository) GetActiveByMember(ctx context.Context, memberID int64) (*models.Assessment, error) {
	query := squirrel.Select(assessmentColumns...).
		From("assessments").
		Where("member_id = ?", memberID).
		Where(squirrel.NotEq{"status": models.AssessmentCompleted}).
		OrderBy("created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanAssessment(r.db.QueryRow(ctx, sql, args...))
}

// GetHistoryByMember retrieves a member's completed assessments, newest first
func (r *AssessmentRepository) GetHistoryByMember(ctx context.Context, memberID int64) ([]models.Assessment, error) {
	query := squirrel.Select(assessmentColumns...).
		From("assessments").
		Where("member_id = ?", memberID).
		Where("status = ?", models.AssessmentCompleted).
		OrderBy("completed_at DESC").
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

	var assessments []models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, *a)
	}

	return assessments, nil
}

// Create starts a new assessment for a member
func (r *AssessmentRepository) Create(ctx context.Context, a *models.Assessment) (int64, error) {
	query := squirrel.Insert("assessments").
		Columns("member_id", "chapter_id", "status").
		Values(a.MemberID, a.ChapterID, a.Status).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating assessment: %w", err)
	}
	return id, nil
}

// SaveAnswer stores one answer and marks the assessment in progress
func (r *AssessmentRepository) SaveAnswer(ctx context.Context, id int64, question, answer int) error {
	if question < 1 || question > 5 {
		return apperrors.ErrBadRequest
	}

	sql := fmt.Sprintf(`UPDATE assessments
		SET answer_%d = $2, status = $3
		WHERE id = $1 AND status != $4`, question)

	tag, err := r.db.Exec(ctx, sql, id, answer, models.AssessmentInProgress, models.AssessmentCompleted)
	if err != nil {
		return fmt.Errorf("error saving answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// Complete stores the computed scores and closes the assessment
func (r *AssessmentRepository) Complete(ctx context.Context, id int64, skillScore, willScore float64, category models.AssessmentCategory, recommendedVerticalID *int64) error {
	query := squirrel.Update("assessments").
		Set("status", models.AssessmentCompleted).
		Set("skill_score", skillScore).
		Set("will_score", willScore).
		Set("category", category).
		Set("recommended_vertical_id", recommendedVerticalID).
		Set("completed_at", time.Now()).
		Where("id = ?", id).
		Where(squirrel.NotEq{"status": models.AssessmentCompleted}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error completing assessment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}
