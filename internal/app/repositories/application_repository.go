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
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/dberrors"
)

var applicationColumns = []string{
	"id", "opportunity_id", "member_id", "status", "profile_snapshot", "cover_note",
	"match_score", "review_notes", "reviewed_by", "reviewed_at", "submitted_at", "updated_at",
}

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func scanApplication(row pgx.Row, extra ...interface{}) (*models.Application, error) {
	var a models.Application
	dest := []interface{}{
		&a.ID, &a.OpportunityID, &a.MemberID, &a.Status, &a.ProfileSnapshot, &a.CoverNote,
		&a.MatchScore, &a.ReviewNotes, &a.ReviewedBy, &a.ReviewedAt, &a.SubmittedAt, &a.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error scanning application: %w", err)
	}
	return &a, nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	query := squirrel.Select(applicationColumns...).
		From("applications").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanApplication(r.db.QueryRow(ctx, sql, args...))
}

// GetAll retrieves applications with filtering and pagination
func (r *ApplicationRepository) GetAll(ctx context.Context, filter dto.ApplicationListFilter, page, pageSize int) ([]models.Application, int64, error) {
	query := squirrel.Select(append(applicationColumns, "COUNT(*) OVER()")...).
		From("applications").
		PlaceholderFormat(squirrel.Dollar)

	if filter.OpportunityID != nil {
		query = query.Where("opportunity_id = ?", *filter.OpportunityID)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("submitted_at DESC").Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var applications []models.Application
	var total int64
	for rows.Next() {
		a, err := scanApplication(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		applications = append(applications, *a)
	}

	return applications, total, nil
}

// HasActiveApplication reports whether the member already has a non-withdrawn
// application for the opportunity.
func (r *ApplicationRepository) HasActiveApplication(ctx context.Context, opportunityID, memberID int64) (bool, error) {
	sql := `SELECT EXISTS (
		SELECT 1 FROM applications
		WHERE opportunity_id = $1 AND member_id = $2 AND status <> $3
	)`

	var exists bool
	err := r.db.QueryRow(ctx, sql, opportunityID, memberID,
		models.ApplicationWithdrawn).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking active application: %w", err)
	}
	return exists, nil
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) (int64, error) {
	query := squirrel.Insert("applications").
		Columns("opportunity_id", "member_id", "status", "profile_snapshot", "cover_note").
		Values(a.OpportunityID, a.MemberID, a.Status, a.ProfileSnapshot, a.CoverNote).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrDuplicateApplication
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrOpportunityNotFound
		}
		return 0, fmt.Errorf("error creating application: %w", err)
	}
	return id, nil
}

// UpdateStatus moves an application from one status to another. The current
// status is part of the WHERE clause so two concurrent reviewers cannot both
// transition the same application.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, from, to models.ApplicationStatus, reviewedBy *int64, reviewNotes *string) error {
	builder := squirrel.Update("applications").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		Where("status = ?", from).
		PlaceholderFormat(squirrel.Dollar)

	if reviewedBy != nil {
		builder = builder.
			Set("reviewed_by", *reviewedBy).
			Set("reviewed_at", time.Now())
	}
	if reviewNotes != nil {
		builder = builder.Set("review_notes", *reviewNotes)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// SetMatchScore records the computed match score for an application
func (r *ApplicationRepository) SetMatchScore(ctx context.Context, id int64, score float64) error {
	sql := `UPDATE applications SET match_score = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, id, score)
	if err != nil {
		return fmt.Errorf("error setting match score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}
