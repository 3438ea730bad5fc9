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
)

var opportunityColumns = []string{
	"id", "title", "description", "type", "status", "chapter_id", "industry_id",
	"created_by", "max_participants", "application_deadline",
	"current_applications", "accepted_count", "positions_filled", "view_count", "bookmark_count",
	"closed_at", "created_at", "updated_at",
}

// OpportunityRepository handles database operations for opportunities
type OpportunityRepository struct {
	db *pgxpool.Pool
}

// NewOpportunityRepository creates a new OpportunityRepository
func NewOpportunityRepository(db *pgxpool.Pool) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

func scanOpportunity(row pgx.Row, extra ...interface{}) (*models.Opportunity, error) {
	var o models.Opportunity
	dest := []interface{}{
		&o.ID, &o.Title, &o.Description, &o.Type, &o.Status, &o.ChapterID, &o.IndustryID,
		&o.CreatedBy, &o.MaxParticipants, &o.ApplicationDeadline,
		&o.CurrentApplications, &o.AcceptedCount, &o.PositionsFilled, &o.ViewCount, &o.BookmarkCount,
		&o.ClosedAt, &o.CreatedAt, &o.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("error scanning opportunity: %w", err)
	}
	return &o, nil
}

// GetByID retrieves an opportunity by ID
func (r *OpportunityRepository) GetByID(ctx context.Context, id int64) (*models.Opportunity, error) {
	query := squirrel.Select(opportunityColumns...).
		From("opportunities").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanOpportunity(r.db.QueryRow(ctx, sql, args...))
}

// GetAll retrieves opportunities with filtering and pagination
func (r *OpportunityRepository) GetAll(ctx context.Context, filter dto.OpportunityListFilter, page, pageSize int) ([]models.Opportunity, int64, error) {
	query := squirrel.Select(append(opportunityColumns, "COUNT(*) OVER()")...).
		From("opportunities").
		PlaceholderFormat(squirrel.Dollar)

	if filter.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filter.ChapterID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("created_at DESC").Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var opportunities []models.Opportunity
	var total int64
	for rows.Next() {
		o, err := scanOpportunity(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		opportunities = append(opportunities, *o)
	}

	return opportunities, total, nil
}

// Create creates a new opportunity draft
func (r *OpportunityRepository) Create(ctx context.Context, o *models.Opportunity) (int64, error) {
	query := squirrel.Insert("opportunities").
		Columns("title", "description", "type", "status", "chapter_id", "industry_id",
			"created_by", "max_participants", "application_deadline").
		Values(o.Title, o.Description, o.Type, o.Status, o.ChapterID, o.IndustryID,
			o.CreatedBy, o.MaxParticipants, o.ApplicationDeadline).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating opportunity: %w", err)
	}
	return id, nil
}

// Update edits a draft opportunity's fields
func (r *OpportunityRepository) Update(ctx context.Context, id int64, req dto.UpdateOpportunityRequest) error {
	query := squirrel.Update("opportunities").
		Set("title", req.Title).
		Set("description", req.Description).
		Set("max_participants", req.MaxParticipants).
		Set("application_deadline", req.ApplicationDeadline).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating opportunity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrOpportunityNotFound
	}
	return nil
}

// UpdateStatus moves an opportunity from one status to another. The current
// status is part of the WHERE clause so two concurrent transitions cannot
// both succeed.
func (r *OpportunityRepository) UpdateStatus(ctx context.Context, id int64, from, to models.OpportunityStatus) error {
	builder := squirrel.Update("opportunities").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		Where("status = ?", from).
		PlaceholderFormat(squirrel.Dollar)

	if to == models.OpportunityClosed {
		builder = builder.Set("closed_at", time.Now())
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating opportunity status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// IncrementApplications bumps the live application counter
func (r *OpportunityRepository) IncrementApplications(ctx context.Context, id int64, delta int) error {
	sql := `UPDATE opportunities
		SET current_applications = current_applications + $2, updated_at = NOW()
		WHERE id = $1 AND current_applications + $2 >= 0`

	tag, err := r.db.Exec(ctx, sql, id, delta)
	if err != nil {
		return fmt.Errorf("error updating application counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrOpportunityNotFound
	}
	return nil
}

// IncrementAccepted bumps the accepted and positions-filled counters
// atomically, refusing to exceed max_participants.
func (r *OpportunityRepository) IncrementAccepted(ctx context.Context, id int64) error {
	sql := `UPDATE opportunities
		SET accepted_count = accepted_count + 1,
			positions_filled = positions_filled + 1,
			updated_at = NOW()
		WHERE id = $1 AND positions_filled < max_participants`

	tag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("error updating accepted counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoPositionsAvailable
	}
	return nil
}

// DecrementAccepted releases a previously claimed position
func (r *OpportunityRepository) DecrementAccepted(ctx context.Context, id int64) error {
	sql := `UPDATE opportunities
		SET accepted_count = accepted_count - 1,
			positions_filled = positions_filled - 1,
			updated_at = NOW()
		WHERE id = $1 AND positions_filled > 0`

	if _, err := r.db.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("error releasing accepted position: %w", err)
	}
	return nil
}

// IncrementViewCount bumps the view counter
func (r *OpportunityRepository) IncrementViewCount(ctx context.Context, id int64) error {
	sql := `UPDATE opportunities SET view_count = view_count + 1 WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("error updating view counter: %w", err)
	}
	return nil
}

// IncrementBookmarkCount adjusts the bookmark counter
func (r *OpportunityRepository) IncrementBookmarkCount(ctx context.Context, id int64, delta int) error {
	sql := `UPDATE opportunities
		SET bookmark_count = bookmark_count + $2
		WHERE id = $1 AND bookmark_count + $2 >= 0`
	if _, err := r.db.Exec(ctx, sql, id, delta); err != nil {
		return fmt.Errorf("error updating bookmark counter: %w", err)
	}
	return nil
}

// CloseExpired closes every accepting opportunity whose deadline has passed
// and returns the IDs that were closed.
func (r *OpportunityRepository) CloseExpired(ctx context.Context, now time.Time) ([]int64, error) {
	sql := `UPDATE opportunities
		SET status = $1, closed_at = $2, updated_at = $2
		WHERE status = $3 AND application_deadline < $2
		RETURNING id`

	rows, err := r.db.Query(ctx, sql, models.OpportunityClosed, now, models.OpportunityAccepting)
	if err != nil {
		return nil, fmt.Errorf("error closing expired opportunities: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
