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

var visitRequestColumns = []string{
	"id", "chapter_id", "industry_id", "requested_by", "purpose", "preferred_date",
	"group_size", "status", "mou_file_id", "scheduled_for", "created_at", "updated_at",
}

// VisitRequestRepository handles database operations for industry visit requests
type VisitRequestRepository struct {
	db *pgxpool.Pool
}

// NewVisitRequestRepository creates a new VisitRequestRepository
func NewVisitRequestRepository(db *pgxpool.Pool) *VisitRequestRepository {
	return &VisitRequestRepository{db: db}
}

func scanVisitRequest(row pgx.Row, extra ...interface{}) (*models.VisitRequest, error) {
	var v models.VisitRequest
	dest := []interface{}{
		&v.ID, &v.ChapterID, &v.IndustryID, &v.RequestedBy, &v.Purpose, &v.PreferredDate,
		&v.GroupSize, &v.Status, &v.MouFileID, &v.ScheduledFor, &v.CreatedAt, &v.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVisitRequestNotFound
		}
		return nil, fmt.Errorf("error scanning visit request: %w", err)
	}
	return &v, nil
}

// GetByID retrieves a visit request by ID
func (r *VisitRequestRepository) GetByID(ctx context.Context, id int64) (*models.VisitRequest, error) {
	query := squirrel.Select(visitRequestColumns...).
		From("visit_requests").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanVisitRequest(r.db.QueryRow(ctx, sql, args...))
}

// GetAll retrieves visit requests with filtering and pagination
func (r *VisitRequestRepository) GetAll(ctx context.Context, chapterID *int64, status *models.VisitRequestStatus, page, pageSize int) ([]models.VisitRequest, int64, error) {
	query := squirrel.Select(append(visitRequestColumns, "COUNT(*) OVER()")...).
		From("visit_requests").
		PlaceholderFormat(squirrel.Dollar)

	if chapterID != nil {
		query = query.Where("chapter_id = ?", *chapterID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
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

	var requests []models.VisitRequest
	var total int64
	for rows.Next() {
		v, err := scanVisitRequest(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *v)
	}

	return requests, total, nil
}

// Create creates a new visit request
func (r *VisitRequestRepository) Create(ctx context.Context, v *models.VisitRequest) (int64, error) {
	query := squirrel.Insert("visit_requests").
		Columns("chapter_id", "industry_id", "requested_by", "purpose", "preferred_date",
			"group_size", "status").
		Values(v.ChapterID, v.IndustryID, v.RequestedBy, v.Purpose, v.PreferredDate,
			v.GroupSize, v.Status).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrResourceNotFound
		}
		return 0, fmt.Errorf("error creating visit request: %w", err)
	}
	return id, nil
}

// UpdateStatus moves a visit request from one status to another. The current
// status is part of the WHERE clause to keep the chain strictly ordered under
// concurrency.
func (r *VisitRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to models.VisitRequestStatus, scheduledFor *time.Time) error {
	builder := squirrel.Update("visit_requests").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		Where("status = ?", from).
		PlaceholderFormat(squirrel.Dollar)

	if scheduledFor != nil {
		builder = builder.Set("scheduled_for", *scheduledFor)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating visit request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// AttachMouFile records the signed MoU file for a visit request
func (r *VisitRequestRepository) AttachMouFile(ctx context.Context, id, fileID int64) error {
	sql := `UPDATE visit_requests SET mou_file_id = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, id, fileID)
	if err != nil {
		return fmt.Errorf("error attaching MoU file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVisitRequestNotFound
	}
	return nil
}
