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

var materialColumns = []string{
	"id", "event_id", "title", "version", "parent_material_id", "is_current_version",
	"status", "file_id", "uploaded_by", "review_notes", "created_at", "updated_at",
}

// MaterialRepository handles database operations for training materials
type MaterialRepository struct {
	db *pgxpool.Pool
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(db *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func scanMaterial(row pgx.Row, extra ...interface{}) (*models.Material, error) {
	var m models.Material
	dest := []interface{}{
		&m.ID, &m.EventID, &m.Title, &m.Version, &m.ParentMaterialID, &m.IsCurrentVersion,
		&m.Status, &m.FileID, &m.UploadedBy, &m.ReviewNotes, &m.CreatedAt, &m.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("error scanning material: %w", err)
	}
	return &m, nil
}

// GetByID retrieves a material by ID
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	query := squirrel.Select(materialColumns...).
		From("materials").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanMaterial(r.db.QueryRow(ctx, sql, args...))
}

// GetByEvent retrieves all material versions for an event, newest first
func (r *MaterialRepository) GetByEvent(ctx context.Context, eventID int64) ([]models.Material, error) {
	query := squirrel.Select(materialColumns...).
		From("materials").
		Where("event_id = ?", eventID).
		OrderBy("version DESC").
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

	var materials []models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}

	return materials, nil
}

// Create creates the first version of a material
func (r *MaterialRepository) Create(ctx context.Context, m *models.Material) (int64, error) {
	query := squirrel.Insert("materials").
		Columns("event_id", "title", "version", "is_current_version", "status", "file_id", "uploaded_by").
		Values(m.EventID, m.Title, m.Version, m.IsCurrentVersion, m.Status, m.FileID, m.UploadedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating material: %w", err)
	}
	return id, nil
}

// CreateVersion supersedes the parent material and inserts the new version
// within a single transaction, so at most one current version exists per
// material chain at any point.
func (r *MaterialRepository) CreateVersion(ctx context.Context, tx pgx.Tx, parent *models.Material, next *models.Material) (int64, error) {
	supersede := `UPDATE materials
		SET status = $2, is_current_version = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_current_version = TRUE`

	tag, err := tx.Exec(ctx, supersede, parent.ID, models.MaterialSuperseded)
	if err != nil {
		return 0, fmt.Errorf("error superseding material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, apperrors.ErrInvalidTransition
	}

	insert := `INSERT INTO materials
		(event_id, title, version, parent_material_id, is_current_version, status, file_id, uploaded_by)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7)
		RETURNING id`

	var id int64
	err = tx.QueryRow(ctx, insert, next.EventID, next.Title, next.Version, parent.ID,
		next.Status, next.FileID, next.UploadedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error inserting material version: %w", err)
	}
	return id, nil
}

// UpdateStatus moves a material from one status to another
func (r *MaterialRepository) UpdateStatus(ctx context.Context, id int64, from, to models.MaterialStatus, reviewNotes *string) error {
	builder := squirrel.Update("materials").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		Where("status = ?", from).
		PlaceholderFormat(squirrel.Dollar)

	if reviewNotes != nil {
		builder = builder.Set("review_notes", *reviewNotes)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating material status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}
