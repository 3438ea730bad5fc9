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

// EventRepository handles database operations for chapter events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := squirrel.Select("id", "chapter_id", "title", "description", "starts_at", "ends_at",
		"created_by", "created_at", "updated_at").
		From("events").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var event models.Event
	err = r.db.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.ChapterID, &event.Title,
		&event.Description, &event.StartsAt, &event.EndsAt, &event.CreatedBy,
		&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &event, nil
}

// GetByChapter retrieves the events of a chapter ordered by start time
func (r *EventRepository) GetByChapter(ctx context.Context, chapterID int64) ([]models.Event, error) {
	query := squirrel.Select("id", "chapter_id", "title", "description", "starts_at", "ends_at",
		"created_by", "created_at", "updated_at").
		From("events").
		Where("chapter_id = ?", chapterID).
		OrderBy("starts_at DESC").
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

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(&event.ID, &event.ChapterID, &event.Title, &event.Description,
			&event.StartsAt, &event.EndsAt, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	query := squirrel.Insert("events").
		Columns("chapter_id", "title", "description", "starts_at", "ends_at", "created_by").
		Values(event.ChapterID, event.Title, event.Description, event.StartsAt, event.EndsAt, event.CreatedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrChapterNotFound
		}
		return 0, fmt.Errorf("error creating event: %w", err)
	}
	return id, nil
}
