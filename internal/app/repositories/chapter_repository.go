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

// ChapterRepository handles database operations for chapters and their verticals
type ChapterRepository struct {
	db *pgxpool.Pool
}

// NewChapterRepository creates a new ChapterRepository
func NewChapterRepository(db *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// GetAll retrieves all chapters
func (r *ChapterRepository) GetAll(ctx context.Context) ([]models.Chapter, error) {
	query := squirrel.Select("id", "name", "city", "is_national", "created_at", "updated_at").
		From("chapters").
		OrderBy("name").
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

	var chapters []models.Chapter
	for rows.Next() {
		var chapter models.Chapter
		err := rows.Scan(&chapter.ID, &chapter.Name, &chapter.City, &chapter.IsNational,
			&chapter.CreatedAt, &chapter.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		chapters = append(chapters, chapter)
	}

	return chapters, nil
}

// GetByID retrieves a chapter by ID
func (r *ChapterRepository) GetByID(ctx context.Context, id int64) (*models.Chapter, error) {
	query := squirrel.Select("id", "name", "city", "is_national", "created_at", "updated_at").
		From("chapters").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var chapter models.Chapter
	err = r.db.QueryRow(ctx, sql, args...).Scan(&chapter.ID, &chapter.Name, &chapter.City,
		&chapter.IsNational, &chapter.CreatedAt, &chapter.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChapterNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &chapter, nil
}

// Create creates a new chapter
func (r *ChapterRepository) Create(ctx context.Context, chapter *models.Chapter) (int64, error) {
	query := squirrel.Insert("chapters").
		Columns("name", "city", "is_national").
		Values(chapter.Name, chapter.City, chapter.IsNational).
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
		return 0, fmt.Errorf("error creating chapter: %w", err)
	}
	return id, nil
}

// Update updates a chapter's name and city
func (r *ChapterRepository) Update(ctx context.Context, id int64, name, city string) error {
	query := squirrel.Update("chapters").
		Set("name", name).
		Set("city", city).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating chapter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrChapterNotFound
	}
	return nil
}

// GetVerticals retrieves the verticals of a chapter
func (r *ChapterRepository) GetVerticals(ctx context.Context, chapterID int64) ([]models.Vertical, error) {
	query := squirrel.Select("id", "chapter_id", "name", "created_at").
		From("verticals").
		Where("chapter_id = ?", chapterID).
		OrderBy("name").
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

	var verticals []models.Vertical
	for rows.Next() {
		var vertical models.Vertical
		err := rows.Scan(&vertical.ID, &vertical.ChapterID, &vertical.Name, &vertical.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		verticals = append(verticals, vertical)
	}

	return verticals, nil
}

// GetVerticalByID retrieves a single vertical
func (r *ChapterRepository) GetVerticalByID(ctx context.Context, id int64) (*models.Vertical, error) {
	query := squirrel.Select("id", "chapter_id", "name", "created_at").
		From("verticals").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var vertical models.Vertical
	err = r.db.QueryRow(ctx, sql, args...).Scan(&vertical.ID, &vertical.ChapterID, &vertical.Name, &vertical.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVerticalNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &vertical, nil
}

// CreateVertical adds a vertical to a chapter
func (r *ChapterRepository) CreateVertical(ctx context.Context, vertical *models.Vertical) (int64, error) {
	query := squirrel.Insert("verticals").
		Columns("chapter_id", "name").
		Values(vertical.ChapterID, vertical.Name).
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
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrConflict
		}
		return 0, fmt.Errorf("error creating vertical: %w", err)
	}
	return id, nil
}
