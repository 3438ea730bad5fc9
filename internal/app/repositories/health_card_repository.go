package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/dberrors"
)

// HealthCardRepository handles database operations for chapter health card entries
type HealthCardRepository struct {
	db *pgxpool.Pool
}

// NewHealthCardRepository creates a new HealthCardRepository
func NewHealthCardRepository(db *pgxpool.Pool) *HealthCardRepository {
	return &HealthCardRepository{db: db}
}

// Create records a vertical activity entry
func (r *HealthCardRepository) Create(ctx context.Context, e *models.HealthCardEntry) (int64, error) {
	query := squirrel.Insert("health_card_entries").
		Columns("chapter_id", "vertical_id", "activity_date", "ec_count", "non_ec_count",
			"description", "created_by").
		Values(e.ChapterID, e.VerticalID, e.ActivityDate, e.ECCount, e.NonECCount,
			e.Description, e.CreatedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrVerticalNotFound
		}
		return 0, fmt.Errorf("error creating health card entry: %w", err)
	}
	return id, nil
}

// Delete removes an entry, scoped to the chapter it was logged under
func (r *HealthCardRepository) Delete(ctx context.Context, id, chapterID int64) error {
	query := squirrel.Delete("health_card_entries").
		Where("id = ?", id).
		Where("chapter_id = ?", chapterID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting health card entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrHealthCardEntryNotFound
	}
	return nil
}

// GetByChapter retrieves the entries of a chapter for a calendar year
func (r *HealthCardRepository) GetByChapter(ctx context.Context, chapterID int64, year int) ([]models.HealthCardEntry, error) {
	query := squirrel.Select("id", "chapter_id", "vertical_id", "activity_date", "ec_count",
		"non_ec_count", "description", "created_by", "created_at").
		From("health_card_entries").
		Where("chapter_id = ?", chapterID).
		Where("EXTRACT(YEAR FROM activity_date) = ?", year).
		OrderBy("activity_date DESC").
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

	var entries []models.HealthCardEntry
	for rows.Next() {
		var e models.HealthCardEntry
		err := rows.Scan(&e.ID, &e.ChapterID, &e.VerticalID, &e.ActivityDate, &e.ECCount,
			&e.NonECCount, &e.Description, &e.CreatedBy, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// SummaryByChapter aggregates activity per vertical for a chapter and year
func (r *HealthCardRepository) SummaryByChapter(ctx context.Context, chapterID int64, year int) ([]models.HealthCardSummary, error) {
	sql := `SELECT v.id, v.name,
			COUNT(e.id) AS activity_count,
			COALESCE(SUM(e.ec_count), 0) AS total_ec,
			COALESCE(SUM(e.non_ec_count), 0) AS total_non_ec
		FROM verticals v
		LEFT JOIN health_card_entries e
			ON e.vertical_id = v.id AND EXTRACT(YEAR FROM e.activity_date) = $2
		WHERE v.chapter_id = $1
		GROUP BY v.id, v.name
		ORDER BY v.name`

	rows, err := r.db.Query(ctx, sql, chapterID, year)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var summaries []models.HealthCardSummary
	for rows.Next() {
		var s models.HealthCardSummary
		err := rows.Scan(&s.VerticalID, &s.VerticalName, &s.ActivityCount,
			&s.TotalECCount, &s.TotalNonECCount)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}
