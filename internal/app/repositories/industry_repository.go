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

// IndustryRepository handles database operations for industry partners
type IndustryRepository struct {
	db *pgxpool.Pool
}

// NewIndustryRepository creates a new IndustryRepository
func NewIndustryRepository(db *pgxpool.Pool) *IndustryRepository {
	return &IndustryRepository{db: db}
}

// GetAll retrieves all industry partners
func (r *IndustryRepository) GetAll(ctx context.Context) ([]models.Industry, error) {
	query := squirrel.Select("id", "name", "contact_email", "city", "created_at").
		From("industries").
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

	var industries []models.Industry
	for rows.Next() {
		var industry models.Industry
		err := rows.Scan(&industry.ID, &industry.Name, &industry.ContactEmail, &industry.City, &industry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		industries = append(industries, industry)
	}

	return industries, nil
}

// GetByID retrieves an industry partner by ID
func (r *IndustryRepository) GetByID(ctx context.Context, id int64) (*models.Industry, error) {
	query := squirrel.Select("id", "name", "contact_email", "city", "created_at").
		From("industries").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var industry models.Industry
	err = r.db.QueryRow(ctx, sql, args...).Scan(&industry.ID, &industry.Name, &industry.ContactEmail,
		&industry.City, &industry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &industry, nil
}

// Create registers a new industry partner
func (r *IndustryRepository) Create(ctx context.Context, industry *models.Industry) (int64, error) {
	query := squirrel.Insert("industries").
		Columns("name", "contact_email", "city").
		Values(industry.Name, industry.ContactEmail, industry.City).
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
		return 0, fmt.Errorf("error creating industry: %w", err)
	}
	return id, nil
}
