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

// ArticleRepository handles database operations for knowledge base articles
type ArticleRepository struct {
	db *pgxpool.Pool
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// GetByID retrieves an article by ID
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := squirrel.Select("id", "chapter_id", "title", "body", "is_published", "author_id",
		"created_at", "updated_at").
		From("articles").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var article models.Article
	err = r.db.QueryRow(ctx, sql, args...).Scan(&article.ID, &article.ChapterID, &article.Title,
		&article.Body, &article.IsPublished, &article.AuthorID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &article, nil
}

// GetAll retrieves articles with pagination. When publishedOnly is set,
// drafts are excluded.
func (r *ArticleRepository) GetAll(ctx context.Context, chapterID *int64, publishedOnly bool, search string, page, pageSize int) ([]models.Article, int64, error) {
	query := squirrel.Select("id", "chapter_id", "title", "body", "is_published", "author_id",
		"created_at", "updated_at", "COUNT(*) OVER()").
		From("articles").
		PlaceholderFormat(squirrel.Dollar)

	if chapterID != nil {
		query = query.Where("chapter_id = ?", *chapterID)
	}
	if publishedOnly {
		query = query.Where("is_published = TRUE")
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("(title ILIKE ? OR body ILIKE ?)", pattern, pattern)
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

	var articles []models.Article
	var total int64
	for rows.Next() {
		var article models.Article
		err := rows.Scan(&article.ID, &article.ChapterID, &article.Title, &article.Body,
			&article.IsPublished, &article.AuthorID, &article.CreatedAt, &article.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		articles = append(articles, article)
	}

	return articles, total, nil
}

// Create creates a new article
func (r *ArticleRepository) Create(ctx context.Context, article *models.Article) (int64, error) {
	query := squirrel.Insert("articles").
		Columns("chapter_id", "title", "body", "is_published", "author_id").
		Values(article.ChapterID, article.Title, article.Body, article.IsPublished, article.AuthorID).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating article: %w", err)
	}
	return id, nil
}

// Update updates an article's content
func (r *ArticleRepository) Update(ctx context.Context, id int64, title, body string, isPublished bool) error {
	query := squirrel.Update("articles").
		Set("title", title).
		Set("body", body).
		Set("is_published", isPublished).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes an article
func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("articles").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
