package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/cache"
)

// ArticleStore is the article access needed by the service
type ArticleStore interface {
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetAll(ctx context.Context, chapterID *int64, publishedOnly bool, search string, page, pageSize int) ([]models.Article, int64, error)
	Create(ctx context.Context, article *models.Article) (int64, error)
	Update(ctx context.Context, id int64, title, body string, isPublished bool) error
	Delete(ctx context.Context, id int64) error
}

// ArticleService defines knowledge base operations
type ArticleService interface {
	Create(ctx context.Context, chapterID, authorID int64, req dto.CreateArticleRequest) (*dto.ArticleResponse, error)
	Get(ctx context.Context, id int64, elevated bool) (*dto.ArticleResponse, error)
	List(ctx context.Context, chapterID *int64, elevated bool, search string, page, pageSize int) ([]dto.ArticleResponse, int64, error)
	Update(ctx context.Context, id, userID int64, elevated bool, req dto.UpdateArticleRequest) error
	Delete(ctx context.Context, id, userID int64, elevated bool) error
}

// ArticleServiceImpl implements ArticleService
type ArticleServiceImpl struct {
	store  ArticleStore
	cache  CacheInvalidator
	logger zerolog.Logger
}

// NewArticleService creates a new ArticleService
func NewArticleService(store ArticleStore, cacheInvalidator CacheInvalidator, logger zerolog.Logger) ArticleService {
	return &ArticleServiceImpl{
		store:  store,
		cache:  cacheInvalidator,
		logger: logger,
	}
}

// Create creates a new article
func (s *ArticleServiceImpl) Create(ctx context.Context, chapterID, authorID int64, req dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	article := &models.Article{
		ChapterID:   chapterID,
		Title:       req.Title,
		Body:        req.Body,
		IsPublished: req.IsPublished,
		AuthorID:    authorID,
	}

	id, err := s.store.Create(ctx, article)
	if err != nil {
		return nil, err
	}
	article.ID = id

	s.logger.Info().Int64("articleId", id).Int64("chapterId", chapterID).Msg("Article created")
	s.invalidate(ctx)

	resp := dto.NewArticleResponse(article)
	return &resp, nil
}

// Get returns an article. Unpublished drafts are visible only to elevated
// callers.
func (s *ArticleServiceImpl) Get(ctx context.Context, id int64, elevated bool) (*dto.ArticleResponse, error) {
	article, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished && !elevated {
		return nil, apperrors.ErrResourceNotFound
	}

	resp := dto.NewArticleResponse(article)
	return &resp, nil
}

// List returns articles with pagination. Non-elevated callers only see
// published articles.
func (s *ArticleServiceImpl) List(ctx context.Context, chapterID *int64, elevated bool, search string, page, pageSize int) ([]dto.ArticleResponse, int64, error) {
	articles, total, err := s.store.GetAll(ctx, chapterID, !elevated, search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		responses = append(responses, dto.NewArticleResponse(&articles[i]))
	}
	return responses, total, nil
}

// Update edits an article. Authors may edit their own articles; elevated
// callers may edit any.
func (s *ArticleServiceImpl) Update(ctx context.Context, id, userID int64, elevated bool, req dto.UpdateArticleRequest) error {
	article, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if article.AuthorID != userID && !elevated {
		return apperrors.NewForbiddenError("Only the author can edit this article")
	}

	if err := s.store.Update(ctx, id, req.Title, req.Body, req.IsPublished); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes an article under the same rules as Update
func (s *ArticleServiceImpl) Delete(ctx context.Context, id, userID int64, elevated bool) error {
	article, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if article.AuthorID != userID && !elevated {
		return apperrors.NewForbiddenError("Only the author can delete this article")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("articleId", id).Msg("Article deleted")
	s.invalidate(ctx)
	return nil
}

func (s *ArticleServiceImpl) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagArticles)
	}
}
