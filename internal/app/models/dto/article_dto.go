package dto

import (
	"time"

	"github.com/yiconnect/backend/internal/app/models"
)

// CreateArticleRequest represents a request to create a knowledge base article
type CreateArticleRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Body        string `json:"body" binding:"required"`
	IsPublished bool   `json:"isPublished"`
}

// UpdateArticleRequest represents a request to update an article
type UpdateArticleRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Body        string `json:"body" binding:"required"`
	IsPublished bool   `json:"isPublished"`
}

// ArticleResponse represents article information
type ArticleResponse struct {
	ID          int64     `json:"id"`
	ChapterID   int64     `json:"chapterId"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	IsPublished bool      `json:"isPublished"`
	AuthorID    int64     `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewArticleResponse maps an article model to its response DTO
func NewArticleResponse(a *models.Article) ArticleResponse {
	return ArticleResponse{
		ID:          a.ID,
		ChapterID:   a.ChapterID,
		Title:       a.Title,
		Body:        a.Body,
		IsPublished: a.IsPublished,
		AuthorID:    a.AuthorID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
