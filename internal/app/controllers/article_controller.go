package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/services"
	"github.com/yiconnect/backend/internal/middleware"
	"github.com/yiconnect/backend/internal/pkg/helpers"
)

// ArticleController handles knowledge base endpoints
type ArticleController struct {
	articleService services.ArticleService
}

// NewArticleController creates a new ArticleController
func NewArticleController(articleService services.ArticleService) *ArticleController {
	return &ArticleController{articleService: articleService}
}

// Create publishes or drafts a new article
func (c *ArticleController) Create(ctx *gin.Context) {
	var req dto.CreateArticleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	chapterID := middleware.CurrentChapterID(ctx)
	if chapterID == nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Chapter membership required").
			WithDetails("Articles belong to the author's chapter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	resp, err := c.articleService.Create(ctx, *chapterID, middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Get returns a single article. Unpublished articles are only visible to
// elevated roles.
func (c *ArticleController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.articleService.Get(ctx, id, middleware.IsElevated(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// List returns a paginated article list
func (c *ArticleController) List(ctx *gin.Context) {
	chapterID := optionalIDQuery(ctx, "chapterId")
	search := ctx.Query("search")

	page, size := helpers.ParsePaginationParams(ctx)
	articles, total, err := c.articleService.List(ctx, chapterID, middleware.IsElevated(ctx), search, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PagedResponse{
		Items:      articles,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Update edits an article
func (c *ArticleController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateArticleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.articleService.Update(ctx, id, middleware.CurrentUserID(ctx), middleware.IsElevated(ctx), req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Article updated"}))
}

// Delete removes an article
func (c *ArticleController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.articleService.Delete(ctx, id, middleware.CurrentUserID(ctx), middleware.IsElevated(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Article deleted"}))
}
