package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/services"
	"github.com/yiconnect/backend/internal/middleware"
)

// ChapterController handles chapter, vertical, industry and event endpoints
type ChapterController struct {
	chapterService services.ChapterService
}

// NewChapterController creates a new ChapterController
func NewChapterController(chapterService services.ChapterService) *ChapterController {
	return &ChapterController{chapterService: chapterService}
}

// ListChapters returns every chapter
func (c *ChapterController) ListChapters(ctx *gin.Context) {
	chapters, err := c.chapterService.ListChapters(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(chapters))
}

// GetChapter returns a single chapter
func (c *ChapterController) GetChapter(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	chapter, err := c.chapterService.GetChapter(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(chapter))
}

// CreateChapter registers a new chapter
func (c *ChapterController) CreateChapter(ctx *gin.Context) {
	var req dto.CreateChapterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	chapter, err := c.chapterService.CreateChapter(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(chapter))
}

// UpdateChapter updates chapter details
func (c *ChapterController) UpdateChapter(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateChapterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.chapterService.UpdateChapter(ctx, id, req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Chapter updated"}))
}

// ListVerticals returns a chapter's verticals
func (c *ChapterController) ListVerticals(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	verticals, err := c.chapterService.ListVerticals(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(verticals))
}

// CreateVertical adds a vertical to a chapter
func (c *ChapterController) CreateVertical(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateVerticalRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	vertical, err := c.chapterService.CreateVertical(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(vertical))
}

// ListIndustries returns every registered industry partner
func (c *ChapterController) ListIndustries(ctx *gin.Context) {
	industries, err := c.chapterService.ListIndustries(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(industries))
}

// CreateIndustry registers an industry partner
func (c *ChapterController) CreateIndustry(ctx *gin.Context) {
	var req dto.CreateIndustryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	industry, err := c.chapterService.CreateIndustry(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(industry))
}

// ListEvents returns a chapter's events
func (c *ChapterController) ListEvents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	events, err := c.chapterService.ListEvents(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(events))
}

// CreateEvent schedules a chapter event
func (c *ChapterController) CreateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.chapterService.CreateEvent(ctx, id, middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(event))
}
