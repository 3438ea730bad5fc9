package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/services"
	"github.com/yiconnect/backend/internal/middleware"
)

// HealthCardController handles chapter health card endpoints
type HealthCardController struct {
	healthCardService services.HealthCardService
}

// NewHealthCardController creates a new HealthCardController
func NewHealthCardController(healthCardService services.HealthCardService) *HealthCardController {
	return &HealthCardController{healthCardService: healthCardService}
}

// CreateEntry logs a vertical activity on a chapter's health card
func (c *HealthCardController) CreateEntry(ctx *gin.Context) {
	chapterID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateHealthCardEntryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.healthCardService.CreateEntry(ctx, chapterID, middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// DeleteEntry removes an activity entry from a chapter's health card
func (c *HealthCardController) DeleteEntry(ctx *gin.Context) {
	chapterID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	entryID, ok := parseIDParam(ctx, "entryId")
	if !ok {
		return
	}

	if err := c.healthCardService.DeleteEntry(ctx, chapterID, entryID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Entry deleted"}))
}

// ListEntries returns a chapter's activity entries for a year
func (c *HealthCardController) ListEntries(ctx *gin.Context) {
	chapterID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	entries, err := c.healthCardService.ListEntries(ctx, chapterID, parseYearQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries))
}

// Summary returns per-vertical activity totals for a chapter and year
func (c *HealthCardController) Summary(ctx *gin.Context) {
	chapterID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.healthCardService.Summary(ctx, chapterID, parseYearQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}
