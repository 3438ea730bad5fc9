package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/services"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/middleware"
	"github.com/yiconnect/backend/internal/pkg/helpers"
)

// OpportunityController handles opportunity lifecycle endpoints
type OpportunityController struct {
	opportunityService services.OpportunityService
}

// NewOpportunityController creates a new OpportunityController
func NewOpportunityController(opportunityService services.OpportunityService) *OpportunityController {
	return &OpportunityController{opportunityService: opportunityService}
}

// Create opens a new opportunity draft
func (c *OpportunityController) Create(ctx *gin.Context) {
	var req dto.CreateOpportunityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.opportunityService.Create(ctx, middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Update edits a draft opportunity
func (c *OpportunityController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateOpportunityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.opportunityService.Update(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Get returns a single opportunity
func (c *OpportunityController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.opportunityService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// List returns a paginated opportunity list with optional filters
func (c *OpportunityController) List(ctx *gin.Context) {
	filter := dto.OpportunityListFilter{
		ChapterID: optionalIDQuery(ctx, "chapterId"),
		Search:    ctx.Query("search"),
	}
	if raw := ctx.Query("type"); raw != "" {
		opportunityType := models.OpportunityType(raw)
		filter.Type = &opportunityType
	}
	if raw := ctx.Query("status"); raw != "" {
		status := models.OpportunityStatus(raw)
		filter.Status = &status
	}

	page, size := helpers.ParsePaginationParams(ctx)
	opportunities, total, err := c.opportunityService.List(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PagedResponse{
		Items:      opportunities,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Publish opens a draft for applications
func (c *OpportunityController) Publish(ctx *gin.Context) {
	c.transition(ctx, c.opportunityService.Publish)
}

// Close stops a published opportunity from accepting applications
func (c *OpportunityController) Close(ctx *gin.Context) {
	c.transition(ctx, c.opportunityService.Close)
}

// Bookmark marks an opportunity as bookmarked
func (c *OpportunityController) Bookmark(ctx *gin.Context) {
	c.bookmark(ctx, c.opportunityService.Bookmark, "Opportunity bookmarked")
}

// Unbookmark removes a bookmark
func (c *OpportunityController) Unbookmark(ctx *gin.Context) {
	c.bookmark(ctx, c.opportunityService.Unbookmark, "Bookmark removed")
}

func (c *OpportunityController) bookmark(ctx *gin.Context, action func(ctx context.Context, id int64) error, message string) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := action(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: message}))
}

func (c *OpportunityController) transition(ctx *gin.Context, action func(ctx context.Context, id int64, actor workflow.Actor) (*dto.OpportunityResponse, error)) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := action(ctx, id, middleware.CurrentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}
