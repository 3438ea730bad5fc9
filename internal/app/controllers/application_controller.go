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

// ApplicationController handles application lifecycle endpoints
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{applicationService: applicationService}
}

// Submit applies the authenticated member to an opportunity
func (c *ApplicationController) Submit(ctx *gin.Context) {
	var req dto.SubmitApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.applicationService.Submit(ctx, middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Get returns a single application
func (c *ApplicationController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.applicationService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if resp.MemberID != middleware.CurrentUserID(ctx) && !middleware.IsElevated(ctx) {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Access denied")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(detail))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// List returns a paginated application list. Members only see their own
// applications; elevated roles may filter freely.
func (c *ApplicationController) List(ctx *gin.Context) {
	filter := dto.ApplicationListFilter{
		OpportunityID: optionalIDQuery(ctx, "opportunityId"),
		MemberID:      optionalIDQuery(ctx, "memberId"),
	}
	if raw := ctx.Query("status"); raw != "" {
		status := models.ApplicationStatus(raw)
		filter.Status = &status
	}
	if !middleware.IsElevated(ctx) {
		memberID := middleware.CurrentUserID(ctx)
		filter.MemberID = &memberID
	}

	page, size := helpers.ParsePaginationParams(ctx)
	applications, total, err := c.applicationService.List(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PagedResponse{
		Items:      applications,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Review marks an application as under review
func (c *ApplicationController) Review(ctx *gin.Context) {
	c.reviewAction(ctx, c.applicationService.Review)
}

// Shortlist moves a reviewed application onto the shortlist
func (c *ApplicationController) Shortlist(ctx *gin.Context) {
	c.reviewAction(ctx, c.applicationService.Shortlist)
}

// Accept accepts an application and claims a position
func (c *ApplicationController) Accept(ctx *gin.Context) {
	c.reviewAction(ctx, c.applicationService.Accept)
}

// Decline declines an application
func (c *ApplicationController) Decline(ctx *gin.Context) {
	c.reviewAction(ctx, c.applicationService.Decline)
}

// Withdraw lets the applicant pull their own application
func (c *ApplicationController) Withdraw(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.applicationService.Withdraw(ctx, id, middleware.CurrentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

func (c *ApplicationController) reviewAction(ctx *gin.Context, action func(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error)) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewApplicationRequest
	if ctx.Request.ContentLength > 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := action(ctx, id, middleware.CurrentActor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}
