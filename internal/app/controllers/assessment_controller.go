package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/services"
	"github.com/yiconnect/backend/internal/middleware"
)

// AssessmentController handles skill-will assessment endpoints
type AssessmentController struct {
	assessmentService services.AssessmentService
}

// NewAssessmentController creates a new AssessmentController
func NewAssessmentController(assessmentService services.AssessmentService) *AssessmentController {
	return &AssessmentController{assessmentService: assessmentService}
}

// Start opens a new assessment for the authenticated member
func (c *AssessmentController) Start(ctx *gin.Context) {
	chapterID := middleware.CurrentChapterID(ctx)
	if chapterID == nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Chapter membership required").
			WithDetails("Assessments are scoped to a chapter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	resp, err := c.assessmentService.Start(ctx, middleware.CurrentUserID(ctx), *chapterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Get returns a single assessment
func (c *AssessmentController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.assessmentService.Get(ctx, id)
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

// GetActive returns the caller's in-flight assessment
func (c *AssessmentController) GetActive(ctx *gin.Context) {
	resp, err := c.assessmentService.GetActive(ctx, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// History returns the caller's completed assessments
func (c *AssessmentController) History(ctx *gin.Context) {
	assessments, err := c.assessmentService.History(ctx, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(assessments))
}

// SubmitAnswer records the answer to one question
func (c *AssessmentController) SubmitAnswer(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitAnswerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.assessmentService.SubmitAnswer(ctx, id, middleware.CurrentUserID(ctx), req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Answer recorded"}))
}

// Complete scores the assessment and closes it
func (c *AssessmentController) Complete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.assessmentService.Complete(ctx, id, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}
