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
	"github.com/yiconnect/backend/internal/pkg/filestorage"
	"github.com/yiconnect/backend/internal/pkg/helpers"
)

// VisitController handles industry visit request endpoints
type VisitController struct {
	visitService services.VisitService
	fileStorage  filestorage.FileStorage
	fileStore    FileStore
}

// NewVisitController creates a new VisitController
func NewVisitController(visitService services.VisitService, fileStorage filestorage.FileStorage, fileStore FileStore) *VisitController {
	return &VisitController{
		visitService: visitService,
		fileStorage:  fileStorage,
		fileStore:    fileStore,
	}
}

// Create submits a visit request for the caller's chapter
func (c *VisitController) Create(ctx *gin.Context) {
	var req dto.CreateVisitRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	chapterID := middleware.CurrentChapterID(ctx)
	if chapterID == nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Chapter membership required").
			WithDetails("Visit requests can only be raised by chapter members")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	resp, err := c.visitService.Create(ctx, *chapterID, middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Get returns a single visit request
func (c *VisitController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.visitService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// List returns a paginated visit request list
func (c *VisitController) List(ctx *gin.Context) {
	chapterID := optionalIDQuery(ctx, "chapterId")
	var status *models.VisitRequestStatus
	if raw := ctx.Query("status"); raw != "" {
		s := models.VisitRequestStatus(raw)
		status = &s
	}

	page, size := helpers.ParsePaginationParams(ctx)
	visits, total, err := c.visitService.List(ctx, chapterID, status, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PagedResponse{
		Items:      visits,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Approve marks a pending request as approved by Yi
func (c *VisitController) Approve(ctx *gin.Context) {
	c.transition(ctx, c.visitService.Approve)
}

// Forward sends an approved request to the industry partner
func (c *VisitController) Forward(ctx *gin.Context) {
	c.transition(ctx, c.visitService.Forward)
}

// Schedule fixes the visit date for a forwarded request
func (c *VisitController) Schedule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ScheduleVisitRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.visitService.Schedule(ctx, id, middleware.CurrentActor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Complete closes out a scheduled visit
func (c *VisitController) Complete(ctx *gin.Context) {
	c.transition(ctx, c.visitService.Complete)
}

// Cancel cancels a visit request
func (c *VisitController) Cancel(ctx *gin.Context) {
	c.transition(ctx, c.visitService.Cancel)
}

// UploadMou stores the signed MOU document for a visit request
func (c *VisitController) UploadMou(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "MOU file is required").
			WithDetails("Attach the document under the 'file' form field")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	fileURL, err := c.fileStorage.SaveFileWithPath(fileHeader, filestorage.SubPathMous)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileID, err := c.fileStore.Create(ctx, &models.File{
		FileName:     fileHeader.Filename,
		FilePath:     c.fileStorage.GetFullPath(fileURL),
		FileURL:      fileURL,
		FileSize:     fileHeader.Size,
		FileType:     fileHeader.Header.Get("Content-Type"),
		ResourceType: models.FileTypeMou,
		ResourceID:   id,
		UploadedBy:   middleware.CurrentUserID(ctx),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.visitService.AttachMou(ctx, id, fileID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "MOU attached"}))
}

func (c *VisitController) transition(ctx *gin.Context, action func(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error)) {
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
