package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/services"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/middleware"
	"github.com/yiconnect/backend/internal/pkg/filestorage"
)

// MaterialController handles training material endpoints. Uploads arrive as
// multipart form data so the document travels with its metadata.
type MaterialController struct {
	materialService services.MaterialService
	fileStorage     filestorage.FileStorage
	fileStore       FileStore
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(materialService services.MaterialService, fileStorage filestorage.FileStorage, fileStore FileStore) *MaterialController {
	return &MaterialController{
		materialService: materialService,
		fileStorage:     fileStorage,
		fileStore:       fileStore,
	}
}

// Create uploads the first version of a material
func (c *MaterialController) Create(ctx *gin.Context) {
	eventID, err := strconv.ParseInt(ctx.PostForm("eventId"), 10, 64)
	if err != nil || eventID < 1 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails("eventId must be a positive integer")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	title := ctx.PostForm("title")
	if len(title) < 3 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails("title must be at least 3 characters")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	fileID, ok := c.saveAttachment(ctx)
	if !ok {
		return
	}

	req := dto.CreateMaterialRequest{EventID: eventID, Title: title}
	resp, err := c.materialService.Create(ctx, middleware.CurrentUserID(ctx), req, fileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Get returns a single material
func (c *MaterialController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.materialService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// ListByEvent returns every material version uploaded for an event
func (c *MaterialController) ListByEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	materials, err := c.materialService.ListByEvent(ctx, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(materials))
}

// CreateVersion uploads a new version superseding the current one
func (c *MaterialController) CreateVersion(ctx *gin.Context) {
	parentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileID, ok := c.saveAttachment(ctx)
	if !ok {
		return
	}

	title := ctx.PostForm("title")
	resp, err := c.materialService.CreateVersion(ctx, parentID, middleware.CurrentActor(ctx), title, fileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// SubmitForReview moves a draft into the review queue
func (c *MaterialController) SubmitForReview(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.materialService.SubmitForReview(ctx, id, middleware.CurrentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Approve approves a material pending review
func (c *MaterialController) Approve(ctx *gin.Context) {
	c.review(ctx, c.materialService.Approve)
}

// RequestRevision sends a material back to its author for changes
func (c *MaterialController) RequestRevision(ctx *gin.Context) {
	c.review(ctx, c.materialService.RequestRevision)
}

func (c *MaterialController) review(ctx *gin.Context, action func(ctx context.Context, id int64, actor workflow.Actor, reviewNotes *string) (*dto.MaterialResponse, error)) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewMaterialRequest
	if ctx.Request.ContentLength > 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := action(ctx, id, middleware.CurrentActor(ctx), req.ReviewNotes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// saveAttachment stores the optional uploaded document and returns its file
// record ID, or nil when no file was attached.
func (c *MaterialController) saveAttachment(ctx *gin.Context) (*int64, bool) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, true
	}
	return c.persistFile(ctx, fileHeader)
}

func (c *MaterialController) persistFile(ctx *gin.Context, fileHeader *multipart.FileHeader) (*int64, bool) {
	fileURL, err := c.fileStorage.SaveFileWithPath(fileHeader, filestorage.SubPathMaterials)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}

	fileID, err := c.fileStore.Create(ctx, &models.File{
		FileName:     fileHeader.Filename,
		FilePath:     c.fileStorage.GetFullPath(fileURL),
		FileURL:      fileURL,
		FileSize:     fileHeader.Size,
		FileType:     fileHeader.Header.Get("Content-Type"),
		ResourceType: models.FileTypeMaterial,
		UploadedBy:   middleware.CurrentUserID(ctx),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return &fileID, true
}
