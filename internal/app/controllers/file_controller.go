package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/middleware"
)

// FileStore persists uploaded file metadata
type FileStore interface {
	GetByID(ctx context.Context, id int64) (*models.File, error)
	Create(ctx context.Context, file *models.File) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// FileController serves uploaded file metadata
type FileController struct {
	fileStore FileStore
}

// NewFileController creates a new FileController
func NewFileController(fileStore FileStore) *FileController {
	return &FileController{fileStore: fileStore}
}

// Get returns metadata for an uploaded file
func (c *FileController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	file, err := c.fileStore.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(file))
}
