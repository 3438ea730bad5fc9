package dto

import (
	"time"

	"github.com/yiconnect/backend/internal/app/models"
)

// CreateMaterialRequest represents uploading the first version of a material
type CreateMaterialRequest struct {
	EventID int64  `json:"eventId" binding:"required,min=1"`
	Title   string `json:"title" binding:"required,min=3,max=200"`
}

// ReviewMaterialRequest carries reviewer notes for approve or revision actions
type ReviewMaterialRequest struct {
	ReviewNotes *string `json:"reviewNotes,omitempty"`
}

// MaterialResponse represents material information
type MaterialResponse struct {
	ID               int64                 `json:"id"`
	EventID          int64                 `json:"eventId"`
	Title            string                `json:"title"`
	Version          int                   `json:"version"`
	ParentMaterialID *int64                `json:"parentMaterialId,omitempty"`
	IsCurrentVersion bool                  `json:"isCurrentVersion"`
	Status           models.MaterialStatus `json:"status"`
	FileID           *int64                `json:"fileId,omitempty"`
	UploadedBy       int64                 `json:"uploadedBy"`
	ReviewNotes      *string               `json:"reviewNotes,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// NewMaterialResponse maps a material model to its response DTO
func NewMaterialResponse(m *models.Material) MaterialResponse {
	return MaterialResponse{
		ID:               m.ID,
		EventID:          m.EventID,
		Title:            m.Title,
		Version:          m.Version,
		ParentMaterialID: m.ParentMaterialID,
		IsCurrentVersion: m.IsCurrentVersion,
		Status:           m.Status,
		FileID:           m.FileID,
		UploadedBy:       m.UploadedBy,
		ReviewNotes:      m.ReviewNotes,
		CreatedAt:        m.CreatedAt,
	}
}
