package dto

import (
	"time"

	"github.com/yiconnect/backend/internal/app/models"
)

// CreateHealthCardEntryRequest represents logging a vertical activity
type CreateHealthCardEntryRequest struct {
	VerticalID   int64     `json:"verticalId" binding:"required,min=1"`
	ActivityDate time.Time `json:"activityDate" binding:"required"`
	ECCount      int       `json:"ecCount" binding:"min=0"`
	NonECCount   int       `json:"nonEcCount" binding:"min=0"`
	Description  string    `json:"description" binding:"required,min=3"`
}

// HealthCardEntryResponse represents a single activity entry
type HealthCardEntryResponse struct {
	ID           int64     `json:"id"`
	ChapterID    int64     `json:"chapterId"`
	VerticalID   int64     `json:"verticalId"`
	ActivityDate time.Time `json:"activityDate"`
	ECCount      int       `json:"ecCount"`
	NonECCount   int       `json:"nonEcCount"`
	Description  string    `json:"description"`
	CreatedBy    int64     `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HealthCardSummaryResponse aggregates activity per vertical for a chapter
type HealthCardSummaryResponse struct {
	ChapterID int64                      `json:"chapterId"`
	Year      int                        `json:"year"`
	Verticals []models.HealthCardSummary `json:"verticals"`
}

// NewHealthCardEntryResponse maps an entry model to its response DTO
func NewHealthCardEntryResponse(e *models.HealthCardEntry) HealthCardEntryResponse {
	return HealthCardEntryResponse{
		ID:           e.ID,
		ChapterID:    e.ChapterID,
		VerticalID:   e.VerticalID,
		ActivityDate: e.ActivityDate,
		ECCount:      e.ECCount,
		NonECCount:   e.NonECCount,
		Description:  e.Description,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
	}
}
