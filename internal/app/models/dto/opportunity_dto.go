package dto

import (
	"time"

	"github.com/yiconnect/backend/internal/app/models"
)

// CreateOpportunityRequest represents a request to create an opportunity draft
type CreateOpportunityRequest struct {
	Title               string                 `json:"title" binding:"required,min=3,max=200"`
	Description         string                 `json:"description" binding:"required"`
	Type                models.OpportunityType `json:"type" binding:"required"`
	ChapterID           int64                  `json:"chapterId" binding:"required,min=1"`
	IndustryID          *int64                 `json:"industryId,omitempty"`
	MaxParticipants     int                    `json:"maxParticipants" binding:"required,min=1"`
	ApplicationDeadline time.Time              `json:"applicationDeadline" binding:"required"`
}

// UpdateOpportunityRequest represents a request to edit a draft opportunity
type UpdateOpportunityRequest struct {
	Title               string    `json:"title" binding:"required,min=3,max=200"`
	Description         string    `json:"description" binding:"required"`
	MaxParticipants     int       `json:"maxParticipants" binding:"required,min=1"`
	ApplicationDeadline time.Time `json:"applicationDeadline" binding:"required"`
}

// OpportunityListFilter carries query filters for opportunity lists
type OpportunityListFilter struct {
	ChapterID *int64
	Type      *models.OpportunityType
	Status    *models.OpportunityStatus
	Search    string
}

// OpportunityResponse represents opportunity information with its counters
type OpportunityResponse struct {
	ID                  int64                    `json:"id"`
	Title               string                   `json:"title"`
	Description         string                   `json:"description"`
	Type                models.OpportunityType   `json:"type"`
	Status              models.OpportunityStatus `json:"status"`
	ChapterID           int64                    `json:"chapterId"`
	IndustryID          *int64                   `json:"industryId,omitempty"`
	MaxParticipants     int                      `json:"maxParticipants"`
	ApplicationDeadline time.Time                `json:"applicationDeadline"`
	CurrentApplications int                      `json:"currentApplications"`
	AcceptedCount       int                      `json:"acceptedCount"`
	PositionsFilled     int                      `json:"positionsFilled"`
	ViewCount           int                      `json:"viewCount"`
	BookmarkCount       int                      `json:"bookmarkCount"`
	ClosedAt            *time.Time               `json:"closedAt,omitempty"`
	CreatedAt           time.Time                `json:"createdAt"`
}

// NewOpportunityResponse maps an opportunity model to its response DTO
func NewOpportunityResponse(o *models.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:                  o.ID,
		Title:               o.Title,
		Description:         o.Description,
		Type:                o.Type,
		Status:              o.Status,
		ChapterID:           o.ChapterID,
		IndustryID:          o.IndustryID,
		MaxParticipants:     o.MaxParticipants,
		ApplicationDeadline: o.ApplicationDeadline,
		CurrentApplications: o.CurrentApplications,
		AcceptedCount:       o.AcceptedCount,
		PositionsFilled:     o.PositionsFilled,
		ViewCount:           o.ViewCount,
		BookmarkCount:       o.BookmarkCount,
		ClosedAt:            o.ClosedAt,
		CreatedAt:           o.CreatedAt,
	}
}
