package dto

import (
	"time"

	"github.com/yiconnect/backend/internal/app/models"
)

// CreateVisitRequestRequest represents a chapter requesting an industry visit
type CreateVisitRequestRequest struct {
	IndustryID    int64     `json:"industryId" binding:"required,min=1"`
	Purpose       string    `json:"purpose" binding:"required,min=10"`
	PreferredDate time.Time `json:"preferredDate" binding:"required"`
	GroupSize     int       `json:"groupSize" binding:"required,min=1,max=200"`
}

// ScheduleVisitRequest carries the confirmed date for a forwarded visit
type ScheduleVisitRequest struct {
	ScheduledFor time.Time `json:"scheduledFor" binding:"required"`
}

// VisitRequestResponse represents visit request information
type VisitRequestResponse struct {
	ID            int64                     `json:"id"`
	ChapterID     int64                     `json:"chapterId"`
	IndustryID    int64                     `json:"industryId"`
	RequestedBy   int64                     `json:"requestedBy"`
	Purpose       string                    `json:"purpose"`
	PreferredDate time.Time                 `json:"preferredDate"`
	GroupSize     int                       `json:"groupSize"`
	Status        models.VisitRequestStatus `json:"status"`
	MouFileID     *int64                    `json:"mouFileId,omitempty"`
	ScheduledFor  *time.Time                `json:"scheduledFor,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

// NewVisitRequestResponse maps a visit request model to its response DTO
func NewVisitRequestResponse(v *models.VisitRequest) VisitRequestResponse {
	return VisitRequestResponse{
		ID:            v.ID,
		ChapterID:     v.ChapterID,
		IndustryID:    v.IndustryID,
		RequestedBy:   v.RequestedBy,
		Purpose:       v.Purpose,
		PreferredDate: v.PreferredDate,
		GroupSize:     v.GroupSize,
		Status:        v.Status,
		MouFileID:     v.MouFileID,
		ScheduledFor:  v.ScheduledFor,
		CreatedAt:     v.CreatedAt,
	}
}
