package dto

import (
	"time"

	"github.com/yiconnect/backend/internal/app/models"
)

// SubmitApplicationRequest represents a member applying to an opportunity
type SubmitApplicationRequest struct {
	OpportunityID int64   `json:"opportunityId" binding:"required,min=1"`
	CoverNote     *string `json:"coverNote,omitempty"`
}

// ReviewApplicationRequest carries reviewer notes for a status action
type ReviewApplicationRequest struct {
	ReviewNotes *string `json:"reviewNotes,omitempty"`
}

// ApplicationListFilter carries query filters for application lists
type ApplicationListFilter struct {
	OpportunityID *int64
	MemberID      *int64
	Status        *models.ApplicationStatus
}

// ApplicationResponse represents application information
type ApplicationResponse struct {
	ID              int64                    `json:"id"`
	OpportunityID   int64                    `json:"opportunityId"`
	MemberID        int64                    `json:"memberId"`
	Status          models.ApplicationStatus `json:"status"`
	ProfileSnapshot string                   `json:"profileSnapshot"`
	CoverNote       *string                  `json:"coverNote,omitempty"`
	MatchScore      *float64                 `json:"matchScore,omitempty"`
	ReviewNotes     *string                  `json:"reviewNotes,omitempty"`
	ReviewedBy      *int64                   `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time               `json:"reviewedAt,omitempty"`
	SubmittedAt     time.Time                `json:"submittedAt"`
}

// NewApplicationResponse maps an application model to its response DTO
func NewApplicationResponse(a *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		OpportunityID:   a.OpportunityID,
		MemberID:        a.MemberID,
		Status:          a.Status,
		ProfileSnapshot: a.ProfileSnapshot,
		CoverNote:       a.CoverNote,
		MatchScore:      a.MatchScore,
		ReviewNotes:     a.ReviewNotes,
		ReviewedBy:      a.ReviewedBy,
		ReviewedAt:      a.ReviewedAt,
		SubmittedAt:     a.SubmittedAt,
	}
}
