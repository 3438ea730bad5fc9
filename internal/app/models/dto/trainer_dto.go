package dto

import (
	"time"

	"github.com/yiconnect/backend/internal/app/models"
)

// SelectTrainerRequest represents a coordinator selecting a trainer for an event
type SelectTrainerRequest struct {
	EventID   int64 `json:"eventId" binding:"required,min=1"`
	TrainerID int64 `json:"trainerId" binding:"required,min=1"`
}

// RespondToInvitationRequest carries the trainer's answer to an invitation
type RespondToInvitationRequest struct {
	Token  string `json:"token" binding:"required"`
	Accept bool   `json:"accept"`
}

// RateAssignmentRequest records a rating for a completed assignment
type RateAssignmentRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// TrainerAssignmentResponse represents trainer assignment information
type TrainerAssignmentResponse struct {
	ID                int64                   `json:"id"`
	EventID           int64                   `json:"eventId"`
	TrainerID         int64                   `json:"trainerId"`
	Status            models.AssignmentStatus `json:"status"`
	MatchScore        *float64                `json:"matchScore,omitempty"`
	ScoreBreakdown    *string                 `json:"scoreBreakdown,omitempty"`
	TrainerRating     *int                    `json:"trainerRating,omitempty"`
	CoordinatorRating *int                    `json:"coordinatorRating,omitempty"`
	AssignedBy        int64                   `json:"assignedBy"`
	CreatedAt         time.Time               `json:"createdAt"`
}

// NewTrainerAssignmentResponse maps an assignment model to its response DTO
func NewTrainerAssignmentResponse(a *models.TrainerAssignment) TrainerAssignmentResponse {
	return TrainerAssignmentResponse{
		ID:                a.ID,
		EventID:           a.EventID,
		TrainerID:         a.TrainerID,
		Status:            a.Status,
		MatchScore:        a.MatchScore,
		ScoreBreakdown:    a.ScoreBreakdown,
		TrainerRating:     a.TrainerRating,
		CoordinatorRating: a.CoordinatorRating,
		AssignedBy:        a.AssignedBy,
		CreatedAt:         a.CreatedAt,
	}
}
