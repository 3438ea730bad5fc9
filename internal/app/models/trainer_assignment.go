package models

import "time"

// AssignmentStatus defines the lifecycle state of a trainer assignment
type AssignmentStatus string

const (
	AssignmentSelected  AssignmentStatus = "SELECTED"
	AssignmentInvited   AssignmentStatus = "INVITED"
	AssignmentAccepted  AssignmentStatus = "ACCEPTED"
	AssignmentDeclined  AssignmentStatus = "DECLINED"
	AssignmentConfirmed AssignmentStatus = "CONFIRMED"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

// TrainerAssignment defines a trainer's assignment to an event.
// The invitation token lets a trainer accept without an authenticated
// session. Ratings are recorded only once the status reaches
// CONFIRMED or COMPLETED.
type TrainerAssignment struct {
	ID                int64            `json:"id" db:"id"`
	EventID           int64            `json:"eventId" db:"event_id"`
	TrainerID         int64            `json:"trainerId" db:"trainer_id"`
	Status            AssignmentStatus `json:"status" db:"status"`
	MatchScore        *float64         `json:"matchScore,omitempty" db:"match_score"`
	ScoreBreakdown    *string          `json:"scoreBreakdown,omitempty" db:"score_breakdown"`
	InvitationToken   *string          `json:"-" db:"invitation_token"`
	TrainerRating     *int             `json:"trainerRating,omitempty" db:"trainer_rating"`
	CoordinatorRating *int             `json:"coordinatorRating,omitempty" db:"coordinator_rating"`
	AssignedBy        int64            `json:"assignedBy" db:"assigned_by"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time        `json:"updatedAt" db:"updated_at"`
}
