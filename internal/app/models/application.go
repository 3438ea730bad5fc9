package models

import "time"

// ApplicationStatus defines the review state of an application
type ApplicationStatus string

const (
	ApplicationPendingReview ApplicationStatus = "PENDING_REVIEW"
	ApplicationUnderReview   ApplicationStatus = "UNDER_REVIEW"
	ApplicationShortlisted   ApplicationStatus = "SHORTLISTED"
	ApplicationAccepted      ApplicationStatus = "ACCEPTED"
	ApplicationDeclined      ApplicationStatus = "DECLINED"
	ApplicationWithdrawn     ApplicationStatus = "WITHDRAWN"
)

// Application defines a member's application to an opportunity.
// ProfileSnapshot is a denormalized copy of the applicant's profile captured
// at submission time and never rewritten afterwards.
// At most one non-withdrawn application may exist per (opportunity, member).
type Application struct {
	ID              int64             `json:"id" db:"id"`
	OpportunityID   int64             `json:"opportunityId" db:"opportunity_id"`
	MemberID        int64             `json:"memberId" db:"member_id"`
	Status          ApplicationStatus `json:"status" db:"status"`
	ProfileSnapshot string            `json:"profileSnapshot" db:"profile_snapshot"`
	CoverNote       *string           `json:"coverNote,omitempty" db:"cover_note"`
	MatchScore      *float64          `json:"matchScore,omitempty" db:"match_score"`
	ReviewNotes     *string           `json:"reviewNotes,omitempty" db:"review_notes"`
	ReviewedBy      *int64            `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time        `json:"reviewedAt,omitempty" db:"reviewed_at"`
	SubmittedAt     time.Time         `json:"submittedAt" db:"submitted_at"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`
}
