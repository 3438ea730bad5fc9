package models

import "time"

// OpportunityType defines the kind of industry opportunity
type OpportunityType string

const (
	OpportunityInternship OpportunityType = "INTERNSHIP"
	OpportunityProject    OpportunityType = "PROJECT"
	OpportunityMentorship OpportunityType = "MENTORSHIP"
	OpportunityTraining   OpportunityType = "TRAINING"
	OpportunityJob        OpportunityType = "JOB"
	OpportunityVisit      OpportunityType = "VISIT"
)

// ValidOpportunityTypes lists every opportunity type.
var ValidOpportunityTypes = []OpportunityType{
	OpportunityInternship,
	OpportunityProject,
	OpportunityMentorship,
	OpportunityTraining,
	OpportunityJob,
	OpportunityVisit,
}

// IsValidOpportunityType reports whether t is a known opportunity type.
func IsValidOpportunityType(t OpportunityType) bool {
	for _, valid := range ValidOpportunityTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// OpportunityStatus defines the lifecycle state of an opportunity
type OpportunityStatus string

const (
	OpportunityDraft     OpportunityStatus = "DRAFT"
	OpportunityAccepting OpportunityStatus = "ACCEPTING_APPLICATIONS"
	OpportunityClosed    OpportunityStatus = "CLOSED"
)

// Opportunity defines an industry opportunity owned by a chapter.
// Opportunities are never destroyed; they are soft-closed instead.
type Opportunity struct {
	ID                  int64             `json:"id" db:"id"`
	ChapterID           int64             `json:"chapterId" db:"chapter_id"`
	IndustryID          *int64            `json:"industryId,omitempty" db:"industry_id"`
	Title               string            `json:"title" db:"title"`
	Description         string            `json:"description" db:"description"`
	Type                OpportunityType   `json:"type" db:"type"`
	Status              OpportunityStatus `json:"status" db:"status"`
	ApplicationDeadline time.Time         `json:"applicationDeadline" db:"application_deadline"`
	MaxParticipants     int               `json:"maxParticipants" db:"max_participants"`
	CurrentApplications int               `json:"currentApplications" db:"current_applications"`
	AcceptedCount       int               `json:"acceptedCount" db:"accepted_count"`
	PositionsFilled     int               `json:"positionsFilled" db:"positions_filled"`
	ViewCount           int               `json:"viewCount" db:"view_count"`
	BookmarkCount       int               `json:"bookmarkCount" db:"bookmark_count"`
	CreatedBy           int64             `json:"createdBy" db:"created_by"`
	CreatedAt           time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time         `json:"updatedAt" db:"updated_at"`
	ClosedAt            *time.Time        `json:"closedAt,omitempty" db:"closed_at"`
}
