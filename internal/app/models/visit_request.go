package models

import "time"

// VisitRequestStatus defines the review/scheduling state of a visit request
type VisitRequestStatus string

const (
	VisitPendingYiReview     VisitRequestStatus = "PENDING_YI_REVIEW"
	VisitYiApproved          VisitRequestStatus = "YI_APPROVED"
	VisitForwardedToIndustry VisitRequestStatus = "FORWARDED_TO_INDUSTRY"
	VisitScheduled           VisitRequestStatus = "SCHEDULED"
	VisitCompleted           VisitRequestStatus = "COMPLETED"
	VisitCancelled           VisitRequestStatus = "CANCELLED"
)

// VisitRequest defines a chapter's request for an industry visit.
// Review and scheduling transitions are only valid from their specific prior
// states (e.g. SCHEDULED -> COMPLETED only from SCHEDULED).
type VisitRequest struct {
	ID            int64              `json:"id" db:"id"`
	ChapterID     int64              `json:"chapterId" db:"chapter_id"`
	RequestedBy   int64              `json:"requestedBy" db:"requested_by"`
	IndustryID    int64              `json:"industryId" db:"industry_id"`
	Status        VisitRequestStatus `json:"status" db:"status"`
	Purpose       string             `json:"purpose" db:"purpose"`
	PreferredDate time.Time          `json:"preferredDate" db:"preferred_date"`
	GroupSize     int                `json:"groupSize" db:"group_size"`
	MouFileID     *int64             `json:"mouFileId,omitempty" db:"mou_file_id"`
	ScheduledFor  *time.Time         `json:"scheduledFor,omitempty" db:"scheduled_for"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" db:"updated_at"`
}
