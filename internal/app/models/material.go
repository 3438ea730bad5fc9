package models

import "time"

// MaterialStatus defines the review state of a material version
type MaterialStatus string

const (
	MaterialDraft             MaterialStatus = "DRAFT"
	MaterialPendingReview     MaterialStatus = "PENDING_REVIEW"
	MaterialApproved          MaterialStatus = "APPROVED"
	MaterialRevisionRequested MaterialStatus = "REVISION_REQUESTED"
	MaterialSuperseded        MaterialStatus = "SUPERSEDED"
)

// Material defines one version of an event material.
// Versions sharing an original document form a lineage linked via
// ParentMaterialID; exactly one row per lineage has IsCurrentVersion=true.
// Creating a new version flips the prior current version to SUPERSEDED
// atomically with the insert of the new row.
type Material struct {
	ID               int64          `json:"id" db:"id"`
	EventID          int64          `json:"eventId" db:"event_id"`
	Title            string         `json:"title" db:"title"`
	Version          int            `json:"version" db:"version"`
	ParentMaterialID *int64         `json:"parentMaterialId,omitempty" db:"parent_material_id"`
	IsCurrentVersion bool           `json:"isCurrentVersion" db:"is_current_version"`
	Status           MaterialStatus `json:"status" db:"status"`
	FileID           *int64         `json:"fileId,omitempty" db:"file_id"`
	UploadedBy       int64          `json:"uploadedBy" db:"uploaded_by"`
	ReviewNotes      *string        `json:"reviewNotes,omitempty" db:"review_notes"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" db:"updated_at"`
}
