package models

import "time"

// Chapter defines the tenant/org unit owning members, events, and opportunities.
// The national chapter is global; every other domain record belongs to exactly
// one chapter.
type Chapter struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	City       string    `json:"city" db:"city"`
	IsNational bool      `json:"isNational" db:"is_national"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Vertical defines a per-chapter focus area used by assessments and
// health-card reporting.
type Vertical struct {
	ID        int64     `json:"id" db:"id"`
	ChapterID int64     `json:"chapterId" db:"chapter_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Industry defines an external industry partner organisation.
type Industry struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ContactEmail string    `json:"contactEmail" db:"contact_email"`
	City         *string   `json:"city,omitempty" db:"city"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
