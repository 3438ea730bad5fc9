package models

import "time"

// HealthCardEntry is an immutable activity record used for aggregate
// reporting. Entries are never mutated after creation; only a chapter chair
// may delete one.
type HealthCardEntry struct {
	ID           int64     `json:"id" db:"id"`
	ChapterID    int64     `json:"chapterId" db:"chapter_id"`
	VerticalID   int64     `json:"verticalId" db:"vertical_id"`
	ActivityDate time.Time `json:"activityDate" db:"activity_date"`
	ECCount      int       `json:"ecCount" db:"ec_count"`
	NonECCount   int       `json:"nonEcCount" db:"non_ec_count"`
	Description  string    `json:"description" db:"description"`
	CreatedBy    int64     `json:"createdBy" db:"created_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// HealthCardSummary aggregates entries per vertical for reporting.
type HealthCardSummary struct {
	VerticalID      int64  `json:"verticalId" db:"vertical_id"`
	VerticalName    string `json:"verticalName" db:"vertical_name"`
	ActivityCount   int    `json:"activityCount" db:"activity_count"`
	TotalECCount    int    `json:"totalEcCount" db:"total_ec_count"`
	TotalNonECCount int    `json:"totalNonEcCount" db:"total_non_ec_count"`
}
