package models

import "time"

// Article is a knowledge-base entry owned by a chapter.
type Article struct {
	ID          int64     `json:"id" db:"id"`
	ChapterID   int64     `json:"chapterId" db:"chapter_id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	IsPublished bool      `json:"isPublished" db:"is_published"`
	AuthorID    int64     `json:"authorId" db:"author_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
