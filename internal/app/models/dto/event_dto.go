package dto

import (
	"time"
)

// CreateEventRequest represents a request to create a chapter event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Description string    `json:"description" binding:"required"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required,gtfield=StartsAt"`
}
