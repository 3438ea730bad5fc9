package helpers

import (
	"time"
)

// DateOnly truncates a timestamp to midnight UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsPastDeadline reports whether the deadline has passed relative to now
func IsPastDeadline(deadline, now time.Time) bool {
	return now.After(deadline)
}

// FormatTimestamp formats a time for API responses
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
