package validation

import (
	"regexp"
	"time"
)

// Validation rule bounds
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	PasswordMinLength = 8

	NameMinLength = 2
	NameMaxLength = 100

	// Calendar-year bounds for activity records
	ActivityYearMin = 2020
	ActivityYearMax = 2100

	// Assessment answers use a 1-5 scale
	AnswerMin = 1
	AnswerMax = 5

	RatingMin = 1
	RatingMax = 5
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// ValidActivityDate reports whether the date falls within the accepted
// calendar-year bounds (2020-2100).
func ValidActivityDate(date time.Time) bool {
	year := date.Year()
	return year >= ActivityYearMin && year <= ActivityYearMax
}

// ValidAnswer reports whether an assessment answer is on the 1-5 scale.
func ValidAnswer(answer int) bool {
	return answer >= AnswerMin && answer <= AnswerMax
}

// ValidRating reports whether a rating is on the 1-5 scale.
func ValidRating(rating int) bool {
	return rating >= RatingMin && rating <= RatingMax
}

// FieldErrors collects field-level validation failures keyed by field name.
// Operations return it to the controller layer instead of throwing past the
// action boundary.
type FieldErrors map[string]string

// Add records a failure for a field.
func (f FieldErrors) Add(field, message string) {
	f[field] = message
}

// HasErrors reports whether any failure was recorded.
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}
