package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Workflow errors
var (
	// ErrInvalidTransition signals that the requested action is not legal
	// from the record's current status.
	ErrInvalidTransition = errors.New("action not valid from current state")
)

// Opportunity and application errors
var (
	ErrOpportunityNotFound  = errors.New("opportunity not found")
	ErrOpportunityClosed    = errors.New("opportunity is not accepting applications")
	ErrNoPositionsAvailable = errors.New("no positions available")
	ErrDuplicateApplication = errors.New("member has already applied to this opportunity")
	ErrApplicationNotFound  = errors.New("application not found")
)

// Visit request errors
var (
	ErrVisitRequestNotFound = errors.New("visit request not found")
)

// Trainer assignment errors
var (
	ErrAssignmentNotFound     = errors.New("trainer assignment not found")
	ErrInvitationTokenUnknown = errors.New("invitation token not recognized")
	ErrRatingNotAllowed       = errors.New("ratings can only be recorded for confirmed or completed assignments")
)

// Material errors
var (
	ErrMaterialNotFound = errors.New("material not found")
)

// Assessment errors
var (
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrAssessmentActive     = errors.New("member already has an active assessment")
	ErrAssessmentIncomplete = errors.New("all five answers are required before completion")
)

// Chapter errors
var (
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrVerticalNotFound = errors.New("vertical not found")
)

// Health card errors
var (
	ErrHealthCardEntryNotFound = errors.New("health card entry not found")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewResourceNotFoundError creates a resource-not-found error with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a permission-denied error with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a bad-request error with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewInvalidTransitionError creates a state-conflict error describing the
// rejected action.
func NewInvalidTransitionError(message string) error {
	return &CustomError{Err: ErrInvalidTransition, Message: message}
}
