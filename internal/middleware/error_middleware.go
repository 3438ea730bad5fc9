package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. Controllers call
// this for every non-nil service error so status codes stay consistent
// across the API.
func HandleAPIError(c *gin.Context, err error) {
	message := err.Error()

	switch {
	case errors.Is(err, apperrors.ErrInvalidTransition):
		respond(c, http.StatusConflict, dto.ErrorCodeInvalidTransition, message)
	case errors.Is(err, apperrors.ErrNoPositionsAvailable):
		respond(c, http.StatusConflict, dto.ErrorCodeNoPositionsAvailable, message)
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		respond(c, http.StatusConflict, dto.ErrorCodeDuplicateApplication, message)
	case errors.Is(err, apperrors.ErrOpportunityClosed),
		errors.Is(err, apperrors.ErrAssessmentActive),
		errors.Is(err, apperrors.ErrRatingNotAllowed):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceInvalid, message)
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeUnauthorized, message)
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusForbidden, dto.ErrorCodeAccountDisabled, message)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case isNotFound(err):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message)
	case errors.Is(err, apperrors.ErrAssessmentIncomplete),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrValidationFailed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message)
	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrOpportunityNotFound,
		apperrors.ErrApplicationNotFound,
		apperrors.ErrVisitRequestNotFound,
		apperrors.ErrAssignmentNotFound,
		apperrors.ErrInvitationTokenUnknown,
		apperrors.ErrMaterialNotFound,
		apperrors.ErrAssessmentNotFound,
		apperrors.ErrChapterNotFound,
		apperrors.ErrVerticalNotFound,
		apperrors.ErrHealthCardEntryNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
