package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID    = "userID"
	ContextEmail     = "email"
	ContextRoleType  = "roleType"
	ContextChapterID = "chapterID"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token and stores the caller's identity in the
// request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			if errors.Is(err, apperrors.ErrInvalidFormat) {
				detail = detail.WithDetails("Invalid authorization header format")
			} else {
				detail = detail.WithDetails("Authorization header missing")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			detail := dto.NewErrorDetail(code, "Authentication failed").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoleType, claims.RoleType)
		if claims.ChapterID != nil {
			c.Set(ContextChapterID, *claims.ChapterID)
		}

		c.Next()
	}
}

// RoleRequired rejects callers whose role is not in the allowed set. Must run
// after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRoleType)
		if !exists {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		roleType, ok := role.(models.RoleType)
		if ok {
			for _, allowed := range roles {
				if roleType == allowed {
					c.Next()
					return
				}
			}
		}

		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
	}
}

// CurrentUserID returns the authenticated caller's user ID
func CurrentUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextUserID); exists {
		if userID, ok := id.(int64); ok {
			return userID
		}
	}
	return 0
}

// CurrentChapterID returns the caller's chapter, or nil for national users
func CurrentChapterID(c *gin.Context) *int64 {
	if id, exists := c.Get(ContextChapterID); exists {
		if chapterID, ok := id.(int64); ok {
			return &chapterID
		}
	}
	return nil
}

// CurrentActor builds the workflow actor for the authenticated caller
func CurrentActor(c *gin.Context) workflow.Actor {
	actor := workflow.Actor{UserID: CurrentUserID(c)}
	if role, exists := c.Get(ContextRoleType); exists {
		if roleType, ok := role.(models.RoleType); ok {
			actor.Role = roleType
		}
	}
	return actor
}

// IsElevated reports whether the caller holds a coordination-level role
func IsElevated(c *gin.Context) bool {
	role, exists := c.Get(ContextRoleType)
	if !exists {
		return false
	}
	roleType, ok := role.(models.RoleType)
	if !ok {
		return false
	}
	switch roleType {
	case models.RoleCoordinator, models.RoleChapterChair, models.RoleYiAdmin:
		return true
	}
	return false
}
