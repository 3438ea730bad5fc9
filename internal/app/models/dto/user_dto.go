package dto

import "github.com/yiconnect/backend/internal/app/models"

// CreateUserRequest represents an admin creating a user account
type CreateUserRequest struct {
	Email     string          `json:"email" binding:"required,email"`
	FirstName string          `json:"firstName" binding:"required"`
	LastName  string          `json:"lastName" binding:"required"`
	RoleType  models.RoleType `json:"roleType" binding:"required"`
	ChapterID *int64          `json:"chapterId,omitempty"`
}

// UpdateUserRoleRequest represents an admin changing a user's role
type UpdateUserRoleRequest struct {
	RoleType  models.RoleType `json:"roleType" binding:"required"`
	ChapterID *int64          `json:"chapterId,omitempty"`
}

// SetUserActiveRequest enables or disables an account
type SetUserActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UserListFilter carries query filters for the admin user list
type UserListFilter struct {
	ChapterID *int64
	RoleType  *models.RoleType
	Search    string
}

// TrainerProfileRequest represents trainer profile data
type TrainerProfileRequest struct {
	Expertise string `json:"expertise" binding:"required"`
	City      string `json:"city" binding:"required"`
}

// TrainerProfileResponse represents trainer profile information
type TrainerProfileResponse struct {
	ID                int64        `json:"id"`
	UserID            int64        `json:"userId"`
	Expertise         string       `json:"expertise"`
	City              string       `json:"city"`
	SessionsDelivered int          `json:"sessionsDelivered"`
	AverageRating     *float64     `json:"averageRating,omitempty"`
	User              *UserResponse `json:"user,omitempty"`
}
