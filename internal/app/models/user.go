package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID            int64      `json:"id" db:"id" example:"1"`                                                  // Unique identifier for the user
	Email         string     `json:"email" db:"email" example:"member@yiconnect.org"`                         // User's email address
	Password      string     `json:"-" db:"password"`                                                         // User's hashed password (excluded from JSON)
	FirstName     string     `json:"firstName" db:"first_name" example:"Asha"`                                // User's first name
	LastName      string     `json:"lastName" db:"last_name" example:"Iyer"`                                  // User's last name
	RoleType      RoleType   `json:"roleType" db:"role_type" example:"MEMBER"`                                // User's role
	ChapterID     *int64     `json:"chapterId,omitempty" db:"chapter_id"`                                     // Owning chapter (NULL for national-level users)
	IsActive      bool       `json:"isActive" db:"is_active" example:"true"`                                  // Whether the user account is active
	EmailVerified bool       `json:"emailVerified" db:"email_verified"`                                       // Whether the email address is verified
	CreatedAt     time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`                // Timestamp when the user was created
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`                // Timestamp when the user was last updated
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2024-04-20T18:00:00Z"` // Timestamp of the last login (nullable)
}

// TrainerProfile defines the trainer profile model based on the 'trainer_profiles' table
type TrainerProfile struct {
	ID                int64    `json:"id" db:"id"`
	UserID            int64    `json:"userId" db:"user_id"`
	Expertise         string   `json:"expertise" db:"expertise"`
	City              string   `json:"city" db:"city"`
	SessionsDelivered int      `json:"sessionsDelivered" db:"sessions_delivered"`
	AverageRating     *float64 `json:"averageRating,omitempty" db:"average_rating"`
	User              *User    `json:"user,omitempty"` // Relation, no db tag
}
