package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/auth"
	"github.com/yiconnect/backend/internal/pkg/email"
)

// AdminUserStore is the user access needed by the admin user service
type AdminUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAll(ctx context.Context, filter dto.UserListFilter, page, pageSize int) ([]models.User, int64, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	UpdateRole(ctx context.Context, id int64, roleType models.RoleType, chapterID *int64) error
	SetActive(ctx context.Context, id int64, isActive bool) error
}

// UserService defines admin user management operations
type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id int64) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, filter dto.UserListFilter, page, pageSize int) ([]dto.UserResponse, int64, error)
	UpdateUserRole(ctx context.Context, id int64, req dto.UpdateUserRoleRequest) error
	SetUserActive(ctx context.Context, id int64, isActive bool) error
}

// UserServiceImpl implements UserService
type UserServiceImpl struct {
	userStore    AdminUserStore
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore AdminUserStore, emailService email.EmailService, logger zerolog.Logger) UserService {
	return &UserServiceImpl{
		userStore:    userStore,
		emailService: emailService,
		logger:       logger,
	}
}

// CreateUser creates an account with a generated temporary password and
// emails it to the new user.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !models.IsValidRole(req.RoleType) {
		return nil, apperrors.NewBadRequestError("Unknown role type")
	}

	temporaryPassword := uuid.NewString()[:12]
	hashedPassword, err := auth.HashPassword(temporaryPassword)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:         req.Email,
		Password:      hashedPassword,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		RoleType:      req.RoleType,
		ChapterID:     req.ChapterID,
		IsActive:      true,
		EmailVerified: false,
	}

	id, err := s.userStore.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if err := s.emailService.SendWelcomeEmail(user.Email, user.FirstName, temporaryPassword); err != nil {
		s.logger.Warn().Err(err).Int64("userId", id).Msg("Welcome email failed")
	}

	s.logger.Info().Int64("userId", id).Str("role", string(req.RoleType)).Msg("User created by admin")

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// GetUser returns a user by ID
func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ListUsers returns users matching the filter with pagination
func (s *UserServiceImpl) ListUsers(ctx context.Context, filter dto.UserListFilter, page, pageSize int) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userStore.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserResponse(&users[i]))
	}
	return responses, total, nil
}

// UpdateUserRole changes a user's role and chapter assignment
func (s *UserServiceImpl) UpdateUserRole(ctx context.Context, id int64, req dto.UpdateUserRoleRequest) error {
	if !models.IsValidRole(req.RoleType) {
		return apperrors.NewBadRequestError("Unknown role type")
	}

	if err := s.userStore.UpdateRole(ctx, id, req.RoleType, req.ChapterID); err != nil {
		return err
	}

	s.logger.Info().Int64("userId", id).Str("role", string(req.RoleType)).Msg("User role updated")
	return nil
}

// SetUserActive enables or disables an account
func (s *UserServiceImpl) SetUserActive(ctx context.Context, id int64, isActive bool) error {
	if err := s.userStore.SetActive(ctx, id, isActive); err != nil {
		return err
	}

	s.logger.Info().Int64("userId", id).Bool("isActive", isActive).Msg("User active flag updated")
	return nil
}
