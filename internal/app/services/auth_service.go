package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/auth"
	"github.com/yiconnect/backend/internal/pkg/email"
)

const (
	verificationTokenTTL  = 24 * time.Hour
	passwordResetTokenTTL = time.Hour
)

// AuthUserStore is the user access needed by the auth service
type AuthUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, id int64) error
	SetEmailVerified(ctx context.Context, id int64) error
}

// RefreshTokenStore persists refresh tokens
type RefreshTokenStore interface {
	Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Validate(ctx context.Context, userID int64, token string) error
	Revoke(ctx context.Context, userID int64, token string) error
}

// VerificationTokenStore persists email verification tokens
type VerificationTokenStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetUserID(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// PasswordResetTokenStore persists single-use password reset tokens
type PasswordResetTokenStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetUserID(ctx context.Context, token string) (int64, error)
	MarkUsed(ctx context.Context, token string) error
}

// AuthService defines authentication operations
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID int64, refreshToken string) error
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, emailAddress string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID int64, req dto.ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// AuthServiceImpl implements AuthService
type AuthServiceImpl struct {
	userStore         AuthUserStore
	tokenStore        RefreshTokenStore
	verificationStore VerificationTokenStore
	resetStore        PasswordResetTokenStore
	jwtService        *auth.JWTService
	emailService      email.EmailService
	logger            zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userStore AuthUserStore, tokenStore RefreshTokenStore, verificationStore VerificationTokenStore, resetStore PasswordResetTokenStore, jwtService *auth.JWTService, emailService email.EmailService, logger zerolog.Logger) AuthService {
	return &AuthServiceImpl{
		userStore:         userStore,
		tokenStore:        tokenStore,
		verificationStore: verificationStore,
		resetStore:        resetStore,
		jwtService:        jwtService,
		emailService:      emailService,
		logger:            logger,
	}
}

// Register creates a member account and logs it in
func (s *AuthServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:         req.Email,
		Password:      hashedPassword,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		RoleType:      models.RoleMember,
		ChapterID:     &req.ChapterID,
		IsActive:      true,
		EmailVerified: false,
	}

	id, err := s.userStore.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info().Int64("userId", id).Str("email", user.Email).Msg("Member registered")

	token := uuid.NewString()
	if err := s.verificationStore.Create(ctx, id, token, time.Now().Add(verificationTokenTTL)); err != nil {
		s.logger.Warn().Err(err).Int64("userId", id).Msg("Failed to store verification token")
	} else if err := s.emailService.SendVerificationEmail(user.Email, user.FirstName, token); err != nil {
		s.logger.Warn().Err(err).Int64("userId", id).Msg("Failed to send verification email")
	}

	return s.issueTokens(ctx, user)
}

// VerifyEmail confirms the address behind an emailed verification token
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.verificationStore.GetUserID(ctx, token)
	if err != nil {
		return err
	}

	if err := s.userStore.SetEmailVerified(ctx, userID); err != nil {
		return err
	}
	if err := s.verificationStore.Delete(ctx, token); err != nil {
		s.logger.Warn().Err(err).Int64("userId", userID).Msg("Failed to delete verification token")
	}

	s.logger.Info().Int64("userId", userID).Msg("Email verified")
	return nil
}

// ForgotPassword emails a reset token to the account holder. Unknown addresses
// are not reported back to the caller.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, emailAddress string) error {
	user, err := s.userStore.GetByEmail(ctx, emailAddress)
	if err != nil {
		s.logger.Info().Str("email", emailAddress).Msg("Password reset requested for unknown address")
		return nil
	}

	token := uuid.NewString()
	if err := s.resetStore.Create(ctx, user.ID, token, time.Now().Add(passwordResetTokenTTL)); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, user.FirstName, token); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to send reset email")
	}
	return nil
}

// ResetPassword redeems a reset token and replaces the password
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.resetStore.GetUserID(ctx, token)
	if err != nil {
		return err
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userStore.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}
	if err := s.resetStore.MarkUsed(ctx, token); err != nil {
		return err
	}

	s.logger.Info().Int64("userId", userID).Msg("Password reset")
	return nil
}

// Login authenticates a user and issues tokens
func (s *AuthServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userStore.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userStore.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to record last login")
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.Store(ctx, user.ID, refreshToken, refreshExpiresAt); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             3600,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: int64(time.Until(refreshExpiresAt).Seconds()),
		},
		User: dto.NewUserResponse(user),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new access token
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.Validate(ctx, userID, refreshToken); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   3600,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthServiceImpl) Logout(ctx context.Context, userID int64, refreshToken string) error {
	return s.tokenStore.Revoke(ctx, userID, refreshToken)
}

// ChangePassword verifies the current password and replaces it
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID int64, req dto.ChangePasswordRequest) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.userStore.UpdatePassword(ctx, userID, hashedPassword)
}

// UpdateProfile updates the current user's profile fields
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := s.userStore.UpdateProfile(ctx, userID, req.FirstName, req.LastName); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// GetProfile returns the current user's profile
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}
