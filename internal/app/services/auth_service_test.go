package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/auth"
)

type fakeAuthUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeAuthUserStore() *fakeAuthUserStore {
	return &fakeAuthUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeAuthUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copy := *user
	return &copy, nil
}

func (f *fakeAuthUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAuthUserStore) Create(ctx context.Context, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	id := f.nextID
	f.nextID++
	stored := *user
	stored.ID = id
	f.users[id] = &stored
	return id, nil
}

func (f *fakeAuthUserStore) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.FirstName = firstName
	user.LastName = lastName
	return nil
}

func (f *fakeAuthUserStore) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (f *fakeAuthUserStore) UpdateLastLogin(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (f *fakeAuthUserStore) SetEmailVerified(ctx context.Context, id int64) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.EmailVerified = true
	return nil
}

type fakeRefreshTokenStore struct {
	tokens map[string]int64
}

func (f *fakeRefreshTokenStore) Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeRefreshTokenStore) Validate(ctx context.Context, userID int64, token string) error {
	owner, ok := f.tokens[token]
	if !ok || owner != userID {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

func (f *fakeRefreshTokenStore) Revoke(ctx context.Context, userID int64, token string) error {
	delete(f.tokens, token)
	return nil
}

type storedToken struct {
	userID    int64
	expiresAt time.Time
	used      bool
}

type fakeVerificationTokenStore struct {
	tokens map[string]*storedToken
}

func (f *fakeVerificationTokenStore) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	for t, stored := range f.tokens {
		if stored.userID == userID {
			delete(f.tokens, t)
		}
	}
	f.tokens[token] = &storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeVerificationTokenStore) GetUserID(ctx context.Context, token string) (int64, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if time.Now().After(stored.expiresAt) {
		return 0, apperrors.ErrTokenExpired
	}
	return stored.userID, nil
}

func (f *fakeVerificationTokenStore) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type fakePasswordResetTokenStore struct {
	tokens map[string]*storedToken
}

func (f *fakePasswordResetTokenStore) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = &storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakePasswordResetTokenStore) GetUserID(ctx context.Context, token string) (int64, error) {
	stored, ok := f.tokens[token]
	if !ok || stored.used {
		return 0, apperrors.ErrTokenNotFound
	}
	if time.Now().After(stored.expiresAt) {
		return 0, apperrors.ErrTokenExpired
	}
	return stored.userID, nil
}

func (f *fakePasswordResetTokenStore) MarkUsed(ctx context.Context, token string) error {
	stored, ok := f.tokens[token]
	if !ok || stored.used {
		return apperrors.ErrTokenNotFound
	}
	stored.used = true
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeAuthUserStore, *fakeVerificationTokenStore, *fakePasswordResetTokenStore, *fakeEmailService) {
	t.Helper()

	users := newFakeAuthUserStore()
	refreshTokens := &fakeRefreshTokenStore{tokens: make(map[string]int64)}
	verificationTokens := &fakeVerificationTokenStore{tokens: make(map[string]*storedToken)}
	resetTokens := &fakePasswordResetTokenStore{tokens: make(map[string]*storedToken)}
	emails := &fakeEmailService{}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "yiconnect.test",
	})

	svc := NewAuthService(users, refreshTokens, verificationTokens, resetTokens, jwtService, emails, zerolog.Nop())
	return svc, users, verificationTokens, resetTokens, emails
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     "member@yiconnect.org",
		Password:  "initial-password",
		FirstName: "Asha",
		LastName:  "Nair",
		ChapterID: 1,
	}
}

func TestRegisterSendsVerificationToken(t *testing.T) {
	svc, users, verificationTokens, _, emails := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.Token.AccessToken == "" || resp.Token.RefreshToken == "" {
		t.Error("expected a token pair")
	}
	if users.users[resp.User.ID].EmailVerified {
		t.Error("expected a fresh account to be unverified")
	}
	if len(emails.verifications) != 1 {
		t.Fatalf("verification emails sent = %d, want 1", len(emails.verifications))
	}
	if _, ok := verificationTokens.tokens[emails.verifications[0]]; !ok {
		t.Error("expected the emailed token to be stored")
	}
}

func TestVerifyEmailMarksAccountVerified(t *testing.T) {
	svc, users, _, _, emails := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token := emails.verifications[0]
	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	if !users.users[resp.User.ID].EmailVerified {
		t.Error("expected the account to be verified")
	}

	if err := svc.VerifyEmail(context.Background(), token); !errors.Is(err, apperrors.ErrTokenNotFound) {
		t.Errorf("second VerifyEmail() error = %v, want ErrTokenNotFound", err)
	}
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, _, verificationTokens, _, emails := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), registerRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token := emails.verifications[0]
	verificationTokens.tokens[token].expiresAt = time.Now().Add(-time.Minute)

	if err := svc.VerifyEmail(context.Background(), token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("VerifyEmail() error = %v, want ErrTokenExpired", err)
	}
}

func TestForgotPasswordUnknownAddressStaysQuiet(t *testing.T) {
	svc, _, _, _, emails := newAuthFixture(t)

	if err := svc.ForgotPassword(context.Background(), "nobody@yiconnect.org"); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if len(emails.resets) != 0 {
		t.Errorf("reset emails sent = %d, want 0", len(emails.resets))
	}
}

func TestResetPasswordReplacesPassword(t *testing.T) {
	svc, _, _, _, emails := newAuthFixture(t)

	req := registerRequest()
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), req.Email); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if len(emails.resets) != 1 {
		t.Fatalf("reset emails sent = %d, want 1", len(emails.resets))
	}

	token := emails.resets[0]
	if err := svc.ResetPassword(context.Background(), token, "brand-new-password"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, err := svc.Login(context.Background(), dto.LoginRequest{Email: req.Email, Password: req.Password}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login() with old password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), dto.LoginRequest{Email: req.Email, Password: "brand-new-password"}); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
}

func TestResetPasswordTokenSingleUse(t *testing.T) {
	svc, _, _, _, emails := newAuthFixture(t)

	req := registerRequest()
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), req.Email); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}

	token := emails.resets[0]
	if err := svc.ResetPassword(context.Background(), token, "brand-new-password"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if err := svc.ResetPassword(context.Background(), token, "another-password"); !errors.Is(err, apperrors.ErrTokenNotFound) {
		t.Errorf("second ResetPassword() error = %v, want ErrTokenNotFound", err)
	}
}
