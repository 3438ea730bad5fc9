package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/repositories"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

var defaultVerticals = []string{"Masoom", "Climate Change", "Road Safety", "Accessibility", "Innovation"}

// CreateDefaultData seeds the national chapter, its verticals and the
// initial admin account. Existing records are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	chapterRepo := repositories.NewChapterRepository(dbPool)
	userRepo := repositories.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	national := &models.Chapter{Name: "Yi National", City: "New Delhi", IsNational: true}
	nationalID, err := chapterRepo.Create(ctx, national)
	if err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating national chapter")
		finalErr = errors.Join(finalErr, err)
	} else if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		chapters, errGet := chapterRepo.GetAll(ctx)
		if errGet != nil {
			lgr.Error().Err(errGet).Msg("Error loading existing chapters")
			finalErr = errors.Join(finalErr, errGet)
		} else {
			for _, c := range chapters {
				if c.Name == national.Name {
					nationalID = c.ID
					break
				}
			}
		}
	}

	if nationalID > 0 {
		for _, name := range defaultVerticals {
			vertical := &models.Vertical{ChapterID: nationalID, Name: name}
			if _, err := chapterRepo.CreateVertical(ctx, vertical); err != nil &&
				!errors.Is(err, apperrors.ErrResourceAlreadyExists) {
				lgr.Error().Err(err).Str("vertical", name).Msg("Error creating default vertical")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	adminEmail := "admin@yiconnect.app"
	if _, err := userRepo.GetByEmail(ctx, adminEmail); errors.Is(err, apperrors.ErrUserNotFound) {
		password := os.Getenv("ADMIN_INITIAL_PASSWORD")
		if password == "" {
			password = "changeme123"
			lgr.Warn().Msg("ADMIN_INITIAL_PASSWORD not set, using the default admin password")
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Join(finalErr, err)
		}

		admin := &models.User{
			Email:         adminEmail,
			Password:      string(hashed),
			FirstName:     "Yi",
			LastName:      "Admin",
			RoleType:      models.RoleYiAdmin,
			IsActive:      true,
			EmailVerified: true,
		}
		if _, err := userRepo.Create(ctx, admin); err != nil {
			lgr.Error().Err(err).Msg("Error creating admin account")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("email", adminEmail).Msg("Admin account created")
		}
	} else if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
