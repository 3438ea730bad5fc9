package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yiconnect/backend/internal/app/controllers"
	appJobs "github.com/yiconnect/backend/internal/app/jobs"
	appMigrations "github.com/yiconnect/backend/internal/app/migrations"
	appRepos "github.com/yiconnect/backend/internal/app/repositories"
	appRoutes "github.com/yiconnect/backend/internal/app/routes"
	appServices "github.com/yiconnect/backend/internal/app/services"
	"github.com/yiconnect/backend/internal/config"
	"github.com/yiconnect/backend/internal/db"
	appMiddleware "github.com/yiconnect/backend/internal/middleware"
	pkgAuth "github.com/yiconnect/backend/internal/pkg/auth"
	"github.com/yiconnect/backend/internal/pkg/cache"
	"github.com/yiconnect/backend/internal/pkg/email"
	"github.com/yiconnect/backend/internal/pkg/filestorage"
	"github.com/yiconnect/backend/internal/pkg/logger"
	"github.com/yiconnect/backend/internal/pkg/notify"
	"github.com/yiconnect/backend/internal/pkg/push"
	"github.com/yiconnect/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        appServices.AuthService
	UserService        appServices.UserService
	ChapterService     appServices.ChapterService
	OpportunityService appServices.OpportunityService
	ApplicationService appServices.ApplicationService
	VisitService       appServices.VisitService
	TrainerService     appServices.TrainerService
	MaterialService    appServices.MaterialService
	HealthCardService  appServices.HealthCardService
	AssessmentService  appServices.AssessmentService
	ArticleService     appServices.ArticleService

	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	ChapterController      *appControllers.ChapterController
	OpportunityController  *appControllers.OpportunityController
	ApplicationController  *appControllers.ApplicationController
	VisitController        *appControllers.VisitController
	TrainerController      *appControllers.TrainerController
	MaterialController     *appControllers.MaterialController
	HealthCardController   *appControllers.HealthCardController
	AssessmentController   *appControllers.AssessmentController
	ArticleController      *appControllers.ArticleController
	FileController         *appControllers.FileController
	NotificationController *appControllers.NotificationController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	EmailService   email.EmailService
	Notifier       notify.Notifier
	Cache          *cache.Cache
	PushHub        *push.Hub
	FileStorage    *filestorage.LocalStorage
	Scheduler      *appJobs.Scheduler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	dbPool := database.Pool

	deps.Repos = appRepos.NewRepositories(dbPool)

	storageBaseURL := cfg.Storage.BaseURL
	if storageBaseURL == "" {
		storageBaseURL = "http://localhost:" + cfg.Server.Port + "/uploads"
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath, storageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  parseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: parseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.SMTP.BaseURL,
	}, lgr)

	deps.Cache = cache.New(cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      parseDuration(cfg.Redis.CacheTTL, 5*time.Minute),
	}, lgr)

	deps.PushHub = push.NewHub(lgr)
	go deps.PushHub.Run()

	deps.Notifier = notify.NewNotifier(deps.EmailService, deps.PushHub, lgr)

	// Services
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.TokenRepository, deps.Repos.VerificationTokenRepository, deps.Repos.PasswordResetTokenRepository, deps.JWTService, deps.EmailService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.EmailService, lgr)
	deps.ChapterService = appServices.NewChapterService(deps.Repos.ChapterRepository, deps.Repos.IndustryRepository, deps.Repos.EventRepository, deps.Cache, lgr)
	deps.OpportunityService = appServices.NewOpportunityService(deps.Repos.OpportunityRepository, deps.Notifier, deps.Cache, lgr)
	deps.ApplicationService = appServices.NewApplicationService(deps.Repos.ApplicationRepository, deps.Repos.OpportunityRepository, deps.Repos.UserRepository, deps.Notifier, deps.Cache, lgr)
	deps.VisitService = appServices.NewVisitService(deps.Repos.VisitRequestRepository, deps.Repos.UserRepository, deps.Notifier, deps.Cache, lgr)
	deps.TrainerService = appServices.NewTrainerService(deps.Repos.TrainerAssignmentRepository, deps.Repos.TrainerProfileRepository, deps.Repos.EventRepository, deps.Repos.UserRepository, deps.EmailService, deps.Notifier, deps.Cache, lgr)
	deps.MaterialService = appServices.NewMaterialService(appServices.NewMaterialStore(deps.Repos.MaterialRepository, database), deps.Repos.UserRepository, deps.Notifier, deps.Cache, lgr)
	deps.HealthCardService = appServices.NewHealthCardService(deps.Repos.HealthCardRepository, deps.Repos.ChapterRepository, deps.Cache, lgr)
	deps.AssessmentService = appServices.NewAssessmentService(deps.Repos.AssessmentRepository, deps.Repos.ChapterRepository, lgr)
	deps.ArticleService = appServices.NewArticleService(deps.Repos.ArticleRepository, deps.Cache, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// Controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.ChapterController = appControllers.NewChapterController(deps.ChapterService)
	deps.OpportunityController = appControllers.NewOpportunityController(deps.OpportunityService)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService)
	deps.VisitController = appControllers.NewVisitController(deps.VisitService, deps.FileStorage, deps.Repos.FileRepository)
	deps.TrainerController = appControllers.NewTrainerController(deps.TrainerService)
	deps.MaterialController = appControllers.NewMaterialController(deps.MaterialService, deps.FileStorage, deps.Repos.FileRepository)
	deps.HealthCardController = appControllers.NewHealthCardController(deps.HealthCardService)
	deps.AssessmentController = appControllers.NewAssessmentController(deps.AssessmentService)
	deps.ArticleController = appControllers.NewArticleController(deps.ArticleService)
	deps.FileController = appControllers.NewFileController(deps.Repos.FileRepository)
	deps.NotificationController = appControllers.NewNotificationController(deps.PushHub, lgr)

	deps.Scheduler, err = appJobs.NewScheduler(deps.OpportunityService, cfg.Jobs.DeadlineSweepSpec, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to build job scheduler")
		return nil, fmt.Errorf("failed to build job scheduler: %w", err)
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ChapterController,
		deps.OpportunityController,
		deps.ApplicationController,
		deps.VisitController,
		deps.TrainerController,
		deps.MaterialController,
		deps.HealthCardController,
		deps.AssessmentController,
		deps.ArticleController,
		deps.FileController,
		deps.NotificationController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

// parseDuration parses a duration string, falling back to a default.
// Config validation already rejects malformed values at load time.
func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
