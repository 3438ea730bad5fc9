package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/controllers"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	chapterController *controllers.ChapterController,
	opportunityController *controllers.OpportunityController,
	applicationController *controllers.ApplicationController,
	visitController *controllers.VisitController,
	trainerController *controllers.TrainerController,
	materialController *controllers.MaterialController,
	healthCardController *controllers.HealthCardController,
	assessmentController *controllers.AssessmentController,
	articleController *controllers.ArticleController,
	fileController *controllers.FileController,
	notificationController *controllers.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/verify-email", authController.VerifyEmail)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// Trainers answer invitations via the emailed token, no session needed
	v1.POST("/trainer-assignments/respond", trainerController.RespondToInvitation)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	elevated := authMiddleware.RoleRequired(models.RoleCoordinator, models.RoleChapterChair, models.RoleYiAdmin)
	reviewers := authMiddleware.RoleRequired(models.RoleReviewer, models.RoleChapterChair, models.RoleYiAdmin)
	adminOnly := authMiddleware.RoleRequired(models.RoleYiAdmin)
	chairOnly := authMiddleware.RoleRequired(models.RoleChapterChair, models.RoleYiAdmin)

	authenticated.POST("/auth/logout", authController.Logout)
	authenticated.GET("/profile", authController.GetProfile)
	authenticated.PUT("/profile", authController.UpdateProfile)
	authenticated.POST("/profile/change-password", authController.ChangePassword)

	authenticated.GET("/notifications/ws", notificationController.Subscribe)
	authenticated.GET("/files/:id", fileController.Get)

	users := authenticated.Group("/users", adminOnly)
	{
		users.POST("", userController.CreateUser)
		users.GET("", userController.ListUsers)
		users.GET("/:id", userController.GetUser)
		users.PUT("/:id/role", userController.UpdateUserRole)
		users.PATCH("/:id/active", userController.SetUserActive)
	}

	chapters := authenticated.Group("/chapters")
	{
		chapters.GET("", chapterController.ListChapters)
		chapters.GET("/:id", chapterController.GetChapter)
		chapters.POST("", adminOnly, chapterController.CreateChapter)
		chapters.PUT("/:id", elevated, chapterController.UpdateChapter)

		chapters.GET("/:id/verticals", chapterController.ListVerticals)
		chapters.POST("/:id/verticals", elevated, chapterController.CreateVertical)

		chapters.GET("/:id/events", chapterController.ListEvents)
		chapters.POST("/:id/events", elevated, chapterController.CreateEvent)

		chapters.POST("/:id/health-card/entries", elevated, healthCardController.CreateEntry)
		chapters.DELETE("/:id/health-card/entries/:entryId", chairOnly, healthCardController.DeleteEntry)
		chapters.GET("/:id/health-card/entries", healthCardController.ListEntries)
		chapters.GET("/:id/health-card/summary", healthCardController.Summary)
	}

	industries := authenticated.Group("/industries")
	{
		industries.GET("", chapterController.ListIndustries)
		industries.POST("", elevated, chapterController.CreateIndustry)
	}

	opportunities := authenticated.Group("/opportunities")
	{
		opportunities.GET("", opportunityController.List)
		opportunities.GET("/:id", opportunityController.Get)
		opportunities.POST("", elevated, opportunityController.Create)
		opportunities.PUT("/:id", elevated, opportunityController.Update)
		opportunities.POST("/:id/publish", elevated, opportunityController.Publish)
		opportunities.POST("/:id/close", elevated, opportunityController.Close)
		opportunities.POST("/:id/bookmark", opportunityController.Bookmark)
		opportunities.DELETE("/:id/bookmark", opportunityController.Unbookmark)
	}

	applications := authenticated.Group("/applications")
	{
		applications.POST("", applicationController.Submit)
		applications.GET("", applicationController.List)
		applications.GET("/:id", applicationController.Get)
		applications.POST("/:id/withdraw", applicationController.Withdraw)

		applicationsReviewerProtected := applications.Group("", reviewers)
		{
			applicationsReviewerProtected.POST("/:id/review", applicationController.Review)
			applicationsReviewerProtected.POST("/:id/shortlist", applicationController.Shortlist)
			applicationsReviewerProtected.POST("/:id/accept", applicationController.Accept)
			applicationsReviewerProtected.POST("/:id/decline", applicationController.Decline)
		}
	}

	visits := authenticated.Group("/visit-requests")
	{
		visits.POST("", visitController.Create)
		visits.GET("", visitController.List)
		visits.GET("/:id", visitController.Get)
		visits.POST("/:id/cancel", visitController.Cancel)

		// Scheduling is done by the industry side once a request is forwarded
		visits.POST("/:id/schedule",
			authMiddleware.RoleRequired(models.RoleYiAdmin, models.RoleIndustryPartner),
			visitController.Schedule)

		visitsElevated := visits.Group("", elevated)
		{
			visitsElevated.POST("/:id/approve", visitController.Approve)
			visitsElevated.POST("/:id/forward", visitController.Forward)
			visitsElevated.POST("/:id/complete", visitController.Complete)
			visitsElevated.POST("/:id/mou", visitController.UploadMou)
		}
	}

	trainers := authenticated.Group("/trainers")
	{
		trainers.PUT("/profile", trainerController.UpsertProfile)
		trainers.GET("/profile", trainerController.GetProfile)
		trainers.GET("/:userId/profile", trainerController.GetProfileByUser)
	}

	assignments := authenticated.Group("/trainer-assignments")
	{
		assignments.GET("/mine", trainerController.ListMine)
		assignments.POST("/:id/complete", trainerController.Complete)
		assignments.POST("/:id/cancel", trainerController.Cancel)
		assignments.POST("/:id/rate-coordinator", trainerController.RateCoordinator)

		assignmentsElevated := assignments.Group("", elevated)
		{
			assignmentsElevated.POST("/select", trainerController.Select)
			assignmentsElevated.POST("/:id/invite", trainerController.Invite)
			assignmentsElevated.POST("/:id/confirm", trainerController.Confirm)
			assignmentsElevated.POST("/:id/rate-trainer", trainerController.RateTrainer)
		}
	}

	events := authenticated.Group("/events")
	{
		events.GET("/:id/trainer-assignments", trainerController.ListByEvent)
		events.GET("/:id/materials", materialController.ListByEvent)
	}

	materials := authenticated.Group("/materials")
	{
		materials.POST("", trainerOrElevated(authMiddleware), materialController.Create)
		materials.GET("/:id", materialController.Get)
		materials.POST("/:id/versions", trainerOrElevated(authMiddleware), materialController.CreateVersion)
		materials.POST("/:id/submit-review", materialController.SubmitForReview)
		materials.POST("/:id/approve", reviewers, materialController.Approve)
		materials.POST("/:id/request-revision", reviewers, materialController.RequestRevision)
	}

	assessments := authenticated.Group("/assessments")
	{
		assessments.POST("", assessmentController.Start)
		assessments.GET("/active", assessmentController.GetActive)
		assessments.GET("/history", assessmentController.History)
		assessments.GET("/:id", assessmentController.Get)
		assessments.POST("/:id/answers", assessmentController.SubmitAnswer)
		assessments.POST("/:id/complete", assessmentController.Complete)
	}

	articles := authenticated.Group("/articles")
	{
		articles.GET("", articleController.List)
		articles.GET("/:id", articleController.Get)
		articles.POST("", articleController.Create)
		articles.PUT("/:id", articleController.Update)
		articles.DELETE("/:id", articleController.Delete)
	}
}

func trainerOrElevated(authMiddleware *middleware.AuthMiddleware) gin.HandlerFunc {
	return authMiddleware.RoleRequired(
		models.RoleTrainer,
		models.RoleCoordinator,
		models.RoleChapterChair,
		models.RoleYiAdmin,
	)
}
