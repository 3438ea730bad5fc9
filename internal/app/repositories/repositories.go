package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository               *UserRepository
	TokenRepository              *TokenRepository
	VerificationTokenRepository  *VerificationTokenRepository
	PasswordResetTokenRepository *PasswordResetTokenRepository
	ChapterRepository            *ChapterRepository
	IndustryRepository           *IndustryRepository
	EventRepository              *EventRepository
	OpportunityRepository        *OpportunityRepository
	ApplicationRepository        *ApplicationRepository
	VisitRequestRepository       *VisitRequestRepository
	TrainerAssignmentRepository  *TrainerAssignmentRepository
	TrainerProfileRepository     *TrainerProfileRepository
	MaterialRepository           *MaterialRepository
	HealthCardRepository         *HealthCardRepository
	AssessmentRepository         *AssessmentRepository
	ArticleRepository            *ArticleRepository
	FileRepository               *FileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:               NewUserRepository(db),
		TokenRepository:              NewTokenRepository(db),
		VerificationTokenRepository:  NewVerificationTokenRepository(db),
		PasswordResetTokenRepository: NewPasswordResetTokenRepository(db),
		ChapterRepository:            NewChapterRepository(db),
		IndustryRepository:           NewIndustryRepository(db),
		EventRepository:              NewEventRepository(db),
		OpportunityRepository:        NewOpportunityRepository(db),
		ApplicationRepository:        NewApplicationRepository(db),
		VisitRequestRepository:       NewVisitRequestRepository(db),
		TrainerAssignmentRepository:  NewTrainerAssignmentRepository(db),
		TrainerProfileRepository:     NewTrainerProfileRepository(db),
		MaterialRepository:           NewMaterialRepository(db),
		HealthCardRepository:         NewHealthCardRepository(db),
		AssessmentRepository:         NewAssessmentRepository(db),
		ArticleRepository:            NewArticleRepository(db),
		FileRepository:               NewFileRepository(db),
	}
}
