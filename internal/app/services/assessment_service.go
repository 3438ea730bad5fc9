package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/validation"
)

// skill is measured by the first three questions, will by the last two.
// Scores at or above the midpoint of the 1-5 scale classify as high.
const highScoreThreshold = 3.0

// AssessmentStore is the assessment access needed by the service
type AssessmentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Assessment, error)
	GetActiveByMember(ctx context.Context, memberID int64) (*models.Assessment, error)
	GetHistoryByMember(ctx context.Context, memberID int64) ([]models.Assessment, error)
	Create(ctx context.Context, a *models.Assessment) (int64, error)
	SaveAnswer(ctx context.Context, id int64, question, answer int) error
	Complete(ctx context.Context, id int64, skillScore, willScore float64, category models.AssessmentCategory, recommendedVerticalID *int64) error
}

// ChapterVerticalStore lists a chapter's verticals for recommendations
type ChapterVerticalStore interface {
	GetVerticals(ctx context.Context, chapterID int64) ([]models.Vertical, error)
}

// AssessmentService defines skill-will assessment operations
type AssessmentService interface {
	Start(ctx context.Context, memberID, chapterID int64) (*dto.AssessmentResponse, error)
	Get(ctx context.Context, id int64) (*dto.AssessmentResponse, error)
	GetActive(ctx context.Context, memberID int64) (*dto.AssessmentResponse, error)
	History(ctx context.Context, memberID int64) ([]dto.AssessmentResponse, error)
	SubmitAnswer(ctx context.Context, id, memberID int64, req dto.SubmitAnswerRequest) error
	Complete(ctx context.Context, id, memberID int64) (*dto.AssessmentResponse, error)
}

// AssessmentServiceImpl implements AssessmentService
type AssessmentServiceImpl struct {
	store         AssessmentStore
	verticalStore ChapterVerticalStore
	logger        zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(store AssessmentStore, verticalStore ChapterVerticalStore, logger zerolog.Logger) AssessmentService {
	return &AssessmentServiceImpl{
		store:         store,
		verticalStore: verticalStore,
		logger:        logger,
	}
}

// Start opens a new assessment for a member. A member may hold only one
// assessment that is not yet completed.
func (s *AssessmentServiceImpl) Start(ctx context.Context, memberID, chapterID int64) (*dto.AssessmentResponse, error) {
	if _, err := s.store.GetActiveByMember(ctx, memberID); err == nil {
		return nil, apperrors.ErrAssessmentActive
	} else if !errors.Is(err, apperrors.ErrAssessmentNotFound) {
		return nil, err
	}

	assessment := &models.Assessment{
		MemberID:  memberID,
		ChapterID: chapterID,
		Status:    models.AssessmentPending,
	}

	id, err := s.store.Create(ctx, assessment)
	if err != nil {
		return nil, err
	}
	assessment.ID = id

	s.logger.Info().Int64("assessmentId", id).Int64("memberId", memberID).Msg("Assessment started")

	resp := dto.NewAssessmentResponse(assessment)
	return &resp, nil
}

// Get returns an assessment by ID
func (s *AssessmentServiceImpl) Get(ctx context.Context, id int64) (*dto.AssessmentResponse, error) {
	assessment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewAssessmentResponse(assessment)
	return &resp, nil
}

// GetActive returns the member's open assessment
func (s *AssessmentServiceImpl) GetActive(ctx context.Context, memberID int64) (*dto.AssessmentResponse, error) {
	assessment, err := s.store.GetActiveByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewAssessmentResponse(assessment)
	return &resp, nil
}

// History returns the member's completed assessments, newest first
func (s *AssessmentServiceImpl) History(ctx context.Context, memberID int64) ([]dto.AssessmentResponse, error) {
	assessments, err := s.store.GetHistoryByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AssessmentResponse, 0, len(assessments))
	for i := range assessments {
		responses = append(responses, dto.NewAssessmentResponse(&assessments[i]))
	}
	return responses, nil
}

// SubmitAnswer records one answer on the member's own assessment. Answers
// may be revised freely until the assessment is completed.
func (s *AssessmentServiceImpl) SubmitAnswer(ctx context.Context, id, memberID int64, req dto.SubmitAnswerRequest) error {
	if !validation.ValidAnswer(req.Answer) {
		return apperrors.NewBadRequestError("Answer must be between 1 and 5")
	}

	assessment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assessment.MemberID != memberID {
		return apperrors.NewForbiddenError("Only the assessed member can submit answers")
	}

	return s.store.SaveAnswer(ctx, id, req.Question, req.Answer)
}

// Complete computes the skill and will scores, classifies the quadrant, and
// recommends a vertical from the member's chapter. All five answers are
// required; COMPLETED is terminal.
func (s *AssessmentServiceImpl) Complete(ctx context.Context, id, memberID int64) (*dto.AssessmentResponse, error) {
	assessment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assessment.MemberID != memberID {
		return nil, apperrors.NewForbiddenError("Only the assessed member can complete the assessment")
	}
	if assessment.Status == models.AssessmentCompleted {
		return nil, apperrors.ErrInvalidTransition
	}
	if !assessment.AllAnswered() {
		return nil, apperrors.ErrAssessmentIncomplete
	}

	skillScore := float64(*assessment.Answer1+*assessment.Answer2+*assessment.Answer3) / 3
	willScore := float64(*assessment.Answer4+*assessment.Answer5) / 2
	category := classify(skillScore, willScore)
	recommended := s.recommendVertical(ctx, assessment, category)

	if err := s.store.Complete(ctx, id, skillScore, willScore, category, recommended); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("assessmentId", id).
		Float64("skillScore", skillScore).
		Float64("willScore", willScore).
		Str("category", string(category)).
		Msg("Assessment completed")

	assessment.Status = models.AssessmentCompleted
	assessment.SkillScore = &skillScore
	assessment.WillScore = &willScore
	assessment.Category = &category
	assessment.RecommendedVerticalID = recommended
	resp := dto.NewAssessmentResponse(assessment)
	return &resp, nil
}

func classify(skillScore, willScore float64) models.AssessmentCategory {
	highSkill := skillScore >= highScoreThreshold
	highWill := willScore >= highScoreThreshold

	switch {
	case highSkill && highWill:
		return models.CategoryHighSkillHighWill
	case highSkill:
		return models.CategoryHighSkillLowWill
	case highWill:
		return models.CategoryLowSkillHighWill
	default:
		return models.CategoryLowSkillLowWill
	}
}

// recommendVertical picks a vertical from the member's chapter keyed off the
// answer sum, so the same answers always produce the same recommendation.
// A chapter without verticals yields no recommendation.
func (s *AssessmentServiceImpl) recommendVertical(ctx context.Context, assessment *models.Assessment, category models.AssessmentCategory) *int64 {
	verticals, err := s.verticalStore.GetVerticals(ctx, assessment.ChapterID)
	if err != nil || len(verticals) == 0 {
		return nil
	}

	sum := 0
	for _, answer := range assessment.Answers() {
		sum += *answer
	}
	return &verticals[sum%len(verticals)].ID
}
