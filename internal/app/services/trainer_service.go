package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/cache"
	"github.com/yiconnect/backend/internal/pkg/email"
	"github.com/yiconnect/backend/internal/pkg/notify"
)

// TrainerAssignmentStore is the assignment access needed by the service
type TrainerAssignmentStore interface {
	GetByID(ctx context.Context, id int64) (*models.TrainerAssignment, error)
	GetByToken(ctx context.Context, token string) (*models.TrainerAssignment, error)
	GetByEvent(ctx context.Context, eventID int64) ([]models.TrainerAssignment, error)
	GetByTrainer(ctx context.Context, trainerID int64) ([]models.TrainerAssignment, error)
	Create(ctx context.Context, a *models.TrainerAssignment) (int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.AssignmentStatus, invitationToken *string) error
	SetTrainerRating(ctx context.Context, id int64, rating int) error
	SetCoordinatorRating(ctx context.Context, id int64, rating int) error
}

// TrainerProfileStore is the trainer profile access needed by the service
type TrainerProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.TrainerProfile, error)
	Upsert(ctx context.Context, profile *models.TrainerProfile) error
	RecordDeliveredSession(ctx context.Context, userID int64, rating *int) error
}

// AssignmentEventStore resolves events referenced by assignments
type AssignmentEventStore interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// TrainerService defines trainer assignment operations
type TrainerService interface {
	UpsertProfile(ctx context.Context, userID int64, req dto.TrainerProfileRequest) error
	GetProfile(ctx context.Context, userID int64) (*dto.TrainerProfileResponse, error)
	Select(ctx context.Context, actor workflow.Actor, req dto.SelectTrainerRequest) (*dto.TrainerAssignmentResponse, error)
	Invite(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error)
	RespondByToken(ctx context.Context, req dto.RespondToInvitationRequest) (*dto.TrainerAssignmentResponse, error)
	Confirm(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error)
	Complete(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error)
	Cancel(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error)
	RateTrainer(ctx context.Context, id int64, actor workflow.Actor, rating int) error
	RateCoordinator(ctx context.Context, id int64, actor workflow.Actor, rating int) error
	ListByEvent(ctx context.Context, eventID int64) ([]dto.TrainerAssignmentResponse, error)
	ListByTrainer(ctx context.Context, trainerID int64) ([]dto.TrainerAssignmentResponse, error)
}

// TrainerServiceImpl implements TrainerService
type TrainerServiceImpl struct {
	store        TrainerAssignmentStore
	profileStore TrainerProfileStore
	eventStore   AssignmentEventStore
	userStore    RecipientStore
	emailService email.EmailService
	notifier     notify.Notifier
	cache        CacheInvalidator
	logger       zerolog.Logger
}

// NewTrainerService creates a new TrainerService
func NewTrainerService(store TrainerAssignmentStore, profileStore TrainerProfileStore, eventStore AssignmentEventStore, userStore RecipientStore, emailService email.EmailService, notifier notify.Notifier, cacheInvalidator CacheInvalidator, logger zerolog.Logger) TrainerService {
	return &TrainerServiceImpl{
		store:        store,
		profileStore: profileStore,
		eventStore:   eventStore,
		userStore:    userStore,
		emailService: emailService,
		notifier:     notifier,
		cache:        cacheInvalidator,
		logger:       logger,
	}
}

// UpsertProfile creates or updates a trainer's profile
func (s *TrainerServiceImpl) UpsertProfile(ctx context.Context, userID int64, req dto.TrainerProfileRequest) error {
	return s.profileStore.Upsert(ctx, &models.TrainerProfile{
		UserID:    userID,
		Expertise: req.Expertise,
		City:      req.City,
	})
}

// GetProfile returns a trainer's profile
func (s *TrainerServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.TrainerProfileResponse, error) {
	profile, err := s.profileStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.TrainerProfileResponse{
		ID:                profile.ID,
		UserID:            profile.UserID,
		Expertise:         profile.Expertise,
		City:              profile.City,
		SessionsDelivered: profile.SessionsDelivered,
		AverageRating:     profile.AverageRating,
	}, nil
}

// scoreBreakdown records how a match score was composed
type scoreBreakdown struct {
	ExpertiseOverlap float64 `json:"expertiseOverlap"`
	TrackRecord      float64 `json:"trackRecord"`
	Rating           float64 `json:"rating"`
}

// computeMatchScore scores how well a trainer fits an event on a 0-100
// scale: expertise keyword overlap with the event description (up to 50),
// delivery history (up to 30), and average rating (up to 20).
func computeMatchScore(profile *models.TrainerProfile, event *models.Event) (float64, scoreBreakdown) {
	var breakdown scoreBreakdown

	haystack := strings.ToLower(event.Title + " " + event.Description)
	keywords := strings.FieldsFunc(strings.ToLower(profile.Expertise), func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	matched := 0
	counted := 0
	for _, keyword := range keywords {
		if len(keyword) < 3 {
			continue
		}
		counted++
		if strings.Contains(haystack, keyword) {
			matched++
		}
	}
	if counted > 0 {
		breakdown.ExpertiseOverlap = 50 * float64(matched) / float64(counted)
	}

	track := float64(profile.SessionsDelivered) * 3
	if track > 30 {
		track = 30
	}
	breakdown.TrackRecord = track

	if profile.AverageRating != nil {
		breakdown.Rating = (*profile.AverageRating / 5) * 20
	}

	return breakdown.ExpertiseOverlap + breakdown.TrackRecord + breakdown.Rating, breakdown
}

// Select creates an assignment in SELECTED status with a computed match score
func (s *TrainerServiceImpl) Select(ctx context.Context, actor workflow.Actor, req dto.SelectTrainerRequest) (*dto.TrainerAssignmentResponse, error) {
	event, err := s.eventStore.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileStore.GetByUserID(ctx, req.TrainerID)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Selected user has no trainer profile")
	}

	score, breakdown := computeMatchScore(profile, event)
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, err
	}
	breakdownStr := string(breakdownJSON)

	assignment := &models.TrainerAssignment{
		EventID:        req.EventID,
		TrainerID:      req.TrainerID,
		Status:         models.AssignmentSelected,
		MatchScore:     &score,
		ScoreBreakdown: &breakdownStr,
		AssignedBy:     actor.UserID,
	}

	id, err := s.store.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id

	s.logger.Info().
		Int64("assignmentId", id).
		Int64("eventId", req.EventID).
		Int64("trainerId", req.TrainerID).
		Float64("matchScore", score).
		Msg("Trainer selected")
	s.invalidate(ctx)

	resp := dto.NewTrainerAssignmentResponse(assignment)
	return &resp, nil
}

// Invite moves a selected assignment to INVITED, generates the invitation
// token and emails it to the trainer.
func (s *TrainerServiceImpl) Invite(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error) {
	assignment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := workflow.TrainerAssignments.Apply(workflow.ActionInvite, string(assignment.Status), actor)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	if err := s.store.UpdateStatus(ctx, id, assignment.Status, models.AssignmentStatus(next), &token); err != nil {
		return nil, err
	}

	eventTitle := ""
	if event, err := s.eventStore.GetByID(ctx, assignment.EventID); err == nil {
		eventTitle = event.Title
	}

	if trainer, err := s.userStore.GetByID(ctx, assignment.TrainerID); err == nil {
		if err := s.emailService.SendTrainerInvitationEmail(trainer.Email, trainer.FirstName, eventTitle, token); err != nil {
			s.logger.Warn().Err(err).Int64("assignmentId", id).Msg("Invitation email failed")
		}
	}

	s.afterTransition(ctx, assignment, workflow.ActionInvite, next, eventTitle, assignment.TrainerID)

	assignment.Status = models.AssignmentStatus(next)
	resp := dto.NewTrainerAssignmentResponse(assignment)
	return &resp, nil
}

// RespondByToken lets a trainer accept or decline an invitation using the
// emailed token instead of a session.
func (s *TrainerServiceImpl) RespondByToken(ctx context.Context, req dto.RespondToInvitationRequest) (*dto.TrainerAssignmentResponse, error) {
	assignment, err := s.store.GetByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	action := workflow.ActionDecline
	if req.Accept {
		action = workflow.ActionAccept
	}

	actor := workflow.Actor{UserID: assignment.TrainerID, Role: models.RoleTrainer, IsOwner: true}
	next, err := workflow.TrainerAssignments.Apply(action, string(assignment.Status), actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, assignment.ID, assignment.Status, models.AssignmentStatus(next), nil); err != nil {
		return nil, err
	}

	eventTitle := ""
	if event, err := s.eventStore.GetByID(ctx, assignment.EventID); err == nil {
		eventTitle = event.Title
	}
	s.afterTransition(ctx, assignment, action, next, eventTitle, assignment.AssignedBy)

	assignment.Status = models.AssignmentStatus(next)
	resp := dto.NewTrainerAssignmentResponse(assignment)
	return &resp, nil
}

// Confirm locks in an accepted assignment
func (s *TrainerServiceImpl) Confirm(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error) {
	return s.transition(ctx, id, workflow.ActionConfirm, actor)
}

// Complete marks a confirmed assignment delivered and updates the trainer's
// session history.
func (s *TrainerServiceImpl) Complete(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error) {
	resp, err := s.transition(ctx, id, workflow.ActionComplete, actor)
	if err != nil {
		return nil, err
	}

	if err := s.profileStore.RecordDeliveredSession(ctx, resp.TrainerID, nil); err != nil {
		s.logger.Warn().Err(err).Int64("assignmentId", id).Msg("Session history update failed")
	}
	return resp, nil
}

// Cancel aborts an assignment from any non-terminal state
func (s *TrainerServiceImpl) Cancel(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error) {
	return s.transition(ctx, id, workflow.ActionCancel, actor)
}

// RateTrainer records the coordinator's rating of the trainer after delivery
func (s *TrainerServiceImpl) RateTrainer(ctx context.Context, id int64, actor workflow.Actor, rating int) error {
	assignment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.SetTrainerRating(ctx, id, rating); err != nil {
		return err
	}

	if err := s.profileStore.RecordDeliveredSession(ctx, assignment.TrainerID, &rating); err != nil {
		s.logger.Warn().Err(err).Int64("assignmentId", id).Msg("Rating history update failed")
	}
	return nil
}

// RateCoordinator records the trainer's rating of the engagement
func (s *TrainerServiceImpl) RateCoordinator(ctx context.Context, id int64, actor workflow.Actor, rating int) error {
	assignment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assignment.TrainerID != actor.UserID {
		return apperrors.NewForbiddenError("Only the assigned trainer can rate the engagement")
	}

	return s.store.SetCoordinatorRating(ctx, id, rating)
}

// ListByEvent returns the assignments for an event
func (s *TrainerServiceImpl) ListByEvent(ctx context.Context, eventID int64) ([]dto.TrainerAssignmentResponse, error) {
	assignments, err := s.store.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return mapAssignments(assignments), nil
}

// ListByTrainer returns a trainer's assignments
func (s *TrainerServiceImpl) ListByTrainer(ctx context.Context, trainerID int64) ([]dto.TrainerAssignmentResponse, error) {
	assignments, err := s.store.GetByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	return mapAssignments(assignments), nil
}

func mapAssignments(assignments []models.TrainerAssignment) []dto.TrainerAssignmentResponse {
	responses := make([]dto.TrainerAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		responses = append(responses, dto.NewTrainerAssignmentResponse(&assignments[i]))
	}
	return responses
}

func (s *TrainerServiceImpl) transition(ctx context.Context, id int64, action workflow.Action, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error) {
	assignment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.IsOwner = assignment.TrainerID == actor.UserID

	next, err := workflow.TrainerAssignments.Apply(action, string(assignment.Status), actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, assignment.Status, models.AssignmentStatus(next), nil); err != nil {
		return nil, err
	}

	eventTitle := ""
	if event, err := s.eventStore.GetByID(ctx, assignment.EventID); err == nil {
		eventTitle = event.Title
	}
	s.afterTransition(ctx, assignment, action, next, eventTitle, assignment.TrainerID)

	assignment.Status = models.AssignmentStatus(next)
	resp := dto.NewTrainerAssignmentResponse(assignment)
	return &resp, nil
}

func (s *TrainerServiceImpl) afterTransition(ctx context.Context, assignment *models.TrainerAssignment, action workflow.Action, next, eventTitle string, recipientID int64) {
	s.logger.Info().
		Int64("assignmentId", assignment.ID).
		Str("action", string(action)).
		Str("from", string(assignment.Status)).
		Str("to", next).
		Msg("Trainer assignment transitioned")

	recipient := notify.Recipient{UserID: recipientID}
	if user, err := s.userStore.GetByID(ctx, recipientID); err == nil {
		recipient.Email = user.Email
		recipient.Name = user.FirstName
	}
	s.notifier.Notify(notify.Event{
		Entity:   "trainer_assignment",
		Action:   string(action),
		To:       next,
		EntityID: assignment.ID,
		Subject:  eventTitle,
	}, recipient)
	s.invalidate(ctx)
}

func (s *TrainerServiceImpl) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagAssignments)
	}
}
