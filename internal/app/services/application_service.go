package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/cache"
	"github.com/yiconnect/backend/internal/pkg/notify"
)

// ApplicationStore is the application access needed by the service
type ApplicationStore interface {
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	GetAll(ctx context.Context, filter dto.ApplicationListFilter, page, pageSize int) ([]models.Application, int64, error)
	HasActiveApplication(ctx context.Context, opportunityID, memberID int64) (bool, error)
	Create(ctx context.Context, a *models.Application) (int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.ApplicationStatus, reviewedBy *int64, reviewNotes *string) error
}

// ApplicationOpportunityStore is the opportunity access needed when
// processing applications
type ApplicationOpportunityStore interface {
	GetByID(ctx context.Context, id int64) (*models.Opportunity, error)
	IncrementApplications(ctx context.Context, id int64, delta int) error
	IncrementAccepted(ctx context.Context, id int64) error
	DecrementAccepted(ctx context.Context, id int64) error
}

// RecipientStore resolves notification recipients
type RecipientStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ApplicationService defines application operations
type ApplicationService interface {
	Submit(ctx context.Context, memberID int64, req dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	Get(ctx context.Context, id int64) (*dto.ApplicationResponse, error)
	List(ctx context.Context, filter dto.ApplicationListFilter, page, pageSize int) ([]dto.ApplicationResponse, int64, error)
	Review(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error)
	Shortlist(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error)
	Accept(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error)
	Decline(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, id int64, actor workflow.Actor) (*dto.ApplicationResponse, error)
}

// ApplicationServiceImpl implements ApplicationService
type ApplicationServiceImpl struct {
	store            ApplicationStore
	opportunityStore ApplicationOpportunityStore
	userStore        RecipientStore
	notifier         notify.Notifier
	cache            CacheInvalidator
	logger           zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(store ApplicationStore, opportunityStore ApplicationOpportunityStore, userStore RecipientStore, notifier notify.Notifier, cacheInvalidator CacheInvalidator, logger zerolog.Logger) ApplicationService {
	return &ApplicationServiceImpl{
		store:            store,
		opportunityStore: opportunityStore,
		userStore:        userStore,
		notifier:         notifier,
		cache:            cacheInvalidator,
		logger:           logger,
	}
}

// profileSnapshot captures the member's profile at submission time so later
// profile edits do not alter what reviewers saw.
type profileSnapshot struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	ChapterID *int64 `json:"chapterId,omitempty"`
	TakenAt   string `json:"takenAt"`
}

// Submit creates a new application against an accepting opportunity
func (s *ApplicationServiceImpl) Submit(ctx context.Context, memberID int64, req dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	opportunity, err := s.opportunityStore.GetByID(ctx, req.OpportunityID)
	if err != nil {
		return nil, err
	}

	if opportunity.Status != models.OpportunityAccepting {
		return nil, apperrors.ErrOpportunityClosed
	}
	if time.Now().After(opportunity.ApplicationDeadline) {
		return nil, apperrors.ErrOpportunityClosed
	}
	if opportunity.PositionsFilled >= opportunity.MaxParticipants {
		return nil, apperrors.ErrNoPositionsAvailable
	}

	active, err := s.store.HasActiveApplication(ctx, req.OpportunityID, memberID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperrors.ErrDuplicateApplication
	}

	member, err := s.userStore.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(profileSnapshot{
		FirstName: member.FirstName,
		LastName:  member.LastName,
		Email:     member.Email,
		ChapterID: member.ChapterID,
		TakenAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	application := &models.Application{
		OpportunityID:   req.OpportunityID,
		MemberID:        memberID,
		Status:          models.ApplicationPendingReview,
		ProfileSnapshot: string(snapshot),
		CoverNote:       req.CoverNote,
	}

	id, err := s.store.Create(ctx, application)
	if err != nil {
		return nil, err
	}
	application.ID = id

	if err := s.opportunityStore.IncrementApplications(ctx, req.OpportunityID, 1); err != nil {
		s.logger.Error().Err(err).Int64("opportunityId", req.OpportunityID).Msg("Application counter update failed")
	}

	s.logger.Info().
		Int64("applicationId", id).
		Int64("opportunityId", req.OpportunityID).
		Int64("memberId", memberID).
		Msg("Application submitted")

	s.notifyUser(notify.Event{
		Entity:   "application",
		Action:   "submit",
		To:       string(models.ApplicationPendingReview),
		EntityID: id,
		Subject:  opportunity.Title,
	}, opportunity.CreatedBy)
	s.invalidate(ctx)

	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}

// Get returns an application by ID
func (s *ApplicationServiceImpl) Get(ctx context.Context, id int64) (*dto.ApplicationResponse, error) {
	application, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}

// List returns applications matching the filter with pagination
func (s *ApplicationServiceImpl) List(ctx context.Context, filter dto.ApplicationListFilter, page, pageSize int) ([]dto.ApplicationResponse, int64, error) {
	applications, total, err := s.store.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, dto.NewApplicationResponse(&applications[i]))
	}
	return responses, total, nil
}

// Review marks an application under review
func (s *ApplicationServiceImpl) Review(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, id, workflow.ActionReview, actor, req.ReviewNotes)
}

// Shortlist moves an application to SHORTLISTED without touching the
// position counters.
func (s *ApplicationServiceImpl) Shortlist(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, id, workflow.ActionShortlist, actor, req.ReviewNotes)
}

// Accept moves an application to ACCEPTED and claims a position on the
// opportunity. When no positions remain the transition is rolled back.
func (s *ApplicationServiceImpl) Accept(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error) {
	application, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.IsOwner = application.MemberID == actor.UserID

	next, err := workflow.Applications.Apply(workflow.ActionAccept, string(application.Status), actor)
	if err != nil {
		return nil, err
	}

	// Claim the position first: the counter update enforces the capacity
	// bound atomically, so a full opportunity never over-accepts.
	if err := s.opportunityStore.IncrementAccepted(ctx, application.OpportunityID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, application.Status, models.ApplicationStatus(next), &actor.UserID, req.ReviewNotes); err != nil {
		// Release the claimed position when the status move lost a race
		if rbErr := s.opportunityStore.DecrementAccepted(ctx, application.OpportunityID); rbErr != nil {
			s.logger.Error().Err(rbErr).Int64("applicationId", id).Msg("Counter reconciliation failed")
		}
		return nil, err
	}

	s.afterTransition(ctx, application, workflow.ActionAccept, next)

	application.Status = models.ApplicationStatus(next)
	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}

// Decline moves an application to DECLINED
func (s *ApplicationServiceImpl) Decline(ctx context.Context, id int64, actor workflow.Actor, req dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, id, workflow.ActionDecline, actor, req.ReviewNotes)
}

// Withdraw lets the applicant pull a non-terminal application and releases
// its slot in the live application counter.
func (s *ApplicationServiceImpl) Withdraw(ctx context.Context, id int64, actor workflow.Actor) (*dto.ApplicationResponse, error) {
	application, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.IsOwner = application.MemberID == actor.UserID

	next, err := workflow.Applications.Apply(workflow.ActionWithdraw, string(application.Status), actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, application.Status, models.ApplicationStatus(next), nil, nil); err != nil {
		return nil, err
	}

	if err := s.opportunityStore.IncrementApplications(ctx, application.OpportunityID, -1); err != nil {
		s.logger.Error().Err(err).Int64("opportunityId", application.OpportunityID).Msg("Application counter update failed")
	}

	s.afterTransition(ctx, application, workflow.ActionWithdraw, next)

	application.Status = models.ApplicationStatus(next)
	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}

func (s *ApplicationServiceImpl) transition(ctx context.Context, id int64, action workflow.Action, actor workflow.Actor, reviewNotes *string) (*dto.ApplicationResponse, error) {
	application, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.IsOwner = application.MemberID == actor.UserID

	next, err := workflow.Applications.Apply(action, string(application.Status), actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, application.Status, models.ApplicationStatus(next), &actor.UserID, reviewNotes); err != nil {
		return nil, err
	}

	s.afterTransition(ctx, application, action, next)

	application.Status = models.ApplicationStatus(next)
	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}

func (s *ApplicationServiceImpl) afterTransition(ctx context.Context, application *models.Application, action workflow.Action, next string) {
	s.logger.Info().
		Int64("applicationId", application.ID).
		Str("action", string(action)).
		Str("from", string(application.Status)).
		Str("to", next).
		Msg("Application transitioned")

	s.notifyUser(notify.Event{
		Entity:   "application",
		Action:   string(action),
		To:       next,
		EntityID: application.ID,
		Subject:  opportunityTitle(ctx, s.opportunityStore, application.OpportunityID),
	}, application.MemberID)
	s.invalidate(ctx)
}

func (s *ApplicationServiceImpl) notifyUser(event notify.Event, userID int64) {
	recipient := notify.Recipient{UserID: userID}
	if user, err := s.userStore.GetByID(context.Background(), userID); err == nil {
		recipient.Email = user.Email
		recipient.Name = user.FirstName
	}
	s.notifier.Notify(event, recipient)
}

func (s *ApplicationServiceImpl) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagApplications, cache.TagOpportunities)
	}
}

func opportunityTitle(ctx context.Context, store ApplicationOpportunityStore, id int64) string {
	opportunity, err := store.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return opportunity.Title
}
