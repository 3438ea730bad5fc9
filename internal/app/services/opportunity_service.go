package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/cache"
	"github.com/yiconnect/backend/internal/pkg/notify"
)

// CacheInvalidator drops cached list views by tag
type CacheInvalidator interface {
	Invalidate(ctx context.Context, tags ...string)
}

// OpportunityStore is the opportunity access needed by the service
type OpportunityStore interface {
	GetByID(ctx context.Context, id int64) (*models.Opportunity, error)
	GetAll(ctx context.Context, filter dto.OpportunityListFilter, page, pageSize int) ([]models.Opportunity, int64, error)
	Create(ctx context.Context, o *models.Opportunity) (int64, error)
	Update(ctx context.Context, id int64, req dto.UpdateOpportunityRequest) error
	UpdateStatus(ctx context.Context, id int64, from, to models.OpportunityStatus) error
	IncrementViewCount(ctx context.Context, id int64) error
	IncrementBookmarkCount(ctx context.Context, id int64, delta int) error
	CloseExpired(ctx context.Context, now time.Time) ([]int64, error)
}

// OpportunityService defines opportunity operations
type OpportunityService interface {
	Create(ctx context.Context, creatorID int64, req dto.CreateOpportunityRequest) (*dto.OpportunityResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateOpportunityRequest) (*dto.OpportunityResponse, error)
	Get(ctx context.Context, id int64) (*dto.OpportunityResponse, error)
	List(ctx context.Context, filter dto.OpportunityListFilter, page, pageSize int) ([]dto.OpportunityResponse, int64, error)
	Publish(ctx context.Context, id int64, actor workflow.Actor) (*dto.OpportunityResponse, error)
	Close(ctx context.Context, id int64, actor workflow.Actor) (*dto.OpportunityResponse, error)
	Bookmark(ctx context.Context, id int64) error
	Unbookmark(ctx context.Context, id int64) error
	CloseExpired(ctx context.Context) (int, error)
}

// OpportunityServiceImpl implements OpportunityService
type OpportunityServiceImpl struct {
	store    OpportunityStore
	notifier notify.Notifier
	cache    CacheInvalidator
	logger   zerolog.Logger
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(store OpportunityStore, notifier notify.Notifier, cacheInvalidator CacheInvalidator, logger zerolog.Logger) OpportunityService {
	return &OpportunityServiceImpl{
		store:    store,
		notifier: notifier,
		cache:    cacheInvalidator,
		logger:   logger,
	}
}

// Create creates an opportunity in DRAFT status
func (s *OpportunityServiceImpl) Create(ctx context.Context, creatorID int64, req dto.CreateOpportunityRequest) (*dto.OpportunityResponse, error) {
	if !models.IsValidOpportunityType(req.Type) {
		return nil, apperrors.NewBadRequestError("Unknown opportunity type")
	}
	if !req.ApplicationDeadline.After(time.Now()) {
		return nil, apperrors.NewBadRequestError("Application deadline must be in the future")
	}

	opportunity := &models.Opportunity{
		Title:               req.Title,
		Description:         req.Description,
		Type:                req.Type,
		Status:              models.OpportunityDraft,
		ChapterID:           req.ChapterID,
		IndustryID:          req.IndustryID,
		CreatedBy:           creatorID,
		MaxParticipants:     req.MaxParticipants,
		ApplicationDeadline: req.ApplicationDeadline,
	}

	id, err := s.store.Create(ctx, opportunity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("opportunityId", id).Str("type", string(req.Type)).Msg("Opportunity draft created")
	s.invalidate(ctx)

	return s.Get(ctx, id)
}

// Update edits a draft opportunity. Published opportunities are immutable
// apart from their status.
func (s *OpportunityServiceImpl) Update(ctx context.Context, id int64, req dto.UpdateOpportunityRequest) (*dto.OpportunityResponse, error) {
	opportunity, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if opportunity.Status != models.OpportunityDraft {
		return nil, apperrors.NewConflictError("Only draft opportunities can be edited")
	}

	if err := s.store.Update(ctx, id, req); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Get returns an opportunity and bumps its view counter
func (s *OpportunityServiceImpl) Get(ctx context.Context, id int64) (*dto.OpportunityResponse, error) {
	opportunity, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("opportunityId", id).Msg("View counter update failed")
	}

	resp := dto.NewOpportunityResponse(opportunity)
	return &resp, nil
}

// List returns opportunities matching the filter with pagination
func (s *OpportunityServiceImpl) List(ctx context.Context, filter dto.OpportunityListFilter, page, pageSize int) ([]dto.OpportunityResponse, int64, error) {
	opportunities, total, err := s.store.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.OpportunityResponse, 0, len(opportunities))
	for i := range opportunities {
		responses = append(responses, dto.NewOpportunityResponse(&opportunities[i]))
	}
	return responses, total, nil
}

// Publish moves a draft opportunity to ACCEPTING_APPLICATIONS
func (s *OpportunityServiceImpl) Publish(ctx context.Context, id int64, actor workflow.Actor) (*dto.OpportunityResponse, error) {
	return s.transition(ctx, id, workflow.ActionPublish, actor)
}

// Close moves an accepting opportunity to CLOSED
func (s *OpportunityServiceImpl) Close(ctx context.Context, id int64, actor workflow.Actor) (*dto.OpportunityResponse, error) {
	return s.transition(ctx, id, workflow.ActionClose, actor)
}

func (s *OpportunityServiceImpl) transition(ctx context.Context, id int64, action workflow.Action, actor workflow.Actor) (*dto.OpportunityResponse, error) {
	opportunity, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.IsOwner = opportunity.CreatedBy == actor.UserID

	next, err := workflow.Opportunities.Apply(action, string(opportunity.Status), actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, opportunity.Status, models.OpportunityStatus(next)); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("opportunityId", id).
		Str("action", string(action)).
		Str("from", string(opportunity.Status)).
		Str("to", next).
		Msg("Opportunity transitioned")

	s.notifier.Notify(notify.Event{
		Entity:   "opportunity",
		Action:   string(action),
		To:       next,
		EntityID: id,
		Subject:  opportunity.Title,
	})
	s.invalidate(ctx)

	opportunity.Status = models.OpportunityStatus(next)
	resp := dto.NewOpportunityResponse(opportunity)
	return &resp, nil
}

// Bookmark bumps an opportunity's bookmark counter
func (s *OpportunityServiceImpl) Bookmark(ctx context.Context, id int64) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.IncrementBookmarkCount(ctx, id, 1); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Unbookmark decrements the bookmark counter, never below zero
func (s *OpportunityServiceImpl) Unbookmark(ctx context.Context, id int64) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.IncrementBookmarkCount(ctx, id, -1); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// CloseExpired closes every accepting opportunity past its deadline. Returns
// the number of opportunities closed. Called by the scheduled sweep.
func (s *OpportunityServiceImpl) CloseExpired(ctx context.Context) (int, error) {
	ids, err := s.store.CloseExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("deadline sweep failed: %w", err)
	}

	if len(ids) > 0 {
		s.logger.Info().Ints64("opportunityIds", ids).Msg("Closed opportunities past deadline")
		s.invalidate(ctx)
	}
	return len(ids), nil
}

func (s *OpportunityServiceImpl) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagOpportunities)
	}
}
