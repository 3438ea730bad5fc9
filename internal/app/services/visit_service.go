package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/cache"
	"github.com/yiconnect/backend/internal/pkg/notify"
)

// VisitRequestStore is the visit request access needed by the service
type VisitRequestStore interface {
	GetByID(ctx context.Context, id int64) (*models.VisitRequest, error)
	GetAll(ctx context.Context, chapterID *int64, status *models.VisitRequestStatus, page, pageSize int) ([]models.VisitRequest, int64, error)
	Create(ctx context.Context, v *models.VisitRequest) (int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.VisitRequestStatus, scheduledFor *time.Time) error
	AttachMouFile(ctx context.Context, id, fileID int64) error
}

// VisitService defines industry visit request operations
type VisitService interface {
	Create(ctx context.Context, chapterID, requestedBy int64, req dto.CreateVisitRequestRequest) (*dto.VisitRequestResponse, error)
	Get(ctx context.Context, id int64) (*dto.VisitRequestResponse, error)
	List(ctx context.Context, chapterID *int64, status *models.VisitRequestStatus, page, pageSize int) ([]dto.VisitRequestResponse, int64, error)
	Approve(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error)
	Forward(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error)
	Schedule(ctx context.Context, id int64, actor workflow.Actor, req dto.ScheduleVisitRequest) (*dto.VisitRequestResponse, error)
	Complete(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error)
	Cancel(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error)
	AttachMou(ctx context.Context, id, fileID int64) error
}

// VisitServiceImpl implements VisitService
type VisitServiceImpl struct {
	store     VisitRequestStore
	userStore RecipientStore
	notifier  notify.Notifier
	cache     CacheInvalidator
	logger    zerolog.Logger
}

// NewVisitService creates a new VisitService
func NewVisitService(store VisitRequestStore, userStore RecipientStore, notifier notify.Notifier, cacheInvalidator CacheInvalidator, logger zerolog.Logger) VisitService {
	return &VisitServiceImpl{
		store:     store,
		userStore: userStore,
		notifier:  notifier,
		cache:     cacheInvalidator,
		logger:    logger,
	}
}

// Create files a new visit request pending Yi review
func (s *VisitServiceImpl) Create(ctx context.Context, chapterID, requestedBy int64, req dto.CreateVisitRequestRequest) (*dto.VisitRequestResponse, error) {
	if !req.PreferredDate.After(time.Now()) {
		return nil, apperrors.NewBadRequestError("Preferred date must be in the future")
	}

	request := &models.VisitRequest{
		ChapterID:     chapterID,
		IndustryID:    req.IndustryID,
		RequestedBy:   requestedBy,
		Purpose:       req.Purpose,
		PreferredDate: req.PreferredDate,
		GroupSize:     req.GroupSize,
		Status:        models.VisitPendingYiReview,
	}

	id, err := s.store.Create(ctx, request)
	if err != nil {
		return nil, err
	}
	request.ID = id

	s.logger.Info().Int64("visitRequestId", id).Int64("chapterId", chapterID).Msg("Visit request created")
	s.invalidate(ctx)

	resp := dto.NewVisitRequestResponse(request)
	return &resp, nil
}

// Get returns a visit request by ID
func (s *VisitServiceImpl) Get(ctx context.Context, id int64) (*dto.VisitRequestResponse, error) {
	request, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewVisitRequestResponse(request)
	return &resp, nil
}

// List returns visit requests with pagination
func (s *VisitServiceImpl) List(ctx context.Context, chapterID *int64, status *models.VisitRequestStatus, page, pageSize int) ([]dto.VisitRequestResponse, int64, error) {
	requests, total, err := s.store.GetAll(ctx, chapterID, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.VisitRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, dto.NewVisitRequestResponse(&requests[i]))
	}
	return responses, total, nil
}

// Approve moves a pending request to YI_APPROVED
func (s *VisitServiceImpl) Approve(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error) {
	return s.transition(ctx, id, workflow.ActionApprove, actor, nil)
}

// Forward sends an approved request on to the industry partner
func (s *VisitServiceImpl) Forward(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error) {
	return s.transition(ctx, id, workflow.ActionForward, actor, nil)
}

// Schedule fixes the visit date for a forwarded request
func (s *VisitServiceImpl) Schedule(ctx context.Context, id int64, actor workflow.Actor, req dto.ScheduleVisitRequest) (*dto.VisitRequestResponse, error) {
	if !req.ScheduledFor.After(time.Now()) {
		return nil, apperrors.NewBadRequestError("Scheduled date must be in the future")
	}
	return s.transition(ctx, id, workflow.ActionSchedule, actor, &req.ScheduledFor)
}

// Complete marks a scheduled visit as held
func (s *VisitServiceImpl) Complete(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error) {
	return s.transition(ctx, id, workflow.ActionComplete, actor, nil)
}

// Cancel aborts a visit request from any non-terminal state
func (s *VisitServiceImpl) Cancel(ctx context.Context, id int64, actor workflow.Actor) (*dto.VisitRequestResponse, error) {
	return s.transition(ctx, id, workflow.ActionCancel, actor, nil)
}

// AttachMou records the signed MoU file for a visit request
func (s *VisitServiceImpl) AttachMou(ctx context.Context, id, fileID int64) error {
	if err := s.store.AttachMouFile(ctx, id, fileID); err != nil {
		return err
	}
	s.logger.Info().Int64("visitRequestId", id).Int64("fileId", fileID).Msg("MoU attached to visit request")
	return nil
}

func (s *VisitServiceImpl) transition(ctx context.Context, id int64, action workflow.Action, actor workflow.Actor, scheduledFor *time.Time) (*dto.VisitRequestResponse, error) {
	request, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.IsOwner = request.RequestedBy == actor.UserID

	next, err := workflow.VisitRequests.Apply(action, string(request.Status), actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, request.Status, models.VisitRequestStatus(next), scheduledFor); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("visitRequestId", id).
		Str("action", string(action)).
		Str("from", string(request.Status)).
		Str("to", next).
		Msg("Visit request transitioned")

	recipient := notify.Recipient{UserID: request.RequestedBy}
	if user, err := s.userStore.GetByID(ctx, request.RequestedBy); err == nil {
		recipient.Email = user.Email
		recipient.Name = user.FirstName
	}
	s.notifier.Notify(notify.Event{
		Entity:   "visit_request",
		Action:   string(action),
		To:       next,
		EntityID: id,
		Subject:  request.Purpose,
	}, recipient)
	s.invalidate(ctx)

	request.Status = models.VisitRequestStatus(next)
	if scheduledFor != nil {
		request.ScheduledFor = scheduledFor
	}
	resp := dto.NewVisitRequestResponse(request)
	return &resp, nil
}

func (s *VisitServiceImpl) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagVisits)
	}
}
