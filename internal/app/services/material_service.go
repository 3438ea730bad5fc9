package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/repositories"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/db"
	"github.com/yiconnect/backend/internal/pkg/cache"
	"github.com/yiconnect/backend/internal/pkg/notify"
)

// MaterialStore is the material access needed by the service. NewVersion
// hides the transaction that supersedes the parent and inserts the new
// current version.
type MaterialStore interface {
	GetByID(ctx context.Context, id int64) (*models.Material, error)
	GetByEvent(ctx context.Context, eventID int64) ([]models.Material, error)
	Create(ctx context.Context, m *models.Material) (int64, error)
	NewVersion(ctx context.Context, parent, next *models.Material) (int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.MaterialStatus, reviewNotes *string) error
}

// materialStore adapts MaterialRepository so version creation runs inside a
// single database transaction.
type materialStore struct {
	*repositories.MaterialRepository
	db *db.PostgresDB
}

// NewMaterialStore wraps the repository with transactional version creation
func NewMaterialStore(repo *repositories.MaterialRepository, database *db.PostgresDB) MaterialStore {
	return &materialStore{MaterialRepository: repo, db: database}
}

func (s *materialStore) NewVersion(ctx context.Context, parent, next *models.Material) (int64, error) {
	var id int64
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var txErr error
		id, txErr = s.CreateVersion(ctx, tx, parent, next)
		return txErr
	})
	return id, err
}

// MaterialService defines training material operations
type MaterialService interface {
	Create(ctx context.Context, uploadedBy int64, req dto.CreateMaterialRequest, fileID *int64) (*dto.MaterialResponse, error)
	Get(ctx context.Context, id int64) (*dto.MaterialResponse, error)
	ListByEvent(ctx context.Context, eventID int64) ([]dto.MaterialResponse, error)
	CreateVersion(ctx context.Context, parentID int64, actor workflow.Actor, title string, fileID *int64) (*dto.MaterialResponse, error)
	SubmitForReview(ctx context.Context, id int64, actor workflow.Actor) (*dto.MaterialResponse, error)
	Approve(ctx context.Context, id int64, actor workflow.Actor, reviewNotes *string) (*dto.MaterialResponse, error)
	RequestRevision(ctx context.Context, id int64, actor workflow.Actor, reviewNotes *string) (*dto.MaterialResponse, error)
}

// MaterialServiceImpl implements MaterialService
type MaterialServiceImpl struct {
	store     MaterialStore
	userStore RecipientStore
	notifier  notify.Notifier
	cache     CacheInvalidator
	logger    zerolog.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(store MaterialStore, userStore RecipientStore, notifier notify.Notifier, cacheInvalidator CacheInvalidator, logger zerolog.Logger) MaterialService {
	return &MaterialServiceImpl{
		store:     store,
		userStore: userStore,
		notifier:  notifier,
		cache:     cacheInvalidator,
		logger:    logger,
	}
}

// Create uploads the first version of a material in DRAFT status
func (s *MaterialServiceImpl) Create(ctx context.Context, uploadedBy int64, req dto.CreateMaterialRequest, fileID *int64) (*dto.MaterialResponse, error) {
	material := &models.Material{
		EventID:          req.EventID,
		Title:            req.Title,
		Version:          1,
		IsCurrentVersion: true,
		Status:           models.MaterialDraft,
		FileID:           fileID,
		UploadedBy:       uploadedBy,
	}

	id, err := s.store.Create(ctx, material)
	if err != nil {
		return nil, err
	}
	material.ID = id

	s.logger.Info().Int64("materialId", id).Int64("eventId", req.EventID).Msg("Material created")
	s.invalidate(ctx)

	resp := dto.NewMaterialResponse(material)
	return &resp, nil
}

// Get returns a material version by ID
func (s *MaterialServiceImpl) Get(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	material, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewMaterialResponse(material)
	return &resp, nil
}

// ListByEvent returns every material version for an event, newest first
func (s *MaterialServiceImpl) ListByEvent(ctx context.Context, eventID int64) ([]dto.MaterialResponse, error) {
	materials, err := s.store.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		responses = append(responses, dto.NewMaterialResponse(&materials[i]))
	}
	return responses, nil
}

// CreateVersion supersedes the current version and inserts the next one as
// a DRAFT in the same lineage. The supersede and the insert happen in one
// transaction so the one-current-version rule holds under concurrency.
func (s *MaterialServiceImpl) CreateVersion(ctx context.Context, parentID int64, actor workflow.Actor, title string, fileID *int64) (*dto.MaterialResponse, error) {
	parent, err := s.store.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = parent.Title
	}
	next := &models.Material{
		EventID:          parent.EventID,
		Title:            title,
		Version:          parent.Version + 1,
		ParentMaterialID: &parent.ID,
		IsCurrentVersion: true,
		Status:           models.MaterialDraft,
		FileID:           fileID,
		UploadedBy:       actor.UserID,
	}

	id, err := s.store.NewVersion(ctx, parent, next)
	if err != nil {
		return nil, err
	}
	next.ID = id

	s.logger.Info().
		Int64("materialId", id).
		Int64("parentId", parentID).
		Int("version", next.Version).
		Msg("Material version created")
	s.invalidate(ctx)

	resp := dto.NewMaterialResponse(next)
	return &resp, nil
}

// SubmitForReview moves a draft or revision-requested material to PENDING_REVIEW
func (s *MaterialServiceImpl) SubmitForReview(ctx context.Context, id int64, actor workflow.Actor) (*dto.MaterialResponse, error) {
	return s.transition(ctx, id, workflow.ActionSubmitReview, actor, nil)
}

// Approve accepts a pending material version
func (s *MaterialServiceImpl) Approve(ctx context.Context, id int64, actor workflow.Actor, reviewNotes *string) (*dto.MaterialResponse, error) {
	return s.transition(ctx, id, workflow.ActionApprove, actor, reviewNotes)
}

// RequestRevision sends a pending material back to its uploader
func (s *MaterialServiceImpl) RequestRevision(ctx context.Context, id int64, actor workflow.Actor, reviewNotes *string) (*dto.MaterialResponse, error) {
	return s.transition(ctx, id, workflow.ActionRequestRevision, actor, reviewNotes)
}

func (s *MaterialServiceImpl) transition(ctx context.Context, id int64, action workflow.Action, actor workflow.Actor, reviewNotes *string) (*dto.MaterialResponse, error) {
	material, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.IsOwner = material.UploadedBy == actor.UserID

	next, err := workflow.Materials.Apply(action, string(material.Status), actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, material.Status, models.MaterialStatus(next), reviewNotes); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("materialId", id).
		Str("action", string(action)).
		Str("from", string(material.Status)).
		Str("to", next).
		Msg("Material transitioned")

	recipient := notify.Recipient{UserID: material.UploadedBy}
	if user, err := s.userStore.GetByID(ctx, material.UploadedBy); err == nil {
		recipient.Email = user.Email
		recipient.Name = user.FirstName
	}
	s.notifier.Notify(notify.Event{
		Entity:   "material",
		Action:   string(action),
		To:       next,
		EntityID: id,
		Subject:  material.Title,
	}, recipient)
	s.invalidate(ctx)

	material.Status = models.MaterialStatus(next)
	if reviewNotes != nil {
		material.ReviewNotes = reviewNotes
	}
	resp := dto.NewMaterialResponse(material)
	return &resp, nil
}

func (s *MaterialServiceImpl) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagMaterials)
	}
}
