package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/cache"
	"github.com/yiconnect/backend/internal/pkg/validation"
)

// HealthCardStore is the activity entry access needed by the service
type HealthCardStore interface {
	Create(ctx context.Context, e *models.HealthCardEntry) (int64, error)
	Delete(ctx context.Context, id, chapterID int64) error
	GetByChapter(ctx context.Context, chapterID int64, year int) ([]models.HealthCardEntry, error)
	SummaryByChapter(ctx context.Context, chapterID int64, year int) ([]models.HealthCardSummary, error)
}

// VerticalStore resolves verticals for ownership checks
type VerticalStore interface {
	GetVerticalByID(ctx context.Context, id int64) (*models.Vertical, error)
}

// HealthCardService defines chapter activity reporting operations
type HealthCardService interface {
	CreateEntry(ctx context.Context, chapterID, createdBy int64, req dto.CreateHealthCardEntryRequest) (*dto.HealthCardEntryResponse, error)
	DeleteEntry(ctx context.Context, chapterID, entryID int64) error
	ListEntries(ctx context.Context, chapterID int64, year int) ([]dto.HealthCardEntryResponse, error)
	Summary(ctx context.Context, chapterID int64, year int) (*dto.HealthCardSummaryResponse, error)
}

// HealthCardServiceImpl implements HealthCardService
type HealthCardServiceImpl struct {
	store         HealthCardStore
	verticalStore VerticalStore
	cache         CacheInvalidator
	logger        zerolog.Logger
}

// NewHealthCardService creates a new HealthCardService
func NewHealthCardService(store HealthCardStore, verticalStore VerticalStore, cacheInvalidator CacheInvalidator, logger zerolog.Logger) HealthCardService {
	return &HealthCardServiceImpl{
		store:         store,
		verticalStore: verticalStore,
		cache:         cacheInvalidator,
		logger:        logger,
	}
}

// CreateEntry records an immutable activity entry for a chapter vertical.
// The vertical must belong to the chapter the entry is logged under.
func (s *HealthCardServiceImpl) CreateEntry(ctx context.Context, chapterID, createdBy int64, req dto.CreateHealthCardEntryRequest) (*dto.HealthCardEntryResponse, error) {
	if !validation.ValidActivityDate(req.ActivityDate) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf(
			"Activity date must fall between %d and %d",
			validation.ActivityYearMin, validation.ActivityYearMax))
	}

	vertical, err := s.verticalStore.GetVerticalByID(ctx, req.VerticalID)
	if err != nil {
		return nil, err
	}
	if vertical.ChapterID != chapterID {
		return nil, apperrors.NewBadRequestError("Vertical does not belong to this chapter")
	}

	entry := &models.HealthCardEntry{
		ChapterID:    chapterID,
		VerticalID:   req.VerticalID,
		ActivityDate: req.ActivityDate,
		ECCount:      req.ECCount,
		NonECCount:   req.NonECCount,
		Description:  req.Description,
		CreatedBy:    createdBy,
	}

	id, err := s.store.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	s.logger.Info().
		Int64("entryId", id).
		Int64("chapterId", chapterID).
		Int64("verticalId", req.VerticalID).
		Msg("Health card entry recorded")
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagHealthCards)
	}

	resp := dto.NewHealthCardEntryResponse(entry)
	return &resp, nil
}

// DeleteEntry removes an activity entry. Entries are otherwise immutable, so
// this is the only way to take one off the card.
func (s *HealthCardServiceImpl) DeleteEntry(ctx context.Context, chapterID, entryID int64) error {
	if err := s.store.Delete(ctx, entryID, chapterID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("entryId", entryID).
		Int64("chapterId", chapterID).
		Msg("Health card entry deleted")
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagHealthCards)
	}
	return nil
}

// ListEntries returns a chapter's entries for a calendar year
func (s *HealthCardServiceImpl) ListEntries(ctx context.Context, chapterID int64, year int) ([]dto.HealthCardEntryResponse, error) {
	entries, err := s.store.GetByChapter(ctx, chapterID, year)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.HealthCardEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, dto.NewHealthCardEntryResponse(&entries[i]))
	}
	return responses, nil
}

// Summary aggregates a chapter's activity per vertical for a calendar year
func (s *HealthCardServiceImpl) Summary(ctx context.Context, chapterID int64, year int) (*dto.HealthCardSummaryResponse, error) {
	summaries, err := s.store.SummaryByChapter(ctx, chapterID, year)
	if err != nil {
		return nil, err
	}

	return &dto.HealthCardSummaryResponse{
		ChapterID: chapterID,
		Year:      year,
		Verticals: summaries,
	}, nil
}
