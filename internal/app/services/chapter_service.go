package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/cache"
)

// CacheStore is a read-through cache with tag invalidation
type CacheStore interface {
	CacheInvalidator
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, tags ...string)
}

const chapterListCacheKey = "chapters:all"

// ChapterStore is the chapter and vertical access needed by the service
type ChapterStore interface {
	GetAll(ctx context.Context) ([]models.Chapter, error)
	GetByID(ctx context.Context, id int64) (*models.Chapter, error)
	Create(ctx context.Context, chapter *models.Chapter) (int64, error)
	Update(ctx context.Context, id int64, name, city string) error
	GetVerticals(ctx context.Context, chapterID int64) ([]models.Vertical, error)
	CreateVertical(ctx context.Context, vertical *models.Vertical) (int64, error)
}

// IndustryStore is the industry partner access needed by the service
type IndustryStore interface {
	GetAll(ctx context.Context) ([]models.Industry, error)
	GetByID(ctx context.Context, id int64) (*models.Industry, error)
	Create(ctx context.Context, industry *models.Industry) (int64, error)
}

// EventStore is the event access needed by the service
type EventStore interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetByChapter(ctx context.Context, chapterID int64) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) (int64, error)
}

// ChapterService defines chapter, vertical, industry, and event operations
type ChapterService interface {
	ListChapters(ctx context.Context) ([]models.Chapter, error)
	GetChapter(ctx context.Context, id int64) (*models.Chapter, error)
	CreateChapter(ctx context.Context, req dto.CreateChapterRequest) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, id int64, req dto.UpdateChapterRequest) error
	ListVerticals(ctx context.Context, chapterID int64) ([]models.Vertical, error)
	CreateVertical(ctx context.Context, chapterID int64, req dto.CreateVerticalRequest) (*models.Vertical, error)
	ListIndustries(ctx context.Context) ([]models.Industry, error)
	CreateIndustry(ctx context.Context, req dto.CreateIndustryRequest) (*models.Industry, error)
	ListEvents(ctx context.Context, chapterID int64) ([]models.Event, error)
	CreateEvent(ctx context.Context, chapterID, createdBy int64, req dto.CreateEventRequest) (*models.Event, error)
}

// ChapterServiceImpl implements ChapterService
type ChapterServiceImpl struct {
	store         ChapterStore
	industryStore IndustryStore
	eventStore    EventStore
	cache         CacheStore
	logger        zerolog.Logger
}

// NewChapterService creates a new ChapterService
func NewChapterService(store ChapterStore, industryStore IndustryStore, eventStore EventStore, cacheStore CacheStore, logger zerolog.Logger) ChapterService {
	return &ChapterServiceImpl{
		store:         store,
		industryStore: industryStore,
		eventStore:    eventStore,
		cache:         cacheStore,
		logger:        logger,
	}
}

// ListChapters returns all chapters, served from cache when possible
func (s *ChapterServiceImpl) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	var chapters []models.Chapter
	if s.cache != nil && s.cache.Get(ctx, chapterListCacheKey, &chapters) {
		return chapters, nil
	}

	chapters, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, chapterListCacheKey, chapters, cache.TagChapters)
	}
	return chapters, nil
}

// GetChapter returns a chapter by ID
func (s *ChapterServiceImpl) GetChapter(ctx context.Context, id int64) (*models.Chapter, error) {
	return s.store.GetByID(ctx, id)
}

// CreateChapter creates a new chapter
func (s *ChapterServiceImpl) CreateChapter(ctx context.Context, req dto.CreateChapterRequest) (*models.Chapter, error) {
	chapter := &models.Chapter{
		Name:       req.Name,
		City:       req.City,
		IsNational: req.IsNational,
	}

	id, err := s.store.Create(ctx, chapter)
	if err != nil {
		return nil, err
	}
	chapter.ID = id

	s.logger.Info().Int64("chapterId", id).Str("name", req.Name).Msg("Chapter created")
	s.invalidate(ctx)
	return chapter, nil
}

// UpdateChapter updates a chapter's name and city
func (s *ChapterServiceImpl) UpdateChapter(ctx context.Context, id int64, req dto.UpdateChapterRequest) error {
	if err := s.store.Update(ctx, id, req.Name, req.City); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListVerticals returns a chapter's verticals
func (s *ChapterServiceImpl) ListVerticals(ctx context.Context, chapterID int64) ([]models.Vertical, error) {
	if _, err := s.store.GetByID(ctx, chapterID); err != nil {
		return nil, err
	}
	return s.store.GetVerticals(ctx, chapterID)
}

// CreateVertical adds a vertical to a chapter
func (s *ChapterServiceImpl) CreateVertical(ctx context.Context, chapterID int64, req dto.CreateVerticalRequest) (*models.Vertical, error) {
	vertical := &models.Vertical{
		ChapterID: chapterID,
		Name:      req.Name,
	}

	id, err := s.store.CreateVertical(ctx, vertical)
	if err != nil {
		return nil, err
	}
	vertical.ID = id

	s.logger.Info().Int64("verticalId", id).Int64("chapterId", chapterID).Msg("Vertical created")
	s.invalidate(ctx)
	return vertical, nil
}

// ListIndustries returns all industry partners
func (s *ChapterServiceImpl) ListIndustries(ctx context.Context) ([]models.Industry, error) {
	return s.industryStore.GetAll(ctx)
}

// CreateIndustry registers a new industry partner
func (s *ChapterServiceImpl) CreateIndustry(ctx context.Context, req dto.CreateIndustryRequest) (*models.Industry, error) {
	industry := &models.Industry{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		City:         req.City,
	}

	id, err := s.industryStore.Create(ctx, industry)
	if err != nil {
		return nil, err
	}
	industry.ID = id

	s.logger.Info().Int64("industryId", id).Str("name", req.Name).Msg("Industry partner registered")
	return industry, nil
}

// ListEvents returns a chapter's events
func (s *ChapterServiceImpl) ListEvents(ctx context.Context, chapterID int64) ([]models.Event, error) {
	return s.eventStore.GetByChapter(ctx, chapterID)
}

// CreateEvent creates a chapter event
func (s *ChapterServiceImpl) CreateEvent(ctx context.Context, chapterID, createdBy int64, req dto.CreateEventRequest) (*models.Event, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.NewBadRequestError("Event end time must be after the start time")
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, apperrors.NewBadRequestError("Event start time must be in the future")
	}

	event := &models.Event{
		ChapterID:   chapterID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CreatedBy:   createdBy,
	}

	id, err := s.eventStore.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	event.ID = id

	s.logger.Info().Int64("eventId", id).Int64("chapterId", chapterID).Msg("Event created")
	return event, nil
}

func (s *ChapterServiceImpl) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.TagChapters)
	}
}
