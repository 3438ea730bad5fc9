package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

type fakeChapterStore struct {
	chapters   map[int64]*models.Chapter
	verticals  map[int64][]models.Vertical
	nextID     int64
	getAllHits int
}

func newFakeChapterStore() *fakeChapterStore {
	return &fakeChapterStore{
		chapters:  make(map[int64]*models.Chapter),
		verticals: make(map[int64][]models.Vertical),
		nextID:    1,
	}
}

func (f *fakeChapterStore) GetAll(ctx context.Context) ([]models.Chapter, error) {
	f.getAllHits++
	var out []models.Chapter
	for _, c := range f.chapters {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeChapterStore) GetByID(ctx context.Context, id int64) (*models.Chapter, error) {
	c, ok := f.chapters[id]
	if !ok {
		return nil, apperrors.ErrChapterNotFound
	}
	copy := *c
	return &copy, nil
}

func (f *fakeChapterStore) Create(ctx context.Context, chapter *models.Chapter) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *chapter
	stored.ID = id
	f.chapters[id] = &stored
	return id, nil
}

func (f *fakeChapterStore) Update(ctx context.Context, id int64, name, city string) error {
	c, ok := f.chapters[id]
	if !ok {
		return apperrors.ErrChapterNotFound
	}
	c.Name = name
	c.City = city
	return nil
}

func (f *fakeChapterStore) GetVerticals(ctx context.Context, chapterID int64) ([]models.Vertical, error) {
	return f.verticals[chapterID], nil
}

func (f *fakeChapterStore) CreateVertical(ctx context.Context, vertical *models.Vertical) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *vertical
	stored.ID = id
	f.verticals[vertical.ChapterID] = append(f.verticals[vertical.ChapterID], stored)
	return id, nil
}

type fakeIndustryStore struct {
	industries map[int64]*models.Industry
	nextID     int64
}

func (f *fakeIndustryStore) GetAll(ctx context.Context) ([]models.Industry, error) {
	var out []models.Industry
	for _, i := range f.industries {
		out = append(out, *i)
	}
	return out, nil
}

func (f *fakeIndustryStore) GetByID(ctx context.Context, id int64) (*models.Industry, error) {
	i, ok := f.industries[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	copy := *i
	return &copy, nil
}

func (f *fakeIndustryStore) Create(ctx context.Context, industry *models.Industry) (int64, error) {
	if f.industries == nil {
		f.industries = make(map[int64]*models.Industry)
	}
	f.nextID++
	stored := *industry
	stored.ID = f.nextID
	f.industries[f.nextID] = &stored
	return f.nextID, nil
}

type fakeChapterEventStore struct {
	events map[int64]*models.Event
}

func (f *fakeChapterEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return e, nil
}

func (f *fakeChapterEventStore) GetByChapter(ctx context.Context, chapterID int64) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.ChapterID == chapterID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeChapterEventStore) Create(ctx context.Context, event *models.Event) (int64, error) {
	if f.events == nil {
		f.events = make(map[int64]*models.Event)
	}
	id := int64(len(f.events) + 1)
	stored := *event
	stored.ID = id
	f.events[id] = &stored
	return id, nil
}

func newChapterFixture(t *testing.T) (ChapterService, *fakeChapterStore, *fakeCache) {
	t.Helper()

	store := newFakeChapterStore()
	cacheStore := &fakeCache{}
	svc := NewChapterService(store, &fakeIndustryStore{}, &fakeChapterEventStore{}, cacheStore, zerolog.Nop())
	return svc, store, cacheStore
}

func TestListChaptersServedFromCache(t *testing.T) {
	svc, store, _ := newChapterFixture(t)

	if _, err := svc.CreateChapter(context.Background(), dto.CreateChapterRequest{Name: "Chennai", City: "Chennai"}); err != nil {
		t.Fatalf("CreateChapter() error = %v", err)
	}

	first, err := svc.ListChapters(context.Background())
	if err != nil {
		t.Fatalf("ListChapters() error = %v", err)
	}
	second, err := svc.ListChapters(context.Background())
	if err != nil {
		t.Fatalf("second ListChapters() error = %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("list lengths = (%d, %d), want (1, 1)", len(first), len(second))
	}
	if store.getAllHits != 1 {
		t.Errorf("store reads = %d, want 1", store.getAllHits)
	}
}

func TestChapterWritesInvalidateListCache(t *testing.T) {
	svc, store, _ := newChapterFixture(t)

	resp, err := svc.CreateChapter(context.Background(), dto.CreateChapterRequest{Name: "Chennai", City: "Chennai"})
	if err != nil {
		t.Fatalf("CreateChapter() error = %v", err)
	}
	if _, err := svc.ListChapters(context.Background()); err != nil {
		t.Fatalf("ListChapters() error = %v", err)
	}

	if err := svc.UpdateChapter(context.Background(), resp.ID, dto.UpdateChapterRequest{Name: "Chennai Chapter", City: "Chennai"}); err != nil {
		t.Fatalf("UpdateChapter() error = %v", err)
	}

	chapters, err := svc.ListChapters(context.Background())
	if err != nil {
		t.Fatalf("ListChapters() after update error = %v", err)
	}
	if len(chapters) != 1 || chapters[0].Name != "Chennai Chapter" {
		t.Error("expected the updated name after cache invalidation")
	}
	if store.getAllHits != 2 {
		t.Errorf("store reads = %d, want 2", store.getAllHits)
	}
}
