package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

type fakeHealthCardStore struct {
	entries map[int64]*models.HealthCardEntry
	nextID  int64
}

func newFakeHealthCardStore() *fakeHealthCardStore {
	return &fakeHealthCardStore{entries: make(map[int64]*models.HealthCardEntry), nextID: 1}
}

func (f *fakeHealthCardStore) Create(ctx context.Context, e *models.HealthCardEntry) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *e
	stored.ID = id
	stored.CreatedAt = time.Now()
	f.entries[id] = &stored
	return id, nil
}

func (f *fakeHealthCardStore) Delete(ctx context.Context, id, chapterID int64) error {
	e, ok := f.entries[id]
	if !ok || e.ChapterID != chapterID {
		return apperrors.ErrHealthCardEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeHealthCardStore) GetByChapter(ctx context.Context, chapterID int64, year int) ([]models.HealthCardEntry, error) {
	var out []models.HealthCardEntry
	for _, e := range f.entries {
		if e.ChapterID == chapterID && e.ActivityDate.Year() == year {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeHealthCardStore) SummaryByChapter(ctx context.Context, chapterID int64, year int) ([]models.HealthCardSummary, error) {
	totals := make(map[int64]*models.HealthCardSummary)
	for _, e := range f.entries {
		if e.ChapterID != chapterID || e.ActivityDate.Year() != year {
			continue
		}
		s, ok := totals[e.VerticalID]
		if !ok {
			s = &models.HealthCardSummary{VerticalID: e.VerticalID}
			totals[e.VerticalID] = s
		}
		s.ActivityCount++
		s.TotalECCount += e.ECCount
		s.TotalNonECCount += e.NonECCount
	}
	var out []models.HealthCardSummary
	for _, s := range totals {
		out = append(out, *s)
	}
	return out, nil
}

type fakeVerticalStore struct {
	verticals map[int64]*models.Vertical
}

func (f *fakeVerticalStore) GetVerticalByID(ctx context.Context, id int64) (*models.Vertical, error) {
	v, ok := f.verticals[id]
	if !ok {
		return nil, apperrors.ErrVerticalNotFound
	}
	copy := *v
	return &copy, nil
}

func newHealthCardFixture(t *testing.T) (HealthCardService, *fakeHealthCardStore) {
	t.Helper()

	store := newFakeHealthCardStore()
	verticals := &fakeVerticalStore{verticals: map[int64]*models.Vertical{
		7: {ID: 7, ChapterID: 1, Name: "Masoom"},
	}}
	svc := NewHealthCardService(store, verticals, &fakeCache{}, zerolog.Nop())
	return svc, store
}

func healthCardEntry() dto.CreateHealthCardEntryRequest {
	return dto.CreateHealthCardEntryRequest{
		VerticalID:   7,
		ActivityDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ECCount:      4,
		NonECCount:   30,
		Description:  "School awareness session",
	}
}

func TestCreateEntryChecksVerticalOwnership(t *testing.T) {
	svc, _ := newHealthCardFixture(t)

	resp, err := svc.CreateEntry(context.Background(), 1, 10, healthCardEntry())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if resp.VerticalID != 7 || resp.ChapterID != 1 {
		t.Error("expected the entry to be recorded under the chapter vertical")
	}

	if _, err := svc.CreateEntry(context.Background(), 2, 10, healthCardEntry()); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("CreateEntry() for foreign vertical error = %v, want ErrBadRequest", err)
	}
}

func TestDeleteEntryRemovesIt(t *testing.T) {
	svc, store := newHealthCardFixture(t)

	resp, err := svc.CreateEntry(context.Background(), 1, 10, healthCardEntry())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if err := svc.DeleteEntry(context.Background(), 1, resp.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if _, ok := store.entries[resp.ID]; ok {
		t.Error("expected the entry to be removed")
	}

	entries, err := svc.ListEntries(context.Background(), 1, 2026)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries after delete = %d, want 0", len(entries))
	}
}

func TestDeleteEntryScopedToChapter(t *testing.T) {
	svc, store := newHealthCardFixture(t)

	resp, err := svc.CreateEntry(context.Background(), 1, 10, healthCardEntry())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if err := svc.DeleteEntry(context.Background(), 2, resp.ID); !errors.Is(err, apperrors.ErrHealthCardEntryNotFound) {
		t.Errorf("DeleteEntry() for wrong chapter error = %v, want ErrHealthCardEntryNotFound", err)
	}
	if _, ok := store.entries[resp.ID]; !ok {
		t.Error("expected the entry to survive a cross-chapter delete attempt")
	}
}

func TestSummaryAggregatesPerVertical(t *testing.T) {
	svc, _ := newHealthCardFixture(t)

	if _, err := svc.CreateEntry(context.Background(), 1, 10, healthCardEntry()); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	second := healthCardEntry()
	second.ECCount = 2
	second.NonECCount = 10
	if _, err := svc.CreateEntry(context.Background(), 1, 10, second); err != nil {
		t.Fatalf("second CreateEntry() error = %v", err)
	}

	summary, err := svc.Summary(context.Background(), 1, 2026)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if len(summary.Verticals) != 1 {
		t.Fatalf("verticals = %d, want 1", len(summary.Verticals))
	}
	v := summary.Verticals[0]
	if v.ActivityCount != 2 || v.TotalECCount != 6 || v.TotalNonECCount != 40 {
		t.Errorf("summary = (%d, %d, %d), want (2, 6, 40)", v.ActivityCount, v.TotalECCount, v.TotalNonECCount)
	}
}
