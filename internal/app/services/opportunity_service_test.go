package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

type fakeOpportunityStore struct {
	opportunities map[int64]*models.Opportunity
	nextID        int64
}

func newFakeOpportunityStore() *fakeOpportunityStore {
	return &fakeOpportunityStore{opportunities: make(map[int64]*models.Opportunity), nextID: 1}
}

func (f *fakeOpportunityStore) GetByID(ctx context.Context, id int64) (*models.Opportunity, error) {
	o, ok := f.opportunities[id]
	if !ok {
		return nil, apperrors.ErrOpportunityNotFound
	}
	copy := *o
	return &copy, nil
}

func (f *fakeOpportunityStore) GetAll(ctx context.Context, filter dto.OpportunityListFilter, page, pageSize int) ([]models.Opportunity, int64, error) {
	var out []models.Opportunity
	for _, o := range f.opportunities {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOpportunityStore) Create(ctx context.Context, o *models.Opportunity) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *o
	stored.ID = id
	f.opportunities[id] = &stored
	return id, nil
}

func (f *fakeOpportunityStore) Update(ctx context.Context, id int64, req dto.UpdateOpportunityRequest) error {
	o, ok := f.opportunities[id]
	if !ok {
		return apperrors.ErrOpportunityNotFound
	}
	o.Title = req.Title
	o.Description = req.Description
	o.MaxParticipants = req.MaxParticipants
	o.ApplicationDeadline = req.ApplicationDeadline
	return nil
}

func (f *fakeOpportunityStore) UpdateStatus(ctx context.Context, id int64, from, to models.OpportunityStatus) error {
	o, ok := f.opportunities[id]
	if !ok || o.Status != from {
		return apperrors.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

func (f *fakeOpportunityStore) IncrementViewCount(ctx context.Context, id int64) error {
	o, ok := f.opportunities[id]
	if !ok {
		return apperrors.ErrOpportunityNotFound
	}
	o.ViewCount++
	return nil
}

func (f *fakeOpportunityStore) IncrementBookmarkCount(ctx context.Context, id int64, delta int) error {
	o, ok := f.opportunities[id]
	if !ok {
		return apperrors.ErrOpportunityNotFound
	}
	if o.BookmarkCount+delta >= 0 {
		o.BookmarkCount += delta
	}
	return nil
}

func (f *fakeOpportunityStore) CloseExpired(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	for _, o := range f.opportunities {
		if o.Status == models.OpportunityAccepting && o.ApplicationDeadline.Before(now) {
			o.Status = models.OpportunityClosed
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

func newOpportunityFixture(t *testing.T) (OpportunityService, *fakeOpportunityStore) {
	t.Helper()
	store := newFakeOpportunityStore()
	return NewOpportunityService(store, &fakeNotifier{}, &fakeCache{}, zerolog.Nop()), store
}

func draftRequest() dto.CreateOpportunityRequest {
	return dto.CreateOpportunityRequest{
		Title:               "Summer Internship",
		Description:         "Eight weeks with an industry partner",
		Type:                models.OpportunityInternship,
		ChapterID:           1,
		MaxParticipants:     5,
		ApplicationDeadline: time.Now().Add(72 * time.Hour),
	}
}

func TestCreateOpportunityStartsAsDraft(t *testing.T) {
	svc, _ := newOpportunityFixture(t)

	resp, err := svc.Create(context.Background(), 100, draftRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if resp.Status != models.OpportunityDraft {
		t.Errorf("status = %s, want %s", resp.Status, models.OpportunityDraft)
	}
}

func TestCreateRejectsPastDeadline(t *testing.T) {
	svc, _ := newOpportunityFixture(t)

	req := draftRequest()
	req.ApplicationDeadline = time.Now().Add(-time.Hour)
	_, err := svc.Create(context.Background(), 100, req)
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("Create() error = %v, want ErrBadRequest", err)
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc, _ := newOpportunityFixture(t)

	req := draftRequest()
	req.Type = models.OpportunityType("HACKATHON")
	_, err := svc.Create(context.Background(), 100, req)
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("Create() error = %v, want ErrBadRequest", err)
	}
}

func TestPublishAndClose(t *testing.T) {
	svc, _ := newOpportunityFixture(t)

	resp, err := svc.Create(context.Background(), 100, draftRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	coordinator := workflow.Actor{UserID: 100, Role: models.RoleCoordinator}
	published, err := svc.Publish(context.Background(), resp.ID, coordinator)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if published.Status != models.OpportunityAccepting {
		t.Errorf("status = %s, want %s", published.Status, models.OpportunityAccepting)
	}

	closed, err := svc.Close(context.Background(), resp.ID, coordinator)
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if closed.Status != models.OpportunityClosed {
		t.Errorf("status = %s, want %s", closed.Status, models.OpportunityClosed)
	}
}

func TestPublishByMemberForbidden(t *testing.T) {
	svc, _ := newOpportunityFixture(t)

	resp, err := svc.Create(context.Background(), 100, draftRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	member := workflow.Actor{UserID: 1, Role: models.RoleMember}
	if _, err := svc.Publish(context.Background(), resp.ID, member); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Publish() by member error = %v, want ErrPermissionDenied", err)
	}
}

func TestPublishClosedOpportunityFails(t *testing.T) {
	svc, store := newOpportunityFixture(t)

	resp, err := svc.Create(context.Background(), 100, draftRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	store.opportunities[resp.ID].Status = models.OpportunityClosed

	coordinator := workflow.Actor{UserID: 100, Role: models.RoleCoordinator}
	if _, err := svc.Publish(context.Background(), resp.ID, coordinator); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("Publish() on closed error = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdatePublishedOpportunityRejected(t *testing.T) {
	svc, store := newOpportunityFixture(t)

	resp, err := svc.Create(context.Background(), 100, draftRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	store.opportunities[resp.ID].Status = models.OpportunityAccepting

	_, err = svc.Update(context.Background(), resp.ID, dto.UpdateOpportunityRequest{
		Title:               "New title",
		Description:         "New description",
		MaxParticipants:     10,
		ApplicationDeadline: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("Update() on published error = %v, want ErrConflict", err)
	}
}

func TestBookmarkCounters(t *testing.T) {
	svc, store := newOpportunityFixture(t)

	resp, err := svc.Create(context.Background(), 100, draftRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Bookmark(context.Background(), resp.ID); err != nil {
		t.Fatalf("Bookmark() error = %v", err)
	}
	if got := store.opportunities[resp.ID].BookmarkCount; got != 1 {
		t.Errorf("bookmarkCount = %d, want 1", got)
	}

	if err := svc.Unbookmark(context.Background(), resp.ID); err != nil {
		t.Fatalf("Unbookmark() error = %v", err)
	}
	if err := svc.Unbookmark(context.Background(), resp.ID); err != nil {
		t.Fatalf("second Unbookmark() error = %v", err)
	}
	if got := store.opportunities[resp.ID].BookmarkCount; got != 0 {
		t.Errorf("bookmarkCount = %d, want 0", got)
	}

	if err := svc.Bookmark(context.Background(), 999); !errors.Is(err, apperrors.ErrOpportunityNotFound) {
		t.Errorf("Bookmark() on missing error = %v, want ErrOpportunityNotFound", err)
	}
}

func TestCloseExpiredSweep(t *testing.T) {
	svc, store := newOpportunityFixture(t)

	resp, err := svc.Create(context.Background(), 100, draftRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	store.opportunities[resp.ID].Status = models.OpportunityAccepting
	store.opportunities[resp.ID].ApplicationDeadline = time.Now().Add(-time.Minute)

	closed, err := svc.CloseExpired(context.Background())
	if err != nil {
		t.Fatalf("CloseExpired() error = %v", err)
	}
	if closed != 1 {
		t.Errorf("closed = %d, want 1", closed)
	}
	if store.opportunities[resp.ID].Status != models.OpportunityClosed {
		t.Error("expected the opportunity to be closed by the sweep")
	}
}
