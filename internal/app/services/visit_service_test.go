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

type fakeVisitRequestStore struct {
	requests map[int64]*models.VisitRequest
	nextID   int64
}

func newFakeVisitRequestStore() *fakeVisitRequestStore {
	return &fakeVisitRequestStore{requests: make(map[int64]*models.VisitRequest), nextID: 1}
}

func (f *fakeVisitRequestStore) GetByID(ctx context.Context, id int64) (*models.VisitRequest, error) {
	v, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrVisitRequestNotFound
	}
	copy := *v
	return &copy, nil
}

func (f *fakeVisitRequestStore) GetAll(ctx context.Context, chapterID *int64, status *models.VisitRequestStatus, page, pageSize int) ([]models.VisitRequest, int64, error) {
	var out []models.VisitRequest
	for _, v := range f.requests {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (f *fakeVisitRequestStore) Create(ctx context.Context, v *models.VisitRequest) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *v
	stored.ID = id
	f.requests[id] = &stored
	return id, nil
}

func (f *fakeVisitRequestStore) UpdateStatus(ctx context.Context, id int64, from, to models.VisitRequestStatus, scheduledFor *time.Time) error {
	v, ok := f.requests[id]
	if !ok || v.Status != from {
		return apperrors.ErrInvalidTransition
	}
	v.Status = to
	if scheduledFor != nil {
		v.ScheduledFor = scheduledFor
	}
	return nil
}

func (f *fakeVisitRequestStore) AttachMouFile(ctx context.Context, id, fileID int64) error {
	v, ok := f.requests[id]
	if !ok {
		return apperrors.ErrVisitRequestNotFound
	}
	v.MouFileID = &fileID
	return nil
}

func newVisitFixture(t *testing.T) (VisitService, *fakeVisitRequestStore) {
	t.Helper()

	store := newFakeVisitRequestStore()
	users := &fakeUserStore{users: map[int64]*models.User{
		1: {ID: 1, Email: "member@yiconnect.org", FirstName: "Asha"},
	}}
	svc := NewVisitService(store, users, &fakeNotifier{}, &fakeCache{}, zerolog.Nop())
	return svc, store
}

func visitRequest() dto.CreateVisitRequestRequest {
	return dto.CreateVisitRequestRequest{
		IndustryID:    3,
		Purpose:       "Plant tour for the manufacturing vertical",
		PreferredDate: time.Now().Add(14 * 24 * time.Hour),
		GroupSize:     25,
	}
}

func TestCreateVisitRequestCarriesPreferences(t *testing.T) {
	svc, store := newVisitFixture(t)

	req := visitRequest()
	resp, err := svc.Create(context.Background(), 1, 1, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if resp.Status != models.VisitPendingYiReview {
		t.Errorf("status = %s, want %s", resp.Status, models.VisitPendingYiReview)
	}
	if !resp.PreferredDate.Equal(req.PreferredDate) {
		t.Errorf("preferredDate = %v, want %v", resp.PreferredDate, req.PreferredDate)
	}
	if resp.GroupSize != req.GroupSize {
		t.Errorf("groupSize = %d, want %d", resp.GroupSize, req.GroupSize)
	}

	stored := store.requests[resp.ID]
	if !stored.PreferredDate.Equal(req.PreferredDate) || stored.GroupSize != req.GroupSize {
		t.Error("expected the stored request to carry the preferred date and group size")
	}
}

func TestCreateVisitRequestRejectsPastDate(t *testing.T) {
	svc, _ := newVisitFixture(t)

	req := visitRequest()
	req.PreferredDate = time.Now().Add(-time.Hour)
	_, err := svc.Create(context.Background(), 1, 1, req)
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("Create() error = %v, want ErrBadRequest", err)
	}
}

func TestVisitRequestScheduleByIndustryPartner(t *testing.T) {
	svc, _ := newVisitFixture(t)

	resp, err := svc.Create(context.Background(), 1, 1, visitRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	admin := workflow.Actor{UserID: 50, Role: models.RoleYiAdmin}
	if _, err := svc.Approve(context.Background(), resp.ID, admin); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if _, err := svc.Forward(context.Background(), resp.ID, admin); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	partner := workflow.Actor{UserID: 60, Role: models.RoleIndustryPartner}
	when := time.Now().Add(30 * 24 * time.Hour)
	scheduled, err := svc.Schedule(context.Background(), resp.ID, partner, dto.ScheduleVisitRequest{ScheduledFor: when})
	if err != nil {
		t.Fatalf("Schedule() by industry partner error = %v", err)
	}
	if scheduled.Status != models.VisitScheduled {
		t.Errorf("status = %s, want %s", scheduled.Status, models.VisitScheduled)
	}
	if scheduled.ScheduledFor == nil || !scheduled.ScheduledFor.Equal(when) {
		t.Error("expected the scheduled date to be recorded")
	}
}

func TestVisitRequestCancelByOwner(t *testing.T) {
	svc, _ := newVisitFixture(t)

	resp, err := svc.Create(context.Background(), 1, 1, visitRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	owner := workflow.Actor{UserID: 1, Role: models.RoleMember}
	cancelled, err := svc.Cancel(context.Background(), resp.ID, owner)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.Status != models.VisitCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, models.VisitCancelled)
	}
}
