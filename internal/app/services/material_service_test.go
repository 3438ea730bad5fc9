package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

type fakeMaterialStore struct {
	materials map[int64]*models.Material
	nextID    int64
}

func newFakeMaterialStore() *fakeMaterialStore {
	return &fakeMaterialStore{materials: make(map[int64]*models.Material), nextID: 1}
}

func (f *fakeMaterialStore) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	m, ok := f.materials[id]
	if !ok {
		return nil, apperrors.ErrMaterialNotFound
	}
	copy := *m
	return &copy, nil
}

func (f *fakeMaterialStore) GetByEvent(ctx context.Context, eventID int64) ([]models.Material, error) {
	var out []models.Material
	for _, m := range f.materials {
		if m.EventID == eventID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMaterialStore) Create(ctx context.Context, m *models.Material) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *m
	stored.ID = id
	f.materials[id] = &stored
	return id, nil
}

func (f *fakeMaterialStore) NewVersion(ctx context.Context, parent, next *models.Material) (int64, error) {
	stored, ok := f.materials[parent.ID]
	if !ok || !stored.IsCurrentVersion {
		return 0, apperrors.ErrInvalidTransition
	}
	stored.IsCurrentVersion = false
	stored.Status = models.MaterialSuperseded

	id := f.nextID
	f.nextID++
	inserted := *next
	inserted.ID = id
	f.materials[id] = &inserted
	return id, nil
}

func (f *fakeMaterialStore) UpdateStatus(ctx context.Context, id int64, from, to models.MaterialStatus, reviewNotes *string) error {
	m, ok := f.materials[id]
	if !ok || m.Status != from {
		return apperrors.ErrInvalidTransition
	}
	m.Status = to
	if reviewNotes != nil {
		m.ReviewNotes = reviewNotes
	}
	return nil
}

func (f *fakeMaterialStore) currentVersions(eventID int64) int {
	count := 0
	for _, m := range f.materials {
		if m.EventID == eventID && m.IsCurrentVersion {
			count++
		}
	}
	return count
}

func newMaterialFixture(t *testing.T) (MaterialService, *fakeMaterialStore) {
	t.Helper()

	store := newFakeMaterialStore()
	users := &fakeUserStore{users: map[int64]*models.User{
		5: {ID: 5, Email: "trainer@yiconnect.org", FirstName: "Meera"},
	}}
	svc := NewMaterialService(store, users, &fakeNotifier{}, &fakeCache{}, zerolog.Nop())
	return svc, store
}

func TestCreateMaterialStartsAsDraft(t *testing.T) {
	svc, _ := newMaterialFixture(t)

	resp, err := svc.Create(context.Background(), 5, dto.CreateMaterialRequest{EventID: 20, Title: "Slides"}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if resp.Status != models.MaterialDraft {
		t.Errorf("status = %s, want %s", resp.Status, models.MaterialDraft)
	}
	if resp.Version != 1 || !resp.IsCurrentVersion {
		t.Errorf("version = %d current = %v, want version 1 current", resp.Version, resp.IsCurrentVersion)
	}
}

func TestCreateVersionSupersedesParent(t *testing.T) {
	svc, store := newMaterialFixture(t)

	first, err := svc.Create(context.Background(), 5, dto.CreateMaterialRequest{EventID: 20, Title: "Slides"}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	uploader := workflow.Actor{UserID: 5, Role: models.RoleTrainer}
	second, err := svc.CreateVersion(context.Background(), first.ID, uploader, "", nil)
	if err != nil {
		t.Fatalf("CreateVersion() error = %v", err)
	}

	if second.Version != 2 {
		t.Errorf("version = %d, want 2", second.Version)
	}
	if second.ParentMaterialID == nil || *second.ParentMaterialID != first.ID {
		t.Error("expected the new version to link its parent")
	}
	if second.Title != "Slides" {
		t.Errorf("title = %q, want inherited %q", second.Title, "Slides")
	}

	parent := store.materials[first.ID]
	if parent.IsCurrentVersion || parent.Status != models.MaterialSuperseded {
		t.Errorf("parent = (current %v, %s), want superseded non-current", parent.IsCurrentVersion, parent.Status)
	}
	if got := store.currentVersions(20); got != 1 {
		t.Errorf("current versions = %d, want 1", got)
	}
}

func TestCreateVersionOfSupersededFails(t *testing.T) {
	svc, _ := newMaterialFixture(t)

	first, err := svc.Create(context.Background(), 5, dto.CreateMaterialRequest{EventID: 20, Title: "Slides"}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	uploader := workflow.Actor{UserID: 5, Role: models.RoleTrainer}
	if _, err := svc.CreateVersion(context.Background(), first.ID, uploader, "", nil); err != nil {
		t.Fatalf("CreateVersion() error = %v", err)
	}
	if _, err := svc.CreateVersion(context.Background(), first.ID, uploader, "", nil); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("CreateVersion() of superseded parent error = %v, want ErrInvalidTransition", err)
	}
}

func TestMaterialReviewCycle(t *testing.T) {
	svc, _ := newMaterialFixture(t)

	material, err := svc.Create(context.Background(), 5, dto.CreateMaterialRequest{EventID: 20, Title: "Slides"}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	uploader := workflow.Actor{UserID: 5, Role: models.RoleTrainer}
	pending, err := svc.SubmitForReview(context.Background(), material.ID, uploader)
	if err != nil {
		t.Fatalf("SubmitForReview() error = %v", err)
	}
	if pending.Status != models.MaterialPendingReview {
		t.Errorf("status = %s, want %s", pending.Status, models.MaterialPendingReview)
	}

	reviewer := workflow.Actor{UserID: 100, Role: models.RoleReviewer}
	notes := "tighten the intro"
	revised, err := svc.RequestRevision(context.Background(), material.ID, reviewer, &notes)
	if err != nil {
		t.Fatalf("RequestRevision() error = %v", err)
	}
	if revised.Status != models.MaterialRevisionRequested {
		t.Errorf("status = %s, want %s", revised.Status, models.MaterialRevisionRequested)
	}

	if _, err := svc.SubmitForReview(context.Background(), material.ID, uploader); err != nil {
		t.Fatalf("resubmit error = %v", err)
	}
	approved, err := svc.Approve(context.Background(), material.ID, reviewer, nil)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if approved.Status != models.MaterialApproved {
		t.Errorf("status = %s, want %s", approved.Status, models.MaterialApproved)
	}
}

func TestApproveDraftFails(t *testing.T) {
	svc, _ := newMaterialFixture(t)

	material, err := svc.Create(context.Background(), 5, dto.CreateMaterialRequest{EventID: 20, Title: "Slides"}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	reviewer := workflow.Actor{UserID: 100, Role: models.RoleReviewer}
	_, err = svc.Approve(context.Background(), material.ID, reviewer, nil)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("Approve() on draft error = %v, want ErrInvalidTransition", err)
	}
}
