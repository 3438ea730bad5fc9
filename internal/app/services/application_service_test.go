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

type fakeApplicationStore struct {
	applications map[int64]*models.Application
	nextID       int64
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{applications: make(map[int64]*models.Application), nextID: 1}
}

func (f *fakeApplicationStore) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	a, ok := f.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	copy := *a
	return &copy, nil
}

func (f *fakeApplicationStore) GetAll(ctx context.Context, filter dto.ApplicationListFilter, page, pageSize int) ([]models.Application, int64, error) {
	var out []models.Application
	for _, a := range f.applications {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeApplicationStore) HasActiveApplication(ctx context.Context, opportunityID, memberID int64) (bool, error) {
	for _, a := range f.applications {
		if a.OpportunityID == opportunityID && a.MemberID == memberID &&
			a.Status != models.ApplicationWithdrawn {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationStore) Create(ctx context.Context, a *models.Application) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *a
	stored.ID = id
	stored.SubmittedAt = time.Now()
	f.applications[id] = &stored
	return id, nil
}

func (f *fakeApplicationStore) UpdateStatus(ctx context.Context, id int64, from, to models.ApplicationStatus, reviewedBy *int64, reviewNotes *string) error {
	a, ok := f.applications[id]
	if !ok || a.Status != from {
		return apperrors.ErrInvalidTransition
	}
	a.Status = to
	a.ReviewedBy = reviewedBy
	a.ReviewNotes = reviewNotes
	return nil
}

type fakeOpportunityCounterStore struct {
	opportunities map[int64]*models.Opportunity
}

func (f *fakeOpportunityCounterStore) GetByID(ctx context.Context, id int64) (*models.Opportunity, error) {
	o, ok := f.opportunities[id]
	if !ok {
		return nil, apperrors.ErrOpportunityNotFound
	}
	copy := *o
	return &copy, nil
}

func (f *fakeOpportunityCounterStore) IncrementApplications(ctx context.Context, id int64, delta int) error {
	o, ok := f.opportunities[id]
	if !ok {
		return apperrors.ErrOpportunityNotFound
	}
	o.CurrentApplications += delta
	return nil
}

func (f *fakeOpportunityCounterStore) IncrementAccepted(ctx context.Context, id int64) error {
	o, ok := f.opportunities[id]
	if !ok || o.PositionsFilled >= o.MaxParticipants {
		return apperrors.ErrNoPositionsAvailable
	}
	o.AcceptedCount++
	o.PositionsFilled++
	return nil
}

func (f *fakeOpportunityCounterStore) DecrementAccepted(ctx context.Context, id int64) error {
	o, ok := f.opportunities[id]
	if !ok {
		return apperrors.ErrOpportunityNotFound
	}
	if o.PositionsFilled > 0 {
		o.AcceptedCount--
		o.PositionsFilled--
	}
	return nil
}

func newApplicationFixture(t *testing.T) (ApplicationService, *fakeApplicationStore, *fakeOpportunityCounterStore) {
	t.Helper()

	opportunities := &fakeOpportunityCounterStore{opportunities: map[int64]*models.Opportunity{
		10: {
			ID:                  10,
			Title:               "Summer Internship",
			Status:              models.OpportunityAccepting,
			ApplicationDeadline: time.Now().Add(48 * time.Hour),
			MaxParticipants:     2,
			CreatedBy:           100,
		},
	}}
	applications := newFakeApplicationStore()
	users := &fakeUserStore{users: map[int64]*models.User{
		1:   {ID: 1, Email: "member@yiconnect.org", FirstName: "Asha"},
		100: {ID: 100, Email: "coordinator@yiconnect.org", FirstName: "Ravi"},
	}}

	svc := NewApplicationService(applications, opportunities, users, &fakeNotifier{}, &fakeCache{}, zerolog.Nop())
	return svc, applications, opportunities
}

func TestSubmitCreatesPendingApplication(t *testing.T) {
	svc, _, opportunities := newApplicationFixture(t)

	resp, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.Status != models.ApplicationPendingReview {
		t.Errorf("status = %s, want %s", resp.Status, models.ApplicationPendingReview)
	}
	if resp.ProfileSnapshot == "" {
		t.Error("expected profile snapshot to be captured")
	}
	if got := opportunities.opportunities[10].CurrentApplications; got != 1 {
		t.Errorf("currentApplications = %d, want 1", got)
	}
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	svc, _, _ := newApplicationFixture(t)

	if _, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10}); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	_, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if !errors.Is(err, apperrors.ErrDuplicateApplication) {
		t.Errorf("second Submit() error = %v, want ErrDuplicateApplication", err)
	}
}

func TestSubmitRejectedAfterDecline(t *testing.T) {
	svc, _, _ := newApplicationFixture(t)

	first, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	reviewer := workflow.Actor{UserID: 100, Role: models.RoleReviewer}
	if _, err := svc.Decline(context.Background(), first.ID, reviewer, dto.ReviewApplicationRequest{}); err != nil {
		t.Fatalf("Decline() error = %v", err)
	}

	_, err = svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if !errors.Is(err, apperrors.ErrDuplicateApplication) {
		t.Errorf("Submit() after decline error = %v, want ErrDuplicateApplication", err)
	}
}

func TestSubmitAllowedAfterWithdraw(t *testing.T) {
	svc, _, _ := newApplicationFixture(t)

	first, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	owner := workflow.Actor{UserID: 1, Role: models.RoleMember}
	if _, err := svc.Withdraw(context.Background(), first.ID, owner); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if _, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10}); err != nil {
		t.Errorf("re-Submit() after withdraw error = %v", err)
	}
}

func TestSubmitRejectsPastDeadline(t *testing.T) {
	svc, _, opportunities := newApplicationFixture(t)
	opportunities.opportunities[10].ApplicationDeadline = time.Now().Add(-time.Hour)

	_, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if !errors.Is(err, apperrors.ErrOpportunityClosed) {
		t.Errorf("Submit() error = %v, want ErrOpportunityClosed", err)
	}
}

func TestSubmitRejectsWhenFull(t *testing.T) {
	svc, _, opportunities := newApplicationFixture(t)
	opportunities.opportunities[10].PositionsFilled = 2

	_, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if !errors.Is(err, apperrors.ErrNoPositionsAvailable) {
		t.Errorf("Submit() error = %v, want ErrNoPositionsAvailable", err)
	}
}

func TestAcceptClaimsPosition(t *testing.T) {
	svc, _, opportunities := newApplicationFixture(t)

	resp, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	reviewer := workflow.Actor{UserID: 100, Role: models.RoleReviewer}
	accepted, err := svc.Accept(context.Background(), resp.ID, reviewer, dto.ReviewApplicationRequest{})
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if accepted.Status != models.ApplicationAccepted {
		t.Errorf("status = %s, want %s", accepted.Status, models.ApplicationAccepted)
	}
	o := opportunities.opportunities[10]
	if o.AcceptedCount != 1 || o.PositionsFilled != 1 {
		t.Errorf("counters = (%d, %d), want (1, 1)", o.AcceptedCount, o.PositionsFilled)
	}
}

func TestAcceptRejectedWhenNoPositionsRemain(t *testing.T) {
	svc, _, opportunities := newApplicationFixture(t)

	resp, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	opportunities.opportunities[10].PositionsFilled = 2

	reviewer := workflow.Actor{UserID: 100, Role: models.RoleReviewer}
	_, err = svc.Accept(context.Background(), resp.ID, reviewer, dto.ReviewApplicationRequest{})
	if !errors.Is(err, apperrors.ErrNoPositionsAvailable) {
		t.Errorf("Accept() error = %v, want ErrNoPositionsAvailable", err)
	}
}

func TestShortlistDoesNotTouchCounters(t *testing.T) {
	svc, _, opportunities := newApplicationFixture(t)

	resp, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	reviewer := workflow.Actor{UserID: 100, Role: models.RoleReviewer}
	shortlisted, err := svc.Shortlist(context.Background(), resp.ID, reviewer, dto.ReviewApplicationRequest{})
	if err != nil {
		t.Fatalf("Shortlist() error = %v", err)
	}
	if shortlisted.Status != models.ApplicationShortlisted {
		t.Errorf("status = %s, want %s", shortlisted.Status, models.ApplicationShortlisted)
	}
	o := opportunities.opportunities[10]
	if o.AcceptedCount != 0 || o.PositionsFilled != 0 {
		t.Errorf("counters = (%d, %d), want (0, 0)", o.AcceptedCount, o.PositionsFilled)
	}
}

func TestWithdrawOnlyByOwner(t *testing.T) {
	svc, _, _ := newApplicationFixture(t)

	resp, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	stranger := workflow.Actor{UserID: 2, Role: models.RoleMember}
	if _, err := svc.Withdraw(context.Background(), resp.ID, stranger); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Withdraw() by non-owner error = %v, want ErrPermissionDenied", err)
	}
}

func TestWithdrawTwiceFails(t *testing.T) {
	svc, _, opportunities := newApplicationFixture(t)

	resp, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	owner := workflow.Actor{UserID: 1, Role: models.RoleMember}
	if _, err := svc.Withdraw(context.Background(), resp.ID, owner); err != nil {
		t.Fatalf("first Withdraw() error = %v", err)
	}
	if got := opportunities.opportunities[10].CurrentApplications; got != 0 {
		t.Errorf("currentApplications after withdraw = %d, want 0", got)
	}
	if _, err := svc.Withdraw(context.Background(), resp.ID, owner); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("second Withdraw() error = %v, want ErrInvalidTransition", err)
	}
}

func TestWithdrawAfterAcceptRejected(t *testing.T) {
	svc, _, _ := newApplicationFixture(t)

	resp, err := svc.Submit(context.Background(), 1, dto.SubmitApplicationRequest{OpportunityID: 10})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	reviewer := workflow.Actor{UserID: 100, Role: models.RoleReviewer}
	if _, err := svc.Accept(context.Background(), resp.ID, reviewer, dto.ReviewApplicationRequest{}); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	owner := workflow.Actor{UserID: 1, Role: models.RoleMember}
	if _, err := svc.Withdraw(context.Background(), resp.ID, owner); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("Withdraw() after accept error = %v, want ErrInvalidTransition", err)
	}
}
