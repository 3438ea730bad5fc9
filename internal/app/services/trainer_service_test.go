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

type fakeAssignmentStore struct {
	assignments map[int64]*models.TrainerAssignment
	nextID      int64
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{assignments: make(map[int64]*models.TrainerAssignment), nextID: 1}
}

func (f *fakeAssignmentStore) GetByID(ctx context.Context, id int64) (*models.TrainerAssignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	copy := *a
	return &copy, nil
}

func (f *fakeAssignmentStore) GetByToken(ctx context.Context, token string) (*models.TrainerAssignment, error) {
	for _, a := range f.assignments {
		if a.InvitationToken != nil && *a.InvitationToken == token {
			copy := *a
			return &copy, nil
		}
	}
	return nil, apperrors.ErrInvitationTokenUnknown
}

func (f *fakeAssignmentStore) GetByEvent(ctx context.Context, eventID int64) ([]models.TrainerAssignment, error) {
	var out []models.TrainerAssignment
	for _, a := range f.assignments {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) GetByTrainer(ctx context.Context, trainerID int64) ([]models.TrainerAssignment, error) {
	var out []models.TrainerAssignment
	for _, a := range f.assignments {
		if a.TrainerID == trainerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) Create(ctx context.Context, a *models.TrainerAssignment) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *a
	stored.ID = id
	f.assignments[id] = &stored
	return id, nil
}

func (f *fakeAssignmentStore) UpdateStatus(ctx context.Context, id int64, from, to models.AssignmentStatus, invitationToken *string) error {
	a, ok := f.assignments[id]
	if !ok || a.Status != from {
		return apperrors.ErrInvalidTransition
	}
	a.Status = to
	if invitationToken != nil {
		a.InvitationToken = invitationToken
	}
	return nil
}

func (f *fakeAssignmentStore) SetTrainerRating(ctx context.Context, id int64, rating int) error {
	a, ok := f.assignments[id]
	if !ok {
		return apperrors.ErrAssignmentNotFound
	}
	if (a.Status != models.AssignmentConfirmed && a.Status != models.AssignmentCompleted) || a.TrainerRating != nil {
		return apperrors.ErrRatingNotAllowed
	}
	a.TrainerRating = &rating
	return nil
}

func (f *fakeAssignmentStore) SetCoordinatorRating(ctx context.Context, id int64, rating int) error {
	a, ok := f.assignments[id]
	if !ok {
		return apperrors.ErrAssignmentNotFound
	}
	if (a.Status != models.AssignmentConfirmed && a.Status != models.AssignmentCompleted) || a.CoordinatorRating != nil {
		return apperrors.ErrRatingNotAllowed
	}
	a.CoordinatorRating = &rating
	return nil
}

type fakeProfileStore struct {
	profiles map[int64]*models.TrainerProfile
	sessions int
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID int64) (*models.TrainerProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	copy := *p
	return &copy, nil
}

func (f *fakeProfileStore) Upsert(ctx context.Context, profile *models.TrainerProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileStore) RecordDeliveredSession(ctx context.Context, userID int64, rating *int) error {
	f.sessions++
	return nil
}

type fakeEventStore struct {
	events map[int64]*models.Event
}

func (f *fakeEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return e, nil
}

type fakeEmailService struct {
	invitations   []string
	verifications []string
	resets        []string
}

func (f *fakeEmailService) SendWelcomeEmail(toEmail, toName, temporaryPassword string) error {
	return nil
}

func (f *fakeEmailService) SendVerificationEmail(toEmail, toName, token string) error {
	f.verifications = append(f.verifications, token)
	return nil
}

func (f *fakeEmailService) SendPasswordResetEmail(toEmail, toName, token string) error {
	f.resets = append(f.resets, token)
	return nil
}

func (f *fakeEmailService) SendStatusUpdateEmail(toEmail, toName, subject, headline, detail string) error {
	return nil
}

func (f *fakeEmailService) SendTrainerInvitationEmail(toEmail, toName, eventTitle, token string) error {
	f.invitations = append(f.invitations, token)
	return nil
}

func newTrainerFixture(t *testing.T) (TrainerService, *fakeAssignmentStore, *fakeProfileStore, *fakeEmailService) {
	t.Helper()

	assignments := newFakeAssignmentStore()
	profiles := &fakeProfileStore{profiles: map[int64]*models.TrainerProfile{
		5: {ID: 1, UserID: 5, Expertise: "leadership, public speaking", City: "Chennai", SessionsDelivered: 4},
	}}
	events := &fakeEventStore{events: map[int64]*models.Event{
		20: {ID: 20, ChapterID: 1, Title: "Leadership Workshop", Description: "A session on leadership"},
	}}
	users := &fakeUserStore{users: map[int64]*models.User{
		5:   {ID: 5, Email: "trainer@yiconnect.org", FirstName: "Meera"},
		100: {ID: 100, Email: "coordinator@yiconnect.org", FirstName: "Ravi"},
	}}
	emails := &fakeEmailService{}

	svc := NewTrainerService(assignments, profiles, events, users, emails, &fakeNotifier{}, &fakeCache{}, zerolog.Nop())
	return svc, assignments, profiles, emails
}

func selectAndInvite(t *testing.T, svc TrainerService) *dto.TrainerAssignmentResponse {
	t.Helper()

	coordinator := workflow.Actor{UserID: 100, Role: models.RoleCoordinator}
	selected, err := svc.Select(context.Background(), coordinator, dto.SelectTrainerRequest{EventID: 20, TrainerID: 5})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	invited, err := svc.Invite(context.Background(), selected.ID, coordinator)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	return invited
}

func TestSelectComputesMatchScore(t *testing.T) {
	svc, _, _, _ := newTrainerFixture(t)

	coordinator := workflow.Actor{UserID: 100, Role: models.RoleCoordinator}
	resp, err := svc.Select(context.Background(), coordinator, dto.SelectTrainerRequest{EventID: 20, TrainerID: 5})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if resp.Status != models.AssignmentSelected {
		t.Errorf("status = %s, want %s", resp.Status, models.AssignmentSelected)
	}
	if resp.MatchScore == nil || *resp.MatchScore <= 0 {
		t.Error("expected a positive match score")
	}
	if resp.ScoreBreakdown == nil {
		t.Error("expected a score breakdown")
	}
}

func TestInviteGeneratesTokenAndEmails(t *testing.T) {
	svc, assignments, _, emails := newTrainerFixture(t)

	invited := selectAndInvite(t, svc)
	if invited.Status != models.AssignmentInvited {
		t.Errorf("status = %s, want %s", invited.Status, models.AssignmentInvited)
	}

	stored := assignments.assignments[invited.ID]
	if stored.InvitationToken == nil || *stored.InvitationToken == "" {
		t.Fatal("expected an invitation token")
	}
	if len(emails.invitations) != 1 || emails.invitations[0] != *stored.InvitationToken {
		t.Error("expected the invitation email to carry the stored token")
	}
}

func TestRespondByTokenAccepts(t *testing.T) {
	svc, assignments, _, _ := newTrainerFixture(t)

	invited := selectAndInvite(t, svc)
	token := *assignments.assignments[invited.ID].InvitationToken

	resp, err := svc.RespondByToken(context.Background(), dto.RespondToInvitationRequest{Token: token, Accept: true})
	if err != nil {
		t.Fatalf("RespondByToken() error = %v", err)
	}
	if resp.Status != models.AssignmentAccepted {
		t.Errorf("status = %s, want %s", resp.Status, models.AssignmentAccepted)
	}
}

func TestRespondByTokenUnknownToken(t *testing.T) {
	svc, _, _, _ := newTrainerFixture(t)

	_, err := svc.RespondByToken(context.Background(), dto.RespondToInvitationRequest{Token: "bogus", Accept: true})
	if !errors.Is(err, apperrors.ErrInvitationTokenUnknown) {
		t.Errorf("RespondByToken() error = %v, want ErrInvitationTokenUnknown", err)
	}
}

func TestConfirmDeclinedAssignmentFails(t *testing.T) {
	svc, assignments, _, _ := newTrainerFixture(t)

	invited := selectAndInvite(t, svc)
	token := *assignments.assignments[invited.ID].InvitationToken
	if _, err := svc.RespondByToken(context.Background(), dto.RespondToInvitationRequest{Token: token, Accept: false}); err != nil {
		t.Fatalf("RespondByToken() error = %v", err)
	}

	coordinator := workflow.Actor{UserID: 100, Role: models.RoleCoordinator}
	_, err := svc.Confirm(context.Background(), invited.ID, coordinator)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("Confirm() on declined assignment error = %v, want ErrInvalidTransition", err)
	}
}

func TestCompleteRecordsSession(t *testing.T) {
	svc, assignments, profiles, _ := newTrainerFixture(t)

	invited := selectAndInvite(t, svc)
	token := *assignments.assignments[invited.ID].InvitationToken
	if _, err := svc.RespondByToken(context.Background(), dto.RespondToInvitationRequest{Token: token, Accept: true}); err != nil {
		t.Fatalf("RespondByToken() error = %v", err)
	}

	coordinator := workflow.Actor{UserID: 100, Role: models.RoleCoordinator}
	if _, err := svc.Confirm(context.Background(), invited.ID, coordinator); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	completed, err := svc.Complete(context.Background(), invited.ID, coordinator)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if completed.Status != models.AssignmentCompleted {
		t.Errorf("status = %s, want %s", completed.Status, models.AssignmentCompleted)
	}
	if profiles.sessions != 1 {
		t.Errorf("sessions recorded = %d, want 1", profiles.sessions)
	}
}

func TestRateTrainerBeforeCompletionFails(t *testing.T) {
	svc, _, _, _ := newTrainerFixture(t)

	invited := selectAndInvite(t, svc)

	coordinator := workflow.Actor{UserID: 100, Role: models.RoleCoordinator}
	err := svc.RateTrainer(context.Background(), invited.ID, coordinator, 5)
	if !errors.Is(err, apperrors.ErrRatingNotAllowed) {
		t.Errorf("RateTrainer() error = %v, want ErrRatingNotAllowed", err)
	}
}

func TestRateTrainerAllowedOnceConfirmed(t *testing.T) {
	svc, assignments, _, _ := newTrainerFixture(t)

	invited := selectAndInvite(t, svc)
	token := *assignments.assignments[invited.ID].InvitationToken
	if _, err := svc.RespondByToken(context.Background(), dto.RespondToInvitationRequest{Token: token, Accept: true}); err != nil {
		t.Fatalf("RespondByToken() error = %v", err)
	}

	coordinator := workflow.Actor{UserID: 100, Role: models.RoleCoordinator}
	if _, err := svc.Confirm(context.Background(), invited.ID, coordinator); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if err := svc.RateTrainer(context.Background(), invited.ID, coordinator, 5); err != nil {
		t.Errorf("RateTrainer() on confirmed assignment error = %v", err)
	}
	if got := assignments.assignments[invited.ID].TrainerRating; got == nil || *got != 5 {
		t.Error("expected the trainer rating to be stored")
	}
}

func TestRateCoordinatorOnlyByAssignedTrainer(t *testing.T) {
	svc, assignments, _, _ := newTrainerFixture(t)

	invited := selectAndInvite(t, svc)
	assignments.assignments[invited.ID].Status = models.AssignmentCompleted

	stranger := workflow.Actor{UserID: 9, Role: models.RoleTrainer}
	if err := svc.RateCoordinator(context.Background(), invited.ID, stranger, 4); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("RateCoordinator() by stranger error = %v, want ErrPermissionDenied", err)
	}

	trainer := workflow.Actor{UserID: 5, Role: models.RoleTrainer}
	if err := svc.RateCoordinator(context.Background(), invited.ID, trainer, 4); err != nil {
		t.Errorf("RateCoordinator() by trainer error = %v", err)
	}
}
