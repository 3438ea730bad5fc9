package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

type fakeAssessmentStore struct {
	assessments map[int64]*models.Assessment
	nextID      int64
}

func newFakeAssessmentStore() *fakeAssessmentStore {
	return &fakeAssessmentStore{assessments: make(map[int64]*models.Assessment), nextID: 1}
}

func (f *fakeAssessmentStore) GetByID(ctx context.Context, id int64) (*models.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return nil, apperrors.ErrAssessmentNotFound
	}
	copy := *a
	return &copy, nil
}

func (f *fakeAssessmentStore) GetActiveByMember(ctx context.Context, memberID int64) (*models.Assessment, error) {
	for _, a := range f.assessments {
		if a.MemberID == memberID && a.Status != models.AssessmentCompleted {
			copy := *a
			return &copy, nil
		}
	}
	return nil, apperrors.ErrAssessmentNotFound
}

func (f *fakeAssessmentStore) GetHistoryByMember(ctx context.Context, memberID int64) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, a := range f.assessments {
		if a.MemberID == memberID && a.Status == models.AssessmentCompleted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssessmentStore) Create(ctx context.Context, a *models.Assessment) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *a
	stored.ID = id
	f.assessments[id] = &stored
	return id, nil
}

func (f *fakeAssessmentStore) SaveAnswer(ctx context.Context, id int64, question, answer int) error {
	a, ok := f.assessments[id]
	if !ok || a.Status == models.AssessmentCompleted {
		return apperrors.ErrInvalidTransition
	}
	switch question {
	case 1:
		a.Answer1 = &answer
	case 2:
		a.Answer2 = &answer
	case 3:
		a.Answer3 = &answer
	case 4:
		a.Answer4 = &answer
	case 5:
		a.Answer5 = &answer
	default:
		return apperrors.ErrBadRequest
	}
	a.Status = models.AssessmentInProgress
	return nil
}

func (f *fakeAssessmentStore) Complete(ctx context.Context, id int64, skillScore, willScore float64, category models.AssessmentCategory, recommendedVerticalID *int64) error {
	a, ok := f.assessments[id]
	if !ok || a.Status == models.AssessmentCompleted {
		return apperrors.ErrInvalidTransition
	}
	a.Status = models.AssessmentCompleted
	a.SkillScore = &skillScore
	a.WillScore = &willScore
	a.Category = &category
	a.RecommendedVerticalID = recommendedVerticalID
	return nil
}

type fakeVerticalListStore struct {
	verticals []models.Vertical
}

func (f *fakeVerticalListStore) GetVerticals(ctx context.Context, chapterID int64) ([]models.Vertical, error) {
	return f.verticals, nil
}

func newAssessmentFixture(t *testing.T) (AssessmentService, *fakeAssessmentStore) {
	t.Helper()

	store := newFakeAssessmentStore()
	verticals := &fakeVerticalListStore{verticals: []models.Vertical{
		{ID: 1, ChapterID: 1, Name: "Masoom"},
		{ID: 2, ChapterID: 1, Name: "Climate"},
		{ID: 3, ChapterID: 1, Name: "Road Safety"},
	}}
	return NewAssessmentService(store, verticals, zerolog.Nop()), store
}

func answerAll(t *testing.T, svc AssessmentService, id int64, answers [5]int) {
	t.Helper()
	for i, answer := range answers {
		req := dto.SubmitAnswerRequest{Question: i + 1, Answer: answer}
		if err := svc.SubmitAnswer(context.Background(), id, 1, req); err != nil {
			t.Fatalf("SubmitAnswer(q%d) error = %v", i+1, err)
		}
	}
}

func TestStartRejectsSecondActiveAssessment(t *testing.T) {
	svc, _ := newAssessmentFixture(t)

	if _, err := svc.Start(context.Background(), 1, 1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	_, err := svc.Start(context.Background(), 1, 1)
	if !errors.Is(err, apperrors.ErrAssessmentActive) {
		t.Errorf("second Start() error = %v, want ErrAssessmentActive", err)
	}
}

func TestCompleteRequiresAllAnswers(t *testing.T) {
	svc, _ := newAssessmentFixture(t)

	started, err := svc.Start(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := svc.SubmitAnswer(context.Background(), started.ID, 1, dto.SubmitAnswerRequest{Question: 1, Answer: 4}); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	_, err = svc.Complete(context.Background(), started.ID, 1)
	if !errors.Is(err, apperrors.ErrAssessmentIncomplete) {
		t.Errorf("Complete() error = %v, want ErrAssessmentIncomplete", err)
	}
}

func TestCompleteClassifiesQuadrant(t *testing.T) {
	cases := []struct {
		name    string
		answers [5]int
		want    models.AssessmentCategory
	}{
		{"high skill high will", [5]int{5, 4, 5, 4, 5}, models.CategoryHighSkillHighWill},
		{"high skill low will", [5]int{5, 4, 5, 1, 2}, models.CategoryHighSkillLowWill},
		{"low skill high will", [5]int{1, 2, 2, 5, 4}, models.CategoryLowSkillHighWill},
		{"low skill low will", [5]int{1, 2, 1, 2, 1}, models.CategoryLowSkillLowWill},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newAssessmentFixture(t)
			started, err := svc.Start(context.Background(), 1, 1)
			if err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			answerAll(t, svc, started.ID, tc.answers)

			completed, err := svc.Complete(context.Background(), started.ID, 1)
			if err != nil {
				t.Fatalf("Complete() error = %v", err)
			}
			if completed.Category == nil || *completed.Category != tc.want {
				t.Errorf("category = %v, want %s", completed.Category, tc.want)
			}
			if completed.RecommendedVerticalID == nil {
				t.Error("expected a recommended vertical")
			}
		})
	}
}

func TestCompleteIsTerminal(t *testing.T) {
	svc, store := newAssessmentFixture(t)

	started, err := svc.Start(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	answerAll(t, svc, started.ID, [5]int{3, 3, 3, 3, 3})
	if _, err := svc.Complete(context.Background(), started.ID, 1); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if _, err := svc.Complete(context.Background(), started.ID, 1); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("second Complete() error = %v, want ErrInvalidTransition", err)
	}
	if err := svc.SubmitAnswer(context.Background(), started.ID, 1, dto.SubmitAnswerRequest{Question: 2, Answer: 5}); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("SubmitAnswer() after completion error = %v, want ErrInvalidTransition", err)
	}
	if store.assessments[started.ID].Status != models.AssessmentCompleted {
		t.Error("assessment should remain completed")
	}
}

func TestSubmitAnswerOnlyByMember(t *testing.T) {
	svc, _ := newAssessmentFixture(t)

	started, err := svc.Start(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	err = svc.SubmitAnswer(context.Background(), started.ID, 2, dto.SubmitAnswerRequest{Question: 1, Answer: 3})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("SubmitAnswer() by another member error = %v, want ErrPermissionDenied", err)
	}
}
