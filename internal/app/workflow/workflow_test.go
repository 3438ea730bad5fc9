package workflow

import (
	"errors"
	"testing"

	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

func TestApplyLegalTransition(t *testing.T) {
	reviewer := Actor{UserID: 7, Role: models.RoleReviewer}

	next, err := Applications.Apply(ActionAccept, string(models.ApplicationShortlisted), reviewer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != string(models.ApplicationAccepted) {
		t.Fatalf("expected ACCEPTED, got %s", next)
	}
}

func TestApplyRejectsIllegalSourceState(t *testing.T) {
	reviewer := Actor{UserID: 7, Role: models.RoleReviewer}

	_, err := Applications.Apply(ActionAccept, string(models.ApplicationWithdrawn), reviewer)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplyRejectsDoubleAccept(t *testing.T) {
	reviewer := Actor{UserID: 7, Role: models.RoleReviewer}

	_, err := Applications.Apply(ActionAccept, string(models.ApplicationAccepted), reviewer)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("re-accepting an accepted application must fail, got %v", err)
	}
}

func TestApplyRejectsUnauthorizedRole(t *testing.T) {
	member := Actor{UserID: 3, Role: models.RoleMember}

	_, err := Applications.Apply(ActionAccept, string(models.ApplicationPendingReview), member)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestWithdrawIsOwnerOnly(t *testing.T) {
	owner := Actor{UserID: 3, Role: models.RoleMember, IsOwner: true}
	stranger := Actor{UserID: 4, Role: models.RoleMember}

	if _, err := Applications.Apply(ActionWithdraw, string(models.ApplicationPendingReview), owner); err != nil {
		t.Fatalf("owner withdraw should succeed: %v", err)
	}
	if _, err := Applications.Apply(ActionWithdraw, string(models.ApplicationPendingReview), stranger); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("non-owner withdraw must be forbidden, got %v", err)
	}
}

func TestWithdrawFromWithdrawnFails(t *testing.T) {
	owner := Actor{UserID: 3, Role: models.RoleMember, IsOwner: true}

	_, err := Applications.Apply(ActionWithdraw, string(models.ApplicationWithdrawn), owner)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("withdrawing a withdrawn application must fail, got %v", err)
	}
}

func TestVisitRequestChainOrder(t *testing.T) {
	admin := Actor{UserID: 1, Role: models.RoleYiAdmin}

	// complete is only legal from SCHEDULED
	if _, err := VisitRequests.Apply(ActionComplete, string(models.VisitYiApproved), admin); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("completing an unscheduled visit must fail, got %v", err)
	}

	status := string(models.VisitPendingYiReview)
	for _, step := range []Action{ActionApprove, ActionForward, ActionSchedule, ActionComplete} {
		next, err := VisitRequests.Apply(step, status, admin)
		if err != nil {
			t.Fatalf("step %s from %s: %v", step, status, err)
		}
		status = next
	}
	if status != string(models.VisitCompleted) {
		t.Fatalf("expected chain to end COMPLETED, got %s", status)
	}
}

func TestIndustryPartnerCanSchedule(t *testing.T) {
	partner := Actor{UserID: 9, Role: models.RoleIndustryPartner}

	next, err := VisitRequests.Apply(ActionSchedule, string(models.VisitForwardedToIndustry), partner)
	if err != nil {
		t.Fatalf("industry partner schedule should succeed: %v", err)
	}
	if next != string(models.VisitScheduled) {
		t.Fatalf("expected SCHEDULED, got %s", next)
	}

	coordinator := Actor{UserID: 2, Role: models.RoleCoordinator}
	if _, err := VisitRequests.Apply(ActionSchedule, string(models.VisitForwardedToIndustry), coordinator); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("coordinator schedule must be forbidden, got %v", err)
	}
}

func TestConfirmDeclinedAssignmentFails(t *testing.T) {
	coordinator := Actor{UserID: 2, Role: models.RoleCoordinator}

	_, err := TrainerAssignments.Apply(ActionConfirm, string(models.AssignmentDeclined), coordinator)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("confirming a declined assignment must fail, got %v", err)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	admin := Actor{UserID: 1, Role: models.RoleYiAdmin}

	_, err := Opportunities.Apply(Action("reopen"), string(models.OpportunityClosed), admin)
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("unknown action must be rejected, got %v", err)
	}
}

func TestCanIgnoresActor(t *testing.T) {
	if !Materials.Can(ActionApprove, string(models.MaterialPendingReview)) {
		t.Fatal("approve should be possible from PENDING_REVIEW")
	}
	if Materials.Can(ActionApprove, string(models.MaterialSuperseded)) {
		t.Fatal("approve must not be possible from SUPERSEDED")
	}
}
