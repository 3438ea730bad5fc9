package workflow

import (
	"github.com/yiconnect/backend/internal/app/models"
)

// Action names shared across entity families
const (
	ActionPublish         Action = "publish"
	ActionClose           Action = "close"
	ActionReview          Action = "review"
	ActionShortlist       Action = "shortlist"
	ActionAccept          Action = "accept"
	ActionDecline         Action = "decline"
	ActionWithdraw        Action = "withdraw"
	ActionApprove         Action = "approve"
	ActionForward         Action = "forward"
	ActionSchedule        Action = "schedule"
	ActionComplete        Action = "complete"
	ActionCancel          Action = "cancel"
	ActionInvite          Action = "invite"
	ActionConfirm         Action = "confirm"
	ActionSubmitReview    Action = "submit_review"
	ActionRequestRevision Action = "request_revision"
)

var elevated = []models.RoleType{models.RoleCoordinator, models.RoleChapterChair, models.RoleYiAdmin}

var reviewers = []models.RoleType{models.RoleReviewer, models.RoleChapterChair, models.RoleYiAdmin}

// Opportunities moves an opportunity between draft, accepting, and closed.
// Opportunities are never destroyed; close is the terminal action.
var Opportunities = &Machine{
	Entity: "opportunity",
	Rules: map[Action]Rule{
		ActionPublish: {
			From:  []string{string(models.OpportunityDraft)},
			To:    string(models.OpportunityAccepting),
			Roles: elevated,
		},
		ActionClose: {
			From:  []string{string(models.OpportunityAccepting)},
			To:    string(models.OpportunityClosed),
			Roles: elevated,
		},
	},
}

// Applications governs the review pipeline for opportunity applications.
// Only accept moves the parent counters; shortlist does not. Withdraw is
// reserved for the applicant and is rejected once the record is terminal.
var Applications = &Machine{
	Entity: "application",
	Rules: map[Action]Rule{
		ActionReview: {
			From:  []string{string(models.ApplicationPendingReview)},
			To:    string(models.ApplicationUnderReview),
			Roles: reviewers,
		},
		ActionShortlist: {
			From:  []string{string(models.ApplicationPendingReview), string(models.ApplicationUnderReview)},
			To:    string(models.ApplicationShortlisted),
			Roles: reviewers,
		},
		ActionAccept: {
			From: []string{
				string(models.ApplicationPendingReview),
				string(models.ApplicationUnderReview),
				string(models.ApplicationShortlisted),
			},
			To:    string(models.ApplicationAccepted),
			Roles: reviewers,
		},
		ActionDecline: {
			From: []string{
				string(models.ApplicationPendingReview),
				string(models.ApplicationUnderReview),
				string(models.ApplicationShortlisted),
			},
			To:    string(models.ApplicationDeclined),
			Roles: reviewers,
		},
		ActionWithdraw: {
			From: []string{
				string(models.ApplicationPendingReview),
				string(models.ApplicationUnderReview),
				string(models.ApplicationShortlisted),
			},
			To:    string(models.ApplicationWithdrawn),
			Owner: true,
		},
	},
}

// VisitRequests is a strict chain: each transition is valid only from its
// specific prior state. Cancel is allowed from any non-terminal state by the
// requester or a Yi admin.
var VisitRequests = &Machine{
	Entity: "visit request",
	Rules: map[Action]Rule{
		ActionApprove: {
			From:  []string{string(models.VisitPendingYiReview)},
			To:    string(models.VisitYiApproved),
			Roles: []models.RoleType{models.RoleYiAdmin},
		},
		ActionForward: {
			From:  []string{string(models.VisitYiApproved)},
			To:    string(models.VisitForwardedToIndustry),
			Roles: []models.RoleType{models.RoleYiAdmin},
		},
		ActionSchedule: {
			From:  []string{string(models.VisitForwardedToIndustry)},
			To:    string(models.VisitScheduled),
			Roles: []models.RoleType{models.RoleYiAdmin, models.RoleIndustryPartner},
		},
		ActionComplete: {
			From:  []string{string(models.VisitScheduled)},
			To:    string(models.VisitCompleted),
			Roles: []models.RoleType{models.RoleYiAdmin},
		},
		ActionCancel: {
			From: []string{
				string(models.VisitPendingYiReview),
				string(models.VisitYiApproved),
				string(models.VisitForwardedToIndustry),
				string(models.VisitScheduled),
			},
			To:    string(models.VisitCancelled),
			Roles: []models.RoleType{models.RoleYiAdmin},
			Owner: true,
		},
	},
}

// TrainerAssignments governs the invitation flow between coordinators and
// trainers. Accept/decline belong to the invited trainer (or the invitation
// token redeemer); confirming a declined assignment is illegal.
var TrainerAssignments = &Machine{
	Entity: "trainer assignment",
	Rules: map[Action]Rule{
		ActionInvite: {
			From:  []string{string(models.AssignmentSelected)},
			To:    string(models.AssignmentInvited),
			Roles: elevated,
		},
		ActionAccept: {
			From:  []string{string(models.AssignmentInvited)},
			To:    string(models.AssignmentAccepted),
			Roles: []models.RoleType{models.RoleTrainer},
			Owner: true,
		},
		ActionDecline: {
			From:  []string{string(models.AssignmentInvited)},
			To:    string(models.AssignmentDeclined),
			Roles: []models.RoleType{models.RoleTrainer},
			Owner: true,
		},
		ActionConfirm: {
			From:  []string{string(models.AssignmentAccepted)},
			To:    string(models.AssignmentConfirmed),
			Roles: elevated,
		},
		ActionComplete: {
			From:  []string{string(models.AssignmentConfirmed)},
			To:    string(models.AssignmentCompleted),
			Roles: elevated,
		},
		ActionCancel: {
			From: []string{
				string(models.AssignmentSelected),
				string(models.AssignmentInvited),
				string(models.AssignmentAccepted),
				string(models.AssignmentConfirmed),
			},
			To:    string(models.AssignmentCancelled),
			Roles: elevated,
		},
	},
}

// Materials governs version review. SUPERSEDED is never a transition target
// here; it is applied by the versioning path when a new version is inserted.
var Materials = &Machine{
	Entity: "material",
	Rules: map[Action]Rule{
		ActionSubmitReview: {
			From: []string{
				string(models.MaterialDraft),
				string(models.MaterialRevisionRequested),
			},
			To:    string(models.MaterialPendingReview),
			Owner: true,
			Roles: elevated,
		},
		ActionApprove: {
			From:  []string{string(models.MaterialPendingReview)},
			To:    string(models.MaterialApproved),
			Roles: reviewers,
		},
		ActionRequestRevision: {
			From:  []string{string(models.MaterialPendingReview)},
			To:    string(models.MaterialRevisionRequested),
			Roles: reviewers,
		},
	},
}
