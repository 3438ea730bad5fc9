package notify

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/pkg/email"
	"github.com/yiconnect/backend/internal/pkg/push"
)

// Event describes a status transition that recipients should hear about
type Event struct {
	// Entity family: "opportunity", "application", "visit_request",
	// "trainer_assignment", "material"
	Entity string

	// Action that was applied
	Action string

	// Resulting status
	To string

	// Record identifier, used to build the in-app link
	EntityID int64

	// Human context for the message body, e.g. the opportunity title
	Subject string
}

// Recipient identifies a user to notify
type Recipient struct {
	UserID int64
	Email  string
	Name   string
}

// template holds the message skeleton for one (entity, action) pair.
// The %s placeholder receives Event.Subject.
type template struct {
	title string
	body  string
}

// templates maps entity:action to its notification message. Transitions
// without an entry are applied silently.
var templates = map[string]template{
	"opportunity:publish": {
		title: "New opportunity open for applications",
		body:  "The opportunity %q is now accepting applications.",
	},
	"opportunity:close": {
		title: "Opportunity closed",
		body:  "The opportunity %q is no longer accepting applications.",
	},
	"application:submit": {
		title: "New application received",
		body:  "A new application was submitted for %q.",
	},
	"application:review": {
		title: "Your application is under review",
		body:  "Your application for %q is now being reviewed.",
	},
	"application:shortlist": {
		title: "You have been shortlisted",
		body:  "Your application for %q has been shortlisted.",
	},
	"application:accept": {
		title: "Application accepted",
		body:  "Congratulations, your application for %q was accepted.",
	},
	"application:decline": {
		title: "Application update",
		body:  "Your application for %q was not selected this time.",
	},
	"visit_request:approve": {
		title: "Visit request approved",
		body:  "Your visit request %q was approved by Yi.",
	},
	"visit_request:schedule": {
		title: "Visit scheduled",
		body:  "Your visit %q has been scheduled.",
	},
	"visit_request:complete": {
		title: "Visit completed",
		body:  "The visit %q has been marked completed.",
	},
	"visit_request:cancel": {
		title: "Visit cancelled",
		body:  "The visit %q has been cancelled.",
	},
	"trainer_assignment:invite": {
		title: "Training invitation",
		body:  "You have been invited to deliver the session %q.",
	},
	"trainer_assignment:accept": {
		title: "Trainer accepted",
		body:  "The trainer accepted the invitation for %q.",
	},
	"trainer_assignment:decline": {
		title: "Trainer declined",
		body:  "The trainer declined the invitation for %q.",
	},
	"trainer_assignment:confirm": {
		title: "Assignment confirmed",
		body:  "Your assignment for %q has been confirmed.",
	},
	"material:submit_review": {
		title: "Material awaiting review",
		body:  "The material %q was submitted for review.",
	},
	"material:approve": {
		title: "Material approved",
		body:  "Your material %q was approved.",
	},
	"material:request_revision": {
		title: "Material needs revision",
		body:  "Your material %q needs changes before it can be approved.",
	},
}

// PushSender delivers an in-app notification to one user
type PushSender interface {
	SendToUser(notification *push.Notification)
}

// Notifier fans out transition notifications to email and push channels
type Notifier interface {
	Notify(event Event, recipients ...Recipient)
}

// NotifierImpl implements Notifier. Dispatch happens on a separate
// goroutine and failures are logged, never returned: a notification
// problem must not roll back the transition that triggered it.
type NotifierImpl struct {
	emailService email.EmailService
	pushSender   PushSender
	logger       zerolog.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(emailService email.EmailService, pushSender PushSender, logger zerolog.Logger) Notifier {
	return &NotifierImpl{
		emailService: emailService,
		pushSender:   pushSender,
		logger:       logger,
	}
}

// Notify dispatches the event to all recipients asynchronously
func (n *NotifierImpl) Notify(event Event, recipients ...Recipient) {
	tmpl, ok := templates[event.Entity+":"+event.Action]
	if !ok {
		return
	}

	title := tmpl.title
	body := fmt.Sprintf(tmpl.body, event.Subject)
	actionURL := fmt.Sprintf("/%ss/%d", event.Entity, event.EntityID)

	go func() {
		for _, recipient := range recipients {
			if n.pushSender != nil {
				n.pushSender.SendToUser(&push.Notification{
					UserID:    recipient.UserID,
					Category:  event.Entity,
					Title:     title,
					Body:      body,
					ActionURL: actionURL,
				})
			}

			if n.emailService != nil && recipient.Email != "" {
				if err := n.emailService.SendStatusUpdateEmail(recipient.Email, recipient.Name, title, title, body); err != nil {
					n.logger.Warn().
						Err(err).
						Str("entity", event.Entity).
						Str("action", event.Action).
						Int64("entityId", event.EntityID).
						Str("recipient", recipient.Email).
						Msg("Notification email failed")
				}
			}
		}
	}()
}
