package notify

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/pkg/push"
)

type fakePushSender struct {
	sent chan *push.Notification
}

func (f *fakePushSender) SendToUser(n *push.Notification) {
	f.sent <- n
}

type fakeEmailService struct {
	sent chan string
}

func (f *fakeEmailService) SendWelcomeEmail(toEmail, toName, temporaryPassword string) error {
	return nil
}

func (f *fakeEmailService) SendVerificationEmail(toEmail, toName, token string) error {
	return nil
}

func (f *fakeEmailService) SendPasswordResetEmail(toEmail, toName, token string) error {
	return nil
}

func (f *fakeEmailService) SendStatusUpdateEmail(toEmail, toName, subject, headline, detail string) error {
	f.sent <- toEmail
	return nil
}

func (f *fakeEmailService) SendTrainerInvitationEmail(toEmail, toName, eventTitle, token string) error {
	return nil
}

func TestNotifyDispatchesToAllChannels(t *testing.T) {
	pushSender := &fakePushSender{sent: make(chan *push.Notification, 4)}
	emailService := &fakeEmailService{sent: make(chan string, 4)}
	notifier := NewNotifier(emailService, pushSender, zerolog.Nop())

	notifier.Notify(Event{
		Entity:   "application",
		Action:   "accept",
		To:       "ACCEPTED",
		EntityID: 42,
		Subject:  "Summer Internship",
	}, Recipient{UserID: 3, Email: "member@example.com", Name: "Asha"})

	select {
	case n := <-pushSender.sent:
		if n.UserID != 3 {
			t.Fatalf("push sent to wrong user: %d", n.UserID)
		}
		if n.Category != "application" {
			t.Fatalf("unexpected category: %s", n.Category)
		}
	case <-time.After(time.Second):
		t.Fatal("push notification was never sent")
	}

	select {
	case toEmail := <-emailService.sent:
		if toEmail != "member@example.com" {
			t.Fatalf("email sent to wrong address: %s", toEmail)
		}
	case <-time.After(time.Second):
		t.Fatal("email notification was never sent")
	}
}

func TestNotifyIgnoresUnmappedTransition(t *testing.T) {
	pushSender := &fakePushSender{sent: make(chan *push.Notification, 4)}
	notifier := NewNotifier(nil, pushSender, zerolog.Nop())

	notifier.Notify(Event{
		Entity:   "application",
		Action:   "withdraw",
		To:       "WITHDRAWN",
		EntityID: 42,
		Subject:  "Summer Internship",
	}, Recipient{UserID: 3, Email: "member@example.com"})

	select {
	case <-pushSender.sent:
		t.Fatal("withdraw has no notification template and must be silent")
	case <-time.After(100 * time.Millisecond):
	}
}
