package contact

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/velomarket/velomarket-backend/pkg/config"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/logger"
	"github.com/velomarket/velomarket-backend/pkg/mailer"
)

type stubSender struct {
	sent    []mailer.Message
	sendErr error
}

func (s *stubSender) Send(ctx context.Context, msg mailer.Message) error {
	s.sent = append(s.sent, msg)
	return s.sendErr
}

func buildContactTestService(t *testing.T, sender *stubSender) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(sender, logg, config.SMTPConfig{ContactRecipient: "inbox@example.com"})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestSubmitForwardsToInbox(t *testing.T) {
	sender := &stubSender{}
	svc := buildContactTestService(t, sender)

	err := svc.Submit(context.Background(), Request{
		Name:    "Lea",
		Email:   "lea@example.com",
		Message: "Is the trail fork in stock?",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if len(msg.To) != 1 || msg.To[0] != "inbox@example.com" {
		t.Fatalf("unexpected recipients %v", msg.To)
	}
	if !strings.Contains(msg.Subject, "Lea") {
		t.Fatalf("subject should name the sender: %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "lea@example.com") {
		t.Fatalf("body should carry the reply address: %q", msg.Body)
	}
}

func TestSubmitRejectsBlankFields(t *testing.T) {
	sender := &stubSender{}
	svc := buildContactTestService(t, sender)

	err := svc.Submit(context.Background(), Request{Name: "  ", Email: "lea@example.com", Message: "hi"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("nothing should be sent on validation failure")
	}
}

func TestSubmitSucceedsWhenDeliveryFails(t *testing.T) {
	sender := &stubSender{sendErr: fmt.Errorf("smtp down")}
	svc := buildContactTestService(t, sender)

	err := svc.Submit(context.Background(), Request{
		Name:    "Lea",
		Email:   "lea@example.com",
		Message: "Is the trail fork in stock?",
	})
	if err != nil {
		t.Fatalf("delivery failure must not bubble up, got %v", err)
	}
}

func TestNewServiceRequiresRecipient(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	if _, err := NewService(&stubSender{}, logg, config.SMTPConfig{}); err == nil {
		t.Fatalf("expected error without recipient")
	}
}
