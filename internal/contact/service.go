package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/velomarket/velomarket-backend/pkg/config"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/logger"
	"github.com/velomarket/velomarket-backend/pkg/mailer"
)

// Request is a contact form submission.
type Request struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Service forwards contact form submissions to the shop inbox.
type Service interface {
	Submit(ctx context.Context, req Request) error
}

type service struct {
	mail      mailer.Sender
	logg      *logger.Logger
	recipient string
}

// NewService builds a contact service backed by the provided mailer.
func NewService(mail mailer.Sender, logg *logger.Logger, cfg config.SMTPConfig) (Service, error) {
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.ContactRecipient == "" {
		return nil, fmt.Errorf("contact recipient is required")
	}
	return &service{mail: mail, logg: logg, recipient: cfg.ContactRecipient}, nil
}

// Submit accepts the form and forwards it by email. Delivery is best effort:
// a mail failure is logged and the submission still succeeds.
func (s *service) Submit(ctx context.Context, req Request) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if name == "" || email == "" || message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, email, and message are required")
	}

	body := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, message)
	err := s.mail.Send(ctx, mailer.Message{
		To:      []string{s.recipient},
		Subject: fmt.Sprintf("Contact form: %s", name),
		Body:    body,
	})
	if err != nil {
		ctx = s.logg.WithField(ctx, "contact_email", email)
		s.logg.Warn(ctx, "contact mail delivery failed")
	}
	return nil
}
