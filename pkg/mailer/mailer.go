package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/velomarket/velomarket-backend/pkg/config"
)

// Sender delivers a plain-text email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single outgoing email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// SMTPMailer delivers mail over a plain SMTP connection with optional auth.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer validates the SMTP config and returns a mailer.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("smtp port is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers the message. The context is honored up to the point the SMTP
// dial begins; net/smtp does not support mid-send cancellation.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, msg.To, buildRaw(m.cfg.From, msg)); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

func buildRaw(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
