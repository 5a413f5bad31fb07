// Package mailer implements ports.Mailer over plain SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
)

// ErrNotConfigured is returned when the SMTP host is unset; callers treat
// mail delivery as best-effort, so this only shows up in logs.
var ErrNotConfigured = errors.New("smtp mailer not configured")

// Config captures the SMTP transport settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg Config
}

func New(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a single plain-text message synchronously. The confirmation
// flow runs it through the mail dispatcher, so a slow or failing SMTP server
// never blocks a request.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	if m.cfg.Host == "" {
		return ErrNotConfigured
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		to, m.cfg.From, subject, body,
	))

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
