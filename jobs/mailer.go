package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers a plain-text message to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay such as Mailpit in
// development.
type SMTPMailer struct {
	Addr string // host:port
	From string
}

// Send delivers the message. Auth-less relays only; production setups put
// authentication on the relay side.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer writes mail to the log instead of a relay. Used when no SMTP
// address is configured.
type LogMailer struct {
	Logger *slog.Logger
}

// Send logs the message.
func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.Logger.Info("mail (log only)", slog.String("to", to), slog.String("subject", subject))
	return nil
}
