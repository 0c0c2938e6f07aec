// Package notify delivers alert digests to an external destination.
package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/models"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier sends a message. Implementations return an error wrapping
// models.ErrTransportFailure when delivery fails.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f NotifierFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

type disabled struct{}

func (disabled) Send(ctx context.Context, msg Message) error {
	return fmt.Errorf("no notification transport configured: %w", models.ErrTransportFailure)
}

// Disabled is the Notifier used when no transport is configured. Every
// send fails.
var Disabled Notifier = disabled{}

// SMTPNotifier sends plain-text mail through an SMTP relay.
type SMTPNotifier struct {
	Addr string
	From string
	Auth smtp.Auth

	// sendMail is swapped in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier builds a notifier from configuration. The password is
// read from the environment variable named by PasswordEnv.
func NewSMTPNotifier(cfg config.NotificationConfig) *SMTPNotifier {
	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, os.Getenv(cfg.PasswordEnv), cfg.SMTPHost)
	}

	return &SMTPNotifier{
		Addr:     addr,
		From:     cfg.From,
		Auth:     auth,
		sendMail: smtp.SendMail,
	}
}

// FromConfig returns an SMTP notifier when a host is configured, and
// Disabled otherwise.
func FromConfig(cfg config.NotificationConfig) Notifier {
	if !cfg.Enabled() {
		return Disabled
	}
	return NewSMTPNotifier(cfg)
}

// Send delivers msg. smtp.SendMail does not take a context, so
// cancellation is only checked before dialing.
func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sending to %s: %w: %w", msg.To, models.ErrTransportFailure, err)
	}

	body := compose(n.From, msg, time.Now())
	if err := n.sendMail(n.Addr, n.Auth, n.From, []string{msg.To}, body); err != nil {
		return fmt.Errorf("sending to %s via %s: %w: %w", msg.To, n.Addr, models.ErrTransportFailure, err)
	}
	return nil
}

func compose(from string, msg Message, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
