package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/models"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Notification
	if FromConfig(cfg) != Disabled {
		t.Error("FromConfig() without host should return Disabled")
	}

	cfg.SMTPHost = "mail.example.com"
	cfg.From = "kitchen@example.com"
	n, ok := FromConfig(cfg).(*SMTPNotifier)
	if !ok {
		t.Fatal("FromConfig() with host should return *SMTPNotifier")
	}
	if n.Addr != "mail.example.com:587" {
		t.Errorf("Addr = %q, want mail.example.com:587", n.Addr)
	}
}

func TestSMTPNotifier_Send(t *testing.T) {
	var gotTo []string
	var gotBody string

	n := NewSMTPNotifier(config.NotificationConfig{SMTPHost: "localhost", SMTPPort: 25, From: "bistro@example.com"})
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotTo = to
		gotBody = string(msg)
		return nil
	}

	err := n.Send(context.Background(), Message{
		To:      "owner@example.com",
		Subject: "Inventory alerts",
		Body:    "Low stock: Flour has only 5 left\nExpiring soon: Milk expires on 2024-06-17",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(gotTo) != 1 || gotTo[0] != "owner@example.com" {
		t.Errorf("recipients = %v", gotTo)
	}
	if !strings.Contains(gotBody, "Subject: Inventory alerts\r\n") {
		t.Errorf("message missing subject header:\n%s", gotBody)
	}
	if !strings.Contains(gotBody, "Flour has only 5 left\r\nExpiring soon") {
		t.Errorf("body lines not CRLF-joined:\n%s", gotBody)
	}
}

func TestSMTPNotifier_SendFailure(t *testing.T) {
	n := NewSMTPNotifier(config.NotificationConfig{SMTPHost: "localhost", SMTPPort: 25})
	n.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := n.Send(context.Background(), Message{To: "owner@example.com"})
	if !errors.Is(err, models.ErrTransportFailure) {
		t.Errorf("Send() error = %v, want ErrTransportFailure", err)
	}
}

func TestDisabled(t *testing.T) {
	err := Disabled.Send(context.Background(), Message{To: "x@example.com"})
	if !errors.Is(err, models.ErrTransportFailure) {
		t.Errorf("Disabled.Send() error = %v, want ErrTransportFailure", err)
	}
}
