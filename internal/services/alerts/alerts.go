// Package alerts evaluates restocking and expiry rules over inventory and
// dispatches the resulting messages.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/notify"
)

// Subject is the subject line of every alert digest.
const Subject = "Inventory alerts"

// DefaultExpiryWindowDays is the look-ahead for the expiry rule.
const DefaultExpiryWindowDays = 7

// Rule names an alert rule.
type Rule string

const (
	RuleLowStock Rule = "low_stock"
	RuleExpiry   Rule = "expiry"
)

// Alert is one triggered rule for one item.
type Alert struct {
	Rule       Rule
	Item       string
	Quantity   int
	Expiration models.Date
	Message    string
}

// Evaluate applies both rules to every item. An item can trigger both.
// Items with no expiration date never trigger the expiry rule.
func Evaluate(items []models.InventoryItem, today models.Date, windowDays int) []Alert {
	var out []Alert
	for _, it := range items {
		if it.IsLowStock() {
			out = append(out, Alert{
				Rule:     RuleLowStock,
				Item:     it.Item,
				Quantity: it.Quantity,
				Message:  fmt.Sprintf("Low stock: %s has only %d left", it.Item, it.Quantity),
			})
		}
		if it.ExpiresWithin(today, windowDays) {
			out = append(out, Alert{
				Rule:       RuleExpiry,
				Item:       it.Item,
				Quantity:   it.Quantity,
				Expiration: it.Expiration,
				Message:    fmt.Sprintf("Expiring soon: %s expires on %s", it.Item, it.Expiration),
			})
		}
	}
	return out
}

// Messages returns the message text of each alert.
func Messages(alerts []Alert) []string {
	msgs := make([]string, len(alerts))
	for i, a := range alerts {
		msgs[i] = a.Message
	}
	return msgs
}

// SendStatus is the outcome of a dispatch attempt.
type SendStatus string

const (
	SendStatusSent          SendStatus = "sent"
	SendStatusNoAlerts      SendStatus = "no_alerts"
	SendStatusNoDestination SendStatus = "no_destination"
	SendStatusFailed        SendStatus = "failed"
)

func (s SendStatus) String() string {
	return string(s)
}

// Send delivers messages as a single digest. Nothing is sent when there are
// no messages or no destination.
func Send(ctx context.Context, n notify.Notifier, messages []string, destination string) (SendStatus, error) {
	if len(messages) == 0 {
		return SendStatusNoAlerts, nil
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return SendStatusNoDestination, nil
	}

	err := n.Send(ctx, notify.Message{
		To:      destination,
		Subject: Subject,
		Body:    strings.Join(messages, "\n"),
	})
	if err != nil {
		if !errors.Is(err, models.ErrTransportFailure) {
			err = fmt.Errorf("%w: %w", models.ErrTransportFailure, err)
		}
		return SendStatusFailed, err
	}
	return SendStatusSent, nil
}
