package alerts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/metrics"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/notify"
	"github.com/bistro-ops/bistro/internal/repository"
	"github.com/bistro-ops/bistro/internal/util"
)

// InventorySource supplies the current inventory.
type InventorySource interface {
	Snapshot() ([]models.InventoryItem, error)
}

// Service evaluates alerts against live inventory and records dispatches.
type Service struct {
	inventory  InventorySource
	authz      *access.Authorizer
	notifier   notify.Notifier
	history    *repository.NotificationRepository
	metrics    *metrics.Recorder
	clock      util.Clock
	ids        util.IDSource
	windowDays int
	log        *slog.Logger
}

// Options configures a Service. Zero values fall back to defaults; a nil
// History skips recording.
type Options struct {
	Notifier   notify.Notifier
	History    *repository.NotificationRepository
	Metrics    *metrics.Recorder
	Clock      util.Clock
	IDs        util.IDSource
	WindowDays int
}

// NewService creates an alert service.
func NewService(inv InventorySource, authz *access.Authorizer, opts Options) *Service {
	if opts.Notifier == nil {
		opts.Notifier = notify.Disabled
	}
	if opts.Clock == nil {
		opts.Clock = util.SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = util.NewIDGenerator()
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = DefaultExpiryWindowDays
	}
	return &Service{
		inventory:  inv,
		authz:      authz,
		notifier:   opts.Notifier,
		history:    opts.History,
		metrics:    opts.Metrics,
		clock:      opts.Clock,
		ids:        opts.IDs,
		windowDays: opts.WindowDays,
		log:        slog.Default().With("component", "alerts"),
	}
}

// Current evaluates the rules against the inventory as it is now.
func (s *Service) Current(ctx context.Context) ([]Alert, error) {
	if err := s.authz.Authorize(access.FeatureInventoryTracking); err != nil {
		return nil, err
	}

	items, err := s.inventory.Snapshot()
	if err != nil {
		return nil, err
	}

	return Evaluate(items, models.DateOf(s.clock.Now()), s.windowDays), nil
}

// Dispatch sends the current alerts to destination and records the
// outcome. A failed send leaves inventory untouched.
func (s *Service) Dispatch(ctx context.Context, destination string) (SendStatus, error) {
	alerts, err := s.Current(ctx)
	if err != nil {
		return "", err
	}

	status, sendErr := Send(ctx, s.notifier, Messages(alerts), destination)
	s.metrics.Notification(status.String())

	rec := &repository.NotificationRecord{
		ID:          s.ids.NewID(),
		SentAt:      s.clock.Now(),
		Destination: destination,
		Subject:     Subject,
		AlertCount:  len(alerts),
		Status:      status.String(),
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}
	if s.history != nil {
		if err := s.history.Record(ctx, nil, rec); err != nil {
			s.log.Warn("recording dispatch failed", "error", err)
		}
	}

	if sendErr != nil {
		s.log.Error("alert dispatch failed", "destination", destination, "alerts", len(alerts), "error", sendErr)
		return status, fmt.Errorf("dispatching alerts: %w", sendErr)
	}

	if status == SendStatusSent {
		counts := make(map[Rule]int)
		for _, a := range alerts {
			counts[a.Rule]++
		}
		for rule, n := range counts {
			s.metrics.AlertsDispatched(string(rule), n)
		}
	}

	s.log.Info("alert dispatch", "status", status, "destination", destination, "alerts", len(alerts))
	return status, nil
}

// History returns recent dispatch attempts, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*repository.NotificationRecord, error) {
	if err := s.authz.Authorize(access.FeatureInventoryTracking); err != nil {
		return nil, err
	}
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(ctx, limit)
}
