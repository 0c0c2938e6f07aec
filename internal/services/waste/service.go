// Package waste records discarded food. The log is append-only.
package waste

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/validate"
	"github.com/bistro-ops/bistro/internal/store"
	"github.com/bistro-ops/bistro/internal/util"
)

// CollectionName is the waste log file name without extension.
const CollectionName = "waste_log"

// Service provides waste log operations.
type Service struct {
	store *store.Store[models.WasteEntry]
	authz *access.Authorizer
	clock util.Clock
	ids   util.IDSource
	log   *slog.Logger
}

// NewService creates a waste service. A nil clock uses the system clock.
func NewService(st *store.Store[models.WasteEntry], authz *access.Authorizer, clock util.Clock, ids util.IDSource) *Service {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if ids == nil {
		ids = util.NewIDGenerator()
	}
	return &Service{
		store: st,
		authz: authz,
		clock: clock,
		ids:   ids,
		log:   slog.Default().With("component", "waste"),
	}
}

// List returns every logged entry in insertion order.
func (s *Service) List(ctx context.Context) ([]models.WasteEntry, error) {
	if err := s.authz.Authorize(access.FeatureWasteManagement); err != nil {
		return nil, err
	}
	return s.load()
}

func (s *Service) load() ([]models.WasteEntry, error) {
	entries, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading waste log: %w", err)
	}
	return entries, nil
}

// Add validates input and appends it to the log.
func (s *Service) Add(ctx context.Context, input AddInput) (models.WasteEntry, error) {
	if err := s.authz.Authorize(access.FeatureWasteManagement); err != nil {
		return models.WasteEntry{}, err
	}

	entry, err := s.parse(input)
	if err != nil {
		return models.WasteEntry{}, err
	}

	_, err = s.store.Update(func(entries []models.WasteEntry) ([]models.WasteEntry, error) {
		return append(entries, entry), nil
	})
	if err != nil {
		return models.WasteEntry{}, fmt.Errorf("saving waste log: %w", err)
	}

	s.log.Info("waste logged", "item", entry.Item, "quantity", entry.Quantity, "reason", entry.Reason, "date", entry.Date)
	return entry, nil
}

func (s *Service) parse(input AddInput) (models.WasteEntry, error) {
	item, err := validate.Text("Item", input.Item)
	if err != nil {
		return models.WasteEntry{}, err
	}
	qty, err := validate.Count("Quantity", input.Quantity)
	if err != nil {
		return models.WasteEntry{}, err
	}
	reason, err := parseReason(input.Reason)
	if err != nil {
		return models.WasteEntry{}, err
	}
	date, err := validate.DateOr("Date", input.Date, models.DateOf(s.clock.Now()))
	if err != nil {
		return models.WasteEntry{}, err
	}

	return models.WasteEntry{
		ID:       s.ids.NewID(),
		Item:     item,
		Quantity: qty,
		Reason:   reason,
		Date:     date,
	}, nil
}

func parseReason(raw string) (models.WasteReason, error) {
	raw = strings.TrimSpace(raw)
	for _, r := range models.WasteReasons() {
		if strings.EqualFold(raw, string(r)) {
			return r, nil
		}
	}
	return "", models.NewValidationError("Reason", fmt.Sprintf("must be one of %v", models.WasteReasons()))
}

// TotalsByReason sums quantities per reason, in the order of
// models.WasteReasons. Reasons with nothing logged are omitted.
func (s *Service) TotalsByReason(ctx context.Context) ([]ReasonTotal, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[models.WasteReason]int)
	for _, e := range entries {
		sums[e.Reason] += e.Quantity
	}

	var totals []ReasonTotal
	for _, r := range models.WasteReasons() {
		if n, ok := sums[r]; ok {
			totals = append(totals, ReasonTotal{Reason: r, Total: n})
		}
	}
	return totals, nil
}

// DailyTotals sums quantities per date, oldest first.
func (s *Service) DailyTotals(ctx context.Context) ([]models.DailyTotal, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return SumByDate(entries), nil
}

// SumByDate groups entries by date and sums their quantities.
func SumByDate(entries []models.WasteEntry) []models.DailyTotal {
	byDate := make(map[models.Date]float64)
	for _, e := range entries {
		byDate[e.Date] += float64(e.Quantity)
	}

	totals := make([]models.DailyTotal, 0, len(byDate))
	for d, t := range byDate {
		totals = append(totals, models.DailyTotal{Date: d, Total: t})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})
	return totals
}
