package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/util"
)

// TransactionSource reads the imported dataset.
type TransactionSource interface {
	ListRange(ctx context.Context, start, end models.Date) ([]models.Transaction, error)
	Bounds(ctx context.Context) (first, last models.Date, ok bool, err error)
}

// WasteSource supplies daily waste totals, oldest first.
type WasteSource interface {
	DailyTotals(ctx context.Context) ([]models.DailyTotal, error)
}

// WeekAnchor picks the date whose week is "this week".
type WeekAnchor string

const (
	AnchorRangeEnd  WeekAnchor = "range_end"
	AnchorWallClock WeekAnchor = "wall_clock"
)

// Settings tunes the dashboard.
type Settings struct {
	ZThreshold       float64
	MinAnomalySample int
	Horizon          int
	WasteMinDays     int
	WeekAnchor       WeekAnchor
	FoodCostRatio    float64
	TopItems         int
	Health           HealthPolicy
}

// DefaultSettings returns the built-in tuning.
func DefaultSettings() Settings {
	return Settings{
		ZThreshold:       2.0,
		MinAnomalySample: MinAnomalySample,
		Horizon:          DefaultHorizon,
		WasteMinDays:     MinWasteDays,
		WeekAnchor:       AnchorRangeEnd,
		FoodCostRatio:    DefaultFoodCostRatio,
		TopItems:         5,
		Health:           DefaultHealthPolicy(),
	}
}

// Dashboard bundles everything the business intelligence view shows.
// A section that could not be computed carries a note instead.
type Dashboard struct {
	Range        models.DateRange
	KPI          KPI
	Week         WeekComparison
	Anomalies    []Anomaly
	AnomalyNote  string
	Forecast     []ForecastPoint
	ForecastNote string
	Health       HealthReport
	Insights     []Insight
	TopItems     []ItemRevenue
}

// Report is a KPI summary with the rows it was computed from.
type Report struct {
	Range models.DateRange
	KPI   KPI
	Rows  []models.Transaction
}

// Service runs analytics over the dataset.
type Service struct {
	txns     TransactionSource
	waste    WasteSource
	authz    *access.Authorizer
	clock    util.Clock
	settings Settings
	log      *slog.Logger
}

// NewService creates an analytics service. waste may be nil when the
// waste forecast is not needed.
func NewService(txns TransactionSource, waste WasteSource, authz *access.Authorizer, clock util.Clock, settings Settings) *Service {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &Service{
		txns:     txns,
		waste:    waste,
		authz:    authz,
		clock:    clock,
		settings: settings,
		log:      slog.Default().With("component", "analytics"),
	}
}

// Dashboard computes the full dashboard for [start, end]. Zero bounds
// default to the first and last dataset dates.
func (s *Service) Dashboard(ctx context.Context, start, end models.Date) (*Dashboard, error) {
	if err := s.authz.Authorize(access.FeatureBusinessIntelligence); err != nil {
		return nil, err
	}

	rng, rows, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Range:    rng,
		KPI:      Totals(rows),
		Insights: Insights(rows, s.settings.FoodCostRatio),
		TopItems: TopItems(rows, s.settings.TopItems),
	}

	d.Week = WeekOverWeek(rows, s.anchor(rows))

	d.Anomalies, err = DetectAnomalies(rows, s.settings.ZThreshold, s.settings.MinAnomalySample)
	if err != nil {
		if !errors.Is(err, models.ErrInsufficientData) {
			return nil, err
		}
		d.AnomalyNote = "Not enough data for anomaly detection."
	}

	d.Forecast, err = ForecastSales(rows, s.settings.Horizon)
	if err != nil {
		if !errors.Is(err, models.ErrInsufficientData) {
			return nil, err
		}
		d.ForecastNote = "Not enough data for a sales forecast."
	}

	d.Health, err = CheckHealth(rows, s.settings.Health)
	if err != nil {
		return nil, err
	}

	s.log.Debug("dashboard computed", "start", rng.Start, "end", rng.End, "rows", len(rows), "anomalies", len(d.Anomalies))
	return d, nil
}

// Report returns KPI totals and rows for [start, end].
func (s *Service) Report(ctx context.Context, start, end models.Date) (*Report, error) {
	if err := s.authz.Authorize(access.FeatureBIReports); err != nil {
		return nil, err
	}

	rng, rows, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &Report{Range: rng, KPI: Totals(rows), Rows: rows}, nil
}

// WasteForecast projects daily waste for the configured horizon.
func (s *Service) WasteForecast(ctx context.Context) ([]ForecastPoint, error) {
	if err := s.authz.Authorize(access.FeatureWasteManagement); err != nil {
		return nil, err
	}
	if s.waste == nil {
		return nil, fmt.Errorf("no waste log available: %w", models.ErrInsufficientData)
	}

	daily, err := s.waste.DailyTotals(ctx)
	if err != nil {
		return nil, err
	}
	return ForecastWaste(daily, s.settings.Horizon, s.settings.WasteMinDays)
}

func (s *Service) load(ctx context.Context, start, end models.Date) (models.DateRange, []models.Transaction, error) {
	if start.IsZero() || end.IsZero() {
		first, last, ok, err := s.txns.Bounds(ctx)
		if err != nil {
			return models.DateRange{}, nil, fmt.Errorf("reading dataset bounds: %w", err)
		}
		if !ok {
			return models.DateRange{}, nil, nil
		}
		if start.IsZero() {
			start = first
		}
		if end.IsZero() {
			end = last
		}
	}

	rng := models.DateRange{Start: start, End: end}
	if !rng.Valid() {
		return models.DateRange{}, nil, fmt.Errorf("range %s to %s: %w", start, end, models.ErrInvalidRange)
	}

	rows, err := s.txns.ListRange(ctx, start, end)
	if err != nil {
		return models.DateRange{}, nil, fmt.Errorf("loading transactions: %w", err)
	}
	return rng, rows, nil
}

func (s *Service) anchor(rows []models.Transaction) models.Date {
	if s.settings.WeekAnchor == AnchorWallClock {
		return models.DateOf(s.clock.Now())
	}
	return LastDate(rows)
}
