package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/bistro-ops/bistro/internal/models"
)

const (
	// DefaultHorizon is the number of days projected by the forecasts.
	DefaultHorizon = 7

	// MinSalesRows is the fewest rows a quadratic trend can be fitted to.
	MinSalesRows = 3

	// MinWasteDays is the default fewest distinct days the waste forecast
	// accepts.
	MinWasteDays = 6
)

// ForecastPoint is one projected value.
type ForecastPoint struct {
	Date  models.Date
	Value float64
}

// ForecastSales fits a least-squares quadratic to revenue by row index and
// projects it horizon days past the last row. It is a trend projection
// with no error bounds.
func ForecastSales(rows []models.Transaction, horizon int) ([]ForecastPoint, error) {
	if len(rows) < MinSalesRows {
		return nil, fmt.Errorf("sales forecast needs %d rows, have %d: %w", MinSalesRows, len(rows), models.ErrInsufficientData)
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	sorted := byDate(rows)
	n := len(sorted)

	design := mat.NewDense(n, 3, nil)
	revenue := mat.NewVecDense(n, nil)
	for i, r := range sorted {
		x := float64(i)
		design.Set(i, 0, 1)
		design.Set(i, 1, x)
		design.Set(i, 2, x*x)
		revenue.SetVec(i, r.Revenue)
	}

	var coef mat.VecDense
	if err := coef.SolveVec(design, revenue); err != nil {
		return nil, fmt.Errorf("fitting sales trend: %w", err)
	}
	c0, c1, c2 := coef.AtVec(0), coef.AtVec(1), coef.AtVec(2)

	last := sorted[n-1].Date
	out := make([]ForecastPoint, horizon)
	for k := range out {
		x := float64(n + k)
		out[k] = ForecastPoint{
			Date:  last.AddDays(k + 1),
			Value: c0 + c1*x + c2*x*x,
		}
	}
	return out, nil
}

// smoothingGrid holds the candidate values for both Holt parameters.
var smoothingGrid = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

// HoltFit is a fitted additive-trend exponential smoothing model.
type HoltFit struct {
	Alpha float64
	Beta  float64
	Level float64
	Trend float64
	SSE   float64
}

// ForecastWaste projects daily waste totals with Holt's linear method.
// Alpha and beta are chosen from a 0.1 to 0.9 grid by one-step-ahead
// squared error. Totals are treated as consecutive observations and
// negative projections are clamped to zero. minDays <= 0 means
// MinWasteDays.
func ForecastWaste(daily []models.DailyTotal, horizon, minDays int) ([]ForecastPoint, error) {
	if minDays <= 0 {
		minDays = MinWasteDays
	}
	if minDays < 2 {
		minDays = 2
	}
	if len(daily) < minDays {
		return nil, fmt.Errorf("waste forecast needs %d days of data, have %d: %w", minDays, len(daily), models.ErrInsufficientData)
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	series := make([]float64, len(daily))
	for i, d := range daily {
		series[i] = d.Total
	}

	fit := FitHolt(series)
	last := daily[len(daily)-1].Date

	out := make([]ForecastPoint, horizon)
	for h := range out {
		v := fit.Level + float64(h+1)*fit.Trend
		out[h] = ForecastPoint{Date: last.AddDays(h + 1), Value: math.Max(v, 0)}
	}
	return out, nil
}

// FitHolt grid-searches the smoothing parameters for y, which must hold at
// least two values. Ties keep the smallest alpha, then the smallest beta.
func FitHolt(y []float64) HoltFit {
	best := HoltFit{SSE: math.Inf(1)}
	for _, a := range smoothingGrid {
		for _, b := range smoothingGrid {
			f := holt(y, a, b)
			if f.SSE < best.SSE {
				best = f
			}
		}
	}
	return best
}

func holt(y []float64, alpha, beta float64) HoltFit {
	level, trend := y[0], y[1]-y[0]
	var sse float64
	for _, v := range y[1:] {
		e := v - (level + trend)
		sse += e * e

		prev := level
		level = alpha*v + (1-alpha)*(level+trend)
		trend = beta*(level-prev) + (1-beta)*trend
	}
	return HoltFit{Alpha: alpha, Beta: beta, Level: level, Trend: trend, SSE: sse}
}
