package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/bistro-ops/bistro/internal/models"
)

// MinAnomalySample is the fewest rows z-scores are computed over.
const MinAnomalySample = 6

// Metric names a dataset column examined for anomalies.
type Metric string

const (
	MetricRevenue  Metric = "Revenue"
	MetricExpenses Metric = "Total Expenses"
)

// Anomaly is a row whose value lies more than the threshold number of
// standard deviations from the mean.
type Anomaly struct {
	Date   models.Date
	Metric Metric
	Value  float64
	ZScore float64
}

// DetectAnomalies flags revenue and expense values with |z| > threshold,
// using the population standard deviation. minSample <= 0 means
// MinAnomalySample. A metric with no variance produces no anomalies; if
// neither metric varies the result is ErrInsufficientData.
func DetectAnomalies(rows []models.Transaction, threshold float64, minSample int) ([]Anomaly, error) {
	if minSample <= 0 {
		minSample = MinAnomalySample
	}
	if len(rows) < minSample {
		return nil, fmt.Errorf("anomaly detection needs %d rows, have %d: %w", minSample, len(rows), models.ErrInsufficientData)
	}

	revenue := make([]float64, len(rows))
	expenses := make([]float64, len(rows))
	for i, r := range rows {
		revenue[i] = r.Revenue
		expenses[i] = r.TotalExpenses
	}

	revAnoms, revVaries := zScores(rows, revenue, MetricRevenue, threshold)
	expAnoms, expVaries := zScores(rows, expenses, MetricExpenses, threshold)
	if !revVaries && !expVaries {
		return nil, fmt.Errorf("revenue and expenses are constant: %w", models.ErrInsufficientData)
	}

	out := append(revAnoms, expAnoms...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func zScores(rows []models.Transaction, values []float64, metric Metric, threshold float64) ([]Anomaly, bool) {
	mean, std := stat.PopMeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return nil, false
	}

	var out []Anomaly
	for i, v := range values {
		z := (v - mean) / std
		if math.Abs(z) > threshold {
			out = append(out, Anomaly{Date: rows[i].Date, Metric: metric, Value: v, ZScore: z})
		}
	}
	return out, true
}
