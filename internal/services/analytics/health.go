package analytics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/bistro-ops/bistro/internal/models"
)

// HealthMode selects how thresholds are derived.
type HealthMode string

const (
	HealthFixed    HealthMode = "fixed"
	HealthRelative HealthMode = "relative"
)

// HealthPolicy configures CheckHealth.
type HealthPolicy struct {
	Mode          HealthMode
	RevenueTarget float64
	ExpenseLimit  float64
	Margin        float64
}

// DefaultHealthPolicy flags days 10% worse than the range average.
func DefaultHealthPolicy() HealthPolicy {
	return HealthPolicy{Mode: HealthRelative, Margin: 0.10}
}

// HealthFlag marks a day that missed a threshold.
type HealthFlag struct {
	Date         models.Date
	Revenue      float64
	Expenses     float64
	LowRevenue   bool
	HighExpenses bool
}

// HealthReport lists the thresholds used and the days that missed them.
type HealthReport struct {
	Mode             HealthMode
	RevenueThreshold float64
	ExpenseThreshold float64
	Flags            []HealthFlag
}

// Healthy reports whether no day was flagged.
func (h HealthReport) Healthy() bool {
	return len(h.Flags) == 0
}

// CheckHealth flags rows with revenue below the revenue threshold or
// expenses above the expense threshold.
func CheckHealth(rows []models.Transaction, policy HealthPolicy) (HealthReport, error) {
	report := HealthReport{Mode: policy.Mode}

	switch policy.Mode {
	case HealthFixed:
		report.RevenueThreshold = policy.RevenueTarget
		report.ExpenseThreshold = policy.ExpenseLimit
	case HealthRelative, "":
		report.Mode = HealthRelative
		if len(rows) == 0 {
			return report, nil
		}
		revenue := make([]float64, len(rows))
		expenses := make([]float64, len(rows))
		for i, r := range rows {
			revenue[i] = r.Revenue
			expenses[i] = r.TotalExpenses
		}
		report.RevenueThreshold = stat.Mean(revenue, nil) * (1 - policy.Margin)
		report.ExpenseThreshold = stat.Mean(expenses, nil) * (1 + policy.Margin)
	default:
		return HealthReport{}, models.NewValidationError("health policy", fmt.Sprintf("unknown mode %q", policy.Mode))
	}

	for _, r := range rows {
		f := HealthFlag{
			Date:         r.Date,
			Revenue:      r.Revenue,
			Expenses:     r.TotalExpenses,
			LowRevenue:   r.Revenue < report.RevenueThreshold,
			HighExpenses: r.TotalExpenses > report.ExpenseThreshold,
		}
		if f.LowRevenue || f.HighExpenses {
			report.Flags = append(report.Flags, f)
		}
	}
	return report, nil
}
