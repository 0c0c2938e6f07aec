// Package analytics computes KPIs, comparisons, anomalies and forecasts
// over the transaction dataset. The functions in this package are pure;
// Service adds feature checks and data access on top.
package analytics

import (
	"fmt"
	"sort"

	"github.com/bistro-ops/bistro/internal/models"
)

// KPI is the sum of each dataset column over a set of rows.
type KPI struct {
	Revenue       float64
	Expenses      float64
	NetProfit     float64
	FoodCosts     float64
	LaborCosts    float64
	Utilities     float64
	Miscellaneous float64
	Days          int
}

// Add returns the column-wise sum of k and o.
func (k KPI) Add(o KPI) KPI {
	return KPI{
		Revenue:       k.Revenue + o.Revenue,
		Expenses:      k.Expenses + o.Expenses,
		NetProfit:     k.NetProfit + o.NetProfit,
		FoodCosts:     k.FoodCosts + o.FoodCosts,
		LaborCosts:    k.LaborCosts + o.LaborCosts,
		Utilities:     k.Utilities + o.Utilities,
		Miscellaneous: k.Miscellaneous + o.Miscellaneous,
		Days:          k.Days + o.Days,
	}
}

// FilterRange returns the rows dated within [start, end], in input order.
func FilterRange(rows []models.Transaction, start, end models.Date) ([]models.Transaction, error) {
	r := models.DateRange{Start: start, End: end}
	if !r.Valid() {
		return nil, fmt.Errorf("range %s to %s: %w", start, end, models.ErrInvalidRange)
	}

	out := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		if r.Contains(row.Date) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Totals sums every column. Days counts rows, not distinct dates.
func Totals(rows []models.Transaction) KPI {
	var k KPI
	for _, r := range rows {
		k.Revenue += r.Revenue
		k.Expenses += r.TotalExpenses
		k.NetProfit += r.NetProfit
		k.FoodCosts += r.FoodCosts
		k.LaborCosts += r.LaborCosts
		k.Utilities += r.Utilities
		k.Miscellaneous += r.Miscellaneous
	}
	k.Days = len(rows)
	return k
}

// PercentChange returns the change from previous to current in percent,
// or 0 when previous is 0.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// WeekComparison compares the ISO week containing Anchor with the week
// before it.
type WeekComparison struct {
	Anchor        models.Date
	CurrentStart  models.Date
	PreviousStart models.Date
	Current       KPI
	Previous      KPI
	RevenueChange float64
	ExpenseChange float64
	ProfitChange  float64
}

// WeekStart returns the Monday of d's ISO week.
func WeekStart(d models.Date) models.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// WeekOverWeek totals the ISO week containing anchor and the preceding
// week. A zero anchor yields a zero comparison.
func WeekOverWeek(rows []models.Transaction, anchor models.Date) WeekComparison {
	if anchor.IsZero() {
		return WeekComparison{}
	}

	cur := WeekStart(anchor)
	prev := cur.AddDays(-7)

	var current, previous []models.Transaction
	for _, r := range rows {
		switch {
		case r.Date.Between(cur, cur.AddDays(6)):
			current = append(current, r)
		case r.Date.Between(prev, cur.AddDays(-1)):
			previous = append(previous, r)
		}
	}

	c, p := Totals(current), Totals(previous)
	return WeekComparison{
		Anchor:        anchor,
		CurrentStart:  cur,
		PreviousStart: prev,
		Current:       c,
		Previous:      p,
		RevenueChange: PercentChange(c.Revenue, p.Revenue),
		ExpenseChange: PercentChange(c.Expenses, p.Expenses),
		ProfitChange:  PercentChange(c.NetProfit, p.NetProfit),
	}
}

// LastDate returns the latest date among rows, or a zero Date.
func LastDate(rows []models.Transaction) models.Date {
	var last models.Date
	for _, r := range rows {
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return last
}

// byDate returns a copy of rows sorted by date. Rows sharing a date keep
// their input order.
func byDate(rows []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
