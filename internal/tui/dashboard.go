package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bistro-ops/bistro/internal/report"
	"github.com/bistro-ops/bistro/internal/repository"
	"github.com/bistro-ops/bistro/internal/services/analytics"
)

const maxListed = 5

// Net margin at which the margin gauge turns green.
const targetMargin = 0.15

// renderDashboard renders the business intelligence module.
func (a *App) renderDashboard(width int) string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("=== BUSINESS DASHBOARD ==="))
	b.WriteString("\n\n")

	d := a.dashboard
	switch {
	case a.dashboardErr != nil:
		b.WriteString(a.theme.Error.Render("Error: " + a.dashboardErr.Error()))
		return b.String()
	case d == nil:
		b.WriteString(a.theme.Muted.Render("Loading..."))
		return b.String()
	case d.KPI.Days == 0:
		b.WriteString(a.theme.Muted.Render("No transaction data loaded. Run `bistro seed` or set storage.dataset_path."))
		return b.String()
	}

	b.WriteString(a.theme.Label.Render(fmt.Sprintf("Period %s to %s (%d days)", d.Range.Start, d.Range.End, d.KPI.Days)))
	b.WriteString("\n\n")

	panelWidth := width
	if ClassifyWidth(width) == Wide {
		panelWidth = (width - panelGap) / 2
	}

	kpis := a.theme.Panel("KPIs", a.renderKPI(d.KPI), panelWidth)
	week := a.theme.Panel("WEEK OVER WEEK", a.renderWeek(d.Week), panelWidth)
	b.WriteString(PanelRow(width, kpis, week))
	b.WriteString("\n")

	if d.KPI.Revenue > 0 {
		margin := d.KPI.NetProfit / d.KPI.Revenue
		b.WriteString(a.theme.Label.Render("Profit margin "))
		b.WriteString(a.theme.MarginGauge(margin, targetMargin, 30))
		b.WriteString("\n\n")
	}

	health := a.theme.Panel("HEALTH", a.renderHealth(d.Health), panelWidth)
	forecast := a.theme.Panel("SALES FORECAST", a.renderForecast(d), panelWidth)
	b.WriteString(PanelRow(width, health, forecast))
	b.WriteString("\n")

	b.WriteString(a.theme.Subtitle.Render("INSIGHTS"))
	b.WriteString("\n")
	b.WriteString(a.renderInsights(d, width))

	return b.String()
}

func (a *App) money(v float64) string {
	return report.FormatMoney(a.config.Restaurant.Currency, v)
}

func (a *App) renderKPI(k analytics.KPI) string {
	lines := [][2]string{
		{"Revenue", a.money(k.Revenue)},
		{"Expenses", a.money(k.Expenses)},
		{"Net Profit", a.money(k.NetProfit)},
		{"Food Costs", a.money(k.FoodCosts)},
		{"Labor Costs", a.money(k.LaborCosts)},
		{"Utilities", a.money(k.Utilities)},
		{"Miscellaneous", a.money(k.Miscellaneous)},
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.theme.Label.Render(cell(l[0], 14, lipgloss.Left)))
		b.WriteString(a.theme.Value.Render(cell(l[1], 14, lipgloss.Right)))
	}
	return b.String()
}

func (a *App) renderWeek(w analytics.WeekComparison) string {
	if w.Anchor.IsZero() {
		return a.theme.Muted.Render("No week to compare.")
	}

	change := func(pct float64) string {
		s := fmt.Sprintf("%+.1f%%", pct)
		if pct < 0 {
			return a.theme.Error.Render(s)
		}
		return a.theme.Success.Render(s)
	}

	var b strings.Builder
	b.WriteString(a.theme.Label.Render(fmt.Sprintf("Week of %s vs %s", w.CurrentStart, w.PreviousStart)))
	b.WriteString("\n")
	rows := []struct {
		name          string
		current, prev float64
		pct           float64
	}{
		{"Revenue", w.Current.Revenue, w.Previous.Revenue, w.RevenueChange},
		{"Expenses", w.Current.Expenses, w.Previous.Expenses, w.ExpenseChange},
		{"Net Profit", w.Current.NetProfit, w.Previous.NetProfit, w.ProfitChange},
	}
	for _, r := range rows {
		b.WriteString(a.theme.Label.Render(cell(r.name, 11, lipgloss.Left)))
		b.WriteString(a.theme.Value.Render(cell(a.money(r.current), 12, lipgloss.Right)))
		b.WriteString(a.theme.Muted.Render(cell(a.money(r.prev), 12, lipgloss.Right)))
		b.WriteString(" " + change(r.pct))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (a *App) renderHealth(h analytics.HealthReport) string {
	var b strings.Builder
	b.WriteString(a.theme.Label.Render(fmt.Sprintf("Policy %s: revenue < %s or expenses > %s",
		h.Mode, a.money(h.RevenueThreshold), a.money(h.ExpenseThreshold))))
	b.WriteString("\n")

	if h.Healthy() {
		b.WriteString(a.theme.Success.Render("All days within thresholds."))
		return b.String()
	}

	b.WriteString(a.theme.Warning.Render(fmt.Sprintf("%d days flagged", len(h.Flags))))
	for i, f := range h.Flags {
		if i == maxListed {
			b.WriteString("\n" + a.theme.Muted.Render(fmt.Sprintf("... and %d more", len(h.Flags)-maxListed)))
			break
		}
		var why []string
		if f.LowRevenue {
			why = append(why, "low revenue")
		}
		if f.HighExpenses {
			why = append(why, "high expenses")
		}
		b.WriteString("\n" + a.theme.Value.Render(fmt.Sprintf("  %s  %s", f.Date, strings.Join(why, ", "))))
	}
	return b.String()
}

func (a *App) renderForecast(d *analytics.Dashboard) string {
	if d.ForecastNote != "" {
		return a.theme.Muted.Render(d.ForecastNote)
	}

	var b strings.Builder
	for i, pt := range d.Forecast {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.theme.Label.Render(pt.Date.String() + "  "))
		b.WriteString(a.theme.Value.Render(cell(a.money(pt.Value), 12, lipgloss.Right)))
	}
	return b.String()
}

func (a *App) renderInsights(d *analytics.Dashboard, width int) string {
	type line struct {
		style lipgloss.Style
		text  string
	}
	var lines []line

	for _, an := range d.Anomalies {
		lines = append(lines, line{a.theme.Warning, fmt.Sprintf("Unusual %s on %s: %s (z=%.2f)",
			an.Metric, an.Date, a.money(an.Value), an.ZScore)})
	}
	if d.AnomalyNote != "" {
		lines = append(lines, line{a.theme.Muted, d.AnomalyNote})
	}
	for _, in := range d.Insights {
		lines = append(lines, line{a.theme.Value, in.Message})
	}
	if len(d.TopItems) > 0 {
		names := make([]string, len(d.TopItems))
		for i, it := range d.TopItems {
			names[i] = fmt.Sprintf("%s (%s)", it.Item, a.money(it.Revenue))
		}
		lines = append(lines, line{a.theme.Label, "Top items: " + strings.Join(names, ", ")})
	}

	if len(lines) == 0 {
		return a.theme.Muted.Render("  Nothing to call out.")
	}

	var b strings.Builder
	for i, l := range lines {
		if i == maxListed*2 {
			b.WriteString(a.theme.Muted.Render(fmt.Sprintf("  ... and %d more", len(lines)-i)))
			break
		}
		b.WriteString("  " + l.style.Render(clip(l.text, width-2)) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderReports renders the KPI report and the alert dispatch history.
func (a *App) renderReports(width int) string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("=== REPORTS ==="))
	b.WriteString("\n\n")

	b.WriteString(a.theme.Subtitle.Render("KPI REPORT"))
	b.WriteString("\n")
	switch {
	case a.reportErr != nil:
		b.WriteString(a.theme.Error.Render("Error: " + a.reportErr.Error()))
	case a.report == nil:
		b.WriteString(a.theme.Muted.Render("Loading..."))
	default:
		summary := *a.report
		// The per-day table belongs in `bistro report export`.
		summary.Rows = nil
		var buf bytes.Buffer
		if err := report.WriteSummary(&buf, &summary, a.config.Restaurant.Currency); err != nil {
			b.WriteString(a.theme.Error.Render("Error: " + err.Error()))
		} else {
			b.WriteString(a.theme.Value.Render(strings.TrimSuffix(buf.String(), "\n")))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(a.theme.Subtitle.Render("ALERT DISPATCH HISTORY"))
	b.WriteString("\n")
	b.WriteString(a.renderHistory(a.history, width))

	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("r:Reload  Export with `bistro report export`"))
	return b.String()
}

func (a *App) renderHistory(records []*repository.NotificationRecord, width int) string {
	if a.historyErr != nil {
		return a.theme.Error.Render("Error: " + a.historyErr.Error())
	}
	if len(records) == 0 {
		return a.theme.Muted.Render("  No alerts dispatched yet.")
	}

	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("  %s  %-14s %2d alerts  %s", r.SentAt.Format("2006-01-02 15:04"), r.Status, r.AlertCount, r.Destination)
		style := a.theme.Value
		if r.Error != "" {
			line += "  " + r.Error
			style = a.theme.Error
		}
		b.WriteString(style.Render(clip(line, width)))
	}
	return b.String()
}
