package kitchen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/analytics"
	"github.com/bistro-ops/bistro/internal/services/waste"
	"github.com/bistro-ops/bistro/internal/tui/components"
)

// WasteData is everything the waste view shows.
type WasteData struct {
	Entries  []models.WasteEntry
	Totals   []waste.ReasonTotal
	Forecast []analytics.ForecastPoint
	// ForecastErr explains a missing forecast, usually too few days logged.
	ForecastErr error
}

// WasteView shows the waste log, totals by reason and the waste forecast.
type WasteView struct {
	table *components.Table
	data  WasteData
	err   error
	text  components.Text
}

// NewWasteView creates a waste view.
func NewWasteView(p components.Palette) *WasteView {
	table := components.NewTable([]components.Column{
		{Title: "Date", Width: 10},
		{Title: "Item", Width: 22},
		{Title: "Qty", Width: 6, Align: lipgloss.Right},
		{Title: "Reason", Width: 14},
	}, p)
	table.SetVisibleRows(10)

	return &WasteView{table: table, text: components.TextStyles(p)}
}

// SetData replaces the displayed log.
func (v *WasteView) SetData(d WasteData) {
	v.data = d
	v.err = nil

	// Newest first; the log itself is append-only.
	rows := make([][]string, 0, len(d.Entries))
	for i := len(d.Entries) - 1; i >= 0; i-- {
		e := d.Entries[i]
		rows = append(rows, []string{e.Date.String(), e.Item, fmt.Sprintf("%d", e.Quantity), e.Reason.String()})
	}
	v.table.SetRows(rows)
}

// SetError records a load failure.
func (v *WasteView) SetError(err error) {
	v.err = err
}

// MoveUp scrolls the log up.
func (v *WasteView) MoveUp() { v.table.MoveUp() }

// MoveDown scrolls the log down.
func (v *WasteView) MoveDown() { v.table.MoveDown() }

// Render renders the waste view.
func (v *WasteView) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.text.Title.Render("=== WASTE LOG ==="))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.text.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(v.text.Help.Render("a:Log waste  r:Reload"))
		return b.String()
	}

	if v.table.Empty() {
		b.WriteString(v.text.Label.Render("No waste logged. Press a to log an entry."))
		b.WriteString("\n")
	} else {
		v.table.SetVisibleRows(visibleRows(height - 14))
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(v.text.Section.Render("TOTALS BY REASON"))
	b.WriteString("\n")
	for _, t := range v.data.Totals {
		b.WriteString(v.text.Label.Render(fmt.Sprintf("  %-14s", t.Reason)))
		b.WriteString(v.text.Value.Render(fmt.Sprintf("%6d", t.Total)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.text.Section.Render("FORECAST"))
	b.WriteString("\n")
	switch {
	case v.data.ForecastErr != nil:
		b.WriteString(v.text.Label.Render("  " + v.data.ForecastErr.Error()))
		b.WriteString("\n")
	case len(v.data.Forecast) == 0:
		b.WriteString(v.text.Label.Render("  No forecast."))
		b.WriteString("\n")
	default:
		for _, pt := range v.data.Forecast {
			b.WriteString(v.text.Label.Render("  " + pt.Date.String() + "  "))
			b.WriteString(v.text.Value.Render(fmt.Sprintf("%6.1f", pt.Value)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.text.Help.Render("Up/Down:Scroll  a:Log waste  r:Reload"))

	return b.String()
}

// WasteForm captures a new waste entry.
type WasteForm struct {
	*components.Form
	item     *components.Input
	quantity *components.Input
	reason   *components.Select
	date     *components.Input
}

// NewWasteForm creates an empty waste entry form.
func NewWasteForm(p components.Palette) *WasteForm {
	reasons := make([]string, 0, len(models.WasteReasons()))
	for _, r := range models.WasteReasons() {
		reasons = append(reasons, r.String())
	}

	f := &WasteForm{
		Form:     components.NewForm("LOG WASTE", p),
		item:     components.NewInput("Item").SetRequired(true).SetWidth(30),
		quantity: components.NewInput("Quantity").SetRequired(true).SetPlaceholder("1"),
		reason:   components.NewSelect("Reason", reasons),
		date:     components.NewInput("Date").SetPlaceholder("today"),
	}
	f.AddField(f.item).AddField(f.quantity).AddField(f.reason).AddField(f.date)
	return f
}

// Input returns the captured values.
func (f *WasteForm) Input() waste.AddInput {
	return waste.AddInput{
		Item:     f.item.Value(),
		Quantity: f.quantity.Value(),
		Reason:   f.reason.Value(),
		Date:     f.date.Value(),
	}
}
