package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// WidthClass buckets the terminal width. Dashboard panels pair up on a
// Wide terminal; the header and status bar shorten on a Narrow one.
type WidthClass int

const (
	Narrow WidthClass = iota
	Medium
	Wide
)

const (
	narrowBelow = 60
	wideFrom    = 100

	// Columns between panels sharing a row.
	panelGap = 2

	minBodyWidth  = 40
	minBodyHeight = 5
	// header, separator, alert bar, separator, footer
	chromeLines = 6
)

// ClassifyWidth returns the width class for a terminal width.
func ClassifyWidth(width int) WidthClass {
	switch {
	case width < narrowBelow:
		return Narrow
	case width < wideFrom:
		return Medium
	default:
		return Wide
	}
}

// Panel boxes body under a title and a rule. The result is width columns
// wide including the border.
func (t *Theme) Panel(title, body string, width int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	head := t.Accent.Bold(true).Render(title)
	rule := t.Muted.Render(strings.Repeat("─", inner))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.SecondaryColor).
		Padding(0, 1).
		Width(inner + 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, head, rule, body))
}

// PanelRow puts panels next to each other when they fit in width and
// stacks them otherwise.
func PanelRow(width int, panels ...string) string {
	total := (len(panels) - 1) * panelGap
	for _, p := range panels {
		total += lipgloss.Width(p)
	}
	if len(panels) < 2 || total > width {
		return strings.Join(panels, "\n")
	}

	row := make([]string, 0, 2*len(panels)-1)
	for i, p := range panels {
		if i > 0 {
			row = append(row, strings.Repeat(" ", panelGap))
		}
		row = append(row, p)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, row...)
}

// MarginGauge draws a net profit margin against target as a bar of cells
// followed by the margin in percent. A loss leaves the bar empty.
func (t *Theme) MarginGauge(margin, target float64, cells int) string {
	if cells < 10 {
		cells = 10
	}

	filled := 0
	if target > 0 && margin > 0 {
		filled = int(math.Round(margin / target * float64(cells)))
	}
	filled = min(filled, cells)

	style := t.Error
	switch {
	case margin >= target:
		style = t.Success
	case margin >= target/2:
		style = t.Warning
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", cells-filled)
	return style.Render(bar) + t.Value.Render(fmt.Sprintf(" %.1f%%", margin*100))
}

// clip shortens s to width columns, ending in an ellipsis when cut.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}

// cell pads s to a column of width aligned to pos. Wider values are left
// whole.
func cell(s string, width int, pos lipgloss.Position) string {
	return lipgloss.PlaceHorizontal(width, pos, s)
}

// bodyWidth is the module content width for a terminal width.
func bodyWidth(termWidth int) int {
	return max(minBodyWidth, min(termWidth, MaxContentWidth))
}

// bodyHeight is what a terminal height leaves for module content.
func bodyHeight(termHeight int) int {
	return max(minBodyHeight, termHeight-chromeLines)
}
