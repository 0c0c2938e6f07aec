// Package components provides reusable TUI components.
package components

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a component renders with. The app passes
// the active theme's palette so components follow the configured scheme.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Background lipgloss.Color
}

// DefaultPalette is the bistro color scheme.
func DefaultPalette() Palette {
	return Palette{
		Primary:    lipgloss.Color("#F2E8CF"),
		Secondary:  lipgloss.Color("#A7C4A0"),
		Accent:     lipgloss.Color("#F4A259"),
		Muted:      lipgloss.Color("#6B705C"),
		Error:      lipgloss.Color("#E05A47"),
		Background: lipgloss.Color("#1B1B1E"),
	}
}

func (p Palette) style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Text holds the text styles views render prose with.
type Text struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Help    lipgloss.Style
}

// TextStyles derives the view text styles from p.
func TextStyles(p Palette) Text {
	return Text{
		Title:   p.style(p.Accent).Bold(true),
		Section: p.style(p.Primary).Bold(true),
		Label:   p.style(p.Secondary),
		Value:   p.style(p.Primary),
		Error:   p.style(p.Error),
		Warning: p.style(p.Accent),
		Help:    p.style(p.Muted),
	}
}
