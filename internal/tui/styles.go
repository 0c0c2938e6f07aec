// Package tui provides the terminal dashboard for bistro.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/tui/components"
)

// Theme contains all style definitions for the TUI.
type Theme struct {
	// Colors (raw values for reference)
	PrimaryColor    lipgloss.Color
	SecondaryColor  lipgloss.Color
	AccentColor     lipgloss.Color
	BackgroundColor lipgloss.Color
	ForegroundColor lipgloss.Color
	ErrorColor      lipgloss.Color
	WarningColor    lipgloss.Color
	SuccessColor    lipgloss.Color
	MutedColor      lipgloss.Color

	Base lipgloss.Style

	// Color styles (for direct use)
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style

	// Component styles
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Box       lipgloss.Style
	Disabled  lipgloss.Style
	Alert     lipgloss.Style
	AlertWarn lipgloss.Style
	AlertCrit lipgloss.Style

	StatusDivider lipgloss.Style

	palette components.Palette
}

// NewTheme creates a new theme based on the color scheme configuration.
func NewTheme(scheme config.ColorScheme) *Theme {
	switch scheme {
	case config.ColorSchemeMono:
		return newMonoTheme()
	case config.ColorSchemeHigh:
		return newHighContrastTheme()
	default:
		return newBistroTheme()
	}
}

// newBistroTheme is the default warm palette.
func newBistroTheme() *Theme {
	p := components.DefaultPalette()
	return buildTheme(p, p.Primary, lipgloss.Color("#F6C85F"), lipgloss.Color("#8CB369"))
}

// newMonoTheme uses greys only, for terminals with poor color support.
func newMonoTheme() *Theme {
	p := components.Palette{
		Primary:    lipgloss.Color("#FFFFFF"),
		Secondary:  lipgloss.Color("#AAAAAA"),
		Accent:     lipgloss.Color("#FFFFFF"),
		Muted:      lipgloss.Color("#666666"),
		Error:      lipgloss.Color("#FFFFFF"),
		Background: lipgloss.Color("#000000"),
	}
	return buildTheme(p, p.Primary, lipgloss.Color("#DDDDDD"), lipgloss.Color("#FFFFFF"))
}

// newHighContrastTheme maximises contrast against a black background.
func newHighContrastTheme() *Theme {
	p := components.Palette{
		Primary:    lipgloss.Color("#FFFFFF"),
		Secondary:  lipgloss.Color("#00FFFF"),
		Accent:     lipgloss.Color("#FFFF00"),
		Muted:      lipgloss.Color("#808080"),
		Error:      lipgloss.Color("#FF0000"),
		Background: lipgloss.Color("#000000"),
	}
	return buildTheme(p, p.Primary, lipgloss.Color("#FFFF00"), lipgloss.Color("#00FF00"))
}

func buildTheme(p components.Palette, foreground, warningColor, successColor lipgloss.Color) *Theme {
	primary, secondary, accent := p.Primary, p.Secondary, p.Accent
	muted, errorColor := p.Muted, p.Error

	t := &Theme{
		palette:         p,
		PrimaryColor:    primary,
		SecondaryColor:  secondary,
		AccentColor:     accent,
		BackgroundColor: p.Background,
		ForegroundColor: foreground,
		MutedColor:      muted,
		ErrorColor:      errorColor,
		WarningColor:    warningColor,
		SuccessColor:    successColor,
	}

	t.Base = lipgloss.NewStyle().
		Foreground(foreground)

	// Color styles for direct use
	t.Primary = lipgloss.NewStyle().Foreground(primary)
	t.Secondary = lipgloss.NewStyle().Foreground(secondary)
	t.Accent = lipgloss.NewStyle().Foreground(accent)
	t.Error = lipgloss.NewStyle().Foreground(errorColor)
	t.Warning = lipgloss.NewStyle().Foreground(warningColor)
	t.Success = lipgloss.NewStyle().Foreground(successColor)
	t.Muted = lipgloss.NewStyle().Foreground(muted)

	// Header - top bar with restaurant name and role
	t.Header = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true).
		Padding(0, 1)

	// Footer - bottom status bar
	t.Footer = lipgloss.NewStyle().
		Foreground(secondary).
		Padding(0, 1)

	// Title - main headings
	t.Title = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Padding(0, 1)

	// Subtitle - secondary headings
	t.Subtitle = lipgloss.NewStyle().
		Foreground(primary).
		Padding(0, 1)

	t.Label = lipgloss.NewStyle().
		Foreground(secondary)

	t.Value = lipgloss.NewStyle().
		Foreground(primary)

	// Box - dialogs
	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondary).
		Padding(0, 1)

	// Disabled - features the role cannot use
	t.Disabled = lipgloss.NewStyle().
		Foreground(muted)

	// Alerts
	t.Alert = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true)

	t.AlertWarn = lipgloss.NewStyle().
		Foreground(warningColor).
		Bold(true)

	t.AlertCrit = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true).
		Blink(true)

	t.StatusDivider = lipgloss.NewStyle().
		Foreground(muted).
		SetString(" │ ")

	return t
}

// Palette returns the colors components should render with.
func (t *Theme) Palette() components.Palette {
	return t.palette
}

// DrawHorizontalLine draws a horizontal line.
func (t *Theme) DrawHorizontalLine(width int) string {
	return t.Secondary.Render(strings.Repeat("─", width))
}

// DrawDoubleLine draws a double horizontal line.
func (t *Theme) DrawDoubleLine(width int) string {
	return t.Primary.Render(strings.Repeat("═", width))
}
