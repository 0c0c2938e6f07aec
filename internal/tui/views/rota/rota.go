// Package rota provides the TUI view for the staff rota.
package rota

import (
	"strings"

	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/staff"
	"github.com/bistro-ops/bistro/internal/tui/components"
)

// View lists scheduled shifts. Positions shown are rota file positions,
// which is what delete takes.
type View struct {
	table  *components.Table
	shifts []models.StaffShift
	err    error
	text   components.Text
}

// NewView creates a rota view.
func NewView(p components.Palette) *View {
	table := components.NewTable([]components.Column{
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Name", Width: 24},
		{Title: "Role", Width: 10},
	}, p)
	table.SetVisibleRows(20)
	table.Focus(true)

	return &View{table: table, text: components.TextStyles(p)}
}

// SetShifts replaces the displayed rota.
func (v *View) SetShifts(shifts []models.StaffShift) {
	v.shifts = shifts
	v.err = nil

	rows := make([][]string, len(shifts))
	for i, s := range shifts {
		rows[i] = []string{s.Date.String(), s.Time, s.Name, s.Role.String()}
	}
	v.table.SetRows(rows)
}

// SetError records a load failure.
func (v *View) SetError(err error) {
	v.err = err
}

// MoveUp moves the selection up.
func (v *View) MoveUp() { v.table.MoveUp() }

// MoveDown moves the selection down.
func (v *View) MoveDown() { v.table.MoveDown() }

// Selected returns the rota position of the selected shift, or -1.
func (v *View) Selected() int {
	return v.table.Selected()
}

// SelectedShift returns the selected shift.
func (v *View) SelectedShift() (models.StaffShift, bool) {
	idx := v.table.Selected()
	if idx < 0 || idx >= len(v.shifts) {
		return models.StaffShift{}, false
	}
	return v.shifts[idx], true
}

// Render renders the rota.
func (v *View) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.text.Title.Render("=== STAFF ROTA ==="))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.text.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.table.Empty():
		b.WriteString(v.text.Label.Render("No shifts scheduled. Press a to add one."))
		b.WriteString("\n")
	default:
		rows := height - 8
		if rows < 3 {
			rows = 3
		}
		v.table.SetVisibleRows(rows)
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(v.text.Help.Render("Up/Down:Select  a:Add shift  d:Delete  r:Reload"))

	return b.String()
}

// ShiftForm captures a new shift.
type ShiftForm struct {
	*components.Form
	name *components.Input
	date *components.Input
	time *components.Input
	role *components.Select
}

// NewShiftForm creates an empty shift form.
func NewShiftForm(p components.Palette) *ShiftForm {
	roles := make([]string, 0, len(models.StaffRoles()))
	for _, r := range models.StaffRoles() {
		roles = append(roles, r.String())
	}

	f := &ShiftForm{
		Form: components.NewForm("ADD SHIFT", p),
		name: components.NewInput("Name").SetRequired(true).SetWidth(30),
		date: components.NewInput("Date").SetRequired(true).SetPlaceholder("YYYY-MM-DD"),
		time: components.NewInput("Time").SetRequired(true).SetPlaceholder("HH:MM"),
		role: components.NewSelect("Role", roles),
	}
	f.AddField(f.name).AddField(f.date).AddField(f.time).AddField(f.role)
	return f
}

// Input returns the captured values.
func (f *ShiftForm) Input() staff.AddInput {
	return staff.AddInput{
		Name: f.name.Value(),
		Date: f.date.Value(),
		Time: f.time.Value(),
		Role: f.role.Value(),
	}
}
