// Package kitchen provides TUI views for the menu, inventory and waste log.
package kitchen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/menu"
	"github.com/bistro-ops/bistro/internal/tui/components"
)

// MenuView lists the menu items in file order.
type MenuView struct {
	table    *components.Table
	items    []models.MenuItem
	currency string
	err      error
	text     components.Text
}

// NewMenuView creates a menu view.
func NewMenuView(p components.Palette, currency string) *MenuView {
	table := components.NewTable([]components.Column{
		{Title: "#", Width: 3, Align: lipgloss.Right},
		{Title: "Name", Width: 24},
		{Title: "Price", Width: 10, Align: lipgloss.Right},
		{Title: "Description", Width: 44},
	}, p)
	table.SetVisibleRows(20)
	table.Focus(true)

	return &MenuView{table: table, currency: currency, text: components.TextStyles(p)}
}

// SetItems replaces the displayed items.
func (v *MenuView) SetItems(items []models.MenuItem) {
	v.items = items
	v.err = nil

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{
			fmt.Sprintf("%d", i),
			item.Name,
			fmt.Sprintf("%s%.2f", v.currency, item.Price),
			item.Description,
		}
	}
	v.table.SetRows(rows)
}

// SetError records a load failure.
func (v *MenuView) SetError(err error) {
	v.err = err
}

// MoveUp moves the selection up.
func (v *MenuView) MoveUp() { v.table.MoveUp() }

// MoveDown moves the selection down.
func (v *MenuView) MoveDown() { v.table.MoveDown() }

// Selected returns the position of the selected item, or -1.
func (v *MenuView) Selected() int {
	return v.table.Selected()
}

// SelectedItem returns the selected item.
func (v *MenuView) SelectedItem() (models.MenuItem, bool) {
	idx := v.table.Selected()
	if idx < 0 || idx >= len(v.items) {
		return models.MenuItem{}, false
	}
	return v.items[idx], true
}

// Render renders the menu view.
func (v *MenuView) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.text.Title.Render("=== MENU ==="))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.text.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.table.Empty():
		b.WriteString(v.text.Label.Render("No menu items. Press a to add one."))
		b.WriteString("\n")
	default:
		v.table.SetVisibleRows(visibleRows(height))
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(v.text.Help.Render("Up/Down:Select  a:Add  d:Delete  r:Reload"))

	return b.String()
}

// MenuForm captures a new menu item.
type MenuForm struct {
	*components.Form
	name        *components.Input
	price       *components.Input
	description *components.Input
}

// NewMenuForm creates an empty add-item form.
func NewMenuForm(p components.Palette) *MenuForm {
	f := &MenuForm{
		Form:        components.NewForm("ADD MENU ITEM", p),
		name:        components.NewInput("Name").SetRequired(true).SetWidth(30),
		price:       components.NewInput("Price").SetRequired(true).SetPlaceholder("12.50"),
		description: components.NewInput("Description").SetWidth(50).SetMaxLength(200),
	}
	f.AddField(f.name).AddField(f.price).AddField(f.description)
	return f
}

// Input returns the captured values.
func (f *MenuForm) Input() menu.AddInput {
	return menu.AddInput{
		Name:        f.name.Value(),
		Price:       f.price.Value(),
		Description: f.description.Value(),
	}
}

// visibleRows leaves room for the title, table header and help line.
func visibleRows(height int) int {
	n := height - 8
	if n < 3 {
		n = 3
	}
	return n
}
