package kitchen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/alerts"
	"github.com/bistro-ops/bistro/internal/services/inventory"
	"github.com/bistro-ops/bistro/internal/tui/components"
)

// InventoryView lists stock with its status and the alerts it triggers.
type InventoryView struct {
	table  *components.Table
	items  []models.InventoryItem
	alerts []alerts.Alert
	today  models.Date
	err    error
	text   components.Text
}

// NewInventoryView creates an inventory view.
func NewInventoryView(p components.Palette) *InventoryView {
	table := components.NewTable([]components.Column{
		{Title: "Item", Width: 24},
		{Title: "Quantity", Width: 10, Align: lipgloss.Right},
		{Title: "Status", Width: 14},
		{Title: "Expires", Width: 12},
	}, p)
	table.SetVisibleRows(15)
	table.Focus(true)

	return &InventoryView{table: table, text: components.TextStyles(p)}
}

// SetToday sets the date expiry countdowns are measured from.
func (v *InventoryView) SetToday(d models.Date) {
	v.today = d
}

// SetItems replaces the displayed stock and alerts.
func (v *InventoryView) SetItems(items []models.InventoryItem, triggered []alerts.Alert) {
	v.items = items
	v.alerts = triggered
	v.err = nil

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{
			item.Item,
			fmt.Sprintf("%d", item.Quantity),
			item.Status.String(),
			v.expires(item.Expiration),
		}
	}
	v.table.SetRows(rows)
}

func (v *InventoryView) expires(d models.Date) string {
	if d.IsZero() {
		return "-"
	}
	if v.today.IsZero() {
		return d.String()
	}
	days := int(d.Sub(v.today.Time).Hours() / 24)
	switch {
	case days < 0:
		return "EXPIRED"
	case days == 0:
		return "TODAY"
	case days < 30:
		return fmt.Sprintf("%dd", days)
	default:
		return d.String()
	}
}

// SetError records a load failure.
func (v *InventoryView) SetError(err error) {
	v.err = err
}

// AlertCount returns the number of triggered alerts.
func (v *InventoryView) AlertCount() int {
	return len(v.alerts)
}

// MoveUp moves the selection up.
func (v *InventoryView) MoveUp() { v.table.MoveUp() }

// MoveDown moves the selection down.
func (v *InventoryView) MoveDown() { v.table.MoveDown() }

// SelectedItem returns the selected stock item.
func (v *InventoryView) SelectedItem() (models.InventoryItem, bool) {
	idx := v.table.Selected()
	if idx < 0 || idx >= len(v.items) {
		return models.InventoryItem{}, false
	}
	return v.items[idx], true
}

// Render renders the inventory and its alerts.
func (v *InventoryView) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.text.Title.Render("=== INVENTORY ==="))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.text.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.table.Empty():
		b.WriteString(v.text.Label.Render("No inventory found. Press a to add an item."))
		b.WriteString("\n")
	default:
		v.table.SetVisibleRows(visibleRows(height - len(v.alerts) - 3))
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(v.text.Section.Render("ALERTS"))
	b.WriteString("\n")
	if len(v.alerts) == 0 {
		b.WriteString(v.text.Label.Render("  No alerts."))
		b.WriteString("\n")
	}
	for _, a := range v.alerts {
		style := v.text.Warning
		if a.Rule == alerts.RuleExpiry {
			style = v.text.Error
		}
		b.WriteString("  " + style.Render(a.Message) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.text.Help.Render("Up/Down:Select  a:Add  u:Update stock  d:Delete  s:Send alerts  r:Reload"))

	return b.String()
}

// InventoryForm captures a new stock item.
type InventoryForm struct {
	*components.Form
	item       *components.Input
	quantity   *components.Input
	expiration *components.Input
}

// NewInventoryForm creates an empty add-item form.
func NewInventoryForm(p components.Palette) *InventoryForm {
	f := &InventoryForm{
		Form:       components.NewForm("ADD INVENTORY ITEM", p),
		item:       components.NewInput("Item").SetRequired(true).SetWidth(30),
		quantity:   components.NewInput("Quantity").SetRequired(true).SetPlaceholder("0"),
		expiration: components.NewInput("Expiration").SetRequired(true).SetPlaceholder("YYYY-MM-DD"),
	}
	f.AddField(f.item).AddField(f.quantity).AddField(f.expiration)
	return f
}

// Input returns the captured values.
func (f *InventoryForm) Input() inventory.AddInput {
	return inventory.AddInput{
		Item:       f.item.Value(),
		Quantity:   f.quantity.Value(),
		Expiration: f.expiration.Value(),
	}
}

// StockForm captures a quantity or expiration change for one item.
type StockForm struct {
	*components.Form
	key        string
	quantity   *components.Input
	expiration *components.Input
}

// NewStockForm creates an update form prefilled from item.
func NewStockForm(p components.Palette, item models.InventoryItem) *StockForm {
	f := &StockForm{
		Form:       components.NewForm("UPDATE STOCK: "+strings.ToUpper(item.Item), p),
		key:        item.Item,
		quantity:   components.NewInput("Quantity").SetValue(fmt.Sprintf("%d", item.Quantity)),
		expiration: components.NewInput("Expiration").SetValue(item.Expiration.String()).SetPlaceholder("YYYY-MM-DD"),
	}
	f.AddField(f.quantity).AddField(f.expiration)
	return f
}

// Key returns the name of the item being updated.
func (f *StockForm) Key() string {
	return f.key
}

// Input returns the captured values.
func (f *StockForm) Input() inventory.UpdateInput {
	return inventory.UpdateInput{
		Quantity:   f.quantity.Value(),
		Expiration: f.expiration.Value(),
	}
}
