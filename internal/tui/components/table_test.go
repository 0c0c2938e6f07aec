package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func newItemTable(rows ...[]string) *Table {
	table := NewTable([]Column{
		{Title: "Item", Width: 12},
		{Title: "Qty", Width: 5, Align: lipgloss.Right},
	}, DefaultPalette())
	table.SetRows(rows)
	return table
}

func TestTable_Empty(t *testing.T) {
	table := newItemTable()

	if !table.Empty() {
		t.Error("new table should be empty")
	}
	if table.Selected() != -1 {
		t.Errorf("Selected() = %d, want -1 for empty table", table.Selected())
	}
	if table.SelectedRow() != nil {
		t.Errorf("SelectedRow() = %v, want nil", table.SelectedRow())
	}
}

func TestTable_Navigation(t *testing.T) {
	table := newItemTable(
		[]string{"Flour", "5"},
		[]string{"Eggs", "30"},
		[]string{"Milk", "12"},
		[]string{"Basil", "2"},
	)

	steps := []struct {
		name string
		move func()
		want int
	}{
		{"down", table.MoveDown, 1},
		{"up", table.MoveUp, 0},
		{"up clamps at top", table.MoveUp, 0},
		{"bottom", table.GoToBottom, 3},
		{"down clamps at bottom", table.MoveDown, 3},
		{"top", table.GoToTop, 0},
	}

	for _, step := range steps {
		step.move()
		if got := table.Selected(); got != step.want {
			t.Errorf("after %s: Selected() = %d, want %d", step.name, got, step.want)
		}
	}
}

func TestTable_SelectedRow(t *testing.T) {
	table := newItemTable([]string{"Flour", "5"}, []string{"Eggs", "30"})

	table.MoveDown()
	row := table.SelectedRow()
	if row == nil || row[0] != "Eggs" {
		t.Errorf("SelectedRow() = %v, want Eggs row", row)
	}
}

func TestTable_SetRowsKeepsSelectionInRange(t *testing.T) {
	table := newItemTable([]string{"Flour", "5"}, []string{"Eggs", "30"}, []string{"Milk", "12"})
	table.GoToBottom()

	table.SetRows([][]string{{"Flour", "5"}})
	if table.Selected() != 0 {
		t.Errorf("Selected() = %d after shrinking rows, want 0", table.Selected())
	}
}

func TestTable_PageNavigation(t *testing.T) {
	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{string(rune('A' + i)), "1"}
	}
	table := newItemTable(rows...)
	table.SetVisibleRows(3)

	table.PageDown()
	if table.Selected() != 3 {
		t.Errorf("after PageDown Selected() = %d, want 3", table.Selected())
	}

	table.PageUp()
	if table.Selected() != 0 {
		t.Errorf("after PageUp Selected() = %d, want 0", table.Selected())
	}
}

func TestTable_Render(t *testing.T) {
	table := newItemTable([]string{"Flour", "5"}, []string{"Parmigiano Reggiano", "2"})
	table.Focus(true)

	output := table.Render()

	for _, want := range []string{"Item", "Qty", "Flour", "Parmigiano…"} {
		if !strings.Contains(output, want) {
			t.Errorf("Render() missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Row ") {
		t.Error("position footer should only show when rows overflow")
	}
}

func TestTable_RenderShowsPositionWhenScrolling(t *testing.T) {
	rows := make([][]string, 5)
	for i := range rows {
		rows[i] = []string{"Item", "1"}
	}
	table := newItemTable(rows...)
	table.SetVisibleRows(2)
	table.MoveDown()

	if output := table.Render(); !strings.Contains(output, "Row 2 of 5") {
		t.Errorf("expected position footer, got:\n%s", output)
	}
}

func TestTable_RenderRightAligned(t *testing.T) {
	table := newItemTable([]string{"Flour", "42"})

	if output := table.Render(); !strings.Contains(output, "   42") {
		t.Errorf("expected right-aligned quantity, got:\n%s", output)
	}
}
