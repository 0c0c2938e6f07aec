package rota

import (
	"strings"
	"testing"

	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/testutil"
	"github.com/bistro-ops/bistro/internal/tui/components"
)

func TestView_EmptyRender(t *testing.T) {
	view := NewView(components.DefaultPalette())
	output := view.Render(120, 40)

	if !strings.Contains(output, "STAFF ROTA") {
		t.Error("expected title in output")
	}
	if !strings.Contains(output, "No shifts scheduled") {
		t.Error("expected empty state message")
	}
}

func TestView_SetShifts(t *testing.T) {
	view := NewView(components.DefaultPalette())
	view.SetShifts([]models.StaffShift{
		testutil.FixtureShift(),
		testutil.FixtureShift(func(s *models.StaffShift) {
			s.Name = "Sam"
			s.Time = "17:30"
			s.Role = models.StaffRoleWaiter
		}),
	})

	output := view.Render(120, 40)
	for _, want := range []string{"Alex", "09:00", "Chef", "Sam", "17:30", "Waiter", "2024-06-15"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}

	view.MoveDown()
	shift, ok := view.SelectedShift()
	if !ok || shift.Name != "Sam" || view.Selected() != 1 {
		t.Errorf("SelectedShift() = %v, %v at %d; want Sam at 1", shift, ok, view.Selected())
	}
}

func TestShiftForm_Input(t *testing.T) {
	form := NewShiftForm(components.DefaultPalette())
	keys := []string{"J", "o", "tab"}
	keys = append(keys, strings.Split("2024-06-20", "")...)
	keys = append(keys, "tab", "9", ":", "3", "0", "tab", "right")
	for _, k := range keys {
		form.HandleKey(k)
	}

	got := form.Input()
	if got.Name != "Jo" || got.Date != "2024-06-20" || got.Time != "9:30" || got.Role != "Waiter" {
		t.Errorf("Input() = %+v", got)
	}
}
