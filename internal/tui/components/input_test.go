package components

import (
	"strings"
	"testing"
)

func TestInput_BasicOperations(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Alice")

	if input.Value() != "Alice" {
		t.Errorf("Expected 'Alice', got %q", input.Value())
	}

	input.SetWidth(30)
	input.SetMaxLength(50)
	input.SetRequired(true)
	input.SetPlaceholder("Enter name")

	if !input.Validate() {
		t.Error("Expected validation to pass with value set")
	}
}

func TestInput_RequiredValidation(t *testing.T) {
	input := NewInput("Name").SetRequired(true)

	// Empty value should fail
	if input.Validate() {
		t.Error("Expected validation to fail for empty required field")
	}

	// With value should pass
	input.SetValue("Alice")
	if !input.Validate() {
		t.Error("Expected validation to pass with value set")
	}

	// Whitespace-only should fail
	input.SetValue("   ")
	if input.Validate() {
		t.Error("Expected validation to fail for whitespace-only required field")
	}
}

func TestInput_Focus(t *testing.T) {
	input := NewInput("Name")

	if input.IsFocused() {
		t.Error("Should not be focused initially")
	}

	input.Focus(true)
	if !input.IsFocused() {
		t.Error("Should be focused after Focus(true)")
	}

	input.Focus(false)
	if input.IsFocused() {
		t.Error("Should not be focused after Focus(false)")
	}
}

func TestInput_HandleKey_TypeCharacter(t *testing.T) {
	input := NewInput("Name")
	input.Focus(true)

	input.HandleKey("A")
	input.HandleKey("B")
	input.HandleKey("C")

	if input.Value() != "ABC" {
		t.Errorf("Expected 'ABC', got %q", input.Value())
	}
}

func TestInput_HandleKey_Backspace(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Hello")
	input.Focus(true)

	input.HandleKey("backspace")
	if input.Value() != "Hell" {
		t.Errorf("Expected 'Hell', got %q", input.Value())
	}
}

func TestInput_HandleKey_CursorMovement(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Hello")
	input.Focus(true)

	// Cursor at end (5), move left
	input.HandleKey("left")
	// Now at 4, type a char
	input.HandleKey("X")
	if input.Value() != "HellXo" {
		t.Errorf("Expected 'HellXo', got %q", input.Value())
	}

	// Home
	input.HandleKey("home")
	input.HandleKey("Y")
	if input.Value() != "YHellXo" {
		t.Errorf("Expected 'YHellXo', got %q", input.Value())
	}
}

func TestInput_HandleKey_NotFocused(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Hello")
	// Not focused

	input.HandleKey("A")
	if input.Value() != "Hello" {
		t.Errorf("Should not handle keys when not focused, got %q", input.Value())
	}
}

func TestInput_Render_ShowsLabel(t *testing.T) {
	input := NewInput("Dish")
	input.SetValue("Tiramisu")

	output := input.Render()
	if !strings.Contains(output, "Dish") {
		t.Error("Expected label 'Dish' in output")
	}
	if !strings.Contains(output, "Tiramisu") {
		t.Error("Expected value 'Tiramisu' in output")
	}
}

func TestInput_RenderWithLabelWidth_ZeroHidesLabel(t *testing.T) {
	input := NewInput("Dish")
	input.SetValue("Tiramisu")

	output := input.RenderWithLabelWidth(0)
	// With labelWidth=0, the label should be omitted
	if strings.Contains(output, "Dish") {
		t.Error("Expected label to be hidden with labelWidth=0")
	}
	if !strings.Contains(output, "Tiramisu") {
		t.Error("Expected value 'Tiramisu' in output")
	}
}

func TestInput_RenderWithLabelWidth_Custom(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Alice")

	output := input.RenderWithLabelWidth(12)
	if !strings.Contains(output, "Name") {
		t.Error("Expected label in output")
	}
}

func TestInput_Render_ShowsPlaceholder(t *testing.T) {
	input := NewInput("Name").SetPlaceholder("Enter name")

	output := input.Render()
	if !strings.Contains(output, "Enter name") {
		t.Error("Expected placeholder in output when unfocused and empty")
	}
}

func TestInput_Render_ShowsCursor(t *testing.T) {
	input := NewInput("Name")
	input.SetValue("Hi")
	input.Focus(true)

	output := input.Render()
	if !strings.Contains(output, "_") {
		t.Error("Expected cursor '_' in focused input output")
	}
}

func TestSelect_BasicOperations(t *testing.T) {
	sel := NewSelect("Reason", []string{"Spoiled", "Over-Prepared", "Other"})

	if sel.Value() != "Spoiled" {
		t.Errorf("Expected 'Spoiled', got %q", sel.Value())
	}
	if sel.SelectedIndex() != 0 {
		t.Errorf("Expected index 0, got %d", sel.SelectedIndex())
	}

	sel.SetSelected(2)
	if sel.Value() != "Other" {
		t.Errorf("Expected 'Other', got %q", sel.Value())
	}
}

func TestSelect_HandleKey(t *testing.T) {
	sel := NewSelect("Reason", []string{"Spoiled", "Over-Prepared", "Other"})
	sel.Focus(true)

	// Move right
	sel.HandleKey("right")
	if sel.Value() != "Over-Prepared" {
		t.Errorf("Expected 'Over-Prepared', got %q", sel.Value())
	}

	sel.HandleKey("right")
	if sel.Value() != "Other" {
		t.Errorf("Expected 'Other', got %q", sel.Value())
	}

	// Can't move beyond last
	sel.HandleKey("right")
	if sel.Value() != "Other" {
		t.Errorf("Expected 'Other', got %q", sel.Value())
	}

	// Move left
	sel.HandleKey("left")
	if sel.Value() != "Over-Prepared" {
		t.Errorf("Expected 'Over-Prepared', got %q", sel.Value())
	}
}

func TestSelect_HandleKey_NotFocused(t *testing.T) {
	sel := NewSelect("Reason", []string{"Spoiled", "Over-Prepared", "Other"})
	// Not focused

	sel.HandleKey("right")
	if sel.Value() != "Spoiled" {
		t.Errorf("Should not handle keys when not focused, got %q", sel.Value())
	}
}

func TestSelect_Render(t *testing.T) {
	sel := NewSelect("Reason", []string{"Spoiled", "Over-Prepared", "Other"})
	sel.SetSelected(1)

	output := sel.Render()
	if !strings.Contains(output, "Reason") {
		t.Error("Expected label 'Reason' in output")
	}
	if !strings.Contains(output, "Over-Prepared") {
		t.Error("Expected selected option 'Over-Prepared' in output")
	}
}

func TestSelect_RenderWithLabelWidth(t *testing.T) {
	sel := NewSelect("Reason", []string{"Spoiled", "Other"})

	output := sel.RenderWithLabelWidth(10)
	if !strings.Contains(output, "Reason") {
		t.Error("Expected label in output")
	}
}

func TestSelect_SetSelected_OutOfBounds(t *testing.T) {
	sel := NewSelect("Reason", []string{"Spoiled", "Other"})

	sel.SetSelected(-1)
	if sel.SelectedIndex() != 0 {
		t.Errorf("Expected index 0 after invalid SetSelected(-1), got %d", sel.SelectedIndex())
	}

	sel.SetSelected(99)
	if sel.SelectedIndex() != 0 {
		t.Errorf("Expected index 0 after invalid SetSelected(99), got %d", sel.SelectedIndex())
	}
}

func TestInput_HandleKey_Space(t *testing.T) {
	input := NewInput("Dish")
	input.Focus(true)

	for _, k := range []string{"P", "a", " ", "e"} {
		input.HandleKey(k)
	}
	if input.Value() != "Pa e" {
		t.Errorf("Expected 'Pa e', got %q", input.Value())
	}
}

func TestForm_BasicFlow(t *testing.T) {
	form := NewForm("Add Dish", DefaultPalette())

	name := NewInput("Name")
	price := NewInput("Price")
	form.AddField(name)
	form.AddField(price)

	if form.IsSubmitted() || form.IsCancelled() {
		t.Fatal("new form should be neither submitted nor cancelled")
	}
	if !name.IsFocused() {
		t.Error("first field should be focused")
	}

	form.HandleKey("tab")
	if !price.IsFocused() || name.IsFocused() {
		t.Error("tab should move focus to the second field")
	}

	form.HandleKey("9")
	if price.Value() != "9" {
		t.Errorf("keys should reach the focused field, got %q", price.Value())
	}

	form.HandleKey("enter")
	if !form.IsSubmitted() {
		t.Error("enter on the last field should submit")
	}
}

func TestForm_CtrlSSubmits(t *testing.T) {
	form := NewForm("Add Dish", DefaultPalette())
	form.AddField(NewInput("Name"))
	form.AddField(NewInput("Price"))

	form.HandleKey("ctrl+s")
	if !form.IsSubmitted() {
		t.Error("ctrl+s should submit from any field")
	}
}

func TestForm_Cancel(t *testing.T) {
	form := NewForm("Add Dish", DefaultPalette())
	form.AddField(NewInput("Name"))

	form.HandleKey("esc")
	if !form.IsCancelled() {
		t.Error("Form should be cancelled after Esc")
	}
}

func TestForm_SetErrorReopens(t *testing.T) {
	form := NewForm("Add Dish", DefaultPalette())
	form.AddField(NewInput("Price"))
	form.HandleKey("ctrl+s")

	form.SetError("invalid Price: must be a number")

	if form.IsSubmitted() {
		t.Error("SetError should clear the submitted state")
	}
	if output := form.Render(); !strings.Contains(output, "invalid Price: must be a number") {
		t.Error("Expected error message in form output")
	}
}

func TestForm_RenderResponsive(t *testing.T) {
	form := NewForm("Add Dish", DefaultPalette())
	form.AddField(NewInput("Name").SetValue("Tiramisu"))

	wide := form.RenderResponsive(120)
	for _, want := range []string{"Add Dish", "Name", "Tiramisu", "Shift+Tab"} {
		if !strings.Contains(wide, want) {
			t.Errorf("wide render missing %q", want)
		}
	}

	if narrow := form.RenderResponsive(50); strings.Contains(narrow, "Shift+Tab") {
		t.Error("Expected compact help text on narrow terminal")
	}
}
