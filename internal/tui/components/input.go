package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Input is a single-line text input.
type Input struct {
	label       string
	value       string
	placeholder string
	width       int
	focused     bool
	cursorPos   int
	maxLength   int
	required    bool
	err         string
	palette     Palette
}

// NewInput creates a new input field.
func NewInput(label string) *Input {
	return &Input{
		label:     label,
		width:     20,
		maxLength: 100,
		palette:   DefaultPalette(),
	}
}

// SetValue sets the input value.
func (i *Input) SetValue(v string) *Input {
	i.value = v
	i.cursorPos = len(v)
	return i
}

// SetPlaceholder sets the placeholder text.
func (i *Input) SetPlaceholder(p string) *Input {
	i.placeholder = p
	return i
}

// SetWidth sets the input width.
func (i *Input) SetWidth(w int) *Input {
	i.width = w
	return i
}

// SetMaxLength sets the maximum input length.
func (i *Input) SetMaxLength(m int) *Input {
	i.maxLength = m
	return i
}

// SetRequired marks the field as required.
func (i *Input) SetRequired(r bool) *Input {
	i.required = r
	return i
}

// SetError sets an error message.
func (i *Input) SetError(e string) *Input {
	i.err = e
	return i
}

func (i *Input) usePalette(p Palette) {
	i.palette = p
}

// Focus sets the focus state.
func (i *Input) Focus(focused bool) {
	i.focused = focused
	if focused && i.cursorPos > len(i.value) {
		i.cursorPos = len(i.value)
	}
}

// IsFocused returns the focus state.
func (i *Input) IsFocused() bool {
	return i.focused
}

// Label returns the field label.
func (i *Input) Label() string {
	return i.label
}

// Value returns the current value.
func (i *Input) Value() string {
	return i.value
}

// HandleKey handles a key press.
func (i *Input) HandleKey(key string) {
	if !i.focused {
		return
	}

	switch key {
	case "backspace":
		if len(i.value) > 0 && i.cursorPos > 0 {
			i.value = i.value[:i.cursorPos-1] + i.value[i.cursorPos:]
			i.cursorPos--
		}
	case "delete":
		if i.cursorPos < len(i.value) {
			i.value = i.value[:i.cursorPos] + i.value[i.cursorPos+1:]
		}
	case "left":
		if i.cursorPos > 0 {
			i.cursorPos--
		}
	case "right":
		if i.cursorPos < len(i.value) {
			i.cursorPos++
		}
	case "home", "ctrl+a":
		i.cursorPos = 0
	case "end", "ctrl+e":
		i.cursorPos = len(i.value)
	case " ", "space":
		i.insert(" ")
	default:
		if len(key) == 1 {
			i.insert(key)
		}
	}
}

func (i *Input) insert(s string) {
	if len(i.value) >= i.maxLength {
		return
	}
	i.value = i.value[:i.cursorPos] + s + i.value[i.cursorPos:]
	i.cursorPos += len(s)
}

// Validate checks the required flag and records the error on the field.
func (i *Input) Validate() bool {
	if i.required && strings.TrimSpace(i.value) == "" {
		i.err = "Required"
		return false
	}
	i.err = ""
	return true
}

// Render renders the input field.
func (i *Input) Render() string {
	return i.RenderWithLabelWidth(16)
}

// RenderWithLabelWidth renders the field with the label padded to
// labelWidth. A zero width omits the label.
func (i *Input) RenderWithLabelWidth(labelWidth int) string {
	p := i.palette

	var display string
	switch {
	case i.value == "" && i.placeholder != "" && !i.focused:
		display = p.style(p.Muted).Render(i.placeholder)
	case i.focused:
		display = p.style(p.Accent).Render(i.value[:i.cursorPos] + "_" + i.value[i.cursorPos:])
	default:
		display = p.style(p.Primary).Render(i.value)
	}

	displayLen := len(i.value)
	if i.value == "" && !i.focused {
		displayLen = len(i.placeholder)
	}
	if i.focused {
		displayLen++
	}
	if displayLen < i.width {
		display += strings.Repeat(" ", i.width-displayLen)
	}

	result := display
	if labelWidth > 0 {
		label := i.label
		if i.required {
			label += "*"
		}
		result = p.style(p.Secondary).Width(labelWidth).Render(label+":") + " " + display
	}

	if i.err != "" {
		result += " " + p.style(p.Error).Render(i.err)
	}

	return result
}

// Select picks one of a fixed list of options.
type Select struct {
	label    string
	options  []string
	selected int
	focused  bool
	palette  Palette
}

// NewSelect creates a new select input.
func NewSelect(label string, options []string) *Select {
	return &Select{
		label:   label,
		options: options,
		palette: DefaultPalette(),
	}
}

// SetSelected sets the selected index. Out-of-range values are ignored.
func (s *Select) SetSelected(idx int) *Select {
	if idx >= 0 && idx < len(s.options) {
		s.selected = idx
	}
	return s
}

func (s *Select) usePalette(p Palette) {
	s.palette = p
}

// Focus sets the focus state.
func (s *Select) Focus(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state.
func (s *Select) IsFocused() bool {
	return s.focused
}

// Value returns the selected value.
func (s *Select) Value() string {
	if s.selected >= 0 && s.selected < len(s.options) {
		return s.options[s.selected]
	}
	return ""
}

// SelectedIndex returns the selected index.
func (s *Select) SelectedIndex() int {
	return s.selected
}

// HandleKey handles a key press.
func (s *Select) HandleKey(key string) {
	if !s.focused {
		return
	}

	switch key {
	case "left", "h":
		if s.selected > 0 {
			s.selected--
		}
	case "right", "l":
		if s.selected < len(s.options)-1 {
			s.selected++
		}
	}
}

// Render renders the select.
func (s *Select) Render() string {
	return s.RenderWithLabelWidth(16)
}

// RenderWithLabelWidth renders the select with the label padded to
// labelWidth. A zero width omits the label.
func (s *Select) RenderWithLabelWidth(labelWidth int) string {
	p := s.palette
	optStyle := p.style(p.Secondary)
	selStyle := p.style(p.Primary).Bold(true)

	var b strings.Builder
	if labelWidth > 0 {
		b.WriteString(p.style(p.Secondary).Width(labelWidth).Render(s.label + ":"))
		b.WriteString(" ")
	}

	for i, opt := range s.options {
		if i > 0 {
			b.WriteString(" ")
		}

		switch {
		case i == s.selected && s.focused:
			b.WriteString(selStyle.Render("[" + opt + "]"))
		case i == s.selected:
			b.WriteString(selStyle.Render("(" + opt + ")"))
		default:
			b.WriteString(optStyle.Render(" " + opt + " "))
		}
	}

	return b.String()
}

// FormField is a focusable component that can live in a Form.
type FormField interface {
	Focus(bool)
	IsFocused() bool
	HandleKey(string)
	Render() string
}

type paletted interface {
	usePalette(Palette)
}

var (
	_ FormField = (*Input)(nil)
	_ FormField = (*Select)(nil)
)

// Form is an ordered set of fields with submit and cancel state.
type Form struct {
	title      string
	fields     []FormField
	focusIndex int
	submitted  bool
	cancelled  bool
	err        string
	palette    Palette
}

// NewForm creates a new form.
func NewForm(title string, p Palette) *Form {
	return &Form{
		title:   title,
		palette: p,
	}
}

// AddField adds a field to the form. The first field gets focus.
func (f *Form) AddField(field FormField) *Form {
	if pf, ok := field.(paletted); ok {
		pf.usePalette(f.palette)
	}
	f.fields = append(f.fields, field)
	if len(f.fields) == 1 {
		field.Focus(true)
	}
	return f
}

// HandleKey handles form navigation.
func (f *Form) HandleKey(key string) {
	switch key {
	case "tab", "down":
		f.nextField()
	case "shift+tab", "up":
		f.prevField()
	case "ctrl+s":
		f.submitted = true
	case "esc":
		f.cancelled = true
	case "enter":
		if f.focusIndex == len(f.fields)-1 {
			f.submitted = true
		} else {
			f.nextField()
		}
	default:
		if f.focusIndex < len(f.fields) {
			f.fields[f.focusIndex].HandleKey(key)
		}
	}
}

func (f *Form) nextField() {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex = (f.focusIndex + 1) % len(f.fields)
	f.fields[f.focusIndex].Focus(true)
}

func (f *Form) prevField() {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex--
	if f.focusIndex < 0 {
		f.focusIndex = len(f.fields) - 1
	}
	f.fields[f.focusIndex].Focus(true)
}

// IsSubmitted returns true if form was submitted.
func (f *Form) IsSubmitted() bool {
	return f.submitted
}

// IsCancelled returns true if form was cancelled.
func (f *Form) IsCancelled() bool {
	return f.cancelled
}

// SetError shows err under the fields and reopens the form for editing.
func (f *Form) SetError(err string) {
	f.err = err
	f.submitted = false
}

// Title returns the form title.
func (f *Form) Title() string {
	return f.title
}

// Render renders the form with the full help line.
func (f *Form) Render() string {
	return f.RenderResponsive(0)
}

// RenderResponsive renders the form, shortening the help line when width
// is below 60 columns. A zero width means unconstrained.
func (f *Form) RenderResponsive(width int) string {
	p := f.palette

	var b strings.Builder

	b.WriteString(p.style(p.Accent).Bold(true).Render(fmt.Sprintf("=== %s ===", f.title)))
	b.WriteString("\n\n")

	for _, field := range f.fields {
		b.WriteString(field.Render())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(p.style(p.Error).Render("Error: " + f.err))
		b.WriteString("\n")
	}

	help := "Tab/Down:Next  Shift+Tab/Up:Prev  Ctrl+S:Save  Esc:Cancel"
	if width > 0 && width < 60 {
		help = "Tab:Next  ^S:Save  Esc:Cancel"
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(p.Secondary).Render(help))

	return b.String()
}
