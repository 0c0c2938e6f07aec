package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/repository"
	"github.com/bistro-ops/bistro/internal/services/alerts"
	"github.com/bistro-ops/bistro/internal/services/analytics"
	"github.com/bistro-ops/bistro/internal/services/inventory"
	"github.com/bistro-ops/bistro/internal/services/menu"
	"github.com/bistro-ops/bistro/internal/services/staff"
	"github.com/bistro-ops/bistro/internal/services/waste"
	"github.com/bistro-ops/bistro/internal/session"
	"github.com/bistro-ops/bistro/internal/store"
	"github.com/bistro-ops/bistro/internal/tui/views/kitchen"
	"github.com/bistro-ops/bistro/internal/tui/views/rota"
	"github.com/bistro-ops/bistro/internal/watch"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 120

// historyLimit is how many dispatch attempts the reports module lists.
const historyLimit = 10

// Module represents a view module in the application.
type Module string

const (
	ModuleHelp      Module = "help"
	ModuleDashboard Module = "dashboard"
	ModuleMenu      Module = "menu"
	ModuleInventory Module = "inventory"
	ModuleWaste     Module = "waste"
	ModuleStaff     Module = "staff"
	ModuleReports   Module = "reports"
	ModuleQuit      Module = "quit"
)

// collection returns the collection file a module lists, or "".
func (m Module) collection() string {
	switch m {
	case ModuleMenu:
		return menu.CollectionName
	case ModuleInventory:
		return inventory.CollectionName
	case ModuleWaste:
		return waste.CollectionName
	case ModuleStaff:
		return staff.CollectionName
	default:
		return ""
	}
}

// form is an open data entry form and what to do when it is submitted.
type form struct {
	view interface {
		HandleKey(key string)
		IsSubmitted() bool
		IsCancelled() bool
		SetError(err string)
		RenderResponsive(width int) string
	}
	submit func() tea.Cmd
}

// confirm is a yes/no dialog.
type confirm struct {
	title  string
	prompt string
	onYes  func() tea.Cmd
}

// App is the main Bubble Tea application model.
type App struct {
	// Dependencies
	deps   *session.Deps
	config *config.Config
	role   access.Role
	events <-chan watch.Change

	// Views
	menuView      *kitchen.MenuView
	inventoryView *kitchen.InventoryView
	wasteView     *kitchen.WasteView
	rotaView      *rota.View

	dashboard    *analytics.Dashboard
	dashboardErr error
	report       *analytics.Report
	reportErr    error
	history      []*repository.NotificationRecord
	historyErr   error

	// UI state
	theme    *Theme
	keys     KeyMap
	width    int
	height   int
	ready    bool
	quitting bool
	confirm  *confirm
	form     *form

	// Current view
	currentModule  Module
	previousModule Module

	// Alerts
	alerts     []Alert
	alertCount int
}

// Alert is a message shown in the alert bar.
type Alert struct {
	Level   AlertLevel
	Message string
	Time    time.Time
}

// AlertLevel indicates the severity of an alert.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertCritical
)

// tickMsg is sent periodically to update the clock.
type tickMsg time.Time

type menuLoadedMsg struct {
	items []models.MenuItem
	err   error
}

type inventoryLoadedMsg struct {
	items  []models.InventoryItem
	alerts []alerts.Alert
	err    error
}

type wasteLoadedMsg struct {
	data kitchen.WasteData
	err  error
}

type staffLoadedMsg struct {
	shifts []models.StaffShift
	err    error
}

type dashboardLoadedMsg struct {
	dashboard *analytics.Dashboard
	err       error
}

type reportsLoadedMsg struct {
	report     *analytics.Report
	reportErr  error
	history    []*repository.NotificationRecord
	historyErr error
}

// savedMsg reports the outcome of a write in module.
type savedMsg struct {
	module  Module
	message string
	err     error
}

type dispatchedMsg struct {
	status alerts.SendStatus
	err    error
}

// changeMsg reports a collection file changed on disk.
type changeMsg watch.Change

// New creates a new App for role. The first module is the dashboard when
// role may see it, otherwise inventory.
func New(deps *session.Deps, role access.Role) *App {
	theme := NewTheme(deps.Config.Display.ColorScheme)
	p := theme.Palette()

	start := ModuleDashboard
	if !access.Allows(role, access.FeatureBusinessIntelligence) {
		start = ModuleInventory
	}

	return &App{
		deps:          deps,
		config:        deps.Config,
		role:          role,
		menuView:      kitchen.NewMenuView(p, deps.Config.Restaurant.Currency),
		inventoryView: kitchen.NewInventoryView(p),
		wasteView:     kitchen.NewWasteView(p),
		rotaView:      rota.NewView(p),
		theme:         theme,
		keys:          DefaultKeyMap(),
		currentModule: start,
		alerts:        []Alert{},
	}
}

// WithEvents makes the app reload the visible module when its
// collection changes on disk.
func (a *App) WithEvents(events <-chan watch.Change) *App {
	a.events = events
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), a.load(a.currentModule), a.waitForChange()}
	if a.currentModule != ModuleInventory {
		// The header alert count comes from the inventory load.
		cmds = append(cmds, a.load(ModuleInventory))
	}
	return tea.Batch(cmds...)
}

// tickCmd returns a command that sends tick messages.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange delivers the next collection change, if watching.
func (a *App) waitForChange() tea.Cmd {
	if a.events == nil {
		return nil
	}
	events := a.events
	return func() tea.Msg {
		c, ok := <-events
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func (a *App) session() *session.Session {
	return session.New(a.deps, a.role)
}

func (a *App) today() models.Date {
	return models.DateOf(a.deps.Clock.Now())
}

// load fetches the data module shows.
func (a *App) load(m Module) tea.Cmd {
	s := a.session()
	ctx := context.Background()

	switch m {
	case ModuleDashboard:
		return func() tea.Msg {
			d, err := s.Analytics.Dashboard(ctx, models.Date{}, models.Date{})
			return dashboardLoadedMsg{dashboard: d, err: err}
		}

	case ModuleMenu:
		return func() tea.Msg {
			items, err := s.Menu.List(ctx)
			return menuLoadedMsg{items: items, err: err}
		}

	case ModuleInventory:
		return func() tea.Msg {
			items, err := s.Inventory.List(ctx)
			if err != nil {
				return inventoryLoadedMsg{err: err}
			}
			current, err := s.Alerts.Current(ctx)
			return inventoryLoadedMsg{items: items, alerts: current, err: err}
		}

	case ModuleWaste:
		return func() tea.Msg {
			entries, err := s.Waste.List(ctx)
			if err != nil {
				return wasteLoadedMsg{err: err}
			}
			totals, err := s.Waste.TotalsByReason(ctx)
			if err != nil {
				return wasteLoadedMsg{err: err}
			}
			forecast, ferr := s.Analytics.WasteForecast(ctx)
			return wasteLoadedMsg{data: kitchen.WasteData{
				Entries:     entries,
				Totals:      totals,
				Forecast:    forecast,
				ForecastErr: ferr,
			}}
		}

	case ModuleStaff:
		return func() tea.Msg {
			shifts, err := s.Staff.List(ctx)
			return staffLoadedMsg{shifts: shifts, err: err}
		}

	case ModuleReports:
		return func() tea.Msg {
			msg := reportsLoadedMsg{}
			msg.report, msg.reportErr = s.Analytics.Report(ctx, models.Date{}, models.Date{})
			msg.history, msg.historyErr = s.Alerts.History(ctx, historyLimit)
			return msg
		}
	}
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tickMsg:
		return a, tickCmd()

	case dashboardLoadedMsg:
		a.dashboard, a.dashboardErr = msg.dashboard, msg.err
		a.noteError("dashboard", msg.err)
		return a, nil

	case menuLoadedMsg:
		if msg.err != nil {
			a.menuView.SetError(msg.err)
			a.noteError("menu", msg.err)
			return a, nil
		}
		a.menuView.SetItems(msg.items)
		return a, nil

	case inventoryLoadedMsg:
		if msg.err != nil {
			a.inventoryView.SetError(msg.err)
			a.noteError("inventory", msg.err)
			return a, nil
		}
		a.inventoryView.SetToday(a.today())
		a.inventoryView.SetItems(msg.items, msg.alerts)
		a.alertCount = len(msg.alerts)
		return a, nil

	case wasteLoadedMsg:
		if msg.err != nil {
			a.wasteView.SetError(msg.err)
			a.noteError("waste log", msg.err)
			return a, nil
		}
		a.wasteView.SetData(msg.data)
		return a, nil

	case staffLoadedMsg:
		if msg.err != nil {
			a.rotaView.SetError(msg.err)
			a.noteError("rota", msg.err)
			return a, nil
		}
		a.rotaView.SetShifts(msg.shifts)
		return a, nil

	case reportsLoadedMsg:
		a.report, a.reportErr = msg.report, msg.reportErr
		a.history, a.historyErr = msg.history, msg.historyErr
		return a, nil

	case savedMsg:
		if msg.err != nil {
			if a.form != nil && errors.Is(msg.err, models.ErrValidation) {
				a.form.view.SetError(msg.err.Error())
				return a, nil
			}
			a.form = nil
			a.AddAlert(AlertWarning, describe(msg.err))
			return a, nil
		}
		a.form = nil
		a.AddAlert(AlertInfo, msg.message)
		return a, a.load(msg.module)

	case dispatchedMsg:
		switch {
		case msg.err != nil:
			a.AddAlert(AlertCritical, describe(msg.err))
		case msg.status == alerts.SendStatusSent:
			a.AddAlert(AlertInfo, "Alert digest sent to "+a.config.Alerts.Recipient)
		case msg.status == alerts.SendStatusNoAlerts:
			a.AddAlert(AlertInfo, "No alerts to send")
		case msg.status == alerts.SendStatusNoDestination:
			a.AddAlert(AlertWarning, "No alert recipient configured")
		}
		if a.currentModule == ModuleReports {
			return a, a.load(ModuleReports)
		}
		return a, nil

	case changeMsg:
		cmds := []tea.Cmd{a.waitForChange()}
		if msg.Collection == a.currentModule.collection() {
			slog.Debug("reloading after external change", "collection", msg.Collection, "removed", msg.Removed)
			cmds = append(cmds, a.load(a.currentModule))
		}
		return a, tea.Batch(cmds...)
	}

	return a, nil
}

// noteError surfaces a load failure in the alert bar.
func (a *App) noteError(what string, err error) {
	if err == nil {
		return
	}
	level := AlertWarning
	if errors.Is(err, models.ErrCorruptData) {
		level = AlertCritical
	}
	a.AddAlert(level, fmt.Sprintf("Loading %s: %s", what, describe(err)))
}

// describe turns an error into an alert bar message.
func describe(err error) string {
	var corrupt *store.CorruptDataError
	var denied *access.DeniedError
	switch {
	case errors.As(err, &corrupt):
		return fmt.Sprintf("%s is corrupt; run `bistro reset %s`", corrupt.Path, corrupt.Collection)
	case errors.As(err, &denied):
		return fmt.Sprintf("%s is not available to %s", denied.Feature, denied.Role)
	default:
		return err.Error()
	}
}

// handleKeyPress processes key press events.
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal dialog takes priority
	if a.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			c := a.confirm
			a.confirm = nil
			return a, c.onYes()
		case "n", "N", "esc":
			a.confirm = nil
		}
		return a, nil
	}

	// Forms need all input
	if a.form != nil {
		return a.handleFormKeys(msg)
	}

	if a.keys.IsQuit(msg) {
		a.confirmQuit()
		return a, nil
	}

	if a.keys.IsFunctionKey(msg) {
		return a.switchTo(a.keys.FunctionKeyModule(msg))
	}

	if a.keys.Help.Matches(msg) {
		return a.switchTo(ModuleHelp)
	}

	if a.keys.Back.Matches(msg) {
		if a.currentModule == ModuleHelp && a.previousModule != "" {
			a.currentModule = a.previousModule
			a.previousModule = ""
		}
		return a, nil
	}

	if a.keys.Reload.Matches(msg) {
		return a, a.load(a.currentModule)
	}

	switch a.currentModule {
	case ModuleMenu:
		return a.handleMenuKeys(msg)
	case ModuleInventory:
		return a.handleInventoryKeys(msg)
	case ModuleWaste:
		return a.handleWasteKeys(msg)
	case ModuleStaff:
		return a.handleStaffKeys(msg)
	}

	return a, nil
}

func (a *App) switchTo(m Module) (tea.Model, tea.Cmd) {
	switch m {
	case "":
		return a, nil
	case ModuleQuit:
		a.confirmQuit()
		return a, nil
	case ModuleHelp:
		if a.currentModule != ModuleHelp {
			a.previousModule = a.currentModule
		}
		a.currentModule = ModuleHelp
		return a, nil
	}
	a.currentModule = m
	a.previousModule = ""
	return a, a.load(m)
}

func (a *App) confirmQuit() {
	a.confirm = &confirm{
		title:  "CONFIRM EXIT",
		prompt: "Are you sure you want to exit?",
		onYes: func() tea.Cmd {
			a.quitting = true
			return tea.Quit
		},
	}
}

// handleFormKeys handles key presses while a form is open.
func (a *App) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.form.view.HandleKey(msg.String())

	if a.form.view.IsCancelled() {
		a.form = nil
		return a, nil
	}
	if a.form.view.IsSubmitted() {
		return a, a.form.submit()
	}
	return a, nil
}

func (a *App) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.Up.Matches(msg):
		a.menuView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.menuView.MoveDown()
	case a.keys.Add.Matches(msg):
		f := kitchen.NewMenuForm(a.theme.Palette())
		a.form = &form{view: f, submit: func() tea.Cmd {
			input := f.Input()
			return a.save(ModuleMenu, func(s *session.Session) (string, error) {
				item, err := s.Menu.Add(context.Background(), input)
				return fmt.Sprintf("Added %s to the menu", item.Name), err
			})
		}}
	case a.keys.Remove.Matches(msg):
		item, ok := a.menuView.SelectedItem()
		if !ok {
			return a, nil
		}
		idx := a.menuView.Selected()
		a.confirm = &confirm{
			title:  "DELETE MENU ITEM",
			prompt: fmt.Sprintf("Delete %s from the menu?", item.Name),
			onYes: func() tea.Cmd {
				return a.save(ModuleMenu, func(s *session.Session) (string, error) {
					removed, err := s.Menu.Delete(context.Background(), idx)
					return fmt.Sprintf("Removed %s from the menu", removed.Name), err
				})
			},
		}
	}
	return a, nil
}

func (a *App) handleInventoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.Up.Matches(msg):
		a.inventoryView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.inventoryView.MoveDown()
	case a.keys.Add.Matches(msg):
		f := kitchen.NewInventoryForm(a.theme.Palette())
		a.form = &form{view: f, submit: func() tea.Cmd {
			input := f.Input()
			return a.save(ModuleInventory, func(s *session.Session) (string, error) {
				item, err := s.Inventory.Add(context.Background(), input)
				return fmt.Sprintf("Stocked %s: %d on hand", item.Item, item.Quantity), err
			})
		}}
	case a.keys.Update.Matches(msg):
		item, ok := a.inventoryView.SelectedItem()
		if !ok {
			return a, nil
		}
		f := kitchen.NewStockForm(a.theme.Palette(), item)
		a.form = &form{view: f, submit: func() tea.Cmd {
			key, input := f.Key(), f.Input()
			return a.save(ModuleInventory, func(s *session.Session) (string, error) {
				updated, err := s.Inventory.Update(context.Background(), key, input)
				return fmt.Sprintf("Updated %s: %d on hand", updated.Item, updated.Quantity), err
			})
		}}
	case a.keys.Remove.Matches(msg):
		item, ok := a.inventoryView.SelectedItem()
		if !ok {
			return a, nil
		}
		a.confirm = &confirm{
			title:  "DELETE INVENTORY ITEM",
			prompt: fmt.Sprintf("Delete %s from inventory?", item.Item),
			onYes: func() tea.Cmd {
				return a.save(ModuleInventory, func(s *session.Session) (string, error) {
					n, err := s.Inventory.Delete(context.Background(), item.Item)
					return fmt.Sprintf("Removed %d record(s) of %s", n, item.Item), err
				})
			},
		}
	case a.keys.Send.Matches(msg):
		return a, a.dispatch()
	}
	return a, nil
}

func (a *App) handleWasteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.Up.Matches(msg):
		a.wasteView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.wasteView.MoveDown()
	case a.keys.Add.Matches(msg):
		f := kitchen.NewWasteForm(a.theme.Palette())
		a.form = &form{view: f, submit: func() tea.Cmd {
			input := f.Input()
			return a.save(ModuleWaste, func(s *session.Session) (string, error) {
				entry, err := s.Waste.Add(context.Background(), input)
				return fmt.Sprintf("Logged %d %s (%s)", entry.Quantity, entry.Item, entry.Reason), err
			})
		}}
	}
	return a, nil
}

func (a *App) handleStaffKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.Up.Matches(msg):
		a.rotaView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.rotaView.MoveDown()
	case a.keys.Add.Matches(msg):
		f := rota.NewShiftForm(a.theme.Palette())
		a.form = &form{view: f, submit: func() tea.Cmd {
			input := f.Input()
			return a.save(ModuleStaff, func(s *session.Session) (string, error) {
				shift, err := s.Staff.Add(context.Background(), input)
				return fmt.Sprintf("Scheduled %s on %s at %s", shift.Name, shift.Date, shift.Time), err
			})
		}}
	case a.keys.Remove.Matches(msg):
		shift, ok := a.rotaView.SelectedShift()
		if !ok {
			return a, nil
		}
		idx := a.rotaView.Selected()
		a.confirm = &confirm{
			title:  "DELETE SHIFT",
			prompt: fmt.Sprintf("Delete %s on %s at %s?", shift.Name, shift.Date, shift.Time),
			onYes: func() tea.Cmd {
				return a.save(ModuleStaff, func(s *session.Session) (string, error) {
					removed, err := s.Staff.Delete(context.Background(), idx)
					return fmt.Sprintf("Removed shift for %s", removed.Name), err
				})
			},
		}
	}
	return a, nil
}

// save runs a write against a fresh session.
func (a *App) save(m Module, fn func(*session.Session) (string, error)) tea.Cmd {
	s := a.session()
	return func() tea.Msg {
		message, err := fn(s)
		return savedMsg{module: m, message: message, err: err}
	}
}

// dispatch sends the current alerts to the configured recipient.
func (a *App) dispatch() tea.Cmd {
	s := a.session()
	recipient := a.config.Alerts.Recipient
	return func() tea.Msg {
		status, err := s.Alerts.Dispatch(context.Background(), recipient)
		return dispatchedMsg{status: status, err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.quitting {
		return a.theme.Title.Render("Closing the back office...")
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderAlertBar())
	b.WriteString("\n")

	contentHeight := bodyHeight(a.height)
	if a.confirm != nil {
		b.WriteString(a.renderConfirmDialog(contentHeight))
	} else {
		b.WriteString(a.renderContent(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar.
func (a *App) renderHeader() string {
	title := fmt.Sprintf("BISTRO BACK OFFICE v%s", Version)

	info := fmt.Sprintf("%s | %s | ALERTS: %d", a.config.Restaurant.Name, a.role, a.alertCount)
	if ClassifyWidth(a.width) == Narrow {
		info = fmt.Sprintf("%s | %d", a.role, a.alertCount)
	}

	spacing := a.width - lipgloss.Width(title) - lipgloss.Width(info) - 4
	if spacing < 1 {
		spacing = 1
	}

	header := a.theme.Header.Render(title) +
		strings.Repeat(" ", spacing) +
		a.theme.Header.Render(info)

	return header + "\n" + a.theme.DrawDoubleLine(a.width)
}

// renderAlertBar renders the clock and the latest alert.
func (a *App) renderAlertBar() string {
	timeStr := a.deps.Clock.Now().Format(a.config.Display.DateFormat + " 15:04")

	var alertText string
	if len(a.alerts) > 0 {
		alert := a.alerts[0]
		switch alert.Level {
		case AlertCritical:
			alertText = a.theme.AlertCrit.Render("CRITICAL: " + alert.Message)
		case AlertWarning:
			alertText = a.theme.AlertWarn.Render("WARNING: " + alert.Message)
		default:
			alertText = a.theme.Alert.Render("INFO: " + alert.Message)
		}
	} else if a.alertCount > 0 {
		alertText = a.theme.AlertWarn.Render(fmt.Sprintf("%d inventory alert(s), see F4", a.alertCount))
	} else {
		alertText = a.theme.Muted.Render("All stock in order")
	}

	return a.theme.Value.Render(timeStr) + a.theme.StatusDivider.Render() + alertText
}

// renderContent renders the main content area based on current module.
func (a *App) renderContent(height int) string {
	contentWidth := bodyWidth(a.width)
	content := a.moduleContent(contentWidth, height)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top)

	return style.Render(lipgloss.NewStyle().Width(contentWidth).Render(content))
}

// moduleContent returns the content for the current module.
func (a *App) moduleContent(width, height int) string {
	if a.form != nil {
		return a.form.view.RenderResponsive(width)
	}

	switch a.currentModule {
	case ModuleDashboard:
		return a.renderDashboard(width)
	case ModuleMenu:
		return a.menuView.Render(width, height)
	case ModuleInventory:
		return a.inventoryView.Render(width, height)
	case ModuleWaste:
		return a.wasteView.Render(width, height)
	case ModuleStaff:
		return a.rotaView.Render(width, height)
	case ModuleReports:
		return a.renderReports(width)
	case ModuleHelp:
		return a.renderHelp()
	default:
		return ""
	}
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("=== HELP ==="))
	b.WriteString("\n\n")

	b.WriteString(a.theme.Subtitle.Render("NAVIGATION"))
	b.WriteString("\n\n")

	navItems := [][2]string{
		{"F1", "Help"},
		{"F2", "Business dashboard"},
		{"F3", "Menu"},
		{"F4", "Inventory and alerts"},
		{"F5", "Waste log"},
		{"F6", "Staff rota"},
		{"F7", "Reports"},
		{"F10", "Quit"},
	}
	for _, item := range navItems {
		line := fmt.Sprintf("    %-8s  %s", item[0], item[1])
		if module := a.helpModule(item[0]); module != "" && !a.moduleAllowed(module) {
			b.WriteString(a.theme.Disabled.Render(line + "  (not available to " + string(a.role) + ")"))
		} else {
			b.WriteString(a.theme.Primary.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Subtitle.Render("CONTROLS"))
	b.WriteString("\n\n")

	ctrlItems := [][2]string{
		{"Up/Down", "Select"},
		{"a", "Add"},
		{"d", "Delete selected"},
		{"u", "Update stock"},
		{"s", "Send inventory alerts"},
		{"r", "Reload"},
		{"Tab", "Next field"},
		{"Ctrl+S", "Save form"},
		{"Esc", "Back/Cancel"},
	}
	for _, item := range ctrlItems {
		line := fmt.Sprintf("    %-8s  %s", item[0], item[1])
		b.WriteString(a.theme.Primary.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("Press Esc to return"))

	return b.String()
}

func (a *App) helpModule(key string) Module {
	switch key {
	case "F2":
		return ModuleDashboard
	case "F3":
		return ModuleMenu
	case "F4":
		return ModuleInventory
	case "F5":
		return ModuleWaste
	case "F6":
		return ModuleStaff
	case "F7":
		return ModuleReports
	}
	return ""
}

// moduleAllowed reports whether the app role may open m.
func (a *App) moduleAllowed(m Module) bool {
	feature := map[Module]access.Feature{
		ModuleDashboard: access.FeatureBusinessIntelligence,
		ModuleMenu:      access.FeatureMenuManagement,
		ModuleInventory: access.FeatureInventoryTracking,
		ModuleWaste:     access.FeatureWasteManagement,
		ModuleStaff:     access.FeatureStaffScheduling,
		ModuleReports:   access.FeatureBIReports,
	}[m]
	return access.Allows(a.role, feature)
}

// renderConfirmDialog renders the open confirmation dialog.
func (a *App) renderConfirmDialog(height int) string {
	dialog := a.theme.Box.Render(
		a.theme.Title.Render(a.confirm.title) + "\n\n" +
			a.theme.Base.Render(a.confirm.prompt) + "\n\n" +
			a.theme.Label.Render("[Y]es  [N]o"),
	)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(dialog)
}

// renderFooter renders the bottom status bar.
func (a *App) renderFooter() string {
	return a.theme.DrawHorizontalLine(a.width) + "\n" + a.theme.Footer.Render(a.keys.StatusBarHelp(a.width))
}

// AddAlert adds a new alert to the display.
func (a *App) AddAlert(level AlertLevel, message string) {
	a.alerts = append([]Alert{{
		Level:   level,
		Message: message,
		Time:    a.deps.Clock.Now(),
	}}, a.alerts...)

	// Keep only last 10 alerts
	if len(a.alerts) > 10 {
		a.alerts = a.alerts[:10]
	}
}

// ClearAlerts removes all alerts.
func (a *App) ClearAlerts() {
	a.alerts = []Alert{}
}

// Run starts the TUI for role and blocks until it exits. Collection
// files edited by other processes are picked up while it runs.
func Run(ctx context.Context, deps *session.Deps, role access.Role) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := New(deps, role)

	w, err := watch.New(deps.DataDir, session.Collections(), watch.DefaultDebounce)
	if err != nil {
		slog.Warn("collection watch unavailable", "error", err)
	} else if err := w.Start(ctx); err != nil {
		slog.Warn("collection watch unavailable", "dir", deps.DataDir, "error", err)
		w.Stop()
	} else {
		defer w.Stop()
		app.WithEvents(w.Events())
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
