package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	// Navigation
	Up       Key
	Down     Key
	PageUp   Key
	PageDown Key
	Home     Key
	End      Key

	// Actions
	Back Key
	Quit Key
	Help Key

	// Record actions
	Add    Key
	Remove Key
	Update Key
	Send   Key
	Reload Key

	// Function keys for module navigation
	F1  Key
	F2  Key
	F3  Key
	F4  Key
	F5  Key
	F6  Key
	F7  Key
	F10 Key
}

// Key represents a key binding.
type Key struct {
	Keys    []string
	Help    string
	Enabled bool
}

func bind(help string, keys ...string) Key {
	return Key{Keys: keys, Help: help, Enabled: true}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       bind("up", "up", "k"),
		Down:     bind("down", "down", "j"),
		PageUp:   bind("page up", "pgup", "ctrl+u"),
		PageDown: bind("page down", "pgdown", "ctrl+d"),
		Home:     bind("home", "home", "g"),
		End:      bind("end", "end", "G"),

		Back: bind("back", "esc", "backspace"),
		Quit: bind("quit", "q", "ctrl+c"),
		Help: bind("help", "?"),

		Add:    bind("add", "a"),
		Remove: bind("delete", "d"),
		Update: bind("update stock", "u"),
		Send:   bind("send alerts", "s"),
		Reload: bind("reload", "r", "ctrl+r"),

		F1:  bind("Help", "f1"),
		F2:  bind("Dashboard", "f2"),
		F3:  bind("Menu", "f3"),
		F4:  bind("Inventory", "f4"),
		F5:  bind("Waste", "f5"),
		F6:  bind("Staff", "f6"),
		F7:  bind("Reports", "f7"),
		F10: bind("Quit", "f10"),
	}
}

// Matches checks if a key message matches this key binding.
func (k Key) Matches(msg tea.KeyMsg) bool {
	if !k.Enabled {
		return false
	}

	keyStr := msg.String()
	for _, key := range k.Keys {
		if keyStr == key {
			return true
		}
	}
	return false
}

// MatchesAny checks if a key message matches any of the provided key bindings.
func MatchesAny(msg tea.KeyMsg, keys ...Key) bool {
	for _, k := range keys {
		if k.Matches(msg) {
			return true
		}
	}
	return false
}

// IsQuit checks if the key message is a quit command.
func (km KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return km.Quit.Matches(msg) || km.F10.Matches(msg)
}

// IsFunctionKey checks if the key message is a function key.
func (km KeyMap) IsFunctionKey(msg tea.KeyMsg) bool {
	return MatchesAny(msg, km.F1, km.F2, km.F3, km.F4, km.F5,
		km.F6, km.F7, km.F10)
}

// FunctionKeyModule returns the module a function key selects, or ""
// for any other key. F10 returns ModuleQuit.
func (km KeyMap) FunctionKeyModule(msg tea.KeyMsg) Module {
	switch {
	case km.F1.Matches(msg):
		return ModuleHelp
	case km.F2.Matches(msg):
		return ModuleDashboard
	case km.F3.Matches(msg):
		return ModuleMenu
	case km.F4.Matches(msg):
		return ModuleInventory
	case km.F5.Matches(msg):
		return ModuleWaste
	case km.F6.Matches(msg):
		return ModuleStaff
	case km.F7.Matches(msg):
		return ModuleReports
	case km.F10.Matches(msg):
		return ModuleQuit
	default:
		return ""
	}
}

// StatusBarHelp returns the help text for the status bar. Narrow
// terminals get the short form.
func (km KeyMap) StatusBarHelp(width int) string {
	if width > 0 && ClassifyWidth(width) != Wide {
		return "F1 Help F2 Dash F3 Menu F4 Inv F5 Waste F6 Staff F7 Rpt F10 Quit"
	}
	return "[F1]Help [F2]Dashboard [F3]Menu [F4]Inventory [F5]Waste [F6]Staff [F7]Reports [F10]Quit"
}
