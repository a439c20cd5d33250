package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-whack/internal/core"
)

// KeyMap defines the game key bindings.
// This centralizes key bindings and makes them testable.
type KeyMap struct {
	Toggle    key.Binding
	Reset     key.Binding
	Tap       key.Binding
	ClearBest key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Tap, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Tap, k.Reset},
		{k.ClearBest, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start/stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Tap: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9/click", "tap"),
		),
		ClearBest: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear best"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "no"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Map translates a key message to a game input. While a confirmation prompt
// is open only the prompt answers and quit are recognized.
func (k KeyMap) Map(msg tea.KeyMsg, prompting bool) core.Input {
	if key.Matches(msg, k.Quit) {
		return core.Input{Action: core.ActionQuit}
	}

	if prompting {
		switch {
		case key.Matches(msg, k.Confirm):
			return core.Input{Action: core.ActionConfirm}
		case key.Matches(msg, k.Cancel):
			return core.Input{Action: core.ActionCancel}
		}
		return core.Input{}
	}

	switch {
	case key.Matches(msg, k.Toggle):
		return core.Input{Action: core.ActionToggle}
	case key.Matches(msg, k.Reset):
		return core.Input{Action: core.ActionReset}
	case key.Matches(msg, k.Tap):
		// Digits are 1-based on the keyboard
		return core.Tap(int(msg.String()[0] - '1'))
	case key.Matches(msg, k.ClearBest):
		return core.Input{Action: core.ActionClearBest}
	case key.Matches(msg, k.Help):
		return core.Input{Action: core.ActionHelp}
	}

	return core.Input{}
}
