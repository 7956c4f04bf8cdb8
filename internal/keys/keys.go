// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// PlaygroundKeys defines the keybindings for the playground.
type PlaygroundKeys struct {
	// Demo list
	Up   key.Binding
	Down key.Binding

	// Rendered buttons
	NextButton key.Binding
	PrevButton key.Binding
	Click      key.Binding

	// Tracked state
	ToggleName key.Binding
	Rerender   key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// Playground holds the playground bindings.
var Playground = PlaygroundKeys{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "previous demo"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next demo"),
	),
	NextButton: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next button"),
	),
	PrevButton: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous button"),
	),
	Click: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "click button"),
	),
	ToggleName: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "toggle state"),
	),
	Rerender: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset demo"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns keybindings for the footer.
func (k PlaygroundKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.ToggleName, k.Help, k.Quit}
}

// FullHelp returns keybindings grouped for the help overlay.
func (k PlaygroundKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},                        // Demos
		{k.NextButton, k.PrevButton, k.Click}, // Buttons
		{k.ToggleName, k.Rerender},            // State
		{k.Help, k.Quit},                      // General
	}
}
