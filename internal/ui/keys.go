package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the console. Printable keys go to
// the input line, so every action sits on a control or function key.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ToggleLogs key.Binding

	// Command entry
	SwitchTab key.Binding
	Add       key.Binding

	// Queue
	Up         key.Binding
	Down       key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	RemoveLast key.Binding
	Clear      key.Binding

	// Robot
	Send     key.Binding
	PollPose key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Toggle log pane"),
		),

		SwitchTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Movement/Turn tab"),
		),
		Add: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Add command"),
		),

		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "Select previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "Select next"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("alt+up", "ctrl+up"),
			key.WithHelp("alt+up", "Move command up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("alt+down", "ctrl+down"),
			key.WithHelp("alt+down", "Move command down"),
		),
		RemoveLast: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "Remove last command"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Clear all commands"),
		),

		Send: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Send commands / stop"),
		),
		PollPose: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Get robot pose"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Send, k.PollPose, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, grouped by section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchTab, k.Add},
		{k.Up, k.Down, k.MoveUp, k.MoveDown, k.RemoveLast, k.Clear},
		{k.Send, k.PollPose},
		{k.ToggleLogs, k.CycleTheme, k.Help, k.Quit},
	}
}
