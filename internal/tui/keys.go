package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New              key.Binding
	ToggleStarted    key.Binding
	ToggleInProgress key.Binding
	ToggleCompleted  key.Binding
	Delete           key.Binding
	Filter           key.Binding
	Export           key.Binding
	Tab1             key.Binding
	Tab2             key.Binding
	Tab3             key.Binding
	Tab              key.Binding
	Help             key.Binding
	Enter            key.Binding
	Back             key.Binding
	Up               key.Binding
	Down             key.Binding
	Quit             key.Binding
}

var keys = keyMap{
	New: key.NewBinding(
		key.WithKeys("n", "a"),
		key.WithHelp("n", "new task"),
	),
	ToggleStarted: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "started"),
	),
	ToggleInProgress: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "in progress"),
	),
	ToggleCompleted: key.NewBinding(
		key.WithKeys("c", " "),
		key.WithHelp("c/space", "completed"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "tasks"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "summary"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.ToggleCompleted, k.Delete, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Delete, k.Filter},
		{k.ToggleStarted, k.ToggleInProgress, k.ToggleCompleted},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab, k.Export},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
