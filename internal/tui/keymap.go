package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Operations
	Generate key.Binding
	Train    key.Binding
	Risk     key.Binding
	Chart    key.Binding

	// Channel
	ToggleChannel key.Binding
	Normal        key.Binding
	Abnormal      key.Binding

	// Abnormality level
	LevelDown       key.Binding
	LevelUp         key.Binding
	LevelDownCoarse key.Binding
	LevelUpCoarse   key.Binding

	// Application
	SaveChart   key.Binding
	Dismiss     key.Binding
	ToggleTheme key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate ECG"),
		),
		Train: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "train model"),
		),
		Risk: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "heart failure risk"),
		),
		Chart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "fetch chart"),
		),

		ToggleChannel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "switch signal"),
		),
		Normal: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "normal signal"),
		),
		Abnormal: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "abnormal signal"),
		),

		LevelDown: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "level down"),
		),
		LevelUp: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "level up"),
		),
		LevelDownCoarse: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("⇧←/H", "level -10%"),
		),
		LevelUpCoarse: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("⇧→/L", "level +10%"),
		),

		SaveChart: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save chart"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "dismiss error"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "light/dark"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Train, k.Risk, k.Chart, k.ToggleChannel, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Train, k.Risk, k.Chart},
		{k.ToggleChannel, k.Normal, k.Abnormal},
		{k.LevelDown, k.LevelUp, k.LevelDownCoarse, k.LevelUpCoarse},
		{k.SaveChart, k.Dismiss, k.ToggleTheme, k.Help, k.Quit},
	}
}
