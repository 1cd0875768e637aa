// Package themes holds the dashboard color themes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme names.
const (
	NameDark  = "dark"
	NameLight = "light"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Normal         lipgloss.Style
	Bold           lipgloss.Style
	Faint          lipgloss.Style
	TabActive      lipgloss.Style
	TabInactive    lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Panel          lipgloss.Style
	PanelTitle     lipgloss.Style
	StatusSuccess  lipgloss.Style
	StatusWarning  lipgloss.Style
	StatusError    lipgloss.Style
	StatusInfo     lipgloss.Style
	StatusPending  lipgloss.Style
	Trace          lipgloss.Style
	Axis           lipgloss.Style
	Name           string
	Primary        lipgloss.Color
	Secondary      lipgloss.Color
	Muted          lipgloss.Color
	Border         lipgloss.Color
	Foreground     lipgloss.Color
	Background     lipgloss.Color
	Info           lipgloss.Color
	Error          lipgloss.Color
	Warning        lipgloss.Color
	Success        lipgloss.Color
}

type palette struct {
	name       string
	primary    lipgloss.Color
	secondary  lipgloss.Color
	success    lipgloss.Color
	warning    lipgloss.Color
	errorColor lipgloss.Color
	info       lipgloss.Color
	background lipgloss.Color
	foreground lipgloss.Color
	border     lipgloss.Color
	muted      lipgloss.Color
	subtle     lipgloss.Color
}

func build(p palette) Theme {
	return Theme{
		Name:       p.name,
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.errorColor,
		Info:       p.info,
		Background: p.background,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Faint: lipgloss.NewStyle().
			Foreground(p.muted),

		// Controls
		TabActive: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.background).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.subtle).
			Padding(0, 2),
		Button: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Foreground(p.foreground).
			Padding(0, 1),
		ButtonDisabled: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Foreground(p.muted).
			Padding(0, 1),

		// Panels
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.secondary),

		// Status styles
		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),

		// Plot
		Trace: lipgloss.NewStyle().
			Foreground(p.success),
		Axis: lipgloss.NewStyle().
			Foreground(p.muted),
	}
}

// Dark is the default theme.
var Dark = build(palette{
	name:       NameDark,
	primary:    lipgloss.Color("#7c3aed"),
	secondary:  lipgloss.Color("#a78bfa"),
	success:    lipgloss.Color("#10b981"),
	warning:    lipgloss.Color("#f59e0b"),
	errorColor: lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	background: lipgloss.Color("#1a1a1a"),
	foreground: lipgloss.Color("#fafafa"),
	border:     lipgloss.Color("#404040"),
	muted:      lipgloss.Color("#737373"),
	subtle:     lipgloss.Color("#a3a3a3"),
})

// Light suits terminals with a light background.
var Light = build(palette{
	name:       NameLight,
	primary:    lipgloss.Color("#6d28d9"),
	secondary:  lipgloss.Color("#7c3aed"),
	success:    lipgloss.Color("#047857"),
	warning:    lipgloss.Color("#b45309"),
	errorColor: lipgloss.Color("#b91c1c"),
	info:       lipgloss.Color("#1d4ed8"),
	background: lipgloss.Color("#fafafa"),
	foreground: lipgloss.Color("#171717"),
	border:     lipgloss.Color("#d4d4d4"),
	muted:      lipgloss.Color("#a3a3a3"),
	subtle:     lipgloss.Color("#525252"),
})

// GetTheme returns a theme by name. Unknown names get Dark.
func GetTheme(name string) Theme {
	if name == NameLight {
		return Light
	}
	return Dark
}

// Toggle returns the other theme.
func Toggle(t Theme) Theme {
	if t.Name == NameLight {
		return Dark
	}
	return Light
}
