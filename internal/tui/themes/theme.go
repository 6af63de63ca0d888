// Package themes defines the color schemes of the terminal UI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Faint         lipgloss.Style
	Header        lipgloss.Style
	Cell          lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	Tooltip       lipgloss.Style
	Button        lipgloss.Style
	BorderedBox   lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	ModeActive    lipgloss.Style
	ModeInactive  lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    "#7c3aed",
	secondary:  "#a78bfa",
	success:    "#10b981",
	warning:    "#f59e0b",
	errorColor: "#ef4444",
	info:       "#3b82f6",
	background: "#1a1a1a",
	foreground: "#fafafa",
	subtle:     "#a3a3a3",
	border:     "#404040",
	muted:      "#737373",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    "#cba6f7",
	secondary:  "#f5c2e7",
	success:    "#a6e3a1",
	warning:    "#f9e2af",
	errorColor: "#f38ba8",
	info:       "#89dceb",
	background: "#1e1e2e",
	foreground: "#cdd6f4",
	subtle:     "#a6adc8",
	border:     "#45475a",
	muted:      "#6c7086",
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

type palette struct {
	primary, secondary, success, warning, errorColor, info lipgloss.Color
	background, foreground, subtle, border, muted          lipgloss.Color
}

func newTheme(p palette) Theme {
	return Theme{
		Primary: p.primary,
		Muted:   p.muted,
		Border:  p.border,
		Error:   p.errorColor,
		Success: p.success,

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Faint: lipgloss.NewStyle().
			Foreground(p.muted),

		// Result table
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.secondary).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Foreground(p.foreground).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(p.border).
			Foreground(p.foreground).
			Padding(0, 1),
		Highlighted: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.warning).
			Padding(0, 1),
		Tooltip: lipgloss.NewStyle().
			Italic(true).
			Foreground(p.info),

		// Component styles
		Button: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.background).
			Bold(true).
			Padding(0, 2),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),

		// Status styles
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),

		// Mode switch
		ModeActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Underline(true),
		ModeInactive: lipgloss.NewStyle().
			Foreground(p.muted),
	}
}
