package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors the styles are built from.
type Palette struct {
	Accent lipgloss.TerminalColor
	Good   lipgloss.TerminalColor
	Warn   lipgloss.TerminalColor
	Alert  lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
	Text   lipgloss.TerminalColor
	Subtle lipgloss.TerminalColor
	Border lipgloss.TerminalColor
}

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// DefaultPalette is the colored palette.
var DefaultPalette = Palette{
	Accent: ColorBlue,
	Good:   ColorGreen,
	Warn:   ColorYellow,
	Alert:  ColorRed,
	Muted:  ColorGray,
	Text:   ColorWhite,
	Subtle: ColorSubtle,
	Border: ColorBorder,
}

// MonoPalette uses the terminal's own colors only.
var MonoPalette = Palette{
	Accent: lipgloss.NoColor{},
	Good:   lipgloss.NoColor{},
	Warn:   lipgloss.NoColor{},
	Alert:  lipgloss.NoColor{},
	Muted:  lipgloss.NoColor{},
	Text:   lipgloss.NoColor{},
	Subtle: lipgloss.NoColor{},
	Border: lipgloss.NoColor{},
}

// Names lists the themes Use accepts.
var Names = []string{"default", "mono"}

var (
	// HeaderStyle is used for the top bar and the application title.
	HeaderStyle lipgloss.Style

	// StatusBarStyle is used for the bottom status bar.
	StatusBarStyle lipgloss.Style

	// CardStyle frames a stop card.
	CardStyle lipgloss.Style

	// CardTitleStyle is the stop name on a card.
	CardTitleStyle lipgloss.Style

	// ListItemStyle is the base style for items in a list.
	ListItemStyle lipgloss.Style

	// SelectedItemStyle highlights the currently focused list item.
	SelectedItemStyle lipgloss.Style

	// HelpStyle is used for keyboard shortcut hints and help text.
	HelpStyle lipgloss.Style

	// BorderStyle provides a standard rounded border for panels.
	BorderStyle lipgloss.Style

	// BellStyle marks departures with a reminder.
	BellStyle lipgloss.Style

	// ToastStyle is used for transient messages.
	ToastStyle lipgloss.Style

	// ErrorStyle is used for failure toasts.
	ErrorStyle lipgloss.Style

	// MutedStyle is used for secondary text.
	MutedStyle lipgloss.Style

	current = DefaultPalette
)

func init() {
	build(DefaultPalette)
}

// Use switches to the named theme. Unknown names select the default.
func Use(name string) {
	switch name {
	case "mono":
		build(MonoPalette)
	default:
		build(DefaultPalette)
	}
}

func build(p Palette) {
	current = p

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Accent).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Subtle).
		Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
		Padding(0, 2).
		Width(30).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	CardTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	ListItemStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(p.Accent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Accent)

	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	BellStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Warn)

	ToastStyle = lipgloss.NewStyle().
		Foreground(p.Good).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Alert).
		Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
}

// CountdownStyle returns a color-coded style for a countdown label.
func CountdownStyle(label string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch label {
	case "departing now":
		return base.Foreground(current.Alert)
	case "not yet active":
		return base.Foreground(current.Muted).Bold(false)
	case "service ended":
		return base.Foreground(current.Muted)
	default:
		return base.Foreground(current.Good)
	}
}
