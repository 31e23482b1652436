package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Italic        lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	Tag           lipgloss.Style
	ActiveTag     lipgloss.Style
	ActiveTab     lipgloss.Style
	InactiveTab   lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
}

// palette is the handful of colors a theme is derived from.
type palette struct {
	primary, accent, text, subtle, muted, border, surface lipgloss.Color
	info, success, failure                              lipgloss.Color
	onPrimary                                           lipgloss.Color
}

func newTheme(p palette) Theme {
	text := lipgloss.NewStyle().Foreground(p.text)
	status := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	tag := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1)

	return Theme{
		Title:       text.Bold(true).MarginBottom(1),
		Subtitle:    lipgloss.NewStyle().Foreground(p.subtle).MarginBottom(1),
		Normal:      text,
		Bold:        text.Bold(true),
		Italic:      text.Italic(true),
		Selected:    lipgloss.NewStyle().Background(p.primary).Foreground(p.onPrimary).Bold(true),
		RoundedBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(1, 2),
		Tag:         tag.Foreground(p.accent),
		ActiveTag:   tag.Foreground(p.text).Background(p.surface).BorderForeground(p.primary),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(p.onPrimary).Background(p.primary).Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(p.muted).Padding(0, 2),

		StatusPending: lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		StatusInfo:    status(p.info),
		StatusError:   status(p.failure),
		StatusSuccess: status(p.success),

		Primary: p.primary,
		Muted:   p.muted,
		Border:  p.border,
		Error:   p.failure,
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:   lipgloss.Color("#7c3aed"),
	accent:    lipgloss.Color("#a78bfa"),
	text:      lipgloss.Color("#fafafa"),
	subtle:    lipgloss.Color("#a3a3a3"),
	muted:     lipgloss.Color("#737373"),
	border:    lipgloss.Color("#404040"),
	surface:   lipgloss.Color("#262626"),
	info:      lipgloss.Color("#3b82f6"),
	success:   lipgloss.Color("#10b981"),
	failure:   lipgloss.Color("#ef4444"),
	onPrimary: lipgloss.Color("#fafafa"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:   lipgloss.Color("#cba6f7"),
	accent:    lipgloss.Color("#f5c2e7"),
	text:      lipgloss.Color("#cdd6f4"),
	subtle:    lipgloss.Color("#a6adc8"),
	muted:     lipgloss.Color("#6c7086"),
	border:    lipgloss.Color("#45475a"),
	surface:   lipgloss.Color("#313244"),
	info:      lipgloss.Color("#89dceb"),
	success:   lipgloss.Color("#a6e3a1"),
	failure:   lipgloss.Color("#f38ba8"),
	onPrimary: lipgloss.Color("#1e1e2e"),
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

// CategoryIcons maps news categories to icons.
var CategoryIcons = map[string]string{
	"sports":        "⚽",
	"health":        "🩺",
	"finance":       "💹",
	"news":          "📰",
	"entertainment": "🎬",
	"technology":    "💻",
	"science":       "🔬",
	"politics":      "🏛",
	"travel":        "✈",
	"lifestyle":     "🌿",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category string) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📰"
}
