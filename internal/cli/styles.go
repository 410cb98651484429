package cli

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	TMDBTeal  = lipgloss.Color("#01B4E4")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Amber     = lipgloss.Color("#E5A00D")
	Red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(TMDBTeal)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(TMDBTeal).
			Bold(true).
			MarginBottom(1)
)

// Badge styles
var (
	FilmBadge = lipgloss.NewStyle().
			Foreground(White).
			Background(TMDBTeal).
			Padding(0, 1)

	SeriesBadge = lipgloss.NewStyle().
			Foreground(White).
			Background(lipgloss.Color("#374151")).
			Padding(0, 1)
)

// Match highlight style for liked-item suggestions
var MatchHighlightStyle = lipgloss.NewStyle().
	Foreground(TMDBTeal).
	Bold(true)

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
