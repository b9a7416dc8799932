package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/smartcarbon/internal/engine"
)

// Palette.
const (
	ColorOK        = lipgloss.Color("#90EE90") // lightgreen
	ColorWarning   = lipgloss.Color("#FFFF00") // yellow
	ColorCritical  = lipgloss.Color("#FF0000") // red
	ColorMuted     = lipgloss.Color("241")
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("250")
	ColorValue     = lipgloss.Color("255")
	ColorHighlight = lipgloss.Color("212")
	ColorBorder    = lipgloss.Color("63")
	ColorSpinner   = lipgloss.Color("205")
)

// Icons.
const (
	IconCursor  = "→"
	IconEditing = ">"
	IconCaret   = "▌"
	IconLeft    = "◀"
	IconRight   = "▶"
)

//nolint:gochecknoglobals // Shared render styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	TitleStyle  = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
	LabelStyle     = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle     = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	HighlightStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	ErrorStyle     = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)
	BoxStyle       = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// LevelColor maps a classification to its display color.
func LevelColor(l engine.Level) lipgloss.Color {
	switch l {
	case engine.LevelSafe:
		return ColorOK
	case engine.LevelAverage:
		return ColorWarning
	default:
		return ColorCritical
	}
}

// LevelStyle returns a bold style in the level's color.
func LevelStyle(l engine.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LevelColor(l)).Bold(true)
}
