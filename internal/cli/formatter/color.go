package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SessionStyle colors a session by how hard it is.
func SessionStyle(t domain.SessionType) lipgloss.Style {
	switch t {
	case domain.SessionLong:
		return StylePurple
	case domain.SessionSpeed:
		return StyleRed
	case domain.SessionEasy, domain.SessionModerate:
		return StyleGreen
	case domain.SessionRest:
		return StyleDim
	default:
		return StyleFg
	}
}

// WeekTypeStyle colors a plan week by its phase.
func WeekTypeStyle(t domain.WeekType) lipgloss.Style {
	switch t {
	case domain.WeekBuild:
		return StyleBlue
	case domain.WeekPeak:
		return StyleRed
	case domain.WeekTaper:
		return StyleYellow
	case domain.WeekMaintenance:
		return StyleGreen
	case domain.WeekRace:
		return StylePurple
	default:
		return StyleFg
	}
}

// ResultPill renders a batch outcome as "● OK" or "✖ FAILED".
func ResultPill(success bool) string {
	if success {
		return StyleGreen.Render("● OK")
	}
	return StyleRed.Render("✖ FAILED")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
