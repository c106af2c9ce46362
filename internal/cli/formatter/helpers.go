package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Miles renders a distance like "12.5 mi", or a dim dash for zero.
func Miles(v float64) string {
	if v == 0 {
		return Dim("--")
	}
	return fmt.Sprintf("%.1f mi", v)
}

// Pace renders decimal minutes per mile as "8:07/mi".
func Pace(minutesPerMile *float64) string {
	if minutesPerMile == nil || *minutesPerMile <= 0 {
		return Dim("--")
	}
	total := int(*minutesPerMile*60 + 0.5)
	return fmt.Sprintf("%d:%02d/mi", total/60, total%60)
}

// ShortDate renders a calendar date as "Mon Jun 10".
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return Dim("--")
	}
	return t.Format("Mon Jan 2")
}

// Truncate shortens s to at most n visible runes, marking the cut with "…".
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RaceLabel describes the athlete's goal race.
func RaceLabel(p domain.Preferences) string {
	if p.RaceDistance == nil || *p.RaceDistance == domain.RaceNone {
		return Dim("no race")
	}
	label := string(*p.RaceDistance)
	if p.RaceDate != nil {
		label += " on " + p.RaceDate.Format(domain.DateLayout)
	}
	return label
}
