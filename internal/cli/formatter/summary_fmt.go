package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// FormatWeekSummaries renders weekly volume with a bar scaled to the
// biggest week in the window.
func FormatWeekSummaries(summaries []domain.WeekSummary) string {
	if len(summaries) == 0 {
		return Dim("No completed weeks in range.") + "\n"
	}

	var peak float64
	for _, s := range summaries {
		peak = max(peak, s.TotalDistance)
	}

	const barWidth = 24
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		n := 0
		if peak > 0 {
			n = int(s.TotalDistance / peak * barWidth)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d-W%02d", s.Year, s.WeekOfYear),
			ShortDate(s.WeekStartDate),
			Miles(s.TotalDistance),
			Miles(s.LongestRun),
			StyleBlue.Render(strings.Repeat("█", n)),
		})
	}
	return RenderTable([]string{"WEEK", "STARTS", "TOTAL", "LONGEST", ""}, rows)
}
