package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/service"
)

// FormatBatchResult summarizes an update-all run. Failures show only the
// first line of their error; the full trace goes to the alert email.
func FormatBatchResult(batch service.BatchResult) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s update for %s", batch.Exe, batch.Date.Format(domain.DateLayout))))
	b.WriteString("\n")

	if len(batch.Results) == 0 {
		b.WriteString(Dim("No athletes were due for an update.") + "\n")
	} else {
		rows := make([][]string, 0, len(batch.Results))
		for _, r := range batch.Results {
			rows = append(rows, []string{
				strconv.FormatInt(r.AthleteID, 10),
				ResultPill(r.Success),
				Truncate(firstLine(r.Error), 80),
			})
		}
		b.WriteString(RenderTable([]string{"ATHLETE", "RESULT", "ERROR"}, rows))
	}

	failed := batch.Failed()
	summary := fmt.Sprintf("%d updated, %d failed, %d skipped", len(batch.Results)-failed, failed, len(batch.Skipped))
	if failed > 0 {
		summary = StyleRed.Render(summary)
	} else {
		summary = StyleGreen.Render(summary)
	}
	b.WriteString(summary + "\n")
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
