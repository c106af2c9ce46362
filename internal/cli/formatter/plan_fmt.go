package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// FormatTrainingPlan renders a plan one row per week, with the first
// week's notes spelled out since they drive this week's recommendation.
func FormatTrainingPlan(tp *domain.TrainingPlan) string {
	var b strings.Builder
	title := "Training plan"
	if tp.PlanID != "" {
		title += " " + tp.PlanID[:min(8, len(tp.PlanID))]
	}
	b.WriteString(Header(title))
	b.WriteString("\n")

	rows := make([][]string, 0, len(tp.Weeks))
	var total float64
	for _, w := range tp.Weeks {
		total += w.TotalDistance
		rows = append(rows, []string{
			strconv.Itoa(w.WeekNumber),
			ShortDate(w.WeekStartDate),
			WeekTypeStyle(w.WeekType).Render(string(w.WeekType)),
			Miles(w.TotalDistance),
			Miles(w.LongRunDistance),
			strconv.Itoa(w.WeeksUntilRace),
		})
	}
	b.WriteString(RenderTable([]string{"WEEK", "STARTS", "TYPE", "VOLUME", "LONG RUN", "TO RACE"}, rows))
	fmt.Fprintf(&b, "%s %s over %d weeks\n", Dim("Block volume:"), Bold(fmt.Sprintf("%.1f mi", domain.Round2(total))), len(tp.Weeks))

	if len(tp.Weeks) > 0 && tp.Weeks[0].Notes != "" {
		b.WriteString("\n")
		b.WriteString(RenderBox("Next week", tp.Weeks[0].Notes))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRecommendation renders the weekly target a mileage recommendation
// sets.
func FormatRecommendation(rec domain.MileageRecommendation) string {
	body := fmt.Sprintf("%s %s\n%s %s", Dim("Volume:  "), Bold(Miles(rec.TotalVolume)), Dim("Long run:"), Bold(Miles(rec.LongRun)))
	if rec.Thoughts != "" {
		body += "\n\n" + rec.Thoughts
	}
	return RenderBox("Mileage recommendation", body)
}
