package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/racecoach/internal/domain"
)

const notesWidth = 60

// FormatTrainingWeek renders the elapsed days with coach notes followed by
// the sessions still planned.
func FormatTrainingWeek(week *domain.FullTrainingWeek) string {
	var b strings.Builder

	b.WriteString(Header("This week so far"))
	b.WriteString("\n")
	if len(week.PastTrainingWeek) == 0 {
		b.WriteString(Dim("Nothing logged yet this week.") + "\n")
	} else {
		var completed float64
		rows := make([][]string, 0, len(week.PastTrainingWeek))
		for _, p := range week.PastTrainingWeek {
			a := p.Activity
			completed += a.DistanceInMiles
			rows = append(rows, []string{
				string(a.DayOfWeek),
				ShortDate(a.Date),
				Miles(a.DistanceInMiles),
				Pace(a.PaceMinutesPerMile),
				Truncate(p.CoachesNotes, notesWidth),
			})
		}
		b.WriteString(RenderTable([]string{"DAY", "DATE", "DISTANCE", "PACE", "COACH'S NOTES"}, rows))
		fmt.Fprintf(&b, "%s %s\n", Dim("Completed:"), Bold(fmt.Sprintf("%.1f mi", domain.Round2(completed))))
	}

	b.WriteString("\n")
	b.WriteString(Header("Coming up"))
	b.WriteString("\n")
	sessions := week.FutureTrainingWeek.Sessions
	if len(sessions) == 0 {
		b.WriteString(Dim("No sessions left to plan this week.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range orderSessions(sessions) {
		rows = append(rows, []string{
			string(s.Day),
			SessionStyle(s.SessionType).Render(string(s.SessionType)),
			Miles(s.Distance),
			Truncate(s.Notes, notesWidth),
		})
	}
	b.WriteString(RenderTable([]string{"DAY", "SESSION", "DISTANCE", "NOTES"}, rows))
	fmt.Fprintf(&b, "%s %s\n", Dim("Planned:"), Bold(fmt.Sprintf("%.1f mi", domain.Round2(week.FutureTrainingWeek.TotalMileage()))))
	return b.String()
}

// orderSessions sorts sessions Monday first without reordering same-day
// sessions.
func orderSessions(sessions []domain.TrainingSession) []domain.TrainingSession {
	out := make([]domain.TrainingSession, 0, len(sessions))
	for _, d := range domain.WeekDays {
		for _, s := range sessions {
			if s.Day == d {
				out = append(out, s)
			}
		}
	}
	return out
}
