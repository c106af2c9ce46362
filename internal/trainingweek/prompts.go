package trainingweek

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/racecoach/internal/domain"
)

const pseudoWeekSchemaPrompt = `Your JSON response must be an object with exactly one field:
- days: array with one entry per remaining day, each with:
  - day: one of mon, tues, wed, thurs, fri, sat, sun
  - session_type: one of "easy run", "long run", "speed workout", "rest day", "moderate run"
  - distance: number of miles for the session, 0 for a rest day`

const trainingWeekSchemaPrompt = `Your JSON response must be an object with exactly one field:
- sessions: array with one entry per planned day, each with:
  - day: one of mon, tues, wed, thurs, fri, sat, sun
  - session_type: one of "easy run", "long run", "speed workout", "rest day", "moderate run"
  - distance: number of miles for the session, 0 for a rest day
  - notes: one or two sentences on pace, effort or purpose for the session

Adhere to the weekly mileage target. Do the math step by step before settling on distances.`

// PseudoWeekPrompt is the typed input of the rough day-by-day draft.
type PseudoWeekPrompt struct {
	Preferences    domain.Preferences
	RecentDays     []domain.DailyActivity
	Mileage        Mileage
	Recommendation domain.MileageRecommendation
	RestOfWeek     []domain.Day
}

func (p PseudoWeekPrompt) Build() (string, error) {
	if len(p.RestOfWeek) == 0 {
		return "", errors.New("pseudo week prompt: no remaining days to plan")
	}

	var b strings.Builder
	b.WriteString(domain.CoachRole)
	b.WriteString("\n\nYour athlete has provided the following preferences:\n")
	b.WriteString(p.Preferences.String())
	fmt.Fprintf(&b, "\n\nHere is the athlete's activity for the past %d days:\n", len(p.RecentDays))
	writeDays(&b, p.RecentDays)
	fmt.Fprintf(&b, "\nThe athlete has completed %g miles this week and has %g miles remaining "+
		"(if we are halfway through the week and this goal is no longer realistic, "+
		"that is fine just ensure the athlete finishes out the week safely)\n\n",
		p.Mileage.Completed, p.Mileage.Remaining)
	b.WriteString("Additionally, here are some notes you have written on recommendations for the week in question:\n")
	writeRecommendation(&b, p.Recommendation)
	fmt.Fprintf(&b, "\nLet's generate a pseudo-training week for the next %d days:\n%s",
		len(p.RestOfWeek), joinDays(p.RestOfWeek))
	return b.String(), nil
}

// TrainingWeekPrompt is the typed input of the final session plan.
type TrainingWeekPrompt struct {
	Preferences    domain.Preferences
	Pseudo         domain.PseudoTrainingWeek
	Recommendation domain.MileageRecommendation
}

func (p TrainingWeekPrompt) Build() (string, error) {
	if len(p.Pseudo.Days) == 0 {
		return "", errors.New("training week prompt: pseudo week is empty")
	}

	var b strings.Builder
	b.WriteString(domain.CoachRole)
	b.WriteString("\n\nYour athlete has provided the following preferences:\n")
	b.WriteString(p.Preferences.String())
	b.WriteString("\n\nHere is the pseudo-training week you created for your athlete:\n")
	for _, d := range p.Pseudo.Days {
		fmt.Fprintf(&b, "- %s: %s, %g miles\n", d.Day, d.SessionType, d.Distance)
	}
	b.WriteString("\nHere are some notes you have written on recommendations for the week in question:\n")
	writeRecommendation(&b, p.Recommendation)
	fmt.Fprintf(&b, "\nPlease create a proper training week for the next %d days based on the information provided.",
		len(p.Pseudo.Days))
	return b.String(), nil
}

// CoachNotesPrompt is the typed input of one day's commentary.
type CoachNotesPrompt struct {
	Preferences domain.Preferences
	PastDays    []domain.DailyActivity
	Day         domain.Day
	Today       []domain.DetailedActivity
}

func (p CoachNotesPrompt) Build() (string, error) {
	if !p.Day.Valid() {
		return "", fmt.Errorf("coach notes prompt: invalid day %q", p.Day)
	}
	if len(p.Today) == 0 {
		return "", errors.New("coach notes prompt: at least one activity is required")
	}

	var b strings.Builder
	b.WriteString(domain.CoachRole)
	b.WriteString("\n\nYour athlete has provided the following preferences:\n")
	b.WriteString(p.Preferences.String())
	b.WriteString("\n\nTheir past 7 days of activity:\n")
	writeDays(&b, p.PastDays)
	fmt.Fprintf(&b, "\nToday's activities (%s):\n", p.Day)
	for _, a := range p.Today {
		writeDetail(&b, a)
	}
	b.WriteString(`
Write concise, actionable feedback (2-3 sentences) about today's activity, framed in the context of their recent performance and goals. Prioritize insights that are:
- Non-obvious or data-driven, offering unique perspectives or patterns from their activities.
- Encouraging or challenging, balancing motivation with constructive critique.

Assume their goals based on the data if not explicitly stated, and focus on what's most impactful for their progress. Avoid AI-like phrasing or generic statements. Write as a professional coach speaking directly to the athlete.

Notes:
- Do not use the client's name
- For rest days, keep the feedback extremely brief (1 sentence max)`)
	return b.String(), nil
}

func writeDays(b *strings.Builder, days []domain.DailyActivity) {
	if len(days) == 0 {
		b.WriteString("(no activity)\n")
		return
	}
	for _, d := range days {
		fmt.Fprintf(b, "- %s (%s): %g miles, %g min, %g ft elevation",
			d.Date.Format(domain.DateLayout), d.DayOfWeek, d.DistanceInMiles, d.MovingTimeInMinutes, d.ElevationGainInFeet)
		if d.PaceMinutesPerMile != nil {
			fmt.Fprintf(b, ", pace %g min/mile", *d.PaceMinutesPerMile)
		}
		b.WriteByte('\n')
	}
}

func writeDetail(b *strings.Builder, a domain.DetailedActivity) {
	if a.DistanceInMiles == 0 {
		b.WriteString("- rest day, no activity recorded\n")
		return
	}
	fmt.Fprintf(b, "- %g miles at %dm %ds per mile", a.DistanceInMiles, a.AverageSpeedPerMile.Min, a.AverageSpeedPerMile.Sec)
	if a.ElevationGainInFeet != nil {
		fmt.Fprintf(b, ", %g ft elevation", *a.ElevationGainInFeet)
	}
	if a.AverageHeartrate != nil {
		fmt.Fprintf(b, ", avg HR %g", *a.AverageHeartrate)
	}
	b.WriteByte('\n')
	for i, s := range a.Splits {
		fmt.Fprintf(b, "  split %d: %g miles at %dm %ds", i+1, s.DistanceInMiles, s.AverageSpeedPerMile.Min, s.AverageSpeedPerMile.Sec)
		if s.AverageHeartrate != nil {
			fmt.Fprintf(b, ", HR %g", *s.AverageHeartrate)
		}
		b.WriteByte('\n')
	}
}

func writeRecommendation(b *strings.Builder, rec domain.MileageRecommendation) {
	fmt.Fprintf(b, "total volume: %g miles\nlong run: %g miles\nthoughts: %s\n", rec.TotalVolume, rec.LongRun, rec.Thoughts)
}

func joinDays(days []domain.Day) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}
