// Package trainingweek builds the current week's plan: coach notes for the
// days already run and generated sessions for the days still ahead.
package trainingweek

import (
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// RemainingDays lists the days still to plan as of dt. On Sunday a new week
// plans all seven days and a mid-week refresh plans none.
func RemainingDays(dt time.Time, exe domain.ExeType) []domain.Day {
	if domain.IsSunday(dt) {
		if exe == domain.NewWeek {
			return append([]domain.Day(nil), domain.WeekDays...)
		}
		return []domain.Day{}
	}
	return append([]domain.Day(nil), domain.WeekDays[domain.MondayIndex(dt)+1:]...)
}

// PastWeek returns the daily records of the current week that have already
// elapsed: the last 7-len(rest) entries of daily.
func PastWeek(daily []domain.DailyActivity, rest []domain.Day) []domain.DailyActivity {
	if len(rest) >= 7 {
		return []domain.DailyActivity{}
	}
	n := 7 - len(rest)
	if n > len(daily) {
		n = len(daily)
	}
	return daily[len(daily)-n:]
}

// PastSevenDays returns the records strictly between day-7 and day.
func PastSevenDays(daily []domain.DailyActivity, day domain.DailyActivity) []domain.DailyActivity {
	from := day.Date.AddDate(0, 0, -7)
	var out []domain.DailyActivity
	for _, d := range daily {
		if d.Date.After(from) && d.Date.Before(day.Date) {
			out = append(out, d)
		}
	}
	return out
}

// LastNDays returns at most the final n records of daily.
func LastNDays(daily []domain.DailyActivity, n int) []domain.DailyActivity {
	if len(daily) <= n {
		return daily
	}
	return daily[len(daily)-n:]
}

// Mileage is this week's progress against the recommended volume.
type Mileage struct {
	Completed float64
	Remaining float64
}

// WeekMileage sums the elapsed days and subtracts them from the target.
func WeekMileage(past []domain.EnrichedActivity, rec domain.MileageRecommendation) Mileage {
	var completed float64
	for _, p := range past {
		completed += p.Activity.DistanceInMiles
	}
	completed = domain.Round2(completed)
	return Mileage{
		Completed: completed,
		Remaining: domain.Round2(rec.TotalVolume - completed),
	}
}
