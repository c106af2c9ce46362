// Package plan computes race-relative week ranges and drives two-phase
// training plan generation.
package plan

import (
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// DefaultHorizonDays bounds generation when the athlete has no race date.
const DefaultHorizonDays = 84

// WeekRanges returns contiguous Monday-start weeks from the first Monday on
// or after now through raceDate. The final range ends on raceDate. A nil
// raceDate is replaced by a horizon 12 weeks after the first Monday.
func WeekRanges(now time.Time, raceDate *time.Time) []domain.WeekRange {
	today := domain.DateOf(now)
	daysUntilMonday := (7 - domain.MondayIndex(today)) % 7
	start := today.AddDate(0, 0, daysUntilMonday)

	race := start.AddDate(0, 0, DefaultHorizonDays)
	if raceDate != nil {
		race = domain.DateOf(*raceDate)
	}

	var ranges []domain.WeekRange
	weekNumber := 1
	for current := start; !current.After(race); current = current.AddDate(0, 0, 7) {
		end := current.AddDate(0, 0, 6)
		if end.After(race) {
			end = race
		}
		ranges = append(ranges, domain.WeekRange{
			StartDate:      current,
			EndDate:        end,
			WeekNumber:     weekNumber,
			WeeksUntilRace: domain.DaysBetween(current, race) / 7,
		})
		weekNumber++
	}
	return ranges
}
