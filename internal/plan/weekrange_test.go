package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/racecoach/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekRanges_RaceNineteenDaysAfterFirstMonday(t *testing.T) {
	now := time.Date(2024, 6, 12, 19, 30, 0, 0, time.UTC) // Wednesday
	race := date(2024, 7, 6)                               // first Monday 2024-06-17 + 19 days

	ranges := WeekRanges(now, &race)

	require.Len(t, ranges, 3)
	assert.Equal(t, date(2024, 6, 17), ranges[0].StartDate)
	assert.Equal(t, []int{2, 1, 0}, []int{ranges[0].WeeksUntilRace, ranges[1].WeeksUntilRace, ranges[2].WeeksUntilRace})
	assert.Equal(t, []int{1, 2, 3}, []int{ranges[0].WeekNumber, ranges[1].WeekNumber, ranges[2].WeekNumber})
	assert.Equal(t, race, ranges[2].EndDate)
}

func TestWeekRanges_ContiguousAndEndOnRace(t *testing.T) {
	now := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	for _, offset := range []int{0, 1, 6, 7, 13, 50, 111} {
		race := date(2024, 1, 8).AddDate(0, 0, offset)
		ranges := WeekRanges(now, &race)

		require.NotEmpty(t, ranges, "offset %d", offset)
		for i := 0; i+1 < len(ranges); i++ {
			assert.Equal(t, ranges[i].EndDate.AddDate(0, 0, 1), ranges[i+1].StartDate, "offset %d range %d", offset, i)
			assert.Equal(t, domain.Mon, domain.DayOf(ranges[i+1].StartDate))
		}
		assert.Equal(t, race, ranges[len(ranges)-1].EndDate, "offset %d", offset)
	}
}

func TestWeekRanges_MondayStartsToday(t *testing.T) {
	now := time.Date(2024, 6, 17, 21, 0, 0, 0, time.UTC) // Monday
	race := date(2024, 6, 30)

	ranges := WeekRanges(now, &race)

	require.Len(t, ranges, 2)
	assert.Equal(t, date(2024, 6, 17), ranges[0].StartDate)
	assert.Equal(t, date(2024, 6, 23), ranges[0].EndDate)
}

func TestWeekRanges_NoRaceUsesTwelveWeekHorizon(t *testing.T) {
	now := time.Date(2024, 6, 16, 20, 0, 0, 0, time.UTC) // Sunday

	ranges := WeekRanges(now, nil)

	require.Len(t, ranges, 13)
	assert.Equal(t, date(2024, 6, 17), ranges[0].StartDate)
	last := ranges[len(ranges)-1]
	assert.Equal(t, date(2024, 6, 17).AddDate(0, 0, DefaultHorizonDays), last.EndDate)
	assert.Equal(t, last.StartDate, last.EndDate)
	assert.Equal(t, 12, ranges[0].WeeksUntilRace)
}

func TestWeekRanges_RaceBeforeFirstMonday(t *testing.T) {
	now := time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)
	race := date(2024, 6, 15)

	assert.Empty(t, WeekRanges(now, &race))
}
