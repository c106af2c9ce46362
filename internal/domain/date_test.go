package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateOf_UsesWallClockOfLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	evening := time.Date(2024, 3, 10, 22, 30, 0, 0, ny)

	assert.Equal(t, date(2024, 3, 10), DateOf(evening))
}

func TestDayOf_MondayFirst(t *testing.T) {
	monday := date(2024, 6, 3)
	for i, want := range WeekDays {
		assert.Equal(t, want, DayOf(monday.AddDate(0, 0, i)))
		assert.Equal(t, i, MondayIndex(monday.AddDate(0, 0, i)))
	}
}

func TestLastSunday(t *testing.T) {
	assert.Equal(t, date(2024, 6, 2), LastSunday(date(2024, 6, 5)))
	assert.Equal(t, date(2024, 6, 9), LastSunday(date(2024, 6, 9)))
	assert.True(t, IsSunday(LastSunday(date(2024, 6, 8))))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 19, DaysBetween(date(2024, 6, 3), date(2024, 6, 22)))
	assert.Equal(t, 0, DaysBetween(date(2024, 6, 3), date(2024, 6, 3).Add(23*time.Hour)))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.11, Round2(5000/MetersPerMile))
	assert.Equal(t, 0.0, Round2(0))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, WeekTaper.Valid())
	assert.False(t, WeekType("recovery").Valid())
	assert.True(t, Thurs.Valid())
	assert.False(t, Day("thu").Valid())
	assert.True(t, SessionLong.Valid())
	assert.True(t, RaceHalfMarathon.Valid())
	assert.False(t, ExeType("WEEKLY").Valid())
}

func TestWeekDays_Labels(t *testing.T) {
	labels := make([]string, 0, len(WeekDays))
	for _, d := range WeekDays {
		labels = append(labels, string(d))
	}
	assert.Equal(t, []string{"mon", "tues", "wed", "thurs", "fri", "sat", "sun"}, labels)
	assert.Equal(t, Tues, DayOf(date(2024, 6, 4)))
	assert.Equal(t, Thurs, DayOf(date(2024, 6, 6)))
}
