package domain

import (
	"math"
	"time"
)

// DateLayout is the storage and wire format for civil dates.
const DateLayout = "2006-01-02"

// DateOf returns the civil date of t: midnight UTC on t's wall-clock day in
// t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from a to b, both civil dates.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// MondayIndex returns the weekday of t with Monday as 0 and Sunday as 6.
func MondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DayOf returns the Day label for t.
func DayOf(t time.Time) Day {
	return WeekDays[MondayIndex(t)]
}

// IsSunday reports whether t falls on the last day of an ISO week.
func IsSunday(t time.Time) bool {
	return t.Weekday() == time.Sunday
}

// LastSunday returns the most recent Sunday on or before t, keeping t's clock.
func LastSunday(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
