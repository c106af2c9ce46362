package domain

import "time"

// Activity is one completed run, or a placeholder for a day without one.
type Activity struct {
	ID                  int64
	StartDate           time.Time
	StartDateLocal      time.Time
	DistanceMeters      float64
	ElevationGainMeters float64
	MovingTime          time.Duration
	SportType           string
}

// IsPlaceholder reports whether a was synthesized by gap-filling.
func (a Activity) IsPlaceholder() bool {
	return a.ID == PlaceholderActivityID
}

// PlaceholderActivity returns a zero-valued activity at midnight of date.
func PlaceholderActivity(date time.Time) Activity {
	d := DateOf(date)
	return Activity{
		ID:             PlaceholderActivityID,
		StartDate:      d,
		StartDateLocal: d,
	}
}

// DailyActivity aggregates all activities sharing a calendar date.
type DailyActivity struct {
	Date                time.Time `json:"date"`
	DayOfWeek           Day       `json:"day_of_week"`
	WeekOfYear          int       `json:"week_of_year"`
	Year                int       `json:"year"`
	DistanceInMiles     float64   `json:"distance_in_miles"`
	ElevationGainInFeet float64   `json:"elevation_gain_in_feet"`
	MovingTimeInMinutes float64   `json:"moving_time_in_minutes"`
	PaceMinutesPerMile  *float64  `json:"pace_minutes_per_mile"`
	ActivityIDs         []int64   `json:"activity_ids"`
	ActivityCount       int       `json:"activity_count"`

	// DistanceMeters keeps the unrounded total so weekly rollups round once.
	DistanceMeters float64 `json:"-"`
}

// WeekSummary aggregates the daily records of one ISO (year, week) bucket.
type WeekSummary struct {
	Year          int       `json:"year"`
	WeekOfYear    int       `json:"week_of_year"`
	WeekStartDate time.Time `json:"week_start_date"`
	TotalDistance float64   `json:"total_distance"`
	LongestRun    float64   `json:"longest_run"`
}

// Speed is a pace expressed as minutes and seconds per mile.
type Speed struct {
	Min int `json:"min"`
	Sec int `json:"sec"`
}

type Split struct {
	DistanceInMiles     float64  `json:"distance_in_miles"`
	AverageSpeedPerMile Speed    `json:"average_speed_per_mile"`
	ElevationGainInFeet *float64 `json:"elevation_gain_in_feet"`
	AverageHeartrate    *float64 `json:"average_heartrate"`
}

// DetailedActivity is the per-activity view handed to coach-note prompts.
// The zero value stands in for a rest day.
type DetailedActivity struct {
	DistanceInMiles     float64  `json:"distance_in_miles"`
	AverageSpeedPerMile Speed    `json:"average_speed_per_mile"`
	ElevationGainInFeet *float64 `json:"elevation_gain_in_feet"`
	AverageHeartrate    *float64 `json:"average_heartrate"`
	Splits              []Split  `json:"splits"`
}
