package domain

import (
	"fmt"
	"time"
)

// WeekRange is one calendar week between the first Monday and race day.
type WeekRange struct {
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	WeekNumber     int       `json:"week_number"`
	WeeksUntilRace int       `json:"n_weeks_until_race"`
}

func (w WeekRange) String() string {
	return fmt.Sprintf("WeekRange(week_number=%d, n_weeks_until_race=%d, start_date=%s, end_date=%s)",
		w.WeekNumber, w.WeeksUntilRace, w.StartDate.Format(DateLayout), w.EndDate.Format(DateLayout))
}

// TrainingPlanWeekLight is the coarse skeleton row for one planned week.
type TrainingPlanWeekLight struct {
	WeekNum  int      `json:"week_num"`
	WeekType WeekType `json:"week_type"`
	Volume   float64  `json:"volume"`
	LongRun  float64  `json:"long_run"`
}

type TrainingPlanSkeleton struct {
	Weeks []TrainingPlanWeekLight `json:"weeks"`
}

// TrainingPlanWeekGeneration is the elaboration output for one week.
type TrainingPlanWeekGeneration struct {
	WeekType WeekType `json:"week_type"`
	Notes    string   `json:"notes"`
}

type TrainingPlanWeek struct {
	WeekStartDate   time.Time `json:"week_start_date"`
	WeekNumber      int       `json:"week_number"`
	WeeksUntilRace  int       `json:"n_weeks_until_race"`
	WeekType        WeekType  `json:"week_type"`
	TotalDistance   float64   `json:"total_distance"`
	LongRunDistance float64   `json:"long_run_distance"`
	Notes           string    `json:"notes"`
}

// TrainingPlan is an ordered sequence of planned weeks. PlanID is assigned
// on persistence.
type TrainingPlan struct {
	PlanID string             `json:"plan_id,omitempty"`
	Weeks  []TrainingPlanWeek `json:"training_plan_weeks"`
}

// MileageRecommendation prescribes one week's volume and long run.
type MileageRecommendation struct {
	Thoughts    string  `json:"thoughts"`
	TotalVolume float64 `json:"total_volume"`
	LongRun     float64 `json:"long_run"`
}

// MileageRecommendationRow is a persisted recommendation keyed by athlete
// and ISO week.
type MileageRecommendationRow struct {
	MileageRecommendation
	AthleteID  int64
	Year       int
	WeekOfYear int
	CreatedAt  time.Time
}
