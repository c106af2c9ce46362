package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// Source lists an athlete's runs, already filtered to a single sport.
type Source interface {
	ListActivities(ctx context.Context, after, before time.Time) ([]domain.Activity, error)
}

// DetailSource fetches per-activity metrics and splits.
type DetailSource interface {
	GetActivityDetail(ctx context.Context, activityID int64) (domain.DetailedActivity, error)
}

// DailyActivity loads numWeeks of history ending at dt and returns it
// gap-filled and aggregated by day.
func DailyActivity(ctx context.Context, src Source, dt time.Time, numWeeks int) ([]domain.DailyActivity, error) {
	start := dt.AddDate(0, 0, -7*numWeeks)

	activities, err := src.ListActivities(ctx, start, dt)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	return AggregateDaily(AddMissingDates(activities, start, dt)), nil
}

// LoadWeeklySummaries loads numWeeks of history ending at dt and rolls it up
// by ISO week.
func LoadWeeklySummaries(ctx context.Context, src Source, dt time.Time, numWeeks int) ([]domain.WeekSummary, error) {
	daily, err := DailyActivity(ctx, src, dt, numWeeks)
	if err != nil {
		return nil, err
	}
	return WeeklySummaries(daily), nil
}
