package strava

import (
	"time"

	"github.com/alexanderramin/racecoach/internal/activity"
	"github.com/alexanderramin/racecoach/internal/domain"
)

type summaryActivity struct {
	ID                 int64     `json:"id"`
	SportType          string    `json:"sport_type"`
	Distance           float64   `json:"distance"`
	MovingTime         int64     `json:"moving_time"`
	TotalElevationGain float64   `json:"total_elevation_gain"`
	StartDate          time.Time `json:"start_date"`
	// StartDateLocal is the athlete's wall clock encoded with a Z suffix.
	StartDateLocal time.Time `json:"start_date_local"`
}

func (a summaryActivity) toDomain() domain.Activity {
	return domain.Activity{
		ID:                  a.ID,
		StartDate:           a.StartDate,
		StartDateLocal:      a.StartDateLocal,
		DistanceMeters:      a.Distance,
		ElevationGainMeters: a.TotalElevationGain,
		MovingTime:          time.Duration(a.MovingTime) * time.Second,
		SportType:           a.SportType,
	}
}

type split struct {
	Distance            float64  `json:"distance"`
	MovingTime          int64    `json:"moving_time"`
	ElevationDifference float64  `json:"elevation_difference"`
	AverageHeartrate    *float64 `json:"average_heartrate"`
}

type detailedActivity struct {
	summaryActivity
	AverageHeartrate *float64 `json:"average_heartrate"`
	SplitsStandard   []split  `json:"splits_standard"`
}

func (a detailedActivity) toDetail() domain.DetailedActivity {
	total := activity.RawMetrics{
		DistanceMeters:      a.Distance,
		MovingTime:          time.Duration(a.MovingTime) * time.Second,
		ElevationGainMeters: a.TotalElevationGain,
		AverageHeartrate:    a.AverageHeartrate,
	}
	var splits []activity.RawMetrics
	for _, s := range a.SplitsStandard {
		splits = append(splits, activity.RawMetrics{
			DistanceMeters:      s.Distance,
			MovingTime:          time.Duration(s.MovingTime) * time.Second,
			ElevationGainMeters: s.ElevationDifference,
			AverageHeartrate:    s.AverageHeartrate,
		})
	}
	return activity.ComputeDetail(total, splits)
}
