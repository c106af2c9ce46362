package activity

import (
	"math"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// RawMetrics is the provider-neutral shape of an activity or split before
// unit conversion.
type RawMetrics struct {
	DistanceMeters      float64
	MovingTime          time.Duration
	ElevationGainMeters float64
	AverageHeartrate    *float64
}

// ComputeDetail converts raw metrics and optional splits into the
// DetailedActivity shown to the coach.
func ComputeDetail(total RawMetrics, splits []RawMetrics) domain.DetailedActivity {
	miles, pace, elevation, hr := convert(total)
	detail := domain.DetailedActivity{
		DistanceInMiles:     miles,
		AverageSpeedPerMile: pace,
		ElevationGainInFeet: elevation,
		AverageHeartrate:    hr,
	}
	for _, s := range splits {
		sm, sp, se, sh := convert(s)
		detail.Splits = append(detail.Splits, domain.Split{
			DistanceInMiles:     sm,
			AverageSpeedPerMile: sp,
			ElevationGainInFeet: se,
			AverageHeartrate:    sh,
		})
	}
	return detail
}

func convert(m RawMetrics) (float64, domain.Speed, *float64, *float64) {
	miles := m.DistanceMeters / domain.MetersPerMile

	var pace domain.Speed
	if miles > 0 {
		minPerMile := m.MovingTime.Minutes() / miles
		whole := math.Floor(minPerMile)
		pace = domain.Speed{Min: int(whole), Sec: int(math.Floor((minPerMile - whole) * 60))}
	}

	var elevation *float64
	if ft := m.ElevationGainMeters * domain.FeetPerMeter; ft != 0 {
		v := domain.Round2(ft)
		elevation = &v
	}

	var hr *float64
	if m.AverageHeartrate != nil {
		v := domain.Round2(*m.AverageHeartrate)
		hr = &v
	}

	return domain.Round2(miles), pace, elevation, hr
}
