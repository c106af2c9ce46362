// Package activity turns raw run records into gap-filled daily aggregates and
// weekly training-load summaries.
package activity

import (
	"sort"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// AddMissingDates returns activities plus a placeholder for every civil date
// in [start, end] that has no activity, sorted by local start time.
func AddMissingDates(activities []domain.Activity, start, end time.Time) []domain.Activity {
	existing := make(map[time.Time]bool, len(activities))
	for _, a := range activities {
		existing[domain.DateOf(a.StartDateLocal)] = true
	}

	out := make([]domain.Activity, 0, len(activities))
	out = append(out, activities...)

	first := domain.DateOf(start)
	totalDays := domain.DaysBetween(first, end) + 1
	for i := 0; i < totalDays; i++ {
		d := first.AddDate(0, 0, i)
		if !existing[d] {
			out = append(out, domain.PlaceholderActivity(d))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDateLocal.Before(out[j].StartDateLocal)
	})
	return out
}

type dailyTotals struct {
	date      time.Time
	meters    float64
	elevation float64
	moving    time.Duration
	ids       []int64
}

// AggregateDaily groups activities by local date and drops every record in
// the earliest (year, ISO week), which is assumed partial.
func AggregateDaily(activities []domain.Activity) []domain.DailyActivity {
	if len(activities) == 0 {
		return nil
	}

	byDate := make(map[time.Time]*dailyTotals)
	for _, a := range activities {
		d := domain.DateOf(a.StartDateLocal)
		t, ok := byDate[d]
		if !ok {
			t = &dailyTotals{date: d}
			byDate[d] = t
		}
		t.meters += a.DistanceMeters
		t.elevation += a.ElevationGainMeters
		t.moving += a.MovingTime
		if !a.IsPlaceholder() {
			t.ids = append(t.ids, a.ID)
		}
	}

	results := make([]domain.DailyActivity, 0, len(byDate))
	for _, t := range byDate {
		results = append(results, toDaily(t))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.Before(results[j].Date)
	})

	firstYear, firstWeek := results[0].Year, results[0].WeekOfYear
	kept := results[:0]
	for _, r := range results {
		if r.Year == firstYear && r.WeekOfYear == firstWeek {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func toDaily(t *dailyTotals) domain.DailyActivity {
	year, week := t.date.ISOWeek()
	miles := t.meters / domain.MetersPerMile
	minutes := t.moving.Seconds() / 60

	var pace *float64
	if t.meters > 0 {
		p := domain.Round2(minutes / miles)
		pace = &p
	}

	ids := t.ids
	if ids == nil {
		ids = []int64{}
	}

	return domain.DailyActivity{
		Date:                t.date,
		DayOfWeek:           domain.DayOf(t.date),
		WeekOfYear:          week,
		Year:                year,
		DistanceInMiles:     domain.Round2(miles),
		ElevationGainInFeet: domain.Round2(t.elevation * domain.FeetPerMeter),
		MovingTimeInMinutes: domain.Round2(minutes),
		PaceMinutesPerMile:  pace,
		ActivityIDs:         ids,
		ActivityCount:       len(ids),
		DistanceMeters:      t.meters,
	}
}

type weekKey struct {
	year, week int
}

type weekTotals struct {
	meters  float64
	longest float64
	start   time.Time
}

// WeeklySummaries rolls daily records up by ISO (year, week), ordered
// chronologically.
func WeeklySummaries(daily []domain.DailyActivity) []domain.WeekSummary {
	buckets := make(map[weekKey]*weekTotals)
	for _, d := range daily {
		key := weekKey{d.Year, d.WeekOfYear}
		b, ok := buckets[key]
		if !ok {
			b = &weekTotals{start: d.Date}
			buckets[key] = b
		}
		meters := dailyMeters(d)
		b.meters += meters
		if meters > b.longest {
			b.longest = meters
		}
		if d.Date.Before(b.start) {
			b.start = d.Date
		}
	}

	keys := make([]weekKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].week < keys[j].week
	})

	out := make([]domain.WeekSummary, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, domain.WeekSummary{
			Year:          k.year,
			WeekOfYear:    k.week,
			WeekStartDate: b.start,
			TotalDistance: domain.Round2(b.meters / domain.MetersPerMile),
			LongestRun:    domain.Round2(b.longest / domain.MetersPerMile),
		})
	}
	return out
}

// dailyMeters prefers the unrounded total and falls back to the exposed miles
// for records that were decoded from storage.
func dailyMeters(d domain.DailyActivity) float64 {
	if d.DistanceMeters > 0 {
		return d.DistanceMeters
	}
	return d.DistanceInMiles * domain.MetersPerMile
}
