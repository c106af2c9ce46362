package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// FakeActivities is an in-memory activity source and detail source.
type FakeActivities struct {
	mu         sync.Mutex
	Activities []domain.Activity
	Details    map[int64]domain.DetailedActivity
	ListErr    error
	DetailErr  error
	listCalls  int
}

// ListActivities returns activities whose local start falls in [after, before].
func (f *FakeActivities) ListActivities(_ context.Context, after, before time.Time) ([]domain.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []domain.Activity
	for _, a := range f.Activities {
		if a.StartDateLocal.Before(after) || a.StartDateLocal.After(before) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *FakeActivities) GetActivityDetail(_ context.Context, id int64) (domain.DetailedActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DetailErr != nil {
		return domain.DetailedActivity{}, f.DetailErr
	}
	d, ok := f.Details[id]
	if !ok {
		return domain.DetailedActivity{}, fmt.Errorf("activity %d not found", id)
	}
	return d, nil
}

// ListCalls counts ListActivities invocations.
func (f *FakeActivities) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// AddRun records a run of miles at 9 minutes per mile starting at start.
func (f *FakeActivities) AddRun(id int64, start time.Time, miles float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Activities = append(f.Activities, domain.Activity{
		ID:             id,
		StartDate:      start,
		StartDateLocal: start,
		DistanceMeters: miles * domain.MetersPerMile,
		MovingTime:     time.Duration(miles*9) * time.Minute,
		SportType:      "Run",
	})
	if f.Details == nil {
		f.Details = make(map[int64]domain.DetailedActivity)
	}
	f.Details[id] = domain.DetailedActivity{
		DistanceInMiles:     miles,
		AverageSpeedPerMile: domain.Speed{Min: 9},
	}
}
