package testutil

import (
	"sync/atomic"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

var testAthleteCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithAthleteID(id int64) UserOption {
	return func(u *domain.User) {
		u.AthleteID = id
	}
}

func WithRace(distance domain.RaceDistance, date time.Time) UserOption {
	return func(u *domain.User) {
		u.Preferences.RaceDistance = &distance
		u.Preferences.RaceDate = &date
	}
}

func WithIdealWeek(sessions ...domain.TheoreticalTrainingSession) UserOption {
	return func(u *domain.User) {
		u.Preferences.IdealTrainingWeek = sessions
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func NewTestUser(opts ...UserOption) domain.User {
	id := 1000 + testAthleteCounter.Add(1)
	u := domain.User{
		AthleteID:   id,
		Email:       "runner@example.com",
		AccessToken: "token",
		DeviceToken: "device",
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// DailyOption customizes one daily record built by NewTestDaily.
type DailyOption func(*domain.DailyActivity)

func WithMiles(miles float64) DailyOption {
	return func(d *domain.DailyActivity) {
		d.DistanceInMiles = miles
		d.DistanceMeters = miles * domain.MetersPerMile
		if miles > 0 && len(d.ActivityIDs) == 0 {
			d.ActivityIDs = []int64{d.Date.Unix()}
			d.ActivityCount = 1
		}
	}
}

func WithActivityIDs(ids ...int64) DailyOption {
	return func(d *domain.DailyActivity) {
		d.ActivityIDs = ids
		d.ActivityCount = len(ids)
	}
}

// NewTestDaily builds a zero-distance daily record for date.
func NewTestDaily(date time.Time, opts ...DailyOption) domain.DailyActivity {
	d := domain.DateOf(date)
	year, week := d.ISOWeek()
	rec := domain.DailyActivity{
		Date:        d,
		DayOfWeek:   domain.DayOf(d),
		WeekOfYear:  week,
		Year:        year,
		ActivityIDs: []int64{},
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// DailyRange builds one zero-distance record per day in [start, end].
func DailyRange(start, end time.Time) []domain.DailyActivity {
	var out []domain.DailyActivity
	for d := domain.DateOf(start); !d.After(domain.DateOf(end)); d = d.AddDate(0, 0, 1) {
		out = append(out, NewTestDaily(d))
	}
	return out
}
