package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/racecoach/internal/db"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/llm"
	"github.com/alexanderramin/racecoach/internal/plan"
	"github.com/alexanderramin/racecoach/internal/repository"
	"github.com/alexanderramin/racecoach/internal/testutil"
	"github.com/alexanderramin/racecoach/internal/trainingweek"
	"github.com/stretchr/testify/require"
)

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []struct{ Subject, Body string }
}

func (a *recordingAlerter) SendAlertEmail(_ context.Context, subject, body string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, struct{ Subject, Body string }{subject, body})
	return nil
}

func (a *recordingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}

type recordingPusher struct {
	mu    sync.Mutex
	users []int64
}

func (p *recordingPusher) SendPush(_ context.Context, u domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, u.AthleteID)
	return nil
}

func (p *recordingPusher) pushed() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.users...)
}

type harness struct {
	db      *sql.DB
	llm     *testutil.ScriptedLLM
	sources map[int64]*testutil.FakeActivities
	users   *repository.SQLiteUserRepo
	weeks   *repository.SQLiteTrainingWeekRepo
	recs    *repository.SQLiteMileageRecommendationRepo
	plans   *repository.SQLiteTrainingPlanRepo
	alerter *recordingAlerter
	pusher  *recordingPusher
	planSvc PlanService
	mileage MileageService
	update  UpdateService

	sourceErr func(domain.User) error
}

func fastRetry() llm.RetryPolicy {
	p := llm.DefaultRetryPolicy()
	p.Delay = time.Millisecond
	return p
}

func newHarness(t *testing.T, concurrency int) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		db:      database,
		llm:     testutil.NewScriptedLLM().Fallback(testutil.CoachReplies),
		sources: make(map[int64]*testutil.FakeActivities),
		users:   repository.NewSQLiteUserRepo(database),
		weeks:   repository.NewSQLiteTrainingWeekRepo(database),
		recs:    repository.NewSQLiteMileageRecommendationRepo(database),
		plans:   repository.NewSQLiteTrainingPlanRepo(database),
		alerter: &recordingAlerter{},
		pusher:  &recordingPusher{},
	}

	opts := plan.DefaultOptions()
	opts.RetryPolicy = fastRetry()
	h.planSvc = NewPlanService(plan.NewGenerator(h.llm, opts), h.plans, db.NewSQLiteUnitOfWork(database))
	h.mileage = NewMileageService(h.planSvc, h.recs)
	h.update = NewUpdateService(UpdateDeps{
		Users:       h.users,
		Weeks:       h.weeks,
		Mileage:     h.mileage,
		Builder:     trainingweek.NewBuilder(h.llm, fastRetry(), 4),
		Sources:     h.sourceFor,
		Alerter:     h.alerter,
		Pusher:      h.pusher,
		Concurrency: concurrency,
	})
	return h
}

func (h *harness) sourceFor(u domain.User) (ActivityClient, error) {
	if h.sourceErr != nil {
		if err := h.sourceErr(u); err != nil {
			return nil, err
		}
	}
	src, ok := h.sources[u.AthleteID]
	if !ok {
		src = &testutil.FakeActivities{}
		h.sources[u.AthleteID] = src
	}
	return src, nil
}

// addUser stores a user with an easy run on each of the given dates.
func (h *harness) addUser(t *testing.T, id int64, runs ...time.Time) domain.User {
	t.Helper()
	u := testutil.NewTestUser(testutil.WithAthleteID(id))
	require.NoError(t, h.users.Upsert(context.Background(), &u))
	src := &testutil.FakeActivities{}
	for i, r := range runs {
		src.AddRun(id*1000+int64(i), r, 5)
	}
	h.sources[id] = src
	return u
}

func (h *harness) storeRecommendation(t *testing.T, athleteID int64, dt time.Time, volume float64) {
	t.Helper()
	year, week := dt.ISOWeek()
	require.NoError(t, h.recs.Insert(context.Background(), domain.MileageRecommendationRow{
		MileageRecommendation: domain.MileageRecommendation{Thoughts: "hold steady", TotalVolume: volume, LongRun: 12},
		AthleteID:             athleteID,
		Year:                  year,
		WeekOfYear:            week,
	}))
}

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}
