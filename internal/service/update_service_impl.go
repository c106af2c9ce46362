package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/racecoach/internal/activity"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/metrics"
	"github.com/alexanderramin/racecoach/internal/notify"
	"github.com/alexanderramin/racecoach/internal/platform/logger"
	"github.com/alexanderramin/racecoach/internal/repository"
	"github.com/alexanderramin/racecoach/internal/trainingweek"
)

const (
	// HistoryWeeks is how much activity history feeds plan generation.
	HistoryWeeks = 52
	// RefreshWeeks is the history window for rebuilding a refreshed week.
	RefreshWeeks = 3

	AlertSubject = "Race Coach Update Pipeline Error"
)

// Result reports one athlete's update outcome.
type Result struct {
	AthleteID int64  `json:"athlete_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// BatchResult reports a full update-all run.
type BatchResult struct {
	Exe     domain.ExeType `json:"exe_type"`
	Date    time.Time      `json:"date"`
	Results []Result       `json:"results"`
	// Skipped lists athletes already updated inside the window.
	Skipped []int64 `json:"skipped,omitempty"`
}

// Failed counts unsuccessful results.
func (b BatchResult) Failed() int {
	n := 0
	for _, r := range b.Results {
		if !r.Success {
			n++
		}
	}
	return n
}

// UpdateDeps wires an UpdateService.
type UpdateDeps struct {
	Users   repository.UserRepo
	Weeks   repository.TrainingWeekRepo
	Mileage MileageService
	Builder *trainingweek.Builder
	Sources SourceFactory
	Alerter notify.Alerter
	Pusher  notify.Pusher
	Log     *logger.Logger
	// Concurrency caps athletes updated at once by UpdateAllUsers.
	Concurrency int
}

type updateService struct {
	deps     UpdateDeps
	log      *logger.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewUpdateService(deps UpdateDeps, observers ...UseCaseObserver) UpdateService {
	if deps.Alerter == nil {
		deps.Alerter = notify.NoopAlerter{}
	}
	if deps.Pusher == nil {
		deps.Pusher = notify.NoopPusher{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Concurrency < 1 {
		deps.Concurrency = 1
	}
	return &updateService{
		deps:     deps,
		log:      deps.Log.With("component", "update"),
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *updateService) UpdateTrainingWeek(ctx context.Context, user domain.User, exe domain.ExeType, dt time.Time) (week domain.FullTrainingWeek, err error) {
	defer observe(ctx, s.observer, "update-training-week", time.Now(), &err, map[string]any{
		"athlete_id": user.AthleteID,
		"exe_type":   string(exe),
	})

	src, err := s.deps.Sources(user)
	if err != nil {
		return domain.FullTrainingWeek{}, fmt.Errorf("building activity source: %w", err)
	}
	daily, err := activity.DailyActivity(ctx, src, dt, HistoryWeeks)
	if err != nil {
		return domain.FullTrainingWeek{}, err
	}
	rec, err := s.deps.Mileage.GetOrGenerate(ctx, user, daily, exe, dt)
	if err != nil {
		return domain.FullTrainingWeek{}, err
	}
	return s.buildAndStore(ctx, user, daily, rec, exe, dt, src)
}

func (s *updateService) buildAndStore(ctx context.Context, user domain.User, daily []domain.DailyActivity, rec domain.MileageRecommendation, exe domain.ExeType, dt time.Time, src ActivityClient) (domain.FullTrainingWeek, error) {
	week, err := s.deps.Builder.Build(ctx, trainingweek.Input{
		User:           user,
		Daily:          daily,
		Recommendation: rec,
		Exe:            exe,
		Now:            dt,
		Details:        src,
	})
	if err != nil {
		return domain.FullTrainingWeek{}, fmt.Errorf("building training week: %w", err)
	}
	if err := s.deps.Weeks.Upsert(ctx, user.AthleteID, week.FutureTrainingWeek, week.PastTrainingWeek); err != nil {
		return domain.FullTrainingWeek{}, err
	}
	return week, nil
}

func (s *updateService) UpdateTrainingWeekSafe(ctx context.Context, user domain.User, exe domain.ExeType, dt time.Time) (res Result) {
	started := time.Now()
	var stack []byte
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				stack = debug.Stack()
				err = fmt.Errorf("panic: %v", p)
			}
		}()
		_, err = s.UpdateTrainingWeek(ctx, user, exe, dt)
		return err
	}()
	metrics.RecordWeekUpdate(string(exe), err == nil, time.Since(started))

	if err != nil {
		// Plain errors carry their origin in the wrapped chain; only a panic
		// has a stack worth sending.
		msg := fmt.Sprintf("Error updating training week for user %d: %v", user.AthleteID, err)
		kv := []any{"athlete_id", user.AthleteID, "exe_type", string(exe), "error", err}
		if stack != nil {
			msg += "\n" + string(stack)
			kv = append(kv, "stack", string(stack))
		}
		s.log.Error("training week update failed", kv...)
		if alertErr := s.deps.Alerter.SendAlertEmail(ctx, AlertSubject, msg); alertErr != nil {
			s.log.Warn("sending alert email failed", "athlete_id", user.AthleteID, "error", alertErr)
		}
		return Result{AthleteID: user.AthleteID, Success: false, Error: msg}
	}

	if pushErr := s.deps.Pusher.SendPush(ctx, user); pushErr != nil {
		s.log.Warn("sending push failed", "athlete_id", user.AthleteID, "error", pushErr)
	}
	return Result{AthleteID: user.AthleteID, Success: true}
}

func (s *updateService) UpdateAllUsers(ctx context.Context, dt time.Time) (batch BatchResult, err error) {
	fields := map[string]any{"date": dt.Format(domain.DateLayout)}
	defer observe(ctx, s.observer, "update-all-users", time.Now(), &err, fields)

	users, err := s.deps.Users.List(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("listing users: %w", err)
	}

	batch = BatchResult{Exe: domain.MidWeek, Date: dt}
	if domain.IsSunday(dt) {
		batch.Exe = domain.NewWeek
		batch.Date = domain.LastSunday(dt)
	}
	fields["exe_type"] = string(batch.Exe)

	var due []domain.User
	for _, u := range users {
		if u.AthleteID == domain.DefaultAthleteID {
			continue
		}
		if batch.Exe == domain.MidWeek {
			updated, err := s.deps.Weeks.HasUserUpdatedToday(ctx, u.AthleteID)
			if err != nil {
				batch.Results = append(batch.Results, Result{AthleteID: u.AthleteID, Error: err.Error()})
				s.log.Error("checking last update failed", "athlete_id", u.AthleteID, "error", err)
				continue
			}
			if updated {
				batch.Skipped = append(batch.Skipped, u.AthleteID)
				continue
			}
		}
		due = append(due, *u)
	}

	results := make([]Result, len(due))
	var eg errgroup.Group
	eg.SetLimit(s.deps.Concurrency)
	for i, u := range due {
		eg.Go(func() error {
			results[i] = s.UpdateTrainingWeekSafe(ctx, u, batch.Exe, batch.Date)
			return nil
		})
	}
	_ = eg.Wait()

	batch.Results = append(batch.Results, results...)
	fields["users"] = len(batch.Results)
	fields["failed"] = batch.Failed()
	fields["skipped"] = len(batch.Skipped)
	metrics.RecordBatch(s.now())

	return batch, ctx.Err()
}

func (s *updateService) RefreshUserData(ctx context.Context, user domain.User, dt time.Time) (week domain.FullTrainingWeek, err error) {
	defer observe(ctx, s.observer, "refresh-user-data", time.Now(), &err, map[string]any{
		"athlete_id": user.AthleteID,
	})

	src, err := s.deps.Sources(user)
	if err != nil {
		return domain.FullTrainingWeek{}, fmt.Errorf("building activity source: %w", err)
	}

	sunday := domain.LastSunday(dt)
	history, err := activity.DailyActivity(ctx, src, sunday, HistoryWeeks)
	if err != nil {
		return domain.FullTrainingWeek{}, err
	}
	if _, err := s.deps.Mileage.CreateNew(ctx, user, history, sunday, true); err != nil {
		return domain.FullTrainingWeek{}, err
	}

	rec, err := s.deps.Mileage.GetOrGenerate(ctx, user, nil, domain.MidWeek, dt)
	if err != nil {
		return domain.FullTrainingWeek{}, err
	}

	recent, err := activity.DailyActivity(ctx, src, dt, RefreshWeeks)
	if err != nil {
		return domain.FullTrainingWeek{}, err
	}
	return s.buildAndStore(ctx, user, recent, rec, domain.MidWeek, dt, src)
}
