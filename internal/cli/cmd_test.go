package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/racecoach/internal/db"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/llm"
	"github.com/alexanderramin/racecoach/internal/plan"
	"github.com/alexanderramin/racecoach/internal/repository"
	"github.com/alexanderramin/racecoach/internal/service"
	"github.com/alexanderramin/racecoach/internal/testutil"
	"github.com/alexanderramin/racecoach/internal/trainingweek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// wednesday is the fixed clock for commands run without --date.
var wednesday = time.Date(2024, 6, 12, 19, 0, 0, 0, time.UTC)

type testEnv struct {
	app     *App
	llm     *testutil.ScriptedLLM
	sources map[int64]*testutil.FakeActivities
	recs    *repository.SQLiteMileageRecommendationRepo
}

// testApp wires a full App backed by an in-memory DB and a scripted LLM.
func testApp(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)

	users := repository.NewSQLiteUserRepo(database)
	weeks := repository.NewSQLiteTrainingWeekRepo(database)
	recs := repository.NewSQLiteMileageRecommendationRepo(database)
	plans := repository.NewSQLiteTrainingPlanRepo(database)

	env := &testEnv{
		llm:     testutil.NewScriptedLLM().Fallback(testutil.CoachReplies),
		sources: make(map[int64]*testutil.FakeActivities),
		recs:    recs,
	}
	sourceFor := func(u domain.User) (service.ActivityClient, error) {
		src, ok := env.sources[u.AthleteID]
		if !ok {
			return nil, errors.New("no activity source")
		}
		return src, nil
	}

	policy := llm.DefaultRetryPolicy()
	policy.Delay = time.Millisecond
	opts := plan.DefaultOptions()
	opts.RetryPolicy = policy

	planSvc := service.NewPlanService(plan.NewGenerator(env.llm, opts), plans, db.NewSQLiteUnitOfWork(database))
	env.app = &App{
		Users: service.NewUserService(users, weeks, sourceFor),
		Plans: planSvc,
		Update: service.NewUpdateService(service.UpdateDeps{
			Users:   users,
			Weeks:   weeks,
			Mileage: service.NewMileageService(planSvc, recs),
			Builder: trainingweek.NewBuilder(env.llm, policy, 2),
			Sources: sourceFor,
		}),
		Location: time.UTC,
		Now:      func() time.Time { return wednesday },
	}
	return env
}

// seedAthlete stores an athlete with a 5 mile run on each given day.
func (e *testEnv) seedAthlete(t *testing.T, id int64, runs ...time.Time) {
	t.Helper()
	_, err := executeCmd(t, e.app, "user", "add", "--athlete", strconv.FormatInt(id, 10), "--access-token", "tok", "--email", "a@example.com")
	require.NoError(t, err)
	src := &testutil.FakeActivities{}
	for i, r := range runs {
		src.AddRun(id*100+int64(i), r, 5)
	}
	e.sources[id] = src
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

// --- user ---

func TestUserAddAndList(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "user", "add",
		"--athlete", "42",
		"--access-token", "tok",
		"--email", "kip@example.com",
		"--race-distance", "marathon",
		"--race-date", "2024-10-13",
		"--ideal-week", "sat:long run, tues:speed workout",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved athlete 42 (Marathon on 2024-10-13)")

	out, err = executeCmd(t, env.app, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "kip@example.com")
	assert.Contains(t, out, "sat:long run, tues:speed workout")
}

func TestUserAdd_RequiresAthleteWhenNotInteractive(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "user", "add", "--access-token", "tok")

	assert.ErrorContains(t, err, "--athlete is required")
}

func TestUserAdd_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing token", []string{"--athlete", "7"}, "access token is required"},
		{"bad id", []string{"--athlete", "abc", "--access-token", "t"}, "invalid athlete ID"},
		{"bad race", []string{"--athlete", "7", "--access-token", "t", "--race-distance", "15K"}, "invalid race distance"},
		{"bad date", []string{"--athlete", "7", "--access-token", "t", "--race-date", "10/13/2024"}, "invalid race date"},
		{"bad ideal week", []string{"--athlete", "7", "--access-token", "t", "--ideal-week", "saturday:long run"}, "unknown day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testApp(t)
			_, err := executeCmd(t, env.app, append([]string{"user", "add"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestUserList_Empty(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No athletes found.")
}

func TestUserPrefs(t *testing.T) {
	env := testApp(t)
	env.seedAthlete(t, 7)

	out, err := executeCmd(t, env.app, "user", "prefs", "--athlete", "7", "--race-distance", "10K")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated preferences for athlete 7")

	u, err := env.app.Users.Get(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, u.Preferences.RaceDistance)
	assert.Equal(t, domain.RaceTenK, *u.Preferences.RaceDistance)

	_, err = executeCmd(t, env.app, "user", "prefs", "--athlete", "8")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- update-user / week show ---

func TestUpdateUser_MidWeekThenWeekShow(t *testing.T) {
	env := testApp(t)
	env.seedAthlete(t, 7, time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC))
	require.NoError(t, env.recs.Insert(context.Background(), domain.MileageRecommendationRow{
		MileageRecommendation: domain.MileageRecommendation{TotalVolume: 30, LongRun: 10},
		AthleteID:             7,
		Year:                  2024,
		WeekOfYear:            24,
	}))

	out, err := executeCmd(t, env.app, "update-user", "--athlete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed: 5.0 mi")
	assert.Contains(t, out, "long run")

	shown, err := executeCmd(t, env.app, "week", "show", "--athlete", "7")
	require.NoError(t, err)
	assert.Equal(t, out, shown)
}

func TestUpdateUser_NewWeekRequiresSunday(t *testing.T) {
	env := testApp(t)
	env.seedAthlete(t, 7)

	_, err := executeCmd(t, env.app, "update-user", "--athlete", "7", "--mode", "new-week")
	assert.ErrorIs(t, err, plan.ErrNotWeekComplete)

	_, err = executeCmd(t, env.app, "update-user", "--athlete", "7", "--mode", "new-week", "--date", "2024-06-16")
	assert.NoError(t, err)
}

func TestUpdateUser_InvalidFlags(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "update-user", "--athlete", "7", "--mode", "weekly")
	assert.ErrorContains(t, err, "invalid mode")

	_, err = executeCmd(t, env.app, "update-user", "--athlete", "7", "--date", "June 12")
	assert.ErrorContains(t, err, "invalid date")

	_, err = executeCmd(t, env.app, "update-user")
	assert.ErrorContains(t, err, "athlete")

	_, err = executeCmd(t, env.app, "update-user", "--athlete", "99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWeekShow_NothingStored(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "week", "show", "--athlete", "7")
	assert.ErrorContains(t, err, "run update-user first")
}

// --- update-all ---

func TestUpdateAll_SundayJSON(t *testing.T) {
	env := testApp(t)
	env.seedAthlete(t, 1, time.Date(2024, 6, 14, 7, 0, 0, 0, time.UTC))
	env.seedAthlete(t, 2)

	out, err := executeCmd(t, env.app, "update-all", "--date", "2024-06-16", "--json")
	require.NoError(t, err)

	var batch service.BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &batch))
	assert.Equal(t, domain.NewWeek, batch.Exe)
	assert.Len(t, batch.Results, 2)
	assert.Zero(t, batch.Failed())
}

func TestUpdateAll_ReportsFailures(t *testing.T) {
	env := testApp(t)
	env.seedAthlete(t, 1)

	out, err := executeCmd(t, env.app, "update-all")
	assert.ErrorContains(t, err, "1 of 1 athlete updates failed")
	assert.Contains(t, out, "MID_WEEK UPDATE FOR 2024-06-12")
	assert.Contains(t, out, "FAILED")
}

// --- refresh ---

func TestRefresh(t *testing.T) {
	env := testApp(t)
	env.seedAthlete(t, 7, time.Date(2024, 6, 11, 7, 0, 0, 0, time.UTC))
	require.NoError(t, env.recs.Insert(context.Background(), domain.MileageRecommendationRow{
		MileageRecommendation: domain.MileageRecommendation{TotalVolume: 25, LongRun: 8},
		AthleteID:             7,
		Year:                  2024,
		WeekOfYear:            24,
	}))

	out, err := executeCmd(t, env.app, "refresh", "--athlete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed: 5.0 mi")
	assert.Equal(t, 1, env.llm.Calls("gen_training_plan"))
}

// --- plan ---

func TestPlanGenerateAndShow(t *testing.T) {
	env := testApp(t)
	env.seedAthlete(t, 7, time.Date(2024, 6, 4, 7, 0, 0, 0, time.UTC))

	out, err := executeCmd(t, env.app, "plan", "generate", "--athlete", "7", "--date", "2024-06-16")
	require.NoError(t, err)
	assert.Contains(t, out, "TRAINING PLAN")
	assert.Contains(t, out, "MILEAGE RECOMMENDATION")
	assert.Contains(t, out, "Week 1 builds aerobic base.")

	shown, err := executeCmd(t, env.app, "plan", "show", "--athlete", "7")
	require.NoError(t, err)
	assert.Contains(t, shown, "over 13 weeks")
}

func TestPlanShow_NotFound(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "plan", "show", "--athlete", "7")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- summaries ---

func TestSummaries(t *testing.T) {
	env := testApp(t)
	env.seedAthlete(t, 7, time.Date(2024, 6, 4, 7, 0, 0, 0, time.UTC))

	out, err := executeCmd(t, env.app, "summaries", "--athlete", "7", "--weeks", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-W23")
	assert.Contains(t, out, "5.0 mi")

	_, err = executeCmd(t, env.app, "summaries", "--athlete", "7", "--weeks", "0")
	assert.ErrorContains(t, err, "weeks must be at least 1")
}

// --- metrics flag ---

func TestMetricsAddr_ServesForCommandLifetime(t *testing.T) {
	env := testApp(t)
	var started, stopped atomic.Bool
	env.app.ServeMetrics = func(ctx context.Context, addr string) error {
		assert.Equal(t, "127.0.0.1:0", addr)
		started.Store(true)
		<-ctx.Done()
		stopped.Store(true)
		return nil
	}

	_, err := executeCmd(t, env.app, "--metrics-addr", "127.0.0.1:0", "user", "list")
	require.NoError(t, err)
	assert.Eventually(t, started.Load, time.Second, 5*time.Millisecond)
	assert.True(t, stopped.Load(), "listener stops before Execute returns")
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app)
	require.NoError(t, err)
	assert.Contains(t, out, "racecoach")
}
