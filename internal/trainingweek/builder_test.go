package trainingweek

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/llm"
	"github.com/alexanderramin/racecoach/internal/testutil"
)

type fakeDetails struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (f *fakeDetails) GetActivityDetail(_ context.Context, id int64) (domain.DetailedActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if f.err != nil {
		return domain.DetailedActivity{}, f.err
	}
	hr := 151.5
	return domain.DetailedActivity{DistanceInMiles: 5, AverageSpeedPerMile: domain.Speed{Min: 8, Sec: 30}, AverageHeartrate: &hr}, nil
}

const (
	pseudoReply   = `{"days":[{"day":"wed","session_type":"easy run","distance":5},{"day":"sun","session_type":"long run","distance":12}]}`
	sessionsReply = `{"sessions":[{"day":"wed","session_type":"easy run","distance":5,"notes":"Conversational pace."},{"day":"sun","session_type":"long run","distance":12,"notes":"Finish strong."}]}`
)

func fastPolicy() llm.RetryPolicy {
	p := llm.DefaultRetryPolicy()
	p.Delay = time.Millisecond
	return p
}

// eightDays is one zero-distance week followed by a 5 mile Tuesday.
func eightDays() []domain.DailyActivity {
	daily := testutil.DailyRange(day(2024, 5, 28), day(2024, 6, 3))
	return append(daily, testutil.NewTestDaily(day(2024, 6, 4), testutil.WithActivityIDs(77), testutil.WithMiles(5)))
}

func scriptedWeek() *testutil.ScriptedLLM {
	return testutil.NewScriptedLLM().
		Enqueue("gen_pseudo_training_week", pseudoReply).
		Enqueue("gen_training_week", sessionsReply).
		Fallback(func(req llm.GenerateRequest) (string, error) {
			if req.Name == "gen_coaches_notes" {
				return "Good steady effort.", nil
			}
			return "", errors.New("unexpected call " + req.Name)
		})
}

func TestBuild_MidWeekCountsCompletedMiles(t *testing.T) {
	client := scriptedWeek()
	details := &fakeDetails{}
	rec := domain.MileageRecommendation{Thoughts: "Build week.", TotalVolume: 30, LongRun: 12}
	now := time.Date(2024, 6, 4, 19, 0, 0, 0, time.UTC) // Tuesday

	week, err := NewBuilder(client, fastPolicy(), 4).Build(context.Background(), Input{
		User:           testutil.NewTestUser(),
		Daily:          eightDays(),
		Recommendation: rec,
		Exe:            domain.MidWeek,
		Now:            now,
		Details:        details,
	})

	require.NoError(t, err)
	require.Len(t, week.PastTrainingWeek, 2)
	assert.Equal(t, day(2024, 6, 3), week.PastTrainingWeek[0].Activity.Date)
	assert.Equal(t, "Good steady effort.", week.PastTrainingWeek[1].CoachesNotes)
	assert.Equal(t, 5.0, WeekMileage(week.PastTrainingWeek, rec).Completed)
	assert.Len(t, week.FutureTrainingWeek.Sessions, 2)
	assert.Equal(t, 17.0, week.FutureTrainingWeek.TotalMileage())

	assert.Equal(t, []int64{77}, details.calls)
	assert.Equal(t, 2, client.Calls("gen_coaches_notes"))

	pseudo := client.Requests("gen_pseudo_training_week")
	require.Len(t, pseudo, 1)
	assert.Contains(t, pseudo[0].UserPrompt, "completed 5 miles this week and has 25 miles remaining")
	assert.Contains(t, pseudo[0].UserPrompt, "activity for the past 8 days")
	assert.Contains(t, pseudo[0].UserPrompt, "next 5 days:\nwed, thurs, fri, sat, sun")
}

func TestBuild_MidWeekArithmeticIsDeterministic(t *testing.T) {
	rec := domain.MileageRecommendation{TotalVolume: 30, LongRun: 12}
	now := time.Date(2024, 6, 4, 19, 0, 0, 0, time.UTC)

	var results []Mileage
	for i := 0; i < 2; i++ {
		week, err := NewBuilder(scriptedWeek(), fastPolicy(), 1).Build(context.Background(), Input{
			User: testutil.NewTestUser(), Daily: eightDays(), Recommendation: rec,
			Exe: domain.MidWeek, Now: now, Details: &fakeDetails{},
		})
		require.NoError(t, err)
		results = append(results, WeekMileage(week.PastTrainingWeek, rec))
	}

	assert.Equal(t, results[0], results[1])
	assert.Equal(t, Mileage{Completed: 5, Remaining: 25}, results[0])
}

func TestBuild_SundayMidWeekShortCircuitsPlanning(t *testing.T) {
	client := scriptedWeek()
	daily := testutil.DailyRange(day(2024, 6, 1), day(2024, 6, 16))
	now := time.Date(2024, 6, 16, 20, 0, 0, 0, time.UTC)

	week, err := NewBuilder(client, fastPolicy(), 0).Build(context.Background(), Input{
		User: testutil.NewTestUser(), Daily: daily, Recommendation: domain.MileageRecommendation{TotalVolume: 20},
		Exe: domain.MidWeek, Now: now, Details: &fakeDetails{},
	})

	require.NoError(t, err)
	assert.Len(t, week.PastTrainingWeek, 7)
	assert.Empty(t, week.FutureTrainingWeek.Sessions)
	assert.NotNil(t, week.FutureTrainingWeek.Sessions)
	assert.Equal(t, 7, client.Calls("gen_coaches_notes"))
	assert.Zero(t, client.Calls("gen_pseudo_training_week"))
	assert.Zero(t, client.Calls("gen_training_week"))
}

func TestBuild_SundayNewWeekPlansWholeWeek(t *testing.T) {
	client := scriptedWeek()
	now := time.Date(2024, 6, 16, 20, 0, 0, 0, time.UTC)

	week, err := NewBuilder(client, fastPolicy(), 0).Build(context.Background(), Input{
		User: testutil.NewTestUser(), Daily: testutil.DailyRange(day(2024, 6, 1), day(2024, 6, 16)),
		Recommendation: domain.MileageRecommendation{TotalVolume: 20}, Exe: domain.NewWeek, Now: now, Details: &fakeDetails{},
	})

	require.NoError(t, err)
	assert.Empty(t, week.PastTrainingWeek)
	assert.Zero(t, client.Calls("gen_coaches_notes"))
	assert.Contains(t, client.Requests("gen_pseudo_training_week")[0].UserPrompt, "next 7 days")
	assert.Contains(t, client.Requests("gen_pseudo_training_week")[0].UserPrompt, "activity for the past 14 days")
	assert.Len(t, week.FutureTrainingWeek.Sessions, 2)
}

func TestTrainingWeek_EmptyPseudoWeekSkipsBackend(t *testing.T) {
	client := testutil.NewScriptedLLM()

	week, err := NewBuilder(client, fastPolicy(), 0).TrainingWeek(context.Background(), testutil.NewTestUser(), domain.PseudoTrainingWeek{}, domain.MileageRecommendation{})

	require.NoError(t, err)
	assert.Empty(t, week.Sessions)
	assert.Zero(t, client.Calls(""))
}

func TestCoachNotes_RestDayUsesDefaultDetail(t *testing.T) {
	client := testutil.NewScriptedLLM().Enqueue("gen_coaches_notes", "Rest well.")
	details := &fakeDetails{err: errors.New("must not be called")}
	rest := testutil.NewTestDaily(day(2024, 6, 12))

	notes, err := NewBuilder(client, fastPolicy(), 0).CoachNotes(context.Background(), testutil.NewTestUser(), nil, rest, details)

	require.NoError(t, err)
	assert.Equal(t, "Rest well.", notes)
	assert.Empty(t, details.calls)
	req := client.Requests("gen_coaches_notes")[0]
	assert.False(t, req.JSON)
	assert.Contains(t, req.UserPrompt, "Today's activities (wed):\n- rest day")
	assert.Contains(t, req.UserPrompt, "Do not use the client's name")
}

func TestCoachNotes_DetailErrorPropagates(t *testing.T) {
	details := &fakeDetails{err: errors.New("strava down")}
	run := testutil.NewTestDaily(day(2024, 6, 12), testutil.WithActivityIDs(9), testutil.WithMiles(4))

	_, err := NewBuilder(testutil.NewScriptedLLM(), fastPolicy(), 0).CoachNotes(context.Background(), testutil.NewTestUser(), nil, run, details)

	assert.ErrorContains(t, err, "strava down")
}

func TestPseudoWeek_InvalidOutputRetried(t *testing.T) {
	client := testutil.NewScriptedLLM().Enqueue("gen_pseudo_training_week",
		`{"days":[{"day":"tue","session_type":"easy run","distance":4}]}`,
		pseudoReply,
	)

	pseudo, err := NewBuilder(client, fastPolicy(), 0).PseudoWeek(context.Background(), PseudoWeekPrompt{
		RestOfWeek: []domain.Day{domain.Wed, domain.Sun},
	})

	require.NoError(t, err)
	assert.Len(t, pseudo.Days, 2)
	assert.Equal(t, 2, client.Calls("gen_pseudo_training_week"))
}

func TestTrainingWeek_SessionsMissingFieldsRetried(t *testing.T) {
	client := testutil.NewScriptedLLM().Enqueue("gen_training_week",
		`{"sessions":[{"day":"wed","session_type":"easy run"},{"day":"sun","session_type":"long run"}]}`,
		sessionsReply,
	)
	pseudo := domain.PseudoTrainingWeek{Days: []domain.PseudoTrainingDay{
		{Day: domain.Wed, SessionType: domain.SessionEasy, Distance: 5},
		{Day: domain.Sun, SessionType: domain.SessionLong, Distance: 12},
	}}

	week, err := NewBuilder(client, fastPolicy(), 0).TrainingWeek(context.Background(), testutil.NewTestUser(), pseudo,
		domain.MileageRecommendation{TotalVolume: 30, LongRun: 12})

	require.NoError(t, err)
	require.Len(t, week.Sessions, 2)
	assert.Equal(t, 5.0, week.Sessions[0].Distance)
	assert.Equal(t, "Finish strong.", week.Sessions[1].Notes)
	assert.Equal(t, 2, client.Calls("gen_training_week"))
}

func TestPseudoWeek_DayMissingDistanceRetried(t *testing.T) {
	client := testutil.NewScriptedLLM().Enqueue("gen_pseudo_training_week",
		`{"days":[{"day":"wed","session_type":"easy run"},{"day":"sun","session_type":"long run","distance":12}]}`,
		pseudoReply,
	)

	pseudo, err := NewBuilder(client, fastPolicy(), 0).PseudoWeek(context.Background(), PseudoWeekPrompt{
		RestOfWeek: []domain.Day{domain.Wed, domain.Sun},
	})

	require.NoError(t, err)
	assert.Equal(t, 5.0, pseudo.Days[0].Distance)
	assert.Equal(t, 2, client.Calls("gen_pseudo_training_week"))
}
