package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_UpsertAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	race := time.Date(2024, 10, 13, 0, 0, 0, 0, time.UTC)
	u := testutil.NewTestUser(
		testutil.WithRace(domain.RaceMarathon, race),
		testutil.WithIdealWeek(
			domain.TheoreticalTrainingSession{Day: domain.Tues, SessionType: domain.SessionSpeed},
			domain.TheoreticalTrainingSession{Day: domain.Sun, SessionType: domain.SessionLong},
		),
	)
	require.NoError(t, repo.Upsert(ctx, &u))

	got, err := repo.Get(ctx, u.AthleteID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.AccessToken, got.AccessToken)
	assert.Equal(t, u.DeviceToken, got.DeviceToken)
	require.NotNil(t, got.Preferences.RaceDistance)
	assert.Equal(t, domain.RaceMarathon, *got.Preferences.RaceDistance)
	require.NotNil(t, got.Preferences.RaceDate)
	assert.True(t, race.Equal(*got.Preferences.RaceDate))
	assert.Len(t, got.Preferences.IdealTrainingWeek, 2)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))
}

func TestUserRepo_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)

	_, err := repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_Upsert_UpdatesExisting(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser()
	require.NoError(t, repo.Upsert(ctx, &u))

	u.AccessToken = "rotated"
	u.Email = "new@example.com"
	require.NoError(t, repo.Upsert(ctx, &u))

	got, err := repo.Get(ctx, u.AthleteID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.AccessToken)
	assert.Equal(t, "new@example.com", got.Email)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepo_List_OrderedByAthleteID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	for _, id := range []int64{30, domain.DefaultAthleteID, 10, 20} {
		u := testutil.NewTestUser(testutil.WithAthleteID(id))
		require.NoError(t, repo.Upsert(ctx, &u))
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)
	var ids []int64
	for _, u := range users {
		ids = append(ids, u.AthleteID)
	}
	assert.Equal(t, []int64{-1, 10, 20, 30}, ids)
}

func TestUserRepo_UpdatePreferences(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser()
	require.NoError(t, repo.Upsert(ctx, &u))

	half := domain.RaceHalfMarathon
	require.NoError(t, repo.UpdatePreferences(ctx, u.AthleteID, domain.Preferences{RaceDistance: &half}))

	got, err := repo.Get(ctx, u.AthleteID)
	require.NoError(t, err)
	require.NotNil(t, got.Preferences.RaceDistance)
	assert.Equal(t, domain.RaceHalfMarathon, *got.Preferences.RaceDistance)
	assert.Nil(t, got.Preferences.RaceDate)
	assert.Equal(t, u.AccessToken, got.AccessToken, "other columns untouched")
}

func TestUserRepo_UpdatePreferences_UnknownUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)

	err := repo.UpdatePreferences(context.Background(), 7, domain.Preferences{})
	assert.ErrorIs(t, err, ErrNotFound)
}
