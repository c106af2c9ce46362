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

func seedUser(t *testing.T, repo *SQLiteUserRepo) domain.User {
	t.Helper()
	u := testutil.NewTestUser()
	require.NoError(t, repo.Upsert(context.Background(), &u))
	return u
}

func recommendationRow(athleteID int64, dt time.Time, volume, longRun float64) domain.MileageRecommendationRow {
	year, week := dt.ISOWeek()
	return domain.MileageRecommendationRow{
		MileageRecommendation: domain.MileageRecommendation{
			Thoughts:    "steady build",
			TotalVolume: volume,
			LongRun:     longRun,
		},
		AthleteID:  athleteID,
		Year:       year,
		WeekOfYear: week,
	}
}

func TestMileageRecommendationRepo_GetByAnyDayOfWeek(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	repo := NewSQLiteMileageRecommendationRepo(db)
	ctx := context.Background()
	u := seedUser(t, users)

	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, recommendationRow(u.AthleteID, monday, 40, 14)))

	for d := 0; d < 7; d++ {
		got, err := repo.Get(ctx, u.AthleteID, monday.AddDate(0, 0, d))
		require.NoError(t, err, "day offset %d", d)
		assert.Equal(t, 40.0, got.TotalVolume)
		assert.Equal(t, 14.0, got.LongRun)
		assert.Equal(t, "steady build", got.Thoughts)
	}

	_, err := repo.Get(ctx, u.AthleteID, monday.AddDate(0, 0, 7))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMileageRecommendationRepo_InsertReplacesSameWeek(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	repo := NewSQLiteMileageRecommendationRepo(db)
	ctx := context.Background()
	u := seedUser(t, users)

	dt := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, recommendationRow(u.AthleteID, dt, 30, 10)))
	require.NoError(t, repo.Insert(ctx, recommendationRow(u.AthleteID, dt, 33, 11)))

	got, err := repo.Get(ctx, u.AthleteID, dt)
	require.NoError(t, err)
	assert.Equal(t, 33.0, got.TotalVolume)
	assert.Equal(t, 11.0, got.LongRun)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM mileage_recommendations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMileageRecommendationRepo_ISOYearBoundary(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	repo := NewSQLiteMileageRecommendationRepo(db)
	ctx := context.Background()
	u := seedUser(t, users)

	// 2024-12-30 is in ISO week 1 of 2025.
	dt := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, recommendationRow(u.AthleteID, dt, 25, 8)))

	got, err := repo.Get(ctx, u.AthleteID, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, 1, got.WeekOfYear)
}

func TestMileageRecommendationRepo_RequiresUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMileageRecommendationRepo(db)

	err := repo.Insert(context.Background(), recommendationRow(999, time.Now(), 20, 6))
	assert.Error(t, err, "foreign key should reject unknown athlete")
}
