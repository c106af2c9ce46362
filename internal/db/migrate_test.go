package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; it must be a no-op.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"users", "mileage_recommendations", "training_plans", "training_weeks"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_training_plans_athlete'`).Scan(&name)
	require.NoError(t, err)
}

func TestMigrate_WeekTypeConstraint(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO users (athlete_id, created_at) VALUES (1, '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	insert := `INSERT INTO training_plans (plan_id, athlete_id, week_start_date, week_number,
		n_weeks_until_race, week_type, total_distance, long_run_distance, created_at)
		VALUES ('p1', 1, '2024-06-17', ?, 0, ?, 20, 8, '2024-06-16T00:00:00Z')`

	_, err = db.Exec(insert, 1, "build")
	require.NoError(t, err)

	_, err = db.Exec(insert, 2, "recovery")
	assert.Error(t, err, "unknown week types are rejected")

	_, err = db.Exec(insert, 1, "peak")
	assert.Error(t, err, "week numbers are unique within a plan")
}

func TestMigrate_RecommendationUniquePerWeek(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO users (athlete_id, created_at) VALUES (1, '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	insert := `INSERT INTO mileage_recommendations (athlete_id, year, week_of_year, total_volume, long_run, created_at)
		VALUES (1, 2024, 25, ?, 10, '2024-06-16T00:00:00Z')`
	_, err = db.Exec(insert, 30)
	require.NoError(t, err)
	_, err = db.Exec(insert, 32)
	assert.Error(t, err)
}

func TestMigrate_ForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO training_weeks (athlete_id, future_training_week, past_training_week, created_at, updated_at)
		VALUES (999, '{}', '[]', 'x', 'x')`)
	assert.Error(t, err)
}
