package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateLegacySessionTypes(db); err != nil {
		return fmt.Errorf("normalising legacy session types: %w", err)
	}
	return nil
}

// migrateLegacySessionTypes rewrites stored "moderate run" sessions, which
// are no longer planned, to "easy run".
func migrateLegacySessionTypes(db *sql.DB) error {
	_, err := db.Exec(`UPDATE training_weeks
		SET future_training_week = REPLACE(future_training_week, '"session_type":"moderate run"', '"session_type":"easy run"')
		WHERE future_training_week LIKE '%"session_type":"moderate run"%'`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		athlete_id   INTEGER PRIMARY KEY,
		email        TEXT NOT NULL DEFAULT '',
		preferences  TEXT NOT NULL DEFAULT '{}',
		access_token TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,

	// Added after the first release; tolerated as a duplicate on fresh databases.
	`ALTER TABLE users ADD COLUMN device_token TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS mileage_recommendations (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		athlete_id   INTEGER NOT NULL REFERENCES users(athlete_id) ON DELETE CASCADE,
		year         INTEGER NOT NULL,
		week_of_year INTEGER NOT NULL CHECK(week_of_year BETWEEN 1 AND 53),
		thoughts     TEXT NOT NULL DEFAULT '',
		total_volume REAL NOT NULL,
		long_run     REAL NOT NULL,
		created_at   TEXT NOT NULL,
		UNIQUE(athlete_id, year, week_of_year)
	)`,

	`CREATE TABLE IF NOT EXISTS training_plans (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id            TEXT NOT NULL,
		athlete_id         INTEGER NOT NULL REFERENCES users(athlete_id) ON DELETE CASCADE,
		week_start_date    TEXT NOT NULL,
		week_number        INTEGER NOT NULL CHECK(week_number >= 1),
		n_weeks_until_race INTEGER NOT NULL,
		week_type          TEXT NOT NULL
		                   CHECK(week_type IN ('build','peak','taper','race','maintenance')),
		notes              TEXT NOT NULL DEFAULT '',
		total_distance     REAL NOT NULL,
		long_run_distance  REAL NOT NULL,
		created_at         TEXT NOT NULL,
		UNIQUE(plan_id, week_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_training_plans_athlete ON training_plans(athlete_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS training_weeks (
		athlete_id           INTEGER PRIMARY KEY REFERENCES users(athlete_id) ON DELETE CASCADE,
		future_training_week TEXT NOT NULL,
		past_training_week   TEXT NOT NULL,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,
}
