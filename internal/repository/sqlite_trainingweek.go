package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/db"
	"github.com/alexanderramin/racecoach/internal/domain"
)

// UpdateWindow is how recently a training week must have been written for
// the athlete to count as updated today.
const UpdateWindow = 23*time.Hour + 30*time.Minute

// SQLiteTrainingWeekRepo implements TrainingWeekRepo using a SQLite database.
// There is one row per athlete; each upsert replaces it.
type SQLiteTrainingWeekRepo struct {
	db  db.DBTX
	now func() time.Time
}

func NewSQLiteTrainingWeekRepo(conn db.DBTX) *SQLiteTrainingWeekRepo {
	return &SQLiteTrainingWeekRepo{db: conn, now: time.Now}
}

// WithClock returns a copy of the repo that reads the current time from now.
func (r *SQLiteTrainingWeekRepo) WithClock(now func() time.Time) *SQLiteTrainingWeekRepo {
	return &SQLiteTrainingWeekRepo{db: r.db, now: now}
}

func (r *SQLiteTrainingWeekRepo) Get(ctx context.Context, athleteID int64) (*domain.FullTrainingWeek, error) {
	var future, past string
	err := r.db.QueryRowContext(ctx, `SELECT future_training_week, past_training_week
		FROM training_weeks WHERE athlete_id = ?`, athleteID).Scan(&future, &past)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("training week for user %d: %w", athleteID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning training week: %w", err)
	}

	var week domain.FullTrainingWeek
	if err := json.Unmarshal([]byte(future), &week.FutureTrainingWeek); err != nil {
		return nil, fmt.Errorf("decoding future training week: %w", err)
	}
	if err := json.Unmarshal([]byte(past), &week.PastTrainingWeek); err != nil {
		return nil, fmt.Errorf("decoding past training week: %w", err)
	}
	for i, s := range week.FutureTrainingWeek.Sessions {
		if s.SessionType == domain.SessionModerate {
			week.FutureTrainingWeek.Sessions[i].SessionType = domain.SessionEasy
		}
	}
	return &week, nil
}

func (r *SQLiteTrainingWeekRepo) Upsert(ctx context.Context, athleteID int64, future domain.TrainingWeek, past []domain.EnrichedActivity) error {
	if past == nil {
		past = []domain.EnrichedActivity{}
	}
	if future.Sessions == nil {
		future.Sessions = []domain.TrainingSession{}
	}
	futureJSON, err := marshalJSON(future)
	if err != nil {
		return fmt.Errorf("encoding future training week: %w", err)
	}
	pastJSON, err := marshalJSON(past)
	if err != nil {
		return fmt.Errorf("encoding past training week: %w", err)
	}
	ts := formatTimestamp(r.now())

	_, err = r.db.ExecContext(ctx, `INSERT INTO training_weeks
		(athlete_id, future_training_week, past_training_week, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(athlete_id) DO UPDATE SET
			future_training_week = excluded.future_training_week,
			past_training_week = excluded.past_training_week,
			updated_at = excluded.updated_at`,
		athleteID, futureJSON, pastJSON, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("upserting training week for user %d: %w", athleteID, err)
	}
	return nil
}

func (r *SQLiteTrainingWeekRepo) HasUserUpdatedToday(ctx context.Context, athleteID int64) (bool, error) {
	var updatedAt sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT updated_at FROM training_weeks WHERE athlete_id = ?`,
		athleteID).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking training week update time: %w", err)
	}
	t := parseNullableTime(updatedAt, timestampLayout)
	if t == nil {
		return false, nil
	}
	return t.After(r.now().Add(-UpdateWindow)), nil
}
