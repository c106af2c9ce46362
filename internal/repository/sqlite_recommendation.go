package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/db"
	"github.com/alexanderramin/racecoach/internal/domain"
)

// SQLiteMileageRecommendationRepo implements MileageRecommendationRepo using a
// SQLite database. Rows are keyed by athlete and ISO (year, week).
type SQLiteMileageRecommendationRepo struct {
	db db.DBTX
}

func NewSQLiteMileageRecommendationRepo(conn db.DBTX) *SQLiteMileageRecommendationRepo {
	return &SQLiteMileageRecommendationRepo{db: conn}
}

func (r *SQLiteMileageRecommendationRepo) Get(ctx context.Context, athleteID int64, dt time.Time) (*domain.MileageRecommendationRow, error) {
	year, week := dt.ISOWeek()
	row := r.db.QueryRowContext(ctx, `SELECT athlete_id, year, week_of_year, thoughts, total_volume, long_run, created_at
		FROM mileage_recommendations WHERE athlete_id = ? AND year = ? AND week_of_year = ?`,
		athleteID, year, week)

	var (
		rec       domain.MileageRecommendationRow
		createdAt string
	)
	err := row.Scan(&rec.AthleteID, &rec.Year, &rec.WeekOfYear, &rec.Thoughts, &rec.TotalVolume, &rec.LongRun, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("mileage recommendation for user %d week %d-%02d: %w", athleteID, year, week, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning mileage recommendation: %w", err)
	}
	if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteMileageRecommendationRepo) Insert(ctx context.Context, row domain.MileageRecommendationRow) error {
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO mileage_recommendations
		(athlete_id, year, week_of_year, thoughts, total_volume, long_run, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(athlete_id, year, week_of_year) DO UPDATE SET
			thoughts = excluded.thoughts,
			total_volume = excluded.total_volume,
			long_run = excluded.long_run,
			created_at = excluded.created_at`,
		row.AthleteID, row.Year, row.WeekOfYear, row.Thoughts, row.TotalVolume, row.LongRun, formatTimestamp(row.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting mileage recommendation: %w", err)
	}
	return nil
}
