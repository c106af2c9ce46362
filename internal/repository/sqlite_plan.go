package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/db"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/google/uuid"
)

// SQLiteTrainingPlanRepo implements TrainingPlanRepo using a SQLite database.
// Each week is stored as its own row sharing a plan_id. Callers that need the
// rows written atomically run Insert against a transaction from a UnitOfWork.
type SQLiteTrainingPlanRepo struct {
	db db.DBTX
}

func NewSQLiteTrainingPlanRepo(conn db.DBTX) *SQLiteTrainingPlanRepo {
	return &SQLiteTrainingPlanRepo{db: conn}
}

func (r *SQLiteTrainingPlanRepo) Insert(ctx context.Context, athleteID int64, plan domain.TrainingPlan) (string, error) {
	if len(plan.Weeks) == 0 {
		return "", errors.New("training plan has no weeks")
	}
	planID := uuid.New().String()
	createdAt := formatTimestamp(time.Now())

	for _, w := range plan.Weeks {
		_, err := r.db.ExecContext(ctx, `INSERT INTO training_plans
			(plan_id, athlete_id, week_start_date, week_number, n_weeks_until_race,
			 week_type, notes, total_distance, long_run_distance, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			planID, athleteID, w.WeekStartDate.Format(domain.DateLayout), w.WeekNumber, w.WeeksUntilRace,
			string(w.WeekType), w.Notes, w.TotalDistance, w.LongRunDistance, createdAt,
		)
		if err != nil {
			return "", fmt.Errorf("inserting training plan week %d: %w", w.WeekNumber, err)
		}
	}
	return planID, nil
}

func (r *SQLiteTrainingPlanRepo) GetLatest(ctx context.Context, athleteID int64) (*domain.TrainingPlan, error) {
	var planID string
	err := r.db.QueryRowContext(ctx, `SELECT plan_id FROM training_plans
		WHERE athlete_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, athleteID).Scan(&planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("training plan for user %d: %w", athleteID, ErrNotFound)
		}
		return nil, fmt.Errorf("finding latest training plan: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT week_start_date, week_number, n_weeks_until_race,
			week_type, notes, total_distance, long_run_distance
		FROM training_plans WHERE plan_id = ? ORDER BY week_number`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying training plan %s: %w", planID, err)
	}
	defer rows.Close()

	plan := &domain.TrainingPlan{PlanID: planID}
	for rows.Next() {
		var (
			w        domain.TrainingPlanWeek
			start    string
			weekType string
		)
		if err := rows.Scan(&start, &w.WeekNumber, &w.WeeksUntilRace, &weekType, &w.Notes,
			&w.TotalDistance, &w.LongRunDistance); err != nil {
			return nil, fmt.Errorf("scanning training plan week: %w", err)
		}
		if w.WeekStartDate, err = time.Parse(domain.DateLayout, start); err != nil {
			return nil, fmt.Errorf("parsing week start %q: %w", start, err)
		}
		w.WeekType = domain.WeekType(weekType)
		plan.Weeks = append(plan.Weeks, w)
	}
	return plan, rows.Err()
}
