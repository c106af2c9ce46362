package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

type UserRepo interface {
	Get(ctx context.Context, athleteID int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Upsert(ctx context.Context, u *domain.User) error
	UpdatePreferences(ctx context.Context, athleteID int64, prefs domain.Preferences) error
}

type MileageRecommendationRepo interface {
	// Get returns the recommendation stored for the ISO week containing dt.
	Get(ctx context.Context, athleteID int64, dt time.Time) (*domain.MileageRecommendationRow, error)
	// Insert stores row, replacing any recommendation for the same week.
	Insert(ctx context.Context, row domain.MileageRecommendationRow) error
}

type TrainingPlanRepo interface {
	// Insert stores every week of plan under a fresh plan id and returns it.
	Insert(ctx context.Context, athleteID int64, plan domain.TrainingPlan) (string, error)
	// GetLatest returns the most recently inserted plan ordered by week number.
	GetLatest(ctx context.Context, athleteID int64) (*domain.TrainingPlan, error)
}

type TrainingWeekRepo interface {
	Get(ctx context.Context, athleteID int64) (*domain.FullTrainingWeek, error)
	Upsert(ctx context.Context, athleteID int64, future domain.TrainingWeek, past []domain.EnrichedActivity) error
	// HasUserUpdatedToday reports whether the athlete's week was written in
	// the last UpdateWindow.
	HasUserUpdatedToday(ctx context.Context, athleteID int64) (bool, error)
}
