package service

import (
	"context"
	"time"

	"github.com/alexanderramin/racecoach/internal/activity"
	"github.com/alexanderramin/racecoach/internal/domain"
)

// ActivityClient reads one athlete's runs and their details.
type ActivityClient interface {
	activity.Source
	activity.DetailSource
}

// SourceFactory builds the activity client bound to user's credentials.
type SourceFactory func(user domain.User) (ActivityClient, error)

type PlanService interface {
	// Generate builds a plan from weekly history and persists it.
	Generate(ctx context.Context, user domain.User, summaries []domain.WeekSummary, now time.Time) (domain.TrainingPlan, error)
	GetLatest(ctx context.Context, athleteID int64) (*domain.TrainingPlan, error)
}

type MileageService interface {
	// GetOrGenerate creates next week's recommendation on NEW_WEEK and reads
	// the current week's stored one on MID_WEEK.
	GetOrGenerate(ctx context.Context, user domain.User, daily []domain.DailyActivity, exe domain.ExeType, dt time.Time) (domain.MileageRecommendation, error)
	// CreateNew generates and stores a recommendation. With sameWeek it is
	// stored under dt's own week instead of the following one.
	CreateNew(ctx context.Context, user domain.User, daily []domain.DailyActivity, dt time.Time, sameWeek bool) (domain.MileageRecommendation, error)
}

type UpdateService interface {
	UpdateTrainingWeek(ctx context.Context, user domain.User, exe domain.ExeType, dt time.Time) (domain.FullTrainingWeek, error)
	// UpdateTrainingWeekSafe never returns an error; failures are logged,
	// alerted and reported in the Result.
	UpdateTrainingWeekSafe(ctx context.Context, user domain.User, exe domain.ExeType, dt time.Time) Result
	UpdateAllUsers(ctx context.Context, dt time.Time) (BatchResult, error)
	RefreshUserData(ctx context.Context, user domain.User, dt time.Time) (domain.FullTrainingWeek, error)
}

type UserService interface {
	Get(ctx context.Context, athleteID int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Save(ctx context.Context, u *domain.User) error
	UpdatePreferences(ctx context.Context, athleteID int64, prefs domain.Preferences) error
	GetTrainingWeek(ctx context.Context, athleteID int64) (*domain.FullTrainingWeek, error)
	WeeklySummaries(ctx context.Context, user domain.User, dt time.Time, numWeeks int) ([]domain.WeekSummary, error)
}
