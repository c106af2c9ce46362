package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/activity"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/plan"
	"github.com/alexanderramin/racecoach/internal/repository"
)

type mileageService struct {
	plans PlanService
	recs  repository.MileageRecommendationRepo
	now   func() time.Time
}

func NewMileageService(plans PlanService, recs repository.MileageRecommendationRepo) MileageService {
	return &mileageService{plans: plans, recs: recs, now: time.Now}
}

func (s *mileageService) GetOrGenerate(ctx context.Context, user domain.User, daily []domain.DailyActivity, exe domain.ExeType, dt time.Time) (domain.MileageRecommendation, error) {
	switch exe {
	case domain.NewWeek:
		return s.CreateNew(ctx, user, daily, dt, false)
	case domain.MidWeek:
		row, err := s.recs.Get(ctx, user.AthleteID, dt)
		if err != nil {
			return domain.MileageRecommendation{}, fmt.Errorf("loading mileage recommendation: %w", err)
		}
		return row.MileageRecommendation, nil
	default:
		return domain.MileageRecommendation{}, fmt.Errorf("unknown exe type %q", exe)
	}
}

func (s *mileageService) CreateNew(ctx context.Context, user domain.User, daily []domain.DailyActivity, dt time.Time, sameWeek bool) (domain.MileageRecommendation, error) {
	if err := plan.RequireWeekComplete(dt); err != nil {
		return domain.MileageRecommendation{}, err
	}

	tp, err := s.plans.Generate(ctx, user, activity.WeeklySummaries(daily), dt)
	if err != nil {
		return domain.MileageRecommendation{}, err
	}
	rec, err := plan.RecommendationFromPlan(tp)
	if err != nil {
		return domain.MileageRecommendation{}, err
	}

	weekOf := dt.AddDate(0, 0, 1)
	if sameWeek {
		weekOf = dt
	}
	year, week := weekOf.ISOWeek()
	err = s.recs.Insert(ctx, domain.MileageRecommendationRow{
		MileageRecommendation: rec,
		AthleteID:             user.AthleteID,
		Year:                  year,
		WeekOfYear:            week,
		CreatedAt:             s.now(),
	})
	if err != nil {
		return domain.MileageRecommendation{}, fmt.Errorf("storing mileage recommendation: %w", err)
	}
	return rec, nil
}
