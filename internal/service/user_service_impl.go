package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/activity"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/repository"
)

type userService struct {
	users   repository.UserRepo
	weeks   repository.TrainingWeekRepo
	sources SourceFactory
}

func NewUserService(users repository.UserRepo, weeks repository.TrainingWeekRepo, sources SourceFactory) UserService {
	return &userService{users: users, weeks: weeks, sources: sources}
}

func (s *userService) Get(ctx context.Context, athleteID int64) (*domain.User, error) {
	return s.users.Get(ctx, athleteID)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Save(ctx context.Context, u *domain.User) error {
	if err := validatePreferences(u.Preferences); err != nil {
		return err
	}
	return s.users.Upsert(ctx, u)
}

func (s *userService) UpdatePreferences(ctx context.Context, athleteID int64, prefs domain.Preferences) error {
	if err := validatePreferences(prefs); err != nil {
		return err
	}
	return s.users.UpdatePreferences(ctx, athleteID, prefs)
}

func (s *userService) GetTrainingWeek(ctx context.Context, athleteID int64) (*domain.FullTrainingWeek, error) {
	return s.weeks.Get(ctx, athleteID)
}

func (s *userService) WeeklySummaries(ctx context.Context, user domain.User, dt time.Time, numWeeks int) ([]domain.WeekSummary, error) {
	if numWeeks < 1 {
		return nil, fmt.Errorf("weeks must be at least 1, got %d", numWeeks)
	}
	src, err := s.sources(user)
	if err != nil {
		return nil, fmt.Errorf("building activity source: %w", err)
	}
	return activity.LoadWeeklySummaries(ctx, src, dt, numWeeks)
}

func validatePreferences(p domain.Preferences) error {
	if p.RaceDistance != nil && !p.RaceDistance.Valid() {
		return fmt.Errorf("invalid race distance %q", *p.RaceDistance)
	}
	for i, s := range p.IdealTrainingWeek {
		if !s.Day.Valid() {
			return fmt.Errorf("ideal_training_week[%d]: invalid day %q", i, s.Day)
		}
		if !s.SessionType.Valid() {
			return fmt.Errorf("ideal_training_week[%d]: invalid session type %q", i, s.SessionType)
		}
	}
	return nil
}
