package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/db"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/plan"
	"github.com/alexanderramin/racecoach/internal/repository"
)

type planService struct {
	generator *plan.Generator
	plans     repository.TrainingPlanRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewPlanService(
	generator *plan.Generator,
	plans repository.TrainingPlanRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		generator: generator,
		plans:     plans,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Generate(ctx context.Context, user domain.User, summaries []domain.WeekSummary, now time.Time) (tp domain.TrainingPlan, err error) {
	fields := map[string]any{"athlete_id": user.AthleteID}
	defer observe(ctx, s.observer, "generate-plan", time.Now(), &err, fields)

	tp, err = s.generator.Generate(ctx, user, summaries, now)
	if err != nil {
		return domain.TrainingPlan{}, fmt.Errorf("generating training plan: %w", err)
	}
	fields["weeks"] = len(tp.Weeks)

	tp.PlanID, err = db.InTx(ctx, s.uow, func(ctx context.Context, tx db.DBTX) (string, error) {
		return repository.NewSQLiteTrainingPlanRepo(tx).Insert(ctx, user.AthleteID, tp)
	})
	if err != nil {
		return domain.TrainingPlan{}, fmt.Errorf("storing training plan: %w", err)
	}
	fields["plan_id"] = tp.PlanID
	return tp, nil
}

func (s *planService) GetLatest(ctx context.Context, athleteID int64) (*domain.TrainingPlan, error) {
	return s.plans.GetLatest(ctx, athleteID)
}
