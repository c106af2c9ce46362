package trainingweek

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/racecoach/internal/activity"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/llm"
)

// pseudoWeekWindow is how many recent days the pseudo week prompt sees.
const pseudoWeekWindow = 14

// Builder generates a FullTrainingWeek from daily history and a mileage
// recommendation.
type Builder struct {
	client      llm.LLMClient
	policy      llm.RetryPolicy
	concurrency int
}

func NewBuilder(client llm.LLMClient, policy llm.RetryPolicy, concurrency int) *Builder {
	return &Builder{client: client, policy: policy, concurrency: concurrency}
}

// Input is everything one training week build reads. Details resolves the
// activities of elapsed days and must be bound to the athlete.
type Input struct {
	User           domain.User
	Daily          []domain.DailyActivity
	Recommendation domain.MileageRecommendation
	Exe            domain.ExeType
	Now            time.Time
	Details        activity.DetailSource
}

// Build annotates the elapsed days and plans the remaining ones.
func (b *Builder) Build(ctx context.Context, in Input) (domain.FullTrainingWeek, error) {
	rest := RemainingDays(in.Now, in.Exe)

	past, err := b.PastWeek(ctx, in.User, in.Daily, rest, in.Details)
	if err != nil {
		return domain.FullTrainingWeek{}, err
	}

	pseudo, err := b.PseudoWeek(ctx, PseudoWeekPrompt{
		Preferences:    in.User.Preferences,
		RecentDays:     LastNDays(in.Daily, pseudoWeekWindow),
		Mileage:        WeekMileage(past, in.Recommendation),
		Recommendation: in.Recommendation,
		RestOfWeek:     rest,
	})
	if err != nil {
		return domain.FullTrainingWeek{}, err
	}

	future, err := b.TrainingWeek(ctx, in.User, pseudo, in.Recommendation)
	if err != nil {
		return domain.FullTrainingWeek{}, err
	}

	return domain.FullTrainingWeek{PastTrainingWeek: past, FutureTrainingWeek: future}, nil
}

// PastWeek pairs every elapsed day of the week with coach notes.
func (b *Builder) PastWeek(ctx context.Context, user domain.User, daily []domain.DailyActivity, rest []domain.Day, details activity.DetailSource) ([]domain.EnrichedActivity, error) {
	days := PastWeek(daily, rest)
	out := make([]domain.EnrichedActivity, len(days))

	eg, egctx := errgroup.WithContext(ctx)
	if b.concurrency > 0 {
		eg.SetLimit(b.concurrency)
	}
	for i, day := range days {
		eg.Go(func() error {
			notes, err := b.CoachNotes(egctx, user, PastSevenDays(daily, day), day, details)
			if err != nil {
				return fmt.Errorf("coach notes for %s: %w", day.Date.Format(domain.DateLayout), err)
			}
			out[i] = domain.EnrichedActivity{Activity: day, CoachesNotes: notes}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CoachNotes writes a short commentary on one day. Days without a recorded
// activity use a zero DetailedActivity instead of calling details.
func (b *Builder) CoachNotes(ctx context.Context, user domain.User, pastDays []domain.DailyActivity, day domain.DailyActivity, details activity.DetailSource) (string, error) {
	today := []domain.DetailedActivity{{}}
	if len(day.ActivityIDs) > 0 {
		today = make([]domain.DetailedActivity, 0, len(day.ActivityIDs))
		for _, id := range day.ActivityIDs {
			d, err := details.GetActivityDetail(ctx, id)
			if err != nil {
				return "", fmt.Errorf("activity %d: %w", id, err)
			}
			today = append(today, d)
		}
	}

	prompt, err := CoachNotesPrompt{
		Preferences: user.Preferences,
		PastDays:    pastDays,
		Day:         day.DayOfWeek,
		Today:       today,
	}.Build()
	if err != nil {
		return "", err
	}

	return llm.Complete(ctx, b.client, llm.GenerateRequest{
		Name:       "gen_coaches_notes",
		Task:       llm.TaskCoachNotes,
		UserPrompt: prompt,
	})
}

// PseudoWeek drafts the remaining days. Nothing left to plan yields an
// empty week without a backend call.
func (b *Builder) PseudoWeek(ctx context.Context, p PseudoWeekPrompt) (domain.PseudoTrainingWeek, error) {
	if len(p.RestOfWeek) == 0 {
		return domain.PseudoTrainingWeek{Days: []domain.PseudoTrainingDay{}}, nil
	}
	prompt, err := p.Build()
	if err != nil {
		return domain.PseudoTrainingWeek{}, err
	}
	return llm.GenerateStructured[domain.PseudoTrainingWeek](ctx, b.client, llm.GenerateRequest{
		Name:         "gen_pseudo_training_week",
		Task:         llm.TaskPseudoWeek,
		SystemPrompt: pseudoWeekSchemaPrompt,
		UserPrompt:   prompt,
	}, validatePseudoWeek, b.policy)
}

// TrainingWeek elaborates the pseudo week into sessions. An empty pseudo
// week yields an empty training week without a backend call.
func (b *Builder) TrainingWeek(ctx context.Context, user domain.User, pseudo domain.PseudoTrainingWeek, rec domain.MileageRecommendation) (domain.TrainingWeek, error) {
	if len(pseudo.Days) == 0 {
		return domain.TrainingWeek{Sessions: []domain.TrainingSession{}}, nil
	}
	prompt, err := TrainingWeekPrompt{
		Preferences:    user.Preferences,
		Pseudo:         pseudo,
		Recommendation: rec,
	}.Build()
	if err != nil {
		return domain.TrainingWeek{}, err
	}
	return llm.GenerateStructured[domain.TrainingWeek](ctx, b.client, llm.GenerateRequest{
		Name:         "gen_training_week",
		Task:         llm.TaskTrainingWeek,
		SystemPrompt: trainingWeekSchemaPrompt,
		UserPrompt:   prompt,
	}, validateTrainingWeek, b.policy)
}

func validatePseudoWeek(w domain.PseudoTrainingWeek) error {
	for i, d := range w.Days {
		if !d.Day.Valid() {
			return fmt.Errorf("days[%d]: invalid day %q", i, d.Day)
		}
		if !d.SessionType.Valid() {
			return fmt.Errorf("days[%d]: invalid session_type %q", i, d.SessionType)
		}
		if d.Distance < 0 {
			return fmt.Errorf("days[%d]: negative distance", i)
		}
	}
	return nil
}

func validateTrainingWeek(w domain.TrainingWeek) error {
	for i, s := range w.Sessions {
		if !s.Day.Valid() {
			return fmt.Errorf("sessions[%d]: invalid day %q", i, s.Day)
		}
		if !s.SessionType.Valid() {
			return fmt.Errorf("sessions[%d]: invalid session_type %q", i, s.SessionType)
		}
		if s.Distance < 0 {
			return fmt.Errorf("sessions[%d]: negative distance", i)
		}
	}
	return nil
}
