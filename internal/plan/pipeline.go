package plan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/llm"
)

// Options tunes the generation phases.
type Options struct {
	RetryPolicy      llm.RetryPolicy
	SkeletonAttempts int
	// Concurrency caps in-flight elaboration calls; zero means unbounded.
	Concurrency int
}

func DefaultOptions() Options {
	return Options{
		RetryPolicy:      llm.DefaultRetryPolicy(),
		SkeletonAttempts: 3,
		Concurrency:      8,
	}
}

// PlanContext is everything both generation phases read.
type PlanContext struct {
	User    domain.User
	Now     time.Time
	Stats52 Stats
	Stats16 Stats
	Ranges  []domain.WeekRange
}

// Generator runs the skeleton and elaboration phases against an LLM backend.
type Generator struct {
	client llm.LLMClient
	opts   Options
}

func NewGenerator(client llm.LLMClient, opts Options) *Generator {
	if opts.SkeletonAttempts < 1 {
		opts.SkeletonAttempts = 1
	}
	return &Generator{client: client, opts: opts}
}

// Generate builds a full training plan from the athlete's weekly history.
func (g *Generator) Generate(ctx context.Context, user domain.User, summaries []domain.WeekSummary, now time.Time) (domain.TrainingPlan, error) {
	pc := NewPlanContext(user, summaries, now)

	skeleton, err := g.Skeleton(ctx, pc)
	if err != nil {
		return domain.TrainingPlan{}, err
	}
	return g.Elaborate(ctx, pc, skeleton)
}

// NewPlanContext computes the 52 and 16 week stats over summaries ordered
// by week start, and the week ranges up to the athlete's race.
func NewPlanContext(user domain.User, summaries []domain.WeekSummary, now time.Time) PlanContext {
	sorted := append([]domain.WeekSummary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeekStartDate.Before(sorted[j].WeekStartDate)
	})
	mileages := make([]float64, len(sorted))
	for i, s := range sorted {
		mileages[i] = s.TotalDistance
	}
	recent := mileages
	if len(recent) > 16 {
		recent = recent[len(recent)-16:]
	}

	return PlanContext{
		User:    user,
		Now:     now,
		Stats52: MileageStats(mileages),
		Stats16: MileageStats(recent),
		Ranges:  WeekRanges(now, user.Preferences.RaceDate),
	}
}

// Skeleton requests one light week per range. A week count mismatch is not
// repairable, so the whole phase is retried.
func (g *Generator) Skeleton(ctx context.Context, pc PlanContext) (domain.TrainingPlanSkeleton, error) {
	prompt, err := SkeletonPrompt{
		RaceDistance: pc.User.Preferences.RaceDistance,
		RaceDate:     pc.User.Preferences.RaceDate,
		Today:        domain.DateOf(pc.Now),
		Stats52:      pc.Stats52,
		Stats16:      pc.Stats16,
		Ranges:       pc.Ranges,
	}.Build()
	if err != nil {
		return domain.TrainingPlanSkeleton{}, err
	}

	req := llm.GenerateRequest{
		Name:         "gen_training_plan",
		Task:         llm.TaskPlanSkeleton,
		SystemPrompt: skeletonSchemaPrompt,
		UserPrompt:   prompt,
	}

	var got int
	for attempt := 1; attempt <= g.opts.SkeletonAttempts; attempt++ {
		skeleton, err := llm.GenerateStructured[domain.TrainingPlanSkeleton](ctx, g.client, req, validateSkeleton, g.opts.RetryPolicy)
		if err != nil {
			return domain.TrainingPlanSkeleton{}, fmt.Errorf("generating training plan skeleton: %w", err)
		}
		if len(skeleton.Weeks) == len(pc.Ranges) {
			return skeleton, nil
		}
		got = len(skeleton.Weeks)
	}
	return domain.TrainingPlanSkeleton{}, &CardinalityError{
		Expected: len(pc.Ranges),
		Got:      got,
		Attempts: g.opts.SkeletonAttempts,
	}
}

// Elaborate classifies and annotates every skeleton week concurrently. Each
// call owns the slot of its range, so completion order does not matter.
func (g *Generator) Elaborate(ctx context.Context, pc PlanContext, skeleton domain.TrainingPlanSkeleton) (domain.TrainingPlan, error) {
	if len(skeleton.Weeks) != len(pc.Ranges) {
		return domain.TrainingPlan{}, &CardinalityError{Expected: len(pc.Ranges), Got: len(skeleton.Weeks)}
	}

	weeks := make([]domain.TrainingPlanWeek, len(pc.Ranges))
	done := make([]bool, len(pc.Ranges))

	eg, egctx := errgroup.WithContext(ctx)
	if g.opts.Concurrency > 0 {
		eg.SetLimit(g.opts.Concurrency)
	}
	for i := range pc.Ranges {
		eg.Go(func() error {
			week, err := g.elaborateWeek(egctx, pc, pc.Ranges[i], skeleton.Weeks[i])
			if err != nil {
				return fmt.Errorf("week %d: %w", pc.Ranges[i].WeekNumber, err)
			}
			weeks[i] = week
			done[i] = true
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		var completed []domain.TrainingPlanWeek
		for i, ok := range done {
			if ok {
				completed = append(completed, weeks[i])
			}
		}
		return domain.TrainingPlan{}, &ElaborationError{Completed: completed, Err: err}
	}
	return domain.TrainingPlan{Weeks: weeks}, nil
}

func (g *Generator) elaborateWeek(ctx context.Context, pc PlanContext, r domain.WeekRange, light domain.TrainingPlanWeekLight) (domain.TrainingPlanWeek, error) {
	prompt, err := WeekPrompt{
		RaceDistance: pc.User.Preferences.RaceDistance,
		RaceDate:     pc.User.Preferences.RaceDate,
		Today:        domain.DateOf(pc.Now),
		Stats52:      pc.Stats52,
		Stats16:      pc.Stats16,
		Light:        light,
		BlockLength:  len(pc.Ranges),
	}.Build()
	if err != nil {
		return domain.TrainingPlanWeek{}, err
	}

	gen, err := llm.GenerateStructured[domain.TrainingPlanWeekGeneration](ctx, g.client, llm.GenerateRequest{
		Name:         "gen_training_plan_week",
		Task:         llm.TaskPlanWeek,
		SystemPrompt: weekSchemaPrompt,
		UserPrompt:   prompt,
	}, validateWeekGeneration, g.opts.RetryPolicy)
	if err != nil {
		return domain.TrainingPlanWeek{}, err
	}

	return domain.TrainingPlanWeek{
		WeekStartDate:   r.StartDate,
		WeekNumber:      r.WeekNumber,
		WeeksUntilRace:  r.WeeksUntilRace,
		WeekType:        gen.WeekType,
		TotalDistance:   light.Volume,
		LongRunDistance: light.LongRun,
		Notes:           gen.Notes,
	}, nil
}

// RecommendationFromPlan extracts the upcoming week's targets.
func RecommendationFromPlan(p domain.TrainingPlan) (domain.MileageRecommendation, error) {
	if len(p.Weeks) == 0 {
		return domain.MileageRecommendation{}, errors.New("training plan has no weeks")
	}
	next := p.Weeks[0]
	return domain.MileageRecommendation{
		Thoughts:    next.Notes,
		TotalVolume: next.TotalDistance,
		LongRun:     next.LongRunDistance,
	}, nil
}

func validateSkeleton(s domain.TrainingPlanSkeleton) error {
	for i, w := range s.Weeks {
		if !w.WeekType.Valid() {
			return fmt.Errorf("weeks[%d]: invalid week_type %q", i, w.WeekType)
		}
		if w.Volume < 0 || w.LongRun < 0 {
			return fmt.Errorf("weeks[%d]: volume and long_run must be non-negative", i)
		}
	}
	return nil
}

func validateWeekGeneration(w domain.TrainingPlanWeekGeneration) error {
	if !w.WeekType.Valid() {
		return fmt.Errorf("invalid week_type %q", w.WeekType)
	}
	if strings.TrimSpace(w.Notes) == "" {
		return errors.New("notes must not be empty")
	}
	return nil
}
