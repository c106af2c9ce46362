package cli

import (
	"fmt"

	"github.com/alexanderramin/racecoach/internal/cli/formatter"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/plan"
	"github.com/alexanderramin/racecoach/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and inspect training plans",
	}

	cmd.AddCommand(
		newPlanGenerateCmd(app),
		newPlanShowCmd(app),
	)

	return cmd
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	var athleteID int64
	var date string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and store a new training plan from the last year of running",
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := loadUser(ctx, app, athleteID)
			if err != nil {
				return err
			}

			var tp domain.TrainingPlan
			err = withSpinner(cmd, app, "Drafting training plan...", func() error {
				summaries, err := app.Users.WeeklySummaries(ctx, *user, dt, service.HistoryWeeks)
				if err != nil {
					return err
				}
				tp, err = app.Plans.Generate(ctx, *user, summaries, dt)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrainingPlan(&tp))
			if rec, err := plan.RecommendationFromPlan(tp); err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecommendation(rec))
			}
			return nil
		},
	}

	addAthleteFlag(cmd, &athleteID)
	cmd.Flags().StringVar(&date, "date", "", "Plan as of this date (YYYY-MM-DD, default now)")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	var athleteID int64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the athlete's most recent training plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			tp, err := app.Plans.GetLatest(cmd.Context(), athleteID)
			if err != nil {
				return fmt.Errorf("training plan for athlete %d: %w", athleteID, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrainingPlan(tp))
			return nil
		},
	}

	addAthleteFlag(cmd, &athleteID)

	return cmd
}
