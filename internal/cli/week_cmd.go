package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/racecoach/internal/cli/formatter"
	"github.com/alexanderramin/racecoach/internal/repository"
	"github.com/spf13/cobra"
)

func newWeekCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Inspect stored training weeks",
	}
	cmd.AddCommand(newWeekShowCmd(app))
	return cmd
}

func newWeekShowCmd(app *App) *cobra.Command {
	var athleteID int64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the athlete's current training week",
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := app.Users.GetTrainingWeek(cmd.Context(), athleteID)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no training week stored for athlete %d; run update-user first", athleteID)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrainingWeek(week))
			return nil
		},
	}

	addAthleteFlag(cmd, &athleteID)

	return cmd
}

func newSummariesCmd(app *App) *cobra.Command {
	var athleteID int64
	var weeks int
	var date string

	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "Show weekly mileage totals from Strava",
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
			summaries, err := app.Users.WeeklySummaries(ctx, *user, dt, weeks)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeekSummaries(summaries))
			return nil
		},
	}

	addAthleteFlag(cmd, &athleteID)
	cmd.Flags().IntVar(&weeks, "weeks", 16, "Number of weeks of history")
	cmd.Flags().StringVar(&date, "date", "", "Window ends on this date (YYYY-MM-DD, default now)")

	return cmd
}
