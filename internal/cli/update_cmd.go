package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/racecoach/internal/cli/formatter"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/spf13/cobra"
)

func newUpdateAllCmd(app *App) *cobra.Command {
	var date string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "update-all",
		Short: "Update the training week of every athlete",
		Long: "On Sunday every athlete gets a new week and a fresh mileage recommendation.\n" +
			"On other days athletes not updated in the last day get a mid-week refresh.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := resolveDate(app, date)
			if err != nil {
				return err
			}

			batch, err := app.Update.UpdateAllUsers(cmd.Context(), dt)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(batch); encErr != nil {
					return encErr
				}
			} else if err == nil {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBatchResult(batch))
			}
			if err != nil {
				return err
			}
			if n := batch.Failed(); n > 0 {
				return fmt.Errorf("%d of %d athlete updates failed", n, len(batch.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Run as of this date (YYYY-MM-DD, default now)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the batch result as JSON")

	return cmd
}

func newUpdateUserCmd(app *App) *cobra.Command {
	var athleteID int64
	var date string
	mode := exeTypeFlag(domain.MidWeek)

	cmd := &cobra.Command{
		Use:   "update-user",
		Short: "Update one athlete's training week",
		RunE: func(cmd *cobra.Command, args []string) error {
			exe := domain.ExeType(mode)
			dt, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := loadUser(ctx, app, athleteID)
			if err != nil {
				return err
			}

			err = withSpinner(cmd, app, "Coaching "+string(exe)+"...", func() error {
				_, err := app.Update.UpdateTrainingWeek(ctx, *user, exe, dt)
				return err
			})
			if err != nil {
				return err
			}

			week, err := app.Users.GetTrainingWeek(ctx, user.AthleteID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrainingWeek(week))
			return nil
		},
	}

	addAthleteFlag(cmd, &athleteID)
	cmd.Flags().Var(&mode, "mode", "new-week (Sunday only) or mid-week")
	cmd.Flags().StringVar(&date, "date", "", "Run as of this date (YYYY-MM-DD, default now)")

	return cmd
}

func newRefreshCmd(app *App) *cobra.Command {
	var athleteID int64
	var date string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Regenerate an athlete's recommendation and rebuild this week",
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

			err = withSpinner(cmd, app, "Refreshing training data...", func() error {
				_, err := app.Update.RefreshUserData(ctx, *user, dt)
				return err
			})
			if err != nil {
				return err
			}

			week, err := app.Users.GetTrainingWeek(ctx, user.AthleteID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrainingWeek(week))
			return nil
		},
	}

	addAthleteFlag(cmd, &athleteID)
	cmd.Flags().StringVar(&date, "date", "", "Run as of this date (YYYY-MM-DD, default now)")

	return cmd
}
