package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/racecoach/internal/cli/formatter"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage athletes",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserPrefsCmd(app),
	)

	return cmd
}

// userInput is the raw text of every user field, shared by flags and the
// interactive form.
type userInput struct {
	AthleteID    string
	Email        string
	AccessToken  string
	DeviceToken  string
	RaceDistance string
	RaceDate     string
	IdealWeek    string
}

func (in userInput) preferences(app *App) (domain.Preferences, error) {
	var p domain.Preferences
	var err error
	if p.RaceDistance, err = parseRaceDistance(in.RaceDistance); err != nil {
		return p, err
	}
	if p.RaceDate, err = parseRaceDate(app, in.RaceDate); err != nil {
		return p, err
	}
	if p.IdealTrainingWeek, err = parseIdealWeek(in.IdealWeek); err != nil {
		return p, err
	}
	return p, nil
}

func (in userInput) user(app *App) (*domain.User, error) {
	id, err := strconv.ParseInt(in.AthleteID, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("invalid athlete ID %q", in.AthleteID)
	}
	if in.AccessToken == "" {
		return nil, fmt.Errorf("a Strava access token is required")
	}
	prefs, err := in.preferences(app)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		AthleteID:   id,
		Email:       in.Email,
		AccessToken: in.AccessToken,
		DeviceToken: in.DeviceToken,
		Preferences: prefs,
	}, nil
}

func addPreferenceFlags(cmd *cobra.Command, in *userInput) {
	cmd.Flags().StringVar(&in.RaceDistance, "race-distance", "", "Goal race (5K, 10K, Half Marathon, Marathon, Ultra Marathon, none)")
	cmd.Flags().StringVar(&in.RaceDate, "race-date", "", "Goal race date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.IdealWeek, "ideal-week", "", `Preferred sessions, e.g. "sat:long run,tues:speed workout"`)
}

func newUserAddCmd(app *App) *cobra.Command {
	var in userInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace an athlete",
		Long:  "Prompts for every field when run in a terminal without --athlete.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.AthleteID == "" {
				if !app.interactive() {
					return fmt.Errorf("--athlete is required when not running in a terminal")
				}
				if err := userForm(&in).RunWithContext(cmd.Context()); err != nil {
					return err
				}
			}

			u, err := in.user(app)
			if err != nil {
				return err
			}
			if err := app.Users.Save(cmd.Context(), u); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved athlete %d (%s)\n", u.AthleteID, formatter.RaceLabel(u.Preferences))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.AthleteID, "athlete", "", "Strava athlete ID")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.AccessToken, "access-token", "", "Strava access token")
	cmd.Flags().StringVar(&in.DeviceToken, "device-token", "", "Push notification device token")
	addPreferenceFlags(cmd, &in)

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List athletes",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No athletes found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUserList(users))
			return nil
		},
	}
}

func newUserPrefsCmd(app *App) *cobra.Command {
	var athleteID int64
	var in userInput

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Replace an athlete's training preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := in.preferences(app)
			if err != nil {
				return err
			}
			if err := app.Users.UpdatePreferences(cmd.Context(), athleteID, prefs); err != nil {
				return fmt.Errorf("athlete %d: %w", athleteID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated preferences for athlete %d\n", athleteID)
			return nil
		},
	}

	addAthleteFlag(cmd, &athleteID)
	addPreferenceFlags(cmd, &in)

	return cmd
}
