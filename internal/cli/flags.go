package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/racecoach/internal/cli/formatter"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resolveDate turns a --date flag into the instant a run is evaluated at.
// An explicit date means the end of that day, so its activities count.
func resolveDate(app *App, value string) (time.Time, error) {
	if value == "" {
		return app.now(), nil
	}
	d, err := time.ParseInLocation(domain.DateLayout, value, app.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", value)
	}
	return d.Add(24*time.Hour - time.Second), nil
}

func parseExeType(mode string) (domain.ExeType, error) {
	switch strings.ToLower(strings.ReplaceAll(mode, "_", "-")) {
	case "new-week":
		return domain.NewWeek, nil
	case "mid-week":
		return domain.MidWeek, nil
	default:
		return "", fmt.Errorf("invalid mode %q: use new-week or mid-week", mode)
	}
}

// exeTypeFlag validates --mode at parse time.
type exeTypeFlag domain.ExeType

var _ pflag.Value = (*exeTypeFlag)(nil)

func (f *exeTypeFlag) String() string {
	switch domain.ExeType(*f) {
	case domain.NewWeek:
		return "new-week"
	case domain.MidWeek:
		return "mid-week"
	}
	return string(*f)
}

func (f *exeTypeFlag) Set(v string) error {
	exe, err := parseExeType(v)
	if err != nil {
		return err
	}
	*f = exeTypeFlag(exe)
	return nil
}

func (f *exeTypeFlag) Type() string { return "mode" }

func parseRaceDistance(s string) (*domain.RaceDistance, error) {
	if s == "" {
		return nil, nil
	}
	for _, d := range domain.RaceDistances {
		if strings.EqualFold(string(d), s) {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("invalid race distance %q", s)
}

func parseRaceDate(app *App, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(domain.DateLayout, s, app.location())
	if err != nil {
		return nil, fmt.Errorf("invalid race date %q: use YYYY-MM-DD", s)
	}
	return &d, nil
}

// parseIdealWeek reads "sat:long run,tues:speed workout".
func parseIdealWeek(s string) ([]domain.TheoreticalTrainingSession, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []domain.TheoreticalTrainingSession
	for _, part := range strings.Split(s, ",") {
		day, session, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("ideal week entry %q: want day:session", part)
		}
		ts := domain.TheoreticalTrainingSession{
			Day:         domain.Day(strings.ToLower(strings.TrimSpace(day))),
			SessionType: domain.SessionType(strings.ToLower(strings.TrimSpace(session))),
		}
		if !ts.Day.Valid() {
			return nil, fmt.Errorf("ideal week entry %q: unknown day %q", part, ts.Day)
		}
		if !ts.SessionType.Valid() {
			return nil, fmt.Errorf("ideal week entry %q: unknown session %q", part, ts.SessionType)
		}
		out = append(out, ts)
	}
	return out, nil
}

// loadUser resolves --athlete into a stored user.
func loadUser(ctx context.Context, app *App, athleteID int64) (*domain.User, error) {
	if athleteID == 0 {
		return nil, fmt.Errorf("--athlete is required")
	}
	u, err := app.Users.Get(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("athlete %d: %w", athleteID, err)
	}
	return u, nil
}

func addAthleteFlag(cmd *cobra.Command, athleteID *int64) {
	cmd.Flags().Int64Var(athleteID, "athlete", 0, "Strava athlete ID")
	_ = cmd.MarkFlagRequired("athlete")
}

// withSpinner runs fn behind a spinner when the terminal is interactive.
func withSpinner(cmd *cobra.Command, app *App, message string, fn func() error) error {
	if !app.interactive() {
		return fn()
	}
	stop := formatter.StartSpinner(cmd.ErrOrStderr(), message)
	defer stop()
	return fn()
}
