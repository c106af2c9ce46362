package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/racecoach/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and process hooks used by CLI commands.
type App struct {
	Users  service.UserService
	Update service.UpdateService
	Plans  service.PlanService

	// Location interprets --date flags. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// ServeMetrics blocks serving /metrics on addr until ctx is done. Nil
	// disables --metrics-addr.
	ServeMetrics func(ctx context.Context, addr string) error
	// MetricsAddr is the --metrics-addr default.
	MetricsAddr string
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().In(a.location())
	}
	return time.Now().In(a.location())
}

func (a *App) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "racecoach" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var metricsAddr string
	stopMetrics := func() {}

	root := &cobra.Command{
		Use:           "racecoach",
		Short:         "Generate weekly running plans from Strava history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if metricsAddr == "" || app.ServeMetrics == nil {
				return nil
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			done := make(chan struct{})
			go func() {
				defer close(done)
				if err := app.ServeMetrics(ctx, metricsAddr); err != nil {
					cmd.PrintErrf("metrics listener: %v\n", err)
				}
			}()
			stopMetrics = func() {
				cancel()
				<-done
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			stopMetrics()
		},
	}
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", app.MetricsAddr, "Serve Prometheus metrics on this address while the command runs (e.g. :9090)")

	root.AddCommand(
		newUpdateAllCmd(app),
		newUpdateUserCmd(app),
		newRefreshCmd(app),
		newPlanCmd(app),
		newWeekCmd(app),
		newSummariesCmd(app),
		newUserCmd(app),
	)

	return root
}
