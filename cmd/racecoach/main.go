package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/racecoach/internal/cli"
	"github.com/alexanderramin/racecoach/internal/config"
	"github.com/alexanderramin/racecoach/internal/db"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/llm"
	"github.com/alexanderramin/racecoach/internal/metrics"
	"github.com/alexanderramin/racecoach/internal/notify"
	"github.com/alexanderramin/racecoach/internal/plan"
	"github.com/alexanderramin/racecoach/internal/platform/logger"
	"github.com/alexanderramin/racecoach/internal/repository"
	"github.com/alexanderramin/racecoach/internal/service"
	"github.com/alexanderramin/racecoach/internal/strava"
	"github.com/alexanderramin/racecoach/internal/trainingweek"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	weekRepo := repository.NewSQLiteTrainingWeekRepo(database)
	recRepo := repository.NewSQLiteMileageRecommendationRepo(database)
	planRepo := repository.NewSQLiteTrainingPlanRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Generation backend, observed by logs, the JSONL trace and Prometheus.
	observers := []llm.Observer{metrics.LLMObserver{}}
	if cfg.LLM.LogCalls {
		observers = append(observers, llm.NewLogObserver(log))
	}
	if cfg.ObserveFile != "" {
		jsonl, err := llm.NewJSONLObserver(cfg.ObserveFile, log)
		if err != nil {
			log.Warn("observation file disabled", "path", cfg.ObserveFile, "error", err)
		} else {
			defer jsonl.Close()
			observers = append(observers, jsonl)
		}
	}
	client := llm.New(cfg.LLM, llm.MultiObserver(observers...))

	planOpts := plan.DefaultOptions()
	planOpts.RetryPolicy = cfg.LLM.RetryPolicy()
	planOpts.Concurrency = cfg.LLM.ElaborationConcurrency
	generator := plan.NewGenerator(client, planOpts)
	builder := trainingweek.NewBuilder(client, cfg.LLM.RetryPolicy(), cfg.LLM.ElaborationConcurrency)

	var alerter notify.Alerter = notify.NoopAlerter{}
	if cfg.SendGrid.Enabled() {
		alerter = notify.NewSendGridAlerter(cfg.SendGrid)
	}
	var pusher notify.Pusher = notify.NoopPusher{}
	if cfg.Push.Enabled() {
		pusher = notify.NewGatewayPusher(cfg.Push)
	}

	sources := func(u domain.User) (service.ActivityClient, error) {
		if u.AccessToken == "" {
			return nil, fmt.Errorf("athlete %d has no Strava access token", u.AthleteID)
		}
		return strava.NewClient(cfg.Strava, u.AccessToken), nil
	}

	// Wire services
	useCases := service.NewLogUseCaseObserver(log)
	planSvc := service.NewPlanService(generator, planRepo, uow, useCases)
	mileageSvc := service.NewMileageService(planSvc, recRepo)

	app := &cli.App{
		Users: service.NewUserService(userRepo, weekRepo, sources),
		Plans: planSvc,
		Update: service.NewUpdateService(service.UpdateDeps{
			Users:       userRepo,
			Weeks:       weekRepo,
			Mileage:     mileageSvc,
			Builder:     builder,
			Sources:     sources,
			Alerter:     alerter,
			Pusher:      pusher,
			Log:         log,
			Concurrency: cfg.BatchConcurrency,
		}, useCases),
		Location:    cfg.Location(),
		Now:         cfg.Now,
		MetricsAddr: cfg.MetricsAddr,
		ServeMetrics: func(ctx context.Context, addr string) error {
			metrics.Serve(ctx, addr, log)
			<-ctx.Done()
			return nil
		},
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
