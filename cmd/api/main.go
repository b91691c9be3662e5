package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobwatch/activity"
	"jobwatch/calendar"
	"jobwatch/config"
	"jobwatch/db"
	"jobwatch/directory"
	"jobwatch/escalation"
	"jobwatch/job"
	"jobwatch/notify"
	"jobwatch/scheduler"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("JOBWATCH_CONFIG"))
	if err != nil {
		return err
	}
	restDay, err := cfg.RestDay()
	if err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cal := calendar.New(restDay)
	policy := escalation.NewPolicy(
		escalation.Rule{Level: escalation.Level1, ThresholdHours: cfg.Escalation.Level1Hours, Scope: escalation.ScopeAssignee},
		escalation.Rule{Level: escalation.Level2, ThresholdHours: cfg.Escalation.Level2Hours, Scope: escalation.ScopeFullChain},
	)

	jobs := job.NewRepository(pool)
	users := directory.NewRepository(pool)
	sink := notify.NewSink(pool)

	evaluator := escalation.NewEvaluator(cal, policy, cfg.Escalation.CooldownHours)
	resolver := escalation.NewResolver(policy, users)
	dispatcher := notify.NewDispatcher(sink, jobs, logger)
	checker := scheduler.New(jobs, evaluator, resolver, dispatcher, logger,
		cfg.Scheduler.Workers, cfg.JobTimeout())

	recorder := activity.NewService(pool, nil, jobs, users, cal, cfg.Escalation.SnoozeHours)

	server := NewServer(checker, recorder, cfg.CronSecret, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
