// Package scheduler drives the escalation pass. It owns no timer: an
// external trigger calls RunOnce, which evaluates every non-terminal job,
// resolves recipients for the ones that crossed a threshold, and dispatches
// notifications through the outbox.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"jobwatch/escalation"
	"jobwatch/job"
)

// JobSource lists the jobs eligible for evaluation.
type JobSource interface {
	ListActive(ctx context.Context) ([]job.Job, error)
}

// RecipientResolver expands a level into user ids.
type RecipientResolver interface {
	Resolve(ctx context.Context, j job.Job, level escalation.Level) ([]string, error)
}

// Dispatcher writes the notifications and advances the marker.
type Dispatcher interface {
	Dispatch(ctx context.Context, j job.Job, level escalation.Level, recipients []string, now time.Time) (int, error)
}

// Summary is what the trigger caller receives.
type Summary struct {
	JobsChecked       int
	NotificationsSent int
	EvaluatedAt       time.Time
}

// Result captures the outcome for a single job within a pass. Failures are
// values here, not control flow: one broken job never aborts the others.
type Result struct {
	JobID string
	Level escalation.Level
	Sent  int
	Err   error
}

// Scheduler runs one evaluation pass over all active jobs.
type Scheduler struct {
	jobs       JobSource
	evaluator  escalation.Evaluator
	resolver   RecipientResolver
	dispatcher Dispatcher
	logger     *slog.Logger
	workers    int
	jobTimeout time.Duration
}

// New wires a scheduler. workers bounds per-job parallelism within a pass;
// jobTimeout caps the store I/O for a single job so one slow job cannot
// stall the whole pass.
func New(jobs JobSource, evaluator escalation.Evaluator, resolver RecipientResolver, dispatcher Dispatcher, logger *slog.Logger, workers int, jobTimeout time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Second
	}
	return &Scheduler{
		jobs:       jobs,
		evaluator:  evaluator,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     logger,
		workers:    workers,
		jobTimeout: jobTimeout,
	}
}

// RunOnce performs a single synchronous pass at now. Safe to invoke from
// overlapping triggers: the dispatcher's conditional marker advance keeps
// each threshold crossing to at most one successful marker update, and the
// 24-active-hour cooldown suppresses closely spaced duplicate triggers.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (Summary, error) {
	active, err := s.jobs.ListActive(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("scheduler: list active jobs: %w", err)
	}

	results := make([]Result, len(active))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, j := range active {
		g.Go(func() error {
			// Caller cancellation aborts the pass between jobs;
			// already-advanced markers stand.
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.processJob(gctx, j, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("scheduler: pass aborted: %w", err)
	}

	summary := Summary{JobsChecked: len(active), EvaluatedAt: now}
	for _, r := range results {
		// Partial dispatches still wrote records; the tally reflects
		// every notification written, failure or not.
		summary.NotificationsSent += r.Sent
		if r.Err != nil {
			s.logger.Warn("job skipped during escalation pass",
				"job_id", r.JobID, "error", r.Err)
			continue
		}
		if r.Level != escalation.LevelNone {
			s.logger.Info("reminder dispatched",
				"job_id", r.JobID, "level", r.Level.String(), "recipients", r.Sent)
		}
	}
	return summary, nil
}

func (s *Scheduler) processJob(ctx context.Context, j job.Job, now time.Time) Result {
	res := Result{JobID: j.ID}

	level := s.evaluator.Evaluate(j, now)
	if level == escalation.LevelNone {
		return res
	}
	res.Level = level

	jctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	recipients, err := s.resolver.Resolve(jctx, j, level)
	if err != nil {
		res.Err = err
		return res
	}

	sent, err := s.dispatcher.Dispatch(jctx, j, level, recipients, now)
	res.Sent = sent
	res.Err = err
	return res
}
