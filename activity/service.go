package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"jobwatch/calendar"
	"jobwatch/directory"
	"jobwatch/job"
)

var (
	// ErrNotAuthorized signals the actor holds no role on the job that
	// permits managing its reminders.
	ErrNotAuthorized = errors.New("activity: actor may not manage reminders for this job")
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RecordRepository defines the tx-scoped writes the recorder performs.
type RecordRepository interface {
	InsertRecord(ctx context.Context, tx pgx.Tx, rec Record) error
	TouchBaseline(ctx context.Context, tx pgx.Tx, jobID string, occurredAt time.Time) error
}

// JobStore is the slice of the job repository the recorder needs.
type JobStore interface {
	GetByID(ctx context.Context, jobID string) (job.Job, error)
	SetSnooze(ctx context.Context, tx pgx.Tx, jobID string, until time.Time) error
	ClearSnooze(ctx context.Context, jobID string) error
}

// RoleLookup resolves an actor for snooze authorisation.
type RoleLookup interface {
	GetByID(ctx context.Context, userID string) (directory.User, error)
}

// Service is the only writer of the activity baseline the evaluator reads.
type Service struct {
	pool        TxBeginner
	repo        RecordRepository
	jobs        JobStore
	users       RoleLookup
	cal         calendar.Calendar
	snoozeHours float64
}

func NewService(pool TxBeginner, repo RecordRepository, jobs JobStore, users RoleLookup, cal calendar.Calendar, snoozeHours float64) *Service {
	if repo == nil {
		repo = NewRepository()
	}
	return &Service{
		pool:        pool,
		repo:        repo,
		jobs:        jobs,
		users:       users,
		cal:         cal,
		snoozeHours: snoozeHours,
	}
}

// RecordParams describes one qualifying event on a job.
type RecordParams struct {
	JobID       string
	ActorID     string
	Kind        Kind
	Description string
	Metadata    map[string]any
}

// Record appends the activity entry and resets the job's activity baseline
// to now, atomically. Every state-changing event on a job flows through
// here; viewing a job must not.
func (s *Service) Record(ctx context.Context, params RecordParams, now time.Time) error {
	if params.JobID == "" {
		return fmt.Errorf("activity: missing job id")
	}
	if !isValidKind(params.Kind) {
		return fmt.Errorf("activity: invalid kind %q", params.Kind)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("activity: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rec := Record{
		JobID:       params.JobID,
		ActorID:     params.ActorID,
		Kind:        params.Kind,
		Description: params.Description,
		Metadata:    params.Metadata,
		OccurredAt:  now,
	}
	if err := s.repo.InsertRecord(ctx, tx, rec); err != nil {
		return err
	}
	if err := s.repo.TouchBaseline(ctx, tx, params.JobID, now); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("activity: commit tx: %w", err)
	}
	return nil
}

// Snooze suppresses reminders for the job until snoozeHours active hours
// from now and appends a SNOOZED entry. The activity baseline is left
// untouched: snoozing masks evaluation, it does not reset the clock.
func (s *Service) Snooze(ctx context.Context, jobID, actorID string, now time.Time) (time.Time, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.authorize(ctx, j, actorID); err != nil {
		return time.Time{}, err
	}

	until, err := s.cal.ProjectForwardActiveHours(now, s.snoozeHours)
	if err != nil {
		return time.Time{}, fmt.Errorf("activity: project snooze deadline: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("activity: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.jobs.SetSnooze(ctx, tx, jobID, until); err != nil {
		return time.Time{}, err
	}

	rec := Record{
		JobID:       jobID,
		ActorID:     actorID,
		Kind:        KindSnoozed,
		Description: fmt.Sprintf("Reminders snoozed until %s", until.Format(time.RFC3339)),
		Metadata:    map[string]any{"snoozeUntil": until.Format(time.RFC3339)},
		OccurredAt:  now,
	}
	if err := s.repo.InsertRecord(ctx, tx, rec); err != nil {
		return time.Time{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return time.Time{}, fmt.Errorf("activity: commit tx: %w", err)
	}
	return until, nil
}

// Unsnooze lifts an active snooze.
func (s *Service) Unsnooze(ctx context.Context, jobID, actorID string) error {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, j, actorID); err != nil {
		return err
	}
	return s.jobs.ClearSnooze(ctx, jobID)
}

// authorize permits the assignee, supervisor, manager, or any administrator.
func (s *Service) authorize(ctx context.Context, j job.Job, actorID string) error {
	if actorID == "" {
		return ErrNotAuthorized
	}
	if j.AssigneeID == actorID {
		return nil
	}
	if j.SupervisorID != nil && *j.SupervisorID == actorID {
		return nil
	}
	if j.ManagerID != nil && *j.ManagerID == actorID {
		return nil
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return ErrNotAuthorized
		}
		return err
	}
	if actor.Role != directory.RoleAdmin {
		return ErrNotAuthorized
	}
	return nil
}
