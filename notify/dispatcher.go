package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jobwatch/escalation"
	"jobwatch/job"
)

// Sink is the append-only outbox the dispatcher writes to.
type Sink interface {
	Append(ctx context.Context, n Notification) error
}

// MarkerStore advances the job's last-reminder marker with a precondition.
type MarkerStore interface {
	AdvanceReminderMarker(ctx context.Context, jobID string, seen *time.Time, sentAt time.Time) (bool, error)
}

// Dispatcher writes one notification per recipient, then advances the job's
// reminder marker. The marker update deliberately comes last: a crash
// mid-dispatch leaves the marker untouched, so the next pass retries and at
// worst duplicates notifications, never silently skips an escalation.
type Dispatcher struct {
	sink   Sink
	jobs   MarkerStore
	logger *slog.Logger
}

func NewDispatcher(sink Sink, jobs MarkerStore, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sink: sink, jobs: jobs, logger: logger}
}

// Dispatch returns the number of notifications written. On a partial write
// failure the marker is withheld and the error returned; already-written
// notifications stand.
func (d *Dispatcher) Dispatch(ctx context.Context, j job.Job, level escalation.Level, recipients []string, now time.Time) (int, error) {
	kind, title, body, err := render(j, level)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, recipientID := range recipients {
		n := Notification{
			RecipientID:  recipientID,
			Kind:         kind,
			Title:        title,
			Body:         body,
			RelatedJobID: j.ID,
			CreatedAt:    now,
		}
		if err := d.sink.Append(ctx, n); err != nil {
			return sent, fmt.Errorf("notify: dispatch to %s: %w", recipientID, err)
		}
		sent++
	}

	advanced, err := d.jobs.AdvanceReminderMarker(ctx, j.ID, j.LastReminderSentAt, now)
	if err != nil {
		return sent, err
	}
	if !advanced {
		// A concurrent pass advanced the marker first. The duplicate
		// notifications are the accepted degraded outcome.
		d.logger.Warn("reminder marker already advanced by concurrent pass",
			"job_id", j.ID, "level", level.String())
	}
	return sent, nil
}

func render(j job.Job, level escalation.Level) (Kind, string, string, error) {
	switch level {
	case escalation.Level1:
		return KindInactive24h,
			"Job has been inactive for 24 hours",
			fmt.Sprintf("Job %q for %s has had no activity for 24 business hours.", j.Title, j.ClientName),
			nil
	case escalation.Level2:
		return KindInactive48h,
			"URGENT: Job inactive for 48 hours",
			fmt.Sprintf("Job %q for %s has had NO ACTIVITY for 48 business hours. Immediate attention required!", j.Title, j.ClientName),
			nil
	default:
		return "", "", "", fmt.Errorf("notify: no notification defined for level %s", level)
	}
}
