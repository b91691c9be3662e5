package job

import "time"

type Status string

const (
	StatusNotStarted    Status = "NOT_STARTED"
	StatusInProgress    Status = "IN_PROGRESS"
	StatusPendingReview Status = "PENDING_REVIEW"
	StatusOnHold        Status = "ON_HOLD"
	StatusCompleted     Status = "COMPLETED"
	StatusCancelled     Status = "CANCELLED"
)

// IsTerminal reports whether the status excludes the job from escalation.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Job mirrors the jobs table columns touched by the escalation engine.
// SupervisorID and ManagerID are optional role references; the three
// reminder timestamps jointly drive the evaluator.
type Job struct {
	ID                  string
	Title               string
	ClientName          string
	Status              Status
	AssigneeID          string
	SupervisorID        *string
	ManagerID           *string
	LastActivityAt      *time.Time
	LastReminderSentAt  *time.Time
	ReminderSnoozeUntil *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReminderState names the position of a job in the reminder lifecycle,
// derived from the timestamps rather than stored alongside them.
type ReminderState int

const (
	// StateNoActivity means no qualifying activity has ever been recorded.
	StateNoActivity ReminderState = iota
	// StateSnoozed means reminders are suppressed until the snooze deadline.
	StateSnoozed
	// StateQuiet means activity exists and no reminder has been sent since.
	StateQuiet
	// StateReminded means a reminder has been dispatched for the current
	// baseline and the cooldown gate applies.
	StateReminded
)

func (s ReminderState) String() string {
	switch s {
	case StateNoActivity:
		return "no_activity"
	case StateSnoozed:
		return "snoozed"
	case StateQuiet:
		return "quiet"
	case StateReminded:
		return "reminded"
	default:
		return "unknown"
	}
}

// ReminderStateOf classifies the job's reminder lifecycle position at now.
func ReminderStateOf(j Job, now time.Time) ReminderState {
	if j.LastActivityAt == nil {
		return StateNoActivity
	}
	if j.ReminderSnoozeUntil != nil && now.Before(*j.ReminderSnoozeUntil) {
		return StateSnoozed
	}
	if j.LastReminderSentAt != nil {
		return StateReminded
	}
	return StateQuiet
}
