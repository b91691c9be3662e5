package job

import (
	"testing"
	"time"
)

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	active := []Status{StatusNotStarted, StatusInProgress, StatusPendingReview, StatusOnHold}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

func TestReminderStateOf(t *testing.T) {
	now := time.Date(2024, 11, 4, 12, 0, 0, 0, time.UTC)
	activity := now.Add(-30 * time.Hour)
	reminder := now.Add(-2 * time.Hour)
	future := now.Add(10 * time.Hour)
	past := now.Add(-1 * time.Hour)

	cases := []struct {
		name string
		j    Job
		want ReminderState
	}{
		{"no activity", Job{}, StateNoActivity},
		{"quiet", Job{LastActivityAt: &activity}, StateQuiet},
		{"reminded", Job{LastActivityAt: &activity, LastReminderSentAt: &reminder}, StateReminded},
		{"snoozed", Job{LastActivityAt: &activity, ReminderSnoozeUntil: &future}, StateSnoozed},
		{"snooze expired", Job{LastActivityAt: &activity, ReminderSnoozeUntil: &past}, StateQuiet},
		{"snooze masks reminded", Job{LastActivityAt: &activity, LastReminderSentAt: &reminder, ReminderSnoozeUntil: &future}, StateSnoozed},
	}

	for _, c := range cases {
		if got := ReminderStateOf(c.j, now); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}
