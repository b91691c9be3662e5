package escalation

import (
	"time"

	"jobwatch/calendar"
	"jobwatch/job"
)

// ActivityStatus is the read-side severity shown in job listings. It mirrors
// the evaluator's thresholds but has no cooldown: it reflects elapsed time
// only, so a recently-reminded stale job still reads as critical.
type ActivityStatus string

const (
	StatusActive   ActivityStatus = "active"
	StatusWarning  ActivityStatus = "warning"
	StatusCritical ActivityStatus = "critical"
	StatusSnoozed  ActivityStatus = "snoozed"
)

// StatusOf classifies a job for display. Jobs with no recorded activity
// read as active.
func StatusOf(cal calendar.Calendar, policy Policy, j job.Job, now time.Time) ActivityStatus {
	switch job.ReminderStateOf(j, now) {
	case job.StateNoActivity:
		return StatusActive
	case job.StateSnoozed:
		return StatusSnoozed
	}

	elapsed := cal.ElapsedActiveHours(*j.LastActivityAt, now)
	rule, ok := policy.Classify(elapsed)
	if !ok {
		return StatusActive
	}
	if rule.Level >= Level2 {
		return StatusCritical
	}
	return StatusWarning
}
