package escalation

import (
	"time"

	"jobwatch/calendar"
	"jobwatch/job"
)

// Evaluator decides whether a job is due a reminder and at which level.
// It performs no I/O; every input arrives as a value.
type Evaluator struct {
	cal           calendar.Calendar
	policy        Policy
	cooldownHours float64
}

// NewEvaluator builds an evaluator. cooldownHours is the minimum active-hour
// gap between two successive reminders for the same job, applied regardless
// of level.
func NewEvaluator(cal calendar.Calendar, policy Policy, cooldownHours float64) Evaluator {
	return Evaluator{cal: cal, policy: policy, cooldownHours: cooldownHours}
}

// Evaluate returns the level due at now, or LevelNone.
//
// A job with no recorded activity is never reminded. A snoozed job is
// suppressed unconditionally until the deadline passes; the elapsed-time
// computation underneath is untouched, so suppression ends without losing
// severity. Once a reminder has been sent, the cooldown gates any further
// reminder on time since that dispatch, not on the level it announced.
func (e Evaluator) Evaluate(j job.Job, now time.Time) Level {
	switch job.ReminderStateOf(j, now) {
	case job.StateNoActivity, job.StateSnoozed:
		return LevelNone
	}

	elapsed := e.cal.ElapsedActiveHours(*j.LastActivityAt, now)
	rule, ok := e.policy.Classify(elapsed)
	if !ok {
		return LevelNone
	}

	if j.LastReminderSentAt != nil {
		sinceReminder := e.cal.ElapsedActiveHours(*j.LastReminderSentAt, now)
		if sinceReminder < e.cooldownHours {
			return LevelNone
		}
	}

	return rule.Level
}
