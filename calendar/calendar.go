// Package calendar computes elapsed and projected durations against a work
// calendar that excludes one rest day per week. An "active hour" is an hour
// of wall-clock time that does not fall on the rest day.
package calendar

import (
	"fmt"
	"time"
)

// Calendar carries the rest-day rule. The zero value rests on Sunday.
type Calendar struct {
	RestDay time.Weekday
}

// New returns a calendar resting on the given weekday.
func New(restDay time.Weekday) Calendar {
	return Calendar{RestDay: restDay}
}

// ElapsedActiveHours returns the active hours between start and end,
// skipping every day whose weekday equals the rest day entirely.
// Returns 0 when start >= end.
func (c Calendar) ElapsedActiveHours(start, end time.Time) float64 {
	if !start.Before(end) {
		return 0
	}

	var total float64
	cursor := start
	for cursor.Before(end) {
		dayEnd := startOfNextDay(cursor)
		if cursor.Weekday() != c.RestDay {
			periodEnd := dayEnd
			if end.Before(periodEnd) {
				periodEnd = end
			}
			total += periodEnd.Sub(cursor).Hours()
		}
		cursor = dayEnd
	}
	return total
}

// ProjectForwardActiveHours walks forward from start until hoursToAdd active
// hours have accumulated and returns that instant. Rest days contribute
// nothing: a start instant falling on the rest day accumulates only from the
// beginning of the next non-rest day. Negative hoursToAdd is a programming
// error and is rejected.
func (c Calendar) ProjectForwardActiveHours(start time.Time, hoursToAdd float64) (time.Time, error) {
	if hoursToAdd < 0 {
		return time.Time{}, fmt.Errorf("calendar: negative projection %v", hoursToAdd)
	}
	if hoursToAdd == 0 {
		return start, nil
	}

	remaining := hoursToAdd
	cursor := start
	for {
		dayEnd := startOfNextDay(cursor)
		if cursor.Weekday() != c.RestDay {
			available := dayEnd.Sub(cursor).Hours()
			if available >= remaining {
				return cursor.Add(time.Duration(remaining * float64(time.Hour))), nil
			}
			remaining -= available
		}
		cursor = dayEnd
	}
}

func startOfNextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// FormatActiveHours renders an hour count for display: "< 1h", "23h", "2d 5h".
func FormatActiveHours(hours float64) string {
	if hours < 1 {
		return "< 1h"
	}
	days := int(hours) / 24
	rem := int(hours) % 24
	if days > 0 {
		if rem > 0 {
			return fmt.Sprintf("%dd %dh", days, rem)
		}
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", rem)
}
