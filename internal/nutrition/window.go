// Package nutrition holds the pure bookkeeping of the tracker: date keys,
// the rolling retention window, day mutations, totals and goal scoring.
// Nothing here reads the clock or touches storage; callers pass "now".
package nutrition

import (
	"time"

	"github.com/pageza/nutrilog/internal/models"
)

// RetentionDays is the default length of the trailing window kept in the
// weekly log. A day exactly RetentionDays before today is still kept.
const RetentionDays = 7

// DateKeyLayout is the layout of weekly log keys.
const DateKeyLayout = "2006-01-02"

// DateKey returns the log key of the calendar day t falls on, in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a log key into midnight UTC of that day.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(DateKeyLayout, key)
}

// Prune drops every day outside the default retention window.
func Prune(now time.Time, log models.WeeklyLog) models.WeeklyLog {
	return PruneWindow(now, log, RetentionDays)
}

// PruneWindow returns the days of log whose date lies in
// [today-days, today], where today is now's calendar date in now's location.
// Keys that do not parse as dates are dropped.
func PruneWindow(now time.Time, log models.WeeklyLog, days int) models.WeeklyLog {
	today := civilDate(now)
	cutoff := today.AddDate(0, 0, -days)

	out := make(models.WeeklyLog, len(log))
	for key, day := range log {
		d, err := ParseDateKey(key)
		if err != nil {
			continue
		}
		if d.Before(cutoff) || d.After(today) {
			continue
		}
		out[key] = day
	}
	return out
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
