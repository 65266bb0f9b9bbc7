// Package dateutil holds the pure duration and day-bucketing helpers shared
// by the store and its aggregation queries.
package dateutil

import (
	"errors"
	"math"
	"time"
)

// ErrNegativeInterval is returned when an interval ends before it starts.
// Negative durations are rejected rather than clamped so they can never
// leak into aggregates.
var ErrNegativeInterval = errors.New("interval ends before it starts")

// DayKeyFormat is the bucket key layout, one key per local calendar day.
const DayKeyFormat = "2006-01-02"

// Duration returns the whole seconds between start and end, rounded.
// Computed from the two wall-clock timestamps, never from tick counts.
func Duration(start, end time.Time) (int64, error) {
	if end.Before(start) {
		return 0, ErrNegativeInterval
	}
	return int64(math.Round(end.Sub(start).Seconds())), nil
}

// DayKey maps a timestamp to the key of the local calendar day containing it.
func DayKey(t time.Time) string {
	return t.Local().Format(DayKeyFormat)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	t = t.Local()
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EnumerateDays returns the day keys from start to end, inclusive on both
// ends, in ascending order. Returns nil if end's day precedes start's day.
func EnumerateDays(start, end time.Time) []string {
	first := StartOfDay(start)
	last := StartOfDay(end)
	if last.Before(first) {
		return nil
	}

	var days []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayKeyFormat))
	}
	return days
}
