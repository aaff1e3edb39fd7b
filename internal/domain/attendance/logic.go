package attendance

import (
	"fmt"
	"time"
)

// WorkedDuration returns the wall-clock time between timeIn and timeOut,
// or between timeIn and now while the record is still open, truncated to
// whole minutes.
func WorkedDuration(timeIn time.Time, timeOut *time.Time, now time.Time) time.Duration {
	end := now
	if timeOut != nil {
		end = *timeOut
	}
	if end.Before(timeIn) {
		return 0
	}
	return end.Sub(timeIn).Truncate(time.Minute)
}

// FormatWorked renders a worked duration as "9h 30m".
func FormatWorked(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Derive fills in the record's worked-hours display value.
func Derive(record *Record, now time.Time) {
	if record == nil || record.TimeIn == nil {
		return
	}
	record.WorkedHours = FormatWorked(WorkedDuration(*record.TimeIn, record.TimeOut, now))
}

// DateOf truncates a timestamp to its calendar date in the given location.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
