// Package dates works with calendar dates carried in time.Time values.
package dates

import "time"

// Truncate drops the clock part, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today() time.Time {
	return Truncate(time.Now())
}

// OrToday returns the date of t, or today when t is zero.
func OrToday(t time.Time) time.Time {
	if t.IsZero() {
		return Today()
	}
	return Truncate(t)
}

// DaysBetween counts calendar days from start to end; negative when end is earlier.
func DaysBetween(start, end time.Time) int {
	return int(Truncate(end).Sub(Truncate(start)).Hours() / 24)
}
