// Package interval provides cadence functions for periodic pipelines.
//
// A cadence function maps an instant to the canonical boundary of its period,
// so that repeated invocations without explicit date parameters converge on
// the same task identity within a period. Used as parameter defaults via
// task.ParamSpec.Cadence.
package interval

import "time"

// Cadence computes the canonical period boundary for a reference time.
type Cadence func(t time.Time) time.Time

// Hourly truncates to the top of the hour.
func Hourly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// Daily truncates to midnight.
func Daily(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Weekly returns the most recent Monday at midnight.
func Weekly(t time.Time) time.Time {
	d := Daily(t)
	// time.Weekday: Sunday == 0, Monday == 1
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Biweekly returns the 1st or the 15th of the month, whichever most recently
// passed.
func Biweekly(t time.Time) time.Time {
	day := 1
	if t.Day() >= 15 {
		day = 15
	}
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location())
}

// Monthly returns the first day of the month.
func Monthly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Quarterly returns the first day of the quarter (Jan, Apr, Jul, Oct).
func Quarterly(t time.Time) time.Time {
	month := ((int(t.Month())-1)/3)*3 + 1
	return time.Date(t.Year(), time.Month(month), 1, 0, 0, 0, 0, t.Location())
}

// Semiyearly returns January 1 or July 1, whichever most recently passed.
func Semiyearly(t time.Time) time.Time {
	month := time.January
	if t.Month() >= time.July {
		month = time.July
	}
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, t.Location())
}

// Yearly returns January 1 of the year.
func Yearly(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
