// Package dateutil provides calendar-date arithmetic. All core components
// deal in dates without time-of-day; helpers here normalize to midnight UTC
// so comparisons and day counts are exact.
package dateutil

import "time"

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. Negative when b
// is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// MonthStart returns the first day of t's calendar month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's calendar month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// YearStart returns January 1st of t's year.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
}

// YearEnd returns December 31st of t's year.
func YearEnd(t time.Time) time.Time {
	return time.Date(t.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
}

// YearMonth is a calendar month key for grouping.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YM returns the YearMonth containing t.
func YM(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) String() string {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
