// Package algo has pure calendar, delta, trend and ranking algorithms.
package algo

import (
	"time"

	"github.com/huangsam/tootstats/schema"
)

// DayLayout is the ISO layout of a calendar day.
const DayLayout = "2006-01-02"

// DayOf returns the calendar day of t as observed in loc, held as midnight UTC.
// Holding days in UTC keeps day arithmetic exact across DST changes and
// offsets that are not whole hours.
func DayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeDay drops the clock and zone of a day value, keeping its calendar date.
func NormalizeDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayStart returns the instant of local midnight in loc for a calendar day.
func DayStart(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(NormalizeDay(b).Sub(NormalizeDay(a)).Hours() / 24)
}

// PeriodStart returns the first calendar day of the period containing day.
// Weeks start on Monday. Unknown kinds are treated as weeks.
func PeriodStart(kind schema.PeriodKind, day time.Time) time.Time {
	day = NormalizeDay(day)
	switch kind {
	case schema.MonthPeriod:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	case schema.YearPeriod:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		sinceMonday := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -sinceMonday)
	}
}

// PreviousPeriodStart returns the first day of the period immediately before
// the one starting at start. Months and years follow the calendar.
func PreviousPeriodStart(kind schema.PeriodKind, start time.Time) time.Time {
	switch kind {
	case schema.MonthPeriod:
		return start.AddDate(0, -1, 0)
	case schema.YearPeriod:
		return start.AddDate(-1, 0, 0)
	default:
		return start.AddDate(0, 0, -7)
	}
}

// DaysSincePeriodStart returns how many whole local days have elapsed in the
// current period as of now: 0 on the first day of the period.
func DaysSincePeriodStart(kind schema.PeriodKind, now time.Time, loc *time.Location) int {
	today := DayOf(now, loc)
	return DaysBetween(PeriodStart(kind, today), today)
}
