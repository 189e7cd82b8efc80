package algo

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/huangsam/tootstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestDaysSincePeriodStartWeek walks six weeks day by day in zones with
// positive, negative and half-hour offsets, crossing DST changes.
func TestDaysSincePeriodStartWeek(t *testing.T) {
	zones := []string{"UTC", "America/New_York", "Asia/Kolkata", "Australia/Adelaide", "Asia/Kathmandu"}
	for _, zone := range zones {
		t.Run(zone, func(t *testing.T) {
			loc := mustLoad(t, zone)
			// 2025-03-03 is a Monday; the range covers the US DST start (Mar 9)
			// and the Australian DST end (Apr 6).
			for i := range 42 {
				midnight := time.Date(2025, time.March, 3+i, 0, 0, 0, 0, loc)
				noon := time.Date(2025, time.March, 3+i, 12, 0, 0, 0, loc)
				lateNight := time.Date(2025, time.March, 3+i, 23, 59, 0, 0, loc)
				assert.Equal(t, i%7, DaysSincePeriodStart(schema.WeekPeriod, midnight, loc), "midnight day %d", i)
				assert.Equal(t, i%7, DaysSincePeriodStart(schema.WeekPeriod, noon, loc), "noon day %d", i)
				assert.Equal(t, i%7, DaysSincePeriodStart(schema.WeekPeriod, lateNight, loc), "late night day %d", i)
			}
		})
	}
}

func TestDaysSincePeriodStartUsesAccountZone(t *testing.T) {
	tests := []struct {
		name     string
		instant  time.Time
		zone     string
		expected int
	}{
		{
			name:     "UTC monday is still sunday in New York after DST start",
			instant:  time.Date(2025, time.March, 10, 3, 30, 0, 0, time.UTC),
			zone:     "America/New_York",
			expected: 6,
		},
		{
			name:     "same instant in UTC",
			instant:  time.Date(2025, time.March, 10, 3, 30, 0, 0, time.UTC),
			zone:     "UTC",
			expected: 0,
		},
		{
			name:     "UTC sunday is already monday in Kolkata",
			instant:  time.Date(2025, time.March, 2, 19, 0, 0, 0, time.UTC),
			zone:     "Asia/Kolkata",
			expected: 0,
		},
		{
			name:     "same instant in UTC is sunday",
			instant:  time.Date(2025, time.March, 2, 19, 0, 0, 0, time.UTC),
			zone:     "UTC",
			expected: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := mustLoad(t, tt.zone)
			assert.Equal(t, tt.expected, DaysSincePeriodStart(schema.WeekPeriod, tt.instant, loc))
		})
	}
}

func TestDaysSincePeriodStartMonthAndYear(t *testing.T) {
	utc := time.UTC
	tests := []struct {
		name     string
		kind     schema.PeriodKind
		now      time.Time
		expected int
	}{
		{"first of month", schema.MonthPeriod, time.Date(2025, time.March, 1, 8, 0, 0, 0, utc), 0},
		{"last of month", schema.MonthPeriod, time.Date(2025, time.March, 31, 8, 0, 0, 0, utc), 30},
		{"leap day", schema.MonthPeriod, time.Date(2024, time.February, 29, 8, 0, 0, 0, utc), 28},
		{"new year", schema.YearPeriod, time.Date(2025, time.January, 1, 0, 0, 0, 0, utc), 0},
		{"end of leap year", schema.YearPeriod, time.Date(2024, time.December, 31, 23, 0, 0, 0, utc), 365},
		{"end of common year", schema.YearPeriod, time.Date(2025, time.December, 31, 23, 0, 0, 0, utc), 364},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysSincePeriodStart(tt.kind, tt.now, utc))
		})
	}
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name     string
		kind     schema.PeriodKind
		day      time.Time
		start    time.Time
		previous time.Time
	}{
		{"week from sunday", schema.WeekPeriod, day(2025, time.March, 9), day(2025, time.March, 3), day(2025, time.February, 24)},
		{"week from monday", schema.WeekPeriod, day(2025, time.March, 3), day(2025, time.March, 3), day(2025, time.February, 24)},
		{"week across year", schema.WeekPeriod, day(2025, time.January, 1), day(2024, time.December, 30), day(2024, time.December, 23)},
		{"month", schema.MonthPeriod, day(2025, time.March, 31), day(2025, time.March, 1), day(2025, time.February, 1)},
		{"month across year", schema.MonthPeriod, day(2025, time.January, 15), day(2025, time.January, 1), day(2024, time.December, 1)},
		{"year", schema.YearPeriod, day(2025, time.July, 4), day(2025, time.January, 1), day(2024, time.January, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := PeriodStart(tt.kind, tt.day)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.previous, PreviousPeriodStart(tt.kind, start))
		})
	}
}

func TestDayHelpers(t *testing.T) {
	loc := mustLoad(t, "Asia/Kathmandu")
	instant := time.Date(2025, time.June, 30, 18, 20, 0, 0, time.UTC) // 00:05 on Jul 1 local

	assert.Equal(t, day(2025, time.July, 1), DayOf(instant, loc))
	assert.Equal(t, day(2025, time.June, 30), DayOf(instant, time.UTC))
	assert.True(t, DayStart(day(2025, time.July, 1), loc).Equal(time.Date(2025, time.June, 30, 18, 15, 0, 0, time.UTC)))
	assert.Equal(t, 365, DaysBetween(day(2025, time.January, 1), day(2026, time.January, 1)))
	assert.Equal(t, -1, DaysBetween(day(2025, time.January, 2), day(2025, time.January, 1)))
	assert.Equal(t, day(2025, time.July, 1), NormalizeDay(time.Date(2025, time.July, 1, 13, 0, 0, 0, loc)))
}
