package contract

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/huangsam/tootstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLoadTimezone(t *testing.T) {
	loc, err := LoadTimezone("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())

	loc, err = LoadTimezone(" UTC ")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	for _, name := range []string{"", "Local", "Not/AZone"} {
		_, err := LoadTimezone(name)
		assert.ErrorIs(t, err, schema.ErrInvalidTimezone, name)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDay("2025-02-30")
	assert.ErrorIs(t, err, schema.ErrInvalidArgument)

	_, err = ParseDay("28/02/2025")
	assert.ErrorIs(t, err, schema.ErrInvalidArgument)
}

func TestResolveTimeframe(t *testing.T) {
	// Wednesday
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expected string
	}{
		{"today", "2025-03-12..2025-03-12"},
		{"Yesterday", "2025-03-11..2025-03-11"},
		{"thisweek", "2025-03-10..2025-03-12"},
		{"thismonth", "2025-03-01..2025-03-12"},
		{"thisyear", "2025-01-01..2025-03-12"},
		{"lastweek", "2025-03-03..2025-03-09"},
		{"lastmonth", "2025-02-01..2025-02-28"},
		{"lastyear", "2024-01-01..2024-12-31"},
		{"last30days", "2025-02-11..2025-03-12"},
		{"last 1 day", "2025-03-12..2025-03-12"},
		{"last 2 weeks", "2025-02-27..2025-03-12"},
		{"last3months", "2024-12-13..2025-03-12"},
		{"last 1 year", "2024-03-13..2025-03-12"},
		{"2025-01-05..2025-01-09", "2025-01-05..2025-01-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := ResolveTimeframe(tt.name, now, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rng.String())
		})
	}
}

func TestResolveTimeframeErrors(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	for _, name := range []string{"", "forever", "last0days", "last 5 decades", "2025-03-10..2025-03-01", "2025-03-10..soon"} {
		_, err := ResolveTimeframe(name, now, time.UTC)
		assert.ErrorIs(t, err, schema.ErrInvalidArgument, name)
	}
}

func TestResolveTimeframeTimezone(t *testing.T) {
	// Sunday 23:30 in New York is already Monday in UTC
	now := time.Date(2025, 3, 17, 3, 30, 0, 0, time.UTC)
	ny, err := LoadTimezone("America/New_York")
	require.NoError(t, err)

	rng, err := ResolveTimeframe("thisweek", now, ny)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10..2025-03-16", rng.String())

	rng, err = ResolveTimeframe("thisweek", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-17..2025-03-17", rng.String())
}

func TestDayRangeInstants(t *testing.T) {
	ny, err := LoadTimezone("America/New_York")
	require.NoError(t, err)

	rng := DayRange{From: day("2025-03-08"), To: day("2025-03-09")}
	start, end := rng.Instants(ny)

	assert.Equal(t, time.Date(2025, 3, 8, 5, 0, 0, 0, time.UTC), start.UTC())
	// DST begins on Mar 9, so the next midnight is at UTC-4
	assert.Equal(t, time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC), end.UTC())
}
