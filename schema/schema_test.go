package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotValue(t *testing.T) {
	day := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	account := AccountSnapshot{AccountID: "1", Day: day, FollowersCount: 10, FollowingCount: 20, StatusesCount: 30}
	content := ContentCounterSnapshot{AccountID: "1", Day: day, RepliesCount: 1, BoostsCount: 2, FavouritesCount: 3}

	tests := []struct {
		name     string
		snap     DailySnapshot
		metric   Metric
		expected int64
		ok       bool
	}{
		{"followers", account, FollowersMetric, 10, true},
		{"following", account, FollowingMetric, 20, true},
		{"statuses", account, StatusesMetric, 30, true},
		{"account has no boosts", account, BoostsMetric, 0, false},
		{"replies", content, RepliesMetric, 1, true},
		{"boosts", content, BoostsMetric, 2, true},
		{"favourites", content, FavouritesMetric, 3, true},
		{"content has no followers", content, FollowersMetric, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.snap.Value(tt.metric)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestMetricFamily(t *testing.T) {
	for _, m := range AccountMetrics {
		assert.Equal(t, AccountFamily, m.Family(), m)
	}
	for _, m := range ContentMetrics {
		assert.Equal(t, ContentFamily, m.Family(), m)
	}
	assert.Equal(t, Family(""), Metric("unknown").Family())
}

func TestDefaultSeriesMode(t *testing.T) {
	assert.Equal(t, RawMode, DefaultSeriesMode(AccountFamily))
	assert.Equal(t, DeltaMode, DefaultSeriesMode(ContentFamily))
	assert.True(t, ContentFamily.Cumulative())
	assert.False(t, AccountFamily.Cumulative())
}

func TestMetricsOf(t *testing.T) {
	assert.Equal(t, AccountMetrics, MetricsOf(AccountFamily))
	assert.Equal(t, ContentMetrics, MetricsOf(ContentFamily))
	assert.Nil(t, MetricsOf(Family("other")))
}

func TestKpiSummaryReport(t *testing.T) {
	summary := KpiSummary{
		Metric:                BoostsMetric,
		Period:                WeekPeriod,
		Cumulative:            true,
		PreviousPeriod:        Int64Ptr(100),
		CurrentPeriodProgress: Int64Ptr(10),
		CurrentPeriod:         Int64Ptr(150),
	}
	report := summary.Report()
	if assert.NotNil(t, report.Trend) {
		assert.InDelta(t, -0.85, *report.Trend, 1e-9)
	}

	summary.PreviousPeriod = nil
	assert.Nil(t, summary.Report().Trend, "insufficient data has no trend")

	summary.PreviousPeriod = Int64Ptr(100)
	summary.CurrentPeriodProgress = Int64Ptr(0)
	_, ok := summary.Trend()
	assert.False(t, ok, "zero progress is never a divisor")
}

func TestKpiSummaryTrend(t *testing.T) {
	p := Int64Ptr

	tests := []struct {
		name       string
		previous   *int64
		progress   *int64
		current    *int64
		cumulative bool
		expected   float64
		ok         bool
	}{
		{"extrapolated decline", p(100), p(10), p(150), true, -0.85, true},
		{"extrapolated growth", p(10), p(2), p(40), true, 1.0, true},
		{"snapshot growth is not extrapolated", p(100), p(3), p(110), false, 0.1, true},
		{"snapshot decline", p(200), p(5), p(150), false, -0.25, true},
		{"previous zero", p(0), p(10), p(150), true, 0, false},
		{"previous absent", nil, p(10), p(150), true, 0, false},
		{"progress zero", p(100), p(0), p(150), true, 0, false},
		{"progress absent", p(100), nil, p(150), true, 0, false},
		{"current zero", p(100), p(10), p(0), true, 0, false},
		{"current absent", p(100), p(10), nil, true, 0, false},
		{"snapshot progress zero", p(100), p(0), p(110), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := KpiSummary{
				Cumulative:            tt.cumulative,
				PreviousPeriod:        tt.previous,
				CurrentPeriodProgress: tt.progress,
				CurrentPeriod:         tt.current,
			}
			trend, ok := summary.Trend()
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, trend, 1e-9)
		})
	}
}
