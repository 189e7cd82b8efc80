package schema

import "time"

// ChartPoint represents a single labeled value of a chart series.
// Points whose value cannot be computed are dropped, so Value is never nil in output.
type ChartPoint struct {
	Label string `json:"label"`
	Value *int64 `json:"value"`
}

// SeriesResult holds a chart series with the parameters that produced it.
type SeriesResult struct {
	AccountID string       `json:"account_id"`
	Family    Family       `json:"family"`
	Metric    Metric       `json:"metric"`
	Mode      SeriesMode   `json:"mode"`
	Labels    LabelMode    `json:"labels"`
	From      string       `json:"from"`
	To        string       `json:"to"`
	Points    []ChartPoint `json:"points"`
}

// KpiSummary holds the period-over-period figures of a metric.
// A nil field means insufficient history, never zero.
type KpiSummary struct {
	Metric                Metric     `json:"metric"`
	Period                PeriodKind `json:"period"`
	Cumulative            bool       `json:"cumulative"`
	PreviousPeriod        *int64     `json:"previousPeriod"`
	CurrentPeriodProgress *int64     `json:"currentPeriodProgress"`
	CurrentPeriod         *int64     `json:"currentPeriod"`
}

// Trend compares the current period against the previous one.
//
// For cumulative metrics the current period is growth accumulated over
// progress days, so it is first extrapolated to a per-day rate:
//
//	(current/progress - previous) / previous
//
// Snapshot-style metrics hold a level rather than accumulated growth, and the
// extrapolation does not apply to them. They compare the values directly:
//
//	(current - previous) / previous
//
// ok is false when any input is absent or zero, progress included, for both kinds.
func (k KpiSummary) Trend() (trend float64, ok bool) {
	if k.PreviousPeriod == nil || k.CurrentPeriodProgress == nil || k.CurrentPeriod == nil {
		return 0, false
	}
	if *k.PreviousPeriod == 0 || *k.CurrentPeriodProgress == 0 || *k.CurrentPeriod == 0 {
		return 0, false
	}
	prev := float64(*k.PreviousPeriod)
	cur := float64(*k.CurrentPeriod)
	if k.Cumulative {
		cur /= float64(*k.CurrentPeriodProgress)
	}
	return (cur - prev) / prev, true
}

// Report resolves the trend of the summary for presentation.
func (k KpiSummary) Report() KpiReport {
	report := KpiReport{KpiSummary: k}
	if trend, ok := k.Trend(); ok {
		report.Trend = &trend
	}
	return report
}

// KpiReport is a KpiSummary with its trend resolved for presentation.
// Trend is nil when no trend is available.
type KpiReport struct {
	KpiSummary
	Trend *float64 `json:"trend"`
}

// TotalSnapshot holds the latest known value of a metric and its day.
type TotalSnapshot struct {
	Metric Metric    `json:"metric"`
	Amount int64     `json:"amount"`
	Day    time.Time `json:"day"`
}

// RankedItem is a content record with its computed ranking score.
type RankedItem struct {
	ContentRecord
	Rank int64 `json:"rank"`
}

// DashboardEntry holds the headline figures of one metric.
type DashboardEntry struct {
	Metric Metric         `json:"metric"`
	Total  *TotalSnapshot `json:"total"`
	KPI    KpiReport      `json:"kpi"`
}

// DashboardResult holds the headline figures of every metric of a family.
type DashboardResult struct {
	AccountID string           `json:"account_id"`
	Family    Family           `json:"family"`
	Period    PeriodKind       `json:"period"`
	Entries   []DashboardEntry `json:"entries"`
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}
