package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/tootstats/core/algo"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
)

// KPIRequest selects a period-over-period KPI. Now is the reference instant;
// the current period is the one containing Now's local calendar day.
type KPIRequest struct {
	Family    schema.Family
	Metric    schema.Metric
	AccountID string
	Location  *time.Location
	Period    schema.PeriodKind
	Now       time.Time
}

// validate checks the request and fills in defaults for optional fields.
func (r *KPIRequest) validate() error {
	if err := validateMetric(&r.Family, r.Metric, r.AccountID); err != nil {
		return err
	}
	if r.Location == nil {
		r.Location = time.UTC
	}
	if r.Period == "" {
		r.Period = schema.WeekPeriod
	}
	if _, ok := schema.ValidPeriodKinds[r.Period]; !ok {
		return fmt.Errorf("%w: unknown period %q", schema.ErrInvalidArgument, r.Period)
	}
	if r.Now.IsZero() {
		return fmt.Errorf("%w: reference time is required", schema.ErrInvalidArgument)
	}
	return nil
}

// ComputeKPI returns the previous-period value, the current-period value and
// the number of local days elapsed in the current period.
//
// Cumulative (content) metrics are differenced at period boundaries: the
// current period is the growth from the last day before the period to today,
// and the previous period is the growth across the whole preceding period,
// both clamped at zero. The value at a boundary is the latest row on or
// before it, looking back at most one period. Snapshot-style (account)
// metrics report the latest value observed inside each period. Missing
// history leaves fields nil.
func ComputeKPI(ctx context.Context, store contract.SnapshotReader, req KPIRequest) (schema.KpiSummary, error) {
	if err := req.validate(); err != nil {
		return schema.KpiSummary{}, err
	}

	today := algo.DayOf(req.Now, req.Location)
	start := algo.PeriodStart(req.Period, today)
	prevStart := algo.PreviousPeriodStart(req.Period, start)
	prevPrevStart := algo.PreviousPeriodStart(req.Period, prevStart)

	summary := schema.KpiSummary{
		Metric:                req.Metric,
		Period:                req.Period,
		Cumulative:            req.Family.Cumulative(),
		CurrentPeriodProgress: schema.Int64Ptr(int64(algo.DaysSincePeriodStart(req.Period, req.Now, req.Location))),
	}

	log := logFor(ctx, "kpi")
	log.Debug().
		Str("family", string(req.Family)).
		Str("metric", string(req.Metric)).
		Str("account", req.AccountID).
		Str("period_start", start.Format(algo.DayLayout)).
		Str("today", today.Format(algo.DayLayout)).
		Msg("reading snapshots")

	from := prevStart
	if summary.Cumulative {
		from = dayBefore(prevPrevStart)
	}
	rows, err := store.RangeOf(ctx, req.Family, req.AccountID, from, today)
	if err != nil {
		return schema.KpiSummary{}, err
	}
	h := history{rows: rows, metric: req.Metric}

	if summary.Cumulative {
		atToday := h.valueAsOf(today, dayBefore(prevStart))
		atBoundary := h.boundary(start, prevStart)
		atPrevBoundary := h.boundary(prevStart, prevPrevStart)
		summary.CurrentPeriod = clampedDiff(atToday, atBoundary)
		summary.PreviousPeriod = clampedDiff(atBoundary, atPrevBoundary)
	} else {
		summary.CurrentPeriod = h.valueAsOf(today, start)
		summary.PreviousPeriod = h.valueAsOf(dayBefore(start), prevStart)
	}
	return summary, nil
}

// dayBefore returns the calendar day before day.
func dayBefore(day time.Time) time.Time {
	return day.AddDate(0, 0, -1)
}

// history is an ascending run of snapshots of one account and family.
type history struct {
	rows   []schema.DailySnapshot
	metric schema.Metric
}

// valueAsOf returns the metric of the latest row with floor <= day <= asOf,
// or nil when there is none.
func (h history) valueAsOf(asOf, floor time.Time) *int64 {
	for i := len(h.rows) - 1; i >= 0; i-- {
		day := algo.NormalizeDay(h.rows[i].GetDay())
		if day.After(asOf) {
			continue
		}
		if day.Before(floor) {
			return nil
		}
		v, ok := h.rows[i].Value(h.metric)
		if !ok {
			return nil
		}
		return schema.Int64Ptr(v)
	}
	return nil
}

// boundary returns the value in effect at the start of the period beginning
// on periodStart: the latest row on the day before it or, failing that, on an
// earlier day reaching back to the day before the preceding period.
func (h history) boundary(periodStart, precedingStart time.Time) *int64 {
	return h.valueAsOf(dayBefore(periodStart), dayBefore(precedingStart))
}

// clampedDiff returns max(0, cur - prev), or nil when either side is absent.
func clampedDiff(cur, prev *int64) *int64 {
	if cur == nil || prev == nil {
		return nil
	}
	return schema.Int64Ptr(algo.ClampedDelta(*prev, *cur))
}
