package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/tootstats/core/algo"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
)

// Label layouts for chart points.
const (
	isoLabelLayout  = algo.DayLayout
	longLabelLayout = "Monday, January 2, 2006"
)

// SeriesRequest selects a chart series. From and To are calendar days in the
// account's timezone and are both inclusive.
type SeriesRequest struct {
	Family    schema.Family
	Metric    schema.Metric
	AccountID string
	Location  *time.Location
	From      time.Time
	To        time.Time
	Mode      schema.SeriesMode
	LabelMode schema.LabelMode
}

// validate checks the request and fills in defaults for optional fields.
func (r *SeriesRequest) validate() error {
	if err := validateMetric(&r.Family, r.Metric, r.AccountID); err != nil {
		return err
	}
	if r.Location == nil {
		r.Location = time.UTC
	}
	if r.Mode == "" {
		r.Mode = schema.DefaultSeriesMode(r.Family)
	}
	if _, ok := schema.ValidSeriesModes[r.Mode]; !ok {
		return fmt.Errorf("%w: unknown series mode %q", schema.ErrInvalidArgument, r.Mode)
	}
	if r.LabelMode == "" {
		r.LabelMode = schema.ISOLabels
	}
	if _, ok := schema.ValidLabelModes[r.LabelMode]; !ok {
		return fmt.Errorf("%w: unknown label mode %q", schema.ErrInvalidArgument, r.LabelMode)
	}
	r.From = algo.NormalizeDay(r.From)
	r.To = algo.NormalizeDay(r.To)
	if r.From.After(r.To) {
		return fmt.Errorf("%w: from %s is after to %s", schema.ErrInvalidArgument, r.From.Format(algo.DayLayout), r.To.Format(algo.DayLayout))
	}
	return nil
}

// BuildSeries produces one labeled point per stored day in [From, To].
//
// In raw mode each value is the stored field. In delta mode the range is
// extended one day back so the first requested day has a baseline; each value
// is the increase over the previous stored row, clamped at zero so counter
// resets never yield negative points. Points that cannot be computed are
// dropped.
func BuildSeries(ctx context.Context, store contract.SnapshotReader, req SeriesRequest) ([]schema.ChartPoint, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	fetchFrom := req.From
	if req.Mode == schema.DeltaMode {
		fetchFrom = req.From.AddDate(0, 0, -1)
	}

	log := logFor(ctx, "series")
	log.Debug().
		Str("family", string(req.Family)).
		Str("metric", string(req.Metric)).
		Str("account", req.AccountID).
		Str("from", fetchFrom.Format(algo.DayLayout)).
		Str("to", req.To.Format(algo.DayLayout)).
		Msg("reading snapshots")

	rows, err := store.RangeOf(ctx, req.Family, req.AccountID, fetchFrom, req.To)
	if err != nil {
		return nil, err
	}

	points := make([]schema.ChartPoint, 0, len(rows))
	var (
		prev    int64
		hasPrev bool
	)
	for _, row := range rows {
		day := algo.NormalizeDay(row.GetDay())
		value, ok := row.Value(req.Metric)
		if !ok {
			return nil, fmt.Errorf("%w: metric %s is not part of the %s family", schema.ErrInvalidArgument, req.Metric, row.Family())
		}

		switch req.Mode {
		case schema.DeltaMode:
			if hasPrev && !day.Before(req.From) {
				points = append(points, newPoint(day, req, algo.ClampedDelta(prev, value)))
			}
			prev, hasPrev = value, true
		default:
			if day.Before(req.From) {
				continue
			}
			points = append(points, newPoint(day, req, value))
		}
	}

	log.Debug().Int("rows", len(rows)).Int("points", len(points)).Msg("series built")
	return points, nil
}

// newPoint labels a value with its calendar day.
func newPoint(day time.Time, req SeriesRequest, value int64) schema.ChartPoint {
	return schema.ChartPoint{Label: FormatDayLabel(day, req.Location, req.LabelMode), Value: schema.Int64Ptr(value)}
}

// FormatDayLabel renders a calendar day as a chart label. The label is taken
// from local midnight of the day in loc, so it never depends on the server's
// timezone or locale.
func FormatDayLabel(day time.Time, loc *time.Location, mode schema.LabelMode) string {
	if loc == nil {
		loc = time.UTC
	}
	local := algo.DayStart(day, loc)
	if mode == schema.LongLabels {
		return local.Format(longLabelLayout)
	}
	return local.Format(isoLabelLayout)
}

// validateMetric resolves the family from the metric when it is empty and
// rejects unknown or mismatched selectors.
func validateMetric(family *schema.Family, metric schema.Metric, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("%w: account is required", schema.ErrInvalidArgument)
	}
	owner := metric.Family()
	if owner == "" {
		return fmt.Errorf("%w: unknown metric %q", schema.ErrInvalidArgument, metric)
	}
	if *family == "" {
		*family = owner
	}
	if _, ok := schema.ValidFamilies[*family]; !ok {
		return fmt.Errorf("%w: unknown family %q", schema.ErrInvalidArgument, *family)
	}
	if *family != owner {
		return fmt.Errorf("%w: metric %s belongs to the %s family, not %s", schema.ErrInvalidArgument, metric, owner, *family)
	}
	return nil
}
