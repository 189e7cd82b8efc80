package core

import (
	"context"
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
	"golang.org/x/sync/errgroup"
)

// DashboardRequest selects the headline figures of every metric of a family.
type DashboardRequest struct {
	Family    schema.Family
	AccountID string
	Location  *time.Location
	Period    schema.PeriodKind
	Now       time.Time
}

// BuildDashboard computes the total and the KPI of each metric of the family
// concurrently. The first failure cancels the remaining reads.
func BuildDashboard(ctx context.Context, store contract.SnapshotReader, req DashboardRequest) (*schema.DashboardResult, error) {
	metrics := schema.MetricsOf(req.Family)
	if len(metrics) == 0 {
		return nil, invalidFamily(req.Family)
	}

	entries := make([]schema.DashboardEntry, len(metrics))
	g, gctx := errgroup.WithContext(ctx)
	for i, metric := range metrics {
		entries[i].Metric = metric

		g.Go(func() error {
			total, err := GetTotal(gctx, store, TotalRequest{Family: req.Family, Metric: metric, AccountID: req.AccountID})
			if err != nil {
				return err
			}
			entries[i].Total = total
			return nil
		})

		g.Go(func() error {
			kpi, err := ComputeKPI(gctx, store, KPIRequest{
				Family:    req.Family,
				Metric:    metric,
				AccountID: req.AccountID,
				Location:  req.Location,
				Period:    req.Period,
				Now:       req.Now,
			})
			if err != nil {
				return err
			}
			entries[i].KPI = kpi.Report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	period := req.Period
	if period == "" {
		period = schema.WeekPeriod
	}
	return &schema.DashboardResult{
		AccountID: req.AccountID,
		Family:    req.Family,
		Period:    period,
		Entries:   entries,
	}, nil
}
