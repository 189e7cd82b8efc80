// Package core has the statistics engine: chart series, KPIs, totals and content ranking.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/tootstats/core/algo"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/internal/outwriter"
	"github.com/huangsam/tootstats/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteChart builds the configured chart series and prints it.
// It serves as the main entry point for the 'chart' command.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetChartResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSeries(*result, cfg, time.Since(start))
}

// ExecuteKPI computes the configured KPI and prints it.
// It serves as the main entry point for the 'kpi' command.
func ExecuteKPI(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := GetKPIResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteKPI(report, cfg, time.Since(start))
}

// ExecuteTotal reads the latest total of the configured metric and prints it.
// It serves as the main entry point for the 'total' command.
func ExecuteTotal(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	total, err := GetTotalResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTotal(total, cfg, time.Since(start))
}

// ExecuteTop ranks the content of the configured window and prints it.
// It serves as the main entry point for the 'top' command.
func ExecuteTop(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	items, err := GetTopContentResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTop(items, cfg, time.Since(start))
}

// ExecuteDashboard computes totals and KPIs for every metric of the configured family.
// It serves as the main entry point for the 'dashboard' command.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetDashboardResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDashboard(*result, cfg, time.Since(start))
}

// GetChartResults returns the chart series for the configuration without printing it.
func GetChartResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.SeriesResult, error) {
	store, err := snapshotStore(mgr)
	if err != nil {
		return nil, err
	}
	req := SeriesRequest{
		Family:    cfg.Family,
		Metric:    cfg.Metric,
		AccountID: cfg.AccountID,
		Location:  cfg.Location,
		From:      cfg.Range.From,
		To:        cfg.Range.To,
		Mode:      cfg.Mode,
		LabelMode: cfg.Labels,
	}
	cache := mgr.GetResultCache()
	key, err := resultKey(ctx, cache, store, "series", cfg.AccountID, cfg.Family, cfg.Metric, cfg.Timezone, cfg.Range.From, cfg.Range.To, cfg.Mode, cfg.Labels, cfg.CacheBucket())
	if err != nil {
		return nil, err
	}

	points, err := cachedResult(ctx, cache, cfg.CacheTTL, key, func() ([]schema.ChartPoint, error) {
		return BuildSeries(ctx, store, req)
	})
	if err != nil {
		return nil, err
	}
	return &schema.SeriesResult{
		AccountID: cfg.AccountID,
		Family:    cfg.Family,
		Metric:    cfg.Metric,
		Mode:      cfg.Mode,
		Labels:    cfg.Labels,
		From:      cfg.Range.From.Format(algo.DayLayout),
		To:        cfg.Range.To.Format(algo.DayLayout),
		Points:    points,
	}, nil
}

// GetKPIResults returns the KPI for the configuration with its trend resolved.
func GetKPIResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.KpiReport, error) {
	store, err := snapshotStore(mgr)
	if err != nil {
		return schema.KpiReport{}, err
	}
	req := KPIRequest{
		Family:    cfg.Family,
		Metric:    cfg.Metric,
		AccountID: cfg.AccountID,
		Location:  cfg.Location,
		Period:    cfg.Period,
		Now:       cfg.Now,
	}
	cache := mgr.GetResultCache()
	key, err := resultKey(ctx, cache, store, "kpi", cfg.AccountID, cfg.Family, cfg.Metric, cfg.Timezone, cfg.Period, localToday(cfg), cfg.CacheBucket())
	if err != nil {
		return schema.KpiReport{}, err
	}

	summary, err := cachedResult(ctx, cache, cfg.CacheTTL, key, func() (schema.KpiSummary, error) {
		return ComputeKPI(ctx, store, req)
	})
	if err != nil {
		return schema.KpiReport{}, err
	}
	return summary.Report(), nil
}

// GetTotalResults returns the latest total for the configuration, or nil when absent.
func GetTotalResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.TotalSnapshot, error) {
	store, err := snapshotStore(mgr)
	if err != nil {
		return nil, err
	}
	req := TotalRequest{Family: cfg.Family, Metric: cfg.Metric, AccountID: cfg.AccountID}
	cache := mgr.GetResultCache()
	key, err := resultKey(ctx, cache, store, "total", cfg.AccountID, cfg.Family, cfg.Metric, cfg.CacheBucket())
	if err != nil {
		return nil, err
	}

	return cachedResult(ctx, cache, cfg.CacheTTL, key, func() (*schema.TotalSnapshot, error) {
		return GetTotal(ctx, store, req)
	})
}

// GetTopContentResults returns the ranked content of the configured day range.
// The range is converted to instants at local midnight in the account's timezone.
func GetTopContentResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.RankedItem, error) {
	store, err := snapshotStore(mgr)
	if err != nil {
		return nil, err
	}
	from, to := cfg.Range.Instants(location(cfg))
	req := TopRequest{
		AccountID: cfg.AccountID,
		RankBy:    cfg.RankBy,
		From:      &from,
		To:        &to,
		Limit:     cfg.ResultLimit,
	}
	cache := mgr.GetResultCache()
	key, err := resultKey(ctx, cache, store, "top", cfg.AccountID, cfg.RankBy, &from, &to, cfg.ResultLimit, cfg.CacheBucket())
	if err != nil {
		return nil, err
	}

	return cachedResult(ctx, cache, cfg.CacheTTL, key, func() ([]schema.RankedItem, error) {
		return TopContent(ctx, store, req)
	})
}

// GetDashboardResults returns the totals and KPIs of every metric of the configured family.
func GetDashboardResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.DashboardResult, error) {
	store, err := snapshotStore(mgr)
	if err != nil {
		return nil, err
	}
	req := DashboardRequest{
		Family:    cfg.Family,
		AccountID: cfg.AccountID,
		Location:  cfg.Location,
		Period:    cfg.Period,
		Now:       cfg.Now,
	}
	cache := mgr.GetResultCache()
	key, err := resultKey(ctx, cache, store, "dashboard", cfg.AccountID, cfg.Family, cfg.Timezone, cfg.Period, localToday(cfg), cfg.CacheBucket())
	if err != nil {
		return nil, err
	}

	return cachedResult(ctx, cache, cfg.CacheTTL, key, func() (*schema.DashboardResult, error) {
		return BuildDashboard(ctx, store, req)
	})
}

// snapshotStore returns the manager's snapshot store or an unavailable error.
func snapshotStore(mgr contract.StoreManager) (contract.SnapshotStore, error) {
	if mgr == nil {
		return nil, fmt.Errorf("%w: no store manager", schema.ErrStorageUnavailable)
	}
	store := mgr.GetSnapshotStore()
	if store == nil {
		return nil, fmt.Errorf("%w: snapshot store is not initialized", schema.ErrStorageUnavailable)
	}
	return store, nil
}

// localToday returns the account-local calendar day of the reference time.
// Cache keys carry it so entries never straddle a local midnight.
func localToday(cfg *contract.Config) time.Time {
	return algo.DayOf(cfg.Now, location(cfg))
}

// location returns the configured timezone, defaulting to UTC.
func location(cfg *contract.Config) *time.Location {
	if cfg.Location == nil {
		return time.UTC
	}
	return cfg.Location
}

// invalidFamily reports an unknown snapshot family.
func invalidFamily(f schema.Family) error {
	return fmt.Errorf("%w: unknown family %q", schema.ErrInvalidArgument, f)
}
