// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSeries prints a chart series using the configured output format.
func (ow *OutWriter) WriteSeries(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSeriesResults(result, cfg, duration)
}

// WriteKPI prints a KPI report using the configured output format.
func (ow *OutWriter) WriteKPI(report schema.KpiReport, cfg *contract.Config, duration time.Duration) error {
	return PrintKPIResults(report, cfg, duration)
}

// WriteTotal prints the latest total of a metric using the configured output format.
// A nil total means the account has no snapshot yet.
func (ow *OutWriter) WriteTotal(total *schema.TotalSnapshot, cfg *contract.Config, duration time.Duration) error {
	return PrintTotalResults(total, cfg, duration)
}

// WriteTop prints ranked content using the configured output format.
func (ow *OutWriter) WriteTop(items []schema.RankedItem, cfg *contract.Config, duration time.Duration) error {
	return PrintTopResults(items, cfg, duration)
}

// WriteDashboard prints the headline figures of a family using the configured output format.
func (ow *OutWriter) WriteDashboard(result schema.DashboardResult, cfg *contract.Config, duration time.Duration) error {
	return PrintDashboardResults(result, cfg, duration)
}
