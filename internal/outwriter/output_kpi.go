package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/internal/parquet"
	"github.com/huangsam/tootstats/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// kpiHeader is shared by the KPI and dashboard CSV outputs.
var kpiHeader = []string{
	"metric",
	"period",
	"cumulative",
	"previous_period",
	"current_period_progress",
	"current_period",
	"trend",
}

// PrintKPIResults outputs a KPI report, dispatching based on the output format configured.
func PrintKPIResults(report schema.KpiReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON KPI"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, kpiHeader, func(cw *csv.Writer) error {
				return cw.Write(kpiCSVRow(report, cfg.Precision))
			})
		}, "Wrote CSV KPI"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertKpiReports([]schema.KpiReport{report}, nil)
		if err := writeParquet(rows, cfg.OutputFile, "Wrote Parquet KPI"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKPITable(w, report, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// kpiCSVRow renders a report in the column order of kpiHeader.
func kpiCSVRow(report schema.KpiReport, precision int) []string {
	return []string{
		string(report.Metric),
		string(report.Period),
		strconv.FormatBool(report.Cumulative),
		csvOptional(report.PreviousPeriod),
		csvOptional(report.CurrentPeriodProgress),
		csvOptional(report.CurrentPeriod),
		csvRatio(report.Trend, precision),
	}
}

// writeKPITable prints the period-over-period figures of one metric.
func writeKPITable(w io.Writer, report schema.KpiReport, cfg *contract.Config, duration time.Duration) error {
	f := createFormatters(cfg.Locale, cfg.Precision)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Period", "Previous", "Current", "Progress", "Trend", "Direction"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	row := []string{
		titleCase(string(report.Metric)),
		string(report.Period),
		f.optional(report.PreviousPeriod),
		f.optional(report.CurrentPeriod),
		progressLabel(report.CurrentPeriodProgress),
		f.percent(report.Trend),
		trendLabel(report.Trend, cfg.UseColors),
	}
	if err := table.Bulk([][]string{row}); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "KPI for account %s in %s. Completed in %v. Cache backend: %s\n",
		cfg.AccountID, cfg.Timezone, duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// progressLabel renders the zero-based day index as "day N" of the period.
func progressLabel(progress *int64) string {
	if progress == nil {
		return contract.NoneValue
	}
	return fmt.Sprintf("day %d", *progress+1)
}

// PrintTotalResults outputs the latest total of a metric, dispatching based on the output format configured.
func PrintTotalResults(total *schema.TotalSnapshot, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, total)
		}, "Wrote JSON total"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"account_id", "metric", "amount", "day"}, func(cw *csv.Writer) error {
				if total == nil {
					return nil
				}
				return cw.Write([]string{
					cfg.AccountID,
					string(total.Metric),
					strconv.FormatInt(total.Amount, 10),
					total.Day.Format(time.DateOnly),
				})
			})
		}, "Wrote CSV total"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(parquet.ConvertTotal(cfg.AccountID, total), cfg.OutputFile, "Wrote Parquet total"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTotalText(w, total, cfg, duration)
		}, "Wrote total")
	}
	return nil
}

// writeTotalText prints a one-line summary of the latest total.
func writeTotalText(w io.Writer, total *schema.TotalSnapshot, cfg *contract.Config, duration time.Duration) error {
	if total == nil {
		_, err := fmt.Fprintf(w, "No %s snapshot for account %s yet\n", cfg.Family, cfg.AccountID)
		return err
	}
	f := createFormatters(cfg.Locale, cfg.Precision)
	if _, err := fmt.Fprintf(w, "%s: %s (as of %s)\n", titleCase(string(total.Metric)), f.int(total.Amount), total.Day.Format(time.DateOnly)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// PrintDashboardResults outputs the headline figures of a family, dispatching based on the output format configured.
func PrintDashboardResults(result schema.DashboardResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON dashboard"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForDashboard(w, result, cfg.Precision)
		}, "Wrote CSV dashboard"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		reports := make([]schema.KpiReport, len(result.Entries))
		totals := make([]*schema.TotalSnapshot, len(result.Entries))
		for i, e := range result.Entries {
			reports[i] = e.KPI
			totals[i] = e.Total
		}
		if err := writeParquet(parquet.ConvertKpiReports(reports, totals), cfg.OutputFile, "Wrote Parquet dashboard"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForDashboard writes one KPI row per metric followed by its total.
func writeCSVResultsForDashboard(w io.Writer, result schema.DashboardResult, precision int) error {
	header := append(append([]string{}, kpiHeader...), "total", "total_day")
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range result.Entries {
			row := kpiCSVRow(e.KPI, precision)
			row[0] = string(e.Metric)
			if e.Total != nil {
				row = append(row, strconv.FormatInt(e.Total.Amount, 10), e.Total.Day.Format(time.DateOnly))
			} else {
				row = append(row, "", "")
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDashboardTable prints one row per metric of the family.
func writeDashboardTable(w io.Writer, result schema.DashboardResult, cfg *contract.Config, duration time.Duration) error {
	f := createFormatters(cfg.Locale, cfg.Precision)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Total", "Previous", "Current", "Trend", "Direction"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		total := contract.NoneValue
		if e.Total != nil {
			total = f.int(e.Total.Amount)
		}
		data = append(data, []string{
			titleCase(string(e.Metric)),
			total,
			f.optional(e.KPI.PreviousPeriod),
			f.optional(e.KPI.CurrentPeriod),
			f.percent(e.KPI.Trend),
			trendLabel(e.KPI.Trend, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s dashboard for account %s (%s over %s). Completed in %v. Cache backend: %s\n",
		titleCase(string(result.Family)), result.AccountID, result.Period, cfg.Timezone, duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
