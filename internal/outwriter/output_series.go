package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/internal/parquet"
	"github.com/huangsam/tootstats/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSeriesResults outputs a chart series, dispatching based on the output format configured.
func PrintSeriesResults(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSeries(w, result)
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(parquet.ConvertSeries(result), cfg.OutputFile, "Wrote Parquet series"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForSeries writes one row per chart point.
func writeCSVResultsForSeries(w io.Writer, result schema.SeriesResult) error {
	header := []string{"label", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Points {
			if err := cw.Write([]string{p.Label, csvOptional(p.Value)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSeriesTable prints the series with a proportional bar per point.
func writeSeriesTable(w io.Writer, result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	f := createFormatters(cfg.Locale, cfg.Precision)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Day", titleCase(string(result.Metric)), ""})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignLeft}
	})

	var maxValue int64
	for _, p := range result.Points {
		if p.Value != nil && *p.Value > maxValue {
			maxValue = *p.Value
		}
	}
	barWidth := getMaxBarWidth(cfg, result.Labels)

	data := make([][]string, 0, len(result.Points))
	for _, p := range result.Points {
		data = append(data, []string{p.Label, f.optional(p.Value), bar(p.Value, maxValue, barWidth)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s %s of account %s from %s to %s (%d points)\n",
		strings.ToUpper(string(result.Mode)), result.Metric, result.AccountID, result.From, result.To, len(result.Points)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// bar renders v as a run of blocks scaled so maxValue fills width.
func bar(v *int64, maxValue int64, width int) string {
	if v == nil || maxValue <= 0 || *v <= 0 {
		return ""
	}
	n := int(*v * int64(width) / maxValue)
	if n == 0 {
		return "▏"
	}
	return strings.Repeat("█", n)
}
