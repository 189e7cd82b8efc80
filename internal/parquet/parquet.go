// Package parquet provides data structures and functions for exporting snapshots
// and derived statistics to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/tootstats/schema"
	"github.com/parquet-go/parquet-go"
)

// AccountSnapshotRow maps to the account_snapshots table.
type AccountSnapshotRow struct {
	AccountID      string `parquet:"account_id,snappy,dict"`
	Day            string `parquet:"day,snappy"` // YYYY-MM-DD
	FollowersCount int64  `parquet:"followers_count,snappy"`
	FollowingCount int64  `parquet:"following_count,snappy"`
	StatusesCount  int64  `parquet:"statuses_count,snappy"`
}

// ContentCounterRow maps to the content_counter_snapshots table.
type ContentCounterRow struct {
	AccountID       string `parquet:"account_id,snappy,dict"`
	Day             string `parquet:"day,snappy"` // YYYY-MM-DD
	RepliesCount    int64  `parquet:"replies_count,snappy"`
	BoostsCount     int64  `parquet:"boosts_count,snappy"`
	FavouritesCount int64  `parquet:"favourites_count,snappy"`
}

// ContentRecordRow maps to the content_records table.
type ContentRecordRow struct {
	ID              string    `parquet:"id,snappy"`
	AccountID       string    `parquet:"account_id,snappy,dict"`
	CreatedAt       time.Time `parquet:"created_at,snappy"`
	RepliesCount    int64     `parquet:"replies_count,snappy"`
	ReblogsCount    int64     `parquet:"reblogs_count,snappy"`
	FavouritesCount int64     `parquet:"favourites_count,snappy"`
}

// ChartPointRow is one point of a chart series.
type ChartPointRow struct {
	AccountID string `parquet:"account_id,snappy,dict"`
	Metric    string `parquet:"metric,snappy,dict"`
	Mode      string `parquet:"mode,snappy,dict"`
	Label     string `parquet:"label,snappy"`
	Value     *int64 `parquet:"value,optional,snappy"`
}

// RankedItemRow is one ranked content record.
type RankedItemRow struct {
	Rank            int64     `parquet:"rank,snappy"`
	ID              string    `parquet:"id,snappy"`
	AccountID       string    `parquet:"account_id,snappy,dict"`
	CreatedAt       time.Time `parquet:"created_at,snappy"`
	RepliesCount    int64     `parquet:"replies_count,snappy"`
	ReblogsCount    int64     `parquet:"reblogs_count,snappy"`
	FavouritesCount int64     `parquet:"favourites_count,snappy"`
}

// KpiRow is the period-over-period summary of one metric. Nullable fields mean
// there was not enough history.
type KpiRow struct {
	Metric                string   `parquet:"metric,snappy,dict"`
	Period                string   `parquet:"period,snappy,dict"`
	PreviousPeriod        *int64   `parquet:"previous_period,optional,snappy"`
	CurrentPeriodProgress *int64   `parquet:"current_period_progress,optional,snappy"`
	CurrentPeriod         *int64   `parquet:"current_period,optional,snappy"`
	Trend                 *float64 `parquet:"trend,optional,snappy"`
	Total                 *int64   `parquet:"total,optional,snappy"`
}

// TotalRow is the latest known value of one metric.
type TotalRow struct {
	AccountID string `parquet:"account_id,snappy,dict"`
	Metric    string `parquet:"metric,snappy,dict"`
	Amount    int64  `parquet:"amount,snappy"`
	Day       string `parquet:"day,snappy"` // YYYY-MM-DD
}

// Write writes rows to w as a single Parquet file.
// The schema is automatically derived from the struct tags of T.
func Write[T any](rows []T, w io.Writer) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(rows, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertAccountSnapshots converts account snapshots for Parquet export.
func ConvertAccountSnapshots(records []schema.AccountSnapshot) []AccountSnapshotRow {
	result := make([]AccountSnapshotRow, len(records))
	for i, r := range records {
		result[i] = AccountSnapshotRow{
			AccountID:      r.AccountID,
			Day:            r.Day.Format(time.DateOnly),
			FollowersCount: r.FollowersCount,
			FollowingCount: r.FollowingCount,
			StatusesCount:  r.StatusesCount,
		}
	}
	return result
}

// ConvertContentCounters converts content counter snapshots for Parquet export.
func ConvertContentCounters(records []schema.ContentCounterSnapshot) []ContentCounterRow {
	result := make([]ContentCounterRow, len(records))
	for i, r := range records {
		result[i] = ContentCounterRow{
			AccountID:       r.AccountID,
			Day:             r.Day.Format(time.DateOnly),
			RepliesCount:    r.RepliesCount,
			BoostsCount:     r.BoostsCount,
			FavouritesCount: r.FavouritesCount,
		}
	}
	return result
}

// ConvertContentRecords converts content records for Parquet export.
func ConvertContentRecords(records []schema.ContentRecord) []ContentRecordRow {
	result := make([]ContentRecordRow, len(records))
	for i, r := range records {
		result[i] = ContentRecordRow{
			ID:              r.ID,
			AccountID:       r.AccountID,
			CreatedAt:       r.CreatedAt,
			RepliesCount:    r.RepliesCount,
			ReblogsCount:    r.ReblogsCount,
			FavouritesCount: r.FavouritesCount,
		}
	}
	return result
}

// ConvertSeries flattens a chart series into rows.
func ConvertSeries(series schema.SeriesResult) []ChartPointRow {
	result := make([]ChartPointRow, len(series.Points))
	for i, p := range series.Points {
		result[i] = ChartPointRow{
			AccountID: series.AccountID,
			Metric:    string(series.Metric),
			Mode:      string(series.Mode),
			Label:     p.Label,
			Value:     p.Value,
		}
	}
	return result
}

// ConvertRankedItems converts ranked content for Parquet export.
func ConvertRankedItems(items []schema.RankedItem) []RankedItemRow {
	result := make([]RankedItemRow, len(items))
	for i, it := range items {
		result[i] = RankedItemRow{
			Rank:            it.Rank,
			ID:              it.ID,
			AccountID:       it.AccountID,
			CreatedAt:       it.CreatedAt,
			RepliesCount:    it.RepliesCount,
			ReblogsCount:    it.ReblogsCount,
			FavouritesCount: it.FavouritesCount,
		}
	}
	return result
}

// ConvertKpiReports converts KPI reports for Parquet export. totals may be nil
// or shorter than reports; missing totals are left null.
func ConvertKpiReports(reports []schema.KpiReport, totals []*schema.TotalSnapshot) []KpiRow {
	result := make([]KpiRow, len(reports))
	for i, r := range reports {
		row := KpiRow{
			Metric:                string(r.Metric),
			Period:                string(r.Period),
			PreviousPeriod:        r.PreviousPeriod,
			CurrentPeriodProgress: r.CurrentPeriodProgress,
			CurrentPeriod:         r.CurrentPeriod,
			Trend:                 r.Trend,
		}
		if i < len(totals) && totals[i] != nil {
			row.Total = schema.Int64Ptr(totals[i].Amount)
		}
		result[i] = row
	}
	return result
}

// ConvertTotal converts a total for Parquet export. A nil total yields no rows.
func ConvertTotal(accountID string, total *schema.TotalSnapshot) []TotalRow {
	if total == nil {
		return []TotalRow{}
	}
	return []TotalRow{{
		AccountID: accountID,
		Metric:    string(total.Metric),
		Amount:    total.Amount,
		Day:       total.Day.Format(time.DateOnly),
	}}
}
