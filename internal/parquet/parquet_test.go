package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/tootstats/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

// readAll reads back every row of a parquet file.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestRowStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"account snapshots", new(AccountSnapshotRow), []string{"account_id", "day", "followers_count", "following_count", "statuses_count"}},
		{"content counters", new(ContentCounterRow), []string{"account_id", "day", "replies_count", "boosts_count", "favourites_count"}},
		{"content records", new(ContentRecordRow), []string{"id", "account_id", "created_at", "replies_count", "reblogs_count", "favourites_count"}},
		{"chart points", new(ChartPointRow), []string{"account_id", "metric", "mode", "label", "value"}},
		{"ranked items", new(RankedItemRow), []string{"rank", "id", "created_at"}},
		{"kpis", new(KpiRow), []string{"metric", "period", "previous_period", "current_period_progress", "current_period", "trend", "total"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sch := parquet.SchemaOf(tt.model)
			require.NotNil(t, sch)
			for _, colName := range tt.columns {
				_, ok := sch.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestWriteFileAccountSnapshots(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "account_snapshots.parquet")

	data := ConvertAccountSnapshots([]schema.AccountSnapshot{
		{AccountID: "1", Day: day("2025-03-01"), FollowersCount: 100, FollowingCount: 20, StatusesCount: 5},
		{AccountID: "1", Day: day("2025-03-02"), FollowersCount: 104, FollowingCount: 21, StatusesCount: 7},
	})
	require.NoError(t, WriteFile(data, outputPath))

	rows := readAll[AccountSnapshotRow](t, outputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-02", rows[1].Day)
	assert.Equal(t, int64(104), rows[1].FollowersCount)
}

func TestWriteFileContentRecords(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "content_records.parquet")
	created := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	data := ConvertContentRecords([]schema.ContentRecord{
		{ID: "a", AccountID: "1", CreatedAt: created, RepliesCount: 1, ReblogsCount: 2, FavouritesCount: 3},
	})
	require.NoError(t, WriteFile(data, outputPath))

	rows := readAll[ContentRecordRow](t, outputPath)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].ID)
	assert.WithinDuration(t, created, rows[0].CreatedAt, time.Millisecond)
	assert.Equal(t, int64(2), rows[0].ReblogsCount)
}

func TestWriteNullableFields(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "kpis.parquet")
	trend := 0.25

	reports := []schema.KpiReport{
		{
			KpiSummary: schema.KpiSummary{
				Metric:                schema.FollowersMetric,
				Period:                schema.WeekPeriod,
				PreviousPeriod:        schema.Int64Ptr(100),
				CurrentPeriodProgress: schema.Int64Ptr(3),
				CurrentPeriod:         schema.Int64Ptr(125),
			},
			Trend: &trend,
		},
		{KpiSummary: schema.KpiSummary{Metric: schema.FollowingMetric, Period: schema.WeekPeriod}},
	}
	totals := []*schema.TotalSnapshot{{Metric: schema.FollowersMetric, Amount: 125}}
	require.NoError(t, WriteFile(ConvertKpiReports(reports, totals), outputPath))

	rows := readAll[KpiRow](t, outputPath)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].PreviousPeriod)
	assert.Equal(t, int64(100), *rows[0].PreviousPeriod)
	require.NotNil(t, rows[0].Trend)
	assert.InDelta(t, 0.25, *rows[0].Trend, 1e-9)
	require.NotNil(t, rows[0].Total)
	assert.Equal(t, int64(125), *rows[0].Total)

	assert.Nil(t, rows[1].PreviousPeriod)
	assert.Nil(t, rows[1].CurrentPeriod)
	assert.Nil(t, rows[1].Trend)
	assert.Nil(t, rows[1].Total)
}

func TestWriteToBuffer(t *testing.T) {
	series := schema.SeriesResult{
		AccountID: "1",
		Metric:    schema.BoostsMetric,
		Mode:      schema.DeltaMode,
		Points: []schema.ChartPoint{
			{Label: "2025-03-02", Value: schema.Int64Ptr(4)},
			{Label: "2025-03-03", Value: schema.Int64Ptr(0)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(ConvertSeries(series), &buf))
	assert.Greater(t, buf.Len(), 0)

	reader := parquet.NewGenericReader[ChartPointRow](bytes.NewReader(buf.Bytes()))
	defer func() { _ = reader.Close() }()
	assert.Equal(t, int64(2), reader.NumRows())
}

func TestWriteFileEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteFile([]RankedItemRow{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteFileInvalidPath(t *testing.T) {
	err := WriteFile(ConvertRankedItems(nil), "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertTotal(t *testing.T) {
	assert.Empty(t, ConvertTotal("1", nil))

	rows := ConvertTotal("1", &schema.TotalSnapshot{Metric: schema.FollowersMetric, Amount: 7, Day: day("2025-03-11")})
	require.Len(t, rows, 1)
	assert.Equal(t, TotalRow{AccountID: "1", Metric: "followers", Amount: 7, Day: "2025-03-11"}, rows[0])

	path := filepath.Join(t.TempDir(), "total.parquet")
	require.NoError(t, WriteFile(rows, path))
	assert.Equal(t, rows, readAll[TotalRow](t, path))
}
