//go:build basic

// Package integration contains integration tests for tootstats.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/huangsam/tootstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededHome imports the fixture into the default SQLite store under a fresh HOME.
func seededHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	out := runTootstats(t, home, nil, "store", "import", writeFixture(t, home))
	assert.Contains(t, out, "3 account snapshots, 4 content counter snapshots, 3 content records")
	return home
}

// TestStatisticsCommands verifies every statistics command against the fixture.
func TestStatisticsCommands(t *testing.T) {
	home := seededHome(t)
	common := []string{"--account", "1", "--now", fixtureNow}

	t.Run("chart delta", func(t *testing.T) {
		out := runTootstats(t, home, nil, append(common, "chart", "--metric", "boosts", "--from", "2025-03-09", "--to", "2025-03-11", "--output", "json")...)
		var result schema.SeriesResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, schema.DeltaMode, result.Mode)

		labels := make([]string, 0, len(result.Points))
		values := make([]int64, 0, len(result.Points))
		for _, p := range result.Points {
			labels = append(labels, p.Label)
			values = append(values, *p.Value)
		}
		assert.Equal(t, []string{"2025-03-09", "2025-03-10", "2025-03-11"}, labels)
		assert.Equal(t, []int64{0, 0, 13}, values)
	})

	t.Run("chart raw text", func(t *testing.T) {
		out := runTootstats(t, home, nil, append(common, "chart", "--metric", "followers", "--from", "2025-03-09", "--to", "2025-03-11")...)
		assert.Contains(t, out, "2025-03-11")
		assert.Contains(t, out, "260")
		assert.Contains(t, out, "Completed in")
	})

	t.Run("kpi snapshot metric", func(t *testing.T) {
		out := runTootstats(t, home, nil, append(common, "kpi", "--metric", "followers", "--output", "json")...)
		var report schema.KpiReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.False(t, report.Cumulative)
		require.NotNil(t, report.CurrentPeriod)
		require.NotNil(t, report.PreviousPeriod)
		assert.Equal(t, int64(260), *report.CurrentPeriod)
		assert.Equal(t, int64(200), *report.PreviousPeriod)
		assert.Equal(t, int64(2), *report.CurrentPeriodProgress)
		require.NotNil(t, report.Trend)
		assert.InDelta(t, 0.3, *report.Trend, 1e-9)
	})

	t.Run("total", func(t *testing.T) {
		out := runTootstats(t, home, nil, append(common, "total", "--metric", "followers")...)
		assert.Contains(t, out, "Followers: 260 (as of 2025-03-11)")
	})

	t.Run("total for unknown account", func(t *testing.T) {
		out := runTootstats(t, home, nil, "total", "--account", "2", "--metric", "followers", "--output", "json")
		assert.Equal(t, "null", strings.TrimSpace(out))
	})

	t.Run("top csv", func(t *testing.T) {
		out := runTootstats(t, home, nil, append(common, "top", "--from", "2025-03-10", "--to", "2025-03-11", "--output", "csv")...)
		rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3, "header plus two posts; the zero-score post is dropped")
		assert.Equal(t, "id", rows[0][1])
		assert.Equal(t, "b", rows[1][1])
		assert.Equal(t, "7", rows[1][7])
		assert.Equal(t, "a", rows[2][1])
	})

	t.Run("dashboard", func(t *testing.T) {
		out := runTootstats(t, home, nil, append(common, "dashboard", "--family", "account", "--output", "json")...)
		var result schema.DashboardResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Entries, 3)
		assert.Equal(t, schema.FollowersMetric, result.Entries[0].Metric)
		require.NotNil(t, result.Entries[0].Total)
		assert.Equal(t, int64(260), result.Entries[0].Total.Amount)
	})

	t.Run("parquet output", func(t *testing.T) {
		file := filepath.Join(home, "series.parquet")
		runTootstats(t, home, nil, append(common, "chart", "--metric", "boosts", "--output", "parquet", "--output-file", file)...)
		assert.FileExists(t, file)
	})
}

// TestInvalidArguments verifies that bad input exits non-zero with an error.
func TestInvalidArguments(t *testing.T) {
	home := seededHome(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad timezone", []string{"chart", "--account", "1", "--timezone", "Mars/Olympus"}},
		{"bad limit", []string{"top", "--account", "1", "--limit", "0"}},
		{"from after to", []string{"chart", "--account", "1", "--from", "2025-03-10", "--to", "2025-03-01"}},
		{"missing account", []string{"kpi", "--metric", "boosts"}},
		{"bad backend", []string{"total", "--account", "1", "--store-backend", "oracle"}},
		{"parquet without file", []string{"chart", "--account", "1", "--output", "parquet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execTootstats(home, nil, tt.args...)
			assert.Error(t, err)
		})
	}
}

// TestResultCache runs the same request twice against a SQLite result cache.
func TestResultCache(t *testing.T) {
	home := seededHome(t)
	cacheFile := filepath.Join(home, "cache.db")
	env := []string{"TOOTSTATS_CACHE_BACKEND=sqlite", "TOOTSTATS_CACHE_DB_CONNECT=" + cacheFile}
	args := []string{"chart", "--account", "1", "--now", fixtureNow, "--metric", "boosts", "--from", "2025-03-09", "--to", "2025-03-11", "--output", "json"}

	first := runTootstats(t, home, env, args...)
	second := runTootstats(t, home, env, args...)
	assert.JSONEq(t, first, second)

	status := runTootstats(t, home, env, "cache", "status")
	assert.Contains(t, status, "Connected: true")
	assert.Contains(t, status, "Total Entries: 1")

	assert.Contains(t, runTootstats(t, home, env, "cache", "clear"), "Cache cleared successfully.")
	assert.NoFileExists(t, cacheFile)
}

// TestStoreCommands covers status, export and clear of the snapshot store.
func TestStoreCommands(t *testing.T) {
	home := seededHome(t)

	status := runTootstats(t, home, nil, "store", "status")
	assert.Contains(t, status, "Store Backend: sqlite")
	assert.Contains(t, status, "Accounts: 1")
	assert.Contains(t, status, "First Day: 2025-03-08")
	assert.Contains(t, status, "Last Day: 2025-03-11")

	prefix := filepath.Join(home, "export")
	out := runTootstats(t, home, nil, "store", "export", "--output-file", prefix)
	assert.Contains(t, out, "Exported 3 account snapshots")
	assert.FileExists(t, prefix+".account_snapshots.parquet")
	assert.FileExists(t, prefix+".content_counter_snapshots.parquet")
	assert.FileExists(t, prefix+".content_records.parquet")

	assert.Contains(t, runTootstats(t, home, nil, "store", "clear"), "Store cleared successfully.")
	assert.NoFileExists(t, filepath.Join(home, ".tootstats.db"))
}

// TestVersion checks the version command.
func TestVersion(t *testing.T) {
	out, stderr, err := execTootstats(t.TempDir(), nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out+stderr, "tootstats CLI")
}
