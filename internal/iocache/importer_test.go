package iocache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/tootstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importJSONDoc = `{
  "account_snapshots": [
    {"account_id": "1", "day": "2025-03-01", "followers_count": 10, "following_count": 2, "statuses_count": 3},
    {"account_id": "1", "day": "2025-03-02", "followers_count": 12, "following_count": 2, "statuses_count": 4}
  ],
  "content_counter_snapshots": [
    {"account_id": "1", "day": "2025-03-01", "replies_count": 1, "boosts_count": 5, "favourites_count": 7}
  ],
  "content_records": [
    {"id": "s1", "account_id": "1", "created_at": "2025-03-01T10:00:00Z", "replies_count": 2, "reblogs_count": 3, "favourites_count": 4}
  ]
}`

func TestImportJSON(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	summary, err := ImportJSON(ctx, store, strings.NewReader(importJSONDoc))
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{AccountSnapshots: 2, ContentCounters: 1, ContentRecords: 1}, summary)

	rows, err := store.RangeOf(ctx, schema.AccountFamily, "1", day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	v, _ := rows[1].Value(schema.FollowersMetric)
	assert.Equal(t, int64(12), v)

	recs, err := store.ContentRecords(ctx, "1", nil, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), recs[0].CreatedAt)
	assert.Equal(t, int64(3), recs[0].ReblogsCount)
}

func TestImportJSON_Invalid(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	_, err := ImportJSON(ctx, store, strings.NewReader("{not json"))
	assert.ErrorIs(t, err, schema.ErrInvalidArgument)

	_, err = ImportJSON(ctx, store, strings.NewReader(`{"account_snapshots":[{"account_id":"1","day":"03/01/2025"}]}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "account_snapshots[0]")
}

func TestImport_RowChecks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		format string
		input  string
		where  string
	}{
		{"json negative account counter", "json", `{"account_snapshots":[{"account_id":"1","day":"2025-03-01","followers_count":-5}]}`, "account_snapshots[0]"},
		{"json negative content counter", "json", `{"content_counter_snapshots":[{"account_id":"1","day":"2025-03-01","boosts_count":-1}]}`, "content_counter_snapshots[0]"},
		{"json empty account id", "json", `{"account_snapshots":[{"account_id":"","day":"2025-03-01"}]}`, "account_id is required"},
		{"json empty record id", "json", `{"content_records":[{"id":"","account_id":"1","created_at":"2025-03-01T10:00:00Z"}]}`, "id is required"},
		{"json record without account", "json", `{"content_records":[{"id":"s1","created_at":"2025-03-01T10:00:00Z"}]}`, "content_records[0]"},
		{"json record without created_at", "json", `{"content_records":[{"id":"s1","account_id":"1"}]}`, "created_at is required"},
		{"json negative record counter", "json", `{"content_records":[{"id":"s1","account_id":"1","created_at":"2025-03-01T10:00:00Z","reblogs_count":-2}]}`, "content_records[0]"},
		{"csv empty account id", "csv", "account_id,day,followers_count,following_count,statuses_count\n,2025-03-01,1,2,3\n", "account_id is required"},
		{"csv empty record id", "csv", "id,account_id,created_at,replies_count,reblogs_count,favourites_count\n,1,2025-03-01T10:00:00Z,1,2,3\n", "id is required"},
		{"csv negative record counter", "csv", "id,account_id,created_at,replies_count,reblogs_count,favourites_count\nx,1,2025-03-01T10:00:00Z,1,-2,3\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore(t)
			var err error
			if tt.format == "json" {
				_, err = ImportJSON(ctx, store, strings.NewReader(tt.input))
			} else {
				_, err = ImportCSV(ctx, store, strings.NewReader(tt.input))
			}
			assert.ErrorIs(t, err, schema.ErrInvalidArgument)
			assert.Contains(t, err.Error(), tt.where)

			// Nothing is written when a row is rejected
			accounts, err := store.Accounts(ctx)
			require.NoError(t, err)
			assert.Empty(t, accounts)
		})
	}
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("account snapshots", func(t *testing.T) {
		store := newMemoryStore(t)
		input := "account_id,day,followers_count,following_count,statuses_count\n1,2025-03-01,10,2,3\n1,2025-03-02,11,2,3\n"
		summary, err := ImportCSV(ctx, store, strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 2, summary.AccountSnapshots)
		assert.Zero(t, summary.ContentCounters)
	})

	t.Run("content counters", func(t *testing.T) {
		store := newMemoryStore(t)
		input := "account_id, day, replies_count, boosts_count, favourites_count\n1, 2025-03-01, 1, 10, 20\n"
		summary, err := ImportCSV(ctx, store, strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 1, summary.ContentCounters)

		rows, err := store.RangeOf(ctx, schema.ContentFamily, "1", day("2025-03-01"), day("2025-03-01"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		v, _ := rows[0].Value(schema.BoostsMetric)
		assert.Equal(t, int64(10), v)
	})

	t.Run("content records", func(t *testing.T) {
		store := newMemoryStore(t)
		input := "id,account_id,created_at,replies_count,reblogs_count,favourites_count\nx,1,2025-03-01T10:00:00+02:00,1,2,3\n"
		summary, err := ImportCSV(ctx, store, strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 1, summary.ContentRecords)

		recs, err := store.ContentRecords(ctx, "1", nil, nil)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), recs[0].CreatedAt)
	})

	t.Run("unknown header", func(t *testing.T) {
		store := newMemoryStore(t)
		_, err := ImportCSV(ctx, store, strings.NewReader("a,b,c\n1,2,3\n"))
		assert.ErrorIs(t, err, schema.ErrInvalidArgument)
	})

	t.Run("negative counter", func(t *testing.T) {
		store := newMemoryStore(t)
		input := "account_id,day,followers_count,following_count,statuses_count\n1,2025-03-01,-1,2,3\n"
		_, err := ImportCSV(ctx, store, strings.NewReader(input))
		assert.ErrorIs(t, err, schema.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("empty input", func(t *testing.T) {
		store := newMemoryStore(t)
		_, err := ImportCSV(ctx, store, strings.NewReader(""))
		assert.ErrorIs(t, err, schema.ErrInvalidArgument)
	})
}

func TestImportFile(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "snapshots.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(importJSONDoc), 0o600))
	summary, err := ImportFile(ctx, store, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.AccountSnapshots)

	txtPath := filepath.Join(dir, "snapshots.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o600))
	_, err = ImportFile(ctx, store, txtPath)
	assert.ErrorIs(t, err, schema.ErrInvalidArgument)

	_, err = ImportFile(ctx, store, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
