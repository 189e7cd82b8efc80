package iocache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/tootstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExecuteStoreExport(t *testing.T) {
	store := newMemoryStore(t)
	seedStore(t, store)
	prefix := filepath.Join(t.TempDir(), "backup")
	var out bytes.Buffer

	require.NoError(t, ExecuteStoreExport(context.Background(), store, prefix, &out))

	assert.Contains(t, out.String(), "Accounts: 3")
	assert.Contains(t, out.String(), "Exported 4 account snapshots")
	assert.Contains(t, out.String(), "Exported 2 content counter snapshots")
	assert.Contains(t, out.String(), "Exported 3 content records")

	for _, table := range snapshotTables {
		info, err := os.Stat(prefix + "." + table + ".parquet")
		require.NoError(t, err, table)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExecuteStoreExport_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing output file", func(t *testing.T) {
		err := ExecuteStoreExport(ctx, &MockSnapshotStore{}, "", &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("empty store", func(t *testing.T) {
		store := newMemoryStore(t)
		err := ExecuteStoreExport(ctx, store, filepath.Join(t.TempDir(), "x"), &bytes.Buffer{})
		assert.EqualError(t, err, "no snapshot data found to export")
	})

	t.Run("read failure", func(t *testing.T) {
		m := &MockSnapshotStore{}
		m.On("GetStatus").Return(schema.StoreStatus{Backend: "sqlite", Connected: true, Accounts: 1}, nil)
		m.On("Accounts", mock.Anything).Return([]string{"1"}, nil)
		m.On("RangeOf", mock.Anything, schema.AccountFamily, "1", mock.Anything, mock.Anything).
			Return(nil, schema.ErrStorageUnavailable)

		err := ExecuteStoreExport(ctx, m, filepath.Join(t.TempDir(), "x"), &bytes.Buffer{})
		assert.True(t, errors.Is(err, schema.ErrStorageUnavailable))
		m.AssertExpectations(t)
	})
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	PrintStoreStatus(&out, schema.StoreStatus{
		Backend:     "sqlite",
		Connected:   true,
		Accounts:    2,
		FirstDay:    day("2025-03-01"),
		LastDay:     day("2025-03-09"),
		TableCounts: map[string]int64{"content_records": 3, "account_snapshots": 5},
	})
	text := out.String()
	assert.Contains(t, text, "Accounts: 2")
	assert.Contains(t, text, "First Day: 2025-03-01")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("account_snapshots")), bytes.Index(out.Bytes(), []byte("content_records")))

	out.Reset()
	PrintCacheStatus(&out, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", out.String())
}
