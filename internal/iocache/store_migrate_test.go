package iocache

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/tootstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateStore_NoneBackend(t *testing.T) {
	err := MigrateStore(schema.NoneBackend, "", -1, &bytes.Buffer{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestMigrateStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "store.db")
	var out bytes.Buffer

	// Migrate to latest
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "Successfully migrated from version 0 to version 3")

	// Running again is a no-op
	out.Reset()
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "No migration needed")

	// Step down to version 1
	out.Reset()
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 1, &out))
	assert.Contains(t, out.String(), "to version 1")

	// Roll back everything
	out.Reset()
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 0, &out))
	assert.Contains(t, out.String(), "rolled back")

	// Migrated tables are usable by the store
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1, &bytes.Buffer{}))
	store, err := NewSnapshotStore(schema.SQLiteBackend, dbPath, time.Second)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.UpsertAccountSnapshots(context.Background(), []schema.AccountSnapshot{
		{AccountID: "1", Day: day("2025-03-01"), FollowersCount: 1},
	}))
}

func TestMigrateStore_SQLiteInMemory(t *testing.T) {
	require.NoError(t, MigrateStore(schema.SQLiteBackend, ":memory:", -1, &bytes.Buffer{}))
}

func TestMigrateStore_InvalidMySQL(t *testing.T) {
	err := MigrateStore(schema.MySQLBackend, "not a dsn", -1, &bytes.Buffer{})
	assert.Error(t, err)
}
