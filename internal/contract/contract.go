// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/tootstats/schema"
)

// SnapshotReader defines the read operations the statistics engine needs.
// This allows the core logic to be tested without a real database.
type SnapshotReader interface {
	// RangeOf returns the snapshots of a family for one account with from <= day <= to,
	// ascending by day. An empty result is not an error.
	RangeOf(ctx context.Context, family schema.Family, accountID string, from, to time.Time) ([]schema.DailySnapshot, error)

	// LatestOf returns the snapshot with the greatest day, or nil when the account has none.
	LatestOf(ctx context.Context, family schema.Family, accountID string) (schema.DailySnapshot, error)

	// ContentRecords returns the content records of an account. When bounds are given,
	// only records with from <= createdAt < to are returned.
	ContentRecords(ctx context.Context, accountID string, from, to *time.Time) ([]schema.ContentRecord, error)
}

// SnapshotWriter defines the upsert operations used by importers and tests.
type SnapshotWriter interface {
	UpsertAccountSnapshots(ctx context.Context, rows []schema.AccountSnapshot) error
	UpsertContentCounterSnapshots(ctx context.Context, rows []schema.ContentCounterSnapshot) error
	UpsertContentRecords(ctx context.Context, rows []schema.ContentRecord) error
}

// SnapshotStore is a durable snapshot store.
type SnapshotStore interface {
	SnapshotReader
	SnapshotWriter

	// Revision returns a value that increases whenever rows of the account are written.
	// Result cache keys carry it, so a write invalidates earlier results.
	Revision(ctx context.Context, accountID string) (int64, error)

	// Accounts returns every account ID with at least one stored row, sorted ascending.
	Accounts(ctx context.Context) ([]string, error)

	// GetStatus returns status information about the snapshot store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// CacheStore defines the interface for result cache storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// StoreManager defines the interface for managing the snapshot and cache stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetSnapshotStore() SnapshotStore
	GetResultCache() CacheStore
}
