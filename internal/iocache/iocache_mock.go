package iocache

import (
	"context"
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSnapshotStore implements the StoreManager interface.
func (m *MockStoreManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// GetResultCache implements the StoreManager interface.
func (m *MockStoreManager) GetResultCache() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// RangeOf implements the SnapshotStore interface.
func (m *MockSnapshotStore) RangeOf(ctx context.Context, family schema.Family, accountID string, from, to time.Time) ([]schema.DailySnapshot, error) {
	args := m.Called(ctx, family, accountID, from, to)
	rows, _ := args.Get(0).([]schema.DailySnapshot)
	return rows, args.Error(1)
}

// LatestOf implements the SnapshotStore interface.
func (m *MockSnapshotStore) LatestOf(ctx context.Context, family schema.Family, accountID string) (schema.DailySnapshot, error) {
	args := m.Called(ctx, family, accountID)
	snap, _ := args.Get(0).(schema.DailySnapshot)
	return snap, args.Error(1)
}

// ContentRecords implements the SnapshotStore interface.
func (m *MockSnapshotStore) ContentRecords(ctx context.Context, accountID string, from, to *time.Time) ([]schema.ContentRecord, error) {
	args := m.Called(ctx, accountID, from, to)
	recs, _ := args.Get(0).([]schema.ContentRecord)
	return recs, args.Error(1)
}

// UpsertAccountSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) UpsertAccountSnapshots(ctx context.Context, rows []schema.AccountSnapshot) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

// UpsertContentCounterSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) UpsertContentCounterSnapshots(ctx context.Context, rows []schema.ContentCounterSnapshot) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

// UpsertContentRecords implements the SnapshotStore interface.
func (m *MockSnapshotStore) UpsertContentRecords(ctx context.Context, rows []schema.ContentRecord) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

// Revision implements the SnapshotStore interface.
func (m *MockSnapshotStore) Revision(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// Accounts implements the SnapshotStore interface.
func (m *MockSnapshotStore) Accounts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
