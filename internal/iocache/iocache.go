package iocache

import (
	"sync"

	"github.com/huangsam/tootstats/internal/contract"
)

// StoreManagerImpl holds the snapshot store and the result cache.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	snapshots    contract.SnapshotStore
	results      contract.CacheStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// NewStoreManager wraps already opened stores. Either may be nil.
func NewStoreManager(snapshots contract.SnapshotStore, results contract.CacheStore) *StoreManagerImpl {
	return &StoreManagerImpl{snapshots: snapshots, results: results}
}

// GetSnapshotStore returns the snapshot store.
func (mgr *StoreManagerImpl) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}

// GetResultCache returns the result cache, or nil when caching is disabled.
func (mgr *StoreManagerImpl) GetResultCache() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}
