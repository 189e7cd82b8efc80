package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreOptions configures InitStores.
type StoreOptions struct {
	StoreBackend    schema.DatabaseBackend
	StoreConnStr    string
	CacheBackend    schema.DatabaseBackend
	CacheConnStr    string
	CacheTTL        time.Duration
	QueryTimeout    time.Duration
	SkipResultCache bool
}

// InitStores initializes the global manager with a snapshot store and a result cache.
// A "none" cache backend leaves the result cache disabled.
func InitStores(opts StoreOptions) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		snapshots, err := NewSnapshotStore(opts.StoreBackend, opts.StoreConnStr, opts.QueryTimeout)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
			return
		}

		var results contract.CacheStore
		if !opts.SkipResultCache {
			results, err = NewResultCache(opts.CacheBackend, opts.CacheConnStr, opts.CacheTTL)
			if err != nil {
				_ = snapshots.Close()
				initErr = fmt.Errorf("failed to initialize result cache: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.snapshots = snapshots
		Manager.results = results
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// NewResultCache opens the result cache for the backend, or returns nil for "none".
func NewResultCache(backend schema.DatabaseBackend, connStr string, ttl time.Duration) (contract.CacheStore, error) {
	switch backend {
	case schema.NoneBackend, "":
		return nil, nil
	case schema.RedisBackend:
		store, err := NewRedisCacheStore(connStr, ttl)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := NewCacheStore(resultCacheTable, backend, connStr)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.snapshots != nil {
			_ = Manager.snapshots.Close()
		}
		if Manager.results != nil {
			_ = Manager.results.Close()
		}
	})
}

// ClearCache clears the result cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For Redis, it deletes the namespaced keys.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, resultCacheTable)

	case schema.RedisBackend:
		store, err := NewRedisCacheStore(connStr, 0)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.Clear()

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearStore removes all snapshot data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the snapshot tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, storeTables...)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// removeSQLiteFile deletes a SQLite database file; a missing file is not an error.
func removeSQLiteFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
	}
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
