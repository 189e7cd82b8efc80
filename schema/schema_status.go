package schema

import "time"

// CacheStatus represents the status of the result cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// StoreStatus represents the status of the snapshot store.
type StoreStatus struct {
	Backend     string           `json:"backend"`
	Connected   bool             `json:"connected"`
	Accounts    int              `json:"accounts"`
	FirstDay    time.Time        `json:"first_day"`
	LastDay     time.Time        `json:"last_day"`
	TableCounts map[string]int64 `json:"table_counts"`
}
