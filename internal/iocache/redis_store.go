package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces result cache keys in a shared Redis.
const redisKeyPrefix = "tootstats:result:"

// Hash fields of a cached entry.
const (
	fieldValue     = "value"
	fieldVersion   = "version"
	fieldTimestamp = "ts"
)

// RedisCacheStore caches serialized results in Redis hashes with a TTL.
type RedisCacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.CacheStore = &RedisCacheStore{} // Compile-time check

// NewRedisCacheStore connects to Redis using a redis:// URL.
func NewRedisCacheStore(url string, ttl time.Duration) (*RedisCacheStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w. Expected redis://[user:password@]host:port/db", err)
	}
	return NewRedisCacheStoreWithClient(redis.NewClient(opts), ttl)
}

// NewRedisCacheStoreWithClient wraps an existing client and verifies the connection.
func NewRedisCacheStoreWithClient(client *redis.Client, ttl time.Duration) (*RedisCacheStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", client.Options().Addr, err)
	}
	return &RedisCacheStore{client: client, ttl: ttl}, nil
}

// Get retrieves a value by key. A miss returns sql.ErrNoRows like the SQL store.
func (r *RedisCacheStore) Get(key string) ([]byte, int, int64, error) {
	ctx := context.Background()
	vals, err := r.client.HGetAll(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(vals) == 0 {
		return nil, 0, 0, sql.ErrNoRows
	}

	version, err := strconv.Atoi(vals[fieldVersion])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	ts, err := strconv.ParseInt(vals[fieldTimestamp], 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return []byte(vals[fieldValue]), version, ts, nil
}

// Set stores a key/value pair and refreshes its TTL.
func (r *RedisCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx := context.Background()
	fullKey := redisKeyPrefix + key
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, fullKey, fieldValue, value, fieldVersion, version, fieldTimestamp, timestamp)
		if r.ttl > 0 {
			pipe.Expire(ctx, fullKey, r.ttl)
		}
		return nil
	})
	return err
}

// GetStatus scans the namespaced keys to report entry count and time bounds.
func (r *RedisCacheStore) GetStatus() (schema.CacheStatus, error) {
	ctx := context.Background()
	status := schema.CacheStatus{Backend: string(schema.RedisBackend)}
	if err := r.client.Ping(ctx).Err(); err != nil {
		return status, nil
	}
	status.Connected = true

	var oldest, latest int64
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		status.TotalEntries++

		tsStr, err := r.client.HGet(ctx, key, fieldTimestamp).Result()
		if err == nil {
			if ts, err := strconv.ParseInt(tsStr, 10, 64); err == nil {
				if oldest == 0 || ts < oldest {
					oldest = ts
				}
				if ts > latest {
					latest = ts
				}
			}
		}
		if size, err := r.client.MemoryUsage(ctx, key).Result(); err == nil {
			status.TableSizeBytes += size
		}
	}
	if err := iter.Err(); err != nil {
		return status, fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if status.TotalEntries > 0 {
		status.OldestEntryTime = time.Unix(oldest, 0)
		status.LastEntryTime = time.Unix(latest, 0)
	}
	return status, nil
}

// Clear deletes every namespaced key.
func (r *RedisCacheStore) Clear() error {
	ctx := context.Background()
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisCacheStore) Close() error {
	return r.client.Close()
}
