package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/tootstats/internal/contract"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cachedResult serves a derived result from the cache when a fresh entry of
// the current version exists, and otherwise computes and stores it. A nil
// cache, a skip-cache context or any cache failure falls back to computing.
func cachedResult[T any](ctx context.Context, cache contract.CacheStore, ttl time.Duration, key string, compute func() (T, error)) (T, error) {
	if cache == nil || shouldSkipCache(ctx) {
		// Fallback to direct computation
		return compute()
	}

	// Check for cache hit
	if result, ok := checkCacheHit[T](ctx, cache, ttl, key); ok {
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(ctx, cache, key, compute)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[T any](ctx context.Context, cache contract.CacheStore, ttl time.Duration, key string) (T, bool) {
	var result T
	data, version, ts, err := cache.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion {
		return result, false
	}
	if ttl > 0 && time.Since(time.Unix(ts, 0)) > ttl {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		logFor(ctx, "cache").Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return result, false
	}
	logFor(ctx, "cache").Debug().Str("key", key).Msg("cache hit")
	return result, true
}

// computeAndStore computes the result and stores it in cache
func computeAndStore[T any](ctx context.Context, cache contract.CacheStore, key string, compute func() (T, error)) (T, error) {
	result, err := compute()
	if err != nil {
		return result, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		logFor(ctx, "cache").Warn().Err(err).Str("key", key).Msg("cannot encode result for cache")
		return result, nil
	}
	if err := cache.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		logFor(ctx, "cache").Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return result, nil
}

// resultKey builds the cache key of a result for one account. The key carries
// the account's data revision, so entries computed before a write are never
// served after it. The store is not consulted when caching is off.
func resultKey(ctx context.Context, cache contract.CacheStore, store contract.SnapshotStore, kind, accountID string, parts ...any) (string, error) {
	if cache == nil || shouldSkipCache(ctx) {
		return "", nil
	}
	rev, err := store.Revision(ctx, accountID)
	if err != nil {
		return "", err
	}
	return generateCacheKey(kind, append([]any{accountID, rev}, parts...)...), nil
}

// generateCacheKey creates a unique key from the kind of result and the
// parameters that determine it.
func generateCacheKey(kind string, parts ...any) string {
	fields := make([]string, 0, len(parts)+1)
	fields = append(fields, kind)
	for _, p := range parts {
		switch v := p.(type) {
		case time.Time:
			fields = append(fields, v.UTC().Format(time.RFC3339))
		case *time.Time:
			if v == nil {
				fields = append(fields, "-")
			} else {
				fields = append(fields, v.UTC().Format(time.RFC3339))
			}
		default:
			fields = append(fields, fmt.Sprint(v))
		}
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.Join(fields, ":"))))
}
