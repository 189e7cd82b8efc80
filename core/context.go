package core

import (
	"context"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/rs/zerolog"
)

// Context keys for request options
type contextKey string

const (
	requestIDKey contextKey = "requestID"
	skipCacheKey contextKey = "skipCache"
)

// WithRequestID tags the context with a request ID that is attached to log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// requestID returns the request ID from context, or "".
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithSkipCache makes the request bypass the result cache for reads and writes.
func WithSkipCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipCacheKey, true)
}

// shouldSkipCache returns whether the result cache should be bypassed
func shouldSkipCache(ctx context.Context) bool {
	val := ctx.Value(skipCacheKey)
	if val == nil {
		return false // default: use the cache
	}
	skip, ok := val.(bool)
	return ok && skip
}

// logFor returns the package logger scoped to the component and request.
func logFor(ctx context.Context, component string) *zerolog.Logger {
	c := contract.Logger().With().Str("component", component)
	if id := requestID(ctx); id != "" {
		c = c.Str("request_id", id)
	}
	l := c.Logger()
	return &l
}
