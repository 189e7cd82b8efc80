package core

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSkipCache(WithRequestID(context.Background(), "req-1"))

	const numGoroutines = 50
	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.True(t, shouldSkipCache(ctx), "Goroutine %d: shouldSkipCache should be true", id)
			assert.Equal(t, "req-1", requestID(ctx), "Goroutine %d: wrong request ID", id)
		}(i)
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	ctx1 := WithRequestID(base, "one")
	ctx2 := WithRequestID(base, "two")
	ctx3 := WithSkipCache(base)

	assert.Equal(t, "one", requestID(ctx1))
	assert.Equal(t, "two", requestID(ctx2))
	assert.Equal(t, "", requestID(ctx3))

	assert.False(t, shouldSkipCache(ctx1))
	assert.False(t, shouldSkipCache(base))
	assert.True(t, shouldSkipCache(ctx3))
}

func TestShouldSkipCache_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), skipCacheKey, "yes")
	assert.False(t, shouldSkipCache(ctx))
}

func TestLogFor(t *testing.T) {
	var buf bytes.Buffer
	contract.InitLogger("debug", &buf)
	t.Cleanup(func() { contract.InitLogger("warn", nil) })

	logFor(WithRequestID(context.Background(), "abc"), "series").Debug().Msg("hello")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "series")
	assert.Contains(t, out, "request_id")
	assert.Contains(t, out, "abc")
}
