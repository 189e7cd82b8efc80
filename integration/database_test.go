//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/tootstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestTootstatsWithMySQL tests the tootstats CLI with a MySQL store and cache.
func TestTootstatsWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "tootstats",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/tootstats", host, port.Port())
	runBackendScenario(t, []string{
		"TOOTSTATS_STORE_BACKEND=mysql",
		"TOOTSTATS_STORE_DB_CONNECT=" + connStr,
		"TOOTSTATS_CACHE_BACKEND=mysql",
		"TOOTSTATS_CACHE_DB_CONNECT=" + connStr,
	})
}

// TestTootstatsWithPostgres tests the tootstats CLI with a PostgreSQL store and cache.
func TestTootstatsWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runBackendScenario(t, []string{
		"TOOTSTATS_STORE_BACKEND=postgresql",
		"TOOTSTATS_STORE_DB_CONNECT=" + connStr,
		"TOOTSTATS_CACHE_BACKEND=postgresql",
		"TOOTSTATS_CACHE_DB_CONNECT=" + connStr,
	})
}

// TestTootstatsWithRedisCache tests the tootstats CLI with the default SQLite store and a Redis cache.
func TestTootstatsWithRedisCache(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = redisC.Terminate(ctx) }()

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	runBackendScenario(t, []string{
		"TOOTSTATS_CACHE_BACKEND=redis",
		"TOOTSTATS_CACHE_DB_CONNECT=" + fmt.Sprintf("redis://%s:%s/0", host, port.Port()),
	})
}

// runBackendScenario imports the fixture and exercises the store and cache through the CLI.
func runBackendScenario(t *testing.T, env []string) {
	t.Helper()
	home := t.TempDir()

	runTootstats(t, home, env, "cache", "clear")
	runTootstats(t, home, env, "store", "clear")

	out := runTootstats(t, home, env, "store", "import", writeFixture(t, home))
	assert.Contains(t, out, "3 account snapshots, 4 content counter snapshots, 3 content records")

	// Twice, so the second run is served from the cache
	args := []string{"chart", "--account", "1", "--now", fixtureNow, "--metric", "boosts", "--from", "2025-03-09", "--to", "2025-03-11", "--output", "json"}
	for range 2 {
		out = runTootstats(t, home, env, args...)
		var result schema.SeriesResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		values := make([]int64, 0, len(result.Points))
		for _, p := range result.Points {
			values = append(values, *p.Value)
		}
		assert.Equal(t, []int64{0, 0, 13}, values)
	}

	out = runTootstats(t, home, env, "total", "--account", "1", "--metric", "followers")
	assert.Contains(t, out, "Followers: 260 (as of 2025-03-11)")

	out = runTootstats(t, home, env, "top", "--account", "1", "--now", fixtureNow, "--from", "2025-03-10", "--to", "2025-03-11", "--output", "json")
	var items []schema.RankedItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)

	status := runTootstats(t, home, env, "store", "status")
	assert.Contains(t, status, "Accounts: 1")

	status = runTootstats(t, home, env, "cache", "status")
	assert.Contains(t, status, "Connected: true")
}
