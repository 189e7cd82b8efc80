//go:build basic || database

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedTootstatsPath holds the path to a shared tootstats binary built once for all tests.
	sharedTootstatsPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// fixtureJSON seeds account "1". Boosts grow 10, 10, 7, 20 over 03-08..03-11, and
// followers are 200, 210, 260 over 03-09..03-11.
const fixtureJSON = `{
  "account_snapshots": [
    {"account_id": "1", "day": "2025-03-09", "followers_count": 200, "following_count": 50, "statuses_count": 10},
    {"account_id": "1", "day": "2025-03-10", "followers_count": 210, "following_count": 50, "statuses_count": 11},
    {"account_id": "1", "day": "2025-03-11", "followers_count": 260, "following_count": 51, "statuses_count": 13}
  ],
  "content_counter_snapshots": [
    {"account_id": "1", "day": "2025-03-08", "replies_count": 1, "boosts_count": 10, "favourites_count": 4},
    {"account_id": "1", "day": "2025-03-09", "replies_count": 1, "boosts_count": 10, "favourites_count": 4},
    {"account_id": "1", "day": "2025-03-10", "replies_count": 2, "boosts_count": 7, "favourites_count": 9},
    {"account_id": "1", "day": "2025-03-11", "replies_count": 5, "boosts_count": 20, "favourites_count": 16}
  ],
  "content_records": [
    {"id": "a", "account_id": "1", "created_at": "2025-03-10T10:00:00Z", "replies_count": 0, "reblogs_count": 3, "favourites_count": 1},
    {"id": "b", "account_id": "1", "created_at": "2025-03-11T09:00:00Z", "replies_count": 2, "reblogs_count": 0, "favourites_count": 7},
    {"id": "c", "account_id": "1", "created_at": "2025-03-11T12:00:00Z", "replies_count": 0, "reblogs_count": 0, "favourites_count": 0}
  ]
}`

// fixtureNow is a Wednesday; the current week started Monday 2025-03-10.
const fixtureNow = "2025-03-12T12:00:00Z"

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getTootstatsBinary returns the path to the tootstats binary, building it once if needed.
func getTootstatsBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "tootstats-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "tootstats")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build tootstats: %v\n%s", err, out))
		}

		sharedTootstatsPath = binPath
	})

	return sharedTootstatsPath
}

// writeFixture writes the fixture import file into dir.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o644))
	return path
}

// runTootstats runs the binary with HOME pointed at home and the extra environment.
// It returns stdout and fails the test on a non-zero exit.
func runTootstats(t *testing.T, home string, env []string, args ...string) string {
	t.Helper()
	out, stderr, err := execTootstats(home, env, args...)
	require.NoError(t, err, "tootstats %v failed: %s", args, stderr)
	return out
}

// execTootstats runs the binary and returns stdout, stderr and the exit error.
func execTootstats(home string, env []string, args ...string) (string, string, error) {
	cmd := exec.Command(getTootstatsBinary(), args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home, "TOOTSTATS_COLOR=no")
	cmd.Env = append(cmd.Env, env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
