// Package main provides a performance benchmarking tool for the Tootstats CLI.
// It generates a synthetic snapshot history, imports it into a scratch SQLite store
// and measures execution times of the statistics commands, running each test multiple
// times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - tootstats binary installed and available in PATH
//
// Usage: go run benchmark/main.go [days-of-history]
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Account     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Days        int
	PostsPerDay int
	NoCacheRuns int
	CacheRuns   int
	Accounts    []string
	Commands    map[string]string
}

type accountRow struct {
	AccountID      string `json:"account_id"`
	Day            string `json:"day"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
	StatusesCount  int64  `json:"statuses_count"`
}

type counterRow struct {
	AccountID       string `json:"account_id"`
	Day             string `json:"day"`
	RepliesCount    int64  `json:"replies_count"`
	BoostsCount     int64  `json:"boosts_count"`
	FavouritesCount int64  `json:"favourites_count"`
}

type recordRow struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	CreatedAt       time.Time `json:"created_at"`
	RepliesCount    int64     `json:"replies_count"`
	ReblogsCount    int64     `json:"reblogs_count"`
	FavouritesCount int64     `json:"favourites_count"`
}

type dataset struct {
	AccountSnapshots        []accountRow `json:"account_snapshots"`
	ContentCounterSnapshots []counterRow `json:"content_counter_snapshots"`
	ContentRecords          []recordRow  `json:"content_records"`
}

func main() {
	days := 730
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n <= 0 {
			fmt.Printf("Usage: %s [days-of-history]\n", os.Args[0])
			os.Exit(1)
		}
		days = n
	}

	workDir, err := os.MkdirTemp("", "tootstats-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		Days:        days,
		PostsPerDay: 20,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Accounts:    []string{"1001", "1002", "1003"},
		Commands: map[string]string{
			"chart":     "--metric boosts --timeframe lastyear",
			"kpi":       "--metric followers --period month",
			"top":       "--rank-by top --timeframe lastyear --limit 50",
			"dashboard": "--family content",
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeding %d days of history for %d accounts...\n", config.Days, len(config.Accounts))
	if err := seedStore(config); err != nil {
		fmt.Printf("Failed to seed store: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the tootstats binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("tootstats"); err != nil {
		return fmt.Errorf("tootstats binary not found in PATH")
	}
	return nil
}

// storePath returns the scratch SQLite store of the benchmark.
func storePath(config BenchmarkConfig) string {
	return filepath.Join(config.WorkDir, "store.db")
}

// seedStore writes a synthetic dataset and imports it with `tootstats store import`.
func seedStore(config BenchmarkConfig) error {
	data := generateDataset(config)
	path := filepath.Join(config.WorkDir, "dataset.json")

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(file).Encode(data); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	cmd := exec.Command("tootstats", "store", "import", path, "--store-db-connect", storePath(config))
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("import failed: %w\nOutput: %s", err, string(output))
	}
	fmt.Printf("Imported %d account snapshots, %d counter snapshots and %d posts\n",
		len(data.AccountSnapshots), len(data.ContentCounterSnapshots), len(data.ContentRecords))
	return nil
}

// generateDataset produces monotonically growing counters with some noise.
func generateDataset(config BenchmarkConfig) dataset {
	rng := rand.New(rand.NewPCG(42, 1024))
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -config.Days+1)

	var data dataset
	for _, account := range config.Accounts {
		var followers, statuses, replies, boosts, favourites int64 = 100, 0, 0, 0, 0
		for d := 0; d < config.Days; d++ {
			day := start.AddDate(0, 0, d)
			dayStr := day.Format(time.DateOnly)

			followers += rng.Int64N(12) - 3
			for p := 0; p < config.PostsPerDay; p++ {
				rec := recordRow{
					ID:              fmt.Sprintf("%s-%d-%d", account, d, p),
					AccountID:       account,
					CreatedAt:       day.Add(time.Duration(rng.IntN(86400)) * time.Second),
					RepliesCount:    rng.Int64N(10),
					ReblogsCount:    rng.Int64N(25),
					FavouritesCount: rng.Int64N(60),
				}
				statuses++
				replies += rec.RepliesCount
				boosts += rec.ReblogsCount
				favourites += rec.FavouritesCount
				data.ContentRecords = append(data.ContentRecords, rec)
			}

			data.AccountSnapshots = append(data.AccountSnapshots, accountRow{
				AccountID: account, Day: dayStr, FollowersCount: followers, FollowingCount: 150, StatusesCount: statuses,
			})
			data.ContentCounterSnapshots = append(data.ContentCounterSnapshots, counterRow{
				AccountID: account, Day: dayStr, RepliesCount: replies, BoostsCount: boosts, FavouritesCount: favourites,
			})
		}
	}
	return data
}

// runBenchmarks executes all benchmark tests across configured accounts
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d accounts, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Accounts), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, account := range config.Accounts {
		fmt.Printf("Benchmarking account %s\n", account)
		for _, command := range []string{"chart", "kpi", "top", "dashboard"} {
			result := runBenchmarkSuite(config, account, command, config.Commands[command])
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, account, command, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s for account %s\n", command, account)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, account, command, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs against a fresh cache file
	_ = os.Remove(filepath.Join(config.WorkDir, "cache.db"))
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Account:     account,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a tootstats command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, account, command, extraArgs, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command,
		"--account", account,
		"--store-db-connect", storePath(config),
		"--cache-backend", cacheBackend,
		"--cache-db-connect", filepath.Join(config.WorkDir, "cache.db"),
	}
	if extraArgs != "" {
		args = append(args, strings.Fields(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("tootstats", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/tootstats_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"account", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Account, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"chart", "kpi", "top", "dashboard"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Account, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
