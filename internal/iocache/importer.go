package iocache

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
)

// ImportSummary counts the rows written by an import.
type ImportSummary struct {
	AccountSnapshots int `json:"account_snapshots"`
	ContentCounters  int `json:"content_counter_snapshots"`
	ContentRecords   int `json:"content_records"`
}

// importDocument is the JSON import format. Days are YYYY-MM-DD and
// created_at is RFC3339.
type importDocument struct {
	AccountSnapshots []struct {
		AccountID      string `json:"account_id"`
		Day            string `json:"day"`
		FollowersCount int64  `json:"followers_count"`
		FollowingCount int64  `json:"following_count"`
		StatusesCount  int64  `json:"statuses_count"`
	} `json:"account_snapshots"`
	ContentCounterSnapshots []struct {
		AccountID       string `json:"account_id"`
		Day             string `json:"day"`
		RepliesCount    int64  `json:"replies_count"`
		BoostsCount     int64  `json:"boosts_count"`
		FavouritesCount int64  `json:"favourites_count"`
	} `json:"content_counter_snapshots"`
	ContentRecords []schema.ContentRecord `json:"content_records"`
}

// CSV headers recognized by ImportCSV.
var (
	accountCSVHeader = []string{"account_id", "day", "followers_count", "following_count", "statuses_count"}
	counterCSVHeader = []string{"account_id", "day", "replies_count", "boosts_count", "favourites_count"}
	recordCSVHeader  = []string{"id", "account_id", "created_at", "replies_count", "reblogs_count", "favourites_count"}
)

// ImportFile loads snapshots from a .json or .csv file into the store.
func ImportFile(ctx context.Context, store contract.SnapshotWriter, path string) (ImportSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ImportJSON(ctx, store, file)
	case ".csv":
		return ImportCSV(ctx, store, file)
	default:
		return ImportSummary{}, fmt.Errorf("%w: unsupported import file type %q (expected .json or .csv)", schema.ErrInvalidArgument, filepath.Ext(path))
	}
}

// ImportJSON loads an import document from r.
func ImportJSON(ctx context.Context, store contract.SnapshotWriter, r io.Reader) (ImportSummary, error) {
	var doc importDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return ImportSummary{}, fmt.Errorf("%w: invalid JSON import: %v", schema.ErrInvalidArgument, err)
	}

	accounts := make([]schema.AccountSnapshot, 0, len(doc.AccountSnapshots))
	for i, row := range doc.AccountSnapshots {
		day, err := checkSnapshotRow(row.AccountID, row.Day, row.FollowersCount, row.FollowingCount, row.StatusesCount)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("account_snapshots[%d]: %w", i, err)
		}
		accounts = append(accounts, schema.AccountSnapshot{
			AccountID:      row.AccountID,
			Day:            day,
			FollowersCount: row.FollowersCount,
			FollowingCount: row.FollowingCount,
			StatusesCount:  row.StatusesCount,
		})
	}

	counters := make([]schema.ContentCounterSnapshot, 0, len(doc.ContentCounterSnapshots))
	for i, row := range doc.ContentCounterSnapshots {
		day, err := checkSnapshotRow(row.AccountID, row.Day, row.RepliesCount, row.BoostsCount, row.FavouritesCount)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("content_counter_snapshots[%d]: %w", i, err)
		}
		counters = append(counters, schema.ContentCounterSnapshot{
			AccountID:       row.AccountID,
			Day:             day,
			RepliesCount:    row.RepliesCount,
			BoostsCount:     row.BoostsCount,
			FavouritesCount: row.FavouritesCount,
		})
	}

	for i, rec := range doc.ContentRecords {
		if err := checkRecord(rec); err != nil {
			return ImportSummary{}, fmt.Errorf("content_records[%d]: %w", i, err)
		}
	}

	return writeImport(ctx, store, accounts, counters, doc.ContentRecords)
}

// ImportCSV loads one table from a CSV file whose header names the columns of
// account_snapshots, content_counter_snapshots or content_records.
func ImportCSV(ctx context.Context, store contract.SnapshotWriter, r io.Reader) (ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("%w: missing CSV header: %v", schema.ErrInvalidArgument, err)
	}
	records, err := reader.ReadAll()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("%w: invalid CSV: %v", schema.ErrInvalidArgument, err)
	}

	switch {
	case sameHeader(header, accountCSVHeader):
		rows := make([]schema.AccountSnapshot, 0, len(records))
		for i, rec := range records {
			day, nums, err := parseCounterLine(rec)
			if err != nil {
				return ImportSummary{}, fmt.Errorf("line %d: %w", i+2, err)
			}
			rows = append(rows, schema.AccountSnapshot{AccountID: rec[0], Day: day, FollowersCount: nums[0], FollowingCount: nums[1], StatusesCount: nums[2]})
		}
		return writeImport(ctx, store, rows, nil, nil)

	case sameHeader(header, counterCSVHeader):
		rows := make([]schema.ContentCounterSnapshot, 0, len(records))
		for i, rec := range records {
			day, nums, err := parseCounterLine(rec)
			if err != nil {
				return ImportSummary{}, fmt.Errorf("line %d: %w", i+2, err)
			}
			rows = append(rows, schema.ContentCounterSnapshot{AccountID: rec[0], Day: day, RepliesCount: nums[0], BoostsCount: nums[1], FavouritesCount: nums[2]})
		}
		return writeImport(ctx, store, nil, rows, nil)

	case sameHeader(header, recordCSVHeader):
		rows := make([]schema.ContentRecord, 0, len(records))
		for i, rec := range records {
			created, err := time.Parse(time.RFC3339, rec[2])
			if err != nil {
				return ImportSummary{}, fmt.Errorf("line %d: %w: invalid created_at %q", i+2, schema.ErrInvalidArgument, rec[2])
			}
			nums, err := parseInts(rec[3:])
			if err != nil {
				return ImportSummary{}, fmt.Errorf("line %d: %w", i+2, err)
			}
			row := schema.ContentRecord{ID: rec[0], AccountID: rec[1], CreatedAt: created.UTC(), RepliesCount: nums[0], ReblogsCount: nums[1], FavouritesCount: nums[2]}
			if err := checkRecord(row); err != nil {
				return ImportSummary{}, fmt.Errorf("line %d: %w", i+2, err)
			}
			rows = append(rows, row)
		}
		return writeImport(ctx, store, nil, nil, rows)

	default:
		return ImportSummary{}, fmt.Errorf("%w: unrecognized CSV header %v", schema.ErrInvalidArgument, header)
	}
}

// writeImport upserts every non-empty batch.
func writeImport(ctx context.Context, store contract.SnapshotWriter, accounts []schema.AccountSnapshot, counters []schema.ContentCounterSnapshot, records []schema.ContentRecord) (ImportSummary, error) {
	var summary ImportSummary
	if len(accounts) > 0 {
		if err := store.UpsertAccountSnapshots(ctx, accounts); err != nil {
			return summary, err
		}
		summary.AccountSnapshots = len(accounts)
	}
	if len(counters) > 0 {
		if err := store.UpsertContentCounterSnapshots(ctx, counters); err != nil {
			return summary, err
		}
		summary.ContentCounters = len(counters)
	}
	if len(records) > 0 {
		if err := store.UpsertContentRecords(ctx, records); err != nil {
			return summary, err
		}
		summary.ContentRecords = len(records)
	}

	contract.Logger().Info().
		Int("account_snapshots", summary.AccountSnapshots).
		Int("content_counter_snapshots", summary.ContentCounters).
		Int("content_records", summary.ContentRecords).
		Msg("import complete")
	return summary, nil
}

// parseCounterLine parses "account_id, day, n1, n2, n3".
func parseCounterLine(rec []string) (time.Time, []int64, error) {
	nums, err := parseInts(rec[2:])
	if err != nil {
		return time.Time{}, nil, err
	}
	day, err := checkSnapshotRow(rec[0], rec[1], nums...)
	if err != nil {
		return time.Time{}, nil, err
	}
	return day, nums, nil
}

// parseInts parses counters; checkCounters bounds them.
func parseInts(fields []string) ([]int64, error) {
	nums := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid counter %q", schema.ErrInvalidArgument, f)
		}
		nums[i] = n
	}
	return nums, checkCounters(nums...)
}

// checkSnapshotRow validates a daily snapshot row of either format and returns its day.
func checkSnapshotRow(accountID, day string, counters ...int64) (time.Time, error) {
	if err := requireField("account_id", accountID); err != nil {
		return time.Time{}, err
	}
	if err := checkCounters(counters...); err != nil {
		return time.Time{}, err
	}
	return contract.ParseDay(day)
}

// checkRecord validates a content record of either format.
func checkRecord(rec schema.ContentRecord) error {
	if err := requireField("id", rec.ID); err != nil {
		return err
	}
	if err := requireField("account_id", rec.AccountID); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		return fmt.Errorf("%w: created_at is required", schema.ErrInvalidArgument)
	}
	return checkCounters(rec.RepliesCount, rec.ReblogsCount, rec.FavouritesCount)
}

// requireField rejects an empty identifier.
func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", schema.ErrInvalidArgument, name)
	}
	return nil
}

// checkCounters rejects negative counters.
func checkCounters(nums ...int64) error {
	for _, n := range nums {
		if n < 0 {
			return fmt.Errorf("%w: invalid counter %d", schema.ErrInvalidArgument, n)
		}
	}
	return nil
}

// sameHeader compares CSV headers case-insensitively.
func sameHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}
