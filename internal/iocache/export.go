package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/internal/parquet"
	"github.com/huangsam/tootstats/schema"
)

// Day bounds that cover any stored snapshot.
var (
	minExportDay = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	maxExportDay = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// ExecuteStoreExport exports every table of the snapshot store to Parquet files
// named <outputFile>.<table>.parquet.
func ExecuteStoreExport(ctx context.Context, store contract.SnapshotStore, outputFile string, w io.Writer) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.Accounts == 0 {
		return errors.New("no snapshot data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Accounts: %d\n", status.Accounts)

	accounts, err := store.Accounts(ctx)
	if err != nil {
		return err
	}

	var (
		accountRows []schema.AccountSnapshot
		counterRows []schema.ContentCounterSnapshot
		records     []schema.ContentRecord
	)
	for _, id := range accounts {
		snaps, err := store.RangeOf(ctx, schema.AccountFamily, id, minExportDay, maxExportDay)
		if err != nil {
			return err
		}
		for _, s := range snaps {
			if a, ok := s.(schema.AccountSnapshot); ok {
				accountRows = append(accountRows, a)
			}
		}

		snaps, err = store.RangeOf(ctx, schema.ContentFamily, id, minExportDay, maxExportDay)
		if err != nil {
			return err
		}
		for _, s := range snaps {
			if c, ok := s.(schema.ContentCounterSnapshot); ok {
				counterRows = append(counterRows, c)
			}
		}

		recs, err := store.ContentRecords(ctx, id, nil, nil)
		if err != nil {
			return err
		}
		records = append(records, recs...)
	}

	accountFile := outputFile + "." + accountSnapshotsTable + ".parquet"
	if err := parquet.WriteFile(parquet.ConvertAccountSnapshots(accountRows), accountFile); err != nil {
		return fmt.Errorf("failed to write account snapshots: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d account snapshots to: %s\n", len(accountRows), accountFile)

	counterFile := outputFile + "." + contentCountersTable + ".parquet"
	if err := parquet.WriteFile(parquet.ConvertContentCounters(counterRows), counterFile); err != nil {
		return fmt.Errorf("failed to write content counter snapshots: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d content counter snapshots to: %s\n", len(counterRows), counterFile)

	recordsFile := outputFile + "." + contentRecordsTable + ".parquet"
	if err := parquet.WriteFile(parquet.ConvertContentRecords(records), recordsFile); err != nil {
		return fmt.Errorf("failed to write content records: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d content records to: %s\n", len(records), recordsFile)

	contract.Logger().Info().Int("accounts", len(accounts)).Str("prefix", outputFile).Msg("store export complete")
	return nil
}
