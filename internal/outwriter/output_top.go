package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/internal/parquet"
	"github.com/huangsam/tootstats/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTopResults outputs ranked content, dispatching based on the output format configured.
func PrintTopResults(items []schema.RankedItem, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, items)
		}, "Wrote JSON ranking"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForTop(w, items)
		}, "Wrote CSV ranking"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(parquet.ConvertRankedItems(items), cfg.OutputFile, "Wrote Parquet ranking"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTopTable(w, items, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForTop writes the ranking in CSV format.
func writeCSVResultsForTop(w io.Writer, items []schema.RankedItem) error {
	header := []string{
		"position",
		"id",
		"account_id",
		"created_at",
		"replies_count",
		"reblogs_count",
		"favourites_count",
		"rank",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, it := range items {
			row := []string{
				strconv.Itoa(i + 1),
				it.ID,
				it.AccountID,
				it.CreatedAt.UTC().Format(time.RFC3339),
				strconv.FormatInt(it.RepliesCount, 10),
				strconv.FormatInt(it.ReblogsCount, 10),
				strconv.FormatInt(it.FavouritesCount, 10),
				strconv.FormatInt(it.Rank, 10),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeTopTable generates and writes the human-readable ranking table.
// Creation times are shown in the account's timezone.
func writeTopTable(w io.Writer, items []schema.RankedItem, cfg *contract.Config, duration time.Duration) error {
	f := createFormatters(cfg.Locale, cfg.Precision)
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "ID", "Created", "Replies", "Boosts", "Favourites", "Score"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	idWidth := getMaxIDWidth(cfg)
	data := make([][]string, 0, len(items))
	for i, it := range items {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(it.ID, idWidth),
			it.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			f.int(it.RepliesCount),
			f.int(it.ReblogsCount),
			f.int(it.FavouritesCount),
			f.int(it.Rank),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing top %d items by %s for account %s (%s)\n", len(items), cfg.RankBy, cfg.AccountID, cfg.Range); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
