package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/internal/iocache"
	"github.com/huangsam/tootstats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig loads the store backend settings without the full shared setup.
func storeConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}
	contract.InitLogger(viper.GetString("log-level"), nil)

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetup loads the store settings and opens the snapshot store.
// No result cache is opened for store commands.
func storeSetup() error {
	if err := storeConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(iocache.StoreOptions{
		StoreBackend:    cfg.StoreBackend,
		StoreConnStr:    cfg.StoreDBConnect,
		QueryTimeout:    contract.DefaultQueryTimeout,
		SkipResultCache: true,
	}); err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeConfigWrapper wraps storeConfig for commands that must not open the store,
// such as clear and migrate.
func storeConfigWrapper(_ *cobra.Command, _ []string) error {
	return storeConfig()
}

// storeDBFilePath returns the SQLite file backing the snapshot store.
func storeDBFilePath() string {
	if cfg.StoreDBConnect != "" {
		return cfg.StoreDBConnect
	}
	return contract.GetStoreDBFilePath()
}

// storeCmd focused on snapshot store management.
//
// Note: Store subcommands use minimal initialization instead of the full
// sharedSetup used by the statistics commands, so no account or timeframe is needed.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the daily snapshot store",
	Long: `Manage the store of daily account snapshots, content counter snapshots and content records.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (empty)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all snapshot data
  migrate - Run schema migrations
  import  - Load snapshots from a JSON or CSV file
  export  - Export snapshots to Parquet for analytics

Examples:
  # Load the daily collector output
  tootstats store import snapshots.json

  # Check what is stored
  tootstats store status`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot store statistics and connection details",
	Long: `Show row counts per table, the number of accounts and the covered day range.

Examples:
  tootstats store status
  TOOTSTATS_STORE_BACKEND=postgresql TOOTSTATS_STORE_DB_CONNECT="host=... dbname=..." tootstats store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetSnapshotStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd removes all snapshot data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored snapshots",
	Long: `Delete all snapshot data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot tables

Examples:
  tootstats store clear`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, storeDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the snapshot store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  tootstats store migrate

  # Rollback to initial state
  tootstats store migrate --target-version 0`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// storeImportCmd loads snapshots from files.
var storeImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import snapshots from JSON or CSV files",
	Long: `Upsert daily snapshots and content records into the store.

JSON files hold account_snapshots, content_counter_snapshots and content_records arrays.
CSV files are recognized by their header row. Rows that already exist for the same
account and day are replaced.

Examples:
  tootstats store import snapshots.json
  tootstats store import accounts.csv counters.csv records.csv`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		store := storeManager.GetSnapshotStore()
		for _, path := range args {
			summary, err := iocache.ImportFile(rootCtx, store, path)
			if err != nil {
				contract.LogFatal(fmt.Sprintf("Failed to import %s", path), err)
			}
			fmt.Printf("Imported %s: %d account snapshots, %d content counter snapshots, %d content records\n",
				path, summary.AccountSnapshots, summary.ContentCounters, summary.ContentRecords)
		}
	},
}

// storeExportCmd exports snapshots to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored snapshots to Parquet for BI tools and analytics",
	Long: `Export every snapshot table to Parquet files named <output-file>.<table>.parquet.

Requires: --output-file parameter

Examples:
  tootstats store export --output-file snapshots
  duckdb -c "SELECT * FROM read_parquet('snapshots.account_snapshots.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteStoreExport(rootCtx, storeManager.GetSnapshotStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export snapshots", err)
		}
	},
}
