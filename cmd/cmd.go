// Package cmd defines the command-line interface for tootstats.
package cmd

import (
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(kpiCmd)
	rootCmd.AddCommand(totalCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(cacheCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeImportCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("account", "a", "", "Account id whose snapshots are read")
	rootCmd.PersistentFlags().String("family", "", "Snapshot family: account or content (implied by --metric)")
	rootCmd.PersistentFlags().StringP("metric", "m", "", "Metric: followers, following, statuses, replies, boosts, favourites")
	rootCmd.PersistentFlags().String("timezone", contract.DefaultTimezone, "IANA timezone of the account (e.g. Europe/Berlin)")
	rootCmd.PersistentFlags().String("timeframe", contract.DefaultTimeframe, "Symbolic range: today, yesterday, thisweek, lastweek, thismonth, lastmonth, thisyear, lastyear, lastNdays")
	rootCmd.PersistentFlags().String("from", "", "First day of the range (YYYY-MM-DD), overrides --timeframe")
	rootCmd.PersistentFlags().String("to", "", "Last day of the range (YYYY-MM-DD), overrides --timeframe")
	rootCmd.PersistentFlags().String("now", "", "Reference time in RFC3339 (defaults to the current time)")
	rootCmd.PersistentFlags().String("mode", "", "Series mode: raw or delta (default depends on the family)")
	rootCmd.PersistentFlags().String("labels", string(schema.ISOLabels), "Chart labels: iso or long")
	rootCmd.PersistentFlags().String("period", string(schema.WeekPeriod), "KPI period: week or month or year")
	rootCmd.PersistentFlags().String("rank-by", string(schema.RankByTop), "Ranking: replies or boosts or favourites or top")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("locale", contract.DefaultLocale, "Locale for number formatting (e.g. en, de, fr)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Snapshot store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the snapshot store (file path for sqlite)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Result cache backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Connection string for the result cache (must differ from store-db-connect)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "Maximum age of a cached result")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Bypass the result cache for this run")
	rootCmd.PersistentFlags().String("query-timeout", contract.DefaultQueryTimeout.String(), "Timeout for each store query")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
