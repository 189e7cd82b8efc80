package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/tootstats/schema"
	"golang.org/x/text/language"
)

// Default values for configuration.
const (
	DefaultTimezone     = "UTC"
	DefaultTimeframe    = "last30days"
	DefaultLocale       = "en"
	DefaultResultLimit  = 10
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
	DefaultQueryTimeout = 30 * time.Second
	DefaultCacheTTL     = time.Hour
)

// CacheGranularity defines the time granularity for caching derived results.
// Requests within the same hour share cache entries.
const CacheGranularity = time.Hour

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a statistics request.
// This struct remains the "final, validated" config.
type Config struct {
	AccountID string
	Timezone  string
	Location  *time.Location
	Locale    language.Tag
	Now       time.Time

	Family schema.Family
	Metric schema.Metric
	Mode   schema.SeriesMode
	Labels schema.LabelMode
	Period schema.PeriodKind
	RankBy schema.RankBy

	Timeframe string
	Range     DayRange

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	QueryTimeout time.Duration
	LogLevel     string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Account        string `mapstructure:"account"`
	Timezone       string `mapstructure:"timezone"`
	Locale         string `mapstructure:"locale"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	QueryTimeout   string `mapstructure:"query-timeout"`
	LogLevel       string `mapstructure:"log-level"`
	Now            string `mapstructure:"now"`

	// --- Fields shared by chart, kpi, total, top and dashboard ---
	Family    string `mapstructure:"family"`
	Metric    string `mapstructure:"metric"`
	Timeframe string `mapstructure:"timeframe"`
	From      string `mapstructure:"from"`
	To        string `mapstructure:"to"`
	Mode      string `mapstructure:"mode"`
	Labels    string `mapstructure:"labels"`
	Period    string `mapstructure:"period"`
	RankBy    string `mapstructure:"rank-by"`
	Limit     int    `mapstructure:"limit"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CacheBucket returns the configured reference time truncated to the caching granularity.
func (c *Config) CacheBucket() time.Time {
	return c.Now.Truncate(CacheGranularity)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processSelectors(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	return nil
}

// RevalidateRequest applies per-request overrides to a cloned config, as used by
// the MCP tools. Empty fields keep the base value, except the reference time,
// which defaults to the current time so a long-running server never serves a
// stale "today".
func RevalidateRequest(cfg *Config, input *ConfigRawInput) error {
	if account := strings.TrimSpace(input.Account); account != "" {
		cfg.AccountID = account
	}
	if input.Timezone != "" {
		loc, err := LoadTimezone(input.Timezone)
		if err != nil {
			return err
		}
		cfg.Timezone = loc.String()
		cfg.Location = loc
	}
	if input.Limit != 0 {
		if input.Limit < 0 || input.Limit > MaxResultLimit {
			return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
		}
		cfg.ResultLimit = input.Limit
	}

	sel := *input
	if sel.Family == "" && sel.Metric == "" {
		sel.Family = string(cfg.Family)
		sel.Metric = string(cfg.Metric)
		if sel.Mode == "" {
			sel.Mode = string(cfg.Mode)
		}
	}
	if sel.Labels == "" {
		sel.Labels = string(cfg.Labels)
	}
	if sel.Period == "" {
		sel.Period = string(cfg.Period)
	}
	if sel.RankBy == "" {
		sel.RankBy = string(cfg.RankBy)
	}
	if err := processSelectors(cfg, &sel); err != nil {
		return err
	}

	if sel.Timeframe == "" {
		sel.Timeframe = cfg.Timeframe
	}
	return processTimeRange(cfg, &sel)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL, PostgreSQL and Redis backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must start with redis:// or rediss://")
		}
	}
	return nil
}

// validateBackendConfigs validates snapshot store and result cache configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// Snapshots and cache entries must not share one SQLite file
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.CacheBackend == schema.SQLiteBackend {
		storePath := cfg.StoreDBConnect
		if storePath == "" {
			storePath = GetStoreDBFilePath()
		}
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		if storePath == cachePath {
			return fmt.Errorf("store and cache must use different SQLite database files. Both resolve to %q", storePath)
		}
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("invalid cache-ttl '%s'. must be a positive duration such as 1h or 30m", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	return nil
}

// validateSimpleInputs processes and validates the presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.AccountID = strings.TrimSpace(input.Account)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Timezone and Locale ---
	loc, err := LoadTimezone(input.Timezone)
	if err != nil {
		return err
	}
	cfg.Timezone = loc.String()
	cfg.Location = loc

	localeStr := input.Locale
	if localeStr == "" {
		localeStr = DefaultLocale
	}
	tag, err := language.Parse(localeStr)
	if err != nil {
		return fmt.Errorf("invalid locale '%s': %w", input.Locale, err)
	}
	cfg.Locale = tag

	// --- 2. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	// --- 4. Query Timeout ---
	cfg.QueryTimeout = DefaultQueryTimeout
	if input.QueryTimeout != "" {
		d, err := time.ParseDuration(input.QueryTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid query-timeout '%s'. must be a positive duration such as 30s", input.QueryTimeout)
		}
		cfg.QueryTimeout = d
	}

	return nil
}

// processSelectors resolves the family, metric, mode, label, period and ranking selectors.
func processSelectors(cfg *Config, input *ConfigRawInput) error {
	family := schema.Family(strings.ToLower(input.Family))
	metric := schema.Metric(strings.ToLower(input.Metric))

	switch {
	case metric != "":
		owner := metric.Family()
		if owner == "" {
			return fmt.Errorf("invalid metric '%s'. must be followers, following, statuses, replies, boosts, favourites", input.Metric)
		}
		if family != "" && family != owner {
			return fmt.Errorf("metric '%s' belongs to the %s family, not %s", metric, owner, family)
		}
		family = owner
	case family != "":
		if _, ok := schema.ValidFamilies[family]; !ok {
			return fmt.Errorf("invalid family '%s'. must be account, content", input.Family)
		}
		metric = schema.MetricsOf(family)[0]
	default:
		family = schema.AccountFamily
		metric = schema.FollowersMetric
	}
	cfg.Family = family
	cfg.Metric = metric

	cfg.Mode = schema.SeriesMode(strings.ToLower(input.Mode))
	if cfg.Mode == "" {
		cfg.Mode = schema.DefaultSeriesMode(family)
	}
	if _, ok := schema.ValidSeriesModes[cfg.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be raw, delta", input.Mode)
	}

	cfg.Labels = schema.LabelMode(strings.ToLower(input.Labels))
	if cfg.Labels == "" {
		cfg.Labels = schema.ISOLabels
	}
	if _, ok := schema.ValidLabelModes[cfg.Labels]; !ok {
		return fmt.Errorf("invalid labels '%s'. must be iso, long", input.Labels)
	}

	cfg.Period = schema.PeriodKind(strings.ToLower(input.Period))
	if cfg.Period == "" {
		cfg.Period = schema.WeekPeriod
	}
	if _, ok := schema.ValidPeriodKinds[cfg.Period]; !ok {
		return fmt.Errorf("invalid period '%s'. must be week, month, year", input.Period)
	}

	cfg.RankBy = schema.RankBy(strings.ToLower(input.RankBy))
	if cfg.RankBy == "" {
		cfg.RankBy = schema.RankByTop
	}
	if _, ok := schema.ValidRankBy[cfg.RankBy]; !ok {
		return fmt.Errorf("invalid rank-by '%s'. must be replies, boosts, favourites, top", input.RankBy)
	}

	return nil
}

// processTimeRange resolves the reference time and the requested day range.
// Explicit --from/--to take precedence over --timeframe.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	cfg.Now = time.Now()
	if input.Now != "" {
		t, err := time.Parse(time.RFC3339, input.Now)
		if err != nil {
			return fmt.Errorf("invalid --now value '%s'. Expected RFC3339: %w", input.Now, err)
		}
		cfg.Now = t
	}

	cfg.Timeframe = input.Timeframe
	if cfg.Timeframe == "" {
		cfg.Timeframe = DefaultTimeframe
	}
	rng, err := ResolveTimeframe(cfg.Timeframe, cfg.Now, cfg.Location)
	if err != nil {
		return err
	}

	if input.From != "" {
		d, err := ParseDay(input.From)
		if err != nil {
			return err
		}
		rng.From = d
	}
	if input.To != "" {
		d, err := ParseDay(input.To)
		if err != nil {
			return err
		}
		rng.To = d
	}

	if rng.From.After(rng.To) {
		return fmt.Errorf("%w: from (%s) cannot be after to (%s)", schema.ErrInvalidArgument, rng.From.Format(time.DateOnly), rng.To.Format(time.DateOnly))
	}
	cfg.Range = rng
	return nil
}

// ProcessProfilingConfig enables profiling when a prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
