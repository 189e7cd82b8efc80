package schema

// Custom string types for type safety.
type (
	// Family represents a snapshot family stored per account and day.
	Family string

	// Metric represents a counter field of a snapshot family.
	Metric string

	// PeriodKind represents a calendar period used for KPIs.
	PeriodKind string

	// SeriesMode represents how chart values are derived from snapshots.
	SeriesMode string

	// LabelMode represents how chart point labels are formatted.
	LabelMode string

	// RankBy represents the scoring function used to rank content.
	RankBy string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for snapshots and caching.
	DatabaseBackend string
)

// All snapshot families supported.
const (
	AccountFamily Family = "account" // point-in-time totals
	ContentFamily Family = "content" // lifetime cumulative counters
)

// All metrics supported.
const (
	FollowersMetric  Metric = "followers"
	FollowingMetric  Metric = "following"
	StatusesMetric   Metric = "statuses"
	RepliesMetric    Metric = "replies"
	BoostsMetric     Metric = "boosts"
	FavouritesMetric Metric = "favourites"
)

// All period kinds supported.
const (
	WeekPeriod  PeriodKind = "week" // default
	MonthPeriod PeriodKind = "month"
	YearPeriod  PeriodKind = "year"
)

// All series modes supported.
const (
	RawMode   SeriesMode = "raw"
	DeltaMode SeriesMode = "delta"
)

// All label modes supported.
const (
	ISOLabels  LabelMode = "iso" // default
	LongLabels LabelMode = "long"
)

// All ranking functions supported.
const (
	RankByReplies    RankBy = "replies"
	RankByBoosts     RankBy = "boosts"
	RankByFavourites RankBy = "favourites"
	RankByTop        RankBy = "top" // reblogs + replies
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis" // cache only
	NoneBackend       DatabaseBackend = "none"
)

// AccountMetrics lists the metrics of the account family in display order.
var AccountMetrics = []Metric{FollowersMetric, FollowingMetric, StatusesMetric}

// ContentMetrics lists the metrics of the content family in display order.
var ContentMetrics = []Metric{RepliesMetric, BoostsMetric, FavouritesMetric}

// ValidFamilies lists all valid snapshot families.
var ValidFamilies = map[Family]struct{}{
	AccountFamily: {},
	ContentFamily: {},
}

// ValidMetrics maps each metric to the family that owns it.
var ValidMetrics = map[Metric]Family{
	FollowersMetric:  AccountFamily,
	FollowingMetric:  AccountFamily,
	StatusesMetric:   AccountFamily,
	RepliesMetric:    ContentFamily,
	BoostsMetric:     ContentFamily,
	FavouritesMetric: ContentFamily,
}

// ValidPeriodKinds lists all valid period kinds.
var ValidPeriodKinds = map[PeriodKind]struct{}{
	WeekPeriod:  {},
	MonthPeriod: {},
	YearPeriod:  {},
}

// ValidSeriesModes lists all valid series modes.
var ValidSeriesModes = map[SeriesMode]struct{}{
	RawMode:   {},
	DeltaMode: {},
}

// ValidLabelModes lists all valid label modes.
var ValidLabelModes = map[LabelMode]struct{}{
	ISOLabels:  {},
	LongLabels: {},
}

// ValidRankBy lists all valid ranking functions.
var ValidRankBy = map[RankBy]struct{}{
	RankByReplies:    {},
	RankByBoosts:     {},
	RankByFavourites: {},
	RankByTop:        {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid snapshot store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCacheBackends lists all valid result cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// Family returns the family that owns the metric, or "" for unknown metrics.
func (m Metric) Family() Family {
	return ValidMetrics[m]
}

// Cumulative reports whether values of the family are lifetime counters
// that must be differenced to obtain per-period figures.
func (f Family) Cumulative() bool {
	return f == ContentFamily
}

// DefaultSeriesMode returns the chart mode that suits the family's data shape.
func DefaultSeriesMode(f Family) SeriesMode {
	if f.Cumulative() {
		return DeltaMode
	}
	return RawMode
}

// MetricsOf returns the metrics of a family in display order.
func MetricsOf(f Family) []Metric {
	switch f {
	case AccountFamily:
		return AccountMetrics
	case ContentFamily:
		return ContentMetrics
	default:
		return nil
	}
}
