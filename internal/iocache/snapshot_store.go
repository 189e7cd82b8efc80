package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for snapshot storage.
const (
	accountSnapshotsTable = "account_snapshots"
	contentCountersTable  = "content_counter_snapshots"
	contentRecordsTable   = "content_records"
	revisionsTable        = "store_revisions"
)

// snapshotTables lists every table holding snapshot data.
var snapshotTables = []string{accountSnapshotsTable, contentCountersTable, contentRecordsTable}

// storeTables lists every table owned by the snapshot store.
var storeTables = append(append([]string{}, snapshotTables...), revisionsTable)

// familyTable describes how a snapshot family is laid out in SQL.
type familyTable struct {
	name    string
	columns [3]string // metric columns in display order
}

var familyTables = map[schema.Family]familyTable{
	schema.AccountFamily: {name: accountSnapshotsTable, columns: [3]string{"followers_count", "following_count", "statuses_count"}},
	schema.ContentFamily: {name: contentCountersTable, columns: [3]string{"replies_count", "boosts_count", "favourites_count"}},
}

// SnapshotStoreImpl stores daily snapshots and content records in a SQL database.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	timeout time.Duration
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore opens the snapshot store for the backend and ensures its tables exist.
// A zero timeout disables the per-query deadline.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string, timeout time.Duration) (*SnapshotStoreImpl, error) {
	if backend == schema.NoneBackend {
		// No-op store: reads are empty and writes are dropped
		return &SnapshotStoreImpl{backend: backend, timeout: timeout}, nil
	}

	db, err := openDB(backend, connStr, contract.GetStoreDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createSnapshotTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create snapshot tables: %w", err)
	}

	return &SnapshotStoreImpl{db: db, backend: backend, timeout: timeout}, nil
}

// createSnapshotTables creates the snapshot tables. Days are stored as ISO text
// so range predicates compare lexically on every backend.
func createSnapshotTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, ft := range []familyTable{familyTables[schema.AccountFamily], familyTables[schema.ContentFamily]} {
		query := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				account_id VARCHAR(64) NOT NULL,
				day VARCHAR(10) NOT NULL,
				%s BIGINT NOT NULL,
				%s BIGINT NOT NULL,
				%s BIGINT NOT NULL,
				PRIMARY KEY (account_id, day)
			);
		`, quoteTableName(ft.name, backend), ft.columns[0], ft.columns[1], ft.columns[2])
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", ft.name, err)
		}
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) NOT NULL PRIMARY KEY,
			account_id VARCHAR(64) NOT NULL,
			created_at BIGINT NOT NULL,
			replies_count BIGINT NOT NULL,
			reblogs_count BIGINT NOT NULL,
			favourites_count BIGINT NOT NULL
		);
	`, quoteTableName(contentRecordsTable, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", contentRecordsTable, err)
	}

	query = fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			account_id VARCHAR(64) NOT NULL PRIMARY KEY,
			revision BIGINT NOT NULL
		);
	`, quoteTableName(revisionsTable, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", revisionsTable, err)
	}
	return nil
}

// withTimeout bounds a query by the configured deadline.
func (s *SnapshotStoreImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// unavailable wraps a driver error so callers can test it with errors.Is.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", schema.ErrStorageUnavailable, op, err)
}

// RangeOf returns the snapshots of a family with from <= day <= to, ascending by day.
func (s *SnapshotStoreImpl) RangeOf(ctx context.Context, family schema.Family, accountID string, from, to time.Time) ([]schema.DailySnapshot, error) {
	ft, ok := familyTables[family]
	if !ok {
		return nil, fmt.Errorf("%w: unknown family %q", schema.ErrInvalidArgument, family)
	}
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT account_id, day, %s, %s, %s FROM %s WHERE account_id = %s AND day >= %s AND day <= %s ORDER BY day ASC`,
		ft.columns[0], ft.columns[1], ft.columns[2], quoteTableName(ft.name, s.backend), s.ph(1), s.ph(2), s.ph(3))
	rows, err := s.db.QueryContext(ctx, query, accountID, formatDay(from), formatDay(to))
	if err != nil {
		return nil, unavailable("range query on "+ft.name, err)
	}
	defer func() { _ = rows.Close() }()

	var result []schema.DailySnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows, family)
		if err != nil {
			return nil, unavailable("scan "+ft.name, err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate "+ft.name, err)
	}
	return result, nil
}

// LatestOf returns the snapshot with the greatest day, or nil if the account has none.
func (s *SnapshotStoreImpl) LatestOf(ctx context.Context, family schema.Family, accountID string) (schema.DailySnapshot, error) {
	ft, ok := familyTables[family]
	if !ok {
		return nil, fmt.Errorf("%w: unknown family %q", schema.ErrInvalidArgument, family)
	}
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT account_id, day, %s, %s, %s FROM %s WHERE account_id = %s ORDER BY day DESC LIMIT 1`,
		ft.columns[0], ft.columns[1], ft.columns[2], quoteTableName(ft.name, s.backend), s.ph(1))
	row := s.db.QueryRowContext(ctx, query, accountID)
	snap, err := scanSnapshot(row, family)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("latest query on "+ft.name, err)
	}
	return snap, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSnapshot reads one snapshot row of the family.
func scanSnapshot(sc scanner, family schema.Family) (schema.DailySnapshot, error) {
	var accountID, dayStr string
	var a, b, c int64
	if err := sc.Scan(&accountID, &dayStr, &a, &b, &c); err != nil {
		return nil, err
	}
	day, err := parseDay(dayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid day %q: %w", dayStr, err)
	}
	if family == schema.ContentFamily {
		return schema.ContentCounterSnapshot{AccountID: accountID, Day: day, RepliesCount: a, BoostsCount: b, FavouritesCount: c}, nil
	}
	return schema.AccountSnapshot{AccountID: accountID, Day: day, FollowersCount: a, FollowingCount: b, StatusesCount: c}, nil
}

// ContentRecords returns the content records of an account, newest first.
// When bounds are given, only records with from <= createdAt < to are returned.
func (s *SnapshotStoreImpl) ContentRecords(ctx context.Context, accountID string, from, to *time.Time) ([]schema.ContentRecord, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	args := []any{accountID}
	var where strings.Builder
	fmt.Fprintf(&where, "account_id = %s", s.ph(len(args)))
	if from != nil {
		args = append(args, from.UnixMilli())
		fmt.Fprintf(&where, " AND created_at >= %s", s.ph(len(args)))
	}
	if to != nil {
		args = append(args, to.UnixMilli())
		fmt.Fprintf(&where, " AND created_at < %s", s.ph(len(args)))
	}

	query := fmt.Sprintf(`SELECT id, account_id, created_at, replies_count, reblogs_count, favourites_count FROM %s WHERE %s ORDER BY created_at DESC, id ASC`,
		quoteTableName(contentRecordsTable, s.backend), where.String())
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("content records query", err)
	}
	defer func() { _ = rows.Close() }()

	var result []schema.ContentRecord
	for rows.Next() {
		var rec schema.ContentRecord
		var createdMs int64
		if err := rows.Scan(&rec.ID, &rec.AccountID, &createdMs, &rec.RepliesCount, &rec.ReblogsCount, &rec.FavouritesCount); err != nil {
			return nil, unavailable("scan content records", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate content records", err)
	}
	return result, nil
}

// UpsertAccountSnapshots inserts or replaces account snapshots keyed by (account, day).
func (s *SnapshotStoreImpl) UpsertAccountSnapshots(ctx context.Context, rows []schema.AccountSnapshot) error {
	ft := familyTables[schema.AccountFamily]
	args := make([][]any, len(rows))
	accounts := make([]string, len(rows))
	for i, r := range rows {
		args[i] = []any{r.AccountID, formatDay(r.Day), r.FollowersCount, r.FollowingCount, r.StatusesCount}
		accounts[i] = r.AccountID
	}
	cols := []string{"account_id", "day", ft.columns[0], ft.columns[1], ft.columns[2]}
	return s.upsert(ctx, ft.name, cols, []string{"account_id", "day"}, args, accounts)
}

// UpsertContentCounterSnapshots inserts or replaces content counter snapshots keyed by (account, day).
func (s *SnapshotStoreImpl) UpsertContentCounterSnapshots(ctx context.Context, rows []schema.ContentCounterSnapshot) error {
	ft := familyTables[schema.ContentFamily]
	args := make([][]any, len(rows))
	accounts := make([]string, len(rows))
	for i, r := range rows {
		args[i] = []any{r.AccountID, formatDay(r.Day), r.RepliesCount, r.BoostsCount, r.FavouritesCount}
		accounts[i] = r.AccountID
	}
	cols := []string{"account_id", "day", ft.columns[0], ft.columns[1], ft.columns[2]}
	return s.upsert(ctx, ft.name, cols, []string{"account_id", "day"}, args, accounts)
}

// UpsertContentRecords inserts or replaces content records keyed by ID.
func (s *SnapshotStoreImpl) UpsertContentRecords(ctx context.Context, rows []schema.ContentRecord) error {
	args := make([][]any, len(rows))
	accounts := make([]string, len(rows))
	for i, r := range rows {
		args[i] = []any{r.ID, r.AccountID, r.CreatedAt.UnixMilli(), r.RepliesCount, r.ReblogsCount, r.FavouritesCount}
		accounts[i] = r.AccountID
	}
	cols := []string{"id", "account_id", "created_at", "replies_count", "reblogs_count", "favourites_count"}
	return s.upsert(ctx, contentRecordsTable, cols, []string{"id"}, args, accounts)
}

// upsert writes all rows in one transaction and bumps the revision of every
// account it touched.
func (s *SnapshotStoreImpl) upsert(ctx context.Context, table string, cols, keys []string, rows [][]any, accounts []string) error {
	if s.db == nil || len(rows) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin upsert on "+table, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertQuery(s.backend, table, cols, keys))
	if err != nil {
		return unavailable("prepare upsert on "+table, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return unavailable("upsert on "+table, err)
		}
	}
	if err := s.bumpRevisions(ctx, tx, accounts); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit upsert on "+table, err)
	}
	return nil
}

// bumpRevisions moves the revision of each account past both its previous
// value and the current wall clock, so it also increases across a store clear.
func (s *SnapshotStoreImpl) bumpRevisions(ctx context.Context, tx *sql.Tx, accounts []string) error {
	selectQuery := fmt.Sprintf(`SELECT revision FROM %s WHERE account_id = %s`, quoteTableName(revisionsTable, s.backend), s.ph(1))
	writeQuery := upsertQuery(s.backend, revisionsTable, []string{"account_id", "revision"}, []string{"account_id"})

	seen := make(map[string]bool, len(accounts))
	for _, id := range accounts {
		if seen[id] {
			continue
		}
		seen[id] = true

		var prev int64
		err := tx.QueryRowContext(ctx, selectQuery, id).Scan(&prev)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return unavailable("read revision", err)
		}
		next := max(prev+1, time.Now().UnixNano())
		if _, err := tx.ExecContext(ctx, writeQuery, id, next); err != nil {
			return unavailable("write revision", err)
		}
	}
	return nil
}

// Revision returns the data revision of an account, or 0 when nothing was written.
func (s *SnapshotStoreImpl) Revision(ctx context.Context, accountID string) (int64, error) {
	if s.db == nil {
		return 0, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT revision FROM %s WHERE account_id = %s`, quoteTableName(revisionsTable, s.backend), s.ph(1))
	var rev int64
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("revision query", err)
	}
	return rev, nil
}

// upsertQuery returns the backend-specific UPSERT statement.
func upsertQuery(backend schema.DatabaseBackend, table string, cols, keys []string) string {
	quoted := quoteTableName(table, backend)
	colList := strings.Join(cols, ", ")
	values := placeholders(backend, len(cols))

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	var sets []string
	switch backend {
	case schema.MySQLBackend:
		for _, c := range cols {
			if !isKey[c] {
				sets = append(sets, fmt.Sprintf("%s = new.%s", c, c))
			}
		}
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE %s`, quoted, colList, values, strings.Join(sets, ", "))

	case schema.PostgreSQLBackend:
		for _, c := range cols {
			if !isKey[c] {
				sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
			}
		}
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (%s) DO UPDATE SET %s`, quoted, colList, values, strings.Join(keys, ", "), strings.Join(sets, ", "))

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`, quoted, colList, values)
	}
}

// Accounts returns every account ID with at least one stored row, sorted ascending.
func (s *SnapshotStoreImpl) Accounts(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	parts := make([]string, len(snapshotTables))
	for i, t := range snapshotTables {
		parts[i] = fmt.Sprintf("SELECT account_id FROM %s", quoteTableName(t, s.backend))
	}
	query := strings.Join(parts, " UNION ") + " ORDER BY account_id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("accounts query", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable("scan accounts", err)
		}
		accounts = append(accounts, id)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate accounts", err)
	}
	return accounts, nil
}

// GetStatus returns status information about the snapshot store.
func (s *SnapshotStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:     string(s.backend),
		Connected:   s.db != nil,
		TableCounts: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	for _, t := range snapshotTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(t, s.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows in %s: %w", t, err)
		}
		status.TableCounts[t] = count
	}

	accounts, err := s.Accounts(context.Background())
	if err != nil {
		return status, err
	}
	status.Accounts = len(accounts)

	for _, t := range []string{accountSnapshotsTable, contentCountersTable} {
		var minDay, maxDay sql.NullString
		query := fmt.Sprintf("SELECT MIN(day), MAX(day) FROM %s", quoteTableName(t, s.backend))
		if err := s.db.QueryRow(query).Scan(&minDay, &maxDay); err != nil {
			return status, fmt.Errorf("failed to get day bounds of %s: %w", t, err)
		}
		if minDay.Valid {
			if d, err := parseDay(minDay.String); err == nil && (status.FirstDay.IsZero() || d.Before(status.FirstDay)) {
				status.FirstDay = d
			}
		}
		if maxDay.Valid {
			if d, err := parseDay(maxDay.String); err == nil && d.After(status.LastDay) {
				status.LastDay = d
			}
		}
	}

	return status, nil
}

// Close closes the underlying connection.
func (s *SnapshotStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ph returns the i-th (1-based) parameter placeholder.
func (s *SnapshotStoreImpl) ph(i int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}
