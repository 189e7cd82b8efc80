package schema

import "time"

// DailySnapshot is one row per (account, day) of a snapshot family.
// Day is a calendar date held as midnight UTC; it carries no zone of its own.
type DailySnapshot interface {
	GetAccountID() string
	GetDay() time.Time
	Family() Family
	// Value returns the metric field; ok is false when the metric belongs to another family.
	Value(m Metric) (v int64, ok bool)
}

// AccountSnapshot holds point-in-time account totals observed on a day.
type AccountSnapshot struct {
	AccountID      string    `json:"account_id"`
	Day            time.Time `json:"day"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	StatusesCount  int64     `json:"statuses_count"`
}

var _ DailySnapshot = AccountSnapshot{} // Compile-time check

// GetAccountID implements DailySnapshot.
func (s AccountSnapshot) GetAccountID() string { return s.AccountID }

// GetDay implements DailySnapshot.
func (s AccountSnapshot) GetDay() time.Time { return s.Day }

// Family implements DailySnapshot.
func (s AccountSnapshot) Family() Family { return AccountFamily }

// Value implements DailySnapshot.
func (s AccountSnapshot) Value(m Metric) (int64, bool) {
	switch m {
	case FollowersMetric:
		return s.FollowersCount, true
	case FollowingMetric:
		return s.FollowingCount, true
	case StatusesMetric:
		return s.StatusesCount, true
	default:
		return 0, false
	}
}

// ContentCounterSnapshot holds lifetime cumulative engagement counters observed on a day.
// The counters may decrease after a reset or re-sync.
type ContentCounterSnapshot struct {
	AccountID       string    `json:"account_id"`
	Day             time.Time `json:"day"`
	RepliesCount    int64     `json:"replies_count"`
	BoostsCount     int64     `json:"boosts_count"`
	FavouritesCount int64     `json:"favourites_count"`
}

var _ DailySnapshot = ContentCounterSnapshot{} // Compile-time check

// GetAccountID implements DailySnapshot.
func (s ContentCounterSnapshot) GetAccountID() string { return s.AccountID }

// GetDay implements DailySnapshot.
func (s ContentCounterSnapshot) GetDay() time.Time { return s.Day }

// Family implements DailySnapshot.
func (s ContentCounterSnapshot) Family() Family { return ContentFamily }

// Value implements DailySnapshot.
func (s ContentCounterSnapshot) Value(m Metric) (int64, bool) {
	switch m {
	case RepliesMetric:
		return s.RepliesCount, true
	case BoostsMetric:
		return s.BoostsCount, true
	case FavouritesMetric:
		return s.FavouritesCount, true
	default:
		return 0, false
	}
}

// ContentRecord represents a published item with its engagement counters.
type ContentRecord struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	CreatedAt       time.Time `json:"created_at"`
	RepliesCount    int64     `json:"replies_count"`
	ReblogsCount    int64     `json:"reblogs_count"`
	FavouritesCount int64     `json:"favourites_count"`
}
