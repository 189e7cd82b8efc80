package algo

import (
	"sort"
	"strings"

	"github.com/huangsam/tootstats/schema"
)

// Score returns the ranking score of a content record for the given function.
// The "top" score is reblogs plus replies.
func Score(rec schema.ContentRecord, by schema.RankBy) int64 {
	switch by {
	case schema.RankByReplies:
		return rec.RepliesCount
	case schema.RankByBoosts:
		return rec.ReblogsCount
	case schema.RankByFavourites:
		return rec.FavouritesCount
	case schema.RankByTop:
		return rec.ReblogsCount + rec.RepliesCount
	default:
		return 0
	}
}

// RankContent scores the records, drops those with a score <= 0, and returns
// the top 'limit' items. Items are ordered by score descending, then by
// creation time descending, then by ID ascending so equal inputs always
// produce the same order.
func RankContent(records []schema.ContentRecord, by schema.RankBy, limit int) []schema.RankedItem {
	items := make([]schema.RankedItem, 0, len(records))
	for _, rec := range records {
		score := Score(rec, by)
		if score <= 0 {
			continue
		}
		items = append(items, schema.RankedItem{ContentRecord: rec, Rank: score})
	}

	sort.Slice(items, func(i, j int) bool {
		a := items[i]
		b := items[j]

		// Primary: score (descending)
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}

		// Secondary: most recent first
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}

		// Tertiary: ID (ascending)
		return strings.Compare(a.ID, b.ID) < 0
	})

	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
