package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/tootstats/core/algo"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
)

// TopRequest selects the best-performing content of an account.
// From and To bound CreatedAt as [From, To); nil leaves that side open.
type TopRequest struct {
	AccountID string
	RankBy    schema.RankBy
	From      *time.Time
	To        *time.Time
	Limit     int
}

// validate rejects malformed requests before any storage call.
func (r TopRequest) validate() error {
	if r.AccountID == "" {
		return fmt.Errorf("%w: account is required", schema.ErrInvalidArgument)
	}
	if _, ok := schema.ValidRankBy[r.RankBy]; !ok {
		return fmt.Errorf("%w: unknown ranking %q", schema.ErrInvalidArgument, r.RankBy)
	}
	if r.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive (received %d)", schema.ErrInvalidArgument, r.Limit)
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return fmt.Errorf("%w: from %s is after to %s", schema.ErrInvalidArgument, r.From.Format(time.RFC3339), r.To.Format(time.RFC3339))
	}
	return nil
}

// TopContent returns at most Limit content records ranked by the requested
// score. Records scoring zero or less are never returned, and ties are
// broken by recency and then by ID so the order is stable.
func TopContent(ctx context.Context, store contract.SnapshotReader, req TopRequest) ([]schema.RankedItem, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	logFor(ctx, "rank").Debug().Str("account", req.AccountID).Str("rank_by", string(req.RankBy)).Int("limit", req.Limit).Msg("reading content records")

	records, err := store.ContentRecords(ctx, req.AccountID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	inWindow := make([]schema.ContentRecord, 0, len(records))
	for _, rec := range records {
		if req.From != nil && rec.CreatedAt.Before(*req.From) {
			continue
		}
		if req.To != nil && !rec.CreatedAt.Before(*req.To) {
			continue
		}
		inWindow = append(inWindow, rec)
	}

	return algo.RankContent(inWindow, req.RankBy, req.Limit), nil
}
