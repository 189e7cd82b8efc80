package core

import (
	"context"
	"fmt"

	"github.com/huangsam/tootstats/core/algo"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
)

// TotalRequest selects the latest known value of a metric.
type TotalRequest struct {
	Family    schema.Family
	Metric    schema.Metric
	AccountID string
}

// GetTotal returns the metric from the most recent snapshot of the account,
// or nil when the account has no snapshot in the family.
func GetTotal(ctx context.Context, store contract.SnapshotReader, req TotalRequest) (*schema.TotalSnapshot, error) {
	if err := validateMetric(&req.Family, req.Metric, req.AccountID); err != nil {
		return nil, err
	}

	snap, err := store.LatestOf(ctx, req.Family, req.AccountID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		logFor(ctx, "total").Debug().Str("account", req.AccountID).Str("family", string(req.Family)).Msg("no snapshot")
		return nil, nil
	}

	amount, ok := snap.Value(req.Metric)
	if !ok {
		return nil, fmt.Errorf("%w: metric %s is not part of the %s family", schema.ErrInvalidArgument, req.Metric, snap.Family())
	}
	return &schema.TotalSnapshot{
		Metric: req.Metric,
		Amount: amount,
		Day:    algo.NormalizeDay(snap.GetDay()),
	}, nil
}
