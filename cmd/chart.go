package cmd

import (
	"github.com/huangsam/tootstats/core"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/spf13/cobra"
)

// chartCmd prints one metric as a day-by-day series.
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show a daily chart series for one metric.",
	Long: `Build a chart series for one metric of an account over a day range.

Account metrics (followers, following, statuses) default to raw mode: each point is the
stored value of that day. Content metrics (replies, boosts, favourites) default to delta
mode: each point is the growth since the previous stored day, never below zero. The day
before --from is used as the baseline when it exists.

Examples:
  # Follower count for the last 30 days
  tootstats chart --account 109876 --metric followers

  # Daily boosts received this month, with long labels
  tootstats chart --account 109876 --metric boosts --timeframe thismonth --labels long

  # Explicit range in the account's timezone
  tootstats chart --account 109876 --metric favourites --from 2025-03-01 --to 2025-03-31 --timezone Europe/Berlin`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(statsContext(), cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build chart series", err)
		}
	},
}
