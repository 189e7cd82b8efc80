package cmd

import (
	"github.com/huangsam/tootstats/core"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/spf13/cobra"
)

// topCmd ranks the account's posts.
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank posts by replies, boosts, favourites or overall engagement.",
	Long: `Rank the account's posts created within the day range.

Ranking modes:
  replies    - number of replies
  boosts     - number of boosts
  favourites - number of favourites
  top        - the largest of the three (default)

Posts scoring zero are not listed. Ties are broken by the newest post first,
then by post id.

Examples:
  # Ten most engaging posts of the last 30 days
  tootstats top --account 109876

  # Most boosted posts of last week, exported to CSV
  tootstats top --account 109876 --rank-by boosts --timeframe lastweek --output csv --output-file top.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTop(statsContext(), cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank content", err)
		}
	},
}
