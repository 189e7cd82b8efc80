package cmd

import (
	"github.com/huangsam/tootstats/core"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/spf13/cobra"
)

// totalCmd prints the latest stored value of a metric.
var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Show the latest stored total of a metric.",
	Long: `Read the most recent snapshot of an account and print the chosen metric.

Examples:
  tootstats total --account 109876 --metric followers
  tootstats total --account 109876 --metric favourites --locale de`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTotal(statsContext(), cfg, storeManager); err != nil {
			contract.LogFatal("Cannot read total", err)
		}
	},
}
