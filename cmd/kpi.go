package cmd

import (
	"github.com/huangsam/tootstats/core"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/spf13/cobra"
)

// kpiCmd compares the current period with the previous one.
var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Compare the current period of a metric with the previous period.",
	Long: `Compute a period-over-period KPI for one metric of an account.

The current period (week starting Monday, calendar month or calendar year in the
account's timezone) is compared with the previous period. Content metrics report the
growth within each period; account metrics report the latest value of each period.
The trend is extrapolated from the progress of the current period and is omitted when
there is not enough history.

Examples:
  # Boosts this week versus last week
  tootstats kpi --account 109876 --metric boosts

  # Followers this month versus last month, as JSON
  tootstats kpi --account 109876 --metric followers --period month --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteKPI(statsContext(), cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute KPI", err)
		}
	},
}
