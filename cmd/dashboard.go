package cmd

import (
	"github.com/huangsam/tootstats/core"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/spf13/cobra"
)

// dashboardCmd summarizes every metric of a family.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the total and KPI of every metric in a family.",
	Long: `Compute the latest total and the period-over-period KPI for every metric of the
account or content family in one view.

Examples:
  tootstats dashboard --account 109876 --family account
  tootstats dashboard --account 109876 --family content --period month`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDashboard(statsContext(), cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build dashboard", err)
		}
	},
}
