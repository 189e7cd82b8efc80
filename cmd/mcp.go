package cmd

import (
	"github.com/huangsam/tootstats/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Tootstats MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents read charts, KPIs, totals,
top content and dashboards as tools.

Flags and config provide the defaults; every tool call may override the account,
timezone, metric, range and limit. The reference time is taken per call.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdio stays clean for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
