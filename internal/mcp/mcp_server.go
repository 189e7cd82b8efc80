// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	metricEnum = mcp.Enum("followers", "following", "statuses", "replies", "boosts", "favourites")
	periodEnum = mcp.Enum("week", "month", "year")
)

// NewMCPServer initializes and configures the Tootstats MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Tootstats Statistics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_chart ---
	s.AddTool(mcp.NewTool("get_chart",
		mcp.WithDescription("Build a daily chart series of one account metric. Cumulative content counters default to per-day deltas."),
		mcp.WithString("account", mcp.Description("Account ID (defaults to the configured account).")),
		mcp.WithString("metric", mcp.Description("Metric to chart."), metricEnum),
		mcp.WithString("timeframe", mcp.Description("Symbolic range such as 'last30days', 'thismonth' or 'YYYY-MM-DD..YYYY-MM-DD'.")),
		mcp.WithString("from", mcp.Description("First day (YYYY-MM-DD), overrides the timeframe start.")),
		mcp.WithString("to", mcp.Description("Last day (YYYY-MM-DD), overrides the timeframe end.")),
		mcp.WithString("mode", mcp.Description("Series mode."), mcp.Enum("raw", "delta")),
		mcp.WithString("labels", mcp.Description("Label format."), mcp.Enum("iso", "long")),
		mcp.WithString("timezone", mcp.Description("IANA timezone of the account.")),
	), h.handleGetChart)

	// --- 2. Tool: get_kpi ---
	s.AddTool(mcp.NewTool("get_kpi",
		mcp.WithDescription("Compare the current calendar period of a metric with the previous one."),
		mcp.WithString("account", mcp.Description("Account ID (defaults to the configured account).")),
		mcp.WithString("metric", mcp.Description("Metric to summarize."), metricEnum),
		mcp.WithString("period", mcp.Description("Calendar period. Defaults to 'week'."), periodEnum),
		mcp.WithString("timezone", mcp.Description("IANA timezone of the account.")),
		mcp.WithString("now", mcp.Description("Reference time in RFC3339 (defaults to now).")),
	), h.handleGetKPI)

	// --- 3. Tool: get_total ---
	s.AddTool(mcp.NewTool("get_total",
		mcp.WithDescription("Return the latest known value of a metric and the day it was recorded."),
		mcp.WithString("account", mcp.Description("Account ID (defaults to the configured account).")),
		mcp.WithString("metric", mcp.Description("Metric to read."), metricEnum),
	), h.handleGetTotal)

	// --- 4. Tool: get_top_content ---
	s.AddTool(mcp.NewTool("get_top_content",
		mcp.WithDescription("Rank the account's content created in a day range by engagement."),
		mcp.WithString("account", mcp.Description("Account ID (defaults to the configured account).")),
		mcp.WithString("rank_by", mcp.Description("Ranking function. 'top' is boosts + replies."), mcp.Enum("replies", "boosts", "favourites", "top")),
		mcp.WithString("timeframe", mcp.Description("Symbolic range such as 'last7days' or 'lastmonth'.")),
		mcp.WithString("from", mcp.Description("First day (YYYY-MM-DD).")),
		mcp.WithString("to", mcp.Description("Last day (YYYY-MM-DD).")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of items returned.")),
		mcp.WithString("timezone", mcp.Description("IANA timezone of the account.")),
	), h.handleGetTopContent)

	// --- 5. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		mcp.WithDescription("Return the total and KPI of every metric of a family."),
		mcp.WithString("account", mcp.Description("Account ID (defaults to the configured account).")),
		mcp.WithString("family", mcp.Description("Snapshot family."), mcp.Enum("account", "content")),
		mcp.WithString("period", mcp.Description("Calendar period. Defaults to 'week'."), periodEnum),
		mcp.WithString("timezone", mcp.Description("IANA timezone of the account.")),
	), h.handleGetDashboard)

	return s
}

// StartMCPServer starts the Tootstats MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
