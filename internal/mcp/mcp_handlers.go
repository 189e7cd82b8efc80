package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/huangsam/tootstats/core"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// prepare clones the base config, applies the request arguments and tags the
// context with a fresh request ID.
func (h *toolHandler) prepare(ctx context.Context, request mcp.CallToolRequest) (context.Context, *contract.Config, error) {
	cfg := h.baseCfg.Clone()
	input := &contract.ConfigRawInput{
		Account:   request.GetString("account", ""),
		Timezone:  request.GetString("timezone", ""),
		Now:       request.GetString("now", ""),
		Family:    request.GetString("family", ""),
		Metric:    request.GetString("metric", ""),
		Timeframe: request.GetString("timeframe", ""),
		From:      request.GetString("from", ""),
		To:        request.GetString("to", ""),
		Mode:      request.GetString("mode", ""),
		Labels:    request.GetString("labels", ""),
		Period:    request.GetString("period", ""),
		RankBy:    request.GetString("rank_by", ""),
		Limit:     request.GetInt("limit", 0),
	}
	if err := contract.RevalidateRequest(cfg, input); err != nil {
		return ctx, nil, err
	}

	id := uuid.NewString()
	contract.Logger().Info().
		Str("request_id", id).
		Str("tool", request.Params.Name).
		Str("account", cfg.AccountID).
		Msg("mcp tool call")
	return core.WithRequestID(ctx, id), cfg, nil
}

// respond renders a result as indented JSON text, or a tool error.
func respond(result any, err error, action string) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", action, err)), nil
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode %s result: %v", action, err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cfg, err := h.prepare(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chart parameters: %v", err)), nil
	}
	result, err := core.GetChartResults(ctx, cfg, h.mgr)
	return respond(result, err, "chart")
}

func (h *toolHandler) handleGetKPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cfg, err := h.prepare(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid kpi parameters: %v", err)), nil
	}
	result, err := core.GetKPIResults(ctx, cfg, h.mgr)
	return respond(result, err, "kpi")
}

func (h *toolHandler) handleGetTotal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cfg, err := h.prepare(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid total parameters: %v", err)), nil
	}
	result, err := core.GetTotalResults(ctx, cfg, h.mgr)
	return respond(result, err, "total")
}

func (h *toolHandler) handleGetTopContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cfg, err := h.prepare(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid ranking parameters: %v", err)), nil
	}
	result, err := core.GetTopContentResults(ctx, cfg, h.mgr)
	return respond(result, err, "ranking")
}

func (h *toolHandler) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cfg, err := h.prepare(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid dashboard parameters: %v", err)), nil
	}
	result, err := core.GetDashboardResults(ctx, cfg, h.mgr)
	return respond(result, err, "dashboard")
}
