package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// RateLimitStatusTool handles the rate_limit_status MCP tool. It reads
// the gateway's limiter without touching the window, so calling it any
// number of times costs nothing against the quota.
type RateLimitStatusTool struct {
	gw Gateway
}

// NewRateLimitStatusTool creates a RateLimitStatusTool.
func NewRateLimitStatusTool(gw Gateway) *RateLimitStatusTool {
	return &RateLimitStatusTool{gw: gw}
}

// Definition returns the MCP tool definition for rate_limit_status.
func (t *RateLimitStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("rate_limit_status",
		mcp.WithDescription(
			"Show the current Productive API rate-limit window: how many "+
				"requests have been used and how many remain. This tool itself "+
				"does not consume the quota.",
		),
	)
}

// Handle processes the rate_limit_status tool call.
func (t *RateLimitStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := t.gw.RateLimitStatus()

	return mcp.NewToolResultText(fmt.Sprintf(
		"Rate limit: %d of %d requests used in the current %s window (%d remaining).",
		status.Count, status.Limit, status.Window, status.Remaining,
	)), nil
}
