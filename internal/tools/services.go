package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListServicesTool handles the list_services MCP tool. Services are the
// billable line items inside a budget; time entries must reference one.
type ListServicesTool struct {
	gw Gateway
}

// NewListServicesTool creates a ListServicesTool.
func NewListServicesTool(gw Gateway) *ListServicesTool {
	return &ListServicesTool{gw: gw}
}

// Definition returns the MCP tool definition for list_services.
func (t *ListServicesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_services",
		mcp.WithDescription(
			"List services (billable line items). Use this to find the service_id "+
				"required when creating time entries.",
		),
		mcp.WithString("budget_id",
			mcp.Description("Only services in this budget"),
		),
		mcp.WithString("project_id",
			mcp.Description("Only services in budgets of this project"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 services per page)"),
		),
	)
}

// Handle processes the list_services tool call.
func (t *ListServicesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().
		Filter("deal_id", req.GetString("budget_id", "")).
		Filter("project_id", req.GetString("project_id", "")).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Include("deal")

	env, err := t.gw.Get(ctx, "/services", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText("No services found matching the given filters."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Services (%d)\n\n", len(env.Data))
	for i := range env.Data {
		s := &env.Data[i]
		fmt.Fprintf(&sb, "- **#%s** %s", s.ID, s.String("name"))
		if budget := includedName(env, "deals", s.RelatedID("deal"), "name"); budget != "" {
			fmt.Fprintf(&sb, " — budget %s", budget)
		}
		sb.WriteString("\n")
	}
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}
