package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListCompaniesTool handles the list_companies MCP tool.
type ListCompaniesTool struct {
	gw Gateway
}

// NewListCompaniesTool creates a ListCompaniesTool.
func NewListCompaniesTool(gw Gateway) *ListCompaniesTool {
	return &ListCompaniesTool{gw: gw}
}

// Definition returns the MCP tool definition for list_companies.
func (t *ListCompaniesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_companies",
		mcp.WithDescription(
			"List companies (clients) in the organization. Use this to find "+
				"company IDs for project and budget filters.",
		),
		mcp.WithString("name",
			mcp.Description("Filter companies by name"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 companies per page)"),
		),
	)
}

// Handle processes the list_companies tool call.
func (t *ListCompaniesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().
		Filter("name", req.GetString("name", "")).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Sort("name")

	env, err := t.gw.Get(ctx, "/companies", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText("No companies found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Companies (%d)\n\n", len(env.Data))
	for i := range env.Data {
		c := &env.Data[i]
		fmt.Fprintf(&sb, "- **#%s** %s\n", c.ID, c.String("name"))
	}
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}
