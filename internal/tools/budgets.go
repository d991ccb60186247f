package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// Productive models budgets as deals with budget_type=2; plain sales
// deals are budget_type=1. The tools expose only budgets.
const budgetTypeFilter = "2"

// ListBudgetsTool handles the list_budgets MCP tool.
type ListBudgetsTool struct {
	gw Gateway
}

// NewListBudgetsTool creates a ListBudgetsTool.
func NewListBudgetsTool(gw Gateway) *ListBudgetsTool {
	return &ListBudgetsTool{gw: gw}
}

// Definition returns the MCP tool definition for list_budgets.
func (t *ListBudgetsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_budgets",
		mcp.WithDescription(
			"List budgets in Productive, optionally scoped to a project or company.",
		),
		mcp.WithString("project_id",
			mcp.Description("Only budgets for this project"),
		),
		mcp.WithString("company_id",
			mcp.Description("Only budgets for this company"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 budgets per page)"),
		),
	)
}

// Handle processes the list_budgets tool call.
func (t *ListBudgetsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().
		Filter("budget_type", budgetTypeFilter).
		Filter("project_id", req.GetString("project_id", "")).
		Filter("company_id", req.GetString("company_id", "")).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Include("project", "company")

	env, err := t.gw.Get(ctx, "/deals", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText("No budgets found matching the given filters."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Budgets (%d)\n\n", len(env.Data))
	for i := range env.Data {
		b := &env.Data[i]
		fmt.Fprintf(&sb, "- **#%s** %s", b.ID, b.String("name"))
		if project := includedName(env, "projects", b.RelatedID("project"), "name"); project != "" {
			fmt.Fprintf(&sb, " — %s", project)
		}
		if total, ok := b.Number("budget_total_cents"); ok {
			fmt.Fprintf(&sb, ", total %s", centsToAmount(total, b.String("currency")))
		}
		sb.WriteString("\n")
	}
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── GetBudgetTool ──────────────────────────────────────────────────────────

// GetBudgetTool handles the get_budget MCP tool.
type GetBudgetTool struct {
	gw Gateway
}

// NewGetBudgetTool creates a GetBudgetTool.
func NewGetBudgetTool(gw Gateway) *GetBudgetTool {
	return &GetBudgetTool{gw: gw}
}

// Definition returns the MCP tool definition for get_budget.
func (t *GetBudgetTool) Definition() mcp.Tool {
	return mcp.NewTool("get_budget",
		mcp.WithDescription(
			"Get details of a single budget: totals, used and remaining amounts, and dates.",
		),
		mcp.WithString("budget_id",
			mcp.Required(),
			mcp.Description("The budget ID"),
		),
	)
}

// Handle processes the get_budget tool call.
func (t *GetBudgetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	budgetID := req.GetString("budget_id", "")
	if budgetID == "" {
		return mcp.NewToolResultError("'budget_id' is required"), nil
	}

	query := productive.NewQuery().Include("project", "company")
	env, err := t.gw.Get(ctx, "/deals/"+budgetID, query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	budget, ok := env.First()
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("budget %s not found in response", budgetID)), nil
	}

	currency := budget.String("currency")

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Budget #%s: %s\n\n", budget.ID, budget.String("name"))

	if project := includedName(env, "projects", budget.RelatedID("project"), "name"); project != "" {
		fmt.Fprintf(&sb, "**Project:** %s\n", project)
	}
	if company := includedName(env, "companies", budget.RelatedID("company"), "name"); company != "" {
		fmt.Fprintf(&sb, "**Company:** %s\n", company)
	}
	if total, ok := budget.Number("budget_total_cents"); ok {
		fmt.Fprintf(&sb, "**Total:** %s\n", centsToAmount(total, currency))
	}
	if used, ok := budget.Number("budget_used_cents"); ok {
		fmt.Fprintf(&sb, "**Used:** %s\n", centsToAmount(used, currency))
	}
	if remaining, ok := budget.Number("budget_remaining_cents"); ok {
		fmt.Fprintf(&sb, "**Remaining:** %s\n", centsToAmount(remaining, currency))
	}
	if date := budget.String("date"); date != "" {
		fmt.Fprintf(&sb, "**Start date:** %s\n", date)
	}
	if endDate := budget.String("end_date"); endDate != "" {
		fmt.Fprintf(&sb, "**End date:** %s\n", endDate)
	}

	return mcp.NewToolResultText(sb.String()), nil
}
