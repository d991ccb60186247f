package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListProjectsTool handles the list_projects MCP tool.
type ListProjectsTool struct {
	gw Gateway
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(gw Gateway) *ListProjectsTool {
	return &ListProjectsTool{gw: gw}
}

// Definition returns the MCP tool definition for list_projects.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription(
			"List projects in the organization. Use this to find project IDs "+
				"for task and budget operations.",
		),
		mcp.WithString("company_id",
			mcp.Description("Only projects belonging to this company"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 projects per page)"),
		),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().
		Filter("company_id", req.GetString("company_id", "")).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Include("company").
		Sort("name")

	env, err := t.gw.Get(ctx, "/projects", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText("No projects found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Projects (%d)\n\n", len(env.Data))
	for i := range env.Data {
		p := &env.Data[i]
		fmt.Fprintf(&sb, "- **#%s** %s", p.ID, p.String("name"))
		if company := includedName(env, "companies", p.RelatedID("company"), "name"); company != "" {
			fmt.Fprintf(&sb, " — %s", company)
		}
		if p.Bool("archived") {
			sb.WriteString(" (archived)")
		}
		sb.WriteString("\n")
	}
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── GetProjectTool ─────────────────────────────────────────────────────────

// GetProjectTool handles the get_project MCP tool.
type GetProjectTool struct {
	gw Gateway
}

// NewGetProjectTool creates a GetProjectTool.
func NewGetProjectTool(gw Gateway) *GetProjectTool {
	return &GetProjectTool{gw: gw}
}

// Definition returns the MCP tool definition for get_project.
func (t *GetProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project",
		mcp.WithDescription("Get details of a single project, including its company and project manager."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The project ID"),
		),
	)
}

// Handle processes the get_project tool call.
func (t *GetProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}

	query := productive.NewQuery().Include("company", "project_manager")
	env, err := t.gw.Get(ctx, "/projects/"+projectID, query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	project, ok := env.First()
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("project %s not found in response", projectID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Project #%s: %s\n\n", project.ID, project.String("name"))

	if company := includedName(env, "companies", project.RelatedID("company"), "name"); company != "" {
		fmt.Fprintf(&sb, "**Company:** %s\n", company)
	}
	if pm := personName(env, project.RelatedID("project_manager")); pm != "" {
		fmt.Fprintf(&sb, "**Project manager:** %s\n", pm)
	}
	fmt.Fprintf(&sb, "**Number:** %s\n", project.String("project_number"))
	if project.Bool("archived") {
		sb.WriteString("**Archived:** yes\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}
