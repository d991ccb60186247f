package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/markdown"
	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListPagesTool handles the list_pages MCP tool.
type ListPagesTool struct {
	gw Gateway
}

// NewListPagesTool creates a ListPagesTool.
func NewListPagesTool(gw Gateway) *ListPagesTool {
	return &ListPagesTool{gw: gw}
}

// Definition returns the MCP tool definition for list_pages.
func (t *ListPagesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_pages",
		mcp.WithDescription("List documentation pages, optionally scoped to a project."),
		mcp.WithString("project_id",
			mcp.Description("Only pages in this project"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 pages per page)"),
		),
	)
}

// Handle processes the list_pages tool call.
func (t *ListPagesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().
		Filter("project_id", req.GetString("project_id", "")).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Sort("-updated_at")

	env, err := t.gw.Get(ctx, "/pages", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText("No pages found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Pages (%d)\n\n", len(env.Data))
	for i := range env.Data {
		p := &env.Data[i]
		fmt.Fprintf(&sb, "- **#%s** %s\n", p.ID, p.String("title"))
	}
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── GetPageTool ────────────────────────────────────────────────────────────

// GetPageTool handles the get_page MCP tool.
type GetPageTool struct {
	gw Gateway
}

// NewGetPageTool creates a GetPageTool.
func NewGetPageTool(gw Gateway) *GetPageTool {
	return &GetPageTool{gw: gw}
}

// Definition returns the MCP tool definition for get_page.
func (t *GetPageTool) Definition() mcp.Tool {
	return mcp.NewTool("get_page",
		mcp.WithDescription("Get a documentation page including its body content."),
		mcp.WithString("page_id",
			mcp.Required(),
			mcp.Description("The page ID"),
		),
	)
}

// Handle processes the get_page tool call.
func (t *GetPageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("page_id", "")
	if pageID == "" {
		return mcp.NewToolResultError("'page_id' is required"), nil
	}

	env, err := t.gw.Get(ctx, "/pages/"+pageID, nil)
	if err != nil {
		return errorResult(err), nil
	}

	page, ok := env.First()
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("page %s not found in response", pageID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", page.String("title"))
	if body := page.String("body"); body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	} else {
		sb.WriteString("_This page has no content._\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── CreatePageTool ─────────────────────────────────────────────────────────

// CreatePageTool handles the create_page MCP tool. The body is written
// in Markdown and converted to the HTML format Productive stores.
type CreatePageTool struct {
	gw Gateway
}

// NewCreatePageTool creates a CreatePageTool.
func NewCreatePageTool(gw Gateway) *CreatePageTool {
	return &CreatePageTool{gw: gw}
}

// Definition returns the MCP tool definition for create_page.
func (t *CreatePageTool) Definition() mcp.Tool {
	return mcp.NewTool("create_page",
		mcp.WithDescription(
			"Create a documentation page in a project. Write the body in Markdown; "+
				"it is converted to HTML for Productive's page editor.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Page title"),
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project to create the page in"),
		),
		mcp.WithString("body",
			mcp.Description("Page body in Markdown"),
		),
	)
}

// Handle processes the create_page tool call.
func (t *CreatePageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	projectID := req.GetString("project_id", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}

	htmlBody, err := markdown.ToHTML(req.GetString("body", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("converting body: %v", err)), nil
	}

	body := newPayload("pages").
		Attr("title", title).
		Attr("body", htmlBody).
		Rel("project", "projects", projectID).
		Build()

	env, err := t.gw.Post(ctx, "/pages", body)
	if err != nil {
		return errorResult(err), nil
	}

	page, ok := env.First()
	if !ok {
		return mcp.NewToolResultError("page was created but the response carried no resource"), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Page #%s created: %q", page.ID, page.String("title"),
	)), nil
}

// ─── UpdatePageTool ─────────────────────────────────────────────────────────

// UpdatePageTool handles the update_page MCP tool.
type UpdatePageTool struct {
	gw Gateway
}

// NewUpdatePageTool creates an UpdatePageTool.
func NewUpdatePageTool(gw Gateway) *UpdatePageTool {
	return &UpdatePageTool{gw: gw}
}

// Definition returns the MCP tool definition for update_page.
func (t *UpdatePageTool) Definition() mcp.Tool {
	return mcp.NewTool("update_page",
		mcp.WithDescription(
			"Update a documentation page. A new body replaces the existing "+
				"content entirely; write it in Markdown.",
		),
		mcp.WithString("page_id",
			mcp.Required(),
			mcp.Description("The page ID"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("body",
			mcp.Description("New body in Markdown (replaces existing content)"),
		),
	)
}

// Handle processes the update_page tool call.
func (t *UpdatePageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("page_id", "")
	if pageID == "" {
		return mcp.NewToolResultError("'page_id' is required"), nil
	}

	body := newPayload("pages").Attr("title", req.GetString("title", ""))

	if md := req.GetString("body", ""); md != "" {
		htmlBody, err := markdown.ToHTML(md)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("converting body: %v", err)), nil
		}
		body.Attr("body", htmlBody)
	}

	if _, err := t.gw.Patch(ctx, "/pages/"+pageID, body.Build()); err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Page #%s updated.", pageID)), nil
}
