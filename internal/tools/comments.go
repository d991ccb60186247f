package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListCommentsTool handles the list_comments MCP tool.
type ListCommentsTool struct {
	gw Gateway
}

// NewListCommentsTool creates a ListCommentsTool.
func NewListCommentsTool(gw Gateway) *ListCommentsTool {
	return &ListCommentsTool{gw: gw}
}

// Definition returns the MCP tool definition for list_comments.
func (t *ListCommentsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_comments",
		mcp.WithDescription("List the comments on a task, newest first."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task whose comments to list"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 comments per page)"),
		),
	)
}

// Handle processes the list_comments tool call.
func (t *ListCommentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	query := productive.NewQuery().
		Filter("task_id", taskID).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Include("creator").
		Sort("-created_at")

	env, err := t.gw.Get(ctx, "/comments", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No comments on task #%s.", taskID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Comments on task #%s (%d)\n\n", taskID, len(env.Data))
	for i := range env.Data {
		c := &env.Data[i]
		author := personName(env, c.RelatedID("creator"))
		fmt.Fprintf(&sb, "**%s** (%s):\n%s\n\n", author, c.String("created_at"), c.String("body"))
	}
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── CreateCommentTool ──────────────────────────────────────────────────────

// CreateCommentTool handles the create_comment MCP tool.
type CreateCommentTool struct {
	gw Gateway
}

// NewCreateCommentTool creates a CreateCommentTool.
func NewCreateCommentTool(gw Gateway) *CreateCommentTool {
	return &CreateCommentTool{gw: gw}
}

// Definition returns the MCP tool definition for create_comment.
func (t *CreateCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("create_comment",
		mcp.WithDescription("Add a comment to a task."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task to comment on"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Comment text"),
		),
	)
}

// Handle processes the create_comment tool call.
func (t *CreateCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	commentBody := req.GetString("body", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	if commentBody == "" {
		return mcp.NewToolResultError("'body' is required"), nil
	}

	body := newPayload("comments").
		Attr("body", commentBody).
		Rel("task", "tasks", taskID).
		Build()

	env, err := t.gw.Post(ctx, "/comments", body)
	if err != nil {
		return errorResult(err), nil
	}

	if comment, ok := env.First(); ok {
		return mcp.NewToolResultText(fmt.Sprintf("Comment #%s added to task #%s.", comment.ID, taskID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Comment added to task #%s.", taskID)), nil
}
