package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListTasksTool handles the list_tasks MCP tool.
type ListTasksTool struct {
	gw Gateway
}

// NewListTasksTool creates a ListTasksTool.
func NewListTasksTool(gw Gateway) *ListTasksTool {
	return &ListTasksTool{gw: gw}
}

// Definition returns the MCP tool definition for list_tasks.
func (t *ListTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription(
			"List tasks in Productive. Supports filtering by project, assignee, "+
				"and status, plus pagination. Returns a markdown summary of each task.",
		),
		mcp.WithString("project_id",
			mcp.Description("Only tasks in this project"),
		),
		mcp.WithString("assignee_id",
			mcp.Description("Only tasks assigned to this person"),
		),
		mcp.WithString("status",
			mcp.Description("Task status: 'open' or 'closed'. Leave empty for all."),
			mcp.Enum("open", "closed"),
		),
		mcp.WithString("query",
			mcp.Description("Free-text search over task titles"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 tasks per page)"),
		),
	)
}

// Handle processes the list_tasks tool call.
func (t *ListTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().
		Filter("project_id", req.GetString("project_id", "")).
		Filter("assignee_id", req.GetString("assignee_id", "")).
		Filter("query", req.GetString("query", "")).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Include("project", "assignee").
		Sort("-updated_at")

	switch req.GetString("status", "") {
	case "open":
		query.Filter("status", "1")
	case "closed":
		query.Filter("status", "2")
	}

	env, err := t.gw.Get(ctx, "/tasks", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText("No tasks found matching the given filters."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Tasks (%d)\n\n", len(env.Data))
	for i := range env.Data {
		writeTaskLine(&sb, env, &env.Data[i])
	}
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── GetTaskTool ────────────────────────────────────────────────────────────

// GetTaskTool handles the get_task MCP tool.
type GetTaskTool struct {
	gw Gateway
}

// NewGetTaskTool creates a GetTaskTool.
func NewGetTaskTool(gw Gateway) *GetTaskTool {
	return &GetTaskTool{gw: gw}
}

// Definition returns the MCP tool definition for get_task.
func (t *GetTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("get_task",
		mcp.WithDescription(
			"Get full details of a single task: title, description, status, "+
				"project, assignee, and due date.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID"),
		),
	)
}

// Handle processes the get_task tool call.
func (t *GetTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	query := productive.NewQuery().Include("project", "assignee", "workflow_status")
	env, err := t.gw.Get(ctx, "/tasks/"+taskID, query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	task, ok := env.First()
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("task %s not found in response", taskID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Task #%s: %s\n\n", task.ID, task.String("title"))

	status := "Open"
	if task.Bool("closed") {
		status = "Closed"
	}
	fmt.Fprintf(&sb, "**Status:** %s\n", status)

	if name := includedName(env, "projects", task.RelatedID("project"), "name"); name != "" {
		fmt.Fprintf(&sb, "**Project:** %s\n", name)
	}
	if name := personName(env, task.RelatedID("assignee")); name != "" {
		fmt.Fprintf(&sb, "**Assignee:** %s\n", name)
	}
	if due := task.String("due_date"); due != "" {
		fmt.Fprintf(&sb, "**Due date:** %s\n", due)
	}
	if ws, ok := env.FindIncluded("workflow_statuses", task.RelatedID("workflow_status")); ok {
		fmt.Fprintf(&sb, "**Workflow status:** %s\n", ws.String("name"))
	}

	if desc := task.String("description"); desc != "" {
		fmt.Fprintf(&sb, "\n## Description\n\n%s\n", desc)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── CreateTaskTool ─────────────────────────────────────────────────────────

// CreateTaskTool handles the create_task MCP tool.
type CreateTaskTool struct {
	gw Gateway
}

// NewCreateTaskTool creates a CreateTaskTool.
func NewCreateTaskTool(gw Gateway) *CreateTaskTool {
	return &CreateTaskTool{gw: gw}
}

// Definition returns the MCP tool definition for create_task.
func (t *CreateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription(
			"Create a new task in a Productive project. Title and project_id "+
				"are required; description, assignee, and due date are optional.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title (max 255 characters)"),
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project to create the task in"),
		),
		mcp.WithString("task_list_id",
			mcp.Description("Task list within the project"),
		),
		mcp.WithString("description",
			mcp.Description("Task description (plain text or HTML)"),
		),
		mcp.WithString("assignee_id",
			mcp.Description("Person to assign the task to"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date in YYYY-MM-DD format"),
		),
	)
}

// Handle processes the create_task tool call.
func (t *CreateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	projectID := req.GetString("project_id", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}

	body := newPayload("tasks").
		Attr("title", title).
		Attr("description", req.GetString("description", "")).
		Attr("due_date", req.GetString("due_date", "")).
		Rel("project", "projects", projectID).
		Rel("task_list", "task_lists", req.GetString("task_list_id", "")).
		Rel("assignee", "people", req.GetString("assignee_id", "")).
		Build()

	env, err := t.gw.Post(ctx, "/tasks", body)
	if err != nil {
		return errorResult(err), nil
	}

	task, ok := env.First()
	if !ok {
		return mcp.NewToolResultError("task was created but the response carried no resource"), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Task #%s created: %q in project %s", task.ID, task.String("title"), projectID,
	)), nil
}

// ─── UpdateTaskTool ─────────────────────────────────────────────────────────

// UpdateTaskTool handles the update_task MCP tool.
type UpdateTaskTool struct {
	gw Gateway
}

// NewUpdateTaskTool creates an UpdateTaskTool.
func NewUpdateTaskTool(gw Gateway) *UpdateTaskTool {
	return &UpdateTaskTool{gw: gw}
}

// Definition returns the MCP tool definition for update_task.
func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription(
			"Update an existing task. Only the provided fields change; "+
				"set closed=true to complete a task.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date (YYYY-MM-DD)"),
		),
		mcp.WithString("assignee_id",
			mcp.Description("Reassign to this person"),
		),
		mcp.WithBoolean("closed",
			mcp.Description("Set true to close the task, false to reopen it"),
		),
	)
}

// Handle processes the update_task tool call.
func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	body := newPayload("tasks").
		Attr("title", req.GetString("title", "")).
		Attr("description", req.GetString("description", "")).
		Attr("due_date", req.GetString("due_date", "")).
		Rel("assignee", "people", req.GetString("assignee_id", ""))

	if _, ok := req.GetArguments()["closed"]; ok {
		body.Attr("closed", boolArg(req, "closed", false))
	}

	env, err := t.gw.Patch(ctx, "/tasks/"+taskID, body.Build())
	if err != nil {
		return errorResult(err), nil
	}

	task, ok := env.First()
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("Task #%s updated.", taskID)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Task #%s updated: %q", task.ID, task.String("title"),
	)), nil
}

// ─── CompleteTaskTool ───────────────────────────────────────────────────────

// CompleteTaskTool handles the complete_task MCP tool. It is a shortcut
// for update_task with closed=true.
type CompleteTaskTool struct {
	gw Gateway
}

// NewCompleteTaskTool creates a CompleteTaskTool.
func NewCompleteTaskTool(gw Gateway) *CompleteTaskTool {
	return &CompleteTaskTool{gw: gw}
}

// Definition returns the MCP tool definition for complete_task.
func (t *CompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as completed (closed)."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID"),
		),
	)
}

// Handle processes the complete_task tool call.
func (t *CompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	body := newPayload("tasks").Attr("closed", true).Build()

	env, err := t.gw.Patch(ctx, "/tasks/"+taskID, body)
	if err != nil {
		return errorResult(err), nil
	}

	if task, ok := env.First(); ok {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Task #%s completed: %q", task.ID, task.String("title"),
		)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task #%s completed.", taskID)), nil
}

// ─── BatchCreateTasksTool ───────────────────────────────────────────────────

// BatchCreateTasksTool handles the create_batch_tasks MCP tool. Tasks
// are created sequentially through the shared gateway, so a large batch
// is automatically paced by the rate limiter.
type BatchCreateTasksTool struct {
	gw Gateway
}

// NewBatchCreateTasksTool creates a BatchCreateTasksTool.
func NewBatchCreateTasksTool(gw Gateway) *BatchCreateTasksTool {
	return &BatchCreateTasksTool{gw: gw}
}

// Definition returns the MCP tool definition for create_batch_tasks.
func (t *BatchCreateTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("create_batch_tasks",
		mcp.WithDescription(
			"Create multiple tasks in one project in a single call. Each line of "+
				"'titles' becomes one task. Failures are reported per task; one "+
				"failure does not abort the rest of the batch.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project to create the tasks in"),
		),
		mcp.WithString("titles",
			mcp.Required(),
			mcp.Description("Task titles, one per line"),
		),
		mcp.WithString("task_list_id",
			mcp.Description("Task list within the project"),
		),
		mcp.WithString("assignee_id",
			mcp.Description("Assign every created task to this person"),
		),
	)
}

// Handle processes the create_batch_tasks tool call.
func (t *BatchCreateTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}

	var titles []string
	for _, line := range strings.Split(req.GetString("titles", ""), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			titles = append(titles, trimmed)
		}
	}
	if len(titles) == 0 {
		return mcp.NewToolResultError("'titles' must contain at least one non-empty line"), nil
	}

	var sb strings.Builder
	created, failed := 0, 0

	for _, title := range titles {
		body := newPayload("tasks").
			Attr("title", title).
			Rel("project", "projects", projectID).
			Rel("task_list", "task_lists", req.GetString("task_list_id", "")).
			Rel("assignee", "people", req.GetString("assignee_id", "")).
			Build()

		env, err := t.gw.Post(ctx, "/tasks", body)
		if err != nil {
			failed++
			fmt.Fprintf(&sb, "- FAILED %q: %v\n", title, err)
			continue
		}

		created++
		if task, ok := env.First(); ok {
			fmt.Fprintf(&sb, "- Created #%s: %q\n", task.ID, title)
		} else {
			fmt.Fprintf(&sb, "- Created: %q\n", title)
		}
	}

	header := fmt.Sprintf("# Batch result: %d created, %d failed\n\n", created, failed)
	return mcp.NewToolResultText(header + sb.String()), nil
}

// writeTaskLine renders one task as a markdown list entry.
func writeTaskLine(sb *strings.Builder, env *productive.Envelope, task *productive.Resource) {
	status := "open"
	if task.Bool("closed") {
		status = "closed"
	}

	fmt.Fprintf(sb, "- **#%s** %s (%s)", task.ID, task.String("title"), status)

	if name := includedName(env, "projects", task.RelatedID("project"), "name"); name != "" {
		fmt.Fprintf(sb, " — %s", name)
	}
	if name := personName(env, task.RelatedID("assignee")); name != "" {
		fmt.Fprintf(sb, ", assigned to %s", name)
	}
	if due := task.String("due_date"); due != "" {
		fmt.Fprintf(sb, ", due %s", due)
	}
	sb.WriteString("\n")
}
