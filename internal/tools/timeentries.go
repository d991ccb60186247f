package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListTimeEntriesTool handles the list_time_entries MCP tool.
type ListTimeEntriesTool struct {
	gw Gateway
}

// NewListTimeEntriesTool creates a ListTimeEntriesTool.
func NewListTimeEntriesTool(gw Gateway) *ListTimeEntriesTool {
	return &ListTimeEntriesTool{gw: gw}
}

// Definition returns the MCP tool definition for list_time_entries.
func (t *ListTimeEntriesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_time_entries",
		mcp.WithDescription(
			"List time entries, filterable by person and date range.",
		),
		mcp.WithString("person_id",
			mcp.Description("Only entries logged by this person"),
		),
		mcp.WithString("after",
			mcp.Description("Only entries on or after this date (YYYY-MM-DD)"),
		),
		mcp.WithString("before",
			mcp.Description("Only entries on or before this date (YYYY-MM-DD)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 entries per page)"),
		),
	)
}

// Handle processes the list_time_entries tool call.
func (t *ListTimeEntriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().
		Filter("person_id", req.GetString("person_id", "")).
		Filter("after", req.GetString("after", "")).
		Filter("before", req.GetString("before", "")).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Include("person", "service").
		Sort("-date")

	env, err := t.gw.Get(ctx, "/time_entries", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText("No time entries found matching the given filters."), nil
	}

	var sb strings.Builder
	totalMinutes := 0.0
	fmt.Fprintf(&sb, "# Time entries (%d)\n\n", len(env.Data))
	for i := range env.Data {
		e := &env.Data[i]
		minutes, _ := e.Number("time")
		totalMinutes += minutes

		fmt.Fprintf(&sb, "- **%s** %s", e.String("date"), formatMinutes(minutes))
		if person := personName(env, e.RelatedID("person")); person != "" {
			fmt.Fprintf(&sb, " by %s", person)
		}
		if service := includedName(env, "services", e.RelatedID("service"), "name"); service != "" {
			fmt.Fprintf(&sb, " on %s", service)
		}
		if note := e.String("note"); note != "" {
			fmt.Fprintf(&sb, " — %s", note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\n**Total:** %s\n", formatMinutes(totalMinutes))
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── CreateTimeEntryTool ────────────────────────────────────────────────────

// CreateTimeEntryTool handles the create_time_entry MCP tool.
type CreateTimeEntryTool struct {
	gw Gateway
}

// NewCreateTimeEntryTool creates a CreateTimeEntryTool.
func NewCreateTimeEntryTool(gw Gateway) *CreateTimeEntryTool {
	return &CreateTimeEntryTool{gw: gw}
}

// Definition returns the MCP tool definition for create_time_entry.
func (t *CreateTimeEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("create_time_entry",
		mcp.WithDescription(
			"Log time against a service. Time is given in minutes; use "+
				"list_services to find the service_id.",
		),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person the time belongs to"),
		),
		mcp.WithString("service_id",
			mcp.Required(),
			mcp.Description("Service to log against"),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date of the work (YYYY-MM-DD)"),
		),
		mcp.WithNumber("minutes",
			mcp.Required(),
			mcp.Description("Time in minutes"),
		),
		mcp.WithString("note",
			mcp.Description("What the time was spent on"),
		),
		mcp.WithString("task_id",
			mcp.Description("Task the time relates to"),
		),
	)
}

// Handle processes the create_time_entry tool call.
func (t *CreateTimeEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	serviceID := req.GetString("service_id", "")
	date := req.GetString("date", "")
	minutes := intArg(req, "minutes", 0)

	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}
	if serviceID == "" {
		return mcp.NewToolResultError("'service_id' is required"), nil
	}
	if date == "" {
		return mcp.NewToolResultError("'date' is required"), nil
	}
	if minutes <= 0 {
		return mcp.NewToolResultError("'minutes' must be a positive number"), nil
	}

	body := newPayload("time_entries").
		Attr("date", date).
		Attr("time", minutes).
		Attr("note", req.GetString("note", "")).
		Rel("person", "people", personID).
		Rel("service", "services", serviceID).
		Rel("task", "tasks", req.GetString("task_id", "")).
		Build()

	env, err := t.gw.Post(ctx, "/time_entries", body)
	if err != nil {
		return errorResult(err), nil
	}

	if entry, ok := env.First(); ok {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Time entry #%s created: %s on %s.", entry.ID, formatMinutes(float64(minutes)), date,
		)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Time entry created: %s on %s.", formatMinutes(float64(minutes)), date)), nil
}

// formatMinutes renders a minute count as "Xh Ym".
func formatMinutes(minutes float64) string {
	m := int(minutes)
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}
