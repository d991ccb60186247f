package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListPeopleTool handles the list_people MCP tool.
type ListPeopleTool struct {
	gw Gateway
}

// NewListPeopleTool creates a ListPeopleTool.
func NewListPeopleTool(gw Gateway) *ListPeopleTool {
	return &ListPeopleTool{gw: gw}
}

// Definition returns the MCP tool definition for list_people.
func (t *ListPeopleTool) Definition() mcp.Tool {
	return mcp.NewTool("list_people",
		mcp.WithDescription(
			"List people in the organization. Use this to find person IDs for "+
				"task assignment and time entries.",
		),
		mcp.WithString("email",
			mcp.Description("Find a person by exact email address"),
		),
		mcp.WithString("company_id",
			mcp.Description("Only people belonging to this company"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (30 people per page)"),
		),
	)
}

// Handle processes the list_people tool call.
func (t *ListPeopleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().
		Filter("email", req.GetString("email", "")).
		Filter("company_id", req.GetString("company_id", "")).
		Page(intArg(req, "page", 0)).
		PageSize(30).
		Sort("last_name")

	env, err := t.gw.Get(ctx, "/people", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	if len(env.Data) == 0 {
		return mcp.NewToolResultText("No people found matching the given filters."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# People (%d)\n\n", len(env.Data))
	for i := range env.Data {
		p := &env.Data[i]
		name := strings.TrimSpace(p.String("first_name") + " " + p.String("last_name"))
		fmt.Fprintf(&sb, "- **#%s** %s", p.ID, name)
		if email := p.String("email"); email != "" {
			fmt.Fprintf(&sb, " <%s>", email)
		}
		if title := p.String("title"); title != "" {
			fmt.Fprintf(&sb, " — %s", title)
		}
		sb.WriteString("\n")
	}
	paginationFooter(&sb, env)

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── GetPersonTool ──────────────────────────────────────────────────────────

// GetPersonTool handles the get_person MCP tool.
type GetPersonTool struct {
	gw Gateway
}

// NewGetPersonTool creates a GetPersonTool.
func NewGetPersonTool(gw Gateway) *GetPersonTool {
	return &GetPersonTool{gw: gw}
}

// Definition returns the MCP tool definition for get_person.
func (t *GetPersonTool) Definition() mcp.Tool {
	return mcp.NewTool("get_person",
		mcp.WithDescription("Get details of a single person."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("The person ID"),
		),
	)
}

// Handle processes the get_person tool call.
func (t *GetPersonTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	env, err := t.gw.Get(ctx, "/people/"+personID, nil)
	if err != nil {
		return errorResult(err), nil
	}

	person, ok := env.First()
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("person %s not found in response", personID)), nil
	}

	name := strings.TrimSpace(person.String("first_name") + " " + person.String("last_name"))

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Person #%s: %s\n\n", person.ID, name)
	if email := person.String("email"); email != "" {
		fmt.Fprintf(&sb, "**Email:** %s\n", email)
	}
	if title := person.String("title"); title != "" {
		fmt.Fprintf(&sb, "**Title:** %s\n", title)
	}
	if person.Bool("deactivated") {
		sb.WriteString("**Deactivated:** yes\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// ─── WhoAmITool ─────────────────────────────────────────────────────────────

// WhoAmITool handles the whoami MCP tool. It resolves the person behind
// the configured API token via the organization membership endpoint.
type WhoAmITool struct {
	gw Gateway
}

// NewWhoAmITool creates a WhoAmITool.
func NewWhoAmITool(gw Gateway) *WhoAmITool {
	return &WhoAmITool{gw: gw}
}

// Definition returns the MCP tool definition for whoami.
func (t *WhoAmITool) Definition() mcp.Tool {
	return mcp.NewTool("whoami",
		mcp.WithDescription(
			"Show which Productive user the configured API token belongs to. "+
				"Useful for finding your own person ID.",
		),
	)
}

// Handle processes the whoami tool call.
func (t *WhoAmITool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := productive.NewQuery().Include("person")
	env, err := t.gw.Get(ctx, "/organization_memberships", query.Values())
	if err != nil {
		return errorResult(err), nil
	}

	membership, ok := env.First()
	if !ok {
		return mcp.NewToolResultError("no organization membership found for this token"), nil
	}

	personID := membership.RelatedID("person")
	name := personName(env, personID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are **%s** (person #%s).\n", name, personID)
	if person, ok := env.FindIncluded("people", personID); ok {
		if email := person.String("email"); email != "" {
			fmt.Fprintf(&sb, "Email: %s\n", email)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
