// Package tools implements the MCP tool handlers for Productive.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema, and a Handle() method.
// Tools depend on the Gateway interface, not the concrete client, so
// tests can substitute a fake.
//
// Every handler converts a gateway failure into a non-throwing error
// result (mcp.NewToolResultError); one failed Productive call must
// never crash the serving process.
package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// Gateway is the slice of the Productive client that tools consume.
type Gateway interface {
	Request(ctx context.Context, method, path string, body any, query url.Values) (*productive.Envelope, error)
	Get(ctx context.Context, path string, query url.Values) (*productive.Envelope, error)
	Post(ctx context.Context, path string, body any) (*productive.Envelope, error)
	Patch(ctx context.Context, path string, body any) (*productive.Envelope, error)
	Delete(ctx context.Context, path string) (*productive.Envelope, error)
	RateLimitStatus() productive.RateLimitStatus
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// errorResult converts a gateway error into a tool error result. The
// gateway already produced an actionable message, so it is passed
// through as-is.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

// payload builds a JSON:API request document incrementally.
type payload struct {
	resType string
	attrs   map[string]any
	rels    map[string]any
}

// newPayload starts a document for the given resource type.
func newPayload(resType string) *payload {
	return &payload{
		resType: resType,
		attrs:   map[string]any{},
		rels:    map[string]any{},
	}
}

// Attr sets an attribute. Empty string values are skipped so optional
// tool arguments pass through without clobbering upstream defaults.
func (p *payload) Attr(name string, value any) *payload {
	if s, ok := value.(string); ok && s == "" {
		return p
	}
	p.attrs[name] = value
	return p
}

// Rel sets a to-one relationship. Skipped when id is empty.
func (p *payload) Rel(name, resType, id string) *payload {
	if id == "" {
		return p
	}
	p.rels[name] = map[string]any{
		"data": map[string]any{"type": resType, "id": id},
	}
	return p
}

// Build returns the wire document.
func (p *payload) Build() map[string]any {
	data := map[string]any{
		"type":       p.resType,
		"attributes": p.attrs,
	}
	if len(p.rels) > 0 {
		data["relationships"] = p.rels
	}
	return map[string]any{"data": data}
}

// includedName resolves the display name of a related resource from the
// envelope's included list. Falls back to the raw id when the resource
// wasn't sideloaded.
func includedName(env *productive.Envelope, resType, id, nameAttr string) string {
	if id == "" {
		return ""
	}
	if res, ok := env.FindIncluded(resType, id); ok {
		if name := res.String(nameAttr); name != "" {
			return name
		}
	}
	return fmt.Sprintf("#%s", id)
}

// personName resolves a person's full name from the included list.
func personName(env *productive.Envelope, id string) string {
	if id == "" {
		return ""
	}
	if res, ok := env.FindIncluded("people", id); ok {
		first := res.String("first_name")
		last := res.String("last_name")
		full := strings.TrimSpace(first + " " + last)
		if full != "" {
			return full
		}
	}
	return fmt.Sprintf("#%s", id)
}

// paginationFooter appends a "Showing page X of Y" line when the
// envelope carries pagination meta.
func paginationFooter(sb *strings.Builder, env *productive.Envelope) {
	if env.Meta == nil || env.Meta.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(sb, "\n_Showing page %d of %d (%d total). Use the page parameter to see more._\n",
		env.Meta.CurrentPage, env.Meta.TotalPages, env.Meta.TotalCount)
}

// centsToAmount formats a money amount stored in cents.
func centsToAmount(cents float64, currency string) string {
	if currency == "" {
		currency = "?"
	}
	return fmt.Sprintf("%.2f %s", cents/100, currency)
}
