// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (productive://...) following
// MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
)

// statusReader is the slice of the gateway the handler needs.
type statusReader interface {
	RateLimitStatus() productive.RateLimitStatus
}

// Handler manages the Productive resource endpoints.
type Handler struct {
	gw statusReader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(gw statusReader) *Handler {
	return &Handler{gw: gw}
}

// RateLimitResource returns the MCP resource definition for the
// gateway's rate-limit window.
func (h *Handler) RateLimitResource() mcp.Resource {
	return mcp.NewResource(
		"productive://rate-limit",
		"Productive Rate Limit",
		mcp.WithResourceDescription("Current API rate-limit window: used, limit, and remaining requests"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRateLimit returns the current window snapshot as JSON. Reading
// it never consumes quota.
func (h *Handler) HandleRateLimit(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	status := h.gw.RateLimitStatus()

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling rate-limit status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
