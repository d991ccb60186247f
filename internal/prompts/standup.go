// Package prompts implements the MCP prompts shipped with the server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StandupPrompt handles the productive-standup MCP prompt. It walks
// the AI through assembling a daily standup summary from Productive.
type StandupPrompt struct{}

// NewStandupPrompt creates a StandupPrompt.
func NewStandupPrompt() *StandupPrompt {
	return &StandupPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StandupPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("productive-standup",
		mcp.WithPromptDescription(
			"Build a daily standup summary from Productive: your open tasks, "+
				"recent time entries, and anything due soon.",
		),
	)
}

// Handle processes the productive-standup prompt request.
func (p *StandupPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Daily Standup Summary",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please prepare my daily standup from Productive:\n\n" +
						"1. Run `whoami` to find my person ID\n" +
						"2. Run `list_tasks` filtered to my assignee_id with status=open\n" +
						"3. Run `list_time_entries` for my person_id covering yesterday\n" +
						"4. Summarize: what I did yesterday, what's on my plate today, " +
						"and flag any open task whose due date has passed",
				),
			},
		},
	}, nil
}
