// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it loads the configuration, builds the
// gateway client (the one owner of the rate limiter and credentials),
// and injects it into every tool, prompt, and resource. No business
// logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/config"
	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/TheSiteDoctor/ProductiveMCP/internal/prompts"
	"github.com/TheSiteDoctor/ProductiveMCP/internal/resources"
	"github.com/TheSiteDoctor/ProductiveMCP/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with every tool, prompt,
// and resource registered. It fails fast, before any network call,
// when the required credentials are missing.
//
// The returned cleanup function flushes the logger and must be called
// on shutdown (typically via defer). It is always non-nil.
func New() (*server.MCPServer, func(), error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, noop, err
	}

	log, err := newLogger()
	if err != nil {
		return nil, noop, fmt.Errorf("creating logger: %w", err)
	}
	cleanup := func() { _ = log.Sync() }

	// The one gateway instance for the process: one credential, one
	// rate-limit window shared by every tool invocation.
	client := productive.NewClient(cfg, log)

	s := server.NewMCPServer(
		"productive-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, client)

	standupPrompt := prompts.NewStandupPrompt()
	s.AddPrompt(standupPrompt.Definition(), standupPrompt.Handle)

	resourceHandler := resources.NewHandler(client)
	s.AddResource(resourceHandler.RateLimitResource(), resourceHandler.HandleRateLimit)

	return s, cleanup, nil
}

// noop is the default cleanup when construction fails early.
func noop() {}

// newLogger builds the process logger. Everything goes to stderr;
// stdout belongs to the MCP stdio transport and must stay clean.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// registerTools registers every Productive tool with the server.
func registerTools(s *server.MCPServer, gw tools.Gateway) {
	// --- Tasks ---
	listTasks := tools.NewListTasksTool(gw)
	s.AddTool(listTasks.Definition(), listTasks.Handle)

	getTask := tools.NewGetTaskTool(gw)
	s.AddTool(getTask.Definition(), getTask.Handle)

	createTask := tools.NewCreateTaskTool(gw)
	s.AddTool(createTask.Definition(), createTask.Handle)

	updateTask := tools.NewUpdateTaskTool(gw)
	s.AddTool(updateTask.Definition(), updateTask.Handle)

	completeTask := tools.NewCompleteTaskTool(gw)
	s.AddTool(completeTask.Definition(), completeTask.Handle)

	batchCreate := tools.NewBatchCreateTasksTool(gw)
	s.AddTool(batchCreate.Definition(), batchCreate.Handle)

	// --- Projects ---
	listProjects := tools.NewListProjectsTool(gw)
	s.AddTool(listProjects.Definition(), listProjects.Handle)

	getProject := tools.NewGetProjectTool(gw)
	s.AddTool(getProject.Definition(), getProject.Handle)

	// --- Budgets & services ---
	listBudgets := tools.NewListBudgetsTool(gw)
	s.AddTool(listBudgets.Definition(), listBudgets.Handle)

	getBudget := tools.NewGetBudgetTool(gw)
	s.AddTool(getBudget.Definition(), getBudget.Handle)

	listServices := tools.NewListServicesTool(gw)
	s.AddTool(listServices.Definition(), listServices.Handle)

	// --- Pages ---
	listPages := tools.NewListPagesTool(gw)
	s.AddTool(listPages.Definition(), listPages.Handle)

	getPage := tools.NewGetPageTool(gw)
	s.AddTool(getPage.Definition(), getPage.Handle)

	createPage := tools.NewCreatePageTool(gw)
	s.AddTool(createPage.Definition(), createPage.Handle)

	updatePage := tools.NewUpdatePageTool(gw)
	s.AddTool(updatePage.Definition(), updatePage.Handle)

	// --- People & companies ---
	listPeople := tools.NewListPeopleTool(gw)
	s.AddTool(listPeople.Definition(), listPeople.Handle)

	getPerson := tools.NewGetPersonTool(gw)
	s.AddTool(getPerson.Definition(), getPerson.Handle)

	whoami := tools.NewWhoAmITool(gw)
	s.AddTool(whoami.Definition(), whoami.Handle)

	listCompanies := tools.NewListCompaniesTool(gw)
	s.AddTool(listCompanies.Definition(), listCompanies.Handle)

	// --- Comments ---
	listComments := tools.NewListCommentsTool(gw)
	s.AddTool(listComments.Definition(), listComments.Handle)

	createComment := tools.NewCreateCommentTool(gw)
	s.AddTool(createComment.Definition(), createComment.Handle)

	// --- Time entries ---
	listTimeEntries := tools.NewListTimeEntriesTool(gw)
	s.AddTool(listTimeEntries.Definition(), listTimeEntries.Handle)

	createTimeEntry := tools.NewCreateTimeEntryTool(gw)
	s.AddTool(createTimeEntry.Definition(), createTimeEntry.Handle)

	// --- Diagnostics ---
	rateLimitStatus := tools.NewRateLimitStatusTool(gw)
	s.AddTool(rateLimitStatus.Definition(), rateLimitStatus.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use the Productive tools effectively.
func serverInstructions() string {
	return `You have access to Productive, a project-management platform, through these tools.

## Finding IDs
Most tools take Productive IDs. Resolve them in this order:
- whoami: your own person ID
- list_projects / list_companies / list_people: IDs for filtering
- list_budgets and list_services: financial line items (time entries need a service_id)

## Tasks
- list_tasks supports project, assignee, and status filters plus pagination
- create_task needs a title and project_id; create_batch_tasks takes one title per line
- Close a task with complete_task, or update_task with closed=true

## Pages
Page bodies are written in Markdown and stored as HTML. get_page returns the stored HTML.

## Time tracking
create_time_entry logs minutes against a service on a date. Find the service with
list_services for the relevant budget or project.

## Rate limiting
All tools share one Productive API quota (100 requests per 10 seconds). Large batches
are paced automatically — a long pause mid-batch is the rate limiter waiting for the
window to roll over, not a failure. Check the current window with rate_limit_status;
it costs nothing.

## Errors
Tool errors carry actionable messages (authentication, permissions, validation hints).
Report them to the user rather than retrying blindly; the server never retries on its own.`
}
