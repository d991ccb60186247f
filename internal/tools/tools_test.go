package tools

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/productive"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test helpers ---

// recordedCall captures one gateway invocation for assertions.
type recordedCall struct {
	Method string
	Path   string
	Body   any
	Query  url.Values
}

// fakeGateway satisfies Gateway with canned responses. Responses are
// consumed in order; when the list runs out the last entry repeats.
type fakeGateway struct {
	calls     []recordedCall
	envelopes []*productive.Envelope
	errs      []error
	status    productive.RateLimitStatus
}

func (f *fakeGateway) Request(ctx context.Context, method, path string, body any, query url.Values) (*productive.Envelope, error) {
	f.calls = append(f.calls, recordedCall{Method: method, Path: path, Body: body, Query: query})

	idx := len(f.calls) - 1
	if len(f.errs) > 0 {
		errIdx := idx
		if errIdx >= len(f.errs) {
			errIdx = len(f.errs) - 1
		}
		if err := f.errs[errIdx]; err != nil {
			return nil, err
		}
	}

	if len(f.envelopes) == 0 {
		return &productive.Envelope{}, nil
	}
	if idx >= len(f.envelopes) {
		idx = len(f.envelopes) - 1
	}
	return f.envelopes[idx], nil
}

func (f *fakeGateway) Get(ctx context.Context, path string, query url.Values) (*productive.Envelope, error) {
	return f.Request(ctx, "GET", path, nil, query)
}

func (f *fakeGateway) Post(ctx context.Context, path string, body any) (*productive.Envelope, error) {
	return f.Request(ctx, "POST", path, body, nil)
}

func (f *fakeGateway) Patch(ctx context.Context, path string, body any) (*productive.Envelope, error) {
	return f.Request(ctx, "PATCH", path, body, nil)
}

func (f *fakeGateway) Delete(ctx context.Context, path string) (*productive.Envelope, error) {
	return f.Request(ctx, "DELETE", path, nil, nil)
}

func (f *fakeGateway) RateLimitStatus() productive.RateLimitStatus {
	return f.status
}

// envelopeFromJSON decodes a JSON:API document for canned responses.
func envelopeFromJSON(t *testing.T, raw string) *productive.Envelope {
	t.Helper()
	var env productive.Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	return &env
}

func newRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result carries no text content")
	return ""
}

// --- list_tasks ---

func TestListTasks_FormatsMarkdown(t *testing.T) {
	gw := &fakeGateway{envelopes: []*productive.Envelope{envelopeFromJSON(t, `{
		"data": [
			{"id": "1", "type": "tasks", "attributes": {"title": "Fix login", "closed": false},
			 "relationships": {"project": {"data": {"id": "7", "type": "projects"}}}},
			{"id": "2", "type": "tasks", "attributes": {"title": "Ship v2", "closed": true}}
		],
		"included": [{"id": "7", "type": "projects", "attributes": {"name": "Website"}}],
		"meta": {"total_count": 45, "current_page": 1, "total_pages": 2}
	}`)}}

	tool := NewListTasksTool(gw)
	result, err := tool.Handle(context.Background(), newRequest(map[string]any{
		"project_id": "7",
		"status":     "open",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Fix login")
	assert.Contains(t, text, "Website")
	assert.Contains(t, text, "Ship v2")
	assert.Contains(t, text, "(closed)")
	assert.Contains(t, text, "Showing page 1 of 2")

	require.Len(t, gw.calls, 1)
	assert.Equal(t, "/tasks", gw.calls[0].Path)
	assert.Equal(t, "7", gw.calls[0].Query.Get("filter[project_id]"))
	assert.Equal(t, "1", gw.calls[0].Query.Get("filter[status]"))
}

func TestListTasks_EmptyResult(t *testing.T) {
	gw := &fakeGateway{envelopes: []*productive.Envelope{envelopeFromJSON(t, `{"data": []}`)}}

	tool := NewListTasksTool(gw)
	result, err := tool.Handle(context.Background(), newRequest(nil))
	require.NoError(t, err)

	assert.Contains(t, resultText(t, result), "No tasks found")
}

func TestListTasks_GatewayErrorBecomesErrorResult(t *testing.T) {
	gw := &fakeGateway{errs: []error{&productive.APIError{
		Status:  401,
		Message: "Authentication failed. Please check your PRODUCTIVE_API_TOKEN.",
	}}}

	tool := NewListTasksTool(gw)
	result, err := tool.Handle(context.Background(), newRequest(nil))

	// Gateway failures surface as error results, never Go errors; one
	// failed call must not crash the serving process.
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Authentication failed")
}

// --- get_task ---

func TestGetTask_RequiresID(t *testing.T) {
	tool := NewGetTaskTool(&fakeGateway{})
	result, err := tool.Handle(context.Background(), newRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetTask_RendersDetails(t *testing.T) {
	gw := &fakeGateway{envelopes: []*productive.Envelope{envelopeFromJSON(t, `{
		"data": {"id": "101", "type": "tasks",
			"attributes": {"title": "Fix login", "closed": false, "due_date": "2025-07-01", "description": "Users cannot sign in."},
			"relationships": {
				"project": {"data": {"id": "7", "type": "projects"}},
				"assignee": {"data": {"id": "11", "type": "people"}}
			}},
		"included": [
			{"id": "7", "type": "projects", "attributes": {"name": "Website"}},
			{"id": "11", "type": "people", "attributes": {"first_name": "Ana", "last_name": "Pavic"}}
		]
	}`)}}

	tool := NewGetTaskTool(gw)
	result, err := tool.Handle(context.Background(), newRequest(map[string]any{"task_id": "101"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Task #101: Fix login")
	assert.Contains(t, text, "Website")
	assert.Contains(t, text, "Ana Pavic")
	assert.Contains(t, text, "2025-07-01")
	assert.Contains(t, text, "Users cannot sign in.")

	assert.Equal(t, "/tasks/101", gw.calls[0].Path)
}

// --- create_task ---

func TestCreateTask_ValidatesRequiredFields(t *testing.T) {
	tool := NewCreateTaskTool(&fakeGateway{})

	result, err := tool.Handle(context.Background(), newRequest(map[string]any{"project_id": "7"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "title")

	result, err = tool.Handle(context.Background(), newRequest(map[string]any{"title": "x"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "project_id")
}

func TestCreateTask_BuildsJSONAPIPayload(t *testing.T) {
	gw := &fakeGateway{envelopes: []*productive.Envelope{envelopeFromJSON(t,
		`{"data": {"id": "200", "type": "tasks", "attributes": {"title": "New task"}}}`,
	)}}

	tool := NewCreateTaskTool(gw)
	result, err := tool.Handle(context.Background(), newRequest(map[string]any{
		"title":       "New task",
		"project_id":  "7",
		"assignee_id": "11",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Len(t, gw.calls, 1)
	assert.Equal(t, "POST", gw.calls[0].Method)
	assert.Equal(t, "/tasks", gw.calls[0].Path)

	encoded, err := json.Marshal(gw.calls[0].Body)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"title":"New task"`)
	assert.Contains(t, string(encoded), `"type":"projects"`)
	assert.Contains(t, string(encoded), `"id":"11"`)

	assert.Contains(t, resultText(t, result), "Task #200 created")
}

// --- create_batch_tasks ---

func TestBatchCreateTasks_PartialFailure(t *testing.T) {
	created := envelopeFromJSON(t, `{"data": {"id": "1", "type": "tasks", "attributes": {}}}`)
	gw := &fakeGateway{
		envelopes: []*productive.Envelope{created, created, created},
		errs: []error{
			nil,
			&productive.APIError{Status: 422, Message: "Validation failed: Title is required"},
			nil,
		},
	}

	tool := NewBatchCreateTasksTool(gw)
	result, err := tool.Handle(context.Background(), newRequest(map[string]any{
		"project_id": "7",
		"titles":     "First task\nSecond task\nThird task",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "partial failure is still a success result")

	text := resultText(t, result)
	assert.Contains(t, text, "2 created, 1 failed")
	assert.Contains(t, text, `FAILED "Second task"`)

	assert.Len(t, gw.calls, 3, "one failure must not abort the rest of the batch")
}

func TestBatchCreateTasks_EmptyTitles(t *testing.T) {
	tool := NewBatchCreateTasksTool(&fakeGateway{})
	result, err := tool.Handle(context.Background(), newRequest(map[string]any{
		"project_id": "7",
		"titles":     "\n  \n",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

// --- update_task ---

func TestUpdateTask_ClosedFlagOnlyWhenProvided(t *testing.T) {
	gw := &fakeGateway{envelopes: []*productive.Envelope{envelopeFromJSON(t,
		`{"data": {"id": "101", "type": "tasks", "attributes": {"title": "Fix login"}}}`,
	)}}

	tool := NewUpdateTaskTool(gw)
	_, err := tool.Handle(context.Background(), newRequest(map[string]any{
		"task_id": "101",
		"title":   "Renamed",
	}))
	require.NoError(t, err)

	encoded, _ := json.Marshal(gw.calls[0].Body)
	assert.NotContains(t, string(encoded), "closed", "absent flag must not be sent")

	_, err = tool.Handle(context.Background(), newRequest(map[string]any{
		"task_id": "101",
		"closed":  true,
	}))
	require.NoError(t, err)

	encoded, _ = json.Marshal(gw.calls[1].Body)
	assert.Contains(t, string(encoded), `"closed":true`)
}

// --- complete_task ---

func TestCompleteTask_SendsClosedTrue(t *testing.T) {
	gw := &fakeGateway{envelopes: []*productive.Envelope{envelopeFromJSON(t,
		`{"data": {"id": "101", "type": "tasks", "attributes": {"title": "Fix login", "closed": true}}}`,
	)}}

	tool := NewCompleteTaskTool(gw)
	result, err := tool.Handle(context.Background(), newRequest(map[string]any{"task_id": "101"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Len(t, gw.calls, 1)
	assert.Equal(t, "PATCH", gw.calls[0].Method)
	assert.Equal(t, "/tasks/101", gw.calls[0].Path)

	encoded, _ := json.Marshal(gw.calls[0].Body)
	assert.Contains(t, string(encoded), `"closed":true`)

	assert.Contains(t, resultText(t, result), "Task #101 completed")
}

// --- rate_limit_status ---

func TestRateLimitStatus(t *testing.T) {
	gw := &fakeGateway{status: productive.RateLimitStatus{
		Count:     73,
		Limit:     100,
		Window:    productive.WindowDuration,
		Remaining: 27,
	}}

	tool := NewRateLimitStatusTool(gw)
	result, err := tool.Handle(context.Background(), newRequest(nil))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "73 of 100")
	assert.Contains(t, text, "27 remaining")

	assert.Empty(t, gw.calls, "status is a pure read, no gateway call")
}
