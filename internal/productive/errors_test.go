package productive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus_KeywordPerStatus(t *testing.T) {
	tests := []struct {
		status  int
		keyword string
	}{
		{400, "Bad request"},
		{401, "Authentication"},
		{403, "forbidden"},
		{404, "not found"},
		{422, "Validation"},
		{429, "Rate limit"},
		{500, "server error"},
		{502, "server error"},
		{503, "server error"},
		{418, "Request failed with status 418"},
	}

	for _, tt := range tests {
		err := classifyStatus(tt.status, nil)
		require.NotNil(t, err, "status %d", tt.status)
		assert.Equal(t, tt.status, err.Status)
		assert.Contains(t, err.Message, tt.keyword, "status %d", tt.status)
	}
}

func TestClassifyStatus_NotFoundContentSniffing(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "task detail",
			body: `{"errors":[{"detail":"Task with this id does not exist"}]}`,
			want: "Task not found.",
		},
		{
			name: "project detail",
			body: `{"errors":[{"detail":"Project could not be located"}]}`,
			want: "Project not found.",
		},
		{
			name: "generic",
			body: `{"errors":[{"detail":"Record does not exist"}]}`,
			want: "Resource not found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(404, []byte(tt.body))
			assert.Contains(t, err.Message, tt.want)
		})
	}
}

func TestClassifyStatus_ValidationHints(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "title hint includes character limit",
			body: `{"errors":[{"detail":"Title is required"}]}`,
			want: []string{"Validation", "Title", "255 characters"},
		},
		{
			name: "date hint",
			body: `{"errors":[{"detail":"Due date is invalid"}]}`,
			want: []string{"Validation", "YYYY-MM-DD"},
		},
		{
			name: "project hint",
			body: `{"errors":[{"detail":"Project must exist"}]}`,
			want: []string{"Validation", "project_id"},
		},
		{
			name: "generic",
			body: `{"errors":[{"detail":"Budget is closed"}]}`,
			want: []string{"Validation failed: Budget is closed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(422, []byte(tt.body))
			for _, want := range tt.want {
				assert.Contains(t, err.Message, want)
			}
		})
	}
}

func TestClassifyStatus_RateLimitNamesQuota(t *testing.T) {
	err := classifyStatus(429, nil)
	assert.Contains(t, err.Message, "100 requests")
	assert.Contains(t, err.Message, "10s")
}

func TestExtractErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "jsonapi detail",
			body: `{"errors":[{"detail":"Title is required"}]}`,
			want: "Title is required",
		},
		{
			name: "jsonapi title fallback",
			body: `{"errors":[{"title":"Unprocessable"}]}`,
			want: "Unprocessable",
		},
		{
			name: "multiple joined",
			body: `{"errors":[{"detail":"Title is required"},{"detail":"Date is invalid"}]}`,
			want: "Title is required; Date is invalid",
		},
		{
			name: "top-level message",
			body: `{"message":"something broke"}`,
			want: "something broke",
		},
		{
			name: "top-level error",
			body: `{"error":"nope"}`,
			want: "nope",
		},
		{
			name: "empty body",
			body: "",
			want: "Unknown error occurred.",
		},
		{
			name: "not json",
			body: "<html>502</html>",
			want: "Unknown error occurred.",
		},
		{
			name: "empty errors array",
			body: `{"errors":[]}`,
			want: "Unknown error occurred.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractErrorDetail([]byte(tt.body)))
		})
	}
}

func TestTransportError_NoStatusAttached(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := newTransportError(cause)

	assert.Equal(t, 0, err.Status)
	assert.Contains(t, err.Message, "No response")
	assert.Contains(t, err.Message, "internet connection")
	assert.ErrorIs(t, err, cause)
}

func TestReadError_CarriesStatus(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := newReadError(200, cause)

	assert.Equal(t, 200, err.Status)
	assert.Contains(t, err.Message, "could not be read")
	assert.Contains(t, err.Message, "200")
	assert.ErrorIs(t, err, cause)
}

func TestSetupError_Verbatim(t *testing.T) {
	cause := errors.New("invalid method")
	err := newSetupError(cause)

	assert.Equal(t, 0, err.Status)
	assert.Contains(t, err.Message, "invalid method")
	assert.ErrorIs(t, err, cause)
}
