package productive

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is the single error type surfaced by the gateway. It carries
// the classified, human-actionable message plus the HTTP status when one
// was received. Status is 0 for transport and setup failures.
type APIError struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Message is the classified, agent-facing description of what went
	// wrong and what to check.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// newTransportError classifies a failure where the request was sent but
// no response came back, almost always a connectivity problem.
func newTransportError(err error) *APIError {
	return &APIError{
		Message: "No response received from Productive API. Please check your internet connection.",
		Err:     err,
	}
}

// newReadError classifies a failure reading the response body. A status
// line arrived, so this is not a connectivity problem; the status is
// kept on the error.
func newReadError(status int, err error) *APIError {
	return &APIError{
		Status:  status,
		Message: fmt.Sprintf("Response from Productive API could not be read (status %d). Please try again.", status),
		Err:     err,
	}
}

// newSetupError classifies a failure constructing the request before it
// was ever dispatched. The underlying message is reported verbatim.
func newSetupError(err error) *APIError {
	return &APIError{
		Message: fmt.Sprintf("Request setup failed: %v", err),
		Err:     err,
	}
}

// classifyStatus turns a non-2xx HTTP response into an APIError with a
// message the agent can act on. The status code is authoritative; the
// body detail is a best-effort enrichment layered on top: Productive
// doesn't guarantee its error text, so keyword sniffing picks a more
// specific hint when it can and falls back to a generic one.
func classifyStatus(status int, body []byte) *APIError {
	detail := extractErrorDetail(body)
	lower := strings.ToLower(detail)

	var msg string
	switch {
	case status == http.StatusBadRequest:
		msg = fmt.Sprintf("Bad request: %s", detail)

	case status == http.StatusUnauthorized:
		msg = "Authentication failed. Please check your PRODUCTIVE_API_TOKEN."

	case status == http.StatusForbidden:
		msg = "Access forbidden. Please check your PRODUCTIVE_ORG_ID and that your token has permission for this resource."

	case status == http.StatusNotFound:
		switch {
		case strings.Contains(lower, "project"):
			msg = "Project not found. Please check the project ID."
		case strings.Contains(lower, "task"):
			msg = "Task not found. Please check the task ID."
		default:
			msg = "Resource not found. Please check the ID and try again."
		}

	case status == http.StatusUnprocessableEntity:
		switch {
		case strings.Contains(lower, "title"):
			msg = fmt.Sprintf("Validation failed: %s. Titles are required and limited to 255 characters.", detail)
		case strings.Contains(lower, "date"):
			msg = fmt.Sprintf("Validation failed: %s. Dates must use the YYYY-MM-DD format.", detail)
		case strings.Contains(lower, "project"):
			msg = fmt.Sprintf("Validation failed: %s. Make sure the project_id refers to an existing project.", detail)
		default:
			msg = fmt.Sprintf("Validation failed: %s", detail)
		}

	case status == http.StatusTooManyRequests:
		msg = fmt.Sprintf("Rate limit exceeded: Productive allows %d requests per %s. Please wait before retrying.",
			RequestLimit, humanSeconds(WindowDuration))

	case status >= 500:
		msg = "Productive API server error. Please try again later."

	default:
		msg = fmt.Sprintf("Request failed with status %d: %s", status, detail)
	}

	return &APIError{Status: status, Message: msg}
}

// jsonAPIErrorBody is the subset of a JSON:API error document we read.
type jsonAPIErrorBody struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
	Message string `json:"message"`
	ErrStr  string `json:"error"`
}

// extractErrorDetail pulls the most useful human-readable detail out of
// an error response body. Preference order: JSON:API errors[] entries
// (detail over title, joined with "; "), then a top-level message or
// error string, then a generic fallback.
func extractErrorDetail(body []byte) string {
	if len(body) == 0 {
		return "Unknown error occurred."
	}

	var parsed jsonAPIErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Errors) > 0 {
			parts := make([]string, 0, len(parsed.Errors))
			for _, e := range parsed.Errors {
				switch {
				case e.Detail != "":
					parts = append(parts, e.Detail)
				case e.Title != "":
					parts = append(parts, e.Title)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		}
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.ErrStr != "" {
			return parsed.ErrStr
		}
	}

	return "Unknown error occurred."
}
