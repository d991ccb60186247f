// Package config loads the startup configuration from the environment.
//
// The server needs exactly two credentials to talk to Productive: an API
// token and the organization ID it belongs to. Both are required: there
// is no anonymous mode and no interactive fallback, so a missing value is
// a fatal startup condition reported before any network call is made.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names consumed at startup.
const (
	EnvAPIToken = "PRODUCTIVE_API_TOKEN"
	EnvOrgID    = "PRODUCTIVE_ORG_ID"
	EnvBaseURL  = "PRODUCTIVE_BASE_URL"
)

// DefaultBaseURL is the Productive API v2 endpoint.
const DefaultBaseURL = "https://api.productive.io/api/v2"

// Config holds the process-lifetime settings for the Productive gateway.
type Config struct {
	// APIToken is sent as X-Auth-Token on every request.
	APIToken string

	// OrganizationID is sent as X-Organization-Id on every request.
	OrganizationID string

	// BaseURL is the API root. Overridable for tests; defaults to
	// the public Productive API.
	BaseURL string
}

// FromEnv reads the configuration from environment variables.
// It fails fast with an error naming the missing variable so the
// operator can fix their MCP server config without digging through
// request logs.
func FromEnv() (*Config, error) {
	token := strings.TrimSpace(os.Getenv(EnvAPIToken))
	if token == "" {
		return nil, fmt.Errorf("%s environment variable is required", EnvAPIToken)
	}

	orgID := strings.TrimSpace(os.Getenv(EnvOrgID))
	if orgID == "" {
		return nil, fmt.Errorf("%s environment variable is required", EnvOrgID)
	}

	baseURL := strings.TrimSpace(os.Getenv(EnvBaseURL))
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Config{
		APIToken:       token,
		OrganizationID: orgID,
		BaseURL:        strings.TrimRight(baseURL, "/"),
	}, nil
}
