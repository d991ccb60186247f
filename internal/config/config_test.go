package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_AllSet(t *testing.T) {
	t.Setenv(EnvAPIToken, "tok-123")
	t.Setenv(EnvOrgID, "42")
	t.Setenv(EnvBaseURL, "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "tok-123", cfg.APIToken)
	assert.Equal(t, "42", cfg.OrganizationID)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestFromEnv_MissingToken(t *testing.T) {
	t.Setenv(EnvAPIToken, "")
	t.Setenv(EnvOrgID, "42")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIToken)
}

func TestFromEnv_MissingOrgID(t *testing.T) {
	t.Setenv(EnvAPIToken, "tok-123")
	t.Setenv(EnvOrgID, "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvOrgID)
}

func TestFromEnv_WhitespaceIsMissing(t *testing.T) {
	t.Setenv(EnvAPIToken, "   ")
	t.Setenv(EnvOrgID, "42")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIToken)
}

func TestFromEnv_BaseURLOverride(t *testing.T) {
	t.Setenv(EnvAPIToken, "tok-123")
	t.Setenv(EnvOrgID, "42")
	t.Setenv(EnvBaseURL, "http://localhost:8080/api/v2/")

	cfg, err := FromEnv()
	require.NoError(t, err)

	// Trailing slash is stripped so path joining stays predictable.
	assert.Equal(t, "http://localhost:8080/api/v2", cfg.BaseURL)
}
