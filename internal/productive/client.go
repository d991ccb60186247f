// Package productive is the single choke-point for every call to the
// Productive API. It owns the process-wide rate limiter, attaches the
// authentication headers, parses JSON:API envelopes, and classifies
// every failure into an actionable message.
//
// Tool handlers consume only the Request contract (plus the Get/Post/
// Patch/Delete wrappers); nothing else in the repository talks HTTP to
// Productive directly.
package productive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TheSiteDoctor/ProductiveMCP/internal/config"
	"go.uber.org/zap"
)

const contentTypeJSONAPI = "application/vnd.api+json"

// Client is the API gateway. One instance lives for the whole process
// and owns the one RateLimiter: a single shared quota across all tool
// invocations, not partitioned by endpoint.
type Client struct {
	baseURL string
	token   string
	orgID   string

	httpClient *http.Client
	limiter    *RateLimiter
	log        *zap.Logger
}

// NewClient builds the gateway from the startup configuration. The
// logger may be nil, in which case diagnostics are dropped.
func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.APIToken,
		orgID:      cfg.OrganizationID,
		httpClient: &http.Client{},
		limiter:    NewRateLimiter(log),
		log:        log,
	}
}

// RateLimitStatus exposes the limiter's read-only snapshot.
func (c *Client) RateLimitStatus() RateLimitStatus {
	return c.limiter.Status()
}

// Request performs one call against the Productive API.
//
// The call lifecycle is: acquire a rate-limit slot (the only suspension
// point; admission and the quota charge are one atomic step inside the
// limiter), dispatch with auth and JSON:API headers, then either decode
// the envelope or classify the failure. Every admitted call holds its
// slot whether or not the dispatch succeeds. The gateway never retries;
// the rate-limit wait delays the first attempt, it does not re-issue a
// failed one.
func (c *Client) Request(ctx context.Context, method, path string, body any, query url.Values) (*Envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := c.buildRequest(ctx, method, path, body, query)
	if err != nil {
		c.logFailure(method, path, 0, err)
		return nil, newSetupError(err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logFailure(method, path, 0, err)
		return nil, newTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logFailure(method, path, resp.StatusCode, err)
		return nil, newReadError(resp.StatusCode, err)
	}

	c.logRequest(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logFailure(method, path, resp.StatusCode, fmt.Errorf("response body: %s", respBody))
		return nil, classifyStatus(resp.StatusCode, respBody)
	}

	// DELETE and some PATCH endpoints respond with no content.
	if len(bytes.TrimSpace(respBody)) == 0 {
		return &Envelope{}, nil
	}

	var envelope Envelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		c.logFailure(method, path, resp.StatusCode, err)
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Failed to parse Productive API response: %v", err),
			Err:     err,
		}
	}

	return &envelope, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.Request(ctx, http.MethodGet, path, nil, query)
}

// Post performs a POST request with a JSON:API body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Request(ctx, http.MethodPost, path, body, nil)
}

// Patch performs a PATCH request with a JSON:API body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Request(ctx, http.MethodPatch, path, body, nil)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// buildRequest assembles the http.Request with the fixed header set.
func (c *Client) buildRequest(ctx context.Context, method, path string, body any, query url.Values) (*http.Request, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Auth-Token", c.token)
	req.Header.Set("X-Organization-Id", c.orgID)
	req.Header.Set("Content-Type", contentTypeJSONAPI)
	req.Header.Set("Accept", contentTypeJSONAPI)

	return req, nil
}

// logRequest records a completed round trip. Logging is best-effort: a
// panic inside the logging stack (e.g. a closed stderr pipe) must never
// take down the call that triggered it.
func (c *Client) logRequest(method, path string, status int, elapsed time.Duration) {
	defer func() { _ = recover() }()
	c.log.Debug("productive api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)
}

// logFailure records a failed call with full diagnostic detail before
// classification. Same best-effort rule as logRequest.
func (c *Client) logFailure(method, path string, status int, err error) {
	defer func() { _ = recover() }()
	c.log.Error("productive api request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Error(err),
	)
}
