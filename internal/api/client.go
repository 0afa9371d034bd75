// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the DocVault backend.
//
// The backend exposes two endpoint groups: /api/users/ for accounts and
// sessions, and /api/genai/ for document upload, retrieval processing,
// and chat queries. This package implements a single client for both.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the DocVault API.
const (
	// DefaultBaseURL is the base URL used when no server is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for
	// transient errors.
	DefaultMaxRetries = 2

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client with connection pooling for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend errors.
var (
	// ErrNotConfigured indicates no server base URL is set.
	ErrNotConfigured = errors.New("server URL not configured")

	// ErrAuthRequired indicates the operation needs a logged-in session
	// and none is present.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthFailed indicates the backend rejected the credentials or
	// the access token (HTTP 401).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrForbidden indicates the session lacks permission (HTTP 403).
	ErrForbidden = errors.New("permission denied")

	// ErrNotFound indicates the resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrServerError indicates a backend failure (HTTP 5xx).
	ErrServerError = errors.New("server error")
)

// APIError represents an error response from the DocVault backend.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("DocVault error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("DocVault error (HTTP %d): %s", e.Status, e.Message)
}

// apiErrorResponse covers the error body shapes the backend produces.
// DRF returns either {"detail": "..."} or {"error": "..."}.
type apiErrorResponse struct {
	Detail string `json:"detail"`
	ErrMsg string `json:"error"`
	Code   string `json:"code"`
}

func (r *apiErrorResponse) message() string {
	if r.Detail != "" {
		return r.Detail
	}
	return r.ErrMsg
}

// TokenSource supplies the current access token for request
// authorization. An empty string means no session.
type TokenSource interface {
	AccessToken() string
}

// Client is a client for the DocVault backend API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	maxRetries int
	userAgent  string
}

// NewClient creates a client for the given base URL. The token source
// may be nil for a client that only performs anonymous requests.
func NewClient(baseURL string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		maxRetries: DefaultMaxRetries,
		userAgent:  "docvault/0.3.0",
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	c.maxRetries = maxRetries
	return c
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticated reports whether the client holds an access token.
func (c *Client) Authenticated() bool {
	return c.tokens != nil && c.tokens.AccessToken() != ""
}

// setHeaders sets the standard headers for backend requests.
// Authorization is attached only when a token is available.
func (c *Client) setHeaders(req *http.Request, contentType string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
}

// =============================================================================
// REQUEST EXECUTION WITH RETRY
// =============================================================================

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into out (when out is non-nil). Transient failures are
// retried with exponential backoff.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, out any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(attempt - 1)):
			}
		}

		err := c.doOnce(ctx, method, path, bodyBytes, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doOnce performs a single request attempt.
// SECURITY: Clears Authorization header after the request to prevent
// it leaking through logging of the request object.
func (c *Client) doOnce(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, "application/json")

	resp, err := sharedHTTPClient.Do(req)
	req.Header.Del("Authorization")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// readResponse reads the response body with size limits.
//
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.message() != "" {
		e := &APIError{
			Code:    apiErr.Code,
			Message: apiErr.message(),
			Status:  statusCode,
		}
		switch {
		case statusCode == http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrAuthFailed, e.Message)
		case statusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrForbidden, e.Message)
		case statusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, e.Message)
		case statusCode >= 500:
			return fmt.Errorf("%w: %s", ErrServerError, e.Message)
		default:
			return e
		}
	}

	// Fallback for unparseable error responses
	switch {
	case statusCode == http.StatusUnauthorized:
		return ErrAuthFailed
	case statusCode == http.StatusForbidden:
		return ErrForbidden
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	case statusCode >= 500:
		return fmt.Errorf("%w: HTTP %d", ErrServerError, statusCode)
	default:
		return &APIError{
			Message: strings.TrimSpace(string(body)),
			Status:  statusCode,
		}
	}
}

// isRetryable determines if an error should trigger a retry.
// Only backend failures are retried; auth and client errors are final,
// and context cancellation is never retried.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrServerError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}
	return false
}

// calculateBackoff returns the delay before the next retry.
func calculateBackoff(attempt int) time.Duration {
	// Exponential backoff: 500ms, 1000ms, 2000ms, etc.
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
