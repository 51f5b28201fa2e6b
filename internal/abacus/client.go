// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package abacus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the Abacus.AI API.
const (
	// DefaultBaseURL is the base URL for the Abacus.AI v0 API.
	DefaultBaseURL = "https://api.abacus.ai/api/v0"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for transient errors.
	DefaultMaxRetries = 3

	// DefaultRequestsPerSecond caps outbound request rate so bulk exports
	// stay under the platform's rate limits.
	DefaultRequestsPerSecond = 4

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// Response size limit prevents memory exhaustion on runaway exports.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Error variables for common Abacus.AI API errors.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("Abacus.AI API key not configured")

	// ErrAuthFailed indicates authentication failed (invalid or expired API key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrServerError indicates a platform-side failure.
	ErrServerError = errors.New("server error")
)

// APIError represents an error response from the Abacus.AI API.
type APIError struct {
	Type    string // Platform error type (e.g., "DataNotFoundError")
	Message string // Human-readable message from the platform
	Status  int    // HTTP status code
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("Abacus.AI error [%s] (HTTP %d): %s", e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("Abacus.AI error (HTTP %d): %s", e.Status, e.Message)
}

// Is maps API errors onto the package sentinel errors so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrServerError:
		return e.Status >= 500
	}
	return false
}

// apiEnvelope is the standard response wrapper used by every v0 endpoint.
type apiEnvelope struct {
	Success   bool            `json:"success"`
	Result    json.RawMessage `json:"result"`
	Error     string          `json:"error"`
	ErrorType string          `json:"errorType"`
}

// Client is a client for communicating with the Abacus.AI API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a new Abacus.AI client with the given API key.
//
// If the API key is empty the client is still created, but every operation
// fails fast with ErrNotConfigured before any network activity.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		maxRetries: DefaultMaxRetries,
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient.Timeout = timeout
	return c
}

// WithMaxRetries sets the maximum number of retry attempts.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	c.maxRetries = maxRetries
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithRateLimit sets the outbound requests-per-second cap.
func (c *Client) WithRateLimit(rps float64) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	return c
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// get performs a GET against the named API method, retrying transient
// failures, and unmarshals the envelope result into out (when non-nil).
func (c *Client) get(ctx context.Context, method string, params url.Values, out interface{}) error {
	body, err := c.call(ctx, http.MethodGet, method, params, nil, "")
	if err != nil {
		return err
	}
	return c.unwrap(method, body, out)
}

// post performs a POST with a JSON body against the named API method.
func (c *Client) post(ctx context.Context, method string, payload interface{}, out interface{}) error {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return fmt.Errorf("failed to encode %s request: %w", method, err)
		}
	}
	body, err := c.call(ctx, http.MethodPost, method, nil, buf.Bytes(), "application/json")
	if err != nil {
		return err
	}
	return c.unwrap(method, body, out)
}

// postMultipart performs a multipart/form-data POST, used for blob uploads.
func (c *Client) postMultipart(ctx context.Context, method string, fields map[string]string, fileField, fileName string, blob []byte, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to build %s form: %w", method, err)
		}
	}
	fw, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("failed to build %s form: %w", method, err)
	}
	if _, err := fw.Write(blob); err != nil {
		return fmt.Errorf("failed to build %s form: %w", method, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build %s form: %w", method, err)
	}

	body, err := c.call(ctx, http.MethodPost, method, nil, buf.Bytes(), w.FormDataContentType())
	if err != nil {
		return err
	}
	return c.unwrap(method, body, out)
}

// raw performs a GET and returns the response body bytes without envelope
// decoding. Used for export endpoints that return file content directly.
func (c *Client) raw(ctx context.Context, method string, params url.Values) ([]byte, error) {
	return c.call(ctx, http.MethodGet, method, params, nil, "")
}

// call issues one API request with retry and backoff and returns the body.
func (c *Client) call(ctx context.Context, httpMethod, apiMethod string, params url.Values, payload []byte, contentType string) ([]byte, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	endpoint := c.baseURL + "/" + apiMethod
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, httpMethod, endpoint, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s request: %w", apiMethod, err)
		}
		req.Header.Set("apiKey", c.apiKey)
		req.Header.Set("Accept", "application/json")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network-level failure: retryable unless the context is done.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%s request failed: %w", apiMethod, err)
			continue
		}

		body, readErr := readResponse(resp)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read %s response: %w", apiMethod, readErr)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		apiErr := errorFromResponse(resp.StatusCode, body)
		if !isRetryable(resp.StatusCode) {
			return nil, apiErr
		}
		lastErr = apiErr
	}

	return nil, fmt.Errorf("%s failed after %d attempts: %w", apiMethod, c.maxRetries+1, lastErr)
}

// unwrap decodes the standard {success, result, error} envelope.
func (c *Client) unwrap(method string, body []byte, out interface{}) error {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !env.Success {
		return &APIError{
			Type:    env.ErrorType,
			Message: env.Error,
			Status:  http.StatusOK,
		}
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// readResponse reads a response body with the size limit applied.
func readResponse(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
}

// errorFromResponse maps a non-200 response to an APIError.
func errorFromResponse(status int, body []byte) error {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		return &APIError{Type: env.ErrorType, Message: env.Error, Status: status}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Message: msg, Status: status}
}

// isRetryable reports whether a status code is worth retrying.
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// calculateBackoff returns the delay before the given retry attempt.
// Exponential: 500ms, 1s, 2s, ... capped at retryMaxDelay.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
