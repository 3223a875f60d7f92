// Package para implements the provider ports against the hosted identity
// provider's REST API. No official Go SDK exists for the provider, so this
// is a thin bridge: decode loose wire payloads into the typed stage model
// at this boundary and keep everything above it structural.
package para

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"remitauth/internal/auth/provider"
)

// Client carries the shared HTTP plumbing for the identity and wallet
// implementations.
type Client struct {
	baseURL string
	apiKey  string

	// httpClient serves ordinary calls with a bounded timeout. waitClient
	// serves the long-poll milestone waits, which may legitimately hang for
	// minutes while the user works through a browser flow; only the caller's
	// context bounds those.
	httpClient *http.Client
	waitClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient overrides both transports, mainly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
		c.waitClient = httpClient
	}
}

func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		waitClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type wireError struct {
	Error struct {
		Message   string `json:"message"`
		Code      string `json:"code"`
		Cancelled bool   `json:"cancelled"`
	} `json:"error"`
}

// do issues a JSON request and decodes the response into out (when out is
// non-nil). Non-2xx responses become provider.Error values carrying the
// wire message, status, and error code.
func (c *Client) do(ctx context.Context, httpClient *http.Client, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return &provider.Error{Message: fmt.Sprintf("provider request to %s failed: %v", path, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &provider.Error{
			Message:    fmt.Sprintf("failed to decode provider response from %s: %v", path, err),
			StatusCode: resp.StatusCode,
		}
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	provErr := &provider.Error{
		Message:    resp.Status,
		StatusCode: resp.StatusCode,
	}
	var decoded wireError
	if err := json.NewDecoder(io.LimitReader(resp.Body, 16384)).Decode(&decoded); err == nil && decoded.Error.Message != "" {
		provErr.Message = decoded.Error.Message
		provErr.ErrorCode = decoded.Error.Code
		provErr.Cancelled = decoded.Error.Cancelled
	}
	return provErr
}
