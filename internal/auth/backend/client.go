// Package backend is the HTTP client for the application backend's session
// import endpoint. It is the only place this core talks to our own backend;
// everything else goes through the identity provider.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"remitauth/internal/auth/models"
	dErrors "remitauth/pkg/domain-errors"
)

const importPath = "/auth/session/import"

// Client posts serialized provider sessions to the backend and returns the
// resulting application session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type importRequest struct {
	SerializedSession string `json:"serializedSession"`
}

type importResponse struct {
	Success      bool               `json:"success"`
	SessionToken string             `json:"sessionToken"`
	User         models.UserProfile `json:"user"`
	ExpiresAt    string             `json:"expiresAt"`
}

// ImportSession exchanges a serialized provider session for a backend
// session token and user profile. The call carries no auth header; the
// serialized session is the credential.
func (c *Client) ImportSession(ctx context.Context, serializedSession string) (*models.BackendSession, error) {
	body, err := json.Marshal(importRequest{SerializedSession: serializedSession})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode session import request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+importPath, bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build session import request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTransport, "session import request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the transport can reuse the connection.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, importError(resp.StatusCode, resp.Status)
	}

	var decoded importResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTransport, "failed to decode session import response")
	}
	if decoded.SessionToken == "" || decoded.User.ID == "" {
		return nil, dErrors.New(dErrors.CodeTransport, "session import response missing token or user")
	}

	expiresAt, err := time.Parse(time.RFC3339, decoded.ExpiresAt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTransport, "session import response has invalid expiresAt")
	}

	return &models.BackendSession{
		Token:     decoded.SessionToken,
		User:      decoded.User,
		ExpiresAt: expiresAt,
	}, nil
}

// importError builds the non-2xx failure. A 401 is called out separately:
// it usually means the provider session itself is stale or invalid, not
// that the backend is down.
func importError(statusCode int, status string) error {
	if statusCode == http.StatusUnauthorized {
		return dErrors.New(dErrors.CodeUnauthorized,
			fmt.Sprintf("session import rejected (%s): provider session may be stale or invalid", status)).
			WithMeta("status_code", statusCode)
	}
	return dErrors.New(dErrors.CodeTransport,
		fmt.Sprintf("session import failed with status %s", status)).
		WithMeta("status_code", statusCode)
}
