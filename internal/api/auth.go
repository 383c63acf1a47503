package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// authRequest is the token-exchange payload. Credentials travel only to the
// /auth endpoint, never anywhere else.
type authRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	NonExpiring  *bool  `json:"nonExpiring,omitempty"`
}

// Authenticate exchanges the client credentials for a short-lived API key.
//
// The key is returned to the caller, who owns its lifetime: the client does
// not cache it, track expiry, or renew it. Detect rejection with IsAuthError
// and call Authenticate again.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if err := c.ensureBaseURLValidated(); err != nil {
		return "", err
	}

	payload := authRequest{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
	}
	if c.NonExpiring {
		payload.NonExpiring = &c.NonExpiring
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	// The token exchange is the one call made without the authenticated
	// header set.
	target := c.resourceURL("/auth", nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	respBody, statusCode, err := c.execute(ctx, req)
	if err != nil {
		return "", err
	}
	if statusCode < 200 || statusCode >= 300 {
		return "", &OperationFailedError{
			Method:     http.MethodPost,
			URL:        target,
			StatusCode: statusCode,
			Body:       sanitizeErrorBody(respBody),
		}
	}

	return extractTokenField(respBody, "apiKey")
}

// CreateConnectToken mints a narrower-scoped token for delegated item
// creation, such as embedding the hosted connect widget.
func (c *Client) CreateConnectToken(ctx context.Context, apiKey string) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, c.resourceURL("/connect_token", nil), apiKey, nil, &raw); err != nil {
		return "", err
	}
	return extractTokenField(raw, "accessToken")
}

// extractTokenField pulls one expected string field out of a token response.
// An absent field is a MissingFieldError, distinct from a malformed body.
func extractTokenField(body []byte, field string) (string, error) {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &DecodeError{Err: err}
	}
	raw, ok := parsed[field]
	if !ok {
		return "", &MissingFieldError{Field: field}
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", &DecodeError{Err: err}
	}
	return token, nil
}
