package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/pluggy/pluggy-cli/internal/debug"
	"github.com/pluggy/pluggy-cli/internal/validation"
)

const (
	// DefaultBaseURL is the production Pluggy API endpoint.
	DefaultBaseURL = "https://api.pluggy.ai"

	DefaultTimeout = 30 * time.Second
)

// Client is the Pluggy API client.
//
// A Client holds the long-lived client credentials and the base URL; it keeps
// no per-call state, so a single instance is safe for concurrent use. The
// short-lived API key obtained from Auth is owned by the caller and passed
// explicitly to every authenticated operation — the client never tracks token
// expiry or re-authenticates on its own.
type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	NonExpiring  bool
	HTTP         *http.Client
	UserAgent    string

	skipURLValidation bool // internal flag for testing only
	validatedBaseURL  bool
	validateMu        sync.Mutex
}

// Compile-time interface implementation check
var _ Requester = (*Client)(nil)

var validateBaseURL = validation.ValidateBaseURL

// New creates a new Pluggy API client for the production endpoint.
func New(clientID, clientSecret string) *Client {
	return NewWithBaseURL(DefaultBaseURL, clientID, clientSecret)
}

// NewWithBaseURL creates a client against a non-default endpoint.
func NewWithBaseURL(baseURL, clientID, clientSecret string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	// Allow localhost URLs when PLUGGY_TESTING=1 is set (for integration tests)
	skipValidation := os.Getenv("PLUGGY_TESTING") == "1"

	return &Client{
		BaseURL:           baseURL,
		ClientID:          clientID,
		ClientSecret:      clientSecret,
		skipURLValidation: skipValidation,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// newTestClient creates a client with URL validation disabled for testing
func newTestClient(baseURL string) *Client {
	c := NewWithBaseURL(baseURL, "test-client-id", "test-client-secret")
	c.skipURLValidation = true
	return c
}

func (c *Client) ensureBaseURLValidated() error {
	if c.skipURLValidation {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBaseURL {
		return nil
	}

	if err := validateBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}

	c.validatedBaseURL = true
	return nil
}

// resourceURL joins the base URL with a resource path and optional query
// parameters.
func (c *Client) resourceURL(path string, query url.Values) string {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// newAuthenticatedRequest builds a request with the fixed header set the API
// requires on every authenticated call. The apiKey is attached verbatim, even
// when empty; the body, if any, is attached by the caller afterward through
// the reader argument. No I/O happens here.
func newAuthenticatedRequest(ctx context.Context, method, url, apiKey string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", apiKey)
	return req, nil
}

// do performs one authenticated request/response round trip: marshal body,
// build the request, execute, check the status code, decode into result.
// Errors are returned as one of the typed kinds in errors.go; nothing is
// retried or logged above debug level.
func (c *Client) do(ctx context.Context, method, url, apiKey string, body any, result any) error {
	if err := c.ensureBaseURLValidated(); err != nil {
		return err
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := newAuthenticatedRequest(ctx, method, url, apiKey, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	respBody, statusCode, err := c.execute(ctx, req)
	if err != nil {
		return err
	}

	// Error bodies (`{"message":...,"code":...}`) decode cleanly into
	// zero-value resources, so the status code is the only reliable
	// failure signal on any verb.
	if statusCode < 200 || statusCode >= 300 {
		return &OperationFailedError{
			Method:     method,
			URL:        url,
			StatusCode: statusCode,
			Body:       sanitizeErrorBody(respBody),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &DecodeError{Err: err}
		}
	}
	return nil
}

// execute runs a prepared request and reads the full response body.
func (c *Client) execute(ctx context.Context, req *http.Request) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		}
		return nil, 0, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "duration", time.Since(start))
	}
	return respBody, resp.StatusCode, nil
}

// sanitizeErrorBody extracts a safe error message from an API response
// without exposing potentially sensitive data like tokens or parameters.
func sanitizeErrorBody(body []byte) string {
	var errResp struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return "API request failed (response body redacted for security)"
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	return "API request failed (response body redacted for security)"
}
