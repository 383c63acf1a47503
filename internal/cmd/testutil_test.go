package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr executes a function and captures its stderr output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupTestEnvWithHandler creates a mock server and points the CLI at it via
// environment credentials, so commands never touch the OS keyring. It also
// sets PLUGGY_TESTING to skip URL validation for the localhost server and
// disables the name-resolution cache so tests don't leak state into each
// other. All values are restored on cleanup.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)

	t.Setenv("PLUGGY_BASE_URL", server.URL)
	t.Setenv("PLUGGY_CLIENT_ID", "test-client-id")
	t.Setenv("PLUGGY_CLIENT_SECRET", "test-client-secret")
	t.Setenv("PLUGGY_TESTING", "1")
	t.Setenv("PLUGGY_OUTPUT", "text")
	t.Setenv("PLUGGY_NO_CACHE", "1")

	t.Cleanup(server.Close)

	return server
}

// jsonResponse creates an http.HandlerFunc that returns a JSON response with
// the given status and body.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler routes requests based on exact "METHOD PATH" combination.
// Unmatched requests get 404.
type routeHandler struct {
	routes map[string]http.HandlerFunc
}

func newRouteHandler() *routeHandler {
	h := &routeHandler{routes: make(map[string]http.HandlerFunc)}
	// Nearly every command authenticates first; register a default.
	return h.On("POST", "/auth", jsonResponse(200, `{"apiKey": "test-api-key"}`))
}

// On registers a handler for the given HTTP method and path. Returns the
// routeHandler to allow chaining.
func (h *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	h.routes[method+" "+path] = handler
	return h
}

func (h *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if handler, ok := h.routes[r.Method+" "+r.URL.Path]; ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}
