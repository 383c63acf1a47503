package api

import (
	"context"
	"net/url"
)

// PathResolver builds full endpoint URLs from resource paths.
type PathResolver interface {
	// resourceURL joins the base URL with a resource path and optional
	// query parameters.
	// Example: resourceURL("/connectors", {"sandbox": ["true"]})
	//   -> "https://api.pluggy.ai/connectors?sandbox=true"
	resourceURL(path string, query url.Values) string
}

// HTTPExecutor performs one authenticated request/response round trip with
// JSON serialization on both sides.
type HTTPExecutor interface {
	// do executes an HTTP request. The body is marshaled to JSON if
	// non-nil, the apiKey is attached via the fixed header set, and the
	// response is unmarshaled into result if non-nil.
	do(ctx context.Context, method, url, apiKey string, body any, result any) error
}

// Requester combines PathResolver and HTTPExecutor to provide the complete
// request surface used by resource helpers. Keeping the helpers on this
// interface lets tests exercise path construction and execution separately.
type Requester interface {
	PathResolver
	HTTPExecutor
}
