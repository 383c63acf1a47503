// Package validation checks user-supplied URLs and parameters before they
// reach the network.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync/atomic"
)

var allowPrivate atomic.Bool

// SetAllowPrivate toggles acceptance of localhost and private-range base
// URLs, for self-hosted or tunneled API deployments.
func SetAllowPrivate(v bool) {
	allowPrivate.Store(v)
}

// ValidateBaseURL checks that a base URL is safe to send credentials to:
// http(s) scheme, a real hostname, no embedded userinfo, and not a loopback
// or cloud-metadata address unless private URLs were explicitly allowed.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", parsedURL.Scheme)
	}

	if parsedURL.User != nil {
		return fmt.Errorf("URL must not contain credentials")
	}

	hostname := parsedURL.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must contain a hostname")
	}

	// Metadata endpoints are link-local too; check them first so they are
	// named for what they are and stay blocked under SetAllowPrivate.
	if isCloudMetadata(hostname) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}

	if !allowPrivate.Load() {
		if isLocalhost(hostname) {
			return fmt.Errorf("localhost URLs are not allowed")
		}
		if ip := net.ParseIP(hostname); ip != nil && (ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()) {
			return fmt.Errorf("private IP addresses are not allowed")
		}
	}

	return nil
}

// ValidateWebhookURL checks a webhook target. The API only delivers to
// https endpoints.
func ValidateWebhookURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("webhook URL cannot be empty")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if parsedURL.Scheme != "https" {
		return fmt.Errorf("webhook URL must use https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Hostname() == "" {
		return fmt.Errorf("webhook URL must contain a hostname")
	}
	return nil
}

// isLocalhost checks for localhost variants
func isLocalhost(hostname string) bool {
	lowercase := strings.ToLower(hostname)
	switch lowercase {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0", "::":
		return true
	}
	return strings.HasSuffix(lowercase, ".localhost")
}

// isCloudMetadata checks for well-known cloud metadata endpoints
func isCloudMetadata(hostname string) bool {
	switch strings.ToLower(hostname) {
	case "169.254.169.254", "metadata.google.internal", "metadata.goog":
		return true
	}
	return false
}
