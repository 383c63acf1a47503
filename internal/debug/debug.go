// Package debug provides context-based debug mode with structured logging.
//
// The API client logs request/response details at debug level only when the
// flag is set on the context, so library callers pay nothing by default.
package debug

import (
	"context"
	"log/slog"
	"os"
)

type contextKey struct{}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// SetupLogger configures the default slog logger based on debug mode.
func SetupLogger(debugEnabled bool) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
