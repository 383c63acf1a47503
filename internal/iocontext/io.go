// Package iocontext carries command IO streams through context so that
// code deep in the call chain writes to the streams the CLI was started
// with instead of the process globals. Tests swap in buffers the same way.
package iocontext

import (
	"context"
	"io"
	"os"
)

// IO bundles the three standard streams.
type IO struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
}

type ioKey struct{}

// DefaultIO returns the process streams.
func DefaultIO() *IO {
	return &IO{Out: os.Stdout, ErrOut: os.Stderr, In: os.Stdin}
}

// WithIO returns a context carrying the given streams.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO returns the streams carried by ctx, or the process defaults.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}
