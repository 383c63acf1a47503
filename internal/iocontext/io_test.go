package iocontext_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/pluggy/pluggy-cli/internal/iocontext"
)

func TestGetIO_Default(t *testing.T) {
	streams := iocontext.GetIO(context.Background())
	if streams.Out != os.Stdout || streams.ErrOut != os.Stderr || streams.In != os.Stdin {
		t.Fatal("expected process streams when context carries none")
	}
}

func TestWithIO_RoundTrip(t *testing.T) {
	var out, errOut bytes.Buffer
	want := &iocontext.IO{Out: &out, ErrOut: &errOut, In: bytes.NewReader(nil)}

	ctx := iocontext.WithIO(context.Background(), want)
	got := iocontext.GetIO(ctx)
	if got != want {
		t.Fatal("expected the streams set on the context")
	}
}

func TestGetIO_NilStreams(t *testing.T) {
	ctx := iocontext.WithIO(context.Background(), nil)
	streams := iocontext.GetIO(ctx)
	if streams == nil || streams.Out != os.Stdout {
		t.Fatal("expected defaults when nil streams are stored")
	}
}
