package cmd

import (
	"context"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version"}); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if !strings.Contains(output, "pluggy-cli version dev") {
		t.Errorf("unexpected version output: %q", output)
	}
}

func TestVersionAlias(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"v"}); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if !strings.Contains(output, "pluggy-cli version") {
		t.Errorf("unexpected version output: %q", output)
	}
}
