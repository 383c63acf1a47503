package outfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"json", JSON, false},
		{"jsonl", JSONL, false},
		{"ndjson", JSONL, false},
		{"yaml", Text, true},
	}
	for _, tc := range cases {
		mode, err := Parse(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tc.input, err)
		}
		if mode != tc.expected {
			t.Errorf("Parse(%q) = %v, want %v", tc.input, mode, tc.expected)
		}
	}
}

func TestModeContext(t *testing.T) {
	ctx := context.Background()
	if IsJSON(ctx) {
		t.Error("Expected default mode not to be JSON")
	}

	ctx = WithMode(ctx, JSON)
	if !IsJSON(ctx) {
		t.Error("Expected JSON mode")
	}
	if IsJSONL(ctx) {
		t.Error("Expected not JSONL")
	}

	ctx = WithMode(ctx, JSONL)
	if !IsJSON(ctx) || !IsJSONL(ctx) {
		t.Error("Expected JSONL to also count as JSON")
	}
}

func TestQueryContext(t *testing.T) {
	ctx := context.Background()
	if GetQuery(ctx) != "" {
		t.Error("Expected empty default query")
	}
	ctx = WithQuery(ctx, ".name")
	if GetQuery(ctx) != ".name" {
		t.Errorf("Expected .name, got %q", GetQuery(ctx))
	}
}

func TestWriteJSONFiltered(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSONFiltered(&buf, map[string]any{"id": 201, "name": "Itaú"}, ".name", false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `"Itaú"` {
		t.Errorf("Expected filtered output, got %q", buf.String())
	}
}

func TestWriteJSONCompact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONMaybeCompact(&buf, map[string]any{"a": 1}, true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "\n  ") {
		t.Errorf("Expected compact output, got %q", buf.String())
	}
}

func TestModeString(t *testing.T) {
	if Text.String() != "text" || JSON.String() != "json" || JSONL.String() != "jsonl" {
		t.Error("Unexpected mode string representation")
	}
}
