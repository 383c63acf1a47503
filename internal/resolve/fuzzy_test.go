package resolve_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/pluggy/pluggy-cli/internal/resolve"
)

func connectors() []resolve.Named {
	return []resolve.Named{
		{ID: 201, Name: "Itaú"},
		{ID: 202, Name: "Banco do Brasil"},
		{ID: 203, Name: "Bradesco"},
		{ID: 2, Name: "Pluggy Bank BR"},
	}
}

func TestFuzzyMatch_ExactHit(t *testing.T) {
	got, err := resolve.FuzzyMatch("Bradesco", connectors())
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 203 {
		t.Fatalf("expected ID 203, got %d", got.ID)
	}
}

func TestFuzzyMatch_ExactHitCaseInsensitive(t *testing.T) {
	got, err := resolve.FuzzyMatch("banco do brasil", connectors())
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 202 {
		t.Fatalf("expected ID 202, got %d", got.ID)
	}
}

func TestFuzzyMatch_PartialHit(t *testing.T) {
	got, err := resolve.FuzzyMatch("brad", connectors())
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 203 {
		t.Fatalf("expected ID 203, got %d", got.ID)
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	_, err := resolve.FuzzyMatch("nubank", connectors())
	if err == nil {
		t.Fatal("expected error for no match")
	}
}

func TestFuzzyMatch_EmptyQuery(t *testing.T) {
	_, err := resolve.FuzzyMatch("   ", connectors())
	if !errors.Is(err, resolve.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestFuzzyMatch_EmptyItems(t *testing.T) {
	_, err := resolve.FuzzyMatch("Itaú", nil)
	if !errors.Is(err, resolve.ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Banco Alpha"},
		{ID: 2, Name: "Banco Omega"},
	}
	_, err := resolve.FuzzyMatch("banco", items)
	var ambig *resolve.AmbiguousError
	if !errors.As(err, &ambig) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
	if len(ambig.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ambig.Candidates))
	}
	msg := ambig.Error()
	if !strings.Contains(msg, "Banco Alpha") || !strings.Contains(msg, "Banco Omega") {
		t.Fatalf("error message should list candidates: %s", msg)
	}
}

func TestFuzzyMatch_ExactBeatsFuzzyTie(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Banco"},
		{ID: 2, Name: "Banco do Brasil"},
	}
	got, err := resolve.FuzzyMatch("banco", items)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 1 {
		t.Fatalf("expected exact name to win, got ID %d", got.ID)
	}
}

func TestFuzzyMatchAll(t *testing.T) {
	matches := resolve.FuzzyMatchAll("ban", connectors())
	if len(matches) < 2 {
		t.Fatalf("expected multiple matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatal("matches should be ordered best first")
		}
	}
}

func TestFuzzyMatchAll_Empty(t *testing.T) {
	if m := resolve.FuzzyMatchAll("", connectors()); m != nil {
		t.Fatalf("expected nil for empty query, got %v", m)
	}
	if m := resolve.FuzzyMatchAll("x", nil); m != nil {
		t.Fatalf("expected nil for empty items, got %v", m)
	}
}
