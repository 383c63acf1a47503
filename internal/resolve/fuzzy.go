// Package resolve turns human-friendly connector names into connector IDs.
//
// Lookup is exact-match first (case-insensitive), then fuzzy. An ambiguous
// fuzzy result is an error that lists the candidates so the caller can pick.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

var (
	ErrEmptyQuery = errors.New("empty query")
	ErrEmptyItems = errors.New("no items to match against")
)

// Named is anything with an ID and a display name.
type Named struct {
	ID   int
	Name string
}

// Match is a single fuzzy match result.
type Match struct {
	Named
	Score int
}

// AmbiguousError is returned when multiple candidates score equally well.
type AmbiguousError struct {
	Query      string
	Candidates []Match
}

func (e *AmbiguousError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, fmt.Sprintf("%q (id %d)", c.Name, c.ID))
	}
	return fmt.Sprintf("ambiguous match for %q: %s", e.Query, strings.Join(names, ", "))
}

// namedSource adapts []Named to fuzzy.Source, matching case-insensitively.
type namedSource []Named

func (s namedSource) String(i int) string { return strings.ToLower(s[i].Name) }
func (s namedSource) Len() int            { return len(s) }

// FuzzyMatch finds the single best match for query among items.
//
// An exact name match (case-insensitive) wins outright even when other
// names would fuzzy-match. Otherwise the top fuzzy score wins; a tie at
// the top returns an AmbiguousError.
func FuzzyMatch(query string, items []Named) (Named, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Named{}, ErrEmptyQuery
	}
	if len(items) == 0 {
		return Named{}, ErrEmptyItems
	}

	for _, it := range items {
		if strings.EqualFold(it.Name, query) {
			return it, nil
		}
	}

	matches := buildMatches(query, items)
	if len(matches) == 0 {
		return Named{}, fmt.Errorf("no match for %q", query)
	}
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		tied := []Match{matches[0]}
		for _, m := range matches[1:] {
			if m.Score != matches[0].Score {
				break
			}
			tied = append(tied, m)
		}
		return Named{}, &AmbiguousError{Query: query, Candidates: tied}
	}
	return matches[0].Named, nil
}

// FuzzyMatchAll returns all fuzzy matches, best first. Useful for
// suggestion lists when FuzzyMatch fails.
func FuzzyMatchAll(query string, items []Named) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return nil
	}
	return buildMatches(query, items)
}

func buildMatches(query string, items []Named) []Match {
	results := fuzzy.FindFrom(strings.ToLower(query), namedSource(items))
	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{Named: items[r.Index], Score: r.Score})
	}
	return matches
}
