// Package search finds records whose text contains every query term.
package search

import (
	"sort"
	"strings"

	"github.com/coregx/ahocorasick"
	"github.com/orsinium-labs/stopwords"

	"github.com/kittclouds/grudgebook/internal/store"
)

// Span is one term occurrence in the searched text.
type Span struct {
	Start int    `json:"start"` // byte offset
	End   int    `json:"end"`
	Term  string `json:"term"`
}

// Hit is a record that matched every term.
type Hit struct {
	Record store.Record `json:"record"`
	Spans  []Span       `json:"spans"`
}

// Matcher holds the compiled terms of one query.
type Matcher struct {
	terms []string
	ac    *ahocorasick.Automaton
}

var english = stopwords.MustGet("en")

// Terms splits a query into lower-cased unique terms with English stopwords removed.
// When every term is a stopword the raw terms are kept so the query still means something.
func Terms(query string) []string {
	seen := make(map[string]bool)
	var raw, kept []string
	for _, f := range strings.Fields(query) {
		term := strings.ToLower(f)
		if seen[term] {
			continue
		}
		seen[term] = true
		raw = append(raw, term)
		if !english.Contains(term) {
			kept = append(kept, term)
		}
	}
	if len(kept) == 0 {
		return raw
	}
	return kept
}

// NewMatcher compiles query. An empty query yields a matcher that matches nothing.
func NewMatcher(query string) (*Matcher, error) {
	terms := Terms(query)
	if len(terms) == 0 {
		return &Matcher{}, nil
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(terms).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	return &Matcher{terms: terms, ac: automaton}, nil
}

// Terms returns the compiled terms.
func (m *Matcher) Terms() []string {
	return m.terms
}

// Match returns every term occurrence in text, ordered by position.
// Offsets refer to text when lower-casing keeps its length, otherwise to its lower-cased form.
func (m *Matcher) Match(text string) []Span {
	if m.ac == nil || text == "" {
		return nil
	}

	haystack := []byte(strings.ToLower(text))
	matches := m.ac.FindAllOverlapping(haystack)
	spans := make([]Span, 0, len(matches))
	for _, hit := range matches {
		if hit.PatternID < 0 || hit.PatternID >= len(m.terms) {
			continue
		}
		spans = append(spans, Span{Start: hit.Start, End: hit.End, Term: m.terms[hit.PatternID]})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// Filter returns, in store order, the records whose text contains every term.
func (m *Matcher) Filter(records []store.Record) []Hit {
	if m.ac == nil {
		return nil
	}

	var hits []Hit
	for _, r := range records {
		spans := m.Match(r.Text)
		if !coversAll(spans, len(m.terms)) {
			continue
		}
		hits = append(hits, Hit{Record: r, Spans: spans})
	}
	return hits
}

func coversAll(spans []Span, want int) bool {
	found := make(map[string]bool, want)
	for _, s := range spans {
		found[s.Term] = true
	}
	return len(found) == want
}
