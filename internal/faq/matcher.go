package faq

import (
	"context"
	"regexp"
	"strings"

	"github.com/deskmate-labs/deskmate/internal/embedding"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Normalize lowercases text, strips everything that is not a word character
// or whitespace, and trims the result.
func Normalize(s string) string {
	return strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(s), ""))
}

// Matcher answers queries against the loaded FAQ entries: an exact pass on
// normalized text, a semantic pass over precomputed question embeddings, and
// a follow-up pass that borrows context from the previous bot answer.
type Matcher struct {
	entries   []Entry
	embedder  embedding.Embedder
	threshold float64
}

// NewMatcher creates a matcher over the given entries. threshold applies to
// both the semantic and follow-up passes.
func NewMatcher(entries []Entry, embedder embedding.Embedder, threshold float64) *Matcher {
	return &Matcher{entries: entries, embedder: embedder, threshold: threshold}
}

// MatchExact compares the normalized query against every normalized FAQ
// question. First equality wins.
func (m *Matcher) MatchExact(query string) (*Entry, bool) {
	normalized := Normalize(query)
	for i := range m.entries {
		if Normalize(m.entries[i].Question) == normalized {
			return &m.entries[i], true
		}
	}
	return nil, false
}

// MatchSemantic embeds the normalized query and arg-maxes cosine similarity
// over the FAQ question embeddings. Returns no match below the threshold.
func (m *Matcher) MatchSemantic(ctx context.Context, query string) (*Entry, float64, error) {
	if len(m.entries) == 0 {
		return nil, 0, nil
	}

	vec, err := m.embedder.Embed(ctx, Normalize(query))
	if err != nil {
		return nil, 0, err
	}

	candidates := make([][]float32, len(m.entries))
	for i := range m.entries {
		candidates[i] = m.entries[i].Embedding
	}

	idx, score := embedding.BestMatch(vec, candidates)
	if idx < 0 || score < m.threshold {
		return nil, score, nil
	}
	return &m.entries[idx], score, nil
}

// MatchFollowUp re-runs the semantic pass on the previous bot answer
// concatenated with the new query, so short follow-ups ("and the price?")
// inherit context from the last answer.
func (m *Matcher) MatchFollowUp(ctx context.Context, lastBotAnswer, query string) (*Entry, float64, error) {
	if lastBotAnswer == "" {
		return nil, 0, nil
	}
	return m.MatchSemantic(ctx, lastBotAnswer+" "+query)
}
