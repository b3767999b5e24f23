package faq

import (
	"context"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors for known text and a deterministic
// hash-derived unit vector otherwise.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	vec := make([]float32, 4)
	vec[int(h.Sum32()%4)] = 1
	return vec, nil
}

func (s *stubEmbedder) Dimensions() int { return 4 }

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What are your shipping times?", "what are your shipping times"},
		{"  Hello, World!  ", "hello world"},
		{"3-5 business days.", "35 business days"},
		{"already clean", "already clean"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}

func TestMatchExact_IgnoresPunctuationAndCase(t *testing.T) {
	entries := []Entry{
		{Question: "What are your shipping times?", Answer: "3-5 business days."},
		{Question: "Do you ship internationally?", Answer: "Yes, to most countries."},
	}
	m := NewMatcher(entries, &stubEmbedder{}, 0.60)

	entry, ok := m.MatchExact("what are your shipping times")
	require.True(t, ok)
	assert.Equal(t, "3-5 business days.", entry.Answer)

	entry, ok = m.MatchExact("DO YOU SHIP INTERNATIONALLY")
	require.True(t, ok)
	assert.Equal(t, "Yes, to most countries.", entry.Answer)

	_, ok = m.MatchExact("how do returns work")
	assert.False(t, ok)
}

func TestMatchSemantic_ThresholdAndArgMax(t *testing.T) {
	entries := []Entry{
		{Question: "Shipping times", Answer: "3-5 business days.", Embedding: []float32{1, 0, 0, 0}},
		{Question: "Return policy", Answer: "30 days.", Embedding: []float32{0, 1, 0, 0}},
	}
	emb := &stubEmbedder{vectors: map[string][]float32{
		"how long is delivery": {0.9, 0.1, 0, 0},
		"unrelated question":   {0.5, 0.5, 0.5, 0.5},
	}}
	m := NewMatcher(entries, emb, 0.60)
	ctx := context.Background()

	entry, score, err := m.MatchSemantic(ctx, "How long is delivery?")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "3-5 business days.", entry.Answer)
	assert.GreaterOrEqual(t, score, 0.60)

	entry, _, err = m.MatchSemantic(ctx, "unrelated question")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestMatchSemantic_EmptyEntries(t *testing.T) {
	m := NewMatcher(nil, &stubEmbedder{}, 0.60)
	entry, score, err := m.MatchSemantic(context.Background(), "anything")
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, 0.0, score)
}

func TestMatchFollowUp_InheritsContext(t *testing.T) {
	entries := []Entry{
		{Question: "International returns", Answer: "Contact support for a label.", Embedding: []float32{0, 0, 1, 0}},
	}
	emb := &stubEmbedder{vectors: map[string][]float32{
		// The follow-up alone is nowhere near the entry; the concatenation is.
		"and internationally": {0.1, 0.1, 0.1, 0.1},
		"we accept returns within 30 days and internationally": {0, 0, 0.95, 0},
	}}
	m := NewMatcher(entries, emb, 0.60)
	ctx := context.Background()

	entry, _, err := m.MatchSemantic(ctx, "and internationally?")
	require.NoError(t, err)
	assert.Nil(t, entry)

	entry, score, err := m.MatchFollowUp(ctx, "We accept returns within 30 days.", "and internationally?")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Contact support for a label.", entry.Answer)
	assert.GreaterOrEqual(t, score, 0.60)
}

func TestMatchFollowUp_NoPreviousAnswer(t *testing.T) {
	m := NewMatcher([]Entry{{Question: "q", Answer: "a"}}, &stubEmbedder{}, 0.60)
	entry, _, err := m.MatchFollowUp(context.Background(), "", "and internationally?")
	require.NoError(t, err)
	assert.Nil(t, entry)
}
