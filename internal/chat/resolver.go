package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/deskmate-labs/deskmate/internal/conversation"
	"github.com/deskmate-labs/deskmate/internal/faq"
	"github.com/deskmate-labs/deskmate/internal/intent"
	"github.com/deskmate-labs/deskmate/internal/llm"
	"github.com/deskmate-labs/deskmate/internal/metrics"
)

const (
	// OutOfScopeReply is the terminal refusal when no tier can answer.
	// Deliberately never cache-written: a non-answer must not become a hit.
	OutOfScopeReply = "I'm sorry, this question is outside my area of support. " +
		"I can help with products, orders, shipping, returns, and promotions."

	// ApologyReply replaces any generative-call failure.
	ApologyReply = "Something went wrong. Please try again later."
)

// Resolver walks the tier cascade for a single query, cheapest tier first,
// short-circuiting on the first hit. FAQ-tier hits are written back into the
// persistent cache; cache-tier, thank-you, generated, and out-of-scope
// answers never are.
type Resolver struct {
	conv      *conversation.Manager
	matcher   *faq.Matcher
	generator llm.Generator // nil disables the generative tier
}

// NewResolver creates a resolver. Pass a nil generator to fall straight from
// the follow-up tier to the out-of-scope refusal.
func NewResolver(conv *conversation.Manager, matcher *faq.Matcher, generator llm.Generator) *Resolver {
	return &Resolver{conv: conv, matcher: matcher, generator: generator}
}

// Resolve answers one query. lastLines is the recent session history as
// "You:"/"Bot:" prefixed lines, oldest first. Returns the reply and the
// source tier that produced it; errors are internal failures (embedding,
// storage). A generative failure is contained, not returned.
func (r *Resolver) Resolve(ctx context.Context, query string, lastLines []string) (string, string, error) {
	normalized := faq.Normalize(query)

	answer, tier, ok, err := r.conv.CachedResponse(ctx, normalized)
	if err != nil {
		return "", "", err
	}
	if ok {
		return answer, tier, nil
	}

	if reply, ok := intent.DetectThankYou(query); ok {
		return reply, SourceThankYou, nil
	}

	if entry, ok := r.matcher.MatchExact(query); ok {
		r.writeBack(normalized, entry.Answer)
		return entry.Answer, SourceExactFAQ, nil
	}

	entry, _, err := r.matcher.MatchSemantic(ctx, query)
	if err != nil {
		return "", "", err
	}
	if entry != nil {
		r.writeBack(normalized, entry.Answer)
		return entry.Answer, SourceSemanticFAQ, nil
	}

	entry, _, err = r.matcher.MatchFollowUp(ctx, lastBotAnswer(lastLines), query)
	if err != nil {
		return "", "", err
	}
	if entry != nil {
		r.writeBack(normalized, entry.Answer)
		return entry.Answer, SourceFollowUpFAQ, nil
	}

	if r.generator != nil {
		reply, err := r.generator.Generate(ctx, query, lastLines)
		if err != nil {
			slog.Error("generative call failed", "error", err)
			metrics.GenerationFailuresTotal.Inc()
			return ApologyReply, SourceGenerated, nil
		}
		return reply, SourceGenerated, nil
	}

	return OutOfScopeReply, SourceOutOfScope, nil
}

// writeBack inserts a freshly resolved pair into the persistent cache. A
// failed write costs a future cache hit, not the current answer.
func (r *Resolver) writeBack(question, answer string) {
	if err := r.conv.SaveToCache(question, answer); err != nil {
		slog.Warn("cache write failed", "error", err)
	}
}

// lastBotAnswer scans backward for the most recent bot line.
func lastBotAnswer(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "Bot:") {
			return strings.TrimSpace(strings.TrimPrefix(lines[i], "Bot:"))
		}
	}
	return ""
}
