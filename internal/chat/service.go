package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deskmate-labs/deskmate/internal/conversation"
	"github.com/deskmate-labs/deskmate/internal/intent"
	"github.com/deskmate-labs/deskmate/internal/memory"
	"github.com/deskmate-labs/deskmate/internal/metrics"
)

// GoodbyeReply ends the session when the exit intent matches.
const GoodbyeReply = "Goodbye! Have a great day! 👋"

// Service handles one conversation turn end to end: exit check, cascade
// resolution, then turn recording into session memory and history. Turns are
// processed sequentially per session; a query is fully resolved before its
// writes happen.
type Service struct {
	resolver     *Resolver
	conv         *conversation.Manager
	memory       *memory.Service
	historyLines int
}

// NewService creates a chat service. historyLines caps the backward-looking
// context window handed to the resolver.
func NewService(resolver *Resolver, conv *conversation.Manager, memorySvc *memory.Service, historyLines int) *Service {
	return &Service{
		resolver:     resolver,
		conv:         conv,
		memory:       memorySvc,
		historyLines: historyLines,
	}
}

// Respond resolves one user message within a session.
func (s *Service) Respond(ctx context.Context, sessionID, text string) (*MessageResponse, error) {
	if intent.DetectExit(text) {
		s.record(sessionID, SourceExit)
		return &MessageResponse{Reply: GoodbyeReply, Source: SourceExit, Done: true}, nil
	}

	lastLines, err := s.conv.LastLines(ctx, sessionID, s.historyLines)
	if err != nil {
		return nil, fmt.Errorf("loading session history: %w", err)
	}

	reply, source, err := s.resolver.Resolve(ctx, text, lastLines)
	if err != nil {
		return nil, fmt.Errorf("resolving message: %w", err)
	}

	// One user turn and one bot turn per message; the bot turn links back to
	// the exact user text so the memory cache can pair them later.
	if _, err := s.memory.Record(ctx, text, memory.RoleUser, ""); err != nil {
		return nil, err
	}
	if _, err := s.memory.Record(ctx, reply, memory.RoleBot, text); err != nil {
		return nil, err
	}

	if err := s.conv.AddTurn(ctx, sessionID, conversation.HistoryEntry{User: text, Bot: reply}); err != nil {
		return nil, fmt.Errorf("appending session history: %w", err)
	}

	s.record(sessionID, source)
	return &MessageResponse{Reply: reply, Source: source}, nil
}

// SearchMemory returns up to k stored turns similar to the query.
func (s *Service) SearchMemory(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		k = 3
	}
	return s.memory.RetrieveSimilar(ctx, query, k)
}

// ClearSession drops a session's history.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	return s.conv.ClearSession(ctx, sessionID)
}

func (s *Service) record(sessionID, source string) {
	slog.Info("message resolved", "session_id", sessionID, "source", source)
	metrics.ResolutionsTotal.WithLabelValues(source).Inc()
}
