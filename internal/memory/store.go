// Package memory implements the session memory store: a vector index of
// every conversation turn, queried by embedding similarity.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deskmate-labs/deskmate/internal/embedding"
)

// lookupNeighbors is the result-set size for cached-answer lookups. The
// lookup only activates once the store holds at least this many turns.
const lookupNeighbors = 5

// Store persists turns and answers nearest-neighbor queries. Implementations
// must support concurrent single-turn inserts and read-only queries.
type Store interface {
	Insert(ctx context.Context, turn Turn) error
	Nearest(ctx context.Context, embedding []float32, k int) ([]Neighbor, error)
}

// Service embeds text on the way into a Store and implements the retrieval
// operations the resolver uses.
type Service struct {
	store     Store
	embedder  embedding.Embedder
	threshold float64
}

// NewService creates a memory service. threshold gates LookupCachedAnswer;
// it is deliberately stricter than the persistent cache because this store
// holds every raw utterance, not curated answers.
func NewService(store Store, embedder embedding.Embedder, threshold float64) *Service {
	return &Service{store: store, embedder: embedder, threshold: threshold}
}

// Record embeds text and stores it as a new turn. linkedQuestion is set only
// on bot turns and holds the exact user text the turn answers.
func (s *Service) Record(ctx context.Context, text string, role Role, linkedQuestion string) (string, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embedding turn: %w", err)
	}

	turn := Turn{
		ID:             uuid.NewString(),
		Role:           role,
		Text:           text,
		Embedding:      vec,
		LinkedQuestion: linkedQuestion,
		CreatedAt:      time.Now(),
	}
	if err := s.store.Insert(ctx, turn); err != nil {
		return "", fmt.Errorf("storing turn: %w", err)
	}
	return turn.ID, nil
}

// RetrieveSimilar returns up to k stored texts nearest to the query,
// deduplicated by exact text while preserving nearest-first order.
func (s *Service) RetrieveSimilar(ctx context.Context, query string, k int) ([]string, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	neighbors, err := s.store.Nearest(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("querying memory: %w", err)
	}

	seen := make(map[string]struct{}, len(neighbors))
	texts := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		if _, ok := seen[n.Turn.Text]; ok {
			continue
		}
		seen[n.Turn.Text] = struct{}{}
		texts = append(texts, n.Turn.Text)
	}
	return texts, nil
}

// LookupCachedAnswer searches the 5 nearest turns for a past user question
// similar to the query at or above the threshold, then scans the same result
// set for the bot turn whose LinkedQuestion equals that neighbor's text
// byte-for-byte. Linked-question pairing is exact equality, never similarity.
func (s *Service) LookupCachedAnswer(ctx context.Context, query string) (string, bool, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", false, fmt.Errorf("embedding query: %w", err)
	}

	neighbors, err := s.store.Nearest(ctx, vec, lookupNeighbors)
	if err != nil {
		return "", false, fmt.Errorf("querying memory: %w", err)
	}
	if len(neighbors) < lookupNeighbors {
		return "", false, nil
	}

	for _, n := range neighbors {
		if n.Turn.Role != RoleUser || n.Similarity < s.threshold {
			continue
		}
		for _, m := range neighbors {
			if m.Turn.Role == RoleBot && m.Turn.LinkedQuestion == n.Turn.Text {
				return m.Turn.Text, true, nil
			}
		}
	}
	return "", false, nil
}
