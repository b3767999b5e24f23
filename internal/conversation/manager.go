package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/deskmate-labs/deskmate/internal/cache"
	"github.com/deskmate-labs/deskmate/internal/memory"
)

// Cache tiers reported by CachedResponse.
const (
	TierSemanticCache = "semantic_cache"
	TierMemoryCache   = "memory_cache"
)

// Manager wires the two cache tiers and the session history together for
// the resolver: a cheap curated-cache read first, then the stricter
// raw-utterance memory lookup, and the write-back path for new answers.
type Manager struct {
	cache    *cache.Store
	memory   *memory.Service
	history  *HistoryStore
	maxTurns int
	ttlSec   int
}

// NewManager creates a conversation manager.
func NewManager(cacheStore *cache.Store, memorySvc *memory.Service, history *HistoryStore, maxTurns, ttlSec int) *Manager {
	return &Manager{
		cache:    cacheStore,
		memory:   memorySvc,
		history:  history,
		maxTurns: maxTurns,
		ttlSec:   ttlSec,
	}
}

// CachedResponse consults the persistent semantic cache and then, on miss,
// the session memory store. Returns the answer and the tier that produced
// it, or ok=false when both tiers miss.
func (m *Manager) CachedResponse(ctx context.Context, query string) (answer, tier string, ok bool, err error) {
	answer, ok, err = m.cache.Lookup(ctx, query)
	if err != nil {
		return "", "", false, fmt.Errorf("semantic cache lookup: %w", err)
	}
	if ok {
		return answer, TierSemanticCache, true, nil
	}

	answer, ok, err = m.memory.LookupCachedAnswer(ctx, query)
	if err != nil {
		return "", "", false, fmt.Errorf("memory cache lookup: %w", err)
	}
	if ok {
		return answer, TierMemoryCache, true, nil
	}

	return "", "", false, nil
}

// SaveToCache writes a freshly resolved answer into the persistent cache.
// Called at most once per resolved query.
func (m *Manager) SaveToCache(question, answer string) error {
	return m.cache.Insert(question, answer)
}

// AddTurn appends a completed user/bot exchange to the session history.
func (m *Manager) AddTurn(ctx context.Context, sessionID string, entry HistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return m.history.Append(ctx, sessionID, entry, m.maxTurns, m.ttlSec)
}

// LastLines renders the most recent history as "You:"/"Bot:" prefixed lines,
// oldest first, truncated to the last n lines. This is the backward-looking
// context for follow-up detection and generation prompts.
func (m *Manager) LastLines(ctx context.Context, sessionID string, n int) ([]string, error) {
	entries, err := m.history.Recent(ctx, sessionID, m.maxTurns)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		lines = append(lines, "You: "+e.User, "Bot: "+e.Bot)
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// ClearSession drops the session's history.
func (m *Manager) ClearSession(ctx context.Context, sessionID string) error {
	return m.history.Clear(ctx, sessionID)
}
