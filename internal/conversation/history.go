// Package conversation owns session turn history and the two-tier cached
// response read/write used by the resolver.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// HistoryEntry is one completed turn: the user's message and the bot's reply.
type HistoryEntry struct {
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryStore keeps per-session turn history in Redis lists.
type HistoryStore struct {
	client *redis.Client
}

// NewHistoryStore creates a session history store.
func NewHistoryStore(client *redis.Client) *HistoryStore {
	return &HistoryStore{client: client}
}

func historyKey(sessionID string) string {
	return "history:" + sessionID
}

// Append adds a turn to the session's list and trims it to maxTurns.
func (s *HistoryStore) Append(ctx context.Context, sessionID string, entry HistoryEntry, maxTurns, ttlSec int) error {
	key := historyKey(sessionID)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, string(data))
	pipe.LTrim(ctx, key, int64(-maxTurns), -1)
	pipe.Expire(ctx, key, time.Duration(ttlSec)*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", key, err)
	}
	return nil
}

// Recent returns the last `limit` turns for the session, oldest first.
func (s *HistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error) {
	key := historyKey(sessionID)

	vals, err := s.client.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	entries := make([]HistoryEntry, 0, len(vals))
	for _, v := range vals {
		var entry HistoryEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			continue // skip malformed entries
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Clear deletes the session's history.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, historyKey(sessionID)).Err()
}
