package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*HistoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewHistoryStore(client), mr
}

func TestHistoryStore_AppendAndRecent(t *testing.T) {
	store, _ := setupMiniredis(t)
	ctx := context.Background()

	err := store.Append(ctx, "sess-1", HistoryEntry{
		User:      "hello",
		Bot:       "hi, how can I help?",
		Timestamp: time.Now(),
	}, 6, 3600)
	require.NoError(t, err)

	err = store.Append(ctx, "sess-1", HistoryEntry{
		User:      "shipping times?",
		Bot:       "3-5 business days.",
		Timestamp: time.Now(),
	}, 6, 3600)
	require.NoError(t, err)

	entries, err := store.Recent(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].User)
	assert.Equal(t, "3-5 business days.", entries[1].Bot)
}

func TestHistoryStore_TrimsToMaxTurns(t *testing.T) {
	store, _ := setupMiniredis(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.Append(ctx, "sess-1", HistoryEntry{
			User: fmt.Sprintf("question %d", i),
			Bot:  fmt.Sprintf("answer %d", i),
		}, 3, 3600)
		require.NoError(t, err)
	}

	entries, err := store.Recent(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "question 2", entries[0].User)
	assert.Equal(t, "question 4", entries[2].User)
}

func TestHistoryStore_TTLExpires(t *testing.T) {
	store, mr := setupMiniredis(t)
	ctx := context.Background()

	err := store.Append(ctx, "sess-1", HistoryEntry{User: "hello", Bot: "hi"}, 6, 60)
	require.NoError(t, err)

	mr.FastForward(61 * time.Second)

	entries, err := store.Recent(ctx, "sess-1", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryStore_SessionsIsolated(t *testing.T) {
	store, _ := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", HistoryEntry{User: "one", Bot: "a"}, 6, 3600))
	require.NoError(t, store.Append(ctx, "sess-2", HistoryEntry{User: "two", Bot: "b"}, 6, 3600))

	entries, err := store.Recent(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "one", entries[0].User)
}

func TestHistoryStore_Clear(t *testing.T) {
	store, _ := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", HistoryEntry{User: "hello", Bot: "hi"}, 6, 3600))
	require.NoError(t, store.Clear(ctx, "sess-1"))

	entries, err := store.Recent(ctx, "sess-1", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
