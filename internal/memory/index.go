package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/deskmate-labs/deskmate/internal/embedding"
)

// Index is an in-process Store: turns and their vectors held in parallel
// order with a brute-force cosine scan. The default backend when no database
// is configured, and the fixture for unit tests. Grows unboundedly for the
// process lifetime.
type Index struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{}
}

func (i *Index) Insert(_ context.Context, turn Turn) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.turns = append(i.turns, turn)
	return nil
}

func (i *Index) Nearest(_ context.Context, vec []float32, k int) ([]Neighbor, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	neighbors := make([]Neighbor, len(i.turns))
	for j, turn := range i.turns {
		neighbors[j] = Neighbor{Turn: turn, Similarity: embedding.Cosine(vec, turn.Embedding)}
	}

	// Stable keeps insertion order among equal scores.
	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Similarity > neighbors[b].Similarity
	})

	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Len reports the number of stored turns.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.turns)
}
