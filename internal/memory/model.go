package memory

import "time"

// Role tags a turn with its speaker.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn is a single recorded utterance. Bot turns carry the exact text of the
// user turn they answer in LinkedQuestion, enabling reverse lookup. Turns are
// immutable once recorded and are never evicted.
type Turn struct {
	ID             string
	Role           Role
	Text           string
	Embedding      []float32
	LinkedQuestion string
	CreatedAt      time.Time
}

// Neighbor is a turn returned from a nearest-neighbor query together with
// its cosine similarity to the query vector.
type Neighbor struct {
	Turn       Turn
	Similarity float64
}
