package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PostgresStore implements Store using pgx + pgvector. Similarity ordering
// and scoring are delegated to the cosine distance operator.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a pgvector-backed turn store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (r *PostgresStore) Insert(ctx context.Context, turn Turn) error {
	id, err := uuid.Parse(turn.ID)
	if err != nil {
		return fmt.Errorf("parsing turn id: %w", err)
	}

	vec := pgvector.NewVector(turn.Embedding)
	_, err = r.pool.Exec(ctx,
		`INSERT INTO memory_turns (id, role, content, linked_question, embedding, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, string(turn.Role), turn.Text, turn.LinkedQuestion, vec, turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}
	return nil
}

func (r *PostgresStore) Nearest(ctx context.Context, embedding []float32, k int) ([]Neighbor, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := r.pool.Query(ctx,
		`SELECT id, role, content, linked_question, created_at,
		        1 - (embedding <=> $1) AS similarity
		 FROM memory_turns
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, k,
	)
	if err != nil {
		return nil, fmt.Errorf("searching turns: %w", err)
	}
	defer rows.Close()

	var neighbors []Neighbor
	for rows.Next() {
		var (
			id   uuid.UUID
			role string
			n    Neighbor
		)
		if err := rows.Scan(&id, &role, &n.Turn.Text, &n.Turn.LinkedQuestion, &n.Turn.CreatedAt, &n.Similarity); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		n.Turn.ID = id.String()
		n.Turn.Role = Role(role)
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}

// Count reports the number of stored turns.
func (r *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM memory_turns`).Scan(&count)
	return count, err
}
