// Package cache implements the persistent semantic cache: a YAML file of
// resolved question/answer pairs looked up by embedding similarity.
package cache

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deskmate-labs/deskmate/internal/embedding"
)

// Exchange is one cached question/answer pair. Entries are append-only and
// never deduplicated, so near-identical questions may accumulate.
type Exchange struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type fileData struct {
	Conversations []Exchange `yaml:"conversations"`
}

// Store is a file-backed semantic cache. Every insert rewrites the whole
// file (load-modify-save), so concurrent writers can silently lose updates;
// the service processes one conversation turn at a time, which is the only
// guard. Multiple processes sharing one cache file are not supported.
type Store struct {
	path      string
	embedder  embedding.Embedder
	threshold float64
}

// NewStore opens the cache file, creating it empty if absent. A file that
// exists but cannot be parsed is an unrecoverable startup error.
func NewStore(path string, embedder embedding.Embedder, threshold float64) (*Store, error) {
	s := &Store{path: path, embedder: embedder, threshold: threshold}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(fileData{Conversations: []Exchange{}}); err != nil {
			return nil, fmt.Errorf("initializing cache file: %w", err)
		}
		return s, nil
	}

	// Fail fast on a corrupt file instead of surfacing it on first lookup.
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Lookup embeds the query, scores it against every cached question, and
// returns the best answer when the top score meets the threshold. Ties
// resolve to the earliest entry. An empty cache is a miss, not an error.
func (s *Store) Lookup(ctx context.Context, query string) (string, bool, error) {
	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	if len(data.Conversations) == 0 {
		return "", false, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", false, err
	}

	candidates := make([][]float32, len(data.Conversations))
	for i, c := range data.Conversations {
		vec, err := s.embedder.Embed(ctx, c.Question)
		if err != nil {
			return "", false, err
		}
		candidates[i] = vec
	}

	idx, score := embedding.BestMatch(queryVec, candidates)
	if idx < 0 || score < s.threshold {
		return "", false, nil
	}
	return data.Conversations[idx].Answer, true, nil
}

// Insert appends a question/answer pair and persists the whole store.
func (s *Store) Insert(question, answer string) error {
	data, err := s.load()
	if err != nil {
		return err
	}

	data.Conversations = append(data.Conversations, Exchange{
		Question: question,
		Answer:   answer,
	})
	return s.save(data)
}

// Len reports the number of cached exchanges.
func (s *Store) Len() (int, error) {
	data, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(data.Conversations), nil
}

func (s *Store) load() (fileData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fileData{}, fmt.Errorf("reading cache file: %w", err)
	}

	var data fileData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fileData{}, fmt.Errorf("parsing cache file: %w", err)
	}
	return data, nil
}

func (s *Store) save(data fileData) error {
	raw, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("serializing cache: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}
