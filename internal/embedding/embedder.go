package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/deskmate-labs/deskmate/internal/metrics"
)

// Embedder converts text into a fixed-dimension vector. Implementations must
// be deterministic: identical input yields identical output.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// OllamaEmbedder produces embeddings via a local or remote Ollama instance.
type OllamaEmbedder struct {
	client *api.Client
	model  string
	dims   int
}

// NewOllamaEmbedder creates an embedder backed by the Ollama /api/embed endpoint.
func NewOllamaEmbedder(host, model string, dims int) (*OllamaEmbedder, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host: %w", err)
	}

	return &OllamaEmbedder{
		client: api.NewClient(base, &http.Client{Timeout: 60 * time.Second}),
		model:  model,
		dims:   dims,
	}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding text: empty response from model %s", e.model)
	}

	vec := resp.Embeddings[0]
	if len(vec) != e.dims {
		return nil, fmt.Errorf("embedding text: model %s returned %d dimensions, expected %d", e.model, len(vec), e.dims)
	}

	metrics.EmbeddingDuration.Observe(time.Since(start).Seconds())
	return vec, nil
}

func (e *OllamaEmbedder) Dimensions() int {
	return e.dims
}
