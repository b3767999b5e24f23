//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/deskmate-labs/deskmate/internal/api"
	"github.com/deskmate-labs/deskmate/internal/cache"
	"github.com/deskmate-labs/deskmate/internal/chat"
	"github.com/deskmate-labs/deskmate/internal/conversation"
	"github.com/deskmate-labs/deskmate/internal/faq"
	"github.com/deskmate-labs/deskmate/internal/memory"
)

// embedDims must match the vector column width in migrations.
const embedDims = 384

// stubEmbedder is a deterministic stand-in for Ollama: a one-hot vector from
// an FNV hash of the text, overridable per string for similarity scenarios.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	vec := make([]float32, embedDims)
	vec[int(h.Sum32())%embedDims] = 1
	return vec, nil
}

func (s *stubEmbedder) Dimensions() int { return embedDims }

type TestEnv struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client
	Server      *httptest.Server
	MemorySvc   *memory.Service
	CacheStore  *cache.Store
	Embedder    *stubEmbedder
}

var (
	testEnv *TestEnv
	counter int64
)

func uniqueID() int64 {
	return atomic.AddInt64(&counter, 1)
}

func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:0.8.1-pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "deskmate_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	// Start Redis container
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting redis container: %v", err)
	}
	t.Cleanup(func() { redisContainer.Terminate(ctx) })

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/deskmate_test?sslmode=disable", pgHost, pgPort.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	// Run migrations
	migrationsPath := getMigrationsPath()
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		dsn,
	)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("running migrations: %v", err)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	t.Cleanup(func() { redisClient.Close() })

	// Chat pipeline against real Postgres and Redis, stubbed embeddings.
	// FAQ questions get pinned orthogonal vectors so unrelated text cannot
	// collide with them through the hash fallback.
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"what are your shipping times": oneHot(0),
		"what is your return policy":   oneHot(1),
	}}

	cacheDir, err := os.MkdirTemp("", "deskmate-cache-*")
	if err != nil {
		t.Fatalf("creating cache dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(cacheDir) })

	cacheStore, err := cache.NewStore(filepath.Join(cacheDir, "cache.yaml"), embedder, 0.8)
	if err != nil {
		t.Fatalf("opening semantic cache: %v", err)
	}

	memorySvc := memory.NewService(memory.NewPostgresStore(pool), embedder, 0.92)
	history := conversation.NewHistoryStore(redisClient)
	conv := conversation.NewManager(cacheStore, memorySvc, history, 20, 3600)

	entries := []faq.Entry{
		{
			Question:  "What are your shipping times?",
			Answer:    "Standard shipping takes 3-5 business days.",
			Embedding: mustEmbed(t, embedder, "what are your shipping times"),
		},
		{
			Question:  "What is your return policy?",
			Answer:    "You can return any unused item within 30 days.",
			Embedding: mustEmbed(t, embedder, "what is your return policy"),
		},
	}
	matcher := faq.NewMatcher(entries, embedder, 0.60)

	resolver := chat.NewResolver(conv, matcher, nil)
	chatSvc := chat.NewService(resolver, conv, memorySvc, 6)
	chatHandler := chat.NewHandler(chatSvc)

	router := api.NewRouter(pool, redisClient, api.RouterConfig{}, api.HandlerSet{
		PostMessage:  chatHandler.PostMessage,
		SearchMemory: chatHandler.SearchMemory,
		ClearSession: chatHandler.ClearSession,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() { server.Close() })

	testEnv = &TestEnv{
		Pool:        pool,
		RedisClient: redisClient,
		Server:      server,
		MemorySvc:   memorySvc,
		CacheStore:  cacheStore,
		Embedder:    embedder,
	}

	return testEnv
}

func oneHot(dim int) []float32 {
	vec := make([]float32, embedDims)
	vec[dim] = 1
	return vec
}

func mustEmbed(t *testing.T, e *stubEmbedder, text string) []float32 {
	t.Helper()
	vec, err := e.Embed(context.Background(), text)
	if err != nil {
		t.Fatalf("embedding %q: %v", text, err)
	}
	return vec
}

func getMigrationsPath() string {
	// Try relative paths from test directory
	paths := []string{
		"../../migrations",
		"../../../migrations",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	log.Fatal("migrations directory not found")
	return ""
}

// Helper functions

func DoRequest(t *testing.T, env *TestEnv, method, path string, body any) *http.Response {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.Server.URL+path, bodyReader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	return resp
}

func ParseResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	return result
}

func SendMessage(t *testing.T, env *TestEnv, sessionID, message string) map[string]any {
	t.Helper()
	resp := DoRequest(t, env, "POST", "/api/v1/chat/message", map[string]string{
		"session_id": sessionID,
		"message":    message,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat message failed: status %d", resp.StatusCode)
	}
	result := ParseResponse(t, resp)
	data, ok := result["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected response shape: %v", result)
	}
	return data
}
