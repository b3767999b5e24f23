package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskmate-labs/deskmate/internal/api"
	"github.com/deskmate-labs/deskmate/internal/cache"
	"github.com/deskmate-labs/deskmate/internal/chat"
	"github.com/deskmate-labs/deskmate/internal/config"
	"github.com/deskmate-labs/deskmate/internal/conversation"
	"github.com/deskmate-labs/deskmate/internal/database"
	"github.com/deskmate-labs/deskmate/internal/embedding"
	"github.com/deskmate-labs/deskmate/internal/faq"
	"github.com/deskmate-labs/deskmate/internal/llm"
	"github.com/deskmate-labs/deskmate/internal/memory"
	"github.com/deskmate-labs/deskmate/internal/middleware"
	iredis "github.com/deskmate-labs/deskmate/internal/redis"
	"github.com/deskmate-labs/deskmate/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("validating config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// PostgreSQL (only for the pgvector memory backend)
	var pool *pgxpool.Pool
	if cfg.Memory.Backend == "postgres" {
		if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
			slog.Error("migrating database", "error", err)
			os.Exit(1)
		}

		pool, err = database.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			slog.Error("connecting to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	// Embeddings
	embedder, err := embedding.NewOllamaEmbedder(cfg.Ollama.Host, cfg.Ollama.Model, cfg.Ollama.Dimensions)
	if err != nil {
		slog.Error("creating embedder", "error", err)
		os.Exit(1)
	}

	// FAQ dataset
	entries, err := faq.Load(ctx, cfg.FAQ.Path, embedder)
	if err != nil {
		slog.Error("loading faq dataset", "error", err, "path", cfg.FAQ.Path)
		os.Exit(1)
	}
	slog.Info("faq dataset loaded", "entries", len(entries))
	matcher := faq.NewMatcher(entries, embedder, cfg.FAQ.Threshold)

	// Semantic cache
	cacheStore, err := cache.NewStore(cfg.Cache.Path, embedder, cfg.Cache.Threshold)
	if err != nil {
		slog.Error("opening semantic cache", "error", err, "path", cfg.Cache.Path)
		os.Exit(1)
	}

	// Session memory
	var turnStore memory.Store
	if pool != nil {
		turnStore = memory.NewPostgresStore(pool)
	} else {
		turnStore = memory.NewIndex()
	}
	memorySvc := memory.NewService(turnStore, embedder, cfg.Memory.Threshold)

	// Conversation state
	history := conversation.NewHistoryStore(redisClient)
	conv := conversation.NewManager(cacheStore, memorySvc, history,
		cfg.History.MaxTurns, int(cfg.History.TTL.Seconds()))

	// Generative fallback
	var generator llm.Generator
	if cfg.LLM.Enabled {
		dump, err := faq.Dump(entries)
		if err != nil {
			slog.Error("serializing faq dataset", "error", err)
			os.Exit(1)
		}
		generator = llm.NewOpenAIGenerator(llm.Config{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}, dump)
		slog.Info("generative fallback enabled", "model", cfg.LLM.Model)
	}

	// Chat pipeline
	resolver := chat.NewResolver(conv, matcher, generator)
	chatSvc := chat.NewService(resolver, conv, memorySvc, cfg.History.Window)
	chatHandler := chat.NewHandler(chatSvc)

	// Router
	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.MaxReqs, cfg.RateLimit.WindowSec)
	router := api.NewRouter(pool, redisClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		ChatRateLimiter:    rateLimiter.Middleware,
	}, api.HandlerSet{
		PostMessage:  chatHandler.PostMessage,
		SearchMemory: chatHandler.SearchMemory,
		ClearSession: chatHandler.ClearSession,
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
