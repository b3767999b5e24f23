package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Ollama    OllamaConfig
	LLM       LLMConfig
	FAQ       FAQConfig
	Cache     CacheConfig
	Memory    MemoryConfig
	History   HistoryConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// OllamaConfig points at the local embedding server.
type OllamaConfig struct {
	Host       string
	Model      string
	Dimensions int
}

// LLMConfig configures the generative fallback tier. When Enabled is false
// the service answers from FAQ and cache tiers only.
type LLMConfig struct {
	Enabled     bool
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

type FAQConfig struct {
	Path      string
	Threshold float64
}

type CacheConfig struct {
	Path      string
	Threshold float64
}

// MemoryConfig selects the session memory backend: "memory" keeps turns in
// process, "postgres" persists them via pgvector.
type MemoryConfig struct {
	Backend   string
	Threshold float64
	RetrieveK int
}

type HistoryConfig struct {
	MaxTurns int
	TTL      time.Duration
	Window   int
}

type RateLimitConfig struct {
	MaxReqs   int
	WindowSec int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:           k.String("db.host"),
			Port:           k.Int("db.port"),
			User:           k.String("db.user"),
			Password:       k.String("db.password"),
			Name:           k.String("db.name"),
			SSLMode:        k.String("db.sslmode"),
			MaxConns:       int32(k.Int("db.max.conns")),
			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		Ollama: OllamaConfig{
			Host:       k.String("ollama.host"),
			Model:      k.String("ollama.model"),
			Dimensions: k.Int("ollama.dimensions"),
		},
		LLM: LLMConfig{
			Enabled:     k.Bool("llm.enabled"),
			BaseURL:     k.String("llm.base.url"),
			APIKey:      k.String("llm.api.key"),
			Model:       k.String("llm.model"),
			Temperature: k.Float64("llm.temperature"),
			MaxTokens:   k.Int("llm.max.tokens"),
		},
		FAQ: FAQConfig{
			Path:      k.String("faq.path"),
			Threshold: k.Float64("faq.threshold"),
		},
		Cache: CacheConfig{
			Path:      k.String("cache.path"),
			Threshold: k.Float64("cache.threshold"),
		},
		Memory: MemoryConfig{
			Backend:   k.String("memory.backend"),
			Threshold: k.Float64("memory.threshold"),
			RetrieveK: k.Int("memory.retrieve.k"),
		},
		History: HistoryConfig{
			MaxTurns: k.Int("history.max.turns"),
			Window:   k.Int("history.window"),
		},
		RateLimit: RateLimitConfig{
			MaxReqs:   k.Int("rate.limit.max"),
			WindowSec: k.Int("rate.limit.window.sec"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	if origins := k.String("cors.allowed.origins"); origins != "" {
		cfg.Server.CORSOrigins = strings.Split(origins, ",")
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "deskmate"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "deskmate"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Ollama.Host == "" {
		cfg.Ollama.Host = "http://localhost:11434"
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = "all-minilm"
	}
	if cfg.Ollama.Dimensions == 0 {
		cfg.Ollama.Dimensions = 384
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.deepseek.com"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "deepseek-chat"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.4
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 180
	}
	if cfg.FAQ.Path == "" {
		cfg.FAQ.Path = "data/faq.yaml"
	}
	if cfg.FAQ.Threshold == 0 {
		cfg.FAQ.Threshold = 0.60
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = "data/cache.yaml"
	}
	if cfg.Cache.Threshold == 0 {
		cfg.Cache.Threshold = 0.8
	}
	if cfg.Memory.Backend == "" {
		cfg.Memory.Backend = "memory"
	}
	if cfg.Memory.Threshold == 0 {
		cfg.Memory.Threshold = 0.92
	}
	if cfg.Memory.RetrieveK == 0 {
		cfg.Memory.RetrieveK = 3
	}
	if cfg.History.MaxTurns == 0 {
		cfg.History.MaxTurns = 20
	}
	if cfg.History.Window == 0 {
		cfg.History.Window = 6
	}
	if cfg.RateLimit.MaxReqs == 0 {
		cfg.RateLimit.MaxReqs = 30
	}
	if cfg.RateLimit.WindowSec == 0 {
		cfg.RateLimit.WindowSec = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	ttlStr := k.String("history.ttl")
	if ttlStr == "" {
		ttlStr = "24h"
	}
	cfg.History.TTL, err = time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("parsing history ttl: %w", err)
	}

	return cfg, nil
}
