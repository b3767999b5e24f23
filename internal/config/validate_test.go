package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		DB: DBConfig{
			Host: "localhost", Port: 5432, User: "deskmate",
			Password: "secret", Name: "deskmate", SSLMode: "disable", MaxConns: 25,
		},
		Redis:   RedisConfig{Host: "localhost", Port: 6379},
		Ollama:  OllamaConfig{Host: "http://localhost:11434", Model: "all-minilm", Dimensions: 384},
		LLM:     LLMConfig{Enabled: true, APIKey: "sk-test", Model: "deepseek-chat", Temperature: 0.4, MaxTokens: 180},
		FAQ:     FAQConfig{Path: "data/faq.yaml", Threshold: 0.60},
		Cache:   CacheConfig{Path: "data/cache.yaml", Threshold: 0.8},
		Memory:  MemoryConfig{Backend: "memory", Threshold: 0.92, RetrieveK: 3},
		History: HistoryConfig{MaxTurns: 20, TTL: 24 * time.Hour, Window: 6},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_ThresholdOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Threshold = 1.5
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "CACHE_THRESHOLD") {
		t.Fatalf("expected CACHE_THRESHOLD error, got: %v", err)
	}
}

func TestValidate_NegativeThreshold(t *testing.T) {
	cfg := validConfig()
	cfg.Memory.Threshold = -0.1
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "MEMORY_THRESHOLD") {
		t.Fatalf("expected MEMORY_THRESHOLD error, got: %v", err)
	}
}

func TestValidate_UnknownMemoryBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Memory.Backend = "sqlite"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "MEMORY_BACKEND") {
		t.Fatalf("expected MEMORY_BACKEND error, got: %v", err)
	}
}

func TestValidate_PostgresBackendRequiresPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Memory.Backend = "postgres"
	cfg.DB.Password = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Fatalf("expected DB_PASSWORD error, got: %v", err)
	}
}

func TestValidate_LLMEnabledRequiresAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "LLM_API_KEY") {
		t.Fatalf("expected LLM_API_KEY error, got: %v", err)
	}
}

func TestValidate_LLMDisabledNeedsNoKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Enabled = false
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_InvalidPorts(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Redis.Port = 99999
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected port validation errors")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected SERVER_PORT error in: %v", err)
	}
	if !strings.Contains(err.Error(), "REDIS_PORT") {
		t.Errorf("expected REDIS_PORT error in: %v", err)
	}
}

func TestValidate_DBPortCheckedOnlyForPostgresBackend(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Port = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error with in-process backend, got: %v", err)
	}

	cfg.Memory.Backend = "postgres"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_PORT") {
		t.Fatalf("expected DB_PORT error, got: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.FAQ.Threshold = 0
	cfg.Ollama.Dimensions = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected multiple validation errors")
	}
	errStr := err.Error()
	for _, substr := range []string{"SERVER_PORT", "FAQ_THRESHOLD", "OLLAMA_DIMENSIONS"} {
		if !strings.Contains(errStr, substr) {
			t.Errorf("expected %q in error: %s", substr, errStr)
		}
	}
}
