package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for startup-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Similarity thresholds
	if c.FAQ.Threshold <= 0 || c.FAQ.Threshold > 1 {
		errs = append(errs, fmt.Sprintf("FAQ_THRESHOLD must be in (0, 1], got %g", c.FAQ.Threshold))
	}
	if c.Cache.Threshold <= 0 || c.Cache.Threshold > 1 {
		errs = append(errs, fmt.Sprintf("CACHE_THRESHOLD must be in (0, 1], got %g", c.Cache.Threshold))
	}
	if c.Memory.Threshold <= 0 || c.Memory.Threshold > 1 {
		errs = append(errs, fmt.Sprintf("MEMORY_THRESHOLD must be in (0, 1], got %g", c.Memory.Threshold))
	}

	// Memory backend
	switch c.Memory.Backend {
	case "memory", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("MEMORY_BACKEND must be 'memory' or 'postgres', got %q", c.Memory.Backend))
	}
	if c.Memory.Backend == "postgres" && c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required when MEMORY_BACKEND=postgres")
	}

	// Generative tier
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		errs = append(errs, "LLM_API_KEY is required when LLM_ENABLED=true")
	}

	// Embedding dimensions
	if c.Ollama.Dimensions < 1 {
		errs = append(errs, fmt.Sprintf("OLLAMA_DIMENSIONS must be positive, got %d", c.Ollama.Dimensions))
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}
	if c.Memory.Backend == "postgres" && (c.DB.Port < 1 || c.DB.Port > 65535) {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}

	// Generative tier disabled: warn only
	if !c.LLM.Enabled {
		slog.Warn("LLM_ENABLED is false — unanswered questions get the out-of-scope reply")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
