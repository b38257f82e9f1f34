// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Database settings.
	DatabasePath string // SQLite file path; ":memory:" for ephemeral.

	// Classifier provider settings.
	ClassifyProvider string // "auto", "openai", "http", or "off"
	OpenAIAPIKey     string
	OpenAIModel      string
	ClassifyEndpoint string // Self-hosted classification endpoint for the "http" provider.
	ClassifyTimeout  time.Duration

	// Lexicon settings.
	LexiconPath string // Optional on-disk rule file; empty uses the embedded rules.

	// OTEL settings.
	OTELEndpoint string
	ServiceName  string

	// Operational settings.
	LogLevel            string
	MaxRequestBodyBytes int64

	// Rate limiting for the classification-reaching routes. RPS of 0
	// disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                envInt("KOKORO_PORT", 8080),
		ReadTimeout:         envDuration("KOKORO_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:        envDuration("KOKORO_WRITE_TIMEOUT", 30*time.Second),
		DatabasePath:        envStr("KOKORO_DB_PATH", "kokoro.db"),
		ClassifyProvider:    envStr("KOKORO_CLASSIFY_PROVIDER", "auto"),
		OpenAIAPIKey:        envStr("OPENAI_API_KEY", ""),
		OpenAIModel:         envStr("KOKORO_OPENAI_MODEL", "gpt-4o-mini"),
		ClassifyEndpoint:    envStr("KOKORO_CLASSIFY_ENDPOINT", ""),
		ClassifyTimeout:     envDuration("KOKORO_CLASSIFY_TIMEOUT", 10*time.Second),
		LexiconPath:         envStr("KOKORO_LEXICON_PATH", ""),
		OTELEndpoint:        envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:         envStr("OTEL_SERVICE_NAME", "kokoro"),
		LogLevel:            envStr("KOKORO_LOG_LEVEL", "info"),
		MaxRequestBodyBytes: int64(envInt("KOKORO_MAX_REQUEST_BODY_BYTES", 64*1024)),
		RateLimitRPS:        envFloat("KOKORO_RATE_LIMIT_RPS", 5),
		RateLimitBurst:      envInt("KOKORO_RATE_LIMIT_BURST", 10),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("config: KOKORO_DB_PATH is required")
	}
	switch c.ClassifyProvider {
	case "auto", "openai", "http", "off":
	default:
		return fmt.Errorf("config: KOKORO_CLASSIFY_PROVIDER must be auto, openai, http, or off (got %q)", c.ClassifyProvider)
	}
	if c.ClassifyTimeout <= 0 {
		return fmt.Errorf("config: KOKORO_CLASSIFY_TIMEOUT must be positive")
	}
	if c.MaxRequestBodyBytes <= 0 {
		return fmt.Errorf("config: KOKORO_MAX_REQUEST_BODY_BYTES must be positive")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config: KOKORO_RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("config: KOKORO_RATE_LIMIT_BURST must be at least 1 when limiting is enabled")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
