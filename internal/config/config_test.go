package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "kokoro.db", cfg.DatabasePath)
	assert.Equal(t, "auto", cfg.ClassifyProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 10*time.Second, cfg.ClassifyTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(64*1024), cfg.MaxRequestBodyBytes)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KOKORO_PORT", "9090")
	t.Setenv("KOKORO_DB_PATH", "/tmp/test.db")
	t.Setenv("KOKORO_CLASSIFY_PROVIDER", "off")
	t.Setenv("KOKORO_CLASSIFY_TIMEOUT", "2s")
	t.Setenv("KOKORO_LOG_LEVEL", "debug")
	t.Setenv("KOKORO_RATE_LIMIT_RPS", "0.5")
	t.Setenv("KOKORO_RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, "off", cfg.ClassifyProvider)
	assert.Equal(t, 2*time.Second, cfg.ClassifyTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("KOKORO_PORT", "not-a-number")
	t.Setenv("KOKORO_CLASSIFY_TIMEOUT", "soon")
	t.Setenv("KOKORO_RATE_LIMIT_RPS", "plenty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ClassifyTimeout)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabasePath:        "kokoro.db",
		ClassifyProvider:    "auto",
		ClassifyTimeout:     time.Second,
		MaxRequestBodyBytes: 1024,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing db path", func(c *Config) { c.DatabasePath = "" }},
		{"unknown provider", func(c *Config) { c.ClassifyProvider = "magic" }},
		{"zero timeout", func(c *Config) { c.ClassifyTimeout = 0 }},
		{"zero body limit", func(c *Config) { c.MaxRequestBodyBytes = 0 }},
		{"negative rate limit", func(c *Config) { c.RateLimitRPS = -1 }},
		{"zero burst with limiting on", func(c *Config) { c.RateLimitRPS = 1; c.RateLimitBurst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
