// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/openquest/gm-api/internal/errors"
)

// Defaults for everything that can reasonably have one.
const (
	DefaultServerAddr    = ":8080"
	DefaultRedisEndpoint = "localhost:6379"
	DefaultActionTimeout = 2 * time.Minute
	DefaultReapInterval  = 30 * time.Second
)

// Config is the full server configuration.
type Config struct {
	// ServerAddr is the HTTP listen address.
	ServerAddr string

	RedisEndpoint string
	RedisPassword string
	RedisDB       int

	// OpenAIAPIKey authorizes the chat provider. OpenAIBaseURL may point
	// at any OpenAI-compatible endpoint.
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// ActionTimeout is how long an action may sit unresolved before the
	// reaper fails it; ReapInterval is the sweep period.
	ActionTimeout time.Duration
	ReapInterval  time.Duration
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:    envOr("SERVER_ADDR", DefaultServerAddr),
		RedisEndpoint: envOr("REDIS_ENDPOINT", DefaultRedisEndpoint),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ActionTimeout: DefaultActionTimeout,
		ReapInterval:  DefaultReapInterval,
	}

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.InvalidArgumentf("REDIS_DB must be an integer, got %q", raw)
		}
		cfg.RedisDB = db
	}

	if raw := os.Getenv("ACTION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.InvalidArgumentf("ACTION_TIMEOUT must be a duration, got %q", raw)
		}
		cfg.ActionTimeout = d
	}

	if raw := os.Getenv("REAP_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.InvalidArgumentf("REAP_INTERVAL must be a duration, got %q", raw)
		}
		cfg.ReapInterval = d
	}

	return cfg, cfg.Validate()
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.OpenAIAPIKey == "" {
		vb.RequiredField("OPENAI_API_KEY")
	}
	if c.ActionTimeout <= 0 {
		vb.Field("ACTION_TIMEOUT", "must be positive")
	}
	if c.ReapInterval <= 0 {
		vb.Field("REAP_INTERVAL", "must be positive")
	}
	return vb.Build()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
