package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all console configuration loaded from environment variables.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	UserAPIURL     string        `env:"USER_API_URL" envDefault:"http://backend:5000/api"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	PostgresDSN    string        `env:"POSTGRES_DSN"`
	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	NoticeTTL      time.Duration `env:"NOTICE_TTL" envDefault:"5s"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.NoticeTTL <= 0 {
		return nil, fmt.Errorf("NOTICE_TTL must be positive, got %s", cfg.NoticeTTL)
	}
	return &cfg, nil
}
