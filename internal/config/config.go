// Package config loads engine settings from the environment, with optional
// .env support for local development.
package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string        `env:"BB_API_URL" envDefault:"http://127.0.0.1:8080"`
	APIToken    string        `env:"BB_API_TOKEN"`
	HTTPTimeout time.Duration `env:"BB_HTTP_TIMEOUT" envDefault:"30s"`

	DraftDBPath string `env:"BB_DRAFT_DB" envDefault:"balikbayani-drafts.db"`

	GelfAddr    string `env:"BB_GELF_ADDR"`
	LogLevel    string `env:"BB_LOG_LEVEL" envDefault:"info"`
	Environment string `env:"BB_ENV" envDefault:"development"`

	// Session selection.
	Module        string `env:"BB_MODULE" envDefault:"direct_hire"`
	ApplicationID string `env:"BB_APPLICATION_ID"`
	Correction    bool   `env:"BB_CORRECTION" envDefault:"false"`
	AnswersFile   string `env:"BB_ANSWERS_FILE"`

	// Embedded mock backend for offline runs.
	MockBackend   bool   `env:"BB_MOCK_BACKEND" envDefault:"false"`
	MockAddr      string `env:"BB_MOCK_ADDR" envDefault:"127.0.0.1:8080"`
	MockJWTSecret string `env:"BB_MOCK_JWT_SECRET" envDefault:"balikbayani-dev-secret-change-me"`
}

// Load reads configuration from the environment and an optional .env file.
// The .env file never overrides variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
