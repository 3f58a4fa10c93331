package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	BackendURL string        `env:"ODASH_BACKEND_URL"`
	Timeout    time.Duration `env:"ODASH_TIMEOUT" envDefault:"30s"`
	HTTPAddr   string        `env:"ODASH_HTTP_ADDR" envDefault:":8080"`
	StatusFile string        `env:"ODASH_STATUS_FILE"`
	Log        LogConfig     `envPrefix:"ODASH_LOG_"`
	UserAgent  string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Encoding    string `env:"ENCODING" envDefault:"console"`
	Development bool   `env:"DEVELOPMENT"`
}

// Overrides carries CLI flag values; empty fields keep the env value.
type Overrides struct {
	BackendURL string
	Timeout    time.Duration
	HTTPAddr   string
	StatusFile string
	LogLevel   string
}

// Load reads configuration from environment variables (and optional .env file).
// CLI flag values passed in overrides take precedence over env vars.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file if it exists (ignoring errors if missing)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	cfg.UserAgent = "odash-cli (https://github.com/jefrnc/optionsdash)"

	// The dashboard frontend used this name; keep honouring it.
	if cfg.BackendURL == "" {
		cfg.BackendURL = os.Getenv("REACT_APP_BACKEND_URL")
	}

	// CLI flags override env vars
	if overrides.BackendURL != "" {
		cfg.BackendURL = overrides.BackendURL
	}
	if overrides.Timeout != 0 {
		cfg.Timeout = overrides.Timeout
	}
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.StatusFile != "" {
		cfg.StatusFile = overrides.StatusFile
	}
	if overrides.LogLevel != "" {
		cfg.Log.Level = overrides.LogLevel
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.BackendURL == "" {
		return nil
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", c.BackendURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend URL %q must start with http:// or https://", c.BackendURL)
	}
	return nil
}
