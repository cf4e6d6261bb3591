package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	API struct {
		BaseURL string `envconfig:"QUIZDECK_API_URL" required:"true"`
		// AuthURL defaults to BaseURL when empty.
		AuthURL string `envconfig:"QUIZDECK_AUTH_URL"`
	}
	Timeouts struct {
		Default     time.Duration `envconfig:"QUIZDECK_TIMEOUT" default:"15s"`
		Upload      time.Duration `envconfig:"QUIZDECK_UPLOAD_TIMEOUT" default:"2m"`
		LongRunning time.Duration `envconfig:"QUIZDECK_LONG_RUNNING_TIMEOUT" default:"5m"`
	}
	Credentials struct {
		Path string `envconfig:"QUIZDECK_CREDS_PATH"`
	}
	Session struct {
		LogoutGrace time.Duration `envconfig:"QUIZDECK_LOGOUT_GRACE" default:"250ms"`
	}
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config from environment: %w", err)
	}
	if cfg.API.AuthURL == "" {
		cfg.API.AuthURL = cfg.API.BaseURL
	}
	return &cfg, nil
}
