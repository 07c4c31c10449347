package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Khata"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Storage struct {
		DataDir string `envconfig:"DATA_DIR" default:"./data"`
	}

	// Firebase is optional: without it the app runs anonymous-only, with
	// every record kept in the local store.
	Firebase struct {
		APIKey    string `envconfig:"FIREBASE_API_KEY"`
		ProjectID string `envconfig:"FIREBASE_PROJECT_ID"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

// CloudEnabled reports whether both Firebase settings are present. One
// without the other is treated as absent.
func (c *Config) CloudEnabled() bool {
	return c.Firebase.APIKey != "" && c.Firebase.ProjectID != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
