package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds runtime configuration for the table sync job.
type Config struct {
	DatabaseURL       string        `koanf:"database_url" validate:"required"`
	ConfigDatabaseURL string        `koanf:"config_database_url"`
	Timeout           time.Duration `koanf:"tablesync_timeout" validate:"gt=0"`
	LogLevel          string        `koanf:"log_level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	LogFormat         string        `koanf:"log_format" validate:"oneof=json console"`
	DryRun            bool          `koanf:"dry_run"`
}

func defaults() Config {
	return Config{
		Timeout:   30 * time.Second,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads configuration from environment variables (optionally .env).
// Empty variables keep their defaults.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return strings.ToLower(key), strings.TrimSpace(value)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.ConfigDatabaseURL == "" {
		cfg.ConfigDatabaseURL = cfg.DatabaseURL
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
