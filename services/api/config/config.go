package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/02loveslollipop/guardian-views/internal/models"
)

// PathEnvVar names the optional YAML config file.
const PathEnvVar = "CONFIG_PATH"

// Config holds settings for the REST API. Precedence is environment, then
// the optional YAML file, then defaults.
type Config struct {
	DatabaseURL       string `koanf:"database_url" validate:"required"`
	ConfigDatabaseURL string `koanf:"config_database_url"`
	Port              int    `koanf:"port" validate:"min=1,max=65535"`
	BearerToken       string `koanf:"api_bearer_token"`

	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	RateLimitRPS   float64       `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int           `koanf:"rate_limit_burst" validate:"gte=0"`

	AllowedImageExtensions []string `koanf:"allowed_image_extensions"`
	AllowedAudioExtensions []string `koanf:"allowed_audio_extensions"`
	AllowedVideoExtensions []string `koanf:"allowed_video_extensions"`

	BreakerFailures uint32        `koanf:"db_breaker_failures" validate:"min=1"`
	BreakerTimeout  time.Duration `koanf:"db_breaker_timeout" validate:"gt=0"`
}

func defaults() Config {
	ext := models.DefaultAllowedFileExtensions()
	return Config{
		Port:                   8080,
		LogLevel:               "info",
		LogFormat:              "json",
		RequestTimeout:         15 * time.Second,
		RateLimitBurst:         20,
		AllowedImageExtensions: ext.Image,
		AllowedAudioExtensions: ext.Audio,
		AllowedVideoExtensions: ext.Video,
		BreakerFailures:        5,
		BreakerTimeout:         30 * time.Second,
	}
}

var sliceKeys = []string{
	"allowed_image_extensions",
	"allowed_audio_extensions",
	"allowed_video_extensions",
}

// Load reads configuration from defaults, an optional YAML file named by
// CONFIG_PATH and environment variables (optionally from .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv(PathEnvVar)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := splitSlices(k); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.ConfigDatabaseURL == "" {
		cfg.ConfigDatabaseURL = cfg.DatabaseURL
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// splitSlices turns comma separated env values into lists.
func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return errors.New("invalid configuration: RATE_LIMIT_BURST must be at least 1 when RATE_LIMIT_RPS is set")
	}
	return nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AllowedFileExtensions groups the configured media extensions.
func (c Config) AllowedFileExtensions() models.AllowedFileExtensions {
	return models.AllowedFileExtensions{
		Image: c.AllowedImageExtensions,
		Audio: c.AllowedAudioExtensions,
		Video: c.AllowedVideoExtensions,
	}
}
