package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	SiteURL     string `env:"SITE_URL" default:"http://localhost:5173"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	PlaceholdersPath string        `env:"PLACEHOLDERS_PATH" default:"public/images/generated/placeholders.json"`
	PlaceholdersTTL  time.Duration `env:"PLACEHOLDERS_TTL" default:"10m"`

	MaxWebSocketConnections int `env:"MAX_WEBSOCKET_CONNECTIONS" default:"10000"`

	CommentRatePerSecond float64 `env:"COMMENT_RATE_PER_SECOND" default:"0.2"`
	CommentBurst         int     `env:"COMMENT_BURST" default:"3"`
}

// RedisEnabled reports whether change events are shared across instances.
// Without Redis the server relays changes in-process only.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"SITE_URL":     cfg.SiteURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	u, err := url.Parse(cfg.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SITE_URL must be an absolute URL, got %q", cfg.SiteURL)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.MaxWebSocketConnections <= 0 {
		return errors.New("MAX_WEBSOCKET_CONNECTIONS must be positive")
	}

	if cfg.CommentRatePerSecond <= 0 || cfg.CommentBurst <= 0 {
		return errors.New("COMMENT_RATE_PER_SECOND and COMMENT_BURST must be positive")
	}

	return nil
}
