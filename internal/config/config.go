package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv               string        `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr             string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL          string        `env:"DATABASE_URL" envDefault:"leadtracker.db"`
	RedisURL             string        `env:"REDIS_URL"`
	AnalyticsCacheTTL    time.Duration `env:"ANALYTICS_CACHE_TTL" envDefault:"5m"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	CORSAllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	TimelineDefaultLimit int           `env:"TIMELINE_DEFAULT_LIMIT" envDefault:"10"`
	DefaultPhoneRegion   string        `env:"DEFAULT_PHONE_REGION" envDefault:"US"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the given .env files (".env" when none are given; missing files
// are skipped) and then the process environment, which wins over file values.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.DefaultPhoneRegion = strings.ToUpper(strings.TrimSpace(cfg.DefaultPhoneRegion))

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.AnalyticsCacheTTL <= 0 {
		return fmt.Errorf("ANALYTICS_CACHE_TTL must be > 0")
	}
	if cfg.TimelineDefaultLimit <= 0 {
		return fmt.Errorf("TIMELINE_DEFAULT_LIMIT must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	if len(cfg.DefaultPhoneRegion) != 2 {
		return fmt.Errorf("DEFAULT_PHONE_REGION must be a two letter region code")
	}

	if IsProdLike(cfg.AppEnv) {
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return fmt.Errorf("in prod/release DATABASE_URL must point at postgres")
		}
		for _, o := range cfg.CORSAllowedOrigins {
			if strings.TrimSpace(o) == "*" {
				return fmt.Errorf("in prod/release CORS_ALLOWED_ORIGINS must not contain *")
			}
		}
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}
