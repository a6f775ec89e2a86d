package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Addr     string
	BaseURL  string
	Timezone string
	DB       DBConfig
	Cache    CacheConfig
	Log      LogConfig
}

type DBConfig struct {
	Driver string // sqlite or postgres
	DSN    string
}

type CacheConfig struct {
	RedisURL string // empty disables the view cache
	TTL      time.Duration
}

type LogConfig struct {
	Level  string
	Format string // text or json
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment. Non-empty flag values win
// over the environment.
func Load(flagAddr, flagDSN string) (Config, error) {
	cfg := Config{
		Addr:     getEnv("CRM_ADDR", ":8080"),
		BaseURL:  getEnv("CRM_BASE_URL", "http://localhost:8080"),
		Timezone: getEnv("CRM_TIMEZONE", "Local"),
		DB: DBConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DATABASE_URL", "crm.db"),
		},
		Cache: CacheConfig{
			RedisURL: getEnv("REDIS_URL", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagDSN != "" {
		cfg.DB.DSN = flagDSN
	}

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	cfg.Cache.TTL = ttl

	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	return cfg, nil
}

// Location resolves the configured time zone used for form dates without an offset.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
