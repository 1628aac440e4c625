package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// RedisURL is optional. Without it the badge counter lives in memory.
	RedisURL string

	NotificationDisplay time.Duration
	NotificationExit    time.Duration

	ImportDuration time.Duration
	ExportDuration time.Duration
	ImportMaxBytes int64

	BadgeInterval time.Duration
	BadgeInitial  int

	EventBuffer int64
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.NotificationDisplay, err = getMillis("NOTIFICATION_DISPLAY_MS", 3000); err != nil {
		return nil, err
	}
	if cfg.NotificationExit, err = getMillis("NOTIFICATION_EXIT_MS", 300); err != nil {
		return nil, err
	}
	if cfg.ImportDuration, err = getMillis("IMPORT_DURATION_MS", 2000); err != nil {
		return nil, err
	}
	if cfg.ExportDuration, err = getMillis("EXPORT_DURATION_MS", 2000); err != nil {
		return nil, err
	}

	seconds, err := getInt("BADGE_INTERVAL_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("BADGE_INTERVAL_SECONDS must be positive, got %d", seconds)
	}
	cfg.BadgeInterval = time.Duration(seconds) * time.Second

	if cfg.BadgeInitial, err = getInt("BADGE_INITIAL", 3); err != nil {
		return nil, err
	}
	if cfg.BadgeInitial < 0 {
		cfg.BadgeInitial = 0
	}

	maxBytes, err := getInt("IMPORT_MAX_BYTES", 5*1024*1024)
	if err != nil {
		return nil, err
	}
	cfg.ImportMaxBytes = int64(maxBytes)

	buffer, err := getInt("EVENT_BUFFER", 64)
	if err != nil {
		return nil, err
	}
	cfg.EventBuffer = int64(buffer)

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func getMillis(key string, fallback int) (time.Duration, error) {
	n, err := getInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", key, n)
	}
	return time.Duration(n) * time.Millisecond, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
