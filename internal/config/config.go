package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the journal server.
type Config struct {
	DatabaseURL string
	HTTPAddr    string
	Timezone    string
	// RecurrenceCheckAt is the local HH:MM after which the daily recurrence
	// check may run.
	RecurrenceCheckAt string
	TelegramToken     string
	TelegramChatID    int64
	LogLevel          slog.Level
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:          strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		Timezone:          strings.TrimSpace(os.Getenv("TIMEZONE")),
		RecurrenceCheckAt: strings.TrimSpace(os.Getenv("RECURRENCE_CHECK_TIME")),
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		LogLevel:          parseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "journal.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":5555"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.RecurrenceCheckAt == "" {
		cfg.RecurrenceCheckAt = "08:00"
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer")
		}
		cfg.TelegramChatID = id
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	if _, _, err := ParseClock(cfg.RecurrenceCheckAt); err != nil {
		return cfg, fmt.Errorf("RECURRENCE_CHECK_TIME: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseClock parses an "HH:MM" string.
func ParseClock(value string) (hour, minute int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
