package config

import (
	"os"
	"strconv"
	"time"

	"dartscorer/internal/engine"
)

type Config struct {
	Port          string
	DatabaseURL   string
	SQLitePath    string
	PresetsFile   string
	LogLevel      string
	ThrowDebounce int // milliseconds
	TurnDelay     int // milliseconds
	BustDelay     int // milliseconds
	LegDelay      int // milliseconds
	UndoCapacity  int
}

func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		PresetsFile:   os.Getenv("PRESETS_FILE"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ThrowDebounce: getEnvInt("THROW_DEBOUNCE_MS", 150),
		TurnDelay:     getEnvInt("TURN_DELAY_MS", 0),
		BustDelay:     getEnvInt("BUST_DELAY_MS", 1500),
		LegDelay:      getEnvInt("LEG_DELAY_MS", 2500),
		UndoCapacity:  getEnvInt("UNDO_CAPACITY", 50),
	}
	return cfg
}

// Engine converts the timing settings into controller configuration.
func (c Config) Engine() engine.Config {
	return engine.Config{
		Debounce:     ms(c.ThrowDebounce),
		TurnDelay:    ms(c.TurnDelay),
		BustDelay:    ms(c.BustDelay),
		LegDelay:     ms(c.LegDelay),
		UndoCapacity: c.UndoCapacity,
	}
}

func ms(v int) time.Duration {
	if v < 0 {
		return 0
	}
	return time.Duration(v) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
