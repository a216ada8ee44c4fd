// Package config holds the game settings. Defaults live here; a .env file and
// ONEFIGHT_* environment variables override them, and command-line flags
// override both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the complete application configuration.
type Config struct {
	Mode         string        // duel, arena, roster or lobby; empty picks from the arguments
	Width        int           // board columns
	Height       int           // board rows, ground included
	Tick         time.Duration // pause between ticks
	Seed         int64         // spawn RNG seed, 0 for time based
	MaxFighters  int           // lobby capacity
	LogFile      string
	LogLevel     string
	HTTPAddr     string  // spectator and admin server, empty to disable
	SpectatorFPS float64 // frames per second pushed to spectators
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:        40,
		Height:       12,
		Tick:         30 * time.Millisecond,
		MaxFighters:  16,
		LogFile:      "onefight.log",
		LogLevel:     "info",
		SpectatorFPS: 10,
	}
}

// Load returns the defaults overridden by envFile (when it exists) and the
// process environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg := Default()
	cfg.Mode = getEnv("ONEFIGHT_MODE", cfg.Mode)
	if w := getEnvInt("ONEFIGHT_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("ONEFIGHT_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if d := getEnvDuration("ONEFIGHT_TICK", 0); d > 0 {
		cfg.Tick = d
	}
	if s := getEnvInt("ONEFIGHT_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}
	if n := getEnvInt("ONEFIGHT_MAX_FIGHTERS", 0); n > 0 {
		cfg.MaxFighters = n
	}
	cfg.LogFile = getEnv("ONEFIGHT_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getEnv("ONEFIGHT_LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPAddr = getEnv("ONEFIGHT_HTTP_ADDR", cfg.HTTPAddr)
	if fps := getEnvFloat("ONEFIGHT_SPECTATOR_FPS", 0); fps > 0 {
		cfg.SpectatorFPS = fps
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Width < 2:
		return fmt.Errorf("width %d: need at least 2 columns", c.Width)
	case c.Height < 2:
		return fmt.Errorf("height %d: need at least 2 rows", c.Height)
	case c.Tick <= 0:
		return fmt.Errorf("tick %s: must be positive", c.Tick)
	case c.MaxFighters < 1:
		return fmt.Errorf("max fighters %d: must be positive", c.MaxFighters)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
