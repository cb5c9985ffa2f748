// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"battleship-advisor/internal/engine"
)

// Config holds application configuration loaded from environment variables.
// Command-line flags start from these values.
type Config struct {
	Ceiling int           // BATTLESHIP_CEILING
	Budget  time.Duration // BATTLESHIP_BUDGET, e.g. "5s"; 0 disables
	Seed    uint64        // BATTLESHIP_SEED; 0 seeds from the clock
	KeysDir string        // BATTLESHIP_KEYS
	Addr    string        // BATTLESHIP_ADDR
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Ceiling: envInt("BATTLESHIP_CEILING", engine.DefaultCeiling),
		Budget:  envDuration("BATTLESHIP_BUDGET", 0),
		Seed:    uint64(envInt("BATTLESHIP_SEED", 0)),
		KeysDir: envOrDefault("BATTLESHIP_KEYS", "./keys"),
		Addr:    envOrDefault("BATTLESHIP_ADDR", ":8080"),
	}
}

// Engine returns the search settings.
func (c *Config) Engine() engine.Config {
	return engine.Config{Ceiling: c.Ceiling, Budget: c.Budget}
}

// Source returns the configured random source.
func (c *Config) Source() engine.Source {
	if c.Seed == 0 {
		return engine.NewSource(uint64(time.Now().UnixNano()))
	}
	return engine.NewSource(c.Seed)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}
