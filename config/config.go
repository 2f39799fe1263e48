// Package config reads the self-play settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	// Game is checkers or gofish.
	Game string `env:"TABLETOP_GAME" envDefault:"checkers"`
	// Variant is a YAML checkers variant file; empty means the default rules.
	Variant string `env:"TABLETOP_VARIANT"`
	Players int    `env:"TABLETOP_PLAYERS" envDefault:"2"`
	Games   int    `env:"TABLETOP_GAMES" envDefault:"10"`
	// Seed makes runs reproducible; zero seeds from the clock.
	Seed       uint64        `env:"TABLETOP_SEED"`
	MaxMoves   int           `env:"TABLETOP_MAX_MOVES" envDefault:"10000"`
	Goroutines int           `env:"TABLETOP_GOROUTINES" envDefault:"4"`
	Views      int           `env:"TABLETOP_VIEWS" envDefault:"8"`
	Timeout    time.Duration `env:"TABLETOP_TIMEOUT" envDefault:"0s"`
	OutDir     string        `env:"TABLETOP_OUT_DIR" envDefault:"experiments"`
	// Transcripts enables per-game move transcripts under OutDir.
	Transcripts bool   `env:"TABLETOP_TRANSCRIPTS" envDefault:"true"`
	LogLevel    string `env:"TABLETOP_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads dotenv files that exist, without overriding variables already
// set, then parses the environment. Callers apply their overrides and then
// call Validate.
func Load(dotenv ...string) (Config, error) {
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Game {
	case "checkers":
		if c.Players != 2 {
			return fmt.Errorf("checkers is played by 2, not %d", c.Players)
		}
	case "gofish":
		if c.Players < 2 || c.Players > 6 {
			return fmt.Errorf("go fish is played by 2 to 6, not %d", c.Players)
		}
	default:
		return fmt.Errorf("unknown game %q", c.Game)
	}
	if c.Games < 1 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.MaxMoves < 1 {
		return fmt.Errorf("max moves must be positive, got %d", c.MaxMoves)
	}
	if c.Goroutines < 1 || c.Views < 1 {
		return fmt.Errorf("goroutines and views must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
