package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err, "A missing dotenv file is skipped")
		require.Equal(t, "checkers", cfg.Game)
		require.Equal(t, 2, cfg.Players)
		require.Equal(t, 10, cfg.Games)
		require.Equal(t, 10000, cfg.MaxMoves)
		require.Zero(t, cfg.Seed)
		require.True(t, cfg.Transcripts)
		require.Equal(t, zerolog.InfoLevel, cfg.Level())
		require.NoError(t, cfg.Validate())
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("TABLETOP_GAME", "gofish")
		t.Setenv("TABLETOP_PLAYERS", "4")
		t.Setenv("TABLETOP_SEED", "42")
		t.Setenv("TABLETOP_TIMEOUT", "1m")
		t.Setenv("TABLETOP_LOG_LEVEL", "debug")

		cfg, err := Load()

		require.NoError(t, err)
		require.Equal(t, "gofish", cfg.Game)
		require.Equal(t, 4, cfg.Players)
		require.Equal(t, uint64(42), cfg.Seed)
		require.Equal(t, time.Minute, cfg.Timeout)
		require.Equal(t, zerolog.DebugLevel, cfg.Level())
	})

	t.Run("dotenv does not override the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("TABLETOP_GAMES=3\nTABLETOP_VIEWS=2\n"), 0o600))
		t.Setenv("TABLETOP_VIEWS", "5")
		// Variables set by the file leak into the process; clear them after.
		t.Setenv("TABLETOP_GAMES", "")
		require.NoError(t, os.Unsetenv("TABLETOP_GAMES"))

		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, 3, cfg.Games)
		require.Equal(t, 5, cfg.Views)
	})

	t.Run("unparsable settings", func(t *testing.T) {
		t.Setenv("TABLETOP_GAMES", "many")

		_, err := Load()

		require.Error(t, err)
	})

	t.Run("overrides apply before validation", func(t *testing.T) {
		t.Setenv("TABLETOP_GAME", "gofish")
		t.Setenv("TABLETOP_PLAYERS", "7")

		cfg, err := Load()
		require.NoError(t, err)
		require.Error(t, cfg.Validate())

		cfg.Players = 4
		require.NoError(t, cfg.Validate())
	})

	t.Run("invalid settings", func(t *testing.T) {
		for name, vars := range map[string]map[string]string{
			"unknown game":      {"TABLETOP_GAME": "chess"},
			"checkers for four": {"TABLETOP_PLAYERS": "4"},
			"no games":          {"TABLETOP_GAMES": "0"},
			"bad log level":     {"TABLETOP_LOG_LEVEL": "loud"},
		} {
			t.Run(name, func(t *testing.T) {
				for k, v := range vars {
					t.Setenv(k, v)
				}

				cfg, err := Load()
				require.NoError(t, err)

				require.Error(t, cfg.Validate())
			})
		}
	})
}

func TestParseEnvError(t *testing.T) {
	var cfg Config
	t.Setenv("TABLETOP_MAX_MOVES", "not-an-int")

	err := ParseEnv(&cfg)

	require.ErrorContains(t, err, "parse env:")
}
