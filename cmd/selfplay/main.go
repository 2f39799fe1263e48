package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tabletop/config"
	"tabletop/experiments"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Flags override the environment
	experiment := flag.String("experiment", "strength", "Experiment to run: strength or throughput")
	flag.StringVar(&cfg.Game, "game", cfg.Game, "Game to play: checkers or gofish")
	flag.StringVar(&cfg.Variant, "variant", cfg.Variant, "YAML checkers variant file")
	flag.IntVar(&cfg.Players, "players", cfg.Players, "Number of seats")
	flag.IntVar(&cfg.Games, "games", cfg.Games, "Games per match up")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed of the first game, 0 for the clock")
	flag.IntVar(&cfg.MaxMoves, "max-moves", cfg.MaxMoves, "Move cap per game")
	flag.IntVar(&cfg.Goroutines, "goroutines", cfg.Goroutines, "Goroutines per expectation player")
	flag.IntVar(&cfg.Views, "views", cfg.Views, "Determinized views per decision")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Time limit per game, 0 for none")
	flag.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory for records and transcripts")
	flag.BoolVar(&cfg.Transcripts, "transcripts", cfg.Transcripts, "Write move transcripts")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var exp experiments.Experiment
	switch *experiment {
	case "strength":
		exp, err = experiments.Strength(cfg)
	case "throughput":
		exp, err = experiments.Throughput(cfg)
	default:
		log.Fatal().Msgf("unknown experiment %q", *experiment)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up experiment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := experiments.Run(ctx, exp)
	if err != nil {
		log.Fatal().Err(err).Msgf("%s experiment failed", exp.Name)
	}
	for _, pc := range exp.Configs {
		log.Info().Msgf("player %d (%s, %d goroutines): won %d of %d games", pc.ID, pc.Kind, pc.Goroutines, summary.Wins[pc.ID], summary.Games)
	}
	log.Info().Msgf("%d games capped, records in %s", summary.Capped, summary.Dir)
}
