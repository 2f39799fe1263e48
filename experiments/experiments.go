// Package experiments plays batches of games between player configurations
// and stores their records as CSV, with optional move transcripts.
package experiments

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"tabletop/checkers"
	"tabletop/config"
	"tabletop/deck"
	"tabletop/engine"
	"tabletop/experiments/metrics"
	"tabletop/game"
	"tabletop/gofish"
	"tabletop/transcript"
)

// Table knows how to deal and judge one kind of game.
type Table struct {
	Name  string
	Seats int
	Deal  func(seats game.Seats, src deck.Source) (game.State, error)
	// Determinize is nil for games without hidden information.
	Determinize engine.Determinizer
	Evaluate    func(me game.Token) game.Evaluate
}

func Checkers(v checkers.Variant) Table {
	return Table{
		Name:  "checkers",
		Seats: 2,
		Deal: func(seats game.Seats, _ deck.Source) (game.State, error) {
			return checkers.New(v, seats)
		},
		Evaluate: checkers.Material,
	}
}

func GoFish(players int) Table {
	return Table{
		Name:  "gofish",
		Seats: players,
		Deal: func(seats game.Seats, src deck.Source) (game.State, error) {
			return gofish.New(seats, src)
		},
		Determinize: gofish.Determinize,
		Evaluate:    gofish.BookLead,
	}
}

type Experiment struct {
	Name  string
	Table Table
	// Games is the number of games per match up.
	Games int
	// Seed numbers the games; zero seeds from the clock.
	Seed     uint64
	MaxMoves int
	// Timeout bounds each game; zero means no bound.
	Timeout     time.Duration
	OutDir      string
	Transcripts bool
	Configs     []metrics.PlayerConfig
	// MatchUps seat one config per player, in turn order.
	MatchUps [][]metrics.PlayerConfig
}

type Summary struct {
	Dir    string
	Games  int
	Capped int
	// Wins counts games won per PlayerConfig.ID, shared wins included. A
	// config seated twice counts once per game.
	Wins map[int]int
}

// Strength seats one expectation player against random players, once in the
// first seat and once in the last.
func Strength(cfg config.Config) (Experiment, error) {
	exp, err := fromConfig("strength", cfg)
	if err != nil {
		return Experiment{}, err
	}
	expect := metrics.PlayerConfig{ID: 1, Kind: "expect", Goroutines: cfg.Goroutines, Views: cfg.Views}
	random := metrics.PlayerConfig{ID: 2, Kind: "random", Goroutines: 1}
	exp.Configs = []metrics.PlayerConfig{expect, random}

	leading := []metrics.PlayerConfig{expect}
	trailing := []metrics.PlayerConfig{}
	for i := 1; i < cfg.Players; i++ {
		leading = append(leading, random)
		trailing = append(trailing, random)
	}
	exp.MatchUps = [][]metrics.PlayerConfig{leading, append(trailing, expect)}
	return exp, nil
}

// Throughput pits equal expectation players against each other at growing
// goroutine counts.
func Throughput(cfg config.Config) (Experiment, error) {
	exp, err := fromConfig("throughput", cfg)
	if err != nil {
		return Experiment{}, err
	}
	for i, goroutines := range []int{1, 2, 4, 8, 16} {
		pc := metrics.PlayerConfig{ID: i + 1, Kind: "expect", Goroutines: goroutines, Views: cfg.Views}
		exp.Configs = append(exp.Configs, pc)
		matchUp := make([]metrics.PlayerConfig, cfg.Players)
		for seat := range matchUp {
			matchUp[seat] = pc
		}
		exp.MatchUps = append(exp.MatchUps, matchUp)
	}
	return exp, nil
}

func fromConfig(name string, cfg config.Config) (Experiment, error) {
	var table Table
	switch cfg.Game {
	case "checkers":
		v := checkers.DefaultVariant()
		if cfg.Variant != "" {
			var err error
			if v, err = checkers.LoadVariant(cfg.Variant); err != nil {
				return Experiment{}, err
			}
		}
		table = Checkers(v)
	case "gofish":
		table = GoFish(cfg.Players)
	default:
		return Experiment{}, fmt.Errorf("unknown game %q", cfg.Game)
	}
	return Experiment{
		Name:        fmt.Sprintf("%s_%s", table.Name, name),
		Table:       table,
		Games:       cfg.Games,
		Seed:        cfg.Seed,
		MaxMoves:    cfg.MaxMoves,
		Timeout:     cfg.Timeout,
		OutDir:      cfg.OutDir,
		Transcripts: cfg.Transcripts,
	}, nil
}

// NewPlayer builds the player a config describes.
func NewPlayer(pc metrics.PlayerConfig, table Table, src deck.Source) (engine.Player, error) {
	switch pc.Kind {
	case "random":
		return engine.NewRandomPlayer(src), nil
	case "expect":
		goroutines := max(pc.Goroutines, 1)
		return engine.NewExpectPlayer(goroutines, src,
			engine.WithViews(pc.Views),
			engine.WithDeterminizer(table.Determinize),
			engine.WithEvaluation(table.Evaluate),
			engine.WithMetrics(),
		), nil
	}
	return nil, fmt.Errorf("unknown player kind %q", pc.Kind)
}

func Run(ctx context.Context, exp Experiment) (Summary, error) {
	for i, matchUp := range exp.MatchUps {
		if len(matchUp) != exp.Table.Seats {
			return Summary{}, fmt.Errorf("match up %d seats %d players at a %d seat table", i+1, len(matchUp), exp.Table.Seats)
		}
	}
	seed := exp.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	// Store experiment metadata
	writer, err := metrics.NewWriter(exp.OutDir, exp.Name)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WritePlayerConfigs(exp.Configs); err != nil {
		return Summary{}, fmt.Errorf("failed to store player configs: %w", err)
	}
	log.Info().Msg("stored player configs")

	// Run a number of games for each matchup
	count := 0
	summary := Summary{Dir: writer.Dir(), Wins: map[int]int{}}
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment with seed %d...", exp.Name, seed)

	for mi, matchUp := range exp.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between %+v...", mi+1, len(exp.MatchUps), matchUp)

		for i := 0; i < exp.Games; i++ {
			count++
			result, err := runGame(ctx, exp, matchUp, count, seed+uint64(count), writer.Dir())
			if err != nil {
				return summary, err
			}

			ids := make([]int, len(matchUp))
			for seat, pc := range matchUp {
				ids[seat] = pc.ID
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Players:    ids,
				GameMetric: result.Game,
			})
			for _, mm := range result.Moves {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			summary.Games++
			if result.Capped {
				summary.Capped++
			}
			won := map[int]bool{}
			for _, seat := range result.seats {
				won[matchUp[seat].ID] = true
			}
			for id := range won {
				summary.Wins[id]++
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winners: %v", mi+1, len(exp.MatchUps), i+1, result.Winners)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(exp.MatchUps))
	}

	log.Info().Msgf("completed %s experiment", exp.Name)

	// Store experiment results
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return summary, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return summary, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return summary, nil
}

type gameResult struct {
	engine.Result
	// seats holds the winners' seat numbers.
	seats []int
}

// runGame plays one seeded game between the configs of matchUp.
func runGame(ctx context.Context, exp Experiment, matchUp []metrics.PlayerConfig, id int, seed uint64, dir string) (gameResult, error) {
	seats := game.SeededSeats(seed, len(matchUp))
	state, err := exp.Table.Deal(seats, deck.NewSource(seed))
	if err != nil {
		return gameResult{}, fmt.Errorf("deal game %d: %w", id, err)
	}

	players := make(map[game.Token]engine.Player, len(matchUp))
	for seat, pc := range matchUp {
		player, err := NewPlayer(pc, exp.Table, deck.NewSource(seed*7919+uint64(seat)+1))
		if err != nil {
			return gameResult{}, err
		}
		players[seats.At(seat)] = player
	}

	name := fmt.Sprintf("%s-%d", exp.Table.Name, id)
	options := []engine.Option{engine.WithName(name), engine.WithMaxMoves(exp.MaxMoves)}
	if exp.Transcripts {
		w, err := transcript.Create(filepath.Join(dir, "transcripts", name+".jsonl.zst"))
		if err != nil {
			return gameResult{}, err
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Error().Err(err).Msgf("%s: failed to close transcript", name)
			}
		}()
		options = append(options, engine.WithRecorder(w))
	}

	gameCtx := ctx
	if exp.Timeout > 0 {
		var cancel context.CancelFunc
		gameCtx, cancel = context.WithTimeout(ctx, exp.Timeout)
		defer cancel()
	}

	result, err := engine.Local(state, players, options...).Run(gameCtx)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return gameResult{}, err
		}
		log.Warn().Msgf("%s: out of time after %d moves", name, result.Game.TotalMoves)
	}

	out := gameResult{Result: result}
	for _, w := range result.Winners {
		out.seats = append(out.seats, seats.Index(w))
	}
	return out, nil
}
