package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tabletop/experiments/metrics"
	"tabletop/game"
	"tabletop/transcript"
)

// Recorder receives one entry per move played.
type Recorder interface {
	Write(transcript.Entry) error
}

type Option func(e *Engine)

func WithMaxMoves(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxMoves = n
		}
	}
}

func WithName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// Engine runs one game between local players.
type Engine struct {
	initial   game.State
	players   map[game.Token]Player
	name      string
	maxMoves  int
	recorder  Recorder
	observers []Observer
}

func Local(initial game.State, players map[game.Token]Player, options ...Option) *Engine {
	if len(players) < 1 {
		panic("need at least one player")
	}
	e := &Engine{
		initial:  initial,
		players:  players,
		name:     "game",
		maxMoves: MaxMoves,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run plays until the game ends, the move cap is reached or ctx is done.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	session := NewSession(e.initial, e.observers...)
	state := session.State()
	start := time.Now()
	result := Result{
		State: state,
		Game: metrics.GameMetric{
			Game:           e.name,
			StartingPlayer: state.Player().String(),
			StartTime:      start,
		},
	}

	log.Info().Msgf("%s: player %v is starting", e.name, state.Player())

	for !state.Terminal() && session.Step() < e.maxMoves {
		if err := ctx.Err(); err != nil {
			return e.finish(result, state, session.Step()), fmt.Errorf("%s stopped at step %d: %w", e.name, session.Step(), err)
		}

		mover := state.Player()
		player, ok := e.players[mover]
		if !ok {
			return e.finish(result, state, session.Step()), fmt.Errorf("%s: no player for %v", e.name, mover)
		}

		move, decision, err := player.Choose(ctx, state)
		if err != nil {
			return e.finish(result, state, session.Step()), fmt.Errorf("%s: player %v: %w", e.name, mover, err)
		}

		next, err := session.Play(move)
		if err != nil {
			log.Error().Err(err).Msgf("%s: player %v played %v", e.name, mover, move)
			return e.finish(result, state, session.Step()), err
		}
		state = next

		step := session.Step()
		result.Moves = append(result.Moves, metrics.MoveMetric{
			Step:           step,
			Player:         mover.String(),
			Move:           fmt.Sprint(move),
			Stochastic:     move.IsStochastic(),
			DecisionMetric: decision,
		})
		log.Debug().Msgf("%s: step %d: %v played %v", e.name, step, mover, move)

		if e.recorder != nil {
			entry := transcript.Entry{
				Game:       e.name,
				Step:       step,
				Player:     mover.String(),
				Move:       fmt.Sprint(move),
				Stochastic: move.IsStochastic(),
				Terminal:   state.Terminal(),
				Winners:    tokenStrings(state.Winners()),
			}
			if err := e.recorder.Write(entry); err != nil {
				return e.finish(result, state, step), fmt.Errorf("%s: record step %d: %w", e.name, step, err)
			}
		}
	}

	result = e.finish(result, state, session.Step())
	if result.Capped {
		log.Warn().Msgf("%s: stopped after %d moves (no winner yet)", e.name, result.Game.TotalMoves)
	} else {
		log.Info().Msgf("%s: game over after %d moves, winners %v", e.name, result.Game.TotalMoves, result.Winners)
	}
	return result, nil
}

func (e *Engine) finish(result Result, state game.State, moves int) Result {
	end := time.Now()
	result.State = state
	result.Winners = state.Winners()
	result.Capped = !state.Terminal()
	result.Game.Winners = tokenStrings(result.Winners)
	result.Game.EndTime = end
	result.Game.Duration = end.Sub(result.Game.StartTime)
	result.Game.TotalMoves = moves
	result.Game.Capped = result.Capped
	return result
}

func tokenStrings(tokens []game.Token) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}
