// Package engine drives games between players: it validates every move
// against the current state, records what happened and stops at a move cap.
package engine

import (
	"context"
	"errors"

	"tabletop/experiments/metrics"
	"tabletop/game"
)

const MaxMoves = 10000

var ErrGameOver = errors.New("game is over")

// Player chooses a move for state.Player().
type Player interface {
	Choose(ctx context.Context, state game.State) (game.Move, metrics.DecisionMetric, error)
}

// Result is how a game run ended.
type Result struct {
	State   game.State
	Winners []game.Token
	// Capped is set when the move cap stopped the game before a winner.
	Capped bool
	Game   metrics.GameMetric
	Moves  []metrics.MoveMetric
}
