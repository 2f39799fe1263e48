package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tabletop/deck"
	"tabletop/experiments/metrics"
	"tabletop/game"
)

// PlayerFunc adapts a plain function to Player.
type PlayerFunc func(ctx context.Context, state game.State) (game.Move, error)

func (f PlayerFunc) Choose(ctx context.Context, state game.State) (game.Move, metrics.DecisionMetric, error) {
	start := time.Now()
	move, err := f(ctx, state)
	return move, metrics.DecisionMetric{
		Goroutines: 1,
		Duration:   time.Since(start),
		Candidates: 1,
	}, err
}

// RandomPlayer picks uniformly among the legal moves.
type RandomPlayer struct {
	mu  sync.Mutex
	src deck.Source
}

func NewRandomPlayer(src deck.Source) *RandomPlayer {
	return &RandomPlayer{src: src}
}

func (p *RandomPlayer) Choose(ctx context.Context, state game.State) (game.Move, metrics.DecisionMetric, error) {
	start := time.Now()
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, metrics.DecisionMetric{}, fmt.Errorf("no legal moves for %v", state.Player())
	}

	p.mu.Lock()
	i := p.src.Intn(len(moves))
	p.mu.Unlock()

	return moves[i], metrics.DecisionMetric{
		Goroutines: 1,
		Duration:   time.Since(start),
		Candidates: len(moves),
	}, nil
}
