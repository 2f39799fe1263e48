package engine

import (
	"context"
	"fmt"
	"sync"

	"tabletop/deck"
	"tabletop/experiments/metrics"
	"tabletop/game"
)

// Determinizer samples up to n states viewer cannot tell apart from s.
type Determinizer func(s game.State, viewer game.Token, n int, src deck.Source) ([]game.State, error)

type ExpectOption func(p *ExpectPlayer)

// ExpectPlayer looks one move ahead. It scores every legal move by its exact
// expectation over chance outcomes, averaged over determinized views of the
// hidden information, and plays the best.
type ExpectPlayer struct {
	goroutines  int
	views       int
	src         deck.Source
	determinize Determinizer
	evaluate    func(me game.Token) game.Evaluate
	metrics     metrics.Collector
}

func WithViews(views int) ExpectOption {
	return func(p *ExpectPlayer) {
		if views > 0 {
			p.views = views
		}
	}
}

func WithDeterminizer(d Determinizer) ExpectOption {
	return func(p *ExpectPlayer) {
		p.determinize = d
	}
}

func WithEvaluation(evaluate func(me game.Token) game.Evaluate) ExpectOption {
	return func(p *ExpectPlayer) {
		if evaluate != nil {
			p.evaluate = evaluate
		}
	}
}

func WithMetrics() ExpectOption {
	return func(p *ExpectPlayer) {
		p.metrics = metrics.NewCollector()
	}
}

func NewExpectPlayer(goroutines int, src deck.Source, options ...ExpectOption) *ExpectPlayer {
	if goroutines < 1 {
		panic("need at least one goroutine")
	}
	p := &ExpectPlayer{ // Default values
		goroutines: goroutines,
		views:      1,
		src:        src,
		evaluate:   game.WinLoss,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *ExpectPlayer) Choose(ctx context.Context, state game.State) (game.Move, metrics.DecisionMetric, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, metrics.DecisionMetric{}, fmt.Errorf("no legal moves for %v", state.Player())
	}
	me := state.Player()

	p.metrics.Start(p.goroutines, len(moves))
	if len(moves) == 1 {
		return moves[0], p.metrics.Complete(), nil
	}

	views := []game.State{state}
	if p.determinize != nil {
		sampled, err := p.determinize(state, me, p.views, p.src)
		if err != nil {
			return nil, p.metrics.Complete(), fmt.Errorf("determinize: %w", err)
		}
		if len(sampled) > 0 {
			views = sampled
		}
	}

	scores, err := p.score(ctx, views, moves, me)
	metric := p.metrics.Complete()
	if err != nil {
		return nil, metric, err
	}

	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	return moves[best], metric, nil
}

// score sums each move's expectation over views, spread across goroutines.
func (p *ExpectPlayer) score(ctx context.Context, views []game.State, moves []game.Move, me game.Token) ([]float64, error) {
	task := make(chan game.State, len(views))
	for _, view := range views {
		task <- view
	}
	close(task)

	totals := make([]float64, len(moves))
	var mu sync.Mutex
	var firstErr error

	var wg sync.WaitGroup
	for i := 0; i < p.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			local := make([]float64, len(moves))
			for view := range task {
				if ctx.Err() != nil {
					continue
				}
				if err := p.scoreView(view, moves, me, local); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				p.metrics.AddView()
			}

			mu.Lock()
			for i, v := range local {
				totals[i] += v
			}
			mu.Unlock()
		}()
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return totals, firstErr
}

func (p *ExpectPlayer) scoreView(view game.State, moves []game.Move, me game.Token, acc []float64) error {
	evaluate := p.evaluate(me)
	outcomes := 0
	counted := func(s game.State) float64 {
		outcomes++
		return evaluate(s)
	}
	defer func() { p.metrics.AddOutcomes(outcomes) }()

	available := view.LegalMoves()
	for i, m := range moves {
		var match game.Move
		for _, candidate := range available {
			if candidate.Compare(m) == 0 {
				match = candidate
				break
			}
		}
		if match == nil {
			continue
		}
		score, err := game.Expect(view, match, counted)
		if err != nil {
			return fmt.Errorf("expect %v: %w", m, err)
		}
		acc[i] += score
	}
	return nil
}
