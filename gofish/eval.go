package gofish

import (
	"tabletop/deck"
	"tabletop/game"
)

// BookLead scores a state for me by how many books I lead the best other seat
// by. Finished games score as game.Result.
func BookLead(me game.Token) game.Evaluate {
	return func(gs game.State) float64 {
		s, ok := gs.(*State)
		if !ok {
			panic("unexpected state type")
		}
		if s.Terminal() {
			return game.Result(s, me)
		}
		seat := s.seats.Index(me)
		best := 0
		for i, books := range s.books {
			if i != seat && len(books) > best {
				best = len(books)
			}
		}
		return float64(len(s.books[seat])-best) / Ranks
	}
}

// Determinize adapts View to callers holding a game.State.
func Determinize(gs game.State, viewer game.Token, n int, src deck.Source) ([]game.State, error) {
	s, ok := gs.(*State)
	if !ok {
		panic("unexpected state type")
	}
	views, err := s.View(viewer, n, src)
	if err != nil {
		return nil, err
	}
	out := make([]game.State, len(views))
	for i, v := range views {
		out[i] = v
	}
	return out, nil
}
