package checkers

import "tabletop/game"

// Material scores a state for me by the balance of men and kings, a king
// counting twice. Finished games score as game.Result.
func Material(me game.Token) game.Evaluate {
	return func(gs game.State) float64 {
		s, ok := gs.(*State)
		if !ok {
			panic("unexpected state type")
		}
		if s.Terminal() {
			return game.Result(s, me)
		}
		seat := s.seats.Index(me)
		mine, theirs := 0.0, 0.0
		for _, p := range s.board.pieces {
			if p == Empty {
				continue
			}
			value := 1.0
			if p.IsKing() {
				value = 2
			}
			if p.Side() == seat {
				mine += value
			} else {
				theirs += value
			}
		}
		if mine+theirs == 0 {
			return 0
		}
		return (mine - theirs) / (mine + theirs)
	}
}
