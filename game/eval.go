package game

// WinLoss scores only finished games for me: 1 for a sole win, 0 for a shared
// win or an unfinished game and -1 for a loss.
func WinLoss(me Token) Evaluate {
	return func(s State) float64 {
		if !s.Terminal() {
			return 0
		}
		return Result(s, me)
	}
}

// Result scores a terminal state for me.
func Result(s State, me Token) float64 {
	winners := s.Winners()
	for _, w := range winners {
		if w == me {
			if len(winners) == 1 {
				return 1
			}
			return 0
		}
	}
	return -1
}
