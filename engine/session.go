package engine

import (
	"fmt"
	"sync"

	"tabletop/game"
)

type Update struct {
	Step  int
	Move  game.Move
	State game.State
}

// Observer is called with every accepted move, in order.
type Observer func(Update)

// Session holds the authoritative state of one game and accepts only legal
// moves. It is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	state     game.State
	step      int
	observers []Observer
}

func NewSession(initial game.State, observers ...Observer) *Session {
	return &Session{
		state:     initial,
		observers: observers,
	}
}

func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Step returns the number of moves played.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Play applies move if it is legal in the current state and returns the new
// state.
func (s *Session) Play(move game.Move) (game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return nil, ErrGameOver
	}

	next, err := game.MakeMove(s.state, move)
	if err != nil {
		return nil, fmt.Errorf("illegal move at step %d: %w", s.step+1, err)
	}
	s.state = next
	s.step++

	u := Update{Step: s.step, Move: move, State: next}
	for _, observe := range s.observers {
		observe(u)
	}
	return next, nil
}
