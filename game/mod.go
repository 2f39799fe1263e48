package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrNotImplemented = errors.New("not implemented")
)

// Phase tags which subset of moves a state currently permits. Each game
// declares its own phases.
type Phase int

// State is an immutable snapshot of one game instant. Operations on a State
// always return a new State.
type State interface {
	// Player returns the token allowed to move.
	Player() Token
	Phase() Phase
	Terminal() bool
	// Pending returns the active sub-turn, or nil.
	Pending() Interstitial
	// LegalMoves returns the moves for the current phase, or exactly the
	// pending sub-turn's moves when one is active.
	LegalMoves() []Move
	// Compare is a total order over states of the same game: 0 iff every
	// observable and hidden field is equal.
	Compare(State) int
	// Winners is empty unless the state is terminal.
	Winners() []Token
}

// Move is a candidate transition bound to the state it was generated against.
type Move interface {
	Origin() State
	Player() Token
	IsStochastic() bool
	// Apply produces the successor of Origin. Stochastic moves resolve their
	// chance event from the hidden fields of Origin. Legality is checked by
	// MakeMove and Outcomes, not here.
	Apply() (State, error)
	// Compare orders moves of the same game; 0 means legality-equivalent.
	Compare(Move) int
}

// Stochastic is implemented by moves whose result depends on hidden chance.
type Stochastic interface {
	Move
	Outcomes() ([]Outcome, error)
}

// Outcome is one possible successor of a move and its relative weight.
type Outcome struct {
	State  State
	Weight int
}

// Interstitial overrides normal move enumeration with a fixed, narrower move
// set until a later move consumes it.
type Interstitial interface {
	Kind() string
	Moves(State) []Move
	Compare(Interstitial) int
}

// Evaluate scores a state between -1 and 1 for the player it was built for.
type Evaluate func(State) float64

// Enumerate implements the common shape of LegalMoves: nothing once
// terminal, the pending sub-turn's moves when one is active, and otherwise
// the phase's moves.
func Enumerate(s State, byPhase func() []Move) []Move {
	if s.Terminal() {
		return nil
	}
	if pending := s.Pending(); pending != nil {
		return pending.Moves(s)
	}
	return byPhase()
}

// IsLegal reports whether m was generated against a state equal to s and is
// equivalent to one of s's legal moves.
func IsLegal(s State, m Move) bool {
	if m == nil || m.Origin() == nil {
		return false
	}
	if m.Origin().Compare(s) != 0 {
		return false
	}
	for _, legal := range s.LegalMoves() {
		if legal.Compare(m) == 0 {
			return true
		}
	}
	return false
}

// MakeMove applies m to s. A move that is not available in s is a
// precondition violation reported as ErrInvalidMove.
func MakeMove(s State, m Move) (State, error) {
	if err := validate(s, m); err != nil {
		return nil, err
	}
	next, err := m.Apply()
	if err != nil {
		return nil, fmt.Errorf("apply %v: %w", m, err)
	}
	return next, nil
}

// Outcomes lists every successor of m with its relative weight. A
// deterministic move has a single outcome of weight 1.
func Outcomes(s State, m Move) ([]Outcome, error) {
	if err := validate(s, m); err != nil {
		return nil, err
	}
	if !m.IsStochastic() {
		next, err := m.Apply()
		if err != nil {
			return nil, fmt.Errorf("apply %v: %w", m, err)
		}
		return []Outcome{{State: next, Weight: 1}}, nil
	}
	stochastic, ok := m.(Stochastic)
	if !ok {
		return nil, fmt.Errorf("outcomes of %T: %w", m, ErrNotImplemented)
	}
	outcomes, err := stochastic.Outcomes()
	if err != nil {
		return nil, fmt.Errorf("outcomes of %v: %w", m, err)
	}
	return outcomes, nil
}

// TotalWeight sums the weights of outcomes.
func TotalWeight(outcomes []Outcome) int {
	total := 0
	for _, o := range outcomes {
		total += o.Weight
	}
	return total
}

// Expect returns the exact expected score of playing m in s, weighting each
// outcome by its relative likelihood.
func Expect(s State, m Move, evaluate Evaluate) (float64, error) {
	outcomes, err := Outcomes(s, m)
	if err != nil {
		return 0, err
	}
	total := TotalWeight(outcomes)
	if total <= 0 {
		return 0, fmt.Errorf("outcomes of %v carry no weight", m)
	}
	sum := 0.0
	for _, o := range outcomes {
		sum += float64(o.Weight) * evaluate(o.State)
	}
	return sum / float64(total), nil
}

func validate(s State, m Move) error {
	if m == nil {
		return fmt.Errorf("%w: nil move", ErrInvalidMove)
	}
	if m.Origin() == nil || m.Origin().Compare(s) != 0 {
		return fmt.Errorf("%w: %v was generated against a different state", ErrInvalidMove, m)
	}
	if !IsLegal(s, m) {
		return fmt.Errorf("%w: %v is not available", ErrInvalidMove, m)
	}
	return nil
}
