package checkers

import (
	"cmp"
	"fmt"

	"tabletop/game"
	"tabletop/legality"
)

type Action int

const (
	Step Action = iota
	Jump
	// Claim removes the offender left by a skipped better capture. It does
	// not end the claimer's turn.
	Claim
)

type Move struct {
	origin *State
	Action Action
	From   Square
	To     Square
}

func (m Move) Origin() game.State {
	if m.origin == nil {
		return nil
	}
	return m.origin
}

func (m Move) Player() game.Token {
	return m.origin.Player()
}

func (m Move) IsStochastic() bool {
	return false
}

func (m Move) Apply() (game.State, error) {
	if m.origin == nil {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidMove, m)
	}
	return m.origin.advance(m, true), nil
}

func (m Move) Compare(other game.Move) int {
	o, ok := other.(Move)
	if !ok {
		return game.CompareTypes(m, other)
	}
	if c := cmp.Compare(m.Action, o.Action); c != 0 {
		return c
	}
	if c := cmp.Compare(m.From, o.From); c != 0 {
		return c
	}
	return cmp.Compare(m.To, o.To)
}

// over returns the square a jump captures on.
func (m Move) over() Square {
	return (m.From + m.To) / 2
}

func (m Move) String() string {
	width := 8
	if m.origin != nil {
		width = m.origin.rules.width
	}
	switch m.Action {
	case Jump:
		return m.From.Name(width) + "x" + m.To.Name(width)
	case Claim:
		return "claim " + m.From.Name(width)
	}
	return m.From.Name(width) + "-" + m.To.Name(width)
}

func asGameMoves(moves []Move) []game.Move {
	out := make([]game.Move, len(moves))
	for i, m := range moves {
		out[i] = m
	}
	return out
}

func (s *State) phaseMoves() []game.Move {
	jumps := s.jumps()
	var moves []Move
	switch {
	case len(jumps) == 0:
		moves = s.steps()
	case s.rules.impact == legality.ImpactIllegal:
		moves, _ = s.ranker().Best(s, jumps)
	case s.rules.impact == legality.ImpactPenalty:
		moves = append(s.steps(), jumps...)
	default:
		moves = jumps
	}
	if s.offender != NoSquare {
		moves = append(moves, Move{origin: s, Action: Claim, From: s.offender, To: s.offender})
	}
	return asGameMoves(moves)
}

func (s *State) chainMoves() []game.Move {
	jumps := s.jumpsFrom(s.pending.at)
	if s.rules.impact == legality.ImpactIllegal {
		jumps, _ = s.ranker().Best(s, jumps)
	}
	return asGameMoves(jumps)
}

// directions returns the diagonals p may move along.
func directions(p Piece) []direction {
	if p.IsKing() {
		return diagonals
	}
	var out []direction
	for _, d := range diagonals {
		if d.dr == p.forward() {
			out = append(out, d)
		}
	}
	return out
}

func (s *State) steps() []Move {
	var moves []Move
	for sq := range s.board.pieces {
		from := Square(sq)
		p := s.board.at(from)
		if p.Side() != s.turn {
			continue
		}
		for _, d := range directions(p) {
			to, ok := s.board.offset(from, d, 1)
			if ok && s.board.at(to) == Empty {
				moves = append(moves, Move{origin: s, Action: Step, From: from, To: to})
			}
		}
	}
	return moves
}

// jumps lists every single capture available to the player to move, ignoring
// the ranking. During a chain only the chaining piece may capture.
func (s *State) jumps() []Move {
	if s.pending != nil {
		return s.jumpsFrom(s.pending.at)
	}
	var moves []Move
	for sq := range s.board.pieces {
		if s.board.at(Square(sq)).Side() == s.turn {
			moves = append(moves, s.jumpsFrom(Square(sq))...)
		}
	}
	return moves
}

func (s *State) jumpsFrom(from Square) []Move {
	p := s.board.at(from)
	if p == Empty {
		return nil
	}
	var moves []Move
	for _, d := range directions(p) {
		over, ok := s.board.offset(from, d, 1)
		if !ok || s.board.at(over).Side() != 1-p.Side() {
			continue
		}
		to, ok := s.board.offset(from, d, 2)
		if ok && s.board.at(to) == Empty {
			moves = append(moves, Move{origin: s, Action: Jump, From: from, To: to})
		}
	}
	return moves
}

// ranker scores a capture by the whole chain it leads to. A chain cannot
// capture more pieces than the board holds.
func (s *State) ranker() legality.Ranker[*State, Move, int] {
	kings := s.rules.priority == PriorityCapturesAndKings
	return legality.Ranker[*State, Move, int]{
		Apply: func(st *State, m Move) *State {
			return st.advance(m, false)
		},
		Continues: func(_, after *State) bool {
			return after.pending != nil
		},
		Moves: func(st *State) []Move {
			return st.jumps()
		},
		Step: func(before *State, m Move, _ *State) int {
			if m.Action != Jump {
				return 0
			}
			if kings && before.board.at(m.over()).IsKing() {
				return 2
			}
			return 1
		},
		Combine:  func(a, b int) int { return a + b },
		Compare:  cmp.Compare[int],
		MaxDepth: len(s.board.pieces) / 2,
	}
}

// belowBest reports whether m scores lower than the best capture available.
func (s *State) belowBest(m Move) bool {
	jumps := s.jumps()
	if len(jumps) == 0 {
		return false
	}
	r := s.ranker()
	_, best := r.Best(s, jumps)
	mine := 0
	if m.Action == Jump {
		mine = r.Score(s, m)
	}
	return mine < best
}

// advance plays m without checking legality. judge enables the penalty
// bookkeeping and the end-of-game checks, which the ranker's lookahead skips.
func (s *State) advance(m Move, judge bool) *State {
	next := s.clone()
	if m.Action == Claim {
		next.board.pieces[m.From] = Empty
		next.offender = NoSquare
		if judge {
			next.settle()
		}
		return next
	}

	piece := next.board.at(m.From)
	next.board.pieces[m.From] = Empty
	captured := m.Action == Jump
	if captured {
		next.board.pieces[m.over()] = Empty
	}
	promoted := false
	if !piece.IsKing() && next.board.lastRow(m.To, piece.Side()) {
		piece, promoted = piece.crown(), true
	}
	next.board.pieces[m.To] = piece
	next.offender = NoSquare

	suboptimal := s.pending != nil && s.pending.suboptimal
	if judge && s.rules.impact == legality.ImpactPenalty && !suboptimal {
		suboptimal = s.belowBest(m)
	}

	if captured {
		next.quiet = 0
		if !promoted && len(next.jumpsFrom(m.To)) > 0 {
			next.pending = &jumpChain{at: m.To, suboptimal: suboptimal}
			return next
		}
	} else {
		next.quiet++
	}

	next.pending = nil
	next.turn = s.seats.Next(s.turn)
	if suboptimal {
		next.offender = m.To
	}
	if judge {
		next.settle()
	}
	return next
}
