// Package checkers implements draughts on an even-width board with a
// configurable forced-capture rule.
package checkers

import (
	"cmp"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"tabletop/game"
	"tabletop/legality"
)

const (
	PhasePlay game.Phase = iota
	PhaseOver
)

type State struct {
	rules   rules
	seats   game.Seats
	turn    int
	board   board
	pending *jumpChain
	// quiet counts turns since the last capture.
	quiet int
	// offender is the piece the player to move may claim because its owner
	// skipped a better capture, under the penalty rule.
	offender Square
	over     bool
	winners  []game.Token
}

// New sets up the opening position with dark to move. seats holds the dark
// then the light player.
func New(v Variant, seats game.Seats) (*State, error) {
	r, err := v.rules()
	if err != nil {
		return nil, err
	}
	if seats.Len() != 2 {
		return nil, fmt.Errorf("checkers needs 2 seats, got %d", seats.Len())
	}

	b := newBoard(r.width)
	half := r.width / 2
	for row := 0; row < r.width; row++ {
		for col := 0; col < r.width; col++ {
			if (row+col)%2 != 0 {
				continue
			}
			sq := SquareAt(r.width, row, col)
			switch {
			case row < half-1:
				b.pieces[sq] = DarkMan
			case row > half:
				b.pieces[sq] = LightMan
			}
		}
	}

	s := &State{rules: r, seats: seats, board: b, offender: NoSquare}
	s.settle()
	return s, nil
}

// FromLayout builds a position from one string per row, row 0 first, using
// '.' for empty squares, d/D for dark men and kings and l/L for light ones.
// turn is the seat to move.
func FromLayout(v Variant, seats game.Seats, turn int, rows []string) (*State, error) {
	r, err := v.rules()
	if err != nil {
		return nil, err
	}
	if seats.Len() != 2 {
		return nil, fmt.Errorf("checkers needs 2 seats, got %d", seats.Len())
	}
	if turn < 0 || turn > 1 {
		return nil, fmt.Errorf("no seat %d", turn)
	}
	if len(rows) != r.width {
		return nil, fmt.Errorf("layout has %d rows, want %d", len(rows), r.width)
	}

	b := newBoard(r.width)
	for row, line := range rows {
		runes := []rune(line)
		if len(runes) != r.width {
			return nil, fmt.Errorf("layout row %d has %d squares, want %d", row, len(runes), r.width)
		}
		for col, c := range runes {
			p, ok := pieceOf(c)
			if !ok {
				return nil, fmt.Errorf("layout row %d: unknown piece %q", row, c)
			}
			if p != Empty && (row+col)%2 != 0 {
				return nil, fmt.Errorf("layout row %d: piece on unplayable column %d", row, col)
			}
			b.pieces[SquareAt(r.width, row, col)] = p
		}
	}

	s := &State{rules: r, seats: seats, turn: turn, board: b, offender: NoSquare}
	s.settle()
	return s, nil
}

func (s *State) clone() *State {
	next := *s
	next.board = s.board.clone()
	next.winners = nil
	return &next
}

// settle ends the game when the player to move has run out of quiet turns or
// of moves.
func (s *State) settle() {
	if s.pending != nil {
		return
	}
	if s.rules.drawPlies > 0 && s.quiet >= s.rules.drawPlies {
		s.over = true
		s.winners = s.seats.Tokens()
		slices.SortFunc(s.winners, game.Token.Compare)
		return
	}
	if len(s.phaseMoves()) == 0 {
		s.over = true
		s.winners = []game.Token{s.seats.At(s.seats.Next(s.turn))}
	}
}

func (s *State) Player() game.Token {
	return s.seats.At(s.turn)
}

// Turn returns the seat to move: 0 for dark, 1 for light.
func (s *State) Turn() int {
	return s.turn
}

func (s *State) Seats() game.Seats {
	return s.seats
}

func (s *State) Phase() game.Phase {
	if s.over {
		return PhaseOver
	}
	return PhasePlay
}

func (s *State) Terminal() bool {
	return s.over
}

func (s *State) Pending() game.Interstitial {
	if s.pending == nil {
		return nil
	}
	return s.pending
}

func (s *State) Winners() []game.Token {
	return slices.Clone(s.winners)
}

func (s *State) LegalMoves() []game.Move {
	return game.Enumerate(s, s.phaseMoves)
}

// Width returns the board width.
func (s *State) Width() int {
	return s.rules.width
}

// Impact returns the variant's forced-capture rule.
func (s *State) Impact() legality.Impact {
	return s.rules.impact
}

func (s *State) At(row, col int) Piece {
	return s.board.at(SquareAt(s.rules.width, row, col))
}

// Count returns the number of pieces seat still has.
func (s *State) Count(seat int) int {
	return s.board.count(seat)
}

// Quiet returns the number of turns since the last capture.
func (s *State) Quiet() int {
	return s.quiet
}

// Offender returns the piece that may be claimed, or NoSquare.
func (s *State) Offender() Square {
	return s.offender
}

func (s *State) Compare(other game.State) int {
	o, ok := other.(*State)
	if !ok {
		return game.CompareTypes(s, other)
	}
	if c := s.rules.compare(o.rules); c != 0 {
		return c
	}
	if c := s.seats.Compare(o.seats); c != 0 {
		return c
	}
	if c := cmp.Compare(s.turn, o.turn); c != 0 {
		return c
	}
	if c := s.board.compare(o.board); c != 0 {
		return c
	}
	if c := game.CompareInterstitial(s.Pending(), o.Pending()); c != 0 {
		return c
	}
	if c := cmp.Compare(s.quiet, o.quiet); c != 0 {
		return c
	}
	if c := cmp.Compare(s.offender, o.offender); c != 0 {
		return c
	}
	if c := game.CompareBool(s.over, o.over); c != 0 {
		return c
	}
	return game.CompareTokens(s.winners, o.winners)
}

func (s *State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s to move (%s), quiet %d", []string{"dark", "light"}[s.turn], s.Player(), s.quiet)
	if s.pending != nil {
		fmt.Fprintf(&sb, ", jumping from %s", s.pending.at.Name(s.rules.width))
	}
	if s.over {
		fmt.Fprintf(&sb, ", over, winners %v", s.winners)
	}
	sb.WriteByte('\n')
	sb.WriteString(s.board.String())
	return sb.String()
}

// jumpChain is the sub-turn of a piece that captured and can capture again:
// only its further captures are legal until the chain ends.
type jumpChain struct {
	at Square
	// suboptimal records that an earlier capture of the chain was ranked
	// below the best one available.
	suboptimal bool
}

func (j *jumpChain) Kind() string {
	return "jump-chain"
}

func (j *jumpChain) Moves(s game.State) []game.Move {
	return s.(*State).chainMoves()
}

func (j *jumpChain) Compare(other game.Interstitial) int {
	o := other.(*jumpChain)
	if c := cmp.Compare(j.at, o.at); c != 0 {
		return c
	}
	return game.CompareBool(j.suboptimal, o.suboptimal)
}
