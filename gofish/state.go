// Package gofish implements Go Fish over multiset hands. Hands and the stock
// are hidden; View determinizes them for one player.
package gofish

import (
	"cmp"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"tabletop/deck"
	"tabletop/game"
	"tabletop/multiset"
)

const (
	Suits = 4
	Ranks = 13
)

const (
	PhaseAsk game.Phase = iota
	PhaseDraw
	PhaseOver
)

// Rank runs from 1 (ace) to 13 (king).
type Rank int

func (r Rank) String() string {
	switch r {
	case 1:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	}
	return strconv.Itoa(int(r))
}

// rankSet is a set of ranks as a bitmask.
type rankSet uint16

func (rs rankSet) has(r Rank) bool {
	return rs&(1<<r) != 0
}

func (rs rankSet) with(r Rank) rankSet {
	return rs | 1<<r
}

func (rs rankSet) ranks() []Rank {
	out := make([]Rank, 0, bits.OnesCount16(uint16(rs)))
	for r := Rank(1); r <= Ranks; r++ {
		if rs.has(r) {
			out = append(out, r)
		}
	}
	return out
}

type Hand = multiset.Multiset[Rank]

type State struct {
	seats game.Seats
	turn  int
	hands []Hand
	stock deck.Pile[Rank]
	books [][]Rank
	// known are the cards every player has seen a seat take or show and
	// that it still holds.
	known []Hand
	// absent are ranks a seat was seen not to hold since its last draw.
	absent  []rankSet
	pending game.Interstitial
	over    bool
	winners []game.Token
}

// FullDeck returns the 52 cards in rank order.
func FullDeck() deck.Pile[Rank] {
	cards := make([]Rank, 0, Suits*Ranks)
	for r := Rank(1); r <= Ranks; r++ {
		for i := 0; i < Suits; i++ {
			cards = append(cards, r)
		}
	}
	return deck.Of(cards...)
}

// HandSize is the number of cards dealt to each of players.
func HandSize(players int) int {
	if players <= 3 {
		return 7
	}
	return 5
}

// New shuffles a full deck and deals a game for 2 to 6 seats.
func New(seats game.Seats, src deck.Source) (*State, error) {
	if seats.Len() < 2 || seats.Len() > 6 {
		return nil, fmt.Errorf("go fish needs 2 to 6 seats, got %d", seats.Len())
	}
	stock, dealt, err := deck.DealHands(src, deck.Shuffle(src, FullDeck()), seats.Len(), HandSize(seats.Len()))
	if err != nil {
		return nil, fmt.Errorf("deal: %w", err)
	}
	hands := make([][]Rank, len(dealt))
	for i, h := range dealt {
		hands[i] = h.Items()
	}
	return FromHands(seats, 0, hands, stock.Items())
}

// FromHands builds a position from explicit hands and a stock listed top
// first, with turn to move. No rank may appear more than four times.
func FromHands(seats game.Seats, turn int, hands [][]Rank, stock []Rank) (*State, error) {
	if len(hands) != seats.Len() {
		return nil, fmt.Errorf("%d hands for %d seats", len(hands), seats.Len())
	}
	if turn < 0 || turn >= seats.Len() {
		return nil, fmt.Errorf("no seat %d", turn)
	}

	all := multiset.New(stock...)
	s := &State{
		seats:  seats,
		hands:  make([]Hand, len(hands)),
		stock:  deck.Of(stock...),
		books:  make([][]Rank, len(hands)),
		known:  make([]Hand, len(hands)),
		absent: make([]rankSet, len(hands)),
	}
	for i, h := range hands {
		s.hands[i] = multiset.New(h...)
		all = all.Union(s.hands[i])
	}
	for _, r := range all.Keys() {
		if r < 1 || r > Ranks {
			return nil, fmt.Errorf("no rank %d", r)
		}
		if all.Count(r) > Suits {
			return nil, fmt.Errorf("rank %v appears %d times", r, all.Count(r))
		}
	}

	for i := range s.hands {
		s.layBooks(i)
	}
	s.startTurn(turn)
	return s, nil
}

func (s *State) clone() *State {
	next := *s
	next.hands = slices.Clone(s.hands)
	next.books = slices.Clone(s.books)
	next.known = slices.Clone(s.known)
	next.absent = slices.Clone(s.absent)
	return &next
}

// layBooks puts down every complete rank held by seat.
func (s *State) layBooks(seat int) {
	for _, r := range s.hands[seat].Keys() {
		if s.hands[seat].Count(r) < Suits {
			continue
		}
		s.hands[seat] = s.hands[seat].Remove(r, Suits)
		s.books[seat] = append(slices.Clone(s.books[seat]), r)
		s.forget(seat, r)
	}
}

// reveal raises the copies of r seat is known to hold to at least n.
func (s *State) reveal(seat int, r Rank, n int) {
	if have := s.known[seat].Count(r); have < n {
		s.known[seat] = s.known[seat].Add(r, n-have)
	}
}

func (s *State) forget(seat int, r Rank) {
	s.known[seat] = s.known[seat].Remove(r, Suits)
}

func (s *State) hasTarget(seat int) bool {
	for i, h := range s.hands {
		if i != seat && !h.IsEmpty() {
			return true
		}
	}
	return false
}

// startTurn hands the turn to the first seat from seat onwards that can ask,
// or that must refill from the stock first. The game ends when nobody can.
func (s *State) startTurn(seat int) {
	s.pending = nil
	for i := 0; i < s.seats.Len(); i++ {
		candidate := (seat + i) % s.seats.Len()
		canAsk := !s.hands[candidate].IsEmpty() && s.hasTarget(candidate)
		switch {
		case canAsk:
			s.turn = candidate
			return
		case !s.stock.IsEmpty():
			s.turn = candidate
			s.pending = &refill{}
			return
		}
	}
	s.finish()
}

// finish ends the game; the seats with the most books win.
func (s *State) finish() {
	s.over = true
	most := 0
	for _, b := range s.books {
		most = max(most, len(b))
	}
	s.winners = nil
	for i, b := range s.books {
		if len(b) == most {
			s.winners = append(s.winners, s.seats.At(i))
		}
	}
}

func (s *State) Player() game.Token {
	return s.seats.At(s.turn)
}

// Turn returns the seat to move.
func (s *State) Turn() int {
	return s.turn
}

func (s *State) Seats() game.Seats {
	return s.seats
}

func (s *State) Phase() game.Phase {
	switch {
	case s.over:
		return PhaseOver
	case s.pending != nil:
		return PhaseDraw
	}
	return PhaseAsk
}

func (s *State) Terminal() bool {
	return s.over
}

func (s *State) Pending() game.Interstitial {
	return s.pending
}

func (s *State) Winners() []game.Token {
	return slices.Clone(s.winners)
}

func (s *State) LegalMoves() []game.Move {
	return game.Enumerate(s, s.asks)
}

func (s *State) asks() []game.Move {
	var moves []game.Move
	ranks := s.hands[s.turn].Keys()
	for target, h := range s.hands {
		if target == s.turn || h.IsEmpty() {
			continue
		}
		for _, r := range ranks {
			moves = append(moves, Ask{origin: s, Target: target, Rank: r})
		}
	}
	return moves
}

// Hand returns the cards held by seat. Only the seat itself may see them.
func (s *State) Hand(seat int) Hand {
	return s.hands[seat]
}

// HandSize returns the public number of cards held by seat.
func (s *State) HandSize(seat int) int {
	return s.hands[seat].Total()
}

// StockSize returns the public number of cards left to draw.
func (s *State) StockSize() int {
	return s.stock.Len()
}

// Books returns the ranks seat has laid down.
func (s *State) Books(seat int) []Rank {
	return slices.Clone(s.books[seat])
}

// Known returns the cards seat is publicly known to hold.
func (s *State) Known(seat int) Hand {
	return s.known[seat]
}

// Absent returns the ranks seat is publicly known not to hold.
func (s *State) Absent(seat int) []Rank {
	return s.absent[seat].ranks()
}

func (s *State) Compare(other game.State) int {
	o, ok := other.(*State)
	if !ok {
		return game.CompareTypes(s, other)
	}
	if c := s.seats.Compare(o.seats); c != 0 {
		return c
	}
	if c := cmp.Compare(s.turn, o.turn); c != 0 {
		return c
	}
	if c := game.CompareSlices(s.hands, o.hands, Hand.Compare); c != 0 {
		return c
	}
	if c := s.stock.Compare(o.stock, cmp.Compare[Rank]); c != 0 {
		return c
	}
	if c := game.CompareSlices(s.books, o.books, compareRanks); c != 0 {
		return c
	}
	if c := game.CompareSlices(s.known, o.known, Hand.Compare); c != 0 {
		return c
	}
	if c := game.CompareSlices(s.absent, o.absent, cmp.Compare[rankSet]); c != 0 {
		return c
	}
	if c := game.CompareInterstitial(s.pending, o.pending); c != 0 {
		return c
	}
	if c := game.CompareBool(s.over, o.over); c != 0 {
		return c
	}
	return game.CompareTokens(s.winners, o.winners)
}

func compareRanks(a, b []Rank) int {
	return game.CompareSlices(a, b, cmp.Compare[Rank])
}

func (s *State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "seat %d to move, stock %d", s.turn, s.stock.Len())
	if s.pending != nil {
		fmt.Fprintf(&sb, ", %s", s.pending.Kind())
	}
	for i := range s.hands {
		fmt.Fprintf(&sb, "\n  %s: %d cards, books %v", s.seats.At(i), s.hands[i].Total(), s.books[i])
	}
	return sb.String()
}
