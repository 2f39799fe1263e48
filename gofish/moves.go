package gofish

import (
	"cmp"
	"fmt"

	"tabletop/deck"
	"tabletop/game"
	"tabletop/multiset"
)

// Ask requests every card of Rank from the seat Target. The asker must hold
// the rank, which everybody learns, and everybody sees how many cards change
// hands.
type Ask struct {
	origin *State
	Target int
	Rank   Rank
}

func (m Ask) Origin() game.State {
	if m.origin == nil {
		return nil
	}
	return m.origin
}

func (m Ask) Player() game.Token {
	return m.origin.Player()
}

func (m Ask) IsStochastic() bool {
	return false
}

func (m Ask) Apply() (game.State, error) {
	if m.origin == nil {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidMove, m)
	}
	s := m.origin
	next := s.clone()
	asker := s.turn
	next.reveal(asker, m.Rank, 1)
	next.absent[m.Target] = next.absent[m.Target].with(m.Rank)

	n := s.hands[m.Target].Count(m.Rank)
	if n == 0 {
		if s.stock.IsEmpty() {
			next.startTurn(s.seats.Next(asker))
		} else {
			next.pending = &goFish{asked: m.Rank}
		}
		return next, nil
	}

	next.hands[m.Target] = s.hands[m.Target].Remove(m.Rank, n)
	next.hands[asker] = s.hands[asker].Add(m.Rank, n)
	next.known[asker] = next.known[asker].Add(m.Rank, n)
	next.forget(m.Target, m.Rank)
	next.layBooks(asker)
	next.startTurn(asker)
	return next, nil
}

func (m Ask) Compare(other game.Move) int {
	o, ok := other.(Ask)
	if !ok {
		return game.CompareTypes(m, other)
	}
	if c := cmp.Compare(m.Target, o.Target); c != 0 {
		return c
	}
	return cmp.Compare(m.Rank, o.Rank)
}

func (m Ask) String() string {
	return fmt.Sprintf("ask seat %d for %v", m.Target, m.Rank)
}

// Draw takes the top card of the stock. Only the drawer sees it, unless it
// is the rank they just asked for.
type Draw struct {
	origin *State
}

func (m Draw) Origin() game.State {
	if m.origin == nil {
		return nil
	}
	return m.origin
}

func (m Draw) Player() game.Token {
	return m.origin.Player()
}

func (m Draw) IsStochastic() bool {
	return true
}

func (m Draw) Apply() (game.State, error) {
	if m.origin == nil {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidMove, m)
	}
	rest, top := m.origin.stock.Draw(1)
	return m.origin.drawn(rest, top.At(0)), nil
}

// Outcomes lists one successor per rank left in the stock, weighted by the
// number of copies of that rank.
func (m Draw) Outcomes() ([]game.Outcome, error) {
	if m.origin == nil {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidMove, m)
	}
	s := m.origin
	stock := s.stock.Items()
	var outcomes []game.Outcome
	for _, w := range multiset.New(stock...).WeightedCombinations(1) {
		r := w.Value.Keys()[0]
		rest := s.stock.RemoveAt(indexOf(stock, r))
		outcomes = append(outcomes, game.Outcome{State: s.drawn(rest, r), Weight: w.Weight})
	}
	return outcomes, nil
}

func indexOf(ranks []Rank, r Rank) int {
	for i, x := range ranks {
		if x == r {
			return i
		}
	}
	return -1
}

func (m Draw) Compare(other game.Move) int {
	if _, ok := other.(Draw); !ok {
		return game.CompareTypes(m, other)
	}
	return 0
}

func (m Draw) String() string {
	return "draw"
}

// drawn is the successor after the player to move drew r, leaving rest.
func (s *State) drawn(rest deck.Pile[Rank], r Rank) *State {
	next := s.clone()
	seat := s.turn
	next.stock = rest
	next.hands[seat] = s.hands[seat].Add(r, 1)
	next.absent[seat] = 0

	wish, fishing := s.pending.(*goFish)
	lucky := fishing && wish.asked == r
	if lucky {
		next.known[seat] = next.known[seat].Add(r, 1)
	}
	next.layBooks(seat)
	if fishing && !lucky {
		next.startTurn(s.seats.Next(seat))
	} else {
		next.startTurn(seat)
	}
	return next
}

// goFish is the draw owed after an ask came back empty.
type goFish struct {
	asked Rank
}

func (g *goFish) Kind() string {
	return "go-fish"
}

func (g *goFish) Moves(s game.State) []game.Move {
	return []game.Move{Draw{origin: s.(*State)}}
}

func (g *goFish) Compare(other game.Interstitial) int {
	return cmp.Compare(g.asked, other.(*goFish).asked)
}

// refill is the draw of a seat that has no cards to ask with, or nobody to
// ask.
type refill struct{}

func (r *refill) Kind() string {
	return "refill"
}

func (r *refill) Moves(s game.State) []game.Move {
	return []game.Move{Draw{origin: s.(*State)}}
}

func (r *refill) Compare(game.Interstitial) int {
	return 0
}
