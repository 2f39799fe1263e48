package gofish

import (
	"cmp"
	"fmt"

	"tabletop/deck"
	"tabletop/determinize"
	"tabletop/game"
	"tabletop/multiset"
)

// pool holds every card viewer cannot see.
const pool = "unseen"

// View returns up to n distinct states viewer cannot tell apart from s. Other
// seats' hands and the stock order are redealt from the unseen cards, keeping
// hand sizes, cards known to be held and ranks known to be missing.
func (s *State) View(viewer game.Token, n int, src deck.Source) ([]*State, error) {
	b := determinize.New[*State, Rank](s, viewer, cmp.Compare[Rank], determinize.WithSource(src))
	for seat := range s.hands {
		id := fmt.Sprintf("hand-%d", seat)
		shown := s.known[seat].Items()
		missing := s.absent[seat]

		// Known cards come first so each can be pinned to its own slot.
		values := append(shown, s.hands[seat].RemoveAll(s.known[seat]).Items()...)
		b.AddCollection(pool, values, setHand(seat),
			determinize.WithID(id),
			determinize.OwnedBy(s.seats.At(seat)),
			determinize.Unordered(),
		)
		b.AddConstraint(pool, func(slot string, index int, r Rank) bool {
			switch {
			case slot != id:
				return true
			case index < len(shown):
				return r == shown[index]
			}
			return !missing.has(r)
		})
	}
	b.AddCollection(pool, s.stock.Items(), setStock, determinize.WithID("stock"))

	views, err := b.Take(n)
	if err != nil {
		return nil, fmt.Errorf("view for %v: %w", viewer, err)
	}
	return views, nil
}

func setHand(seat int) func(*State, []Rank) *State {
	return func(s *State, ranks []Rank) *State {
		next := s.clone()
		next.hands[seat] = multiset.New(ranks...)
		return next
	}
}

func setStock(s *State, ranks []Rank) *State {
	next := s.clone()
	next.stock = deck.Of(ranks...)
	return next
}
