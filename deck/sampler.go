package deck

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
)

var ErrNegativeCount = errors.New("negative deal count")

// Source is the randomness handle threaded through dealing, shuffling and
// determinization. Implementations need not be safe for concurrent use; give
// each goroutine its own Source.
type Source interface {
	Intn(n int) int
}

// NewSource returns a seeded generator. Equal seeds replay equal games.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewSource(seed))
}

// Deal selects k items uniformly at random without replacement. It returns
// the unselected items in their original relative order and the dealt items.
//
// Dealing zero returns p itself and an empty pile. Dealing Len or more
// returns an empty remainder and all of p.
func Deal[T any](src Source, p Pile[T], k int) (remainder, dealt Pile[T], err error) {
	if k < 0 {
		return p, Pile[T]{}, fmt.Errorf("deal %d from %d: %w", k, p.Len(), ErrNegativeCount)
	}
	n := p.Len()
	if k == 0 {
		return p, Pile[T]{}, nil
	}
	if k >= n {
		return Pile[T]{}, p, nil
	}

	// Partial Fisher-Yates over positions: the first k slots end up holding
	// a uniform k-subset in uniform order.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + src.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	chosen := make([]bool, n)
	out := make([]T, k)
	for i, pos := range idx[:k] {
		chosen[pos] = true
		out[i] = p.items[pos]
	}
	rest := make([]T, 0, n-k)
	for pos, item := range p.items {
		if !chosen[pos] {
			rest = append(rest, item)
		}
	}
	return Pile[T]{items: rest}, Pile[T]{items: out}, nil
}

// Shuffle returns a uniformly random permutation of p.
func Shuffle[T any](src Source, p Pile[T]) Pile[T] {
	items := p.Items()
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return Pile[T]{items: items}
}

// DealHands deals count piles of size each from p, in seat order.
func DealHands[T any](src Source, p Pile[T], count, size int) (remainder Pile[T], hands []Pile[T], err error) {
	if count < 0 || size < 0 {
		return p, nil, fmt.Errorf("deal %d hands of %d: %w", count, size, ErrNegativeCount)
	}
	remainder = p
	hands = make([]Pile[T], count)
	for i := range hands {
		remainder, hands[i], err = Deal(src, remainder, size)
		if err != nil {
			return p, nil, err
		}
	}
	return remainder, hands, nil
}
