// Package deck provides persistent sequences and the random partial sampling
// used to deal and shuffle them.
package deck

import (
	"encoding/json"
	"fmt"
)

// Pile is an immutable ordered sequence. Operations return new piles and
// never write to a backing array another pile can observe.
type Pile[T any] struct {
	items []T
}

// Of returns a pile holding a copy of items.
func Of[T any](items ...T) Pile[T] {
	if len(items) == 0 {
		return Pile[T]{}
	}
	cp := make([]T, len(items))
	copy(cp, items)
	return Pile[T]{items: cp}
}

func (p Pile[T]) Len() int {
	return len(p.items)
}

func (p Pile[T]) IsEmpty() bool {
	return len(p.items) == 0
}

// At returns the i-th item from the top.
func (p Pile[T]) At(i int) T {
	return p.items[i]
}

// Items returns a copy of the sequence.
func (p Pile[T]) Items() []T {
	cp := make([]T, len(p.items))
	copy(cp, p.items)
	return cp
}

// Append returns a pile with items added at the bottom.
func (p Pile[T]) Append(items ...T) Pile[T] {
	if len(items) == 0 {
		return p
	}
	out := make([]T, 0, len(p.items)+len(items))
	out = append(out, p.items...)
	out = append(out, items...)
	return Pile[T]{items: out}
}

// Concat returns p followed by other.
func (p Pile[T]) Concat(other Pile[T]) Pile[T] {
	return p.Append(other.items...)
}

// Draw takes n items from the top without randomness. It returns the rest of
// the pile and the drawn items; n larger than Len draws everything.
func (p Pile[T]) Draw(n int) (rest, drawn Pile[T]) {
	if n <= 0 {
		return p, Pile[T]{}
	}
	if n >= len(p.items) {
		return Pile[T]{}, p
	}
	return Pile[T]{items: p.items[n:]}, Pile[T]{items: p.items[:n]}
}

// RemoveAt returns the pile without its i-th item.
func (p Pile[T]) RemoveAt(i int) Pile[T] {
	if i < 0 || i >= len(p.items) {
		panic(fmt.Sprintf("invalid argument: index %d out of range [0,%d)", i, len(p.items)))
	}
	out := make([]T, 0, len(p.items)-1)
	out = append(out, p.items[:i]...)
	out = append(out, p.items[i+1:]...)
	return Pile[T]{items: out}
}

// Compare orders piles lexicographically using cmp for items.
func (p Pile[T]) Compare(other Pile[T], cmp func(a, b T) int) int {
	for i := 0; i < len(p.items) && i < len(other.items); i++ {
		if c := cmp(p.items[i], other.items[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p.items) < len(other.items):
		return -1
	case len(p.items) > len(other.items):
		return 1
	}
	return 0
}

func (p Pile[T]) String() string {
	return fmt.Sprint(p.items)
}

func (p Pile[T]) MarshalJSON() ([]byte, error) {
	if p.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.items)
}

func (p *Pile[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*p = Pile[T]{items: items}
	return nil
}
