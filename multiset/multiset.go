// Package multiset implements an immutable count-per-kind container and the
// combinatorial enumerations used for move generation over indistinguishable
// items.
package multiset

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Multiset maps each key to a positive count. Absent keys count zero.
// The zero value is an empty multiset. Values are never mutated in place:
// every operation that changes counts returns a new Multiset.
type Multiset[K constraints.Ordered] struct {
	counts map[K]int
	total  int
}

// New returns a multiset holding one copy of each item.
func New[K constraints.Ordered](items ...K) Multiset[K] {
	counts := make(map[K]int, len(items))
	for _, item := range items {
		counts[item]++
	}
	return Multiset[K]{counts: counts, total: len(items)}
}

// FromCounts returns a multiset with the given counts. Zero counts are
// dropped; negative counts panic.
func FromCounts[K constraints.Ordered](counts map[K]int) Multiset[K] {
	m := Multiset[K]{counts: make(map[K]int, len(counts))}
	for k, n := range counts {
		if n < 0 {
			panic(fmt.Sprintf("invalid argument: negative count %d for %v", n, k))
		}
		if n > 0 {
			m.counts[k] = n
			m.total += n
		}
	}
	return m
}

func (m Multiset[K]) clone() Multiset[K] {
	counts := make(map[K]int, len(m.counts)+1)
	for k, n := range m.counts {
		counts[k] = n
	}
	return Multiset[K]{counts: counts, total: m.total}
}

// Add returns a copy with n more copies of k.
func (m Multiset[K]) Add(k K, n int) Multiset[K] {
	if n < 0 {
		panic(fmt.Sprintf("invalid argument: cannot add %d copies", n))
	}
	if n == 0 {
		return m
	}
	out := m.clone()
	out.counts[k] += n
	out.total += n
	return out
}

// Remove returns a copy with up to n copies of k removed. Removing more
// copies than present drops the key.
func (m Multiset[K]) Remove(k K, n int) Multiset[K] {
	if n < 0 {
		panic(fmt.Sprintf("invalid argument: cannot remove %d copies", n))
	}
	have := m.counts[k]
	if n == 0 || have == 0 {
		return m
	}
	out := m.clone()
	if have <= n {
		delete(out.counts, k)
		out.total -= have
	} else {
		out.counts[k] = have - n
		out.total -= n
	}
	return out
}

// RemoveAll removes every key of other by its count in other.
func (m Multiset[K]) RemoveAll(other Multiset[K]) Multiset[K] {
	if other.total == 0 || m.total == 0 {
		return m
	}
	out := m.clone()
	for k, n := range other.counts {
		have := out.counts[k]
		switch {
		case have == 0:
		case have <= n:
			delete(out.counts, k)
			out.total -= have
		default:
			out.counts[k] = have - n
			out.total -= n
		}
	}
	return out
}

// Union returns the sum of both multisets.
func (m Multiset[K]) Union(other Multiset[K]) Multiset[K] {
	if other.total == 0 {
		return m
	}
	out := m.clone()
	for k, n := range other.counts {
		out.counts[k] += n
	}
	out.total += other.total
	return out
}

// Count returns the number of copies of k.
func (m Multiset[K]) Count(k K) int {
	return m.counts[k]
}

// Total returns the number of items including duplicates.
func (m Multiset[K]) Total() int {
	return m.total
}

// Len returns the number of distinct keys.
func (m Multiset[K]) Len() int {
	return len(m.counts)
}

func (m Multiset[K]) IsEmpty() bool {
	return m.total == 0
}

// Keys returns the distinct keys in ascending order.
func (m Multiset[K]) Keys() []K {
	keys := make([]K, 0, len(m.counts))
	for k := range m.counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Items expands the multiset into a sorted slice with one entry per copy.
func (m Multiset[K]) Items() []K {
	items := make([]K, 0, m.total)
	for _, k := range m.Keys() {
		for i := 0; i < m.counts[k]; i++ {
			items = append(items, k)
		}
	}
	return items
}

// Contains reports whether every key of other is present at least as often.
func (m Multiset[K]) Contains(other Multiset[K]) bool {
	for k, n := range other.counts {
		if m.counts[k] < n {
			return false
		}
	}
	return true
}

func (m Multiset[K]) Equal(other Multiset[K]) bool {
	return m.Compare(other) == 0
}

// Compare orders multisets by their sorted (key, count) sequences.
func (m Multiset[K]) Compare(other Multiset[K]) int {
	a, b := m.Keys(), other.Keys()
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
		if c := cmp.Compare(m.counts[a[i]], other.counts[b[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func (m Multiset[K]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%d", k, m.counts[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON encodes the multiset as an object of counts. Only key types
// supported as JSON object keys can be marshalled.
func (m Multiset[K]) MarshalJSON() ([]byte, error) {
	counts := m.counts
	if counts == nil {
		counts = map[K]int{}
	}
	return json.Marshal(counts)
}

func (m *Multiset[K]) UnmarshalJSON(data []byte) error {
	var counts map[K]int
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	for k, n := range counts {
		if n < 0 {
			return fmt.Errorf("multiset: negative count %d for %v", n, k)
		}
	}
	*m = FromCounts(counts)
	return nil
}
