package multiset

import "fmt"

// Weighted pairs a result with the number of item-identity assignments that
// produce it.
type Weighted[T any] struct {
	Value  T
	Weight int
}

// Combinations returns every distinct sub-multiset of the given size. A size
// of zero yields no combinations, as does a size larger than Total.
func (m Multiset[K]) Combinations(size int) []Multiset[K] {
	weighted := m.WeightedCombinations(size)
	out := make([]Multiset[K], len(weighted))
	for i, w := range weighted {
		out[i] = w.Value
	}
	return out
}

// WeightedCombinations is Combinations with each sub-multiset weighted by
// the product of C(count, taken) over its keys. The weights sum to
// C(Total, size).
func (m Multiset[K]) WeightedCombinations(size int) []Weighted[Multiset[K]] {
	if size < 0 {
		panic(fmt.Sprintf("invalid argument: negative size %d", size))
	}
	if size == 0 || size > m.total {
		return nil
	}

	keys := m.Keys()
	// suffix[i] is the number of items held under keys[i:].
	suffix := make([]int, len(keys)+1)
	for i := len(keys) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + m.counts[keys[i]]
	}

	var out []Weighted[Multiset[K]]
	taken := make([]int, len(keys))
	var descend func(i, remaining, weight int)
	descend = func(i, remaining, weight int) {
		if remaining == 0 {
			counts := make(map[K]int)
			for j := 0; j < i; j++ {
				if taken[j] > 0 {
					counts[keys[j]] = taken[j]
				}
			}
			out = append(out, Weighted[Multiset[K]]{
				Value:  Multiset[K]{counts: counts, total: size},
				Weight: weight,
			})
			return
		}
		if i == len(keys) || suffix[i] < remaining {
			return
		}
		have := m.counts[keys[i]]
		for take := min(have, remaining); take >= 0; take-- {
			// Skipping keys[i] is only useful if the rest can still fill.
			if remaining-take > suffix[i+1] {
				break
			}
			taken[i] = take
			descend(i+1, remaining-take, weight*Binomial(have, take))
		}
		taken[i] = 0
	}
	descend(0, size, 1)
	return out
}

// Permutations returns every distinct ordered selection of the given size.
// Selections that differ only by which identical item was chosen appear once.
// A size of zero yields none.
func (m Multiset[K]) Permutations(size int) [][]K {
	weighted := m.WeightedPermutations(size)
	out := make([][]K, len(weighted))
	for i, w := range weighted {
		out[i] = w.Value
	}
	return out
}

// WeightedPermutations is Permutations with each sequence weighted by the
// product of falling factorials count·(count-1)·… over its keys. The
// weights sum to Total!/(Total-size)!.
func (m Multiset[K]) WeightedPermutations(size int) []Weighted[[]K] {
	if size < 0 {
		panic(fmt.Sprintf("invalid argument: negative size %d", size))
	}
	if size == 0 || size > m.total {
		return nil
	}

	keys := m.Keys()
	left := make([]int, len(keys))
	for i, k := range keys {
		left[i] = m.counts[k]
	}

	var out []Weighted[[]K]
	prefix := make([]K, 0, size)
	var descend func(weight int)
	descend = func(weight int) {
		if len(prefix) == size {
			seq := make([]K, size)
			copy(seq, prefix)
			out = append(out, Weighted[[]K]{Value: seq, Weight: weight})
			return
		}
		for i, k := range keys {
			n := left[i]
			if n == 0 {
				continue
			}
			left[i]--
			prefix = append(prefix, k)
			descend(weight * n)
			prefix = prefix[:len(prefix)-1]
			left[i]++
		}
	}
	descend(1)
	return out
}

// Binomial returns C(n, k), or 0 when k is outside [0, n].
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// FallingFactorial returns n·(n-1)·…·(n-k+1).
func FallingFactorial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	result := 1
	for i := 0; i < k; i++ {
		result *= n - i
	}
	return result
}
