package determinize

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type slot struct {
	id    string
	index int
}

// assign draws a random bijection from the pool's slots to its values that
// satisfies every constraint. Unconstrained pools get a uniform shuffle;
// constrained pools first try uniform rejection sampling and then fall back
// to randomized backtracking, which reaches every satisfying assignment with
// positive probability and fails only when none exists.
func (b *Builder[S, V]) assign(p *pool[S, V]) ([]V, error) {
	var slots []slot
	var values []V
	for _, g := range p.groups {
		for i, v := range g.values {
			slots = append(slots, slot{id: g.id, index: i})
			values = append(values, v)
		}
	}
	if len(slots) == 0 {
		return nil, nil
	}
	if len(p.constraints) == 0 {
		return b.shuffle(values), nil
	}

	for attempt := 0; attempt < rejectionAttempts; attempt++ {
		candidate := b.shuffle(values)
		if satisfies(p, slots, candidate) {
			return candidate, nil
		}
	}
	log.Debug().Msgf("determinize: pool %q falling back to backtracking after %d rejections", p.name, rejectionAttempts)

	return b.backtrack(p, slots, values)
}

func (b *Builder[S, V]) shuffle(values []V) []V {
	out := slices.Clone(values)
	for i := len(out) - 1; i > 0; i-- {
		j := b.src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (b *Builder[S, V]) backtrack(p *pool[S, V], slots []slot, values []V) ([]V, error) {
	sorted := slices.Clone(values)
	slices.SortFunc(sorted, b.compare)
	var distinct []V
	var counts []int
	for _, v := range sorted {
		if n := len(distinct); n > 0 && b.compare(distinct[n-1], v) == 0 {
			counts[n-1]++
			continue
		}
		distinct = append(distinct, v)
		counts = append(counts, 1)
	}

	assigned := make([]V, len(slots))
	var descend func(i int) bool
	descend = func(i int) bool {
		if i == len(slots) {
			return true
		}
		for _, d := range b.permutation(len(distinct)) {
			if counts[d] == 0 || !allows(p, slots[i], distinct[d]) {
				continue
			}
			counts[d]--
			assigned[i] = distinct[d]
			if descend(i + 1) {
				return true
			}
			counts[d]++
		}
		return false
	}

	if !descend(0) {
		return nil, ErrInfeasible
	}
	return assigned, nil
}

func (b *Builder[S, V]) permutation(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := b.src.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

func satisfies[S, V any](p *pool[S, V], slots []slot, values []V) bool {
	for i, s := range slots {
		if !allows(p, s, values[i]) {
			return false
		}
	}
	return true
}

func allows[S, V any](p *pool[S, V], s slot, value V) bool {
	for _, constraint := range p.constraints {
		if !constraint(s.id, s.index, value) {
			return false
		}
	}
	return true
}
