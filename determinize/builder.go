// Package determinize reconstructs complete-information game states that are
// consistent with one player's partial knowledge, by randomly reassigning the
// values of hidden slots within each logical pool.
package determinize

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"

	"tabletop/deck"
	"tabletop/game"
)

// ErrInfeasible reports a pool whose constraints admit no assignment.
var ErrInfeasible = errors.New("no assignment satisfies the constraints")

const (
	// rejectionAttempts bounds uniform shuffle-and-check draws before
	// falling back to randomized backtracking.
	rejectionAttempts = 32
	// duplicatePatience bounds consecutive already-seen draws in Take, on
	// top of a per-request allowance.
	duplicatePatience = 64
)

// Constraint restricts the value a slot may take. id is the slot's id (the
// empty string when none was given) and index its position within the
// registered collection.
type Constraint[V any] func(id string, index int, value V) bool

type slotConfig struct {
	id        string
	owner     game.Token
	unordered bool
}

// SlotOption configures a registered slot or collection.
type SlotOption func(*slotConfig)

// WithID tags the slots so constraints can address them.
func WithID(id string) SlotOption {
	return func(c *slotConfig) {
		c.id = id
	}
}

// OwnedBy marks hidden data belonging to owner. The viewer's own slots keep
// their true values.
func OwnedBy(owner game.Token) SlotOption {
	return func(c *slotConfig) {
		c.owner = owner
	}
}

// Unordered marks a collection whose order carries no meaning, such as a
// hand. Assignments that differ only by order within it count as one.
func Unordered() SlotOption {
	return func(c *slotConfig) {
		c.unordered = true
	}
}

type group[S, V any] struct {
	slotConfig
	values []V
	set    func(S, []V) S
}

type pool[S, V any] struct {
	name        string
	groups      []*group[S, V]
	constraints []Constraint[V]
}

// Option configures a Builder.
type Option func(*options)

type options struct {
	src deck.Source
}

// WithSource threads the random source used for reassignment.
func WithSource(src deck.Source) Option {
	return func(o *options) {
		o.src = src
	}
}

// Builder collects the hidden slots of a state as seen by one viewer.
type Builder[S, V any] struct {
	truth   S
	viewer  game.Token
	compare func(a, b V) int
	src     deck.Source
	pools   map[string]*pool[S, V]
	order   []string
}

// New returns a builder for determinizations of truth as seen by viewer.
// compare orders values; equal values are interchangeable.
func New[S, V any](truth S, viewer game.Token, compare func(a, b V) int, opts ...Option) *Builder[S, V] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = deck.NewSource(uint64(time.Now().UnixNano()))
	}
	return &Builder[S, V]{
		truth:   truth,
		viewer:  viewer,
		compare: compare,
		src:     o.src,
		pools:   map[string]*pool[S, V]{},
	}
}

func (b *Builder[S, V]) pool(name string) *pool[S, V] {
	p, ok := b.pools[name]
	if !ok {
		p = &pool[S, V]{name: name}
		b.pools[name] = p
		b.order = append(b.order, name)
	}
	return p
}

// AddCollection registers a hidden collection in pool. setter returns a new
// top-level state with the collection replaced by a candidate assignment of
// the same length.
func (b *Builder[S, V]) AddCollection(pool string, values []V, setter func(S, []V) S, opts ...SlotOption) *Builder[S, V] {
	g := &group[S, V]{values: slices.Clone(values), set: setter}
	for _, opt := range opts {
		opt(&g.slotConfig)
	}
	if !g.owner.IsZero() && g.owner == b.viewer {
		return b
	}
	p := b.pool(pool)
	p.groups = append(p.groups, g)
	return b
}

// Add registers a single hidden slot in pool.
func (b *Builder[S, V]) Add(pool string, value V, setter func(S, V) S, opts ...SlotOption) *Builder[S, V] {
	return b.AddCollection(pool, []V{value}, func(s S, vs []V) S {
		return setter(s, vs[0])
	}, opts...)
}

// AddConstraint restricts the values slots of pool may take.
func (b *Builder[S, V]) AddConstraint(pool string, constraint Constraint[V]) *Builder[S, V] {
	p := b.pool(pool)
	p.constraints = append(p.constraints, constraint)
	return b
}

// Take returns up to n distinct determinizations. It returns fewer when the
// pools admit fewer distinct assignments, and ErrInfeasible when a pool's
// constraints admit none.
func (b *Builder[S, V]) Take(n int) ([]S, error) {
	if n <= 0 {
		return nil, nil
	}

	var seen [][]V
	var out []S
	misses, patience := 0, duplicatePatience+4*n
	for len(out) < n && misses < patience {
		assignment := make([][]V, len(b.order))
		for i, name := range b.order {
			values, err := b.assign(b.pools[name])
			if err != nil {
				return nil, fmt.Errorf("pool %q: %w", name, err)
			}
			assignment[i] = values
		}

		key := b.key(assignment)
		if slices.ContainsFunc(seen, func(other []V) bool {
			return slices.EqualFunc(key, other, func(x, y V) bool { return b.compare(x, y) == 0 })
		}) {
			misses++
			continue
		}
		misses = 0
		seen = append(seen, key)
		out = append(out, b.build(assignment))
	}
	return out, nil
}

// key flattens an assignment, sorting unordered collections so that
// reorderings inside them compare equal.
func (b *Builder[S, V]) key(assignment [][]V) []V {
	var key []V
	for i, name := range b.order {
		offset := 0
		for _, g := range b.pools[name].groups {
			part := slices.Clone(assignment[i][offset : offset+len(g.values)])
			if g.unordered {
				slices.SortFunc(part, b.compare)
			}
			key = append(key, part...)
			offset += len(g.values)
		}
	}
	return key
}

func (b *Builder[S, V]) build(assignment [][]V) S {
	s := b.truth
	for i, name := range b.order {
		offset := 0
		for _, g := range b.pools[name].groups {
			part := slices.Clone(assignment[i][offset : offset+len(g.values)])
			s = g.set(s, part)
			offset += len(g.values)
		}
	}
	return s
}
