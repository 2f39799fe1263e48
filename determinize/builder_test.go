package determinize

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"tabletop/deck"
	"tabletop/game"
)

// table is a tiny hidden-information state: two hands and a face-down stock.
type table struct {
	hands [2][]int
	stock []int
	round int
}

func setHand(seat int) func(table, []int) table {
	return func(t table, vs []int) table {
		t.hands[seat] = vs
		return t
	}
}

func setStock(t table, vs []int) table {
	t.stock = vs
	return t
}

func newBuilder(truth table, viewer game.Token, seed uint64) *Builder[table, int] {
	return New[table, int](truth, viewer, cmp.Compare[int], WithSource(deck.NewSource(seed)))
}

func TestTake(t *testing.T) {
	seats := game.SeededSeats(1, 2)
	me, them := seats.At(0), seats.At(1)

	t.Run("zero requests yield nothing", func(t *testing.T) {
		b := newBuilder(table{}, me, 1).
			AddCollection("unseen", []int{1, 2, 3}, setStock)

		got, err := b.Take(0)

		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("every distinct bijection is reachable and none repeats", func(t *testing.T) {
		truth := table{stock: []int{1, 2, 3}}
		b := newBuilder(truth, me, 2).
			AddCollection("unseen", truth.stock, setStock)

		got, err := b.Take(100)

		require.NoError(t, err)
		require.Len(t, got, 6, "3 distinct values have 6 orderings")
		seen := map[[3]int]bool{}
		for _, s := range got {
			seen[[3]int{s.stock[0], s.stock[1], s.stock[2]}] = true
		}
		require.Len(t, seen, 6)
	})

	t.Run("the viewer's own slots keep their values", func(t *testing.T) {
		truth := table{hands: [2][]int{{7, 8}, {1, 2}}, stock: []int{3, 4}, round: 5}
		b := newBuilder(truth, me, 3).
			AddCollection("unseen", truth.hands[0], setHand(0), OwnedBy(me)).
			AddCollection("unseen", truth.hands[1], setHand(1), OwnedBy(them), Unordered()).
			AddCollection("unseen", truth.stock, setStock)

		got, err := b.Take(50)

		require.NoError(t, err)
		require.NotEmpty(t, got)
		for _, s := range got {
			require.Equal(t, []int{7, 8}, s.hands[0])
			require.Equal(t, 5, s.round, "Fields outside the pools never change")
			require.Len(t, s.hands[1], 2)
			require.Len(t, s.stock, 2)
			all := append(slices.Clone(s.hands[1]), s.stock...)
			slices.Sort(all)
			require.Equal(t, []int{1, 2, 3, 4}, all)
		}
	})

	t.Run("unordered collections count reorderings once", func(t *testing.T) {
		truth := table{hands: [2][]int{nil, {1, 2}}, stock: []int{3}}
		b := newBuilder(truth, me, 4).
			AddCollection("unseen", truth.hands[1], setHand(1), Unordered()).
			AddCollection("unseen", truth.stock, setStock)

		got, err := b.Take(100)

		require.NoError(t, err)
		require.Len(t, got, 3, "Only the stock card distinguishes assignments")
	})

	t.Run("constraints pin slots", func(t *testing.T) {
		truth := table{hands: [2][]int{nil, {5, 1}}, stock: []int{2, 3, 4}}
		b := newBuilder(truth, me, 5).
			AddCollection("unseen", truth.hands[1], setHand(1), WithID("them")).
			AddCollection("unseen", truth.stock, setStock, WithID("stock")).
			AddConstraint("unseen", func(id string, index int, value int) bool {
				return id != "them" || index != 0 || value == 5
			})

		got, err := b.Take(100)

		require.NoError(t, err)
		require.Len(t, got, 24, "4 free values fill 4 free slots")
		for _, s := range got {
			require.Equal(t, 5, s.hands[1][0])
		}
	})

	t.Run("tight constraints fall back to backtracking", func(t *testing.T) {
		truth := table{stock: []int{7, 6, 5, 4, 3, 2, 1, 0}}
		b := newBuilder(truth, me, 6).
			AddCollection("unseen", truth.stock, setStock).
			AddConstraint("unseen", func(_ string, index int, value int) bool {
				return index == value
			})

		got, err := b.Take(5)

		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, got[0].stock)
	})

	t.Run("infeasible constraints are reported", func(t *testing.T) {
		truth := table{stock: []int{1, 2}}
		b := newBuilder(truth, me, 7).
			AddCollection("unseen", truth.stock, setStock).
			AddConstraint("unseen", func(_ string, _ int, value int) bool {
				return value > 1
			})

		got, err := b.Take(3)

		require.ErrorIs(t, err, ErrInfeasible)
		require.Empty(t, got)
	})

	t.Run("pools are independent", func(t *testing.T) {
		truth := table{hands: [2][]int{nil, {10, 20}}, stock: []int{1, 2}}
		b := newBuilder(truth, me, 8).
			AddCollection("high", truth.hands[1], setHand(1)).
			AddCollection("low", truth.stock, setStock)

		got, err := b.Take(100)

		require.NoError(t, err)
		require.Len(t, got, 4)
		for _, s := range got {
			require.ElementsMatch(t, []int{10, 20}, s.hands[1])
			require.ElementsMatch(t, []int{1, 2}, s.stock)
		}
	})

	t.Run("single slots", func(t *testing.T) {
		truth := table{stock: []int{0, 0}}
		b := newBuilder(truth, me, 9).
			Add("unseen", 4, func(s table, v int) table {
				s.round = v
				return s
			}, WithID("round")).
			AddCollection("unseen", []int{5}, func(s table, vs []int) table {
				s.stock = []int{vs[0], vs[0]}
				return s
			})

		got, err := b.Take(10)

		require.NoError(t, err)
		require.Len(t, got, 2)
		rounds := []int{got[0].round, got[1].round}
		require.ElementsMatch(t, []int{4, 5}, rounds)
	})
}

func TestAssignmentIsRoughlyUniform(t *testing.T) {
	truth := table{stock: []int{1, 2, 3}}
	src := deck.NewSource(10)
	counts := map[int]int{}
	const trials = 900
	for i := 0; i < trials; i++ {
		b := New[table, int](truth, game.Token{}, cmp.Compare[int], WithSource(src)).
			AddCollection("unseen", truth.stock, setStock)
		got, err := b.Take(1)
		require.NoError(t, err)
		counts[got[0].stock[0]]++
	}
	for v := 1; v <= 3; v++ {
		require.InDelta(t, trials/3, counts[v], 90, "value %d leads %d times", v, counts[v])
	}
}
