package multiset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultisetUpdates(t *testing.T) {
	t.Run("adding returns a new multiset", func(t *testing.T) {
		m := New("red", "red", "blue")
		got := m.Add("green", 2)

		require.Equal(t, 3, m.Total(), "Original should not change")
		require.Equal(t, 0, m.Count("green"), "Original should not change")
		require.Equal(t, 5, got.Total())
		require.Equal(t, 2, got.Count("green"))
	})

	t.Run("removing past zero drops the key", func(t *testing.T) {
		m := New("red", "red", "blue")
		got := m.Remove("red", 5)

		require.Equal(t, []string{"blue"}, got.Keys(), "Removed key should not linger")
		require.Equal(t, 1, got.Total())
		require.Equal(t, 2, m.Count("red"), "Original should not change")
	})

	t.Run("removing a range", func(t *testing.T) {
		m := New(1, 1, 2, 3, 3, 3)
		got := m.RemoveAll(New(1, 3, 3, 4))

		require.True(t, got.Equal(New(1, 2, 3)))
		require.Equal(t, 3, got.Total())
	})

	t.Run("zero counts are never stored", func(t *testing.T) {
		m := FromCounts(map[string]int{"a": 0, "b": 2})

		require.Equal(t, []string{"b"}, m.Keys())
		require.True(t, m.Equal(New("b", "b")))
	})

	t.Run("negative counts panic", func(t *testing.T) {
		require.Panics(t, func() { New("a").Add("a", -1) })
		require.Panics(t, func() { New("a").Remove("a", -1) })
		require.Panics(t, func() { FromCounts(map[string]int{"a": -1}) })
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var m Multiset[int]

		require.Equal(t, 0, m.Total())
		require.Empty(t, m.Keys())
		require.Equal(t, 1, m.Add(7, 1).Count(7))
	})
}

func TestMultisetCompare(t *testing.T) {
	t.Run("equal iff counts agree", func(t *testing.T) {
		require.Equal(t, 0, New(3, 1, 1).Compare(New(1, 3, 1)))
		require.NotEqual(t, 0, New(1, 1).Compare(New(1)))
		require.NotEqual(t, 0, New(1, 2).Compare(New(1, 3)))
	})

	t.Run("compare is antisymmetric", func(t *testing.T) {
		a, b := New(1, 2, 2), New(1, 2, 3)
		require.Equal(t, -a.Compare(b), b.Compare(a))
	})

	t.Run("contains", func(t *testing.T) {
		require.True(t, New(1, 1, 2).Contains(New(1, 2)))
		require.False(t, New(1, 2).Contains(New(1, 1)))
	})
}

func TestCombinations(t *testing.T) {
	t.Run("identical items collapse", func(t *testing.T) {
		m := New("red", "red", "red")
		got := m.WeightedCombinations(2)

		require.Len(t, got, 1, "Choosing 2 of 3 identical reds is one combination")
		require.True(t, got[0].Value.Equal(New("red", "red")))
		require.Equal(t, 3, got[0].Weight)
	})

	t.Run("mixed keys", func(t *testing.T) {
		m := New("a", "a", "b", "c")
		got := m.Combinations(2)

		expected := []Multiset[string]{
			New("a", "a"), New("a", "b"), New("a", "c"), New("b", "c"),
		}
		require.Len(t, got, len(expected))
		for _, want := range expected {
			found := false
			for _, c := range got {
				if c.Equal(want) {
					found = true
				}
			}
			require.True(t, found, "Missing combination %v", want)
		}
	})

	t.Run("weights sum to the binomial coefficient", func(t *testing.T) {
		sets := []Multiset[int]{
			New(1, 1, 1, 2, 2, 3),
			New(5),
			FromCounts(map[int]int{1: 4, 2: 4, 3: 4, 4: 4}),
			New(1, 2, 3, 4, 5, 6, 7),
		}
		for _, m := range sets {
			for size := 1; size <= m.Total(); size++ {
				sum := 0
				for _, w := range m.WeightedCombinations(size) {
					require.Positive(t, w.Weight)
					require.Equal(t, size, w.Value.Total())
					require.True(t, m.Contains(w.Value))
					sum += w.Weight
				}
				require.Equal(t, Binomial(m.Total(), size), sum, "multiset %v size %d", m, size)
			}
		}
	})

	t.Run("size zero yields nothing", func(t *testing.T) {
		m := New(1, 2, 2)
		require.Empty(t, m.Combinations(0))
		require.Empty(t, m.WeightedCombinations(0))
		require.Empty(t, m.Permutations(0))
		require.Empty(t, m.WeightedPermutations(0))
	})

	t.Run("size larger than total yields nothing", func(t *testing.T) {
		m := New(1, 2)
		require.Empty(t, m.Combinations(3))
		require.Empty(t, m.Permutations(3))
	})

	t.Run("large multiplicities stay proportional to distinct results", func(t *testing.T) {
		m := FromCounts(map[int]int{1: 1000, 2: 1000})
		got := m.WeightedCombinations(3)

		require.Len(t, got, 4)
	})
}

func TestPermutations(t *testing.T) {
	t.Run("duplicates collapse by content", func(t *testing.T) {
		m := New("x", "x", "y")
		got := m.WeightedPermutations(2)

		require.Len(t, got, 3)
		weights := map[string]int{}
		for _, w := range got {
			weights[w.Value[0]+w.Value[1]] = w.Weight
		}
		require.Equal(t, map[string]int{"xx": 2, "xy": 2, "yx": 2}, weights)
	})

	t.Run("weights sum to the falling factorial", func(t *testing.T) {
		m := New(1, 1, 2, 3, 3, 3)
		for size := 1; size <= m.Total(); size++ {
			sum := 0
			for _, w := range m.WeightedPermutations(size) {
				sum += w.Weight
			}
			require.Equal(t, FallingFactorial(m.Total(), size), sum)
		}
	})
}

func TestBinomial(t *testing.T) {
	require.Equal(t, 1, Binomial(5, 0))
	require.Equal(t, 10, Binomial(5, 2))
	require.Equal(t, 0, Binomial(3, 4))
	require.Equal(t, 0, Binomial(3, -1))
	require.Equal(t, 2598960, Binomial(52, 5))
}

func TestMultisetJSON(t *testing.T) {
	m := New("a", "a", "b")

	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var got Multiset[string]
	require.NoError(t, json.Unmarshal(raw, &got))
	require.True(t, m.Equal(got))

	require.Error(t, json.Unmarshal([]byte(`{"a":-1}`), &got))
}
