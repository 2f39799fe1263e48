package game

import (
	"cmp"
	"fmt"
)

// CompareTokens orders token slices lexicographically.
func CompareTokens(a, b []Token) int {
	return CompareSlices(a, b, Token.Compare)
}

// CompareSlices orders slices lexicographically, shorter first on a tie.
func CompareSlices[T any](a, b []T, compare func(T, T) int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// CompareInterstitial orders pending sub-turns: none first, then by kind,
// then by the sub-turn's own order.
func CompareInterstitial(a, b Interstitial) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}
	return a.Compare(b)
}

// CompareTypes orders values of different dynamic types by type name so
// states of different games never compare equal.
func CompareTypes(a, b any) int {
	return cmp.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

// CompareBool orders false before true.
func CompareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
