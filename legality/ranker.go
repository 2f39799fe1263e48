// Package legality ranks candidate moves by searching forward through the
// sequence of moves each one commits the mover to, for rules such as "must
// play the longest capture chain".
package legality

import (
	"fmt"
	"strings"
)

// Impact is what a game does with moves that are legal but not tied for the
// best score.
type Impact int

const (
	// ImpactNone ignores the ranking.
	ImpactNone Impact = iota
	// ImpactIllegal removes lower-ranked moves.
	ImpactIllegal
	// ImpactPenalty keeps every move but lets the opponent punish a
	// lower-ranked choice.
	ImpactPenalty
)

func (i Impact) String() string {
	switch i {
	case ImpactNone:
		return "none"
	case ImpactIllegal:
		return "illegal"
	case ImpactPenalty:
		return "penalty"
	}
	return fmt.Sprintf("Impact(%d)", int(i))
}

// ParseImpact accepts the names returned by String.
func ParseImpact(s string) (Impact, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ImpactNone, nil
	case "illegal":
		return ImpactIllegal, nil
	case "penalty":
		return ImpactPenalty, nil
	}
	return ImpactNone, fmt.Errorf("unknown move priority impact %q", s)
}

// Ranker scores a move by the best sequence it can lead to while the mover
// keeps the turn.
type Ranker[S, M, V any] struct {
	// Apply plays m in s hypothetically.
	Apply func(s S, m M) S
	// Continues reports whether the mover of before still moves in after.
	Continues func(before, after S) bool
	// Moves lists the continuations available in a state where the mover
	// kept the turn.
	Moves func(s S) []M
	// Step scores a single move.
	Step func(before S, m M, after S) V
	// Combine folds step scores along a sequence. It must be associative.
	Combine func(a, b V) V
	// Compare orders scores.
	Compare func(a, b V) int
	// MaxDepth bounds the sequence length; zero means unbounded, in which
	// case the game must guarantee chains end.
	MaxDepth int
}

// Score returns the combined score of m followed by its best continuation.
func (r Ranker[S, M, V]) Score(s S, m M) V {
	return r.score(s, m, 1)
}

func (r Ranker[S, M, V]) score(s S, m M, depth int) V {
	after := r.Apply(s, m)
	v := r.Step(s, m, after)
	if (r.MaxDepth > 0 && depth >= r.MaxDepth) || !r.Continues(s, after) {
		return v
	}

	var best V
	found := false
	for _, next := range r.Moves(after) {
		c := r.score(after, next, depth+1)
		if !found || r.Compare(c, best) > 0 {
			best, found = c, true
		}
	}
	if !found {
		return v
	}
	return r.Combine(v, best)
}

// CompareMoves orders two candidate moves of s by their sequence scores.
func (r Ranker[S, M, V]) CompareMoves(s S, a, b M) int {
	return r.Compare(r.Score(s, a), r.Score(s, b))
}

// Best returns the moves tied for the maximum score, in their original order,
// along with that score. It returns no moves for no candidates.
func (r Ranker[S, M, V]) Best(s S, moves []M) ([]M, V) {
	var best V
	var out []M
	for _, m := range moves {
		v := r.Score(s, m)
		switch {
		case len(out) == 0:
			best, out = v, []M{m}
		case r.Compare(v, best) > 0:
			best, out = v, []M{m}
		case r.Compare(v, best) == 0:
			out = append(out, m)
		}
	}
	return out, best
}
