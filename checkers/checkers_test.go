package checkers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tabletop/game"
	"tabletop/legality"
)

// Dark can capture c3xe5 and go on with e5xg7, or capture h2xf4 once.
var forcedCapture = []string{
	"........",
	".......d",
	"..d...l.",
	"...l....",
	"........",
	".....l..",
	"........",
	"........",
}

func variant(impact string) Variant {
	v := DefaultVariant()
	v.Impact = impact
	return v
}

func layout(t *testing.T, v Variant, turn int, rows []string) *State {
	t.Helper()
	s, err := FromLayout(v, game.SeededSeats(1, 2), turn, rows)
	require.NoError(t, err)
	return s
}

func names(moves []game.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = fmt.Sprint(m)
	}
	return out
}

func find(t *testing.T, s game.State, name string) game.Move {
	t.Helper()
	for _, m := range s.LegalMoves() {
		if fmt.Sprint(m) == name {
			return m
		}
	}
	require.Failf(t, "move not found", "%s is not among %v", name, names(s.LegalMoves()))
	return nil
}

func play(t *testing.T, s game.State, name string) *State {
	t.Helper()
	next, err := game.MakeMove(s, find(t, s, name))
	require.NoError(t, err)
	return next.(*State)
}

func TestNew(t *testing.T) {
	t.Run("standard board", func(t *testing.T) {
		s, err := New(DefaultVariant(), game.SeededSeats(1, 2))
		require.NoError(t, err)

		require.Equal(t, 12, s.Count(0))
		require.Equal(t, 12, s.Count(1))
		require.Equal(t, s.Seats().At(0), s.Player(), "Dark moves first")
		require.Len(t, s.LegalMoves(), 7)
		require.Equal(t, PhasePlay, s.Phase())
		require.Nil(t, s.Pending())
	})

	t.Run("small board", func(t *testing.T) {
		v := DefaultVariant()
		v.Width = 4
		s, err := New(v, game.SeededSeats(1, 2))
		require.NoError(t, err)

		require.Equal(t, 2, s.Count(0))
		require.Equal(t, 2, s.Count(1))
		require.ElementsMatch(t, []string{"a1-b2", "c1-b2", "c1-d2"}, names(s.LegalMoves()))
	})

	t.Run("bad setups", func(t *testing.T) {
		v := DefaultVariant()
		v.Width = 7
		_, err := New(v, game.SeededSeats(1, 2))
		require.ErrorIs(t, err, ErrInvalidVariant)

		_, err = New(DefaultVariant(), game.SeededSeats(1, 3))
		require.Error(t, err)

		_, err = FromLayout(DefaultVariant(), game.SeededSeats(1, 2), 0, []string{"d"})
		require.Error(t, err)
	})
}

func TestForcedCapture(t *testing.T) {
	t.Run("the longer chain ranks strictly higher", func(t *testing.T) {
		s := layout(t, variant("illegal"), 0, forcedCapture)
		jumps := s.jumps()
		require.ElementsMatch(t, []string{"h2xf4", "c3xe5"}, names(asGameMoves(jumps)))

		r := s.ranker()
		long, short := find(t, s, "c3xe5").(Move), jumps[0]
		require.Equal(t, "h2xf4", short.String())
		require.Equal(t, 2, r.Score(s, long))
		require.Equal(t, 1, r.Score(s, short))
		require.Equal(t, 1, r.CompareMoves(s, long, short))
	})

	t.Run("illegal impact leaves only the best capture", func(t *testing.T) {
		s := layout(t, variant("illegal"), 0, forcedCapture)

		require.Equal(t, []string{"c3xe5"}, names(s.LegalMoves()))

		short := Move{origin: s, Action: Jump, From: SquareAt(8, 1, 7), To: SquareAt(8, 3, 5)}
		_, err := game.MakeMove(s, short)
		require.ErrorIs(t, err, game.ErrInvalidMove)
	})

	t.Run("no impact keeps every capture but no steps", func(t *testing.T) {
		s := layout(t, variant("none"), 0, forcedCapture)

		require.ElementsMatch(t, []string{"h2xf4", "c3xe5"}, names(s.LegalMoves()))
	})

	t.Run("kings can outweigh a longer chain", func(t *testing.T) {
		v := variant("illegal")
		v.Priority = "captures+kings"
		rows := append([]string(nil), forcedCapture...)
		rows[2] = "..d...L."
		s := layout(t, v, 0, rows)

		require.ElementsMatch(t, []string{"h2xf4", "c3xe5"}, names(s.LegalMoves()))
	})
}

func TestJumpChain(t *testing.T) {
	s := layout(t, variant("illegal"), 0, forcedCapture)
	dark := s.Player()

	mid := play(t, s, "c3xe5")

	require.NotNil(t, mid.Pending())
	require.Equal(t, "jump-chain", mid.Pending().Kind())
	require.Equal(t, dark, mid.Player(), "The capturing player keeps the turn")
	require.Equal(t, []string{"e5xg7"}, names(mid.LegalMoves()))
	require.Equal(t, 2, mid.Count(1))

	end := play(t, mid, "e5xg7")

	require.Nil(t, end.Pending())
	require.Equal(t, 1, end.Turn())
	require.Equal(t, 1, end.Count(1))
	require.Zero(t, end.Quiet())
	require.False(t, end.Terminal())
	require.Equal(t, []string{"g3-f2"}, names(end.LegalMoves()))
}

func TestPenalty(t *testing.T) {
	t.Run("every move stays legal", func(t *testing.T) {
		s := layout(t, variant("penalty"), 0, forcedCapture)

		require.ElementsMatch(t, []string{"c3-b4", "h2xf4", "c3xe5"}, names(s.LegalMoves()))
	})

	t.Run("a weaker capture can be claimed", func(t *testing.T) {
		s := layout(t, variant("penalty"), 0, forcedCapture)

		next := play(t, s, "h2xf4")

		require.Equal(t, SquareAt(8, 3, 5), next.Offender())
		require.Contains(t, names(next.LegalMoves()), "claim f4")

		claimed := play(t, next, "claim f4")

		require.Equal(t, 1, claimed.Turn(), "Claiming does not end the turn")
		require.Equal(t, NoSquare, claimed.Offender())
		require.Equal(t, Empty, claimed.At(3, 5))
		require.Equal(t, 1, claimed.Count(0))
		require.NotContains(t, names(claimed.LegalMoves()), "claim f4")
	})

	t.Run("a step over a capture can be claimed", func(t *testing.T) {
		s := layout(t, variant("penalty"), 0, forcedCapture)

		next := play(t, s, "c3-b4")

		require.Equal(t, SquareAt(8, 3, 1), next.Offender())
	})

	t.Run("the best chain is not punished", func(t *testing.T) {
		s := layout(t, variant("penalty"), 0, forcedCapture)

		end := play(t, play(t, s, "c3xe5"), "e5xg7")

		require.Equal(t, NoSquare, end.Offender())
		require.NotContains(t, names(end.LegalMoves()), "claim g7")
	})

	t.Run("the claim lapses once the claimer moves", func(t *testing.T) {
		s := layout(t, variant("penalty"), 0, forcedCapture)
		next := play(t, s, "h2xf4")

		after := play(t, next, "d4xb2")

		require.Equal(t, NoSquare, after.Offender())
		require.Equal(t, 1, after.Count(0))
	})
}

func TestEndings(t *testing.T) {
	empty := "........"

	t.Run("promotion", func(t *testing.T) {
		rows := []string{empty, empty, empty, empty, empty, empty, "d.......", ".......l"}
		s := layout(t, variant("illegal"), 0, rows)

		next := play(t, s, "a7-b8")

		require.Equal(t, DarkKing, next.At(7, 1))
		require.Equal(t, 1, next.Turn())
	})

	t.Run("capturing the last piece wins", func(t *testing.T) {
		rows := []string{empty, empty, "..d.....", "...l....", empty, empty, empty, empty}
		s := layout(t, variant("illegal"), 0, rows)
		dark := s.Player()

		next := play(t, s, "c3xe5")

		require.True(t, next.Terminal())
		require.Equal(t, PhaseOver, next.Phase())
		require.Equal(t, []game.Token{dark}, next.Winners())
		require.Empty(t, next.LegalMoves())
	})

	t.Run("a blocked player has lost", func(t *testing.T) {
		rows := []string{"d.......", ".l......", "l.l.....", empty, empty, empty, empty, empty}
		s := layout(t, variant("illegal"), 0, rows)

		require.True(t, s.Terminal())
		require.Equal(t, []game.Token{s.Seats().At(1)}, s.Winners())
	})

	t.Run("quiet turns draw", func(t *testing.T) {
		v := variant("illegal")
		v.DrawPlies = 2
		rows := []string{"D.......", empty, empty, empty, empty, empty, empty, ".......L"}
		s := layout(t, v, 0, rows)

		s = play(t, s, "a1-b2")
		require.False(t, s.Terminal())
		require.Equal(t, 1, s.Quiet())

		s = play(t, s, "h8-g7")
		require.True(t, s.Terminal())
		require.ElementsMatch(t, s.Seats().Tokens(), s.Winners(), "A draw lists every seat")
	})
}

func TestMoves(t *testing.T) {
	t.Run("moves bind to equal states", func(t *testing.T) {
		a := layout(t, variant("illegal"), 0, forcedCapture)
		b := layout(t, variant("illegal"), 0, forcedCapture)
		require.Zero(t, a.Compare(b))

		_, err := game.MakeMove(b, find(t, a, "c3xe5"))
		require.NoError(t, err)
	})

	t.Run("moves from other states are rejected", func(t *testing.T) {
		a := layout(t, variant("illegal"), 0, forcedCapture)
		b := layout(t, variant("none"), 0, forcedCapture)
		require.NotZero(t, a.Compare(b))

		_, err := game.MakeMove(b, find(t, a, "c3xe5"))
		require.ErrorIs(t, err, game.ErrInvalidMove)
	})

	t.Run("legality is checked once, by MakeMove", func(t *testing.T) {
		s := layout(t, variant("illegal"), 0, forcedCapture)
		short := Move{origin: s, Action: Jump, From: SquareAt(8, 1, 7), To: SquareAt(8, 3, 5)}

		_, err := game.MakeMove(s, short)
		require.ErrorIs(t, err, game.ErrInvalidMove)

		next, err := short.Apply()
		require.NoError(t, err, "Apply trusts its caller")
		require.NotZero(t, next.Compare(s))

		_, err = Move{}.Apply()
		require.ErrorIs(t, err, game.ErrInvalidMove)
	})

	t.Run("applying leaves the origin untouched", func(t *testing.T) {
		s := layout(t, variant("illegal"), 0, forcedCapture)
		before := s.board.clone()

		_ = play(t, s, "c3xe5")

		require.Zero(t, before.compare(s.board))
	})
}

func TestVariant(t *testing.T) {
	t.Run("yaml overrides defaults", func(t *testing.T) {
		v, err := ParseVariant([]byte("name: tiny\nwidth: 6\nimpact: penalty\npriority: captures+kings\n"))
		require.NoError(t, err)

		require.Equal(t, "tiny", v.Name)
		require.Equal(t, 6, v.Width)
		require.Equal(t, 80, v.DrawPlies, "Missing fields keep their default")

		r, err := v.rules()
		require.NoError(t, err)
		require.Equal(t, legality.ImpactPenalty, r.impact)
		require.Equal(t, PriorityCapturesAndKings, r.priority)
	})

	t.Run("load from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "variant.yaml")
		require.NoError(t, os.WriteFile(path, []byte("width: 10\n"), 0o600))

		v, err := LoadVariant(path)
		require.NoError(t, err)
		require.Equal(t, 10, v.Width)
		require.Equal(t, "english", v.Name)
	})

	t.Run("invalid variants", func(t *testing.T) {
		for _, raw := range []string{
			"width: 7",
			"width: 2",
			"impact: sometimes",
			"priority: tempo",
			"draw_plies: -1",
		} {
			_, err := ParseVariant([]byte(raw))
			require.ErrorIs(t, err, ErrInvalidVariant, raw)
		}

		_, err := ParseVariant([]byte("width: ["))
		require.Error(t, err)
	})
}

func TestMaterial(t *testing.T) {
	empty := "........"

	t.Run("even opening", func(t *testing.T) {
		s, err := New(DefaultVariant(), game.SeededSeats(1, 2))
		require.NoError(t, err)

		require.Zero(t, Material(s.Seats().At(0))(s))
	})

	t.Run("kings count twice", func(t *testing.T) {
		rows := []string{"D.......", empty, "..d.....", empty, empty, empty, empty, ".......l"}
		s := layout(t, variant("illegal"), 0, rows)

		require.InDelta(t, 0.5, Material(s.Seats().At(0))(s), 1e-9)
		require.InDelta(t, -0.5, Material(s.Seats().At(1))(s), 1e-9)
	})

	t.Run("finished games score the result", func(t *testing.T) {
		rows := []string{empty, empty, "..d.....", "...l....", empty, empty, empty, empty}
		s := layout(t, variant("illegal"), 0, rows)

		next := play(t, s, "c3xe5")

		require.Equal(t, 1.0, Material(s.Seats().At(0))(next))
		require.Equal(t, -1.0, Material(s.Seats().At(1))(next))
	})
}
