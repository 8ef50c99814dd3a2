package board_test

import (
	"testing"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/board/fen"
	"github.com/stretchr/testify/require"
)

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		nodes uint64
	}{
		{"startpos", fen.Startpos, 5, 4865609},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4, 4085603},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.NewStartingBoard()
			require.NoError(t, fen.Apply(b, tt.fen))
			require.Equal(t, tt.nodes, b.Perft(tt.depth))
		})
	}
}

// TestMakeUnmakeRoundTrip asserts every legal move from a battery of positions restores the
// board byte-for-byte (via its public observable state) after make/unmake.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	positions := []string{
		fen.Startpos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, p := range positions {
		b := board.NewStartingBoard()
		require.NoError(t, fen.Apply(b, p))

		before := fen.Encode(b)

		var list board.MoveList
		b.GenerateMoves(board.GenAll, &list)
		for i := 0; i < list.Len(); i++ {
			m := list.At(i)
			b.MakeMove(m)
			b.UnmakeMove()
			require.Equal(t, before, fen.Encode(b), "move %v did not round-trip", m)
		}
	}
}

// TestIncrementalAccumulatorsMatchFreshRecompute exercises the invariant that psq/phase/zobrist
// maintained incrementally through make/unmake never drift from a from-scratch recomputation.
func TestIncrementalAccumulatorsMatchFreshRecompute(t *testing.T) {
	b := board.NewStartingBoard()
	require.NoError(t, fen.Apply(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"))

	var walk func(depth int)
	walk = func(depth int) {
		assertAccumulatorsFresh(t, b)
		if depth == 0 {
			return
		}

		var list board.MoveList
		b.GenerateMoves(board.GenAll, &list)
		for i := 0; i < list.Len(); i++ {
			m := list.At(i)
			if b.MakeMove(m) {
				walk(depth - 1)
			}
			b.UnmakeMove()
		}
	}
	walk(2)
}

func assertAccumulatorsFresh(t *testing.T, b *board.Board) {
	t.Helper()

	fresh := board.NewStartingBoard()
	require.NoError(t, fen.Apply(fresh, fen.Encode(b)))

	require.Equal(t, fresh.Zobrist(), b.Zobrist())
	require.Equal(t, fresh.Phase(), b.Phase())
	require.Equal(t, fresh.PSQMidgame(), b.PSQMidgame())
	require.Equal(t, fresh.PSQEndgame(), b.PSQEndgame())
}

// TestGenerateMovesCapturesIsSubsetOfAll asserts generate_moves(ALL) superset-contains
// generate_moves(CAPTURES), and that CAPTURES is exactly ALL filtered to moves landing on an
// enemy square or en passant.
func TestGenerateMovesCapturesIsSubsetOfAll(t *testing.T) {
	positions := []string{
		fen.Startpos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, p := range positions {
		b := board.NewStartingBoard()
		require.NoError(t, fen.Apply(b, p))

		var all, captures board.MoveList
		b.GenerateMoves(board.GenAll, &all)
		b.GenerateMoves(board.GenCaptures, &captures)

		for i := 0; i < captures.Len(); i++ {
			require.True(t, all.Contains(captures.At(i)), "capture %v missing from ALL", captures.At(i))
		}

		enemy := b.Side(b.SideToMove().Flip())
		for i := 0; i < all.Len(); i++ {
			m := all.At(i)
			isCapture := enemy.IsSet(m.To()) || m.Flag() == board.EnPassant
			require.Equal(t, isCapture, captures.Contains(m), "move %v capture-classification mismatch", m)
		}
	}
}
