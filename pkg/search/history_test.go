package search_test

import (
	"testing"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestHistoryKillers(t *testing.T) {
	h := search.NewHistory()
	a := board.NewNormalMove(board.E2, board.E4)
	b := board.NewNormalMove(board.D2, board.D4)

	h.AddKiller(0, a)
	k1, k2 := h.Killers(0)
	assert.Equal(t, a, k1)
	assert.Equal(t, board.NullMove, k2)

	h.AddKiller(0, b)
	k1, k2 = h.Killers(0)
	assert.Equal(t, b, k1)
	assert.Equal(t, a, k2)

	// Re-adding the current first killer is a no-op.
	h.AddKiller(0, b)
	k1, k2 = h.Killers(0)
	assert.Equal(t, b, k1)
	assert.Equal(t, a, k2)

	h.ClearKillers(0)
	k1, k2 = h.Killers(0)
	assert.Equal(t, board.NullMove, k1)
	assert.Equal(t, board.NullMove, k2)
}

func TestHistoryCounter(t *testing.T) {
	h := search.NewHistory()
	reply := board.NewNormalMove(board.G8, board.F6)

	pawn := board.NewPiece(board.Pawn, board.White)
	assert.Equal(t, board.NullMove, h.Counter(pawn, board.E4))
	h.SetCounter(pawn, board.E4, reply)
	assert.Equal(t, reply, h.Counter(pawn, board.E4))
}

func TestHistoryUpdateQuietRewardsBestAndPenalizesRest(t *testing.T) {
	h := search.NewHistory()
	best := board.NewNormalMove(board.B1, board.C3)
	other := board.NewNormalMove(board.G1, board.F3)

	knight := board.NewPiece(board.Knight, board.White)
	pieceOf := func(m board.Move) board.Piece { return knight }
	h.UpdateQuiet(board.White, best, []board.Move{other, best}, board.NoPiece, board.NoSquare, pieceOf, 4)

	assert.Greater(t, h.ButterflyScore(board.White, board.B1, board.C3), int32(0))
	assert.Less(t, h.ButterflyScore(board.White, board.G1, board.F3), int32(0))
}

func TestHistoryReset(t *testing.T) {
	h := search.NewHistory()
	m := board.NewNormalMove(board.E2, board.E4)
	h.AddKiller(1, m)
	h.Reset()

	k1, _ := h.Killers(1)
	assert.Equal(t, board.NullMove, k1)
}
