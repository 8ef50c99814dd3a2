package search_test

import (
	"testing"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/board/fen"
	"github.com/Beanie496/Crab/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, position string) *board.Board {
	t.Helper()
	fields, err := fen.Decode(position)
	require.NoError(t, err)

	b := board.NewStartingBoard()
	b.Set(fields.Placement, fields.Turn, fields.Castling, fields.EnPassant, fields.Halfmove, fields.Fullmove)
	return b
}

func TestMovePickerEmitsEveryLegalMoveExactlyOnce(t *testing.T) {
	b := newTestBoard(t, fen.Startpos)
	hist := search.NewHistory()

	picker := search.NewMovePicker(b, hist, 0, board.NullMove, board.NoPiece, board.NoSquare)

	var list board.MoveList
	b.GenerateMoves(board.GenAll, &list)

	seen := make(map[board.Move]int)
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}
		seen[m]++
	}

	assert.Equal(t, list.Len(), len(seen))
	for i := 0; i < list.Len(); i++ {
		assert.Equal(t, 1, seen[list.At(i)], "move %v should be emitted exactly once", list.At(i))
	}
}

func TestMovePickerTTMoveFirst(t *testing.T) {
	b := newTestBoard(t, fen.Startpos)
	hist := search.NewHistory()
	ttMove := board.NewNormalMove(board.D2, board.D4)

	picker := search.NewMovePicker(b, hist, 0, ttMove, board.NoPiece, board.NoSquare)
	first, ok := picker.Next()

	require.True(t, ok)
	assert.Equal(t, ttMove, first)
}

func TestMovePickerCapturesOrderedBeforeQuietsWhenWinning(t *testing.T) {
	// White to move, a pawn takes a rook available: the winning capture should be seen before
	// any quiet move.
	b := newTestBoard(t, "4k3/8/8/8/3r4/4P3/8/4K3 w - - 0 1")
	hist := search.NewHistory()

	picker := search.NewMovePicker(b, hist, 0, board.NullMove, board.NoPiece, board.NoSquare)
	capture := board.NewNormalMove(board.E3, board.D4)

	var order []board.Move
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}
		order = append(order, m)
	}

	idx := -1
	for i, m := range order {
		if m == capture {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, 3, "winning capture should be ordered early")
}
