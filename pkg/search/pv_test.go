package search_test

import (
	"testing"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestPVUpdateSplicesChildLine(t *testing.T) {
	var child search.PV
	child.Update(board.NewNormalMove(board.E7, board.E5), &search.PV{})

	var pv search.PV
	pv.Update(board.NewNormalMove(board.E2, board.E4), &child)

	assert.Equal(t, 2, pv.Len())
	assert.Equal(t, board.NewNormalMove(board.E2, board.E4), pv.Best())
	assert.Equal(t, board.NewNormalMove(board.E7, board.E5), pv.At(1))
}

func TestPVClearEmptiesLine(t *testing.T) {
	var pv search.PV
	pv.Update(board.NewNormalMove(board.E2, board.E4), &search.PV{})
	pv.Clear()

	assert.Equal(t, 0, pv.Len())
	assert.Equal(t, board.NullMove, pv.Best())
}
