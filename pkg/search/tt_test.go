package search_test

import (
	"testing"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/eval"
	"github.com/Beanie496/Crab/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableProbeMiss(t *testing.T) {
	tt := search.NewTable(1)
	_, ok := tt.Probe(board.ZobristKey(0x1234), 0)
	assert.False(t, ok)
}

func TestTableStoreAndProbe(t *testing.T) {
	tt := search.NewTable(1)
	key := board.ZobristKey(0xabcdef0123456789)
	m := board.NewNormalMove(board.E2, board.E4)

	tt.Store(key, eval.Score(57), m, 8, search.BoundExact, 0)

	e, ok := tt.Probe(key, 0)
	require.True(t, ok)
	assert.Equal(t, eval.Score(57), e.Score)
	assert.Equal(t, m, e.Move)
	assert.Equal(t, 8, e.Depth)
	assert.Equal(t, search.BoundExact, e.Bound)
}

func TestTableMateScoreRootRelative(t *testing.T) {
	tt := search.NewTable(1)
	key := board.ZobristKey(0x1)

	// A mate found 3 plies below the root is stored root-relative, then recovered relative to
	// whatever height it is probed from.
	tt.Store(key, eval.MateIn(3), board.NullMove, 1, search.BoundExact, 3)

	e, ok := tt.Probe(key, 3)
	require.True(t, ok)
	assert.Equal(t, eval.MateIn(3), e.Score)

	e2, ok := tt.Probe(key, 0)
	require.True(t, ok)
	assert.Equal(t, eval.MateIn(0), e2.Score)
}

func TestEntryUsable(t *testing.T) {
	e := search.Entry{Depth: 5, Bound: search.BoundExact, Score: 10}
	assert.True(t, e.Usable(5, 0, 100, false))
	assert.False(t, e.Usable(6, 0, 100, false))

	lower := search.Entry{Depth: 5, Bound: search.BoundLower, Score: 50}
	assert.True(t, lower.Usable(5, 0, 40, false))
	assert.False(t, lower.Usable(5, 0, 60, false))

	upper := search.Entry{Depth: 5, Bound: search.BoundUpper, Score: 10}
	assert.True(t, upper.Usable(5, 20, 100, false))
	assert.False(t, upper.Usable(5, 20, 100, true)) // PV nodes never trust an upper bound
}

func TestTableClear(t *testing.T) {
	tt := search.NewTable(1)
	key := board.ZobristKey(0x42)
	tt.Store(key, eval.Score(1), board.NullMove, 1, search.BoundExact, 0)

	tt.Clear()
	_, ok := tt.Probe(key, 0)
	assert.False(t, ok)
}
