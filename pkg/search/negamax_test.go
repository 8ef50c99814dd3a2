package search_test

import (
	"testing"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/board/fen"
	"github.com/Beanie496/Crab/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSink struct {
	infos []search.Info
	best  board.Move
}

func (s *capturingSink) Info(i search.Info)    { s.infos = append(s.infos, i) }
func (s *capturingSink) BestMove(m board.Move) { s.best = m }

func TestWorkerFindsMateInOne(t *testing.T) {
	// White king g6 and queen f6 deliver Qf6-g7#, a king-supported smothered-style mate.
	b := newTestBoard(t, "6k1/8/5QK1/8/8/8/8/8 w - - 0 1")

	tt := search.NewTable(1)
	sink := &capturingSink{}
	w := search.NewWorker(b, tt, sink)

	w.Run(search.Limits{Depth: 3})

	require.NotEqual(t, board.NullMove, sink.best)
	assert.Equal(t, board.NewNormalMove(board.F6, board.G7), sink.best)

	last := sink.infos[len(sink.infos)-1]
	moves, isMate := last.Score.MateIn()
	require.True(t, isMate)
	assert.Equal(t, 1, moves)
}

func TestWorkerRespectsNodeLimit(t *testing.T) {
	b := newTestBoard(t, fen.Startpos)
	sink := &capturingSink{}
	w := search.NewWorker(b, search.NewTable(1), sink)

	w.Run(search.Limits{Nodes: 1000, Depth: 64})

	require.NotEqual(t, board.NullMove, sink.best)
}

func TestWorkerTerminatesAtShallowDepth(t *testing.T) {
	b := newTestBoard(t, fen.Startpos)
	sink := &capturingSink{}
	w := search.NewWorker(b, search.NewTable(1), sink)

	w.Run(search.Limits{Depth: 1})

	require.NotEqual(t, board.NullMove, sink.best)
	require.NotEmpty(t, sink.infos)
	assert.Equal(t, 1, sink.infos[0].Depth)
}
