package search

import (
	"strings"

	"github.com/Beanie496/Crab/pkg/board"
)

// MaxDepth bounds the height of any search, and therefore the length of a PV.
const MaxDepth = 256

// PV is a bounded principal-variation line: the sequence of moves a node currently believes is
// best, recorded at a node once its search completes. It is an output only: the search does not
// read a previous iteration's PV back for move ordering.
type PV struct {
	moves [MaxDepth]board.Move
	n     int
}

// Clear empties the line.
func (p *PV) Clear() {
	p.n = 0
}

// Len returns the number of moves in the line.
func (p *PV) Len() int {
	return p.n
}

// At returns the i-th move of the line.
func (p *PV) At(i int) board.Move {
	return p.moves[i]
}

// Moves returns the line as a plain slice, valid until the PV is mutated again.
func (p *PV) Moves() []board.Move {
	return p.moves[:p.n]
}

// Best returns the first move of the line, or the null move if empty.
func (p *PV) Best() board.Move {
	if p.n == 0 {
		return board.NullMove
	}
	return p.moves[0]
}

// Update replaces the line with m followed by child's moves. Used by a node once a move raises
// alpha: the node's own PV becomes [m, child...].
func (p *PV) Update(m board.Move, child *PV) {
	p.moves[0] = m
	n := child.n
	if n > MaxDepth-1 {
		n = MaxDepth - 1
	}
	copy(p.moves[1:], child.moves[:n])
	p.n = n + 1
}

func (p *PV) String() string {
	var sb strings.Builder
	for i := 0; i < p.n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.moves[i].String())
	}
	return sb.String()
}
