// Package search implements the engine's alpha-beta search: move ordering, the transposition
// table, history heuristics and the iterative-deepening driver that ties them to board.Board and
// pkg/eval.
package search

import (
	"math/bits"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/eval"
	"go.uber.org/atomic"
)

// Bound records whether a stored score is exact or a one-sided window bound, matching how it was
// obtained relative to the (alpha, beta) window in effect when it was written.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower // score >= beta at the time of the store (a fail-high / cutoff)
	BoundUpper // score <= alpha at the time of the store (a fail-low)
)

// Entry is the decoded form of a transposition-table slot.
type Entry struct {
	KeyFragment uint16
	Score       eval.Score
	Move        board.Move
	Depth       int
	Bound       Bound
}

// pack/unpack lay the 8-byte entry out exactly as specified: 16-bit key fragment, 16-bit score,
// 16-bit move, 8-bit depth, 8-bit bound. This is what keeps a slot a single atomically
// loadable/storable word.
func pack(e Entry) uint64 {
	return uint64(e.KeyFragment) |
		uint64(uint16(e.Score))<<16 |
		uint64(e.Move)<<32 |
		uint64(uint8(e.Depth))<<48 |
		uint64(e.Bound)<<56
}

func unpack(w uint64) Entry {
	return Entry{
		KeyFragment: uint16(w),
		Score:       eval.Score(int16(w >> 16)),
		Move:        board.Move(w >> 32),
		Depth:       int(uint8(w >> 48)),
		Bound:       Bound(uint8(w >> 56)),
	}
}

// Table is a lockless transposition table: every slot is a single 8-byte word, loaded and stored
// with a single atomic operation. Readers verify the 16-bit key fragment against the probed
// key's low bits before trusting the decoded entry, so a torn read (another goroutine mid-store)
// is simply treated as a miss rather than requiring a lock. Replacement is always-replace: a
// store never refuses to overwrite an existing, possibly more valuable, entry.
type Table struct {
	entries []atomic.Uint64
}

// NewTable allocates a table sized to hold mib mebibytes of 8-byte entries.
func NewTable(mib int) *Table {
	if mib < 1 {
		mib = 1
	}
	n := (mib * 1024 * 1024) / 8
	if n < 1 {
		n = 1
	}
	return &Table{entries: make([]atomic.Uint64, n)}
}

// index maps the full 64-bit key uniformly onto [0, len(entries)) via a multiplicative hash,
// which works for any table length (not just powers of two), unlike a mask-based index.
func (t *Table) index(key board.ZobristKey) uint64 {
	hi, _ := bits.Mul64(uint64(key), uint64(len(t.entries)))
	return hi
}

// Probe looks up key, adjusting any stored mate score from its root-relative form back to a
// from-height form. height is the current node's distance from the search root (in plies).
func (t *Table) Probe(key board.ZobristKey, height int) (Entry, bool) {
	w := t.entries[t.index(key)].Load()
	e := unpack(w)
	if e.KeyFragment != uint16(key) {
		return Entry{}, false
	}
	e.Score = fromTT(e.Score, height)
	return e, true
}

// Store writes an entry for key, unconditionally replacing whatever was there. height converts
// mate scores to their root-relative, depth-invariant form before they're written.
func (t *Table) Store(key board.ZobristKey, score eval.Score, move board.Move, depth int, bound Bound, height int) {
	e := Entry{
		KeyFragment: uint16(key),
		Score:       toTT(score, height),
		Move:        move,
		Depth:       depth,
		Bound:       bound,
	}
	t.entries[t.index(key)].Store(pack(e))
}

// Clear resets every slot, used by the UCI "Clear Hash" button and "ucinewgame".
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i].Store(0)
	}
}

// Len returns the number of slots in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Hashfull estimates, per-mille, how full the table is by sampling the first 1000 slots; used
// for the UCI "hashfull" info field. Always-replace tables have no true occupancy bit, so a
// non-zero word is treated as "used".
func (t *Table) Hashfull() int {
	n := 1000
	if n > len(t.entries) {
		n = len(t.entries)
	}
	used := 0
	for i := 0; i < n; i++ {
		if t.entries[i].Load() != 0 {
			used++
		}
	}
	if len(t.entries) == 0 {
		return 0
	}
	return used * 1000 / n
}

// toTT converts a mate score measured from height plies into the the table's depth-invariant,
// root-relative encoding.
func toTT(score eval.Score, height int) eval.Score {
	switch {
	case score >= eval.MateBound:
		return score + eval.Score(height)
	case score <= -eval.MateBound:
		return score - eval.Score(height)
	default:
		return score
	}
}

// fromTT reverses toTT, converting a root-relative stored mate score back to one measured from
// the current node's height.
func fromTT(score eval.Score, height int) eval.Score {
	switch {
	case score >= eval.MateBound:
		return score - eval.Score(height)
	case score <= -eval.MateBound:
		return score + eval.Score(height)
	default:
		return score
	}
}

// Usable reports whether a probed entry at the given depth and (alpha, beta) window can be
// returned directly without searching, per the semantics of the Bound constants. pv
// indicates the current node is a PV node, where an Upper-bound cutoff is never taken (PV nodes
// always want the real score to build an accurate principal variation).
func (e Entry) Usable(depth int, alpha, beta eval.Score, pv bool) bool {
	if e.Depth < depth {
		return false
	}
	switch e.Bound {
	case BoundExact:
		return true
	case BoundLower:
		return e.Score >= beta
	case BoundUpper:
		return !pv && e.Score <= alpha
	default:
		return false
	}
}
