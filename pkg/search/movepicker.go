package search

import (
	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/eval"
)

// badCaptureOffset demotes a losing capture (negative SEE) far enough below the historyMax scale
// that it always sorts after every quiet move, while still letting it share the same "pick best
// remaining" selection loop as the quiets it's interleaved with.
const badCaptureOffset = 1 << 20

type scoredMove struct {
	m     board.Move
	score int32
}

// pickerStage enumerates the move picker's emission order, one stage per bullet of the staged
// generator described for move ordering.
type pickerStage int

const (
	stageTT pickerStage = iota
	stageGenCaptures
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageCounter
	stageGenRemaining
	stageRemaining
	stageDone
)

// MovePicker lazily emits a node's moves in the order most likely to produce an early beta
// cutoff: the transposition-table move, winning captures, killers, the counter move, then
// quiets (and losing captures) by history score. Generation of each stage is deferred until the
// previous stage is exhausted, so a cutoff on the TT move or an early capture never pays for
// generating quiets at all.
type MovePicker struct {
	b    *board.Board
	hist *History

	ttMove, killer1, killer2, counter board.Move
	skip                              bool

	stage     pickerStage
	captures  []scoredMove
	remaining []scoredMove

	prevPiece board.Piece
	prevTo    board.Square
}

// NewMovePicker constructs a move picker for the node at the given height. prevPiece/prevTo
// identify the move that led to this position (NoPiece/NoSquare at the root), used to look up
// the counter move and continuation history.
func NewMovePicker(b *board.Board, hist *History, height int, ttMove board.Move, prevPiece board.Piece, prevTo board.Square) *MovePicker {
	k1, k2 := hist.Killers(height)
	var counter board.Move
	if prevPiece != board.NoPiece {
		counter = hist.Counter(prevPiece, prevTo)
	}

	mp := &MovePicker{
		b: b, hist: hist,
		ttMove: ttMove, killer1: k1, killer2: k2, counter: counter,
		prevPiece: prevPiece, prevTo: prevTo,
	}
	if ttMove != board.NullMove && b.IsPseudoLegal(ttMove) {
		mp.stage = stageTT
	} else {
		mp.stage = stageGenCaptures
	}
	return mp
}

// SkipQuiets arrests the killer/counter/quiet stages, used once a node decides the rest of its
// quiet moves are unlikely to matter (e.g. about to be pruned).
func (mp *MovePicker) SkipQuiets() {
	mp.skip = true
}

// Next returns the next move in the picker's order, or false once exhausted.
func (mp *MovePicker) Next() (board.Move, bool) {
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stageGenCaptures
			return mp.ttMove, true

		case stageGenCaptures:
			mp.generateCaptures()
			mp.stage = stageGoodCaptures

		case stageGoodCaptures:
			for len(mp.captures) > 0 {
				i := bestIndex(mp.captures)
				cm := mp.captures[i]
				mp.captures = removeAt(mp.captures, i)

				if cm.m == mp.ttMove {
					continue
				}
				if eval.SEE(mp.b, cm.m) < 0 {
					mp.remaining = append(mp.remaining, scoredMove{m: cm.m, score: cm.score - badCaptureOffset})
					continue
				}
				return cm.m, true
			}
			mp.stage = stageKiller1

		case stageKiller1:
			mp.stage = stageKiller2
			if mv, ok := mp.tryKiller(mp.killer1); ok {
				return mv, true
			}

		case stageKiller2:
			mp.stage = stageCounter
			if mp.killer2 == mp.killer1 {
				continue
			}
			if mv, ok := mp.tryKiller(mp.killer2); ok {
				return mv, true
			}

		case stageCounter:
			mp.stage = stageGenRemaining
			if mp.skip || mp.counter == board.NullMove || mp.counter == mp.ttMove ||
				mp.counter == mp.killer1 || mp.counter == mp.killer2 {
				continue
			}
			if mp.b.IsPseudoLegal(mp.counter) && !isCapture(mp.b, mp.counter) {
				return mp.counter, true
			}

		case stageGenRemaining:
			if !mp.skip {
				mp.generateQuiets()
			}
			mp.stage = stageRemaining

		case stageRemaining:
			for len(mp.remaining) > 0 {
				i := bestIndex(mp.remaining)
				rm := mp.remaining[i]
				mp.remaining = removeAt(mp.remaining, i)

				if rm.m == mp.ttMove || rm.m == mp.killer1 || rm.m == mp.killer2 || rm.m == mp.counter {
					continue
				}
				return rm.m, true
			}
			mp.stage = stageDone

		case stageDone:
			return board.NullMove, false
		}
	}
}

func (mp *MovePicker) tryKiller(k board.Move) (board.Move, bool) {
	if mp.skip || k == board.NullMove || k == mp.ttMove {
		return board.NullMove, false
	}
	if mp.b.IsPseudoLegal(k) && !isCapture(mp.b, k) {
		return k, true
	}
	return board.NullMove, false
}

func (mp *MovePicker) generateCaptures() {
	var list board.MoveList
	mp.b.GenerateMoves(board.GenCaptures, &list)
	mp.captures = make([]scoredMove, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		mp.captures = append(mp.captures, scoredMove{m: m, score: mvvLva(mp.b, m)})
	}
}

func (mp *MovePicker) generateQuiets() {
	var all board.MoveList
	mp.b.GenerateMoves(board.GenAll, &all)

	if mp.remaining == nil {
		mp.remaining = make([]scoredMove, 0, all.Len())
	}
	for i := 0; i < all.Len(); i++ {
		m := all.At(i)
		if isCapture(mp.b, m) {
			continue // already produced (or demoted) by the capture stage
		}
		piece := mp.b.PieceAt(m.From())
		score := mp.hist.QuietScore(mp.b.SideToMove(), m.From(), m.To(), mp.prevPiece, mp.prevTo, piece)
		mp.remaining = append(mp.remaining, scoredMove{m: m, score: score})
	}
}

// mvvLva scores a capture by most-valuable-victim, least-valuable-aggressor.
func mvvLva(b *board.Board, m board.Move) int32 {
	var victim board.PieceType
	if m.Flag() == board.EnPassant {
		victim = board.Pawn
	} else {
		victim = b.PieceAt(m.To()).Type()
	}
	attacker := b.PieceAt(m.From()).Type()
	return int32(eval.NominalValue(victim))*16 - int32(eval.NominalValue(attacker))
}

func isCapture(b *board.Board, m board.Move) bool {
	return m.Flag() == board.EnPassant || b.PieceAt(m.To()) != board.NoPiece
}

func bestIndex(s []scoredMove) int {
	best := 0
	for i := 1; i < len(s); i++ {
		if s[i].score > s[best].score {
			best = i
		}
	}
	return best
}

func removeAt(s []scoredMove, i int) []scoredMove {
	last := len(s) - 1
	s[i] = s[last]
	return s[:last]
}
