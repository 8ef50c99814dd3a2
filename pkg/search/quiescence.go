package search

import (
	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/eval"
)

// quiescence extends search along capture (and, if in check, evasion) lines until the position
// is "quiet", to avoid misjudging a position in the middle of an exchange (the horizon effect).
func (w *Worker) quiescence(alpha, beta eval.Score, height int) eval.Score {
	w.nodes++
	if height > w.selDepth {
		w.selDepth = height
	}
	if w.shouldStop() {
		return alpha
	}
	if height >= MaxDepth {
		return eval.Evaluate(w.b)
	}

	inCheck := w.b.InCheck()

	var standPat eval.Score
	if inCheck {
		standPat = eval.MatedIn(height)
	} else {
		standPat = eval.Evaluate(w.b)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	mode := board.GenCaptures
	if inCheck {
		mode = board.GenAll // evasions, including quiet king moves
	}

	var list board.MoveList
	w.b.GenerateMoves(mode, &list)

	scored := make([]scoredMove, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		var s int32
		if isCapture(w.b, m) {
			s = mvvLva(w.b, m)
		}
		scored = append(scored, scoredMove{m: m, score: s})
	}

	best := standPat
	legal := false
	for len(scored) > 0 {
		i := bestIndex(scored)
		m := scored[i].m
		scored = removeAt(scored, i)

		if !w.b.MakeMove(m) {
			w.b.UnmakeMove()
			continue
		}
		legal = true

		score := -w.quiescence(-beta, -alpha, height+1)
		w.b.UnmakeMove()

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			return alpha
		}
	}

	if inCheck && !legal {
		return eval.MatedIn(height)
	}
	return best
}
