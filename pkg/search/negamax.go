package search

import (
	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/eval"
)

// nmpVerifyDepth is the depth at or above which a null-move fail-high is re-confirmed by a shallow
// verification search (instead of being trusted outright), guarding against zugzwang positions
// where giving up a tempo looks good but isn't.
const nmpVerifyDepth = 12

// negamax is the alpha-beta workhorse: a negamax-form search with principal-variation search,
// null-move pruning, late-move reductions and internal iterative reduction. It returns a score
// from the side-to-move's perspective at height, and leaves its line in w.pvStack[height].
func (w *Worker) negamax(alpha, beta eval.Score, depth, height int, prevPiece board.Piece, prevTo board.Square) eval.Score {
	if depth <= 0 {
		return w.quiescence(alpha, beta, height)
	}

	pvNode := beta-alpha > 1
	root := height == 0

	w.pvStack[height].Clear()

	w.nodes++
	if height > w.selDepth {
		w.selDepth = height
	}
	if w.shouldStop() {
		return alpha
	}

	if !root {
		alpha = eval.Max(alpha, eval.MatedIn(height))
		beta = eval.Min(beta, eval.MateIn(height+1))
		if alpha >= beta {
			return alpha
		}
		if w.b.HalfmoveClock() >= 100 || w.b.IsRepetition(2) {
			return eval.Draw
		}
	}

	var ttMove board.Move
	if w.tt != nil {
		if e, ok := w.tt.Probe(w.b.Zobrist(), height); ok {
			ttMove = e.Move
			if !root && e.Usable(depth, alpha, beta, pvNode) {
				return e.Score
			}
		}
	}

	us := w.b.SideToMove()
	inCheck := w.b.InCheck()

	staticEval := eval.Score(eval.NegInf)
	if !inCheck {
		staticEval = eval.Evaluate(w.b)
	}

	if height+1 < MaxDepth {
		w.hist.ClearKillers(height + 1)
	}

	// Null-move pruning: give the opponent a free tempo and see if they're still losing badly
	// enough at reduced depth that this position is already (probably) a cutoff.
	if !pvNode && !inCheck && !root && depth >= 3 && staticEval >= beta &&
		!w.nmpDisabled[us] && w.hasNonPawnMaterial(us) {

		r := 3 + depth/3 + minInt(int(staticEval-beta)/200, 6)
		newDepth := depth - r
		if newDepth < 0 {
			newDepth = 0
		}

		ep := w.b.MakeNullMove()
		score := -w.negamax(-beta, -beta+1, newDepth, height+1, board.NoPiece, board.NoSquare)
		w.b.UnmakeNullMove(ep)

		if w.shouldStop() {
			return alpha
		}
		if score >= beta && !score.IsMate() {
			if depth < nmpVerifyDepth {
				return score
			}
			w.nmpDisabled[us] = true
			verify := w.negamax(beta-1, beta, newDepth, height, prevPiece, prevTo)
			w.nmpDisabled[us] = false
			if verify >= beta {
				return verify
			}
		}
	}

	// Internal iterative reduction: no TT move to trust for ordering, so don't commit full depth.
	if !pvNode && ttMove == board.NullMove && depth >= 4 {
		depth--
	}

	picker := NewMovePicker(w.b, w.hist, height, ttMove, prevPiece, prevTo)

	origAlpha := alpha
	bestScore := eval.NegInf
	bestMove := board.NullMove
	bestMoveQuiet := false
	legalMoves := 0
	var triedQuiets []board.Move

	for {
		m, ok := picker.Next()
		if !ok {
			break
		}

		moving := w.b.PieceAt(m.From())
		quiet := !isCapture(w.b, m)

		if !w.b.MakeMove(m) {
			w.b.UnmakeMove()
			continue
		}
		legalMoves++

		extension := 0
		if w.b.InCheck() {
			extension = 1
		}
		newDepth := depth - 1 + extension

		var score eval.Score
		if legalMoves == 1 {
			score = -w.negamax(-beta, -alpha, newDepth, height+1, moving, m.To())
		} else {
			reduction := 0
			if quiet && depth >= 3 && legalMoves-1 >= 3 {
				reduction = lmrReduction(depth, legalMoves-1)
			}
			score = -w.negamax(-alpha-1, -alpha, newDepth-reduction, height+1, moving, m.To())
			if score > alpha && reduction > 0 {
				score = -w.negamax(-alpha-1, -alpha, newDepth, height+1, moving, m.To())
			}
			if pvNode && score > alpha {
				score = -w.negamax(-beta, -alpha, newDepth, height+1, moving, m.To())
			}
		}

		w.b.UnmakeMove()

		if w.shouldStop() {
			return alpha
		}

		if quiet {
			triedQuiets = append(triedQuiets, m)
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			bestMoveQuiet = quiet
			if score > alpha {
				alpha = score
				w.pvStack[height].Update(m, &w.pvStack[height+1])
				if root {
					w.rootBest = m
					w.rootScore = score
				}
			}
		}
		if alpha >= beta {
			break
		}
	}

	if legalMoves == 0 {
		if inCheck {
			return eval.MatedIn(height)
		}
		return eval.Draw
	}

	if bestMove != board.NullMove && bestMoveQuiet {
		w.hist.UpdateQuiet(us, bestMove, triedQuiets, prevPiece, prevTo, func(mv board.Move) board.Piece {
			return w.b.PieceAt(mv.From())
		}, depth)
		w.hist.AddKiller(height, bestMove)
		if prevPiece != board.NoPiece {
			w.hist.SetCounter(prevPiece, prevTo, bestMove)
		}
	}

	if w.tt != nil {
		bound := BoundExact
		switch {
		case bestScore >= beta:
			bound = BoundLower
		case bestScore <= origAlpha:
			bound = BoundUpper
		}
		w.tt.Store(w.b.Zobrist(), bestScore, bestMove, depth, bound, height)
	}

	return bestScore
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
