package search

import (
	"time"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/eval"
)

// aspirationMinDepth is the depth at which aspiration windows start narrowing around the
// previous iteration's score; below it, a full [-inf, +inf] window is used, since there isn't
// yet a reliable previous score to center on.
const aspirationMinDepth = 4

// aspirationMaxMargin caps how wide an aspiration window is allowed to grow before giving up on
// narrowing it at all and searching the remaining fail with an open bound.
const aspirationMaxMargin = eval.Score(700)

// aspirationMargin computes the half-width of the aspiration window at depth, centered on the
// previous iteration's score.
func aspirationMargin(depth int, score eval.Score) eval.Score {
	d := depth
	if d > 3 {
		d = 3
	}
	m := eval.Score(60/d) + score*score/3000
	if m > aspirationMaxMargin {
		m = aspirationMaxMargin
	}
	return m
}

// iterativeDeepen runs depth 1, 2, … until a stop condition fires, widening an aspiration window
// around each depth's expected score and reporting progress through w.sink after each completed
// depth. w.rootBest ends up as the first PV move of the last completed iteration, unless a later,
// stopped iteration had already fully searched a root move that raised alpha, in which case that
// move is kept.
func (w *Worker) iterativeDeepen() {
	maxDepth := MaxDepth - 1
	if w.limits.Depth > 0 && w.limits.Depth < maxDepth {
		maxDepth = w.limits.Depth
	}

	var budget time.Duration
	switch {
	case w.limits.Timed != nil:
		budget = w.limits.Timed.budget(w.overhead)
	case w.limits.Movetime > 0:
		budget = w.limits.Movetime - w.overhead
	}

	score := eval.Score(0)
	pv := make([]board.Move, 0, MaxDepth)

	for depth := 1; depth <= maxDepth; depth++ {
		var alpha, beta eval.Score
		margin := aspirationMargin(depth, score)
		if depth < aspirationMinDepth {
			alpha, beta = eval.NegInf, eval.Inf
		} else {
			alpha = eval.Max(eval.NegInf, score-margin)
			beta = eval.Min(eval.Inf, score+margin)
		}

		var s eval.Score
		for {
			s = w.negamax(alpha, beta, depth, 0, board.NoPiece, board.NoSquare)
			if w.shouldStop() {
				break
			}
			if s <= alpha && alpha > eval.NegInf {
				margin *= 2
				alpha = eval.Max(eval.NegInf, alpha-margin)
				if margin > aspirationMaxMargin {
					alpha = eval.NegInf
				}
				continue
			}
			if s >= beta && beta < eval.Inf {
				margin *= 2
				beta = eval.Min(eval.Inf, beta+margin)
				if margin > aspirationMaxMargin {
					beta = eval.Inf
				}
				continue
			}
			break
		}

		if w.shouldStop() && depth > 1 {
			// This iteration never completed; the PV/score below are from the last full depth.
			break
		}

		score = s
		if w.pvStack[0].Len() > 0 {
			pv = append(pv[:0], w.pvStack[0].Moves()...)
			w.rootBest = pv[0]
		}
		w.rootScore = score

		if w.sink != nil {
			hashfull := 0
			if w.tt != nil {
				hashfull = w.tt.Hashfull()
			}
			w.sink.Info(Info{
				Depth:    depth,
				SelDepth: w.selDepth,
				Score:    score,
				Nodes:    w.nodes,
				Time:     time.Since(w.startTime),
				Hashfull: hashfull,
				PV:       pv,
			})
		}

		if w.shouldStop() || w.stopSignal.Load() {
			break
		}
		if budget > 0 && time.Since(w.startTime) > budget/10 {
			break
		}
	}

	if w.sink != nil {
		w.sink.BestMove(w.rootBest)
	}
}
