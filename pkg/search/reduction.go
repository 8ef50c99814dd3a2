package search

import "math"

// lmrMaxDepth/lmrMaxMoveIndex bound the precomputed late-move-reduction table. The design
// document describes this table as a small binary blob embedded at build time; since this build
// has no offline generation step, the same base-reduction curve is computed once at init instead
// of being baked in as data (see DESIGN.md).
const (
	lmrMaxDepth      = 64
	lmrMaxMoveIndex  = 128
	lmrMinDepth      = 3
	lmrMinMoveIndex  = 3
)

var lmrTable [lmrMaxDepth][lmrMaxMoveIndex]uint8

func init() {
	for d := 1; d < lmrMaxDepth; d++ {
		for n := 1; n < lmrMaxMoveIndex; n++ {
			r := 0.75 + math.Log(float64(d))*math.Log(float64(n))/2.25
			if r < 0 {
				r = 0
			}
			lmrTable[d][n] = uint8(r)
		}
	}
}

// lmrReduction returns the late-move reduction applied to a quiet move at the given depth and
// move index (0-based position in the move-picker order), or zero below the thresholds at which
// reduction applies.
func lmrReduction(depth, moveIndex int) int {
	if depth < lmrMinDepth || moveIndex < lmrMinMoveIndex {
		return 0
	}
	if depth >= lmrMaxDepth {
		depth = lmrMaxDepth - 1
	}
	if moveIndex >= lmrMaxMoveIndex {
		moveIndex = lmrMaxMoveIndex - 1
	}
	return int(lmrTable[depth][moveIndex])
}
