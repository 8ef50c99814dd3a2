package eval

import "github.com/Beanie496/Crab/pkg/board"

// Evaluate returns a tapered material-plus-piece-square-table evaluation of b, from the
// perspective of the side to move: positive favors whoever is to move next.
//
// The board already maintains the midgame/endgame PSQT accumulators and the game phase
// incrementally through MakeMove/UnmakeMove (see board.Board), so this is just the final lerp:
// at phase 24 (all officers on) the midgame table dominates; at phase 0 (bare kings and pawns)
// the endgame table does.
func Evaluate(b *board.Board) Score {
	phase := int32(b.Phase())
	const maxPhase = 24

	mg := b.PSQMidgame()
	eg := b.PSQEndgame()
	tapered := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	return Score(tapered) * Unit(b.SideToMove())
}
