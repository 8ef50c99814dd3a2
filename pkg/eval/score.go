// Package eval statically evaluates chess positions: tapered material plus piece-square tables,
// and the Score arithmetic (mate-distance bookkeeping, unit conversion) the search stages build
// on.
package eval

import (
	"fmt"

	"github.com/Beanie496/Crab/pkg/board"
)

// Score is a signed centipawn evaluation, positive favors the side it is relative to (see
// Evaluate, which returns scores from the side-to-move's perspective, matching negamax).
type Score int32

const (
	// Draw is the score of a drawn position.
	Draw Score = 0

	// MinScore/MaxScore bound every score the search can produce, chosen (along with MateScore
	// below) to fit in the int16 each transposition-table entry packs a score into.
	MinScore Score = -30000
	MaxScore Score = 30000
	NegInf         = MinScore - 1
	Inf            = MaxScore + 1

	// MateScore is the score of delivering mate on the current move. MateBound is the threshold
	// above (below, negated) which a score encodes a forced mate rather than material; any score
	// with |s| >= MateBound is a mate score.
	MateScore Score = 29000
	MateBound Score = MateScore - 256
)

func (s Score) String() string {
	if m, ok := s.MateIn(); ok {
		return fmt.Sprintf("mate %d", m)
	}
	return fmt.Sprintf("cp %d", s)
}

// MateIn returns the number of moves (not plies) to mate if s is a mate score, negative if the
// side to move is being mated. The bool reports whether s was a mate score at all.
func (s Score) MateIn() (int, bool) {
	switch {
	case s >= MateBound:
		plies := MateScore - s
		return int(plies+1) / 2, true
	case s <= -MateBound:
		plies := MateScore + s
		return -int(plies+1) / 2, true
	default:
		return 0, false
	}
}

// IsMate reports whether s encodes a forced mate rather than a material evaluation.
func (s Score) IsMate() bool {
	return s >= MateBound || s <= -MateBound
}

// MateIn returns the score for delivering mate at the given search height (plies from root): the
// deepest mates score lowest, so shorter mates are always preferred by the search.
func MateIn(height int) Score {
	return MateScore - Score(height)
}

// MatedIn returns the score for being mated at the given search height.
func MatedIn(height int) Score {
	return -MateScore + Score(height)
}

// Unit returns the signed unit for a color: +1 for White, -1 for Black. Multiplying a
// White-relative score by Unit(c) converts it to c's perspective.
func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	}
	return -1
}

// Crop clamps s into [MinScore, MaxScore], guarding against runaway accumulation near mate
// bounds.
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
