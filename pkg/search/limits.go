package search

import "time"

// TimeControl describes a classical clock: time remaining plus an increment awarded after each
// move, and optionally a fixed number of moves until the next control.
type TimeControl struct {
	Remaining time.Duration
	Increment time.Duration
	MovesToGo int // 0 == unknown; treated as "rest of the game"
}

// Limits bounds a single search. Every field that is set applies at once, and the search stops
// at whichever limit is reached first; zero values mean "not set".
type Limits struct {
	Depth    int           // 0 == no limit
	Nodes    uint64        // 0 == no limit
	Movetime time.Duration // 0 == no limit
	Timed    *TimeControl  // nil == not used
	Infinite bool

	// MoveOverhead is subtracted from a Timed budget to leave headroom for engine/GUI latency.
	MoveOverhead time.Duration
}

// assumedMovesToGo is used when a Timed search doesn't specify moves-to-go: the clock is
// apportioned as though 40 moves remained.
const assumedMovesToGo = 40

// budget computes the soft per-move time allowance for a Timed search, per the design:
// remaining / min(movesToGo, 40) + increment, less the configured move overhead.
func (t TimeControl) budget(overhead time.Duration) time.Duration {
	moves := t.MovesToGo
	if moves <= 0 || moves > assumedMovesToGo {
		moves = assumedMovesToGo
	}
	b := t.Remaining/time.Duration(moves) + t.Increment - overhead
	if b < 0 {
		b = 0
	}
	return b
}
