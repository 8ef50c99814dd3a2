package search

import "github.com/Beanie496/Crab/pkg/board"

// historyMax bounds the magnitude any history score can reach. Capping (rather than letting
// scores grow unboundedly) keeps a handful of good moves in recent positions from permanently
// dominating ordering everywhere else.
const historyMax = 16384

// History holds the per-worker ordering memory consulted by the move picker: butterfly history
// (per side/from/to), continuation history (per previous-move/current-move pair), killers (best
// quiet refutation per ply) and counter moves (best reply to the opponent's last move). None of
// this is shared across workers; each search worker owns its own History.
type History struct {
	butterfly [board.NumColors][board.NumSquares][board.NumSquares]int32
	cont      [board.NumPieces][board.NumSquares][board.NumPieces][board.NumSquares]int32
	killers   [MaxDepth][2]board.Move
	counter   [board.NumPieces][board.NumSquares]board.Move
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Reset clears every table. The search itself never calls it: each Worker built by NewWorker
// starts from an empty History.
func (h *History) Reset() {
	*h = History{}
}

// ClearKillers empties the killer slot for the given ply height, called before a node searches
// its children so grandchildren don't see their parent's stale killers.
func (h *History) ClearKillers(height int) {
	h.killers[height][0] = board.NullMove
	h.killers[height][1] = board.NullMove
}

// Killers returns the two killer moves recorded for height.
func (h *History) Killers(height int) (board.Move, board.Move) {
	return h.killers[height][0], h.killers[height][1]
}

// AddKiller records m as the newest killer at height, demoting the previous first killer to
// second. A killer already equal to m is not re-inserted.
func (h *History) AddKiller(height int, m board.Move) {
	if h.killers[height][0] == m {
		return
	}
	h.killers[height][1] = h.killers[height][0]
	h.killers[height][0] = m
}

// Counter returns the recorded best reply to the opponent having just played piece to to.
func (h *History) Counter(piece board.Piece, to board.Square) board.Move {
	return h.counter[piece][to]
}

// SetCounter records m as the best reply seen so far to the opponent playing piece to to.
func (h *History) SetCounter(piece board.Piece, to board.Square, m board.Move) {
	h.counter[piece][to] = m
}

// ButterflyScore returns the quiet-move ordering contribution from butterfly history.
func (h *History) ButterflyScore(side board.Color, from, to board.Square) int32 {
	return h.butterfly[side][from][to]
}

// ContinuationScore returns the quiet-move ordering contribution from continuation history,
// keyed by the piece/destination of the move one ply ago and this move's piece/destination.
func (h *History) ContinuationScore(prevPiece board.Piece, prevTo board.Square, piece board.Piece, to board.Square) int32 {
	if prevPiece == board.NoPiece {
		return 0
	}
	return h.cont[prevPiece][prevTo][piece][to]
}

// QuietScore is the combined move-ordering score the move picker uses for a quiet move.
func (h *History) QuietScore(side board.Color, from, to board.Square, prevPiece board.Piece, prevTo board.Square, piece board.Piece) int32 {
	return h.ButterflyScore(side, from, to) + h.ContinuationScore(prevPiece, prevTo, piece, to)
}

// UpdateQuiet applies the history-gravity update after a node finds a new best move: best is
// rewarded, every other quiet move tried before the cutoff is penalized. bonus/malus use the
// standard "gravity" formula so a table entry asymptotically approaches +-historyMax rather than
// overflowing under repeated reinforcement.
func (h *History) UpdateQuiet(side board.Color, best board.Move, tried []board.Move, prevPiece board.Piece, prevTo board.Square, pieceOf func(board.Move) board.Piece, depth int) {
	bonus := int32(depth * depth)
	if bonus > historyMax {
		bonus = historyMax
	}

	for _, m := range tried {
		delta := -bonus
		if m == best {
			delta = bonus
		}
		applyGravity(&h.butterfly[side][m.From()][m.To()], delta)
		if prevPiece != board.NoPiece {
			applyGravity(&h.cont[prevPiece][prevTo][pieceOf(m)][m.To()], delta)
		}
	}
}

func applyGravity(v *int32, delta int32) {
	*v += delta - *v*abs32(delta)/historyMax
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
