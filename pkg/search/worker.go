package search

import (
	"context"
	"time"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"go.uber.org/atomic"
)

// Info is a snapshot of search progress, reported once per completed iteration. It carries
// everything a UCI "info" line needs.
type Info struct {
	Depth, SelDepth int
	Score           eval.Score
	Nodes           uint64
	Time            time.Duration
	Hashfull        int
	PV              []board.Move
}

// Sink receives search progress and the final result. The driver (UCI or otherwise) implements
// this to turn engine output into text.
type Sink interface {
	Info(Info)
	BestMove(board.Move)
}

// Worker drives one search: the iterative-deepening loop, the negamax tree beneath it, and the
// per-worker move-ordering state (history, killers, counters). It owns no state shared with
// other workers except the transposition table, which is safe for concurrent lockless access.
type Worker struct {
	b    *board.Board
	tt   *Table
	hist *History
	sink Sink
	ctx  context.Context

	limits    Limits
	overhead  time.Duration
	startTime time.Time

	nodes         uint64
	selDepth      int
	stopSignal    atomic.Bool
	stoppedCached bool

	nmpDisabled [board.NumColors]bool

	pvStack [MaxDepth + 1]PV

	rootBest  board.Move
	rootScore eval.Score
}

// NewWorker constructs a worker over b (mutated in place during search) and tt (shared, may be
// nil to disable the transposition table).
func NewWorker(b *board.Board, tt *Table, sink Sink) *Worker {
	return &Worker{b: b, tt: tt, hist: NewHistory(), sink: sink, ctx: context.Background()}
}

// WithContext attaches ctx to the worker: shouldStop additionally observes ctx's cancellation
// (via contextx.IsCancelled) on the same amortized schedule as the other stop conditions, so a
// driver-level context cancellation halts an in-progress search the same way an explicit Stop
// does. A worker built by NewWorker alone uses context.Background() and is unaffected.
func (w *Worker) WithContext(ctx context.Context) *Worker {
	w.ctx = ctx
	return w
}

// Stop requests that an in-progress search unwind as soon as it next checks (every 2048 nodes,
// and between iterative-deepening depths).
func (w *Worker) Stop() {
	w.stopSignal.Store(true)
}

// Run executes limits synchronously: the iterative-deepening loop, reporting through w.sink and
// returning once the search stops (by limit, by Stop, or after an infinite search is halted).
// Callers that want search to run in the background should invoke Run in its own goroutine.
func (w *Worker) Run(limits Limits) {
	w.limits = limits
	w.overhead = limits.overhead()
	w.startTime = time.Now()
	w.nodes = 0
	w.selDepth = 0
	w.stopSignal.Store(false)
	w.stoppedCached = false
	w.nmpDisabled = [board.NumColors]bool{}

	w.iterativeDeepen()
}

// overhead extracts the configured move-overhead duration from a Limits (set by the engine
// before Run, not part of the UCI "go" line itself); kept here so Limits stays a pure value type.
func (l Limits) overhead() time.Duration {
	return l.MoveOverhead
}

// shouldStop evaluates every stop condition, but — per the design — only actually checks the
// clock and the explicit stop signal every 2048 nodes, amortizing the cost of the time syscall.
func (w *Worker) shouldStop() bool {
	if w.nodes&2047 != 0 {
		return w.stoppedCached
	}

	if w.stopSignal.Load() {
		w.stoppedCached = true
		return true
	}
	if contextx.IsCancelled(w.ctx) {
		w.stoppedCached = true
		return true
	}
	if w.limits.Nodes > 0 && w.nodes >= w.limits.Nodes {
		w.stoppedCached = true
		return true
	}
	if w.limits.Movetime > 0 && time.Since(w.startTime) >= w.limits.Movetime-w.overhead {
		w.stoppedCached = true
		return true
	}
	if w.limits.Timed != nil {
		elapsed := time.Since(w.startTime)
		if elapsed+100*time.Microsecond > w.limits.Timed.Remaining {
			w.stoppedCached = true
			return true
		}
	}
	return false
}

func (w *Worker) hasNonPawnMaterial(c board.Color) bool {
	return w.b.PiecesOf(c, board.Knight) != 0 || w.b.PiecesOf(c, board.Bishop) != 0 ||
		w.b.PiecesOf(c, board.Rook) != 0 || w.b.PiecesOf(c, board.Queen) != 0
}
