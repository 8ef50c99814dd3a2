// Package engine wires together the board, transposition table and search worker into the
// single stateful object a protocol driver (UCI or otherwise) talks to.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/board/fen"
	"github.com/Beanie496/Crab/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(1, 0, 0)

// defaultHashMiB is the transposition table size used until a "setoption Hash" changes it.
const defaultHashMiB = 16

// Options are the runtime-tunable engine options, mirroring the UCI "setoption" surface.
type Options struct {
	HashMiB      int
	Threads      int
	MoveOverhead int // milliseconds
}

func (o Options) String() string {
	return fmt.Sprintf("{hash=%vMB, threads=%v, overhead=%vms}", o.HashMiB, o.Threads, o.MoveOverhead)
}

// Engine owns the board, the transposition table and the in-flight search worker, if any. All
// public methods are safe for concurrent use by a single protocol driver goroutine plus the
// worker's own reporting goroutine.
type Engine struct {
	name, author string

	mu     sync.Mutex
	b      *board.Board
	tt     *search.Table
	opts   Options
	worker *search.Worker
	done   chan struct{}
}

// New constructs an engine at the standard starting position.
func New(ctx context.Context, name, author string) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		opts:   Options{HashMiB: defaultHashMiB, Threads: 1, MoveOverhead: 30},
	}
	e.tt = search.NewTable(e.opts.HashMiB)
	_ = e.SetPosition(ctx, fen.Startpos, nil)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version, as reported by "id name".
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author, as reported by "id author".
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// SetHash resizes the transposition table. Takes effect immediately; existing entries are lost.
func (e *Engine) SetHash(ctx context.Context, mib int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.HashMiB = mib
	e.tt = search.NewTable(mib)
	logw.Infof(ctx, "Resized TT to %vMB", mib)
}

// ClearHash discards every transposition table entry without resizing.
func (e *Engine) ClearHash() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
}

func (e *Engine) SetMoveOverhead(ms int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.MoveOverhead = ms
}

func (e *Engine) SetThreads(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Threads = n
}

// Board returns the current board. Callers must not mutate it.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b
}

// Position returns the current position in FEN.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fen.Encode(e.b)
}

// SetPosition installs position (FEN) and then plays moves (in pure coordinate notation,
// "e2e4"-style) on top of it, as produced by a UCI "position" command.
func (e *Engine) SetPosition(ctx context.Context, position string, moves []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltLocked()

	fields, err := fen.Decode(position)
	if err != nil {
		// Per UCI convention, a malformed FEN reverts the position to the start position rather
		// than leaving whatever was there before; the caller is expected to surface err as an
		// "info string" diagnostic.
		e.b = board.NewStartingBoard()
		return fmt.Errorf("invalid position, reverted to startpos: %w", err)
	}

	// Moves are replayed on a scratch board rather than e.b directly, so a move partway through
	// the list failing leaves the previously-installed position untouched; the scratch board is
	// only committed to e.b once the entire FEN + move sequence has succeeded.
	b := board.NewStartingBoard()
	b.Set(fields.Placement, fields.Turn, fields.Castling, fields.EnPassant, fields.Halfmove, fields.Fullmove)

	for _, mv := range moves {
		if err := applyMove(b, mv); err != nil {
			return err
		}
	}
	e.b = b

	logw.Debugf(ctx, "Position set: %v", e.b)
	return nil
}

// applyMove reconciles a coordinate-notation move against b's legal move list so that
// castling/en-passant/promotion flags are recovered, then plays it on b.
func applyMove(b *board.Board, mv string) error {
	from, to, promo, hasPromo, err := board.ParseMove(mv)
	if err != nil {
		return fmt.Errorf("invalid move %q: %w", mv, err)
	}

	var list board.MoveList
	b.GenerateMoves(board.GenAll, &list)

	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.Flag() == board.Promotion {
			if !hasPromo || m.PromotionPiece() != promo {
				continue
			}
		} else if hasPromo {
			continue
		}

		if !b.MakeMove(m) {
			b.UnmakeMove()
			return fmt.Errorf("illegal move: %v", mv)
		}
		return nil
	}
	return fmt.Errorf("move not legal in this position: %v", mv)
}

// Go starts an asynchronous search under limits, reporting through sink until it completes or
// Stop is called. Only one search may be active at a time.
func (e *Engine) Go(ctx context.Context, limits search.Limits, sink search.Sink) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.worker != nil {
		return fmt.Errorf("search already active")
	}

	limits.MoveOverhead = time.Duration(e.opts.MoveOverhead) * time.Millisecond
	w := search.NewWorker(e.b, e.tt, sink).WithContext(ctx)
	e.worker = w
	e.done = make(chan struct{})

	go func() {
		defer close(e.done)
		w.Run(limits)

		e.mu.Lock()
		if e.worker == w {
			e.worker = nil
		}
		e.mu.Unlock()
	}()

	logw.Infof(ctx, "Search started: %v", limits)
	return nil
}

// Stop halts an in-progress search, if any, and waits for it to report its bestmove.
func (e *Engine) Stop(ctx context.Context) {
	e.mu.Lock()
	w := e.worker
	done := e.done
	e.mu.Unlock()

	if w == nil {
		return
	}
	w.Stop()
	<-done

	logw.Infof(ctx, "Search stopped")
}

func (e *Engine) haltLocked() {
	if e.worker == nil {
		return
	}
	w := e.worker
	done := e.done
	e.mu.Unlock()
	w.Stop()
	<-done
	e.mu.Lock()
}
