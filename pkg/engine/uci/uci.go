// Package uci drives an Engine over the Universal Chess Interface protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/board/fen"
	"github.com/Beanie496/Crab/pkg/engine"
	"github.com/Beanie496/Crab/pkg/search"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// ProtocolName is the line a controller sends to switch an engine into UCI mode.
const ProtocolName = "uci"

const (
	minThreads, maxThreads       = 1, 255
	minHashMiB, maxHashMiB       = 1, 1 << 16
	minOverheadMS, maxOverheadMS = 0, 1000
)

// Driver implements a UCI driver for an Engine. It does not wait for "uci" itself: the caller
// consumes that first line before calling NewDriver, which replies with the id/option/uciok block
// straight away.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active atomic.Bool

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts a driver goroutine that consumes in and produces out until "quit" or in is
// closed.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	d.out <- fmt.Sprintf("option name Hash type spin default %v min %v max %v", d.e.Options().HashMiB, minHashMiB, maxHashMiB)
	d.out <- fmt.Sprintf("option name Threads type spin default %v min %v max %v", d.e.Options().Threads, minThreads, maxThreads)
	d.out <- fmt.Sprintf("option name Move Overhead type spin default %v min %v max %v", d.e.Options().MoveOverhead, minOverheadMS, maxOverheadMS)
	d.out <- "option name Clear Hash type button"

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if !d.handle(ctx, line) {
				return
			}

		case <-d.quit:
			d.e.Stop(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// handle processes one input line, returning false if the driver should exit.
func (d *Driver) handle(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]

	switch strings.ToLower(cmd) {
	case "isready":
		d.out <- "readyok"

	case "debug":
		// Accepted, not acted on.

	case "setoption":
		d.handleSetOption(ctx, args)

	case "register":
		// No registration required.

	case "ucinewgame":
		d.e.Stop(ctx)
		d.e.ClearHash()

	case "position":
		d.handlePosition(ctx, line, args)

	case "go":
		d.handleGo(ctx, args)

	case "stop":
		d.e.Stop(ctx)

	case "ponderhit":
		// Pondering is not implemented; nothing to reconcile.

	case "quit":
		return false

	default:
		logw.Warningf(ctx, "Unknown command %q", cmd)
	}
	return true
}

func (d *Driver) handleSetOption(ctx context.Context, args []string) {
	var name, value string
	nameParts := []string{}
	inName, inValue := false, false
	var valueParts []string

	for _, a := range args {
		switch strings.ToLower(a) {
		case "name":
			inName, inValue = true, false
			continue
		case "value":
			inName, inValue = false, true
			continue
		}
		if inName {
			nameParts = append(nameParts, a)
		} else if inValue {
			valueParts = append(valueParts, a)
		}
	}
	name = strings.Join(nameParts, " ")
	value = strings.Join(valueParts, " ")

	switch name {
	case "Hash":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetHash(ctx, clamp(n, minHashMiB, maxHashMiB))
		}
	case "Threads":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetThreads(clamp(n, minThreads, maxThreads))
		}
	case "Move Overhead":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetMoveOverhead(clamp(n, minOverheadMS, maxOverheadMS))
		}
	case "Clear Hash":
		d.e.ClearHash()
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	position := fen.Startpos
	i := 0
	switch {
	case len(args) > 0 && args[0] == "startpos":
		i = 1
	case len(args) > 0 && args[0] == "fen":
		end := 1
		for end < len(args) && args[end] != "moves" {
			end++
		}
		position = strings.Join(args[1:end], " ")
		i = end
	}

	var moves []string
	if i < len(args) && args[i] == "moves" {
		moves = args[i+1:]
	}

	if err := d.e.SetPosition(ctx, position, moves); err != nil {
		logw.Errorf(ctx, "Invalid position %q: %v", line, err)
		d.out <- fmt.Sprintf("info string %v", err)
	}
}

func (d *Driver) handleGo(ctx context.Context, args []string) {
	var limits search.Limits
	var wtime, btime, winc, binc time.Duration
	movesToGo := 0
	haveClock := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth", "nodes", "movetime", "wtime", "btime", "winc", "binc", "movestogo":
			i++
			if i >= len(args) {
				break
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				break
			}
			switch args[i-1] {
			case "depth":
				limits.Depth = n
			case "nodes":
				limits.Nodes = uint64(n)
			case "movetime":
				limits.Movetime = time.Duration(n) * time.Millisecond
			case "wtime":
				wtime, haveClock = time.Duration(n)*time.Millisecond, true
			case "btime":
				btime, haveClock = time.Duration(n)*time.Millisecond, true
			case "winc":
				winc = time.Duration(n) * time.Millisecond
			case "binc":
				binc = time.Duration(n) * time.Millisecond
			case "movestogo":
				movesToGo = n
			}
		case "infinite":
			limits.Infinite = true
		default:
			// searchmoves/ponder and anything else: not supported, silently ignored.
		}
	}

	if haveClock && limits.Movetime == 0 && !limits.Infinite {
		remaining, inc := wtime, winc
		if d.e.Board().SideToMove() == board.Black {
			remaining, inc = btime, binc
		}
		limits.Timed = &search.TimeControl{Remaining: remaining, Increment: inc, MovesToGo: movesToGo}
	}

	d.active.Store(true)
	if err := d.e.Go(ctx, limits, d); err != nil {
		logw.Errorf(ctx, "go failed: %v", err)
		d.active.Store(false)
	}
}

// Info implements search.Sink, formatting one completed-iteration report as a single "info"
// line per the protocol's ordering guarantee (never interleaved mid-line).
func (d *Driver) Info(i search.Info) {
	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", i.Depth))
	if i.SelDepth > 0 {
		parts = append(parts, fmt.Sprintf("seldepth %v", i.SelDepth))
	}
	if moves, ok := i.Score.MateIn(); ok {
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(i.Score)))
	}
	parts = append(parts, fmt.Sprintf("nodes %v", i.Nodes))
	parts = append(parts, fmt.Sprintf("time %v", i.Time.Milliseconds()))
	if ms := i.Time.Milliseconds(); ms > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", int64(i.Nodes)*1000/ms))
	}
	parts = append(parts, fmt.Sprintf("hashfull %v", i.Hashfull))
	if len(i.PV) > 0 {
		parts = append(parts, "pv")
		for _, m := range i.PV {
			parts = append(parts, m.String())
		}
	}
	d.out <- strings.Join(parts, " ")
}

// BestMove implements search.Sink, emitting the terminal "bestmove" line.
func (d *Driver) BestMove(m board.Move) {
	if d.active.CAS(true, false) {
		if m.IsNull() {
			d.out <- "bestmove 0000"
		} else {
			d.out <- fmt.Sprintf("bestmove %v", m.String())
		}
	}
}
