// Command crab is a UCI-compliant chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Beanie496/Crab/pkg/board"
	"github.com/Beanie496/Crab/pkg/board/fen"
	"github.com/Beanie496/Crab/pkg/engine"
	"github.com/Beanie496/Crab/pkg/engine/uci"
	"github.com/Beanie496/Crab/pkg/search"
	"github.com/seekerror/logw"
)

var (
	perftDepth = flag.Int("perft", 0, "Run perft to this depth against -fen (or startpos) and exit")
	divide     = flag.Bool("divide", false, "Break perft counts down by root move")
	position   = flag.String("fen", "", "Position for -perft (default: standard starting position)")
	benchDepth = flag.Int("bench", 0, "Run a fixed-depth search against a small built-in position set and exit")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: crab [options]

Crab is a UCI chess engine. With no options, it speaks UCI on stdin/stdout.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	switch {
	case *perftDepth > 0:
		runPerft(ctx, *position, *perftDepth, *divide)
	case *benchDepth > 0:
		runBench(ctx, *benchDepth)
	default:
		runUCI(ctx)
	}
}

func runUCI(ctx context.Context) {
	e := engine.New(ctx, "Crab", "Beanie496")

	in := engine.ReadStdinLines(ctx)
	first, ok := <-in
	if !ok {
		return
	}
	if first != uci.ProtocolName {
		logw.Exitf(ctx, "Expected %q as the first line, got %q", uci.ProtocolName, first)
	}

	driver, out := uci.NewDriver(ctx, e, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}

func runPerft(ctx context.Context, fenStr string, depth int, divide bool) {
	if fenStr == "" {
		fenStr = fen.Startpos
	}
	fields, err := fen.Decode(fenStr)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", fenStr, err)
	}

	b := board.NewStartingBoard()
	b.Set(fields.Placement, fields.Turn, fields.Castling, fields.EnPassant, fields.Halfmove, fields.Fullmove)

	if divide {
		counts := b.Divide(depth)
		var total uint64
		for m, n := range counts {
			fmt.Printf("%v: %v\n", m, n)
			total += n
		}
		fmt.Printf("\ntotal: %v\n", total)
		return
	}

	for d := 1; d <= depth; d++ {
		start := time.Now()
		nodes := b.Perft(d)
		fmt.Printf("perft,%v,%v,%v,%v\n", fenStr, d, nodes, time.Since(start).Microseconds())
	}
}

// benchPositions is a small, fixed set of middlegame/endgame FENs exercised by -bench, used as a
// quick smoke test of node throughput and as a deterministic speed comparison between builds.
var benchPositions = []string{
	fen.Startpos,
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

func runBench(ctx context.Context, depth int) {
	var totalNodes uint64
	start := time.Now()

	for _, pos := range benchPositions {
		e := engine.New(ctx, "Crab", "Beanie496")
		if err := e.SetPosition(ctx, pos, nil); err != nil {
			logw.Exitf(ctx, "Invalid bench position %q: %v", pos, err)
		}

		done := make(chan struct{})
		sink := &benchSink{done: done}
		if err := e.Go(ctx, benchLimits(depth), sink); err != nil {
			logw.Exitf(ctx, "Bench search failed: %v", err)
		}
		<-done
		totalNodes += sink.nodes
	}

	elapsed := time.Since(start)
	nps := uint64(0)
	if elapsed > 0 {
		nps = totalNodes * uint64(time.Second) / uint64(elapsed)
	}
	fmt.Printf("%v nodes %v nps\n", totalNodes, nps)
}

type benchSink struct {
	done  chan struct{}
	nodes uint64
}

func (s *benchSink) Info(i search.Info) { s.nodes = i.Nodes }
func (s *benchSink) BestMove(board.Move) {
	close(s.done)
}

func benchLimits(depth int) search.Limits {
	return search.Limits{Depth: depth}
}
