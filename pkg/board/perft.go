package board

// Perft counts the leaf nodes of the legal move tree rooted at b's current position, to the
// given depth. It is a movegen correctness tool: every pseudo-legal move is tried via
// MakeMove/UnmakeMove, and only those accepted by MakeMove (i.e. legal) are recursed into. See:
// https://www.chessprogramming.org/Perft_Results.
func (b *Board) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var list MoveList
	b.GenerateMoves(GenAll, &list)

	var nodes uint64
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if b.MakeMove(m) {
			nodes += b.Perft(depth - 1)
		}
		b.UnmakeMove()
	}
	return nodes
}

// Divide is Perft, broken down by the first move played, for debugging movegen divergences
// against a reference engine.
func (b *Board) Divide(depth int) map[Move]uint64 {
	var list MoveList
	b.GenerateMoves(GenAll, &list)

	counts := make(map[Move]uint64, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if b.MakeMove(m) {
			counts[m] = b.Perft(depth - 1)
		}
		b.UnmakeMove()
	}
	return counts
}
