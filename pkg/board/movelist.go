package board

// MaxMovesPerPosition bounds the number of pseudo-legal moves any reachable chess position can
// have; 218 is the known worst case. MoveList is backed by a fixed array of this size so move
// generation never allocates.
const MaxMovesPerPosition = 218

// MoveList is a fixed-capacity stack of moves, populated by GenerateMoves and consumed by a
// move picker. It lives for the duration of a single search node.
type MoveList struct {
	moves [MaxMovesPerPosition]Move
	n     int
}

// Reset empties the list for reuse.
func (l *MoveList) Reset() {
	l.n = 0
}

// Add appends a move. Panics if the list is full, which would indicate a move-count bug.
func (l *MoveList) Add(m Move) {
	l.moves[l.n] = m
	l.n++
}

func (l *MoveList) Len() int {
	return l.n
}

func (l *MoveList) At(i int) Move {
	return l.moves[i]
}

// Contains reports whether m is present in the list.
func (l *MoveList) Contains(m Move) bool {
	for i := 0; i < l.n; i++ {
		if l.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a plain slice backed by the list's own array. Valid only until the
// list is Reset or reused.
func (l *MoveList) Slice() []Move {
	return l.moves[:l.n]
}
