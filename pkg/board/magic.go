package board

import "math/rand"

// Sliding-piece attacks are resolved with magic bitboards: a per-square perfect hash maps the
// relevant blocker occupancy to a precomputed attack bitboard.
//
//	index = ((occupancy & mask) * magic) >> shift
//	attack = table[offset+index]
//
// The 128 magic multipliers (64 rook + 64 bishop) are normally shipped as hardcoded constants
// discovered offline by a brute-force Carry-Rippler search (see DESIGN.md for why this build
// instead searches for them once at process startup). Either way the technique and the shape
// of the resulting lookup are the same.

type magicEntry struct {
	mask   Bitboard
	magic  Bitboard
	shift  uint
	offset int
}

var (
	rookMagics   [NumSquares]magicEntry
	bishopMagics [NumSquares]magicEntry

	rookAttackTable   []Bitboard
	bishopAttackTable []Bitboard
)

var (
	rookDeltas   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDeltas = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func init() {
	initMagics(&rookMagics, &rookAttackTable, rookDeltas)
	initMagics(&bishopMagics, &bishopAttackTable, bishopDeltas)
}

func initMagics(magics *[NumSquares]magicEntry, table *[]Bitboard, deltas [4][2]int) {
	rng := rand.New(rand.NewSource(0xC0FFEE))

	var offset int
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		mask := relevantOccupancy(sq, deltas)
		bits := mask.PopCount()
		size := 1 << bits
		shift := uint(64 - bits)

		occupancies := make([]Bitboard, size)
		attacks := make([]Bitboard, size)
		for i := 0; i < size; i++ {
			occ := subsetOf(i, mask)
			occupancies[i] = occ
			attacks[i] = rayAttacks(sq, occ, deltas)
		}

		magic, slot := findMagic(rng, occupancies, attacks, shift)

		magics[sq] = magicEntry{mask: mask, magic: magic, shift: shift, offset: offset}
		*table = append(*table, slot...)
		offset += size
	}
}

// findMagic searches for a multiplier that maps every occupancy to a table slot without ever
// mapping two distinct attack sets to the same slot (constructive-collision-only check: a
// collision is tolerated only when both occupancies produce the same attack bitboard).
func findMagic(rng *rand.Rand, occupancies, attacks []Bitboard, shift uint) (Bitboard, []Bitboard) {
	size := 1 << (64 - shift)
	slot := make([]Bitboard, size)

	for {
		magic := sparseRandom(rng)

		for i := range slot {
			slot[i] = 0
		}
		used := make([]bool, size)

		ok := true
		for i, occ := range occupancies {
			idx := (occ * magic) >> shift
			if used[idx] && slot[idx] != attacks[i] {
				ok = false
				break
			}
			used[idx] = true
			slot[idx] = attacks[i]
		}
		if ok {
			return magic, slot
		}
	}
}

// sparseRandom returns a random 64-bit value with relatively few set bits, which empirically
// yields valid magics far faster than uniformly-random 64-bit values.
func sparseRandom(rng *rand.Rand) Bitboard {
	return Bitboard(rng.Uint64()) & Bitboard(rng.Uint64()) & Bitboard(rng.Uint64())
}

// relevantOccupancy returns the blocker mask for a sliding piece on sq: every square reachable
// along each ray, excluding the final (edge) square of that ray, since a piece there never
// blocks anything further.
func relevantOccupancy(sq Square, deltas [4][2]int) Bitboard {
	var mask Bitboard
	r, f := int(sq.Rank()), int(sq.File())

	for _, d := range deltas {
		cr, cf := r+d[0], f+d[1]
		for onBoard(cr, cf) {
			nr, nf := cr+d[0], cf+d[1]
			if !onBoard(nr, nf) {
				break // cr/cf is the edge square: excluded from the mask
			}
			mask = mask.Set(NewSquare(File(cf), Rank(cr)))
			cr, cf = nr, nf
		}
	}
	return mask
}

// rayAttacks scans each ray from sq until (and including) the first blocker in occ, or the
// edge of the board. This is the "ground truth" used both to verify magics and to populate
// the attack tables.
func rayAttacks(sq Square, occ Bitboard, deltas [4][2]int) Bitboard {
	var attacks Bitboard
	r, f := int(sq.Rank()), int(sq.File())

	for _, d := range deltas {
		cr, cf := r+d[0], f+d[1]
		for onBoard(cr, cf) {
			target := NewSquare(File(cf), Rank(cr))
			attacks = attacks.Set(target)
			if occ.IsSet(target) {
				break
			}
			cr, cf = cr+d[0], cf+d[1]
		}
	}
	return attacks
}

func onBoard(r, f int) bool {
	return r >= 0 && r < 8 && f >= 0 && f < 8
}

// subsetOf enumerates the i-th subset of mask's set bits (Carry-Rippler indexing).
func subsetOf(i int, mask Bitboard) Bitboard {
	var subset Bitboard
	m := mask
	for bitIndex := 0; m != 0; bitIndex++ {
		sq, rest := m.PopLSB()
		if i&(1<<bitIndex) != 0 {
			subset = subset.Set(sq)
		}
		m = rest
	}
	return subset
}
