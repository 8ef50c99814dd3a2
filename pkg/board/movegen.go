package board

// GenMode selects which subset of pseudo-legal moves GenerateMoves emits. Legality itself
// (king safety) is resolved by MakeMove, not here.
type GenMode int

const (
	// GenAll emits every pseudo-legal move, including castling.
	GenAll GenMode = iota
	// GenCaptures emits only moves landing on an enemy-occupied square plus en-passant captures
	// (promotion captures included; non-capturing pushes, including quiet promotions, excluded).
	GenCaptures
)

// GenerateMoves appends every pseudo-legal move of the requested mode to list. list is not
// Reset first, so callers control whether moves accumulate across calls.
func (b *Board) GenerateMoves(mode GenMode, list *MoveList) {
	us := b.sideToMove
	ours := b.Side(us)
	theirs := b.Side(us.Flip())
	occ := ours | theirs
	empty := ^occ

	var target Bitboard
	if mode == GenCaptures {
		target = theirs
	} else {
		target = ^ours
	}

	b.generatePawnMoves(us, empty, theirs, mode, list)

	for bb := b.PiecesOf(us, Knight); bb != 0; {
		sq, rest := bb.PopLSB()
		bb = rest
		emit(list, sq, KnightAttacks(sq)&target)
	}
	for bb := b.PiecesOf(us, Bishop); bb != 0; {
		sq, rest := bb.PopLSB()
		bb = rest
		emit(list, sq, BishopAttacks(sq, occ)&target)
	}
	for bb := b.PiecesOf(us, Rook); bb != 0; {
		sq, rest := bb.PopLSB()
		bb = rest
		emit(list, sq, RookAttacks(sq, occ)&target)
	}
	for bb := b.PiecesOf(us, Queen); bb != 0; {
		sq, rest := bb.PopLSB()
		bb = rest
		emit(list, sq, QueenAttacks(sq, occ)&target)
	}

	king := b.KingSquare(us)
	emit(list, king, KingAttacks(king)&target)

	if mode == GenAll {
		b.generateCastlingMoves(us, occ, list)
	}
}

func emit(list *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		to, rest := targets.PopLSB()
		targets = rest
		list.Add(NewNormalMove(from, to))
	}
}

func (b *Board) generatePawnMoves(us Color, empty, theirs Bitboard, mode GenMode, list *MoveList) {
	pawns := b.PiecesOf(us, Pawn)
	promoRank := PawnPromotionRank(us)
	homeRank := PawnHomeRank(us)

	for bb := pawns; bb != 0; {
		from, rest := bb.PopLSB()
		bb = rest

		if mode == GenAll {
			single := PawnPush(us, BitMask(from)) & empty
			if single != 0 {
				to := single.LSB()
				if to.Rank() == promoRank {
					addPromotions(list, from, to)
				} else {
					list.Add(NewNormalMove(from, to))
					if from.Rank() == homeRank {
						double := PawnPush(us, single) & empty
						if double != 0 {
							list.Add(NewNormalMove(from, double.LSB()))
						}
					}
				}
			}
		}

		captures := PawnAttacks(us, from) & theirs
		for captures != 0 {
			to, crest := captures.PopLSB()
			captures = crest
			if to.Rank() == promoRank {
				addPromotions(list, from, to)
			} else {
				list.Add(NewNormalMove(from, to))
			}
		}

		if ep := b.epSquare; ep != NoSquare && PawnAttacks(us, from).IsSet(ep) {
			list.Add(NewEnPassantMove(from, ep))
		}
	}
}

func addPromotions(list *MoveList, from, to Square) {
	list.Add(NewPromotionMove(from, to, Queen))
	list.Add(NewPromotionMove(from, to, Rook))
	list.Add(NewPromotionMove(from, to, Bishop))
	list.Add(NewPromotionMove(from, to, Knight))
}

func (b *Board) generateCastlingMoves(us Color, occ Bitboard, list *MoveList) {
	rank := Rank1
	if us == Black {
		rank = Rank8
	}
	kingside, queenside := rightsOf(us)
	king := NewSquare(FileE, rank)

	if b.castling.Allows(kingside) {
		f, g := NewSquare(FileF, rank), NewSquare(FileG, rank)
		if !occ.IsSet(f) && !occ.IsSet(g) {
			list.Add(NewCastlingMove(king, g, true))
		}
	}
	if b.castling.Allows(queenside) {
		d, c, bq := NewSquare(FileD, rank), NewSquare(FileC, rank), NewSquare(FileB, rank)
		if !occ.IsSet(d) && !occ.IsSet(c) && !occ.IsSet(bq) {
			list.Add(NewCastlingMove(king, c, false))
		}
	}
}
