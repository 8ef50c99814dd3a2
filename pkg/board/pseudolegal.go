package board

// IsPseudoLegal reports whether m could be produced by GenerateMoves in the current position,
// without generating the full move list. It is used by the move picker to validate moves pulled
// from the transposition table, killer slots and the counter-move table before spending a
// make/unmake cycle on them. It does not check king safety; MakeMove is still the final
// authority on legality.
func (b *Board) IsPseudoLegal(m Move) bool {
	if m.IsNull() {
		return false
	}

	us := b.sideToMove
	from, to := m.From(), m.To()
	moving := b.mailbox[from]
	if moving == NoPiece || moving.Color() != us {
		return false
	}
	if b.mailbox[to] != NoPiece && b.mailbox[to].Color() == us {
		return false
	}

	occ := b.Occupied()

	switch m.Flag() {
	case CastlingFlag:
		if moving.Type() != King {
			return false
		}
		rank := Rank1
		if us == Black {
			rank = Rank8
		}
		if from != NewSquare(FileE, rank) {
			return false
		}
		kingside, queenside := rightsOf(us)
		if m.IsKingsideCastle() {
			if !b.castling.Allows(kingside) || to != NewSquare(FileG, rank) {
				return false
			}
			return !occ.IsSet(NewSquare(FileF, rank)) && !occ.IsSet(NewSquare(FileG, rank))
		}
		if !b.castling.Allows(queenside) || to != NewSquare(FileC, rank) {
			return false
		}
		return !occ.IsSet(NewSquare(FileD, rank)) && !occ.IsSet(NewSquare(FileC, rank)) && !occ.IsSet(NewSquare(FileB, rank))

	case EnPassant:
		if moving.Type() != Pawn || b.epSquare == NoSquare || to != b.epSquare {
			return false
		}
		return PawnAttacks(us, from).IsSet(to)

	case Promotion:
		if moving.Type() != Pawn || to.Rank() != PawnPromotionRank(us) {
			return false
		}
		if b.mailbox[to] != NoPiece {
			return PawnAttacks(us, from).IsSet(to)
		}
		return PawnPush(us, BitMask(from))&^occ != 0 && PawnPush(us, BitMask(from)) == BitMask(to)

	default: // Normal
		if moving.Type() == Pawn {
			if to.Rank() == PawnPromotionRank(us) {
				return false // must be encoded as Promotion
			}
			if b.mailbox[to] != NoPiece {
				return PawnAttacks(us, from).IsSet(to)
			}
			single := PawnPush(us, BitMask(from)) &^ occ
			if single != 0 && single == BitMask(to) {
				return true
			}
			if from.Rank() == PawnHomeRank(us) && single != 0 {
				double := PawnPush(us, single) &^ occ
				return double != 0 && double == BitMask(to)
			}
			return false
		}
		return PieceAttacks(moving.Type(), from, occ).IsSet(to)
	}
}
