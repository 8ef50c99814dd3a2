package board

// addPiece places p on sq, updating the mailbox, bitboards, PSQ accumulator and zobrist key.
func (b *Board) addPiece(sq Square, p Piece) {
	b.mailbox[sq] = p
	b.pieces[p.Type()] = b.pieces[p.Type()].Set(sq)
	b.sides[p.Color()] = b.sides[p.Color()].Set(sq)
	b.psqMG += int32(PSQMG(p, sq))
	b.psqEG += int32(PSQEG(p, sq))
	b.zobrist ^= pieceKey(p, sq)
}

// removePiece clears sq (which must be occupied), returning the piece that was there.
func (b *Board) removePiece(sq Square) Piece {
	p := b.mailbox[sq]
	b.mailbox[sq] = NoPiece
	b.pieces[p.Type()] = b.pieces[p.Type()].Clear(sq)
	b.sides[p.Color()] = b.sides[p.Color()].Clear(sq)
	b.psqMG -= int32(PSQMG(p, sq))
	b.psqEG -= int32(PSQEG(p, sq))
	b.zobrist ^= pieceKey(p, sq)
	return p
}

// castlingRightLostAt returns the single castling right tied to a rook's home square, or zero.
func castlingRightLostAt(sq Square) Castling {
	switch sq {
	case A1:
		return WhiteQueenside
	case H1:
		return WhiteKingside
	case A8:
		return BlackQueenside
	case H8:
		return BlackKingside
	default:
		return 0
	}
}

func (b *Board) setCastling(c Castling) {
	b.zobrist ^= castlingKey(b.castling)
	b.castling = c
	b.zobrist ^= castlingKey(b.castling)
}

func (b *Board) setEnPassant(sq Square) {
	b.zobrist ^= enPassantKey(b.epSquare)
	b.epSquare = sq
	b.zobrist ^= enPassantKey(b.epSquare)
}

// MakeMove attempts to play the pseudo-legal move m. It returns false if the move is illegal
// (leaves the mover's king in check, castles through/into/out of check, or trips the 75-move
// adjudication). On either outcome the board has been mutated and the caller MUST call
// UnmakeMove to restore it; MakeMove never leaves the board in a free-floating invalid state
// because every return path pushes an undo frame.
func (b *Board) MakeMove(m Move) bool {
	var s state
	s.mailbox = b.mailbox
	s.pieces = b.pieces
	s.sides = b.sides
	s.sideToMove = b.sideToMove
	s.castling = b.castling
	s.epSquare = b.epSquare
	s.halfmoveClock = b.halfmoveClock
	s.fullmoveNumber = b.fullmoveNumber
	s.psqMG, s.psqEG = b.psqMG, b.psqEG
	s.phase = b.phase
	s.zobrist = b.zobrist

	mover := b.sideToMove
	from, to := m.From(), m.To()
	movingPiece := b.mailbox[from]
	capturedPiece := b.mailbox[to]
	isEnPassant := m.Flag() == EnPassant
	isPawnMove := movingPiece.Type() == Pawn
	isCapture := capturedPiece != NoPiece || isEnPassant

	// (1) Move counters.
	b.halfmoveClock++
	if mover == Black {
		b.fullmoveNumber++
	}

	// (2) No-progress reset / 75-move adjudication.
	if isPawnMove || isCapture {
		b.halfmoveClock = 0
	} else if b.halfmoveClock > 150 {
		b.undo = append(b.undo, s)
		return false
	}

	// (3) Clear ep square; it is only ever valid for the move immediately following a jump.
	b.setEnPassant(NoSquare)

	// (4) Move the piece, resolving captures.
	b.removePiece(from)
	if capturedPiece != NoPiece {
		b.removePiece(to)
	}
	b.addPiece(to, movingPiece)
	if capturedPiece != NoPiece {
		b.phase = b.recomputePhase()
	}

	// (5) Rook captured on its home square loses the corresponding right.
	if capturedPiece.Type() == Rook {
		b.setCastling(b.castling.Remove(castlingRightLostAt(to)))
	}

	// (6) Castling: check king path safety, then move the rook.
	if m.Flag() == CastlingFlag {
		rank := from.Rank()
		mid := NewSquare((from.File()+to.File())/2, rank)
		opp := mover.Flip()
		if b.IsSquareAttacked(from, opp) || b.IsSquareAttacked(mid, opp) || b.IsSquareAttacked(to, opp) {
			b.undo = append(b.undo, s)
			return false
		}

		rookFrom, rookTo := m.CastlingRookSquares()
		rook := b.removePiece(rookFrom)
		b.addPiece(rookTo, rook)

		kingside, queenside := rightsOf(mover)
		b.setCastling(b.castling.Remove(kingside | queenside))
	}

	// (7) Double pawn push sets the ep target at the midpoint.
	if isPawnMove && absRankDelta(from, to) == 2 {
		mid := NewSquare(from.File(), (from.Rank()+to.Rank())/2)
		b.setEnPassant(mid)
	}

	// (8) En passant removes the captured pawn one rank behind the destination.
	if isEnPassant {
		b.removePiece(m.EnPassantCaptureSquare())
		b.phase = b.recomputePhase()
	}

	// (9) Promotion swaps the pawn for the chosen piece.
	if m.Flag() == Promotion {
		b.removePiece(to)
		b.addPiece(to, NewPiece(m.PromotionPiece(), mover))
		b.phase = b.recomputePhase()
	}

	// (10) Rook moving from its home square loses the corresponding right.
	if movingPiece.Type() == Rook {
		b.setCastling(b.castling.Remove(castlingRightLostAt(from)))
	}

	// (11) King moving loses both rights of its side.
	if movingPiece.Type() == King {
		kingside, queenside := rightsOf(mover)
		b.setCastling(b.castling.Remove(kingside | queenside))
	}

	// (12) The mover's king must not be left in check.
	if b.IsSquareAttacked(b.KingSquare(mover), mover.Flip()) {
		b.undo = append(b.undo, s)
		return false
	}

	// (13) Flip side to move.
	b.zobrist ^= turnKey()
	b.sideToMove = mover.Flip()

	if isPawnMove || isCapture || m.Flag() == CastlingFlag {
		b.irreversible = append(b.irreversible, len(b.keyHistory))
	}
	b.keyHistory = append(b.keyHistory, b.zobrist)
	s.pushedHistory = true

	b.undo = append(b.undo, s)
	return true
}

// UnmakeMove restores the board to the state immediately before the most recent MakeMove call.
// It is the caller's responsibility to call it exactly once per MakeMove, win or lose.
func (b *Board) UnmakeMove() {
	n := len(b.undo) - 1
	s := b.undo[n]
	b.undo = b.undo[:n]

	if s.pushedHistory {
		b.keyHistory = b.keyHistory[:len(b.keyHistory)-1]
		if len(b.irreversible) > 0 && b.irreversible[len(b.irreversible)-1] == len(b.keyHistory) {
			b.irreversible = b.irreversible[:len(b.irreversible)-1]
		}
	}

	b.mailbox = s.mailbox
	b.pieces = s.pieces
	b.sides = s.sides
	b.sideToMove = s.sideToMove
	b.castling = s.castling
	b.epSquare = s.epSquare
	b.halfmoveClock = s.halfmoveClock
	b.fullmoveNumber = s.fullmoveNumber
	b.psqMG, b.psqEG = s.psqMG, s.psqEG
	b.phase = s.phase
	b.zobrist = s.zobrist
}

// MakeNullMove flips the side to move without moving a piece, used by null-move pruning. The
// returned state must be passed to UnmakeNullMove to restore it.
func (b *Board) MakeNullMove() (savedEP Square) {
	savedEP = b.epSquare
	b.setEnPassant(NoSquare)
	b.zobrist ^= turnKey()
	b.sideToMove = b.sideToMove.Flip()
	return savedEP
}

func (b *Board) UnmakeNullMove(savedEP Square) {
	b.zobrist ^= turnKey()
	b.sideToMove = b.sideToMove.Flip()
	b.setEnPassant(savedEP)
}

func absRankDelta(from, to Square) int {
	d := int(to.Rank()) - int(from.Rank())
	if d < 0 {
		return -d
	}
	return d
}
