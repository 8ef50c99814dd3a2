package board

import "fmt"

// MoveFlag distinguishes the four move encodings. 2 bits.
type MoveFlag uint8

const (
	Normal MoveFlag = iota
	CastlingFlag
	EnPassant
	Promotion
)

// Castle side markers packed into a castling Move's extra field. The two unused values are
// reserved, matching the {0,3} encoding described in the design notes.
const (
	castleQueenside uint8 = 0
	castleKingside  uint8 = 3
)

// Move is a packed, not-necessarily-legal move: 16 bits total.
//
//	bits 0-5:   To square
//	bits 6-7:   Flag
//	bits 8-13:  From square
//	bits 14-15: Extra (promotion piece type minus one, or castle side)
//
// This layout is load-bearing: it is what lets a TranspositionEntry fit in 8 bytes and keeps
// move lists cheap to generate and copy. A Move carries no piece/capture information; callers
// recover that from the Board's mailbox when needed.
type Move uint16

// NullMove is the all-zero move (A1A1, Normal, extra 0), used as a sentinel in the transposition
// table and move ordering tables.
const NullMove Move = 0

func newMove(from, to Square, flag MoveFlag, extra uint8) Move {
	return Move(to) | Move(flag)<<6 | Move(from)<<8 | Move(extra&3)<<14
}

// NewNormalMove constructs a non-special move (quiet or capture; captures are identified by
// inspecting the destination square on the board, not by the move encoding).
func NewNormalMove(from, to Square) Move {
	return newMove(from, to, Normal, 0)
}

// NewEnPassantMove constructs an en-passant capture.
func NewEnPassantMove(from, to Square) Move {
	return newMove(from, to, EnPassant, 0)
}

// NewPromotionMove constructs a promotion (optionally also a capture, indistinguishable from the
// move bits alone). promo must be Knight, Bishop, Rook or Queen.
func NewPromotionMove(from, to Square, promo PieceType) Move {
	return newMove(from, to, Promotion, uint8(promo-Knight))
}

// NewCastlingMove constructs a castling move, encoded as the king's own two-square move.
func NewCastlingMove(from, to Square, kingside bool) Move {
	extra := castleQueenside
	if kingside {
		extra = castleKingside
	}
	return newMove(from, to, CastlingFlag, extra)
}

func (m Move) To() Square {
	return Square(m & 0x3f)
}

func (m Move) From() Square {
	return Square((m >> 8) & 0x3f)
}

func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> 6) & 0x3)
}

func (m Move) extra() uint8 {
	return uint8((m >> 14) & 0x3)
}

// PromotionPiece returns the piece type to promote to. Only valid if Flag() == Promotion.
func (m Move) PromotionPiece() PieceType {
	return Knight + PieceType(m.extra())
}

// IsKingsideCastle returns whether a Castling move is kingside (as opposed to queenside). Only
// valid if Flag() == Castling.
func (m Move) IsKingsideCastle() bool {
	return m.extra() == castleKingside
}

// CastlingRookSquares returns the rook's from/to squares for a Castling move.
func (m Move) CastlingRookSquares() (from, to Square) {
	rank := m.From().Rank()
	if m.IsKingsideCastle() {
		return NewSquare(FileH, rank), NewSquare(FileF, rank)
	}
	return NewSquare(FileA, rank), NewSquare(FileD, rank)
}

// EnPassantCaptureSquare returns the square of the pawn captured en passant, one rank behind
// the destination square. Only valid if Flag() == EnPassant.
func (m Move) EnPassantCaptureSquare() Square {
	to := m.To()
	if to.Rank() == Rank6 {
		return NewSquare(to.File(), Rank5)
	}
	return NewSquare(to.File(), Rank4)
}

// IsNull returns true iff the move is the NullMove sentinel.
func (m Move) IsNull() bool {
	return m == NullMove
}

// ParseMove parses a move in pure algebraic coordinate notation, e.g. "e2e4" or "e7e8q". The
// parsed move carries no contextual information (castling/en-passant/capture): the caller must
// reconcile it against a pseudo-legal move list to recover the full encoding.
func ParseMove(str string) (from, to Square, promo PieceType, hasPromo bool, err error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return 0, 0, 0, false, fmt.Errorf("invalid move %q", str)
	}

	from, err = ParseSquare(runes[0], runes[1])
	if err != nil {
		return 0, 0, 0, false, fmt.Errorf("invalid move %q: %w", str, err)
	}
	to, err = ParseSquare(runes[2], runes[3])
	if err != nil {
		return 0, 0, 0, false, fmt.Errorf("invalid move %q: %w", str, err)
	}

	if len(runes) == 5 {
		p, ok := ParsePieceType(runes[4])
		if !ok || p == Pawn || p == King {
			return 0, 0, 0, false, fmt.Errorf("invalid promotion in move %q", str)
		}
		return from, to, p, true, nil
	}
	return from, to, 0, false, nil
}

// String renders a move in pure algebraic coordinate notation.
func (m Move) String() string {
	if m.Flag() == Promotion {
		return fmt.Sprintf("%v%v%v", m.From(), m.To(), m.PromotionPiece())
	}
	return fmt.Sprintf("%v%v", m.From(), m.To())
}
