// Package fen reads and writes chess positions in Forsyth-Edwards notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Beanie496/Crab/pkg/board"
)

// Startpos is the FEN of the standard starting position.
const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Fields holds the six FEN fields in parsed form, ready to install onto a board.Board.
type Fields struct {
	Placement map[board.Square]board.Piece
	Turn      board.Color
	Castling  board.Castling
	EnPassant board.Square
	Halfmove  uint8
	Fullmove  uint16
}

// Decode parses a FEN string leniently: trailing fields that are absent take their default value
// (side to move white, no castling rights, no en-passant square, halfmove 0, fullmove 1). Any
// field that is present but malformed is an error; the caller is expected to fall back to the
// starting position on error, per UCI's tolerance for bad "position fen" commands.
func Decode(s string) (Fields, error) {
	parts := strings.Fields(s)
	if len(parts) < 1 {
		return Fields{}, fmt.Errorf("fen: empty record")
	}

	placement, err := decodePlacement(parts[0])
	if err != nil {
		return Fields{}, err
	}

	f := Fields{
		Placement: placement,
		Turn:      board.White,
		Castling:  board.ZeroCastling,
		EnPassant: board.NoSquare,
		Halfmove:  0,
		Fullmove:  1,
	}

	if len(parts) >= 2 {
		turn, ok := decodeColor(parts[1])
		if !ok {
			return Fields{}, fmt.Errorf("fen: invalid side to move %q", parts[1])
		}
		f.Turn = turn
	}
	if len(parts) >= 3 {
		castling, ok := decodeCastling(parts[2])
		if !ok {
			return Fields{}, fmt.Errorf("fen: invalid castling rights %q", parts[2])
		}
		f.Castling = castling
	}
	if len(parts) >= 4 {
		if parts[3] != "-" {
			sq, err := board.ParseSquareStr(parts[3])
			if err != nil {
				return Fields{}, fmt.Errorf("fen: invalid en-passant square %q: %w", parts[3], err)
			}
			f.EnPassant = sq
		}
	}
	if len(parts) >= 5 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 || n > 255 {
			return Fields{}, fmt.Errorf("fen: invalid halfmove clock %q", parts[4])
		}
		f.Halfmove = uint8(n)
	}
	if len(parts) >= 6 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 0 {
			return Fields{}, fmt.Errorf("fen: invalid fullmove number %q", parts[5])
		}
		f.Fullmove = uint16(n)
	}

	return f, nil
}

// Apply decodes s and installs it onto b. On error, b is left untouched (reset to the starting
// position is the caller's responsibility, matching UCI's "invalid token -> reset to startpos"
// policy).
func Apply(b *board.Board, s string) error {
	f, err := Decode(s)
	if err != nil {
		return err
	}
	b.Set(f.Placement, f.Turn, f.Castling, f.EnPassant, f.Halfmove, f.Fullmove)
	return nil
}

func decodePlacement(s string) (map[board.Square]board.Piece, error) {
	placement := map[board.Square]board.Piece{}

	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: expected 8 ranks, got %d in %q", len(ranks), s)
	}

	for i, row := range ranks {
		rank := board.Rank8 - board.Rank(i)
		file := board.ZeroFile
		for _, r := range row {
			switch {
			case unicode.IsDigit(r):
				file += board.File(r - '0')
			default:
				p, ok := decodePiece(r)
				if !ok {
					return nil, fmt.Errorf("fen: invalid piece character %q", r)
				}
				if !file.IsValid() {
					return nil, fmt.Errorf("fen: rank overflow in %q", row)
				}
				placement[board.NewSquare(file, rank)] = p
				file++
			}
		}
		if int(file) != 8 {
			return nil, fmt.Errorf("fen: rank %q does not cover 8 files", row)
		}
	}
	return placement, nil
}

// Encode renders b's position, side to move, castling rights, en-passant square, halfmove clock
// and fullmove number as a FEN string.
func Encode(b *board.Board) string {
	var sb strings.Builder
	for r := board.Rank8; ; r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			p := b.PieceAt(board.NewSquare(f, r))
			if p == board.NoPiece {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(encodePiece(p))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r == board.ZeroRank {
			break
		}
		sb.WriteRune('/')
	}

	ep := "-"
	if b.EnPassant() != board.NoSquare {
		ep = b.EnPassant().String()
	}

	return fmt.Sprintf("%s %s %s %s %d %d", sb.String(), encodeColor(b.SideToMove()), b.Castling().String(), ep, b.HalfmoveClock(), b.FullmoveNumber())
}

func decodeColor(s string) (board.Color, bool) {
	switch s {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func encodeColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func decodeCastling(s string) (board.Castling, bool) {
	if s == "-" {
		return board.ZeroCastling, true
	}
	var c board.Castling
	for _, r := range s {
		switch r {
		case 'K':
			c |= board.WhiteKingside
		case 'Q':
			c |= board.WhiteQueenside
		case 'k':
			c |= board.BlackKingside
		case 'q':
			c |= board.BlackQueenside
		default:
			return 0, false
		}
	}
	return c, true
}

func decodePiece(r rune) (board.Piece, bool) {
	return board.ParsePiece(r)
}

func encodePiece(p board.Piece) rune {
	return []rune(p.String())[0]
}
