package eval

import "github.com/Beanie496/Crab/pkg/board"

// NominalValue is a piece's nominal value in centipawns, used only for move-ordering heuristics
// (MVV-LVA, SEE) where the coarse material scale matters more than positional nuance.
func NominalValue(t board.PieceType) Score {
	switch t {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 20000
	default:
		return 0
	}
}

// SEE runs the standard static-exchange swap algorithm for a capture on m.To(), returning the
// net material gain (in centipawns) to the side making the capture if both sides exchange
// greedily with their least valuable attacker first. It is used to separate winning from losing
// captures during move ordering, without searching.
func SEE(b *board.Board, m board.Move) Score {
	to := m.To()

	var captured board.PieceType
	switch {
	case m.Flag() == board.EnPassant:
		captured = board.Pawn
	default:
		if p := b.PieceAt(to); p != board.NoPiece {
			captured = p.Type()
		} else {
			return 0 // quiet move, nothing to exchange
		}
	}

	occ := b.Occupied()
	movingType := b.PieceAt(m.From()).Type()
	if m.Flag() == board.EnPassant {
		occ = occ.Clear(m.EnPassantCaptureSquare())
	}
	occ = occ.Clear(m.From())

	var gain [32]Score
	depth := 0
	gain[0] = NominalValue(captured)
	side := b.SideToMove().Flip()
	attackerType := movingType

	for {
		attackers := b.AttackersTo(to, occ)
		mine := attackers & b.Side(side)
		if mine == 0 {
			break
		}

		from, victimType := leastValuableAttacker(b, mine)
		depth++
		gain[depth] = NominalValue(attackerType) - gain[depth-1]
		if Max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		occ = occ.Clear(from)
		attackerType = victimType
		side = side.Flip()

		if depth >= len(gain)-1 {
			break
		}
	}

	for depth > 0 {
		gain[depth-1] = -Max(-gain[depth-1], gain[depth])
		depth--
	}
	return gain[0]
}

// leastValuableAttacker picks the cheapest attacking piece among candidates, returning its square
// and type.
func leastValuableAttacker(b *board.Board, candidates board.Bitboard) (board.Square, board.PieceType) {
	for _, t := range []board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		if bb := candidates & b.Pieces(t); bb != 0 {
			return bb.LSB(), t
		}
	}
	return board.NoSquare, board.Pawn
}
