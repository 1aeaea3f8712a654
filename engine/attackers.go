package engine

import (
	"math/bits"

	"gander/board"
)

// AttackersTo returns the bitboard of side's pieces attacking sq when the
// board is occupied by occ. occ may be a shrinking copy of the real
// occupancy; pieces missing from it neither attack nor block.
func AttackersTo(pos *board.Position, sq board.Square, side board.Color, occ uint64) uint64 {
	pawns := pos.Pieces(side, board.Pawn)
	knights := pos.Pieces(side, board.Knight)
	bishops := pos.Pieces(side, board.Bishop)
	rooks := pos.Pieces(side, board.Rook)
	queens := pos.Pieces(side, board.Queen)
	kings := pos.Pieces(side, board.King)

	// A side's pawns attack sq from the squares an opposite pawn on sq would hit.
	attackers := board.PawnAttacks(side.Other(), sq) & pawns
	attackers |= board.KnightAttacks(sq) & knights
	attackers |= board.KingAttacks(sq) & kings
	attackers |= board.BishopAttacks(sq, occ) & (bishops | queens)
	attackers |= board.RookAttacks(sq, occ) & (rooks | queens)
	return attackers & occ
}

var lvaOrder = [...]board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen}

// LeastValuedAttacker picks the cheapest of side's pieces in attackers. The
// king only counts when it is the sole attacker left; otherwise it is skipped
// and nothing is reported.
func LeastValuedAttacker(pos *board.Position, attackers uint64, side board.Color) (board.PieceType, board.Square, bool) {
	if attackers == 0 {
		return board.NoPiece, board.NoSquare, false
	}
	for _, pt := range lvaOrder {
		if subset := attackers & pos.Pieces(side, pt); subset != 0 {
			return pt, board.Square(bits.TrailingZeros64(subset)), true
		}
	}
	kings := attackers & pos.Pieces(side, board.King)
	if kings != 0 && kings == attackers {
		return board.King, board.Square(bits.TrailingZeros64(kings)), true
	}
	return board.NoPiece, board.NoSquare, false
}
