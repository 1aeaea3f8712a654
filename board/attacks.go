package board

import "github.com/dylhunn/dragontoothmg"

const (
	FileA uint64 = 0x0101010101010101
	FileB uint64 = FileA << 1
	FileG uint64 = FileA << 6
	FileH uint64 = 0x8080808080808080
	Rank1 uint64 = 0x00000000000000ff
	Rank8 uint64 = 0xff00000000000000
)

var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	pawnAttacks   [2][64]uint64
)

func init() {
	for sq := Square(0); sq < 64; sq++ {
		bb := Bit(sq)

		kingAttacks[sq] = (bb<<8 | bb>>8) |
			(bb<<1|bb<<9|bb>>7)&^FileA |
			(bb>>1|bb>>9|bb<<7)&^FileH

		knightAttacks[sq] = (bb<<17|bb>>15)&^FileA |
			(bb<<15|bb>>17)&^FileH |
			(bb<<10|bb>>6)&^(FileA|FileB) |
			(bb<<6|bb>>10)&^(FileG|FileH)

		pawnAttacks[White][sq] = (bb<<9)&^FileA | (bb<<7)&^FileH
		pawnAttacks[Black][sq] = (bb>>7)&^FileA | (bb>>9)&^FileH
	}
}

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) uint64 { return knightAttacks[sq] }

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) uint64 { return kingAttacks[sq] }

// PawnAttacks returns the diagonal capture squares of a c-colored pawn on sq.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }

// BishopAttacks returns diagonal slider attacks from sq under occ.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ)
}

// RookAttacks returns orthogonal slider attacks from sq under occ.
func RookAttacks(sq Square, occ uint64) uint64 {
	return dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ)
}

// QueenAttacks is the union of bishop and rook attacks.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}
