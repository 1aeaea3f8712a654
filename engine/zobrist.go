package engine

import (
	"encoding/binary"

	"lukechampine.com/frand"

	"gander/board"
)

// DefaultZobristSeed keeps hashes stable across runs.
const DefaultZobristSeed uint64 = 0xABCDEF

const bignum = 1<<63 - 2

// Zobrist fingerprints positions. Keys are drawn once from a ChaCha stream
// seeded with a fixed value, so equal seeds give equal hashes.
type Zobrist struct {
	pieces    [2][7][64]uint64
	castling  [4]uint64
	enPassant [8]uint64
	blackMove uint64
}

func NewZobrist(seed uint64) *Zobrist {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	rng := frand.NewCustom(key[:], 1024, 12)

	z := &Zobrist{}
	for c := 0; c < 2; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			for sq := 0; sq < 64; sq++ {
				z.pieces[c][pt][sq] = rng.Uint64n(bignum) + 1
			}
		}
	}
	for i := range z.castling {
		z.castling[i] = rng.Uint64n(bignum) + 1
	}
	for i := range z.enPassant {
		z.enPassant[i] = rng.Uint64n(bignum) + 1
	}
	z.blackMove = rng.Uint64n(bignum) + 1
	return z
}

// Hash computes the fingerprint from scratch.
func (z *Zobrist) Hash(pos *board.Position) uint64 {
	var key uint64
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			for bb := pos.Pieces(c, pt); bb != 0; {
				key ^= z.pieces[c][pt][board.PopLSB(&bb)]
			}
		}
	}
	rights := pos.Castling()
	for i := range z.castling {
		if rights&(1<<i) != 0 {
			key ^= z.castling[i]
		}
	}
	if ep := pos.EnPassant(); ep != board.NoSquare {
		key ^= z.enPassant[ep.File()]
	}
	if pos.SideToMove() == board.Black {
		key ^= z.blackMove
	}
	return key
}
