package board

import (
	"fmt"
	"math/bits"
)

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType values line up with dragontoothmg's Piece enum so conversions are free.
type PieceType uint8

const (
	NoPiece PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [7]byte{'.', 'p', 'n', 'b', 'r', 'q', 'k'}

func (pt PieceType) String() string {
	if int(pt) >= len(pieceLetters) {
		return "?"
	}
	return string(pieceLetters[pt])
}

// Square indexes the board from a1 = 0 to h8 = 63.
type Square uint8

const NoSquare Square = 64

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

// Flip mirrors the square vertically (a1 <-> a8).
func (s Square) Flip() Square { return s ^ 56 }

func (s Square) String() string {
	if s >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+s.File(), '1'+s.Rank())
}

// ParseSquare reads algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}

// CastleRights is a bitset of the four castling permissions.
type CastleRights uint8

const (
	WhiteKingside CastleRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

func (c CastleRights) String() string {
	if c == 0 {
		return "-"
	}
	out := make([]byte, 0, 4)
	for i, ch := range []byte("KQkq") {
		if c&(1<<i) != 0 {
			out = append(out, ch)
		}
	}
	return string(out)
}

// Bit returns the single-bit bitboard for sq.
func Bit(sq Square) uint64 { return 1 << sq }

// PopLSB clears and returns the lowest set square in *bb.
func PopLSB(bb *uint64) Square {
	sq := Square(bits.TrailingZeros64(*bb))
	*bb &= *bb - 1
	return sq
}

// LSB returns the lowest set square, or NoSquare for an empty board.
func LSB(bb uint64) Square {
	if bb == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(bb))
}
