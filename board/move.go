package board

import "github.com/dylhunn/dragontoothmg"

// Move is a legal move together with the position it produces.
type Move struct {
	raw dragontoothmg.Move

	From, To  Square
	Piece     PieceType
	Captured  PieceType // Pawn for en passant, NoPiece when quiet
	Promotion PieceType
	Color     Color
	Result    Position
}

// IsZero reports whether m is the empty move.
func (m Move) IsZero() bool { return m.raw == 0 }

func (m Move) IsCapture() bool   { return m.Captured != NoPiece }
func (m Move) IsPromotion() bool { return m.Promotion != NoPiece }

// IsTactical is true for captures and promotions.
func (m Move) IsTactical() bool { return m.IsCapture() || m.IsPromotion() }

// GivesCheck reports whether the move leaves the opponent in check.
func (m Move) GivesCheck() bool { return m.Result.InCheck() }

// Key is a compact encoding of from, to and promotion; zero means no move.
func (m Move) Key() uint16 { return uint16(m.raw) }

// String returns the move in long algebraic (UCI) form.
func (m Move) String() string {
	if m.IsZero() {
		return "0000"
	}
	return m.raw.String()
}
