package board

import (
	"github.com/dylhunn/dragontoothmg"
)

// Position is an immutable snapshot of a game state. Children are produced
// by the move generator; nothing mutates a Position after construction.
//
// dragontoothmg keeps castling and en-passant state private, so both are
// mirrored here and updated alongside each generated child.
type Position struct {
	b        dragontoothmg.Board
	castling CastleRights
	ep       Square
}

// castleClear[sq] lists the rights lost when a piece leaves or lands on sq.
var castleClear [64]CastleRights

func init() {
	castleClear[4] = WhiteKingside | WhiteQueenside
	castleClear[7] = WhiteKingside
	castleClear[0] = WhiteQueenside
	castleClear[60] = BlackKingside | BlackQueenside
	castleClear[63] = BlackKingside
	castleClear[56] = BlackQueenside
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	if p.b.Wtomove {
		return White
	}
	return Black
}

func (p *Position) side(c Color) *dragontoothmg.Bitboards {
	if c == White {
		return &p.b.White
	}
	return &p.b.Black
}

// Pieces returns the bitboard of c's pieces of type pt.
func (p *Position) Pieces(c Color, pt PieceType) uint64 {
	bb := p.side(c)
	switch pt {
	case Pawn:
		return bb.Pawns
	case Knight:
		return bb.Knights
	case Bishop:
		return bb.Bishops
	case Rook:
		return bb.Rooks
	case Queen:
		return bb.Queens
	case King:
		return bb.Kings
	}
	return 0
}

// Occupancy returns every square holding a c-colored piece.
func (p *Position) Occupancy(c Color) uint64 { return p.side(c).All }

// All returns every occupied square.
func (p *Position) All() uint64 { return p.b.White.All | p.b.Black.All }

// PieceAt reports the piece standing on sq, if any.
func (p *Position) PieceAt(sq Square) (PieceType, Color, bool) {
	mask := Bit(sq)
	var c Color
	switch {
	case p.b.White.All&mask != 0:
		c = White
	case p.b.Black.All&mask != 0:
		c = Black
	default:
		return NoPiece, White, false
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces(c, pt)&mask != 0 {
			return pt, c, true
		}
	}
	return NoPiece, c, false
}

// KingSquare returns c's king square, or NoSquare if the side has none.
func (p *Position) KingSquare(c Color) Square { return LSB(p.side(c).Kings) }

func (p *Position) Castling() CastleRights { return p.castling }

// EnPassant returns the en-passant target square or NoSquare.
func (p *Position) EnPassant() Square { return p.ep }

func (p *Position) HalfmoveClock() int  { return int(p.b.Halfmoveclock) }
func (p *Position) FullmoveNumber() int { return int(p.b.Fullmoveno) }

// Attacked reports whether any piece of color by attacks sq.
func (p *Position) Attacked(sq Square, by Color) bool {
	occ := p.All()
	them := p.side(by)
	if PawnAttacks(by.Other(), sq)&them.Pawns != 0 {
		return true
	}
	if KnightAttacks(sq)&them.Knights != 0 || KingAttacks(sq)&them.Kings != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(them.Bishops|them.Queens) != 0 {
		return true
	}
	return RookAttacks(sq, occ)&(them.Rooks|them.Queens) != 0
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	us := p.SideToMove()
	k := p.KingSquare(us)
	if k == NoSquare {
		return false
	}
	return p.Attacked(k, us.Other())
}

// LegalMoves returns every legal move in generator order, each with its
// resulting position already computed.
func (p *Position) LegalMoves() []Move {
	work := p.b
	raw := work.GenerateLegalMoves()
	if len(raw) == 0 {
		return nil
	}
	us := p.SideToMove()
	moves := make([]Move, 0, len(raw))
	for _, rm := range raw {
		moves = append(moves, p.child(rm, us))
	}
	return moves
}

// HasLegalMoves is LegalMoves without building the children.
func (p *Position) HasLegalMoves() bool {
	work := p.b
	return len(work.GenerateLegalMoves()) > 0
}

func (p *Position) child(rm dragontoothmg.Move, us Color) Move {
	from, to := Square(rm.From()), Square(rm.To())
	mover, _, _ := p.PieceAt(from)
	captured, _, _ := p.PieceAt(to)
	if mover == Pawn && captured == NoPiece && to == p.ep {
		captured = Pawn
	}

	next := Position{b: p.b, castling: p.castling &^ (castleClear[from] | castleClear[to]), ep: NoSquare}
	next.b.Apply(rm)
	if mover == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
		next.ep = Square((int(from) + int(to)) / 2)
	}

	return Move{
		raw:       rm,
		From:      from,
		To:        to,
		Piece:     mover,
		Captured:  captured,
		Promotion: PieceType(rm.Promote()),
		Color:     us,
		Result:    next,
	}
}

// Play finds the legal move spelled uci (e.g. "e2e4", "e7e8q") and returns it.
func (p *Position) Play(uci string) (Move, bool) {
	for _, m := range p.LegalMoves() {
		if m.String() == uci {
			return m, true
		}
	}
	return Move{}, false
}
