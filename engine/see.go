package engine

import (
	"gander/board"
)

// SeePieceValue is the material scale used for exchange simulation.
var SeePieceValue = [7]int32{
	board.NoPiece: 0,
	board.Pawn:    100,
	board.Knight:  300,
	board.Bishop:  300,
	board.Rook:    500,
	board.Queen:   900,
	board.King:    5000,
}

const maxExchange = 32

// SEE simulates the capture sequence on sq against the targetColor piece of
// type target standing there. The side opposite targetColor starts, each side
// recaptures with its least valued attacker and either may stop when
// continuing would lose material. The result is the initiator's net gain and
// is never negative, since the initiator can always decline the first capture.
func SEE(pos *board.Position, sq board.Square, target board.PieceType, targetColor board.Color) int32 {
	var gain [maxExchange]int32
	occ := pos.All() &^ board.Bit(sq)
	n := exchange(pos, sq, targetColor.Other(), occ, SeePieceValue[target], gain[:])
	return foldExchange(gain[:n])
}

// SEECapture scores the given move as the first capture of an exchange on its
// destination square. Unlike SEE the first capture is forced, so a losing
// capture comes out negative. Quiet moves report how much the moved piece
// stands to lose on its new square.
func SEECapture(pos *board.Position, m board.Move) int32 {
	var gain [maxExchange]int32

	occ := pos.All() &^ board.Bit(m.From)
	if m.Captured == board.Pawn && m.Piece == board.Pawn {
		if _, _, occupied := pos.PieceAt(m.To); !occupied {
			// en passant: the captured pawn sits behind the target square
			victim := m.To - 8
			if m.Color == board.Black {
				victim = m.To + 8
			}
			occ &^= board.Bit(victim)
		}
	}

	first := SeePieceValue[m.Captured]
	onSquare := SeePieceValue[m.Piece]
	if m.IsPromotion() {
		first += SeePieceValue[m.Promotion] - SeePieceValue[board.Pawn]
		onSquare = SeePieceValue[m.Promotion]
	}

	n := exchange(pos, m.To, m.Color.Other(), occ|board.Bit(m.To), onSquare, gain[:])
	return first - foldExchange(gain[:n])
}

// exchange records, for each capture in the sequence, the value of the piece
// taken. side moves first and value is the piece currently on sq.
func exchange(pos *board.Position, sq board.Square, side board.Color, occ uint64, value int32, gain []int32) int {
	n := 0
	for n < len(gain) {
		attackers := AttackersTo(pos, sq, side, occ)
		pt, from, ok := LeastValuedAttacker(pos, attackers, side)
		if !ok {
			break
		}
		// The king may not capture into a square the other side still covers.
		if pt == board.King && AttackersTo(pos, sq, side.Other(), occ&^board.Bit(from)) != 0 {
			break
		}
		gain[n] = value
		n++
		value = SeePieceValue[pt]
		occ &^= board.Bit(from)
		side = side.Other()
	}
	return n
}

// foldExchange walks the capture list backwards; each side only continues
// when the capture nets it something.
func foldExchange(gain []int32) int32 {
	var running int32
	for i := len(gain) - 1; i >= 0; i-- {
		running = Max(0, gain[i]-running)
	}
	return running
}
