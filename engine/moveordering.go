package engine

import (
	"gander/board"
)

type scoredMove struct {
	move  *board.Move
	score int32
}

type moveList struct {
	moves []scoredMove
}

/*
	Move ordering offsets
	- The table move goes first, it is the best guess from a previous iteration.
	- Captures and promotions follow, captures by MVV-LVA.
	- Checking moves, then killers, then everything else in generator order.
*/
const (
	ttMoveOffset    int32 = 1_000_000
	tacticalOffset  int32 = 100_000
	checkOffset     int32 = 50_000
	killerOffset    int32 = 40_000
	killerSecondary int32 = 39_000
)

// mvvLva scores a capture as victim value times ten minus attacker value.
func (s *Searcher) mvvLva(m *board.Move) int32 {
	values := &s.eval.cfg.PieceValues
	attacker := values[m.Piece]
	if m.Piece == board.King {
		attacker = 0
	}
	return values[m.Captured]*10 - attacker
}

func (s *Searcher) scoreMoves(moves []board.Move, ttMove uint16, ply int) moveList {
	list := moveList{moves: make([]scoredMove, len(moves))}
	for i := range moves {
		m := &moves[i]
		var score int32
		switch {
		case ttMove != 0 && m.Key() == ttMove:
			score = ttMoveOffset
		case m.IsTactical():
			score = tacticalOffset
			if m.IsCapture() {
				score += s.mvvLva(m)
			}
			if m.IsPromotion() {
				score += s.eval.cfg.PieceValues[m.Promotion]
			}
		case m.GivesCheck():
			score = checkOffset
		default:
			switch s.killers.Rank(m.Key(), ply) {
			case 1:
				score = killerOffset
			case 2:
				score = killerSecondary
			}
		}
		list.moves[i] = scoredMove{move: m, score: score}
	}
	return list
}

// scoreCaptures orders the quiescence candidates; everything here is tactical
// or an evasion, so MVV-LVA alone decides.
func (s *Searcher) scoreCaptures(moves []*board.Move) moveList {
	list := moveList{moves: make([]scoredMove, len(moves))}
	for i, m := range moves {
		var score int32
		if m.IsCapture() {
			score = tacticalOffset + s.mvvLva(m)
		}
		if m.IsPromotion() {
			score += tacticalOffset + s.eval.cfg.PieceValues[m.Promotion]
		}
		list.moves[i] = scoredMove{move: m, score: score}
	}
	return list
}

// Ordering the moves one at a time, at index given
func orderNextMove(currIndex int, list *moveList) *board.Move {
	bestIndex := currIndex
	bestScore := list.moves[bestIndex].score

	for index := bestIndex + 1; index < len(list.moves); index++ {
		if list.moves[index].score > bestScore {
			bestIndex = index
			bestScore = list.moves[index].score
		}
	}

	list.moves[currIndex], list.moves[bestIndex] = list.moves[bestIndex], list.moves[currIndex]
	return list.moves[currIndex].move
}
