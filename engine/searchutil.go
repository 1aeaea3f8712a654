package engine

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"gander/board"
)

// PVLine is the principal variation found below a node.
type PVLine struct {
	Moves []board.Move
}

func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update sets the line to m followed by the child's line.
func (pv *PVLine) Update(m *board.Move, child *PVLine) {
	pv.Clear()
	pv.Moves = append(pv.Moves, *m)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv *PVLine) GetPVMove() (board.Move, bool) {
	if len(pv.Moves) == 0 {
		return board.Move{}, false
	}
	return pv.Moves[0], true
}

func (pv *PVLine) Clone() PVLine {
	return PVLine{Moves: append([]board.Move(nil), pv.Moves...)}
}

func (pv PVLine) String() string {
	return MovesString(pv.Moves)
}

// MovesString joins moves in UCI notation.
func MovesString(moves []board.Move) string {
	return strings.Join(lo.Map(moves, func(m board.Move, _ int) string { return m.String() }), " ")
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int32) bool {
	return Abs(score) >= MateThreshold
}

// FormatScore renders a score as "cp N" or "mate N" (moves, negative when
// the side to move is being mated).
func FormatScore(score int32) string {
	if score >= MateThreshold {
		plies := MateScore - score
		return fmt.Sprintf("mate %d", (plies+1)/2)
	}
	if score <= -MateThreshold {
		plies := MateScore + score
		return fmt.Sprintf("mate %d", -(plies+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
