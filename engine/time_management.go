package engine

import (
	"gander/board"
)

// Clock is the remaining time and increment for the side to move, in ms.
type Clock struct {
	Remaining int64
	Increment int64
	MovesToGo int
}

// Engine-side safety knobs
const (
	overheadMs    = 30   // reserve for protocol and IO jitter
	minMoveMs     = 5    // never less than this
	maxFrac       = 0.7  // never spend more than 70% of remaining time
	panicThreshMs = 1000 // below this, live off the increment
	panicFrac     = 0.90
)

// AllocateMoveTime turns a game clock into a per-move ByMillis budget.
func AllocateMoveTime(pos *board.Position, ev *Evaluator, clock Clock) TimeBudget {
	movesLeft := int64(clock.MovesToGo)
	if movesLeft <= 0 {
		movesLeft = estimateMovesRemaining(ev.Phase(pos))
	}

	rem := clock.Remaining
	inc := clock.Increment

	var moveTime int64
	switch {
	case inc > 0 && rem < panicThreshMs:
		moveTime = int64(float64(inc) * panicFrac)
	case inc > 0:
		moveTime = rem/movesLeft + inc
	default:
		moveTime = rem / movesLeft
	}

	// Apply overhead and clamps
	moveTime = Min(moveTime, int64(float64(rem)*maxFrac))
	moveTime = Min(moveTime, rem-overheadMs)
	moveTime = Max(moveTime, minMoveMs)
	return ByMillis(moveTime)
}

// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
func estimateMovesRemaining(phase int32) int64 {
	return int64(phase)*25/TotalPhase + 20
}
