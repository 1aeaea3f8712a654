package engine

// KillerTable remembers two quiet moves per ply that caused a beta cutoff.
type KillerTable struct {
	KillerMoves [MaxPly + 1][2]uint16
}

func (k *KillerTable) InsertKiller(move uint16, ply int) {
	if ply > MaxPly || move == 0 {
		return
	}
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

// Rank returns 1 for the first killer, 2 for the second and 0 otherwise.
func (k *KillerTable) Rank(move uint16, ply int) int {
	if ply > MaxPly || move == 0 {
		return 0
	}
	switch move {
	case k.KillerMoves[ply][0]:
		return 1
	case k.KillerMoves[ply][1]:
		return 2
	}
	return 0
}

// Clear the killer moves table.
func (k *KillerTable) ClearKillers() {
	for ply := range k.KillerMoves {
		k.KillerMoves[ply] = [2]uint16{}
	}
}
