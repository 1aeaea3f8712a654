package engine

import "gander/board"

// Piece-square tables, indexed a1 = 0 from white's point of view. Black
// pieces read them through FlipView.
var (
	pawnOpening = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	pawnEndgame = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		10, 10, 10, 10, 10, 10, 10, 10,
		10, 10, 10, 10, 10, 10, 10, 10,
		20, 20, 20, 20, 20, 20, 20, 20,
		30, 30, 30, 30, 30, 30, 30, 30,
		50, 50, 50, 50, 50, 50, 50, 50,
		80, 80, 80, 80, 80, 80, 80, 80,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	knightTable = [64]int32{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	}
	bishopTable = [64]int32{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}
	rookTable = [64]int32{
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	queenTable = [64]int32{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}
	kingOpening = [64]int32{
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, -5, -5, -5, -5, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-40, -50, -50, -60, -60, -50, -50, -40,
		-60, -60, -60, -60, -60, -60, -60, -60,
		-80, -70, -70, -70, -70, -70, -70, -80,
	}
	// Rewards a centralized king once the heavy pieces are gone.
	kingEndgame = [64]int32{
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -25, 0, 0, 0, 0, -25, -30,
		-25, -20, 20, 25, 25, 20, -20, -25,
		-20, -15, 30, 40, 40, 30, -15, -20,
		-15, -10, 35, 45, 45, 35, -10, -15,
		-10, -5, 20, 30, 30, 20, -5, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}
)

// Game phase weights for interpolation
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

// DefaultEvalConfig returns the stock evaluation weights.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		PieceValues: [7]int32{
			board.Pawn:   100,
			board.Knight: 280,
			board.Bishop: 320,
			board.Rook:   479,
			board.Queen:  929,
		},
		PhaseWeights: [7]int32{
			board.Knight: KnightPhase,
			board.Bishop: BishopPhase,
			board.Rook:   RookPhase,
			board.Queen:  QueenPhase,
		},
		Mobility: [7]int32{
			board.Knight: 4,
			board.Bishop: 5,
			board.Rook:   2,
			board.Queen:  1,
		},
		Opening: [7][64]int32{
			board.Pawn:   pawnOpening,
			board.Knight: knightTable,
			board.Bishop: bishopTable,
			board.Rook:   rookTable,
			board.Queen:  queenTable,
			board.King:   kingOpening,
		},
		Endgame: [7][64]int32{
			board.Pawn:   pawnEndgame,
			board.Knight: knightTable,
			board.Bishop: bishopTable,
			board.Rook:   rookTable,
			board.Queen:  queenTable,
			board.King:   kingEndgame,
		},
		DoubledPawnMG:      -10,
		DoubledPawnEG:      -20,
		IsolatedPawnMG:     -10,
		IsolatedPawnEG:     -15,
		PassedPawnMG:       [8]int32{0, 5, 10, 15, 25, 40, 60, 0},
		PassedPawnEG:       [8]int32{0, 10, 15, 25, 45, 70, 110, 0},
		BishopPairMG:       25,
		BishopPairEG:       45,
		KingOpenFileMG:     -25,
		KingSemiOpenFileMG: -12,
		HangingPenalty:     true,
		HangingPercent:     25,
		MateScore:          MateScore,
	}
}
