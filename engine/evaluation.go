package engine

import (
	"math/bits"

	"gander/board"
)

// Board indexing and bit masks for evaluation
var FlipView = [64]int{
	56, 57, 58, 59, 60, 61, 62, 63,
	48, 49, 50, 51, 52, 53, 54, 55,
	40, 41, 42, 43, 44, 45, 46, 47,
	32, 33, 34, 35, 36, 37, 38, 39,
	24, 25, 26, 27, 28, 29, 30, 31,
	16, 17, 18, 19, 20, 21, 22, 23,
	8, 9, 10, 11, 12, 13, 14, 15,
	0, 1, 2, 3, 4, 5, 6, 7,
}

var (
	onlyFile      [8]uint64
	adjacentFiles [8]uint64
	// passedSpan[c][sq] covers the squares ahead of a c pawn on sq, on its own
	// and neighbouring files. No enemy pawn there means the pawn is passed.
	passedSpan [2][64]uint64
)

func init() {
	for f := 0; f < 8; f++ {
		onlyFile[f] = board.FileA << f
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= onlyFile[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= onlyFile[f+1]
		}
	}
	for sq := 0; sq < 64; sq++ {
		files := onlyFile[sq%8] | adjacentFiles[sq%8]
		rank := sq / 8
		var above, below uint64
		for r := rank + 1; r < 8; r++ {
			above |= board.Rank1 << (8 * r)
		}
		for r := 0; r < rank; r++ {
			below |= board.Rank1 << (8 * r)
		}
		passedSpan[board.White][sq] = files & above
		passedSpan[board.Black][sq] = files & below
	}
}

// EvalConfig holds every weight the evaluator reads.
type EvalConfig struct {
	PieceValues  [7]int32
	PhaseWeights [7]int32
	Mobility     [7]int32
	Opening      [7][64]int32
	Endgame      [7][64]int32

	DoubledPawnMG, DoubledPawnEG   int32
	IsolatedPawnMG, IsolatedPawnEG int32
	PassedPawnMG, PassedPawnEG     [8]int32
	BishopPairMG, BishopPairEG     int32
	KingOpenFileMG                 int32
	KingSemiOpenFileMG             int32

	// HangingPenalty folds a share of each piece's exchange loss into the score.
	HangingPenalty bool
	HangingPercent int32

	MateScore int32
}

// NetworkEvaluator is the hook for a learned evaluation. It reports a
// white-relative score, or false to fall back to the hand-written terms.
type NetworkEvaluator interface {
	Evaluate(pos *board.Position) (int32, bool)
}

// Evaluator scores positions in centipawns.
type Evaluator struct {
	cfg     EvalConfig
	network NetworkEvaluator
}

func NewEvaluator(cfg EvalConfig) *Evaluator {
	if cfg.MateScore == 0 {
		cfg.MateScore = MateScore
	}
	return &Evaluator{cfg: cfg}
}

func (e *Evaluator) Config() EvalConfig { return e.cfg }

// SetNetwork installs a learned evaluator; nil removes it.
func (e *Evaluator) SetNetwork(n NetworkEvaluator) { e.network = n }

// Evaluate returns the score for the side to move, including mate and
// stalemate detection and the hanging-piece term when enabled.
func (e *Evaluator) Evaluate(pos *board.Position) int32 {
	if !pos.HasLegalMoves() {
		if pos.InCheck() {
			return -e.cfg.MateScore
		}
		return 0
	}
	return e.Static(pos, e.cfg.HangingPenalty)
}

// Static is the side-to-move score without generating moves.
func (e *Evaluator) Static(pos *board.Position, hanging bool) int32 {
	score := e.WhiteRelative(pos, hanging)
	if pos.SideToMove() == board.Black {
		return -score
	}
	return score
}

// WhiteRelative is the static score from white's point of view.
func (e *Evaluator) WhiteRelative(pos *board.Position, hanging bool) int32 {
	if e.network != nil {
		if s, ok := e.network.Evaluate(pos); ok {
			return s
		}
	}

	var mg, eg int32

	material := e.material(pos)
	mg += material
	eg += material

	pstMG, pstEG := e.pieceTables(pos)
	mg += pstMG
	eg += pstEG

	mobility := e.mobility(pos)
	mg += mobility
	eg += mobility

	pawnMG, pawnEG := e.pawnStructure(pos)
	mg += pawnMG
	eg += pawnEG

	pairMG, pairEG := e.bishopPair(pos)
	mg += pairMG
	eg += pairEG

	mg += e.kingFiles(pos)

	phase := e.Phase(pos)
	score := (mg*phase + eg*(TotalPhase-phase)) / TotalPhase

	if hanging {
		score += e.hangingPieces(pos)
	}
	return score
}

// Phase returns the remaining non-pawn material weight, TotalPhase at the
// start of the game and 0 with only kings and pawns left.
func (e *Evaluator) Phase(pos *board.Position) int32 {
	var phase int32
	for pt := board.Knight; pt <= board.Queen; pt++ {
		n := bits.OnesCount64(pos.Pieces(board.White, pt) | pos.Pieces(board.Black, pt))
		phase += int32(n) * e.cfg.PhaseWeights[pt]
	}
	return Min(phase, TotalPhase)
}

func (e *Evaluator) material(pos *board.Position) (score int32) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		w := bits.OnesCount64(pos.Pieces(board.White, pt))
		b := bits.OnesCount64(pos.Pieces(board.Black, pt))
		score += int32(w-b) * e.cfg.PieceValues[pt]
	}
	return score
}

func (e *Evaluator) pieceTables(pos *board.Position) (mgScore, egScore int32) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		ptm, pte := &e.cfg.Opening[pt], &e.cfg.Endgame[pt]
		for x := pos.Pieces(board.White, pt); x != 0; x &= x - 1 {
			idx := bits.TrailingZeros64(x)
			mgScore += ptm[idx]
			egScore += pte[idx]
		}
		for x := pos.Pieces(board.Black, pt); x != 0; x &= x - 1 {
			revView := FlipView[bits.TrailingZeros64(x)]
			mgScore -= ptm[revView]
			egScore -= pte[revView]
		}
	}
	return mgScore, egScore
}

func (e *Evaluator) mobility(pos *board.Position) (score int32) {
	occ := pos.All()
	for c := board.White; c <= board.Black; c++ {
		own := pos.Occupancy(c)
		var total int32
		for pt := board.Knight; pt <= board.Queen; pt++ {
			for x := pos.Pieces(c, pt); x != 0; {
				sq := board.PopLSB(&x)
				var attacks uint64
				switch pt {
				case board.Knight:
					attacks = board.KnightAttacks(sq)
				case board.Bishop:
					attacks = board.BishopAttacks(sq, occ)
				case board.Rook:
					attacks = board.RookAttacks(sq, occ)
				case board.Queen:
					attacks = board.QueenAttacks(sq, occ)
				}
				total += int32(bits.OnesCount64(attacks&^own)) * e.cfg.Mobility[pt]
			}
		}
		if c == board.White {
			score += total
		} else {
			score -= total
		}
	}
	return score
}

func (e *Evaluator) pawnStructure(pos *board.Position) (mg, eg int32) {
	wp := pos.Pieces(board.White, board.Pawn)
	bp := pos.Pieces(board.Black, board.Pawn)

	var wDoubled, bDoubled, wIsolated, bIsolated int32
	for f := 0; f < 8; f++ {
		wn := bits.OnesCount64(wp & onlyFile[f])
		bn := bits.OnesCount64(bp & onlyFile[f])
		wDoubled += int32(Max(wn-1, 0))
		bDoubled += int32(Max(bn-1, 0))
		if wp&adjacentFiles[f] == 0 {
			wIsolated += int32(wn)
		}
		if bp&adjacentFiles[f] == 0 {
			bIsolated += int32(bn)
		}
	}
	mg += (wDoubled - bDoubled) * e.cfg.DoubledPawnMG
	eg += (wDoubled - bDoubled) * e.cfg.DoubledPawnEG
	mg += (wIsolated - bIsolated) * e.cfg.IsolatedPawnMG
	eg += (wIsolated - bIsolated) * e.cfg.IsolatedPawnEG

	for x := wp; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if passedSpan[board.White][sq]&bp == 0 {
			mg += e.cfg.PassedPawnMG[sq/8]
			eg += e.cfg.PassedPawnEG[sq/8]
		}
	}
	for x := bp; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if passedSpan[board.Black][sq]&wp == 0 {
			mg -= e.cfg.PassedPawnMG[7-sq/8]
			eg -= e.cfg.PassedPawnEG[7-sq/8]
		}
	}
	return mg, eg
}

func (e *Evaluator) bishopPair(pos *board.Position) (mg, eg int32) {
	w := bits.OnesCount64(pos.Pieces(board.White, board.Bishop))
	b := bits.OnesCount64(pos.Pieces(board.Black, board.Bishop))
	if w > 1 && b < 2 {
		mg += e.cfg.BishopPairMG
		eg += e.cfg.BishopPairEG
	}
	if b > 1 && w < 2 {
		mg -= e.cfg.BishopPairMG
		eg -= e.cfg.BishopPairEG
	}
	return mg, eg
}

// kingFiles penalizes open and half-open files on and beside each king.
// Only the opening weight is used; the blend fades it out.
func (e *Evaluator) kingFiles(pos *board.Position) (score int32) {
	wp := pos.Pieces(board.White, board.Pawn)
	bp := pos.Pieces(board.Black, board.Pawn)
	for c := board.White; c <= board.Black; c++ {
		k := pos.KingSquare(c)
		if k == board.NoSquare {
			continue
		}
		own, theirs := wp, bp
		if c == board.Black {
			own, theirs = bp, wp
		}
		var penalty int32
		files := onlyFile[k.File()] | adjacentFiles[k.File()]
		for f := 0; f < 8; f++ {
			if files&onlyFile[f] == 0 || own&onlyFile[f] != 0 {
				continue
			}
			if theirs&onlyFile[f] == 0 {
				penalty += e.cfg.KingOpenFileMG
			} else {
				penalty += e.cfg.KingSemiOpenFileMG
			}
		}
		if c == board.White {
			score += penalty
		} else {
			score -= penalty
		}
	}
	return score
}

// hangingPieces charges each side a share of what it would lose if the
// opponent started an exchange on each of its attacked pieces.
func (e *Evaluator) hangingPieces(pos *board.Position) (score int32) {
	occ := pos.All()
	for c := board.White; c <= board.Black; c++ {
		var loss int32
		for pt := board.Pawn; pt <= board.Queen; pt++ {
			for x := pos.Pieces(c, pt); x != 0; {
				sq := board.PopLSB(&x)
				if AttackersTo(pos, sq, c.Other(), occ) == 0 {
					continue
				}
				loss += SEE(pos, sq, pt, c)
			}
		}
		loss = loss * e.cfg.HangingPercent / 100
		if c == board.White {
			score -= loss
		} else {
			score += loss
		}
	}
	return score
}
