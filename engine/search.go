package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"gander/board"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MateScore int32 = 30000
	Infinity  int32 = 32000
	DrawScore int32 = 0

	// MaxPly bounds recursion including quiescence.
	MaxPly = 128
	// MaxDepth is the deepest nominal iteration.
	MaxDepth = 64

	MateThreshold int32 = MateScore - MaxPly

	// nodes between context and clock polls
	pollInterval = 1024
)

// =============================================================================
// BUDGETS AND RESULTS
// =============================================================================

type budgetKind uint8

const (
	budgetUnbounded budgetKind = iota
	budgetDepth
	budgetMillis
)

// TimeBudget limits one search by depth, by wall clock, or not at all.
type TimeBudget struct {
	kind   budgetKind
	depth  int
	millis int64
}

func Unbounded() TimeBudget        { return TimeBudget{kind: budgetUnbounded} }
func ByDepth(n int) TimeBudget     { return TimeBudget{kind: budgetDepth, depth: n} }
func ByMillis(ms int64) TimeBudget { return TimeBudget{kind: budgetMillis, millis: ms} }

func (b TimeBudget) IsUnbounded() bool { return b.kind == budgetUnbounded }

func (b TimeBudget) String() string {
	switch b.kind {
	case budgetDepth:
		return fmt.Sprintf("depth %d", b.depth)
	case budgetMillis:
		return fmt.Sprintf("movetime %d", b.millis)
	}
	return "infinite"
}

// Result is what a search hands back. Move is only empty when the root has
// no legal moves.
type Result struct {
	Move    board.Move
	Score   int32
	Depth   int
	Nodes   uint64
	PV      []board.Move
	Elapsed time.Duration
}

// Info describes one completed iteration.
type Info struct {
	Depth    int
	Score    int32
	Nodes    uint64
	Elapsed  time.Duration
	HashFull int
	PV       []board.Move
}

// SearchConfig carries the tunables of the search.
type SearchConfig struct {
	AspirationWindow int32
	QuiescenceDepth  int
	// MaxCentipawnLoss weakens play: when positive, the move is drawn at
	// random among root moves scoring within this many centipawns of the best.
	MaxCentipawnLoss int32
	OnInfo           func(Info)
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		AspirationWindow: 50,
		QuiescenceDepth:  8,
	}
}

// =============================================================================
// SEARCHER
// =============================================================================

// Searcher runs one search at a time. Stop may be called from any goroutine.
type Searcher struct {
	cfg     SearchConfig
	eval    *Evaluator
	tt      *TranspositionTable
	zobrist *Zobrist

	stop atomic.Bool

	ctx             context.Context
	deadline        time.Time
	hasDeadline     bool
	enforceDeadline bool
	stopped         bool

	nodes    uint64
	path     stateStack
	rootMove board.Move
	killers  KillerTable
	stats    CutStatistics
}

func NewSearcher(cfg SearchConfig, eval *Evaluator, tt *TranspositionTable, zobrist *Zobrist) *Searcher {
	if cfg.QuiescenceDepth <= 0 {
		cfg.QuiescenceDepth = DefaultSearchConfig().QuiescenceDepth
	}
	if cfg.AspirationWindow < 0 {
		cfg.AspirationWindow = 0
	}
	return &Searcher{cfg: cfg, eval: eval, tt: tt, zobrist: zobrist, ctx: context.Background()}
}

// Stop asks a running search to unwind. The last completed depth is kept.
func (s *Searcher) Stop() { s.stop.Store(true) }

// ResetForNewGame forgets everything learned in earlier searches.
func (s *Searcher) ResetForNewGame() {
	s.tt.Clear()
	s.killers.ClearKillers()
}

func (s *Searcher) SetOnInfo(f func(Info)) { s.cfg.OnInfo = f }

// setTable swaps the transposition table. Not safe during a search.
func (s *Searcher) setTable(tt *TranspositionTable) { s.tt = tt }

// BestMove searches pos by iterative deepening and returns the move of the
// deepest fully completed iteration. history holds the fingerprints of the
// positions played before pos; reaching any of them again scores as a draw.
func (s *Searcher) BestMove(ctx context.Context, pos board.Position, budget TimeBudget, history []uint64) Result {
	start := time.Now()
	s.begin(ctx, budget, history, start)

	var res Result
	rootMoves := pos.LegalMoves()
	if len(rootMoves) == 0 {
		log.Warn().Str("fen", pos.FEN()).Msg("no-legal-moves")
		return res
	}
	// Fallback until an iteration completes.
	res.Move = rootMoves[0]

	maxDepth := MaxDepth
	if budget.kind == budgetDepth {
		maxDepth = Clamp(budget.depth, 1, MaxDepth)
	}

	var prevScore int32
	var pv PVLine
	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 {
			// Depth 1 always completes unless cancelled outright.
			s.enforceDeadline = s.hasDeadline
			if s.hasDeadline && s.softTimeExceeded(start) {
				break
			}
		}

		score, ok := s.searchDepth(&pos, depth, prevScore, &pv)
		if !ok {
			log.Debug().Int("depth", depth).Msg("iteration-abandoned")
			break
		}

		prevScore = score
		res.Score = score
		res.Depth = depth
		res.PV = pv.Clone().Moves
		if m, found := pv.GetPVMove(); found {
			res.Move = m
		} else if !s.rootMove.IsZero() {
			res.Move = s.rootMove
		}

		if s.cfg.OnInfo != nil {
			s.cfg.OnInfo(Info{
				Depth:    depth,
				Score:    score,
				Nodes:    s.nodes,
				Elapsed:  time.Since(start),
				HashFull: s.tt.HashFull(),
				PV:       res.PV,
			})
		}

		if IsMateScore(score) {
			break
		}
	}

	if s.cfg.MaxCentipawnLoss > 0 && res.Depth > 0 {
		res.Move = s.weakenChoice(rootMoves, res.Move)
	}

	res.Nodes = s.nodes
	res.Elapsed = time.Since(start)

	log.Debug().
		Str("move", res.Move.String()).
		Int("depth", res.Depth).
		Int32("score", res.Score).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Msg("search-complete")
	s.stats.log()
	s.tt.LogStats()
	return res
}

func (s *Searcher) begin(ctx context.Context, budget TimeBudget, history []uint64, start time.Time) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.stop.Store(false)
	s.stopped = false
	s.nodes = 0
	s.stats.reset()
	s.killers.ClearKillers()
	s.rootMove = board.Move{}
	s.path.reset(history)

	s.hasDeadline = budget.kind == budgetMillis
	s.enforceDeadline = false
	if s.hasDeadline {
		s.deadline = start.Add(time.Duration(budget.millis) * time.Millisecond)
	}
}

// searchDepth runs one iteration inside an aspiration window around the
// previous score, widening to a full window when the result falls outside.
func (s *Searcher) searchDepth(pos *board.Position, depth int, prevScore int32, pv *PVLine) (int32, bool) {
	alpha, beta := -Infinity, Infinity
	if depth > 1 && s.cfg.AspirationWindow > 0 {
		alpha = Max(prevScore-s.cfg.AspirationWindow, -Infinity)
		beta = Min(prevScore+s.cfg.AspirationWindow, Infinity)
	}

	pv.Clear()
	s.rootMove = board.Move{}
	score := s.alphabeta(pos, depth, alpha, beta, 0, pv)
	if s.stopped {
		return 0, false
	}
	if (score <= alpha && alpha > -Infinity) || (score >= beta && beta < Infinity) {
		s.stats.Researches++
		log.Trace().Int("depth", depth).Int32("score", score).Int32("alpha", alpha).Int32("beta", beta).Msg("aspiration-research")
		pv.Clear()
		s.rootMove = board.Move{}
		score = s.alphabeta(pos, depth, -Infinity, Infinity, 0, pv)
		if s.stopped {
			return 0, false
		}
	}
	return score, true
}

func (s *Searcher) softTimeExceeded(start time.Time) bool {
	now := time.Now()
	if !now.Before(s.deadline) {
		return true
	}
	// The next iteration usually costs more than all previous ones together.
	return now.Sub(start) > s.deadline.Sub(start)/2
}

// shouldStop is checked at every node; the context and the clock are only
// sampled every pollInterval nodes.
func (s *Searcher) shouldStop() bool {
	if s.stopped {
		return true
	}
	if s.stop.Load() {
		s.stopped = true
		return true
	}
	if s.nodes%pollInterval == 0 {
		s.poll()
	}
	return s.stopped
}

func (s *Searcher) poll() {
	if s.ctx.Err() != nil {
		s.stopped = true
		return
	}
	if s.enforceDeadline && !time.Now().Before(s.deadline) {
		s.stopped = true
	}
}

// =============================================================================
// NEGAMAX
// =============================================================================

func (s *Searcher) alphabeta(pos *board.Position, depth int, alpha, beta int32, ply int, pvLine *PVLine) int32 {
	s.nodes++
	hash := s.zobrist.Hash(pos)

	if ply > 0 && s.path.contains(hash) {
		return DrawScore
	}
	if s.shouldStop() {
		return 0
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return -(MateScore - int32(ply))
		}
		return DrawScore
	}
	if ply >= MaxPly-1 {
		return s.eval.Static(pos, false)
	}

	alphaOrig := alpha
	var ttMove uint16
	if entry, ok := s.tt.Probe(hash); ok {
		ttMove = entry.Move
		if ply > 0 && int(entry.Depth) >= depth {
			// Bounds only cut; narrowing the window here would make the
			// bound stored below claim more than was searched.
			score := scoreFromTT(entry.Score, ply)
			if entry.Bound == BoundExact ||
				(entry.Bound == BoundLower && score >= beta) ||
				(entry.Bound == BoundUpper && score <= alpha) {
				s.stats.TTCutoffs++
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(pos, alpha, beta, ply, 0, moves)
	}

	s.path.push(hash)
	defer s.path.pop()

	list := s.scoreMoves(moves, ttMove, ply)
	bestScore := -Infinity
	var bestMove *board.Move
	var childPV PVLine

	for i := range list.moves {
		m := orderNextMove(i, &list)
		if ply == 0 {
			// Root moves always sample the context and clock.
			if s.poll(); s.stopped {
				return 0
			}
		}

		childPV.Clear()
		score := negate(s.alphabeta(&m.Result, depth-1, negate(beta), negate(alpha), ply+1, &childPV))
		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if ply == 0 {
				s.rootMove = *m
			}
			if score > alpha {
				alpha = score
				pvLine.Update(m, &childPV)
			}
		}
		if alpha >= beta {
			s.stats.BetaCutoffs++
			if !m.IsTactical() {
				s.killers.InsertKiller(m.Key(), ply)
			}
			break
		}
	}

	bound := BoundExact
	switch {
	case bestScore <= alphaOrig:
		bound = BoundUpper
	case bestScore >= beta:
		bound = BoundLower
	}
	var key uint16
	if bestMove != nil {
		key = bestMove.Key()
	}
	s.tt.Store(hash, scoreToTT(bestScore, ply), int8(depth), bound, key)
	return bestScore
}

// =============================================================================
// QUIESCENCE
// =============================================================================

// quiescence resolves captures, promotions and check evasions until the
// position is quiet or the quiescence depth budget is spent. moves may carry
// the already generated legal moves of pos.
func (s *Searcher) quiescence(pos *board.Position, alpha, beta int32, ply, qdepth int, moves []board.Move) int32 {
	if qdepth > 0 {
		s.nodes++
		if s.shouldStop() {
			return 0
		}
		moves = pos.LegalMoves()
		if len(moves) == 0 {
			if pos.InCheck() {
				return -(MateScore - int32(ply))
			}
			return DrawScore
		}
	}

	inCheck := pos.InCheck()
	standPat := s.eval.Static(pos, false)
	if qdepth >= s.cfg.QuiescenceDepth || ply >= MaxPly-1 {
		return standPat
	}

	bestScore := -Infinity
	if !inCheck {
		if standPat >= beta {
			s.stats.QStandPatCutoffs++
			return standPat
		}
		if standPat+s.eval.cfg.PieceValues[board.Queen] < alpha {
			s.stats.QDeltaPrunes++
			return standPat
		}
		alpha = Max(alpha, standPat)
		bestScore = standPat
	}

	candidates := make([]*board.Move, 0, len(moves))
	for i := range moves {
		m := &moves[i]
		if !inCheck {
			if !m.IsTactical() {
				continue
			}
			if m.IsCapture() && SEECapture(pos, *m) < 0 && !m.GivesCheck() {
				s.stats.QSEESkips++
				continue
			}
		}
		candidates = append(candidates, m)
	}

	list := s.scoreCaptures(candidates)
	for i := range list.moves {
		m := orderNextMove(i, &list)
		score := negate(s.quiescence(&m.Result, negate(beta), negate(alpha), ply+1, qdepth+1, nil))
		if s.stopped {
			return 0
		}
		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
			}
		}
		if alpha >= beta {
			s.stats.QBetaCutoffs++
			break
		}
	}
	return bestScore
}

// =============================================================================
// SKILL
// =============================================================================

// weakenChoice picks uniformly among root moves whose quiescence score is
// within MaxCentipawnLoss of the best one. The full-strength move is always a
// candidate.
func (s *Searcher) weakenChoice(rootMoves []board.Move, best board.Move) board.Move {
	s.ctx = context.Background()
	s.stopped = false
	s.stop.Store(false)
	s.enforceDeadline = false

	scores := make([]int32, len(rootMoves))
	top := -Infinity
	for i := range rootMoves {
		scores[i] = negate(s.quiescence(&rootMoves[i].Result, -Infinity, Infinity, 1, 1, nil))
		top = Max(top, scores[i])
	}

	candidates := []board.Move{best}
	for i := range rootMoves {
		if rootMoves[i].Key() != best.Key() && top-scores[i] <= s.cfg.MaxCentipawnLoss {
			candidates = append(candidates, rootMoves[i])
		}
	}
	pick := candidates[frand.Intn(len(candidates))]
	log.Debug().Int("candidates", len(candidates)).Str("picked", pick.String()).Msg("skill-move-choice")
	return pick
}
