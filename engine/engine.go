package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gander/board"
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrNoLegalMoves = errors.New("no legal moves")
)

// Options configures an Engine.
type Options struct {
	HashMB      int
	Threads     int
	StartFEN    string
	ZobristSeed uint64
	UseNN       bool
	Eval        EvalConfig
	Search      SearchConfig
}

func DefaultOptions() Options {
	return Options{
		HashMB:      DefaultHashMB,
		Threads:     1,
		StartFEN:    board.StartFEN,
		ZobristSeed: DefaultZobristSeed,
		Eval:        DefaultEvalConfig(),
		Search:      DefaultSearchConfig(),
	}
}

// Engine owns a game: the current position, the positions leading to it,
// and the search machinery. Stop is safe to call while a search runs; the
// other methods serialize on the engine.
type Engine struct {
	mu sync.Mutex

	opts     Options
	eval     *Evaluator
	tt       *TranspositionTable
	zobrist  *Zobrist
	searcher *Searcher

	pos     board.Position
	history []uint64
	gameID  string
}

func NewEngine(opts Options) (*Engine, error) {
	if opts.Threads < 1 {
		return nil, fmt.Errorf("threads must be at least 1, got %d", opts.Threads)
	}
	if opts.Threads > 1 {
		log.Info().Int("threads", opts.Threads).Msg("single-threaded-search")
	}
	if opts.StartFEN == "" {
		opts.StartFEN = board.StartFEN
	}
	pos, err := board.ParseFEN(opts.StartFEN)
	if err != nil {
		return nil, fmt.Errorf("start position: %w", err)
	}

	e := &Engine{
		opts:    opts,
		eval:    NewEvaluator(opts.Eval),
		tt:      NewTranspositionTable(opts.HashMB),
		zobrist: NewZobrist(opts.ZobristSeed),
		pos:     pos,
		gameID:  uuid.NewString(),
	}
	if opts.UseNN {
		log.Warn().Msg("nn-evaluator-unavailable-using-static-eval")
	}
	e.searcher = NewSearcher(opts.Search, e.eval, e.tt, e.zobrist)
	log.Debug().Str("game-id", e.gameID).Int("hash-entries", e.tt.Capacity()).Msg("engine-ready")
	return e, nil
}

// Position returns a copy of the current position.
func (e *Engine) Position() board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos
}

func (e *Engine) GameID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameID
}

// Evaluator exposes the engine's evaluator.
func (e *Engine) Evaluator() *Evaluator { return e.eval }

// History returns the fingerprints of the positions before the current one.
func (e *Engine) History() []uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]uint64(nil), e.history...)
}

// NewGame clears the table, resets to the start position and returns the
// new game's id.
func (e *Engine) NewGame() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.searcher.ResetForNewGame()
	e.pos = board.MustParseFEN(e.opts.StartFEN)
	e.history = e.history[:0]
	e.gameID = uuid.NewString()
	log.Info().Str("game-id", e.gameID).Msg("new-game")
	return e.gameID
}

// SetFEN replaces the position. On error the previous position is kept.
func (e *Engine) SetFEN(fen string) error {
	return e.SetPosition(fen, nil)
}

// SetPosition loads fen and plays moves from it. Nothing changes unless the
// whole sequence is valid.
func (e *Engine) SetPosition(fen string, moves []string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		log.Error().Err(err).Str("fen", fen).Msg("position-rejected")
		return err
	}
	var history []uint64
	for _, uci := range moves {
		m, ok := pos.Play(uci)
		if !ok {
			err := fmt.Errorf("%w: %s in %s", ErrIllegalMove, uci, pos.FEN())
			log.Error().Err(err).Msg("position-rejected")
			return err
		}
		history = append(history, e.zobrist.Hash(&pos))
		pos = m.Result
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos = pos
	e.history = history
	return nil
}

// ApplyMove plays a move given in UCI notation on the current position.
func (e *Engine) ApplyMove(uci string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.pos.Play(uci)
	if !ok {
		return fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	e.play(m)
	return nil
}

func (e *Engine) play(m board.Move) {
	e.history = append(e.history, e.zobrist.Hash(&e.pos))
	e.pos = m.Result
}

// Think searches the current position without playing the result.
func (e *Engine) Think(ctx context.Context, budget TimeBudget) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searcher.BestMove(ctx, e.pos, budget, e.history)
}

// BestMove searches the current position and plays the chosen move.
func (e *Engine) BestMove(ctx context.Context, budget TimeBudget) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := e.searcher.BestMove(ctx, e.pos, budget, e.history)
	if res.Move.IsZero() {
		return res, ErrNoLegalMoves
	}
	e.play(res.Move)
	return res, nil
}

// Stop interrupts a running search. The searcher is never replaced after
// NewEngine, so Stop needs no lock.
func (e *Engine) Stop() { e.searcher.Stop() }

// SetOnInfo registers a per-iteration callback. Call it between searches.
func (e *Engine) SetOnInfo(f func(Info)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.searcher.SetOnInfo(f)
}

// SetHashSize reallocates the transposition table of the existing searcher.
func (e *Engine) SetHashSize(mb int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.HashMB = mb
	e.tt = NewTranspositionTable(mb)
	e.searcher.setTable(e.tt)
}

// SetSkill sets the tolerated centipawn loss; zero plays at full strength.
func (e *Engine) SetSkill(maxCentipawnLoss int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Search.MaxCentipawnLoss = maxCentipawnLoss
	e.searcher.cfg.MaxCentipawnLoss = maxCentipawnLoss
}

// Evaluate scores the current position for the side to move.
func (e *Engine) Evaluate() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eval.Evaluate(&e.pos)
}

// Perft counts leaf nodes below the current position.
func (e *Engine) Perft(depth int) uint64 {
	return board.Perft(e.Position(), depth)
}

// AllocateTime converts a clock into a budget for the current position.
func (e *Engine) AllocateTime(clock Clock) TimeBudget {
	pos := e.Position()
	return AllocateMoveTime(&pos, e.eval, clock)
}

// GameOver reports whether the side to move has no legal moves.
func (e *Engine) GameOver() bool {
	pos := e.Position()
	return !pos.HasLegalMoves()
}
