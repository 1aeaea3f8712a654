package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"gander/board"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.HashMB = 1
	e, err := NewEngine(opts)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func fenOf(pos board.Position) string { return pos.FEN() }

func placement(pos board.Position) string {
	return strings.Fields(fenOf(pos))[0]
}

func TestNewEngineValidatesOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Threads = 0
	_, err := NewEngine(opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.StartFEN = "not a fen"
	_, err = NewEngine(opts)
	assert.ErrorIs(t, err, board.ErrInvalidFEN)
}

func TestSetFENKeepsPositionOnError(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(t)
	before := fenOf(e.Position())

	err := e.SetFEN("rnbqkbnr/pppppppp/8/8 w")
	assert.ErrorIs(t, err, board.ErrInvalidFEN)
	is.Equal(fenOf(e.Position()), before)

	is.NoErr(e.SetFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1"))
	is.Equal(placement(e.Position()), "4k3/8/8/8/8/8/8/3QK3")
}

func TestSetPosition(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(t)

	is.NoErr(e.SetPosition(board.StartFEN, []string{"e2e4", "e7e5", "g1f3"}))
	is.Equal(placement(e.Position()), "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R")
	is.Equal(len(e.History()), 3)

	err := e.SetPosition(board.StartFEN, []string{"e2e4", "e2e4"})
	assert.ErrorIs(t, err, ErrIllegalMove)
	is.Equal(len(e.History()), 3) // unchanged
	is.Equal(placement(e.Position()), "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R")
}

func TestApplyMove(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(t)
	is.NoErr(e.ApplyMove("d2d4"))
	pos := e.Position()
	is.Equal(pos.SideToMove(), board.Black)

	assert.ErrorIs(t, e.ApplyMove("d4d5"), ErrIllegalMove)
	is.Equal(len(e.History()), 1)
}

func TestEngineBestMovePlaysMate(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(t)
	is.NoErr(e.SetFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"))

	res, err := e.BestMove(context.Background(), ByDepth(3))
	is.NoErr(err)
	is.Equal(res.Move.String(), "a1a8")
	is.True(e.GameOver())
	is.Equal(e.Evaluate(), -MateScore)

	_, err = e.BestMove(context.Background(), ByDepth(3))
	assert.ErrorIs(t, err, ErrNoLegalMoves)
}

func TestThinkDoesNotMove(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(t)
	before := fenOf(e.Position())

	var infos int
	e.SetOnInfo(func(Info) { infos++ })
	res := e.Think(context.Background(), ByDepth(2))
	is.Equal(res.Depth, 2)
	is.Equal(infos, 2)
	is.Equal(fenOf(e.Position()), before)
}

func TestNewGameResets(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(t)
	first := e.GameID()
	is.NoErr(e.ApplyMove("e2e4"))

	second := e.NewGame()
	is.True(first != second)
	is.Equal(e.GameID(), second)
	is.Equal(fenOf(e.Position()), fenOf(board.MustParseFEN(board.StartFEN)))
	is.Equal(len(e.History()), 0)
}

func TestEnginePerftAndSettings(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(t)
	is.Equal(e.Perft(2), uint64(400))

	e.SetHashSize(2)
	e.SetSkill(0)
	res := e.Think(context.Background(), ByDepth(1))
	is.Equal(res.Depth, 1)

	budget := e.AllocateTime(Clock{Remaining: 60000})
	is.Equal(budget, ByMillis(60000/45))
}

func TestSetHashSizeKeepsSearcher(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(t)
	var infos int
	e.SetOnInfo(func(Info) { infos++ })
	searcher := e.searcher

	// Stop reads the searcher without the engine lock
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			e.Stop()
		}
	}()
	for i := 0; i < 4; i++ {
		e.SetHashSize(1 + i%2)
	}
	wg.Wait()

	is.True(e.searcher == searcher)
	is.True(e.searcher.tt == e.tt)
	is.Equal(e.tt.Capacity(), NewTranspositionTable(2).Capacity())

	res := e.Think(context.Background(), ByDepth(1))
	is.Equal(res.Depth, 1)
	is.Equal(infos, 1)
}
