package engine

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gander/board"
)

var symmetryFENs = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"7r/8/6pq/4N3/7k/8/6QK/7R w - - 0 1",
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	ev := NewEvaluator(DefaultEvalConfig())
	for _, fen := range symmetryFENs {
		pos := board.MustParseFEN(fen)
		mirrored, err := board.Mirror(pos)
		require.NoError(t, err, fen)

		assert.Equal(t, ev.Evaluate(&pos), ev.Evaluate(&mirrored), fen)
		assert.Equal(t, ev.WhiteRelative(&pos, true), -ev.WhiteRelative(&mirrored, true), fen)
		assert.Equal(t, ev.WhiteRelative(&pos, false), -ev.WhiteRelative(&mirrored, false), fen)
	}
}

func TestEvaluateStartposIsLevel(t *testing.T) {
	is := is.New(t)
	ev := NewEvaluator(DefaultEvalConfig())
	pos := board.MustParseFEN(board.StartFEN)
	is.Equal(ev.Evaluate(&pos), int32(0))
	is.Equal(ev.Phase(&pos), int32(TotalPhase))
}

func TestEvaluateSideToMove(t *testing.T) {
	is := is.New(t)
	ev := NewEvaluator(DefaultEvalConfig())
	white := board.MustParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := board.MustParseFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	is.True(ev.Evaluate(&white) > 800)
	is.Equal(ev.Evaluate(&black), -ev.Evaluate(&white))
}

func TestEvaluateTerminal(t *testing.T) {
	is := is.New(t)
	ev := NewEvaluator(DefaultEvalConfig())

	mated := board.MustParseFEN("R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	is.Equal(ev.Evaluate(&mated), -MateScore)

	stalemate := board.MustParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	is.Equal(ev.Evaluate(&stalemate), int32(0))
}

func TestEvaluateHangingPenalty(t *testing.T) {
	is := is.New(t)
	// the black queen on d5 hangs to the rook
	pos := board.MustParseFEN("4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1")

	cfg := DefaultEvalConfig()
	cfg.HangingPenalty = false
	plain := NewEvaluator(cfg).Evaluate(&pos)
	withHanging := NewEvaluator(DefaultEvalConfig()).Evaluate(&pos)
	is.True(withHanging > plain)
}

func TestPhaseEndgame(t *testing.T) {
	is := is.New(t)
	ev := NewEvaluator(DefaultEvalConfig())
	pos := board.MustParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	is.Equal(ev.Phase(&pos), int32(2*RookPhase))
}

type fixedNetwork struct{ score int32 }

func (n fixedNetwork) Evaluate(*board.Position) (int32, bool) { return n.score, true }

func TestNetworkOverridesStatic(t *testing.T) {
	is := is.New(t)
	ev := NewEvaluator(DefaultEvalConfig())
	ev.SetNetwork(fixedNetwork{score: 42})
	pos := board.MustParseFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	is.Equal(ev.Static(&pos, false), int32(-42))

	ev.SetNetwork(nil)
	is.True(ev.Static(&pos, false) < -800)
}
