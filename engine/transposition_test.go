package engine

import (
	"testing"

	"github.com/matryer/is"

	"gander/board"
)

func TestTTProbeRejectsCollision(t *testing.T) {
	is := is.New(t)
	tt := newTableWithCapacity(8)
	tt.Store(3, 100, 5, BoundExact, 1)

	_, ok := tt.Probe(11)
	is.True(!ok) // same slot, different key

	e, ok := tt.Probe(3)
	is.True(ok)
	is.Equal(e.Score, int32(100))
	is.Equal(e.Move, uint16(1))
	is.Equal(e.Bound, BoundExact)
}

func TestTTReplacement(t *testing.T) {
	is := is.New(t)
	tt := newTableWithCapacity(8)
	tt.Store(3, 100, 5, BoundExact, 1)

	tt.Store(3, 50, 2, BoundLower, 2)
	e, _ := tt.Probe(3)
	is.Equal(e.Score, int32(100)) // shallower result for the same key is dropped

	tt.Store(3, 70, 5, BoundUpper, 3)
	e, _ = tt.Probe(3)
	is.Equal(e.Score, int32(70)) // equal depth overwrites
	is.Equal(e.Bound, BoundUpper)

	tt.Store(11, -20, 1, BoundExact, 4)
	_, ok := tt.Probe(3)
	is.True(!ok) // a different key always evicts
	e, ok = tt.Probe(11)
	is.True(ok)
	is.Equal(e.Score, int32(-20))
}

func TestTTEmptySlotMisses(t *testing.T) {
	is := is.New(t)
	tt := newTableWithCapacity(4)
	_, ok := tt.Probe(0)
	is.True(!ok)
	is.Equal(tt.HashFull(), 0)

	tt.Store(0, 1, 1, BoundExact, 0)
	tt.Store(1, 1, 1, BoundExact, 0)
	is.Equal(tt.HashFull(), 500)

	tt.Clear()
	_, ok = tt.Probe(0)
	is.True(!ok)
}

func TestTTMateScoreConversion(t *testing.T) {
	is := is.New(t)
	is.Equal(scoreFromTT(scoreToTT(MateScore-5, 3), 3), MateScore-5)
	is.Equal(scoreFromTT(scoreToTT(-(MateScore-7), 7), 7), -(MateScore - 7))

	// a mate found at ply 4 is stored as mate from the node itself
	is.Equal(scoreToTT(-(MateScore-4), 4), -MateScore)
	// read back two plies from the root it is two plies further away
	is.Equal(scoreFromTT(MateScore-6, 2), MateScore-8)

	is.Equal(scoreToTT(123, 9), int32(123))
}

func TestNewTranspositionTableSize(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	is.True(tt.Capacity() > 1000)
	is.Equal(NewTranspositionTable(2).Capacity(), 2*tt.Capacity())
}

func TestZobristDeterministic(t *testing.T) {
	is := is.New(t)
	pos := board.MustParseFEN(board.StartFEN)

	a, b := NewZobrist(DefaultZobristSeed), NewZobrist(DefaultZobristSeed)
	is.Equal(a.Hash(&pos), b.Hash(&pos))
	is.True(NewZobrist(DefaultZobristSeed+1).Hash(&pos) != a.Hash(&pos))
}

func TestZobristTransposition(t *testing.T) {
	is := is.New(t)
	z := NewZobrist(DefaultZobristSeed)
	start := board.MustParseFEN(board.StartFEN)

	pos := start
	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, ok := pos.Play(uci)
		is.True(ok)
		pos = m.Result
	}
	is.Equal(z.Hash(&pos), z.Hash(&start))

	m, _ := start.Play("e2e4")
	is.True(z.Hash(&m.Result) != z.Hash(&start))

	blackToMove := board.MustParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	is.True(z.Hash(&blackToMove) != z.Hash(&start))

	noCastle := board.MustParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")
	is.True(z.Hash(&noCastle) != z.Hash(&start))
}
