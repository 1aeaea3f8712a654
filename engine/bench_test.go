package engine

import (
	"context"
	"testing"

	"gander/board"
)

const benchFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func BenchmarkSearchDepth4(b *testing.B) {
	pos := board.MustParseFEN(benchFEN)
	s := newTestSearcher(DefaultSearchConfig())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ResetForNewGame()
		s.BestMove(context.Background(), pos, ByDepth(4), nil)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	pos := board.MustParseFEN(benchFEN)
	ev := NewEvaluator(DefaultEvalConfig())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ev.Static(&pos, true)
	}
}

func BenchmarkZobristHash(b *testing.B) {
	pos := board.MustParseFEN(benchFEN)
	z := NewZobrist(DefaultZobristSeed)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = z.Hash(&pos)
	}
}
