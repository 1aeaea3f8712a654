package board

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestPerftStartpos(t *testing.T) {
	is := is.New(t)
	pos := MustParseFEN(StartFEN)
	is.Equal(Perft(pos, 1), uint64(20))
	is.Equal(Perft(pos, 2), uint64(400))
	is.Equal(Perft(pos, 3), uint64(8902))
}

func TestPerftKiwipete(t *testing.T) {
	is := is.New(t)
	pos := MustParseFEN(kiwipete)
	is.Equal(Perft(pos, 1), uint64(48))
	is.Equal(Perft(pos, 2), uint64(2039))
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	is := is.New(t)
	pos := MustParseFEN(kiwipete)
	div, err := PerftDivide(context.Background(), pos, 2)
	is.NoErr(err)
	is.Equal(len(div), 48)
	var total uint64
	for _, n := range div {
		total += n
	}
	is.Equal(total, uint64(2039))
}

func TestPerftDivideCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PerftDivide(ctx, MustParseFEN(StartFEN), 3)
	is.True(err != nil)
}

func TestParseFENRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e5 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -3 1",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1",
		"4k3/8/8/8/8/8/8/3QK2q b - - 0 1",
	}
	for _, fen := range bad {
		_, err := ParseFEN(fen)
		assert.ErrorIs(t, err, ErrInvalidFEN, fen)
	}
}

func TestParseFENDefaultsClocks(t *testing.T) {
	is := is.New(t)
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - -")
	is.NoErr(err)
	is.Equal(pos.FEN(), "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
}

func TestFENRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, fen := range []string{StartFEN, kiwipete, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"} {
		pos := MustParseFEN(fen)
		is.Equal(pos.FEN(), fen)
	}
	pos, err := ParseFEN("startpos")
	is.NoErr(err)
	is.Equal(pos.FEN(), StartFEN)
}

func TestMirrorIsAnInvolution(t *testing.T) {
	is := is.New(t)
	pos := MustParseFEN(kiwipete)
	m, err := Mirror(pos)
	is.NoErr(err)
	is.Equal(m.SideToMove(), Black)
	is.Equal(m.Castling(), WhiteKingside|WhiteQueenside|BlackKingside|BlackQueenside)
	back, err := Mirror(m)
	is.NoErr(err)
	is.Equal(back.FEN(), pos.FEN())
	is.Equal(Perft(m, 2), Perft(pos, 2))
}

func TestChildTracksCastlingAndEnPassant(t *testing.T) {
	is := is.New(t)
	pos := MustParseFEN(StartFEN)

	e4, ok := pos.Play("e2e4")
	is.True(ok)
	is.Equal(e4.Piece, Pawn)
	is.Equal(e4.Result.EnPassant().String(), "e3")
	is.Equal(e4.Result.SideToMove(), Black)

	nf3, ok := pos.Play("g1f3")
	is.True(ok)
	is.Equal(nf3.Result.EnPassant(), NoSquare)

	kiwi := MustParseFEN(kiwipete)
	kf1, ok := kiwi.Play("e1f1")
	is.True(ok)
	is.Equal(kf1.Result.Castling(), BlackKingside|BlackQueenside)

	rooks := MustParseFEN("r3k2r/8/8/8/8/8/6B1/R3K2R w KQkq - 0 1")
	bxa8, ok := rooks.Play("g2a8")
	is.True(ok)
	is.Equal(bxa8.Captured, Rook)
	is.Equal(bxa8.Result.Castling(), WhiteKingside|WhiteQueenside|BlackKingside)
}

func TestEnPassantCaptureIsMarked(t *testing.T) {
	is := is.New(t)
	pos := MustParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	m, ok := pos.Play("e5d6")
	is.True(ok)
	is.Equal(m.Captured, Pawn)
	is.True(m.IsCapture())
	_, _, occupied := m.Result.PieceAt(mustSquare("d5"))
	is.True(!occupied)
}

func TestPromotion(t *testing.T) {
	is := is.New(t)
	pos := MustParseFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	m, ok := pos.Play("b7b8q")
	is.True(ok)
	is.Equal(m.Promotion, Queen)
	is.True(m.IsTactical())
	is.True(m.GivesCheck())
	pt, c, _ := m.Result.PieceAt(mustSquare("b8"))
	is.Equal(pt, Queen)
	is.Equal(c, White)
}

func TestAttackMasks(t *testing.T) {
	is := is.New(t)
	is.Equal(KnightAttacks(mustSquare("a1")), Bit(mustSquare("b3"))|Bit(mustSquare("c2")))
	is.Equal(KingAttacks(mustSquare("h8")), Bit(mustSquare("g8"))|Bit(mustSquare("g7"))|Bit(mustSquare("h7")))
	is.Equal(PawnAttacks(White, mustSquare("a2")), Bit(mustSquare("b3")))
	is.Equal(PawnAttacks(Black, mustSquare("e5")), Bit(mustSquare("d4"))|Bit(mustSquare("f4")))

	occ := Bit(mustSquare("d4"))
	is.True(RookAttacks(mustSquare("d1"), occ)&Bit(mustSquare("d4")) != 0)
	is.True(RookAttacks(mustSquare("d1"), occ)&Bit(mustSquare("d5")) == 0)
	is.Equal(QueenAttacks(mustSquare("a1"), 0), RookAttacks(mustSquare("a1"), 0)|BishopAttacks(mustSquare("a1"), 0))
}

func TestInCheck(t *testing.T) {
	is := is.New(t)
	checked := MustParseFEN("4k3/8/8/8/8/8/8/R3K2r w - - 0 1")
	is.True(checked.InCheck())
	quiet := MustParseFEN(StartFEN)
	is.True(!quiet.InCheck())
	mated := MustParseFEN("R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	is.True(mated.InCheck())
	is.True(!mated.HasLegalMoves())
}

func mustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}
