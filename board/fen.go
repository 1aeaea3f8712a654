package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN")

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN validates and loads a FEN record. Missing clock fields default to
// "0 1" and the keyword "startpos" is accepted.
func ParseFEN(fen string) (Position, error) {
	fen = strings.TrimSpace(fen)
	if fen == "startpos" {
		fen = StartFEN
	}
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return Position{}, fenError("expected 4 to 6 fields, got %d", len(fields))
	}
	if len(fields) == 4 {
		fields = append(fields, "0")
	}
	if len(fields) == 5 {
		fields = append(fields, "1")
	}

	if err := checkPlacement(fields[0]); err != nil {
		return Position{}, err
	}
	if fields[1] != "w" && fields[1] != "b" {
		return Position{}, fenError("side to move must be 'w' or 'b'")
	}

	var castling CastleRights
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			idx := strings.IndexRune("KQkq", ch)
			if idx < 0 {
				return Position{}, fenError("bad castling character %q", ch)
			}
			castling |= 1 << idx
		}
	}

	ep := NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil || (sq.Rank() != 2 && sq.Rank() != 5) {
			return Position{}, fenError("bad en passant square %q", fields[3])
		}
		ep = sq
	}

	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 || half > 255 {
		return Position{}, fenError("bad halfmove clock %q", fields[4])
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return Position{}, fenError("bad fullmove number %q", fields[5])
	}

	b, err := loadBoard(strings.Join(fields, " "))
	if err != nil {
		return Position{}, err
	}
	pos := Position{b: b, castling: castling, ep: ep}

	// The side that just moved may not be left in check.
	them := pos.SideToMove().Other()
	if pos.Attacked(pos.KingSquare(them), them.Other()) {
		return Position{}, fenError("side not to move is in check")
	}
	return pos, nil
}

// MustParseFEN is ParseFEN for constants known to be valid.
func MustParseFEN(fen string) Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

func loadBoard(fen string) (b dragontoothmg.Board, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fenError("%v", r)
		}
	}()
	return dragontoothmg.ParseFen(fen), nil
}

func checkPlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fenError("expected 8 ranks, got %d", len(ranks))
	}
	kings := map[rune]int{}
	for i, rank := range ranks {
		files := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				files += int(ch - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", ch):
				if (ch == 'p' || ch == 'P') && (i == 0 || i == 7) {
					return fenError("pawn on back rank")
				}
				if ch == 'k' || ch == 'K' {
					kings[ch]++
				}
				files++
			default:
				return fenError("bad piece character %q", ch)
			}
		}
		if files != 8 {
			return fenError("rank %d has %d files", 8-i, files)
		}
	}
	if kings['K'] != 1 || kings['k'] != 1 {
		return fenError("each side needs exactly one king")
	}
	return nil
}

// FEN serializes the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pt, c, ok := p.PieceAt(Square(rank*8 + file))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			ch := pieceLetters[pt]
			if c == White {
				ch -= 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove() == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.castling, p.ep, p.HalfmoveClock(), p.FullmoveNumber())
	return sb.String()
}

// Mirror flips the board vertically, swaps piece colors, castling rights and
// the side to move. The mirrored position is the same game seen from the
// other side, so mover-relative scores must agree.
func Mirror(p Position) (Position, error) {
	fields := strings.Fields(p.FEN())

	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	fields[0] = swapCase(strings.Join(ranks, "/"))

	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}

	c := p.castling
	mirrored := (c&(WhiteKingside|WhiteQueenside))<<2 | (c&(BlackKingside|BlackQueenside))>>2
	fields[2] = mirrored.String()

	if p.ep != NoSquare {
		fields[3] = p.ep.Flip().String()
	}
	return ParseFEN(strings.Join(fields, " "))
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// Material counts pieces of each type for c.
func (p *Position) Material(c Color) (counts [7]int) {
	for pt := Pawn; pt <= King; pt++ {
		counts[pt] = bits.OnesCount64(p.Pieces(c, pt))
	}
	return counts
}
