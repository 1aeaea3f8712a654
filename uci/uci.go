// Package uci drives an engine.Engine from UCI text commands, plus a few
// debugging commands (d, eval, perft).
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"gander/board"
	"gander/engine"
)

const (
	EngineName   = "Gander"
	EngineAuthor = "the Gander authors"

	maxHashMB = 4096
	maxSkill  = 1000
)

// syncWriter serializes protocol output from the command loop and the
// search goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) println(a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, a...)
}

func (s *syncWriter) printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, a...)
}

type Adapter struct {
	eng *engine.Engine
	out *syncWriter

	defaultMovetime int64

	searching sync.WaitGroup
	cancel    context.CancelFunc
}

// New wires an adapter to eng. defaultMovetime applies to a bare "go".
func New(eng *engine.Engine, out io.Writer, defaultMovetime int64) *Adapter {
	a := &Adapter{
		eng:             eng,
		out:             &syncWriter{w: out},
		defaultMovetime: defaultMovetime,
	}
	eng.SetOnInfo(a.sendInfo)
	return a
}

// Run reads commands until quit or the end of input.
func (a *Adapter) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		if !a.Handle(scanner.Text()) {
			return nil
		}
	}
	a.stopSearch()
	return scanner.Err()
}

// Handle executes one command line. It returns false once the adapter
// should exit.
func (a *Adapter) Handle(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 { // ignore blank lines
		return true
	}
	switch strings.ToLower(tokens[0]) {
	case "uci":
		a.out.println("id name", EngineName)
		a.out.println("id author", EngineAuthor)
		a.out.printf("option name Hash type spin default %d min 1 max %d\n", engine.DefaultHashMB, maxHashMB)
		a.out.printf("option name Skill type spin default 0 min 0 max %d\n", maxSkill)
		a.out.println("uciok")
	case "isready":
		a.out.println("readyok")
	case "ucinewgame":
		a.Wait()
		id := a.eng.NewGame()
		log.Info().Str("game-id", id).Msg("ucinewgame")
	case "position":
		a.Wait()
		a.position(tokens[1:])
	case "go":
		a.Wait()
		a.goCommand(tokens[1:])
	case "stop":
		a.stopSearch()
	case "quit":
		a.stopSearch()
		return false
	case "setoption":
		a.Wait()
		a.setOption(tokens[1:])
	case "d":
		a.Wait()
		a.display()
	case "eval":
		a.Wait()
		a.out.println("info string eval", engine.FormatScore(a.eng.Evaluate()))
	case "perft":
		a.Wait()
		a.perft(tokens[1:])
	default:
		a.out.println("info string Unknown command:", line)
	}
	return true
}

// Wait blocks until a running search has printed its bestmove.
func (a *Adapter) Wait() {
	a.searching.Wait()
}

func (a *Adapter) stopSearch() {
	if a.cancel != nil {
		a.cancel()
	}
	a.eng.Stop()
	a.Wait()
}

func (a *Adapter) position(args []string) {
	if len(args) == 0 {
		a.out.println("info string Malformed position command")
		return
	}
	var fen string
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		idx := lo.IndexOf(rest, "moves")
		if idx < 0 {
			idx = len(rest)
		}
		fen = strings.Join(rest[:idx], " ")
		rest = rest[idx:]
	default:
		a.out.println("info string Invalid position subcommand")
		return
	}

	var moves []string
	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		moves = lo.Map(rest[1:], func(m string, _ int) string { return strings.ToLower(m) })
	}
	if err := a.eng.SetPosition(fen, moves); err != nil {
		a.out.println("info string", err)
	}
}

type goParams struct {
	depth, movesToGo       int
	movetime               int64
	wtime, btime           int64
	winc, binc             int64
	infinite, clockPresent bool
}

func parseGo(args []string) (goParams, error) {
	var p goParams
	for i := 0; i < len(args); i++ {
		tok := strings.ToLower(args[i])
		if tok == "infinite" {
			p.infinite = true
			continue
		}
		if i+1 >= len(args) {
			return p, fmt.Errorf("malformed go command option %s", tok)
		}
		n, err := strconv.ParseInt(args[i+1], 10, 64)
		if err != nil {
			return p, fmt.Errorf("malformed go command option %s: %w", tok, err)
		}
		i++
		switch tok {
		case "depth":
			p.depth = int(n)
		case "movetime":
			p.movetime = n
		case "wtime":
			p.wtime, p.clockPresent = n, true
		case "btime":
			p.btime, p.clockPresent = n, true
		case "winc":
			p.winc = n
		case "binc":
			p.binc = n
		case "movestogo":
			p.movesToGo = int(n)
		default:
			return p, fmt.Errorf("unknown go subcommand %s", tok)
		}
	}
	return p, nil
}

func (a *Adapter) budget(p goParams) engine.TimeBudget {
	switch {
	case p.depth > 0:
		return engine.ByDepth(p.depth)
	case p.movetime > 0:
		return engine.ByMillis(p.movetime)
	case p.infinite:
		return engine.Unbounded()
	case p.clockPresent:
		clock := engine.Clock{Remaining: p.wtime, Increment: p.winc, MovesToGo: p.movesToGo}
		pos := a.eng.Position()
		if pos.SideToMove() == board.Black {
			clock.Remaining, clock.Increment = p.btime, p.binc
		}
		return a.eng.AllocateTime(clock)
	}
	return engine.ByMillis(a.defaultMovetime)
}

func (a *Adapter) goCommand(args []string) {
	p, err := parseGo(args)
	if err != nil {
		a.out.println("info string", err)
		return
	}
	budget := a.budget(p)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.searching.Add(1)
	go func() {
		defer a.searching.Done()
		defer cancel()
		log.Debug().Str("budget", budget.String()).Str("game-id", a.eng.GameID()).Msg("search-started")
		res := a.eng.Think(ctx, budget)
		if budget.IsUnbounded() {
			// "go infinite" holds bestmove until stop or quit, even after a
			// mate is proven or the depth limit is reached.
			<-ctx.Done()
		}
		if res.Move.IsZero() {
			a.out.println("bestmove 0000")
			return
		}
		a.out.println("bestmove", res.Move.String())
	}()
}

func (a *Adapter) sendInfo(info engine.Info) {
	ms := info.Elapsed.Milliseconds()
	nps := info.Nodes * 1000 / uint64(max(ms, 1))
	a.out.printf("info depth %d score %s nodes %d time %d nps %d hashfull %d pv %s\n",
		info.Depth, engine.FormatScore(info.Score), info.Nodes, ms, nps, info.HashFull, engine.MovesString(info.PV))
}

func (a *Adapter) setOption(args []string) {
	// setoption name <id> value <x>
	nameIdx := lo.IndexOf(args, "name")
	valueIdx := lo.IndexOf(args, "value")
	if nameIdx < 0 || valueIdx < nameIdx {
		a.out.println("info string Malformed setoption command")
		return
	}
	name := strings.ToLower(strings.Join(args[nameIdx+1:valueIdx], " "))
	value, err := strconv.Atoi(strings.Join(args[valueIdx+1:], ""))
	if err != nil {
		a.out.println("info string Malformed setoption value:", err)
		return
	}
	switch name {
	case "hash":
		a.eng.SetHashSize(engine.Clamp(value, 1, maxHashMB))
	case "skill":
		a.eng.SetSkill(int32(engine.Clamp(value, 0, maxSkill)))
	default:
		a.out.println("info string Unknown option", name)
		return
	}
	log.Info().Str("option", name).Int("value", value).Msg("option-set")
}

func (a *Adapter) display() {
	pos := a.eng.Position()
	a.out.println(diagram(&pos))
	a.out.println("Fen:", pos.FEN())
	a.out.println("Side to move:", pos.SideToMove(), "In check:", pos.InCheck())
}

// diagram renders the board with rank 8 on top.
func diagram(pos *board.Position) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(strconv.Itoa(rank + 1))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteByte(pieceChar(pos, board.Square(rank*8+file)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}

func pieceChar(pos *board.Position, sq board.Square) byte {
	pt, c, ok := pos.PieceAt(sq)
	if !ok {
		return '.'
	}
	ch := " pnbrqk"[pt]
	if c == board.White {
		ch -= 'a' - 'A'
	}
	return ch
}

func (a *Adapter) perft(args []string) {
	depth := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			a.out.println("info string Malformed perft depth")
			return
		}
		depth = n
	}
	div, err := board.PerftDivide(context.Background(), a.eng.Position(), depth)
	if err != nil {
		a.out.println("info string", err)
		return
	}
	moves := lo.Keys(div)
	sort.Strings(moves)
	var total uint64
	for _, m := range moves {
		a.out.printf("%s: %d\n", m, div[m])
		total += div[m]
	}
	a.out.printf("nodes %d\n", total)
}
