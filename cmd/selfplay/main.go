package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gander/config"
	"gander/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	movetime := flag.Int64("movetime", 200, "milliseconds per move")
	maxMoves := flag.Int("maxmoves", 200, "stop after this many plies")
	fen := flag.String("fen", "", "start position (defaults to the configured one)")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config-load-failed")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if *fen != "" {
		cfg.StartFEN = *fen
	}

	eng, err := engine.NewEngine(cfg.EngineOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("engine-init-failed")
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gameID := eng.NewGame()
	log.Info().Str("game-id", gameID).Int64("movetime", *movetime).Msg("selfplay-started")

	result := play(ctx, eng, *movetime, *maxMoves)
	pos := eng.Position()
	fmt.Printf("result: %s\nfinal: %s\n", result, pos.FEN())
}

// play lets the engine move for both sides until the game ends, the ply
// limit is reached or ctx is cancelled.
func play(ctx context.Context, eng *engine.Engine, movetime int64, maxMoves int) string {
	for ply := 0; ply < maxMoves; ply++ {
		if ctx.Err() != nil {
			return "interrupted"
		}
		pos := eng.Position()
		mover := pos.SideToMove()
		res, err := eng.BestMove(ctx, engine.ByMillis(movetime))
		if err != nil {
			if pos.InCheck() {
				return fmt.Sprintf("%s is mated", mover)
			}
			return "stalemate"
		}
		fmt.Printf("%3d. %-5s %s  %-10s depth %d  nodes %d\n",
			ply/2+1, mover, res.Move, engine.FormatScore(res.Score), res.Depth, res.Nodes)

		if eng.GameOver() {
			next := eng.Position()
			if next.InCheck() {
				return fmt.Sprintf("%s wins by checkmate", mover)
			}
			return "stalemate"
		}
		if next := eng.Position(); next.HalfmoveClock() >= 100 {
			return "draw by fifty-move rule"
		}
	}
	return "move limit reached"
}
