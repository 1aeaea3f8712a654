package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gander/config"
	"gander/engine"
	"gander/uci"
)

var (
	configPath  = flag.String("config", "", "path to a YAML config file")
	interactive = flag.Bool("interactive", false, "run an interactive shell instead of reading UCI from stdin")
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func main() {
	flag.Parse()

	// stdout carries the protocol, so logs go to stderr.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config-load-failed")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	eng, err := engine.NewEngine(cfg.EngineOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("engine-init-failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *interactive {
		err = runShell(ctx, eng, cfg.DefaultMovetimeMs)
	} else {
		err = uci.New(eng, os.Stdout, cfg.DefaultMovetimeMs).Run(ctx, os.Stdin)
	}
	if err != nil {
		log.Error().Err(err).Msg("exited-with-error")
		os.Exit(1)
	}
}

func runShell(ctx context.Context, eng *engine.Engine, movetime int64) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:      "\033[32mgander>\033[0m ",
		HistoryFile: "/tmp/gander_readline.tmp",
		EOFPrompt:   "quit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	adapter := uci.New(eng, l.Stdout(), movetime)
	for ctx.Err() == nil {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "bye" {
			line = "quit"
		}
		if !adapter.Handle(line) {
			return nil
		}
		// Searches in the shell print their bestmove before the next prompt.
		adapter.Wait()
	}
	adapter.Handle("quit")
	return nil
}
