package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gander/board"
	"gander/engine"
)

// The suite searched when no -fen or -suite is given.
var defaultSuite = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r1bq1rk1/pp2bppp/2n1pn2/3p4/2PP4/2N1PN2/PP3PPP/R2QKB1R w KQ - 0 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
}

func loadSuite(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var fens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fens = append(fens, line)
	}
	return fens, scanner.Err()
}

func main() {
	depthFlag := flag.Int("depth", 6, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of passes over the suite")
	fenFlag := flag.String("fen", "", "single FEN to search (overrides the suite)")
	suiteFlag := flag.String("suite", "", "file with one FEN per line")
	hashFlag := flag.Int("hash", engine.DefaultHashMB, "transposition table size in MB")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *depthFlag <= 0 {
		log.Fatal().Int("depth", *depthFlag).Msg("depth must be positive")
	}

	suite := defaultSuite
	switch {
	case *fenFlag != "":
		suite = []string{*fenFlag}
	case *suiteFlag != "":
		var err error
		if suite, err = loadSuite(*suiteFlag); err != nil {
			log.Fatal().Err(err).Msg("could not read suite")
		}
	}

	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	opts := engine.DefaultOptions()
	opts.HashMB = *hashFlag
	eng, err := engine.NewEngine(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("engine-init-failed")
	}

	fmt.Printf("searchbench: positions=%d depth=%d repeat=%d\n", len(suite), *depthFlag, *repeatFlag)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		for _, fen := range suite {
			// Fresh game for each position so runs are comparable
			eng.NewGame()
			if err := eng.SetFEN(fen); err != nil {
				log.Error().Err(err).Str("fen", fen).Msg("skipping-position")
				continue
			}
			res := eng.Think(context.Background(), engine.ByDepth(*depthFlag))
			totalNodes += res.Nodes
			fmt.Printf("bestmove %s score %s nodes %d time=%v pv %s\n",
				res.Move, engine.FormatScore(res.Score), res.Nodes, res.Elapsed, engine.MovesString(res.PV))
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total nodes: %d  time: %v  nps: %.0f\n", totalNodes, totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}
