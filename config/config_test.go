package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"gander/board"
	"gander/engine"
)

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	cfg, err := Load("")
	is.NoErr(err)
	is.Equal(cfg.HashMB, engine.DefaultHashMB)
	is.Equal(cfg.Threads, 1)
	is.Equal(cfg.StartFEN, board.StartFEN)
	is.Equal(cfg.ZobristSeed, engine.DefaultZobristSeed)
	is.Equal(cfg.QuiescenceDepth, 8)
	is.Equal(cfg.AspirationWindow, int32(50))
	is.Equal(cfg.Level(), zerolog.InfoLevel)

	opts := cfg.EngineOptions()
	is.Equal(opts.Search.MaxCentipawnLoss, int32(0))
	is.True(opts.Eval.HangingPenalty)
}

func TestLoadFileAndEnv(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "gander.yaml")
	is.NoErr(os.WriteFile(path, []byte("hash-mb: 16\nthreads: 2\nlog-level: debug\nskill-max-cp-loss: 40\n"), 0o644))
	t.Setenv("GANDER_HASH_MB", "32")
	t.Setenv("GANDER_HANGING_PENALTY", "false")

	cfg, err := Load(path)
	is.NoErr(err)
	is.Equal(cfg.HashMB, 32) // environment beats the file
	is.Equal(cfg.Threads, 2)
	is.Equal(cfg.Level(), zerolog.DebugLevel)

	opts := cfg.EngineOptions()
	is.Equal(opts.HashMB, 32)
	is.Equal(opts.Search.MaxCentipawnLoss, int32(40))
	is.True(!opts.Eval.HangingPenalty)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"GANDER_THREADS":   "0",
		"GANDER_START_FEN": "nonsense",
		"GANDER_LOG_LEVEL": "chatty",
	}
	for env, val := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, val)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
