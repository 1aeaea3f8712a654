// Package config loads engine settings from defaults, an optional YAML file
// and GANDER_ environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"gander/board"
	"gander/engine"
)

const (
	KeyHashMB            = "hash-mb"
	KeyThreads           = "threads"
	KeyStartFEN          = "start-fen"
	KeySkillMaxCPLoss    = "skill-max-cp-loss"
	KeyUseNN             = "use-nn"
	KeyLogLevel          = "log-level"
	KeyZobristSeed       = "zobrist-seed"
	KeyAspirationWindow  = "aspiration-window"
	KeyQuiescenceDepth   = "quiescence-depth"
	KeyHangingPenalty    = "hanging-penalty"
	KeyDefaultMovetimeMs = "default-movetime-ms"
)

const envPrefix = "GANDER"

type Config struct {
	HashMB            int    `mapstructure:"hash-mb"`
	Threads           int    `mapstructure:"threads"`
	StartFEN          string `mapstructure:"start-fen"`
	SkillMaxCPLoss    int32  `mapstructure:"skill-max-cp-loss"`
	UseNN             bool   `mapstructure:"use-nn"`
	LogLevel          string `mapstructure:"log-level"`
	ZobristSeed       uint64 `mapstructure:"zobrist-seed"`
	AspirationWindow  int32  `mapstructure:"aspiration-window"`
	QuiescenceDepth   int    `mapstructure:"quiescence-depth"`
	HangingPenalty    bool   `mapstructure:"hanging-penalty"`
	DefaultMovetimeMs int64  `mapstructure:"default-movetime-ms"`
}

func setDefaults(v *viper.Viper) {
	search := engine.DefaultSearchConfig()
	v.SetDefault(KeyHashMB, engine.DefaultHashMB)
	v.SetDefault(KeyThreads, 1)
	v.SetDefault(KeyStartFEN, board.StartFEN)
	v.SetDefault(KeySkillMaxCPLoss, 0)
	v.SetDefault(KeyUseNN, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyZobristSeed, engine.DefaultZobristSeed)
	v.SetDefault(KeyAspirationWindow, search.AspirationWindow)
	v.SetDefault(KeyQuiescenceDepth, search.QuiescenceDepth)
	v.SetDefault(KeyHangingPenalty, engine.DefaultEvalConfig().HangingPenalty)
	v.SetDefault(KeyDefaultMovetimeMs, 1000)
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyThreads, c.Threads)
	}
	if c.HashMB < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyHashMB, c.HashMB)
	}
	if c.SkillMaxCPLoss < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeySkillMaxCPLoss, c.SkillMaxCPLoss)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	if _, err := board.ParseFEN(c.StartFEN); err != nil {
		return fmt.Errorf("%s: %w", KeyStartFEN, err)
	}
	return nil
}

// EngineOptions maps the configuration onto engine options.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.HashMB = c.HashMB
	opts.Threads = c.Threads
	opts.StartFEN = c.StartFEN
	opts.ZobristSeed = c.ZobristSeed
	opts.UseNN = c.UseNN
	opts.Eval.HangingPenalty = c.HangingPenalty
	opts.Search.AspirationWindow = c.AspirationWindow
	opts.Search.QuiescenceDepth = c.QuiescenceDepth
	opts.Search.MaxCentipawnLoss = c.SkillMaxCPLoss
	return opts
}

// Level returns the configured log level, info if it does not parse.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
