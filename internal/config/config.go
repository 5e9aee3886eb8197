// Package config reads server settings from flags, falling back to
// METRICCHESS_* environment variables and then to defaults.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Addr           string
	AllowedOrigins string
	// EnginePath is the UCI engine binary. Empty disables engine play.
	EnginePath         string
	EngineBudget       time.Duration
	Clock              time.Duration
	MatchInterval      time.Duration
	LogLevel           slog.Level
	LogFormat          string
	HomeRankDoubleStep bool
}

// Load parses args (without the program name) against the environment.
func Load(args []string) (Config, error) {
	return load(args, os.Getenv)
}

func load(args []string, getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	fs := flag.NewFlagSet("metricchess", flag.ContinueOnError)
	addr := fs.String("addr", env("METRICCHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("allowed-origins", env("METRICCHESS_ALLOWED_ORIGINS", "http://localhost:5173"), "comma-separated CORS and WebSocket origins")
	enginePath := fs.String("engine-path", env("METRICCHESS_ENGINE_PATH", "fairy-stockfish"), "UCI engine binary, empty to disable")
	budget := fs.String("engine-budget", env("METRICCHESS_ENGINE_BUDGET", "1s"), "default engine search time")
	clock := fs.String("clock", env("METRICCHESS_CLOCK", "10m"), "time per side, 0 for untimed games")
	interval := fs.String("match-interval", env("METRICCHESS_MATCH_INTERVAL", "1s"), "matchmaking tick")
	level := fs.String("log-level", env("METRICCHESS_LOG_LEVEL", "info"), "debug, info, warn or error")
	format := fs.String("log-format", env("METRICCHESS_LOG_FORMAT", "text"), "text or json")
	homeRank := fs.Bool("home-rank-double-step", parseBool(getenv("METRICCHESS_HOME_RANK_DOUBLE_STEP")), "allow the pawn double step only from the home rank")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:               *addr,
		AllowedOrigins:     *origins,
		EnginePath:         strings.TrimSpace(*enginePath),
		LogFormat:          strings.ToLower(*format),
		HomeRankDoubleStep: *homeRank,
	}

	var err error
	if cfg.EngineBudget, err = parseDuration("engine-budget", *budget); err != nil {
		return Config{}, err
	}
	if cfg.Clock, err = parseDuration("clock", *clock); err != nil {
		return Config{}, err
	}
	if cfg.MatchInterval, err = parseDuration("match-interval", *interval); err != nil {
		return Config{}, err
	}
	if cfg.MatchInterval == 0 {
		return Config{}, fmt.Errorf("match-interval must be positive")
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(*level)); err != nil {
		return Config{}, fmt.Errorf("invalid log-level %q: %w", *level, err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("invalid log-format %q: want text or json", *format)
	}
	return cfg, nil
}

func parseDuration(name, v string) (time.Duration, error) {
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: negative", name, v)
	}
	return d, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

// Origins splits AllowedOrigins into its entries.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// NewLogger builds the process logger described by the config.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
