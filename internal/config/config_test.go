package config

import (
	"log/slog"
	"testing"
	"time"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, fakeEnv(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.EnginePath != "fairy-stockfish" {
		t.Errorf("EnginePath = %q", cfg.EnginePath)
	}
	if cfg.EngineBudget != time.Second || cfg.Clock != 10*time.Minute || cfg.MatchInterval != time.Second {
		t.Errorf("durations = %v %v %v", cfg.EngineBudget, cfg.Clock, cfg.MatchInterval)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
		t.Errorf("logging = %v %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.HomeRankDoubleStep {
		t.Error("HomeRankDoubleStep should default to false")
	}
}

func TestLoadPrecedence(t *testing.T) {
	env := fakeEnv(map[string]string{
		"METRICCHESS_ADDR":                  ":9000",
		"METRICCHESS_ENGINE_BUDGET":         "250ms",
		"METRICCHESS_CLOCK":                 "0",
		"METRICCHESS_LOG_LEVEL":             "debug",
		"METRICCHESS_LOG_FORMAT":            "JSON",
		"METRICCHESS_HOME_RANK_DOUBLE_STEP": "yes",
		"METRICCHESS_ALLOWED_ORIGINS":       "http://a.test, http://b.test,",
	})

	cfg, err := load([]string{"-addr", ":8080"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("flag should win over env, Addr = %q", cfg.Addr)
	}
	if cfg.EngineBudget != 250*time.Millisecond {
		t.Errorf("EngineBudget = %v", cfg.EngineBudget)
	}
	if cfg.Clock != 0 {
		t.Errorf("Clock = %v", cfg.Clock)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("logging = %v %q", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.HomeRankDoubleStep {
		t.Error("HomeRankDoubleStep not read from env")
	}
	origins := cfg.Origins()
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Errorf("Origins = %q", origins)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad duration", []string{"-engine-budget", "soon"}},
		{"negative clock", []string{"-clock", "-1m"}},
		{"zero match interval", []string{"-match-interval", "0"}},
		{"bad level", []string{"-log-level", "loud"}},
		{"bad format", []string{"-log-format", "xml"}},
		{"unknown flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load(tt.args, fakeEnv(nil)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
