package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/playperu/picmatch/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.PairsPerRound != 4 {
		t.Errorf("PairsPerRound = %d, want 4", cfg.PairsPerRound)
	}
	if cfg.RoundDuration != 30*time.Second {
		t.Errorf("RoundDuration = %s, want 30s", cfg.RoundDuration)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("TickInterval = %s, want 1s", cfg.TickInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAIRS_PER_ROUND", "6")
	t.Setenv("TOTAL_ROUNDS", "2")
	t.Setenv("ROUND_DURATION", "45s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.PairsPerRound != 6 || cfg.TotalRounds != 2 {
		t.Errorf("rounds = %d x %d, want 6 x 2", cfg.TotalRounds, cfg.PairsPerRound)
	}
	if cfg.RoundDuration != 45*time.Second {
		t.Errorf("RoundDuration = %s, want 45s", cfg.RoundDuration)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidRounds(t *testing.T) {
	t.Setenv("PAIRS_PER_ROUND", "0")
	t.Setenv("ROUND_DURATION", "-1s")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid round settings")
	}
	for _, want := range []string{"PAIRS_PER_ROUND", "ROUND_DURATION"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
