package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBDir     string     `env:"DB_DIR" envDefault:"data"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	AssetsDir string     `env:"ASSETS_DIR" envDefault:"assets"`
	PublicURL string     `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`

	PairsPerRound      int           `env:"PAIRS_PER_ROUND" envDefault:"4"`
	TotalRounds        int           `env:"TOTAL_ROUNDS" envDefault:"3"`
	RoundDuration      time.Duration `env:"ROUND_DURATION" envDefault:"30s"`
	TickInterval       time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	// AdminPasswordHash is a bcrypt hash guarding the score listing.
	// Empty leaves the listing open.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.PairsPerRound < 1 {
		errs = append(errs, fmt.Errorf("PAIRS_PER_ROUND must be positive, got %d", c.PairsPerRound))
	}
	if c.TotalRounds < 1 {
		errs = append(errs, fmt.Errorf("TOTAL_ROUNDS must be positive, got %d", c.TotalRounds))
	}
	if c.RoundDuration <= 0 {
		errs = append(errs, fmt.Errorf("ROUND_DURATION must be positive, got %s", c.RoundDuration))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval))
	}
	if c.SessionIdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", c.SessionIdleTimeout))
	}
	return errors.Join(errs...)
}
