package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/picmatch/internal/catalog"
	"github.com/playperu/picmatch/internal/config"
	"github.com/playperu/picmatch/internal/database"
	"github.com/playperu/picmatch/internal/engine"
	"github.com/playperu/picmatch/internal/handler/health"
	"github.com/playperu/picmatch/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	// A missing .env is fine; the environment alone is enough.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.OpenInDir(ctx, cfg.DBDir, "scores")
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	scores, err := server.NewScoreStore(ctx, db)
	if err != nil {
		return fmt.Errorf("initializing score store: %w", err)
	}
	logger.Info("connected to sqlite", "dir", cfg.DBDir)

	// --- Assets ---
	cat, err := catalog.Load(cfg.AssetsDir, cfg.PublicURL)
	if err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}
	pool := cat.Pairs()
	logger.Info("loaded asset catalog", "dir", cfg.AssetsDir, "pairs", len(pool))
	if len(pool) < cfg.PairsPerRound {
		logger.Warn("asset pool smaller than a round; sessions will fail to start",
			"pairs", len(pool), "pairs_per_round", cfg.PairsPerRound)
	}

	// --- Sessions ---
	broker := server.NewBroker()
	sessions := server.NewSessions(server.SessionsConfig{
		Pool: pool,
		Defaults: engine.Config{
			PairsPerRound: cfg.PairsPerRound,
			TotalRounds:   cfg.TotalRounds,
			RoundDuration: cfg.RoundDuration,
			TickInterval:  cfg.TickInterval,
			Policy:        engine.DefaultPolicy,
		},
		IdleTimeout: cfg.SessionIdleTimeout,
		Sink:        scores,
		Broker:      broker,
		Clock:       clockwork.NewRealClock(),
		Logger:      logger,
	})

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Catalog:  cat,
		Sessions: sessions,
		Broker:   broker,
		Scores:   scores,
		Health: health.NewHandler(logger, map[string]health.Checker{
			"sqlite": health.CheckerFunc(scores.Ping),
			"assets": cat,
		}),
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
