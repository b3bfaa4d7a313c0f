// Package main is the entry point for turnbattle.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/samdwyer/turnbattle/internal/game"
	"github.com/samdwyer/turnbattle/internal/telemetry"
)

// logFile receives logs while the terminal UI owns the screen.
const logFile = "turnbattle.log"

func main() {
	// Load .env file for local development
	envErr := godotenv.Load()

	cfg, err := game.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if envErr != nil {
		// Not fatal - env vars might be set directly
		logger.Debug(".env file not loaded", "error", envErr)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("battle failed", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg game.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Telemetry {
		for k, v := range telemetry.HoneycombEnv(os.Getenv("HONEYCOMB_TURNBATTLE_API_KEY"), os.Getenv("HONEYCOMB_TURNBATTLE_DATASET")) {
			os.Setenv(k, v)
		}

		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			// The battle still works without observability.
			logger.Warn("telemetry setup failed", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.WithoutCancel(ctx)); err != nil {
					logger.Warn("telemetry shutdown failed", "error", err)
				}
			}()
		}
	}

	g, err := game.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize game: %w", err)
	}
	defer g.Close()

	outcome, err := g.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("session finished", "outcome", outcome.String(), "seed", g.Seed())
	return nil
}

// newLogger builds the text logger at the configured level. With the terminal
// UI on, logs go to a file instead of stderr.
func newLogger(cfg game.Config) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	if cfg.TUI {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeLog, nil
}
