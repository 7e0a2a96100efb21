package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/tablestakes/internal/broadcast"
	"github.com/lox/tablestakes/internal/config"
	"github.com/lox/tablestakes/internal/game"
	"github.com/lox/tablestakes/internal/randutil"
	"github.com/lox/tablestakes/internal/tui"
)

// PlayCmd runs the interactive terminal session.
type PlayCmd struct {
	Config string `short:"c" default:"tablestakes.hcl" help:"Path to HCL configuration file"`
	Seed   *int64 `help:"Deterministic RNG seed (optional)"`
	Reveal bool   `help:"Start with every seat's cards face up"`
	Serve  bool   `help:"Serve table state to websocket spectators"`
	Addr   string `help:"Spectator server address (overrides config)"`
	Debug  bool   `short:"d" help:"Enable debug logging"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Display.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := setupLogger(logFile, cfg.Display.LogLevel, c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("starting session", "seed", seed, "config", c.Config)

	engine, err := game.New(cfg.EngineConfig(), logger, game.WithRNG(randutil.New(seed)))
	if err != nil {
		return err
	}

	humanSeat := -1
	for i, seat := range cfg.Seats {
		if seat.Human {
			humanSeat = i
			break
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if c.Serve || cfg.Server.Enabled {
		addr := cfg.ListenAddress()
		if c.Addr != "" {
			addr = c.Addr
		}
		spectators := broadcast.NewServer(addr, func() game.TableState {
			return engine.Snapshot()
		}, logger)
		engine.AddObserver(spectators)
		g.Go(func() error { return spectators.Run(ctx) })
	}

	g.Go(func() error {
		defer stop()
		return tui.Run(ctx, engine, tui.Config{
			HumanSeat:   humanSeat,
			RevealAll:   c.Reveal || cfg.Display.RevealAll,
			MaxLogLines: cfg.Display.MaxLogLines,
		}, logger)
	})

	return g.Wait()
}
