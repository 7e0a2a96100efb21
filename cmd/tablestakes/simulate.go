package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/tablestakes/internal/config"
	"github.com/lox/tablestakes/internal/fileutil"
	"github.com/lox/tablestakes/internal/game"
	"github.com/lox/tablestakes/internal/randutil"
)

// SimulateCmd plays AI-only hands back to back and prints a summary.
// Useful for eyeballing strategy behaviour and for soak-testing the
// engine's chip accounting.
type SimulateCmd struct {
	Config string `short:"c" default:"tablestakes.hcl" help:"Path to HCL configuration file"`
	Hands  int    `short:"n" default:"100" help:"Number of hands to play"`
	Seed   *int64 `help:"Deterministic RNG seed (optional)"`
	Basic  bool   `help:"Use the non-phase-aware strategy (no bluffing)"`
	Out    string `short:"o" help:"Write a JSON report to this path"`
	Debug  bool   `short:"d" help:"Enable debug logging"`
}

// Report is the JSON document written by --out.
type Report struct {
	Seed     int64        `json:"seed"`
	Hands    int          `json:"hands"`
	FoldOuts int          `json:"foldOuts"`
	Seats    []SeatReport `json:"seats"`
}

// SeatReport summarises one seat's session.
type SeatReport struct {
	Name  string `json:"name"`
	Chips int    `json:"chips"`
	Wins  int    `json:"wins"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// Simulation replaces the human with an AI in the same seat.
	for i := range cfg.Seats {
		cfg.Seats[i].Human = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(os.Stderr, cfg.Display.LogLevel, c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)

	opts := []game.Option{game.WithRNG(rng)}
	if c.Basic {
		opts = append(opts, game.WithStrategy(game.BasicStrategy{}))
	}
	engine, err := game.New(cfg.EngineConfig(), logger, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("simulating", "hands", c.Hands, "seed", seed)

	wins := make(map[string]int)
	foldOuts := 0
	played := 0

	for i := 0; i < c.Hands; i++ {
		if ctx.Err() != nil {
			break
		}

		result, err := engine.PlayHand(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		played++

		for _, w := range result.Winners {
			wins[w.Name]++
		}
		if result.ByFold {
			foldOuts++
		}

		if fundedSeats(engine) < 2 {
			logger.Info("table cannot continue", "hand", result.HandNum)
			break
		}
	}

	fmt.Printf("seed: %d\n", seed)
	fmt.Printf("hands played: %d (%d won by fold-out)\n", played, foldOuts)
	fmt.Println()
	fmt.Printf("%-12s %8s %8s\n", "seat", "chips", "wins")
	for _, seat := range engine.Snapshot().Seats {
		fmt.Printf("%-12s %8d %8d\n", seat.Name, seat.Chips, wins[seat.Name])
	}

	if c.Out != "" {
		report := Report{Seed: seed, Hands: played, FoldOuts: foldOuts}
		for _, seat := range engine.Snapshot().Seats {
			report.Seats = append(report.Seats, SeatReport{
				Name:  seat.Name,
				Chips: seat.Chips,
				Wins:  wins[seat.Name],
			})
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if err := fileutil.WriteFileAtomic(c.Out, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.Info("report written", "path", c.Out)
	}
	return nil
}

func fundedSeats(engine *game.Engine) int {
	n := 0
	for _, seat := range engine.Snapshot().Seats {
		if seat.Chips > 0 {
			n++
		}
	}
	return n
}
