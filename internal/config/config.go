package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/tablestakes/internal/game"
)

// Config is the complete application configuration.
type Config struct {
	Table   *TableSettings   `hcl:"table,block"`
	Display *DisplaySettings `hcl:"display,block"`
	Server  *ServerSettings  `hcl:"server,block"`
	Seats   []SeatSettings   `hcl:"seat,block"`
}

// TableSettings contains the stakes and stack sizes for the table.
type TableSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"`
}

// SeatSettings defines one seat at the table.
type SeatSettings struct {
	Name  string `hcl:"name,label"`
	Human bool   `hcl:"human,optional"`
}

// DisplaySettings contains terminal UI configuration.
type DisplaySettings struct {
	MaxLogLines int    `hcl:"max_log_lines,optional"`
	RevealAll   bool   `hcl:"reveal_all,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	LogFile     string `hcl:"log_file,optional"`
}

// ServerSettings configures the optional spectator websocket server.
type ServerSettings struct {
	Enabled bool   `hcl:"enabled,optional"`
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// Default returns the reference configuration: a four-seat table with one
// human, 25/50 blinds and 1000 chip stacks.
func Default() *Config {
	return &Config{
		Table: &TableSettings{
			SmallBlind:    25,
			BigBlind:      50,
			StartingChips: 1000,
		},
		Display: &DisplaySettings{
			MaxLogLines: 50,
			LogLevel:    "info",
			LogFile:     "tablestakes.log",
		},
		Server: &ServerSettings{
			Address: "localhost",
			Port:    8080,
		},
		Seats: []SeatSettings{
			{Name: "You", Human: true},
			{Name: "AI 1"},
			{Name: "AI 2"},
			{Name: "AI 3"},
		},
	}
}

// Load reads configuration from an HCL file, falling back to defaults when
// the file does not exist. Missing values within a present file are filled
// with the same defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := Default()
	if cfg.Table == nil {
		cfg.Table = defaults.Table
	}
	if cfg.Table.SmallBlind == 0 {
		cfg.Table.SmallBlind = defaults.Table.SmallBlind
	}
	if cfg.Table.BigBlind == 0 {
		cfg.Table.BigBlind = defaults.Table.BigBlind
	}
	if cfg.Table.StartingChips == 0 {
		cfg.Table.StartingChips = defaults.Table.StartingChips
	}

	if cfg.Display == nil {
		cfg.Display = defaults.Display
	}
	if cfg.Display.MaxLogLines == 0 {
		cfg.Display.MaxLogLines = defaults.Display.MaxLogLines
	}
	if cfg.Display.LogLevel == "" {
		cfg.Display.LogLevel = defaults.Display.LogLevel
	}
	if cfg.Display.LogFile == "" {
		cfg.Display.LogFile = defaults.Display.LogFile
	}

	if cfg.Server == nil {
		cfg.Server = defaults.Server
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaults.Server.Address
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}

	if len(cfg.Seats) == 0 {
		cfg.Seats = defaults.Seats
	}

	return &cfg, nil
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.Table.SmallBlind)
	}
	if c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("big blind %d must be greater than small blind %d", c.Table.BigBlind, c.Table.SmallBlind)
	}
	if c.Table.StartingChips < c.Table.BigBlind {
		return fmt.Errorf("starting chips %d cannot cover the big blind %d", c.Table.StartingChips, c.Table.BigBlind)
	}
	if len(c.Seats) < 3 {
		return fmt.Errorf("at least 3 seats required, got %d", len(c.Seats))
	}

	humans := 0
	for _, s := range c.Seats {
		if s.Human {
			humans++
		}
	}
	if humans > 1 {
		return fmt.Errorf("at most one human seat supported, got %d", humans)
	}

	if c.Table.ActionTimeout != "" {
		if _, err := time.ParseDuration(c.Table.ActionTimeout); err != nil {
			return fmt.Errorf("invalid action_timeout: %w", err)
		}
	}
	if c.Server.Enabled && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

// EngineConfig maps the file configuration onto the engine's configuration
// surface. Call Validate first; an unparseable timeout is treated as zero
// here.
func (c *Config) EngineConfig() game.Config {
	cfg := game.Config{
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		StartingChips: c.Table.StartingChips,
	}
	if c.Table.ActionTimeout != "" {
		if d, err := time.ParseDuration(c.Table.ActionTimeout); err == nil {
			cfg.ActionTimeout = d
		}
	}
	for _, s := range c.Seats {
		cfg.Seats = append(cfg.Seats, game.SeatConfig{Name: s.Name, Human: s.Human})
	}
	return cfg
}

// ListenAddress returns the spectator server's host:port.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
