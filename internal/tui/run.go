package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/tablestakes/internal/game"
)

// Adapter forwards engine events into the Bubble Tea message loop.
type Adapter struct {
	program *tea.Program
}

// NewAdapter creates an observer bound to a running program.
func NewAdapter(program *tea.Program) *Adapter {
	return &Adapter{program: program}
}

// OnEvent implements game.Observer. Send is asynchronous, so the engine is
// never blocked on rendering.
func (a *Adapter) OnEvent(event game.Event) {
	a.program.Send(EventMsg{Event: event})
}

// Run drives a full interactive session: hands are played back to back
// until the user quits or the table cannot field two stacks.
func Run(ctx context.Context, engine *game.Engine, cfg Config, logger *log.Logger) error {
	model := NewModel(engine, cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	engine.AddObserver(NewAdapter(program))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go gameLoop(ctx, engine, program, model.NextHand(), logger)

	_, err := program.Run()
	return err
}

func gameLoop(ctx context.Context, engine *game.Engine, program *tea.Program, next <-chan struct{}, logger *log.Logger) {
	for {
		result, err := engine.PlayHand(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("hand failed", "err", err)
			return
		}
		program.Send(HandFinishedMsg{Result: result})

		if funded(engine) < 2 {
			program.Send(GameOverMsg{})
			return
		}

		select {
		case <-next:
		case <-ctx.Done():
			return
		}
	}
}

// funded counts seats that can still post any part of a blind.
func funded(engine *game.Engine) int {
	n := 0
	for _, seat := range engine.Snapshot().Seats {
		if seat.Chips > 0 {
			n++
		}
	}
	return n
}
