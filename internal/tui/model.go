// Package tui renders the table in the terminal and feeds the human
// seat's decisions back into the engine. It is a pure display adapter:
// all game state arrives through engine events and snapshots.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/tablestakes/internal/game"
)

// Config controls the display adapter.
type Config struct {
	// HumanSeat is the seat whose hole cards are always visible; -1 for a
	// spectator-only view.
	HumanSeat int

	// RevealAll starts the session with every seat's cards face up.
	RevealAll bool

	// MaxLogLines bounds the game log; older lines are discarded.
	MaxLogLines int
}

// EventMsg wraps an engine event for the Bubble Tea loop.
type EventMsg struct {
	Event game.Event
}

// HandFinishedMsg is sent by the game loop when a hand completes.
type HandFinishedMsg struct {
	Result *game.HandResult
}

// GameOverMsg is sent when fewer than two seats can post a blind.
type GameOverMsg struct{}

// Model is the Bubble Tea model for a table session.
type Model struct {
	engine *game.Engine
	logger *log.Logger
	cfg    Config

	state game.TableState

	logViewport viewport.Model
	actionInput textinput.Model
	gameLog     []string

	awaitingAction bool
	toCall         int
	betweenHands   bool
	gameOver       bool
	revealAll      bool
	quitting       bool

	next chan struct{}

	width       int
	height      int
	initialized bool
}

// NewModel creates the display model for an engine.
func NewModel(engine *game.Engine, cfg Config, logger *log.Logger) *Model {
	if cfg.MaxLogLines <= 0 {
		cfg.MaxLogLines = 50
	}

	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "call, raise, fold"
	ti.Focus()
	ti.CharLimit = 32
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	m := &Model{
		engine:      engine,
		logger:      logger.WithPrefix("tui"),
		cfg:         cfg,
		logViewport: vp,
		actionInput: ti,
		revealAll:   cfg.RevealAll,
		next:        make(chan struct{}, 1),
	}
	m.refresh()
	return m
}

// NextHand is signalled when the user asks for the next hand.
func (m *Model) NextHand() <-chan struct{} { return m.next }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) refresh() {
	if m.revealAll {
		m.state = m.engine.Snapshot(game.RevealAll())
	} else {
		m.state = m.engine.Snapshot(game.ForSeat(m.cfg.HumanSeat))
	}
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	if overflow := len(m.gameLog) - m.cfg.MaxLogLines; overflow > 0 {
		m.gameLog = m.gameLog[overflow:]
	}
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.initialized = true

	case EventMsg:
		m.handleEvent(msg.Event)

	case HandFinishedMsg:
		m.betweenHands = true
		m.awaitingAction = false
		m.refresh()
		m.actionInput.Placeholder = "Enter for next hand, 'quit' to exit"

	case GameOverMsg:
		m.gameOver = true
		m.betweenHands = false
		m.refresh()
		m.appendLog(winnerStyle.Render("Game over — no opponents left with chips"))
		m.actionInput.Placeholder = "'quit' to exit"

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			if cmd := m.processInput(); cmd != nil {
				return m, cmd
			}
			m.actionInput.SetValue("")
		}
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(event game.Event) {
	m.refresh()

	switch e := event.(type) {
	case game.HandStartEvent:
		m.betweenHands = false
		m.actionInput.Placeholder = "call, raise, fold"
	case game.AwaitingActionEvent:
		if e.Seat == m.cfg.HumanSeat {
			m.awaitingAction = true
			m.toCall = e.ToCall
		}
	case game.SeatActedEvent:
		if e.Seat == m.cfg.HumanSeat {
			m.awaitingAction = false
		}
	}

	if line := formatEvent(event, m.cfg.HumanSeat); line != "" {
		m.appendLog(line)
	}
}

// processInput interprets the input line. Returning a non-nil command
// short-circuits the update (quit); otherwise the input field is cleared
// by the caller.
func (m *Model) processInput() tea.Cmd {
	input := strings.ToLower(strings.TrimSpace(m.actionInput.Value()))

	switch input {
	case "quit", "exit", "q":
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)

	case "reveal":
		m.revealAll = !m.revealAll
		m.refresh()
		return nil

	case "":
		if m.betweenHands {
			select {
			case m.next <- struct{}{}:
			default:
			}
		}
		return nil

	case "call", "c":
		m.submit(game.Call)
	case "raise", "r":
		m.submit(game.Raise)
	case "fold", "f":
		m.submit(game.Fold)

	default:
		m.appendLog(errorStyle.Render(fmt.Sprintf("unknown command %q", input)))
	}
	return nil
}

func (m *Model) submit(action game.Action) {
	if err := m.engine.SubmitAction(action); err != nil {
		m.logger.Debug("action rejected", "action", action, "err", err)
		switch err {
		case game.ErrNotAwaitingAction:
			m.appendLog(errorStyle.Render("Not your turn"))
		case game.ErrRaiseInsufficientChips:
			m.appendLog(errorStyle.Render("Not enough chips to raise"))
		default:
			m.appendLog(errorStyle.Render(err.Error()))
		}
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf(" tablestakes — hand #%d — %s ", m.state.HandNum, m.state.Phase))

	tablePane := m.renderTablePane()
	actionPane := m.renderActionPane()
	actionHeight := lipgloss.Height(actionPane) + 2

	sidebarWidth := 34
	logWidth := m.width - sidebarWidth - 4
	logHeight := m.height - actionHeight - lipgloss.Height(header) - 4
	if logWidth < 1 {
		logWidth = 1
	}
	if logHeight < 1 {
		logHeight = 1
	}
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight).
		Render(m.logViewport.View())

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(logHeight).
		Render(tablePane)

	actionBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(m.width - 2).
		Render(actionPane)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, header, topRow, actionBox)
}

func (m *Model) renderTablePane() string {
	var b strings.Builder

	b.WriteString(potStyle.Render(fmt.Sprintf("Pot: $%d", m.state.Pot)))
	if m.state.CurrentBet > 0 && m.state.InProgress {
		b.WriteString(potStyle.Render(fmt.Sprintf("  Bet: $%d", m.state.CurrentBet)))
	}
	b.WriteString("\n")
	if len(m.state.Community) > 0 {
		b.WriteString("Board: " + formatCards(m.state.Community))
	} else {
		b.WriteString("Board: —")
	}
	b.WriteString("\n\n")

	for _, seat := range m.state.Seats {
		marker := "  "
		if seat.IsTurn {
			marker = turnStyle.Render("▸ ")
		} else if seat.IsDealer {
			marker = "D "
		}

		cards := ""
		if len(seat.Hole) > 0 {
			cards = " " + formatCards(seat.Hole)
		} else if len(seat.HoleCards) > 0 {
			cards = " [" + strings.Join(seat.HoleCards, " ") + "]"
		}

		line := fmt.Sprintf("%s%s  $%d%s  %s", marker, seat.Name, seat.Chips, cards, seat.Status)
		if seat.Folded {
			line = foldedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	switch {
	case m.gameOver:
		b.WriteString(winnerStyle.Render("Game over"))
	case m.awaitingAction:
		b.WriteString(actionsStyle.Render(fmt.Sprintf("Your turn: [call $%d] [raise] [fold]", m.toCall)))
	case m.betweenHands:
		b.WriteString(helpStyle.Render("Hand complete — press Enter to deal the next hand"))
	default:
		b.WriteString(helpStyle.Render("Waiting..."))
	}
	b.WriteString("\n")
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter to submit • 'reveal' toggles cards • Ctrl+C to quit"))

	return b.String()
}
