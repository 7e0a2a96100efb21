package game

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tablestakes/internal/deck"
	"github.com/lox/tablestakes/internal/evaluator"
	"github.com/lox/tablestakes/internal/randutil"
)

var (
	// ErrHandInProgress is returned by PlayHand while a hand is running.
	ErrHandInProgress = errors.New("game: hand already in progress")

	// ErrNotAwaitingAction is returned by SubmitAction when no human
	// decision is pending: out of turn, already folded, or no hand running.
	ErrNotAwaitingAction = errors.New("game: not awaiting an action")

	// ErrRaiseInsufficientChips is returned when a raise cannot exceed the
	// current bet. The seat keeps its turn and no state changes.
	ErrRaiseInsufficientChips = errors.New("game: insufficient chips to raise")

	// ErrInvalidAction is returned for action values outside call/raise/fold.
	ErrInvalidAction = errors.New("game: invalid action")

	// ErrNoActionableSeat indicates the turn pointer made a full lap without
	// finding a seat that can act while the round was still incomplete. This
	// only happens if the round-completion check is stale, so it is treated
	// as an internal error rather than retried.
	ErrNoActionableSeat = errors.New("game: no seat can act")
)

// SeatConfig describes one seat at the table.
type SeatConfig struct {
	Name  string
	Human bool
}

// Config is the engine's configuration surface.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingChips int

	// ActionTimeout bounds how long the engine waits for a human decision
	// before folding the seat. Zero waits indefinitely.
	ActionTimeout time.Duration

	Seats []SeatConfig
}

// DefaultConfig returns the reference table: one human and three AI seats,
// 1000 chip stacks, 25/50 blinds.
func DefaultConfig() Config {
	return Config{
		SmallBlind:    25,
		BigBlind:      50,
		StartingChips: 1000,
		Seats: []SeatConfig{
			{Name: "You", Human: true},
			{Name: "AI 1"},
			{Name: "AI 2"},
			{Name: "AI 3"},
		},
	}
}

// HandResult summarises a completed hand.
type HandResult struct {
	HandNum int
	Winners []WinnerInfo
	Pot     int
	ByFold  bool
}

// Engine owns all mutable table state and drives the betting state
// machine. Construct it first and hand read-only references to adapters.
type Engine struct {
	mu sync.Mutex

	cfg      Config
	logger   *log.Logger
	rng      *rand.Rand
	clock    quartz.Clock
	strategy Strategy

	observers []Observer

	seats      []*Seat
	deck       *deck.Deck
	community  []deck.Card
	pot        int
	currentBet int
	phase      Phase
	turn       int
	dealer     int
	handNum    int
	inProgress bool
	totalChips int

	// pending is the one-shot channel the current human suspension waits
	// on; SubmitAction resolves it. Nil when no decision is pending.
	pending     chan Action
	pendingSeat int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRNG injects the random source used for shuffling, dealer selection
// and (by default) AI bluffing.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock injects the clock used for action timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithStrategy overrides the decision policy used for AI seats.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// New creates an engine for the configured table. At least three seats are
// required so the dealer, small blind and big blind are distinct.
func New(cfg Config, logger *log.Logger, opts ...Option) (*Engine, error) {
	if len(cfg.Seats) < 3 {
		return nil, fmt.Errorf("game: need at least 3 seats, got %d", len(cfg.Seats))
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= cfg.SmallBlind {
		return nil, fmt.Errorf("game: invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}

	e := &Engine{
		cfg:    cfg,
		logger: logger,
		phase:  Ended,
		turn:   -1,
		dealer: -1,
	}
	for i, sc := range cfg.Seats {
		e.seats = append(e.seats, &Seat{
			Index: i,
			Name:  sc.Name,
			Human: sc.Human,
			Chips: cfg.StartingChips,
		})
	}
	e.totalChips = cfg.StartingChips * len(cfg.Seats)

	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.New(time.Now().UnixNano())
	}
	if e.clock == nil {
		e.clock = quartz.NewReal()
	}
	if e.strategy == nil {
		e.strategy = NewPhaseStrategy(e.rng)
	}

	return e, nil
}

// AddObserver registers a display adapter for synchronous event
// notifications.
func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// publish delivers an event to every observer. Never called with the state
// lock held, so observers are free to take snapshots.
func (e *Engine) publish(event Event) {
	e.mu.Lock()
	observers := append([]Observer(nil), e.observers...)
	e.mu.Unlock()
	for _, o := range observers {
		o.OnEvent(event)
	}
}

// PlayHand runs one complete hand to its end and returns the result. It is
// rejected with ErrHandInProgress while another hand runs. Cancelling the
// context abandons the hand between mutations and forces the phase to
// Ended.
func (e *Engine) PlayHand(ctx context.Context) (*HandResult, error) {
	e.mu.Lock()
	if e.inProgress {
		e.mu.Unlock()
		return nil, ErrHandInProgress
	}
	e.inProgress = true
	e.mu.Unlock()

	result, err := e.playHand(ctx)

	e.mu.Lock()
	e.phase = Ended
	e.inProgress = false
	e.turn = -1
	e.pending = nil
	e.mu.Unlock()

	return result, err
}

func (e *Engine) playHand(ctx context.Context) (*HandResult, error) {
	e.startHand()

	for {
		if err := ctx.Err(); err != nil {
			e.abandon()
			return nil, err
		}

		if err := e.bettingRound(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				e.abandon()
			}
			return nil, err
		}

		// Single-survivor short-circuit: no card comparison needed.
		if len(e.survivors()) == 1 {
			return e.showdown()
		}

		switch e.currentPhase() {
		case PreFlop:
			e.dealStreet(Flop, 3)
		case Flop:
			e.dealStreet(Turn, 1)
		case Turn:
			e.dealStreet(River, 1)
		case River:
			return e.showdown()
		}

		// Action for the new street starts one seat past wherever the
		// pointer ended up; the betting loop skips ineligible seats.
		e.mu.Lock()
		e.turn = (e.turn + 1) % len(e.seats)
		e.mu.Unlock()
	}
}

// startHand resets transient seat state, builds a fresh shuffled deck,
// picks a dealer at random and posts the blinds.
func (e *Engine) startHand() {
	e.mu.Lock()
	e.handNum++
	for _, s := range e.seats {
		s.resetForHand()
	}
	e.deck = deck.New(e.rng)
	e.community = e.community[:0]
	e.pot = 0
	e.phase = PreFlop

	n := len(e.seats)
	e.dealer = e.rng.IntN(n)
	sb := (e.dealer + 1) % n
	bb := (e.dealer + 2) % n

	sbAmount := min(e.cfg.SmallBlind, e.seats[sb].Chips)
	bbAmount := min(e.cfg.BigBlind, e.seats[bb].Chips)
	e.seats[sb].Chips -= sbAmount
	e.seats[bb].Chips -= bbAmount
	e.pot += sbAmount + bbAmount
	e.currentBet = e.cfg.BigBlind

	// First to act sits immediately clockwise of the big blind.
	e.turn = (bb + 1) % n

	handNum, dealer := e.handNum, e.dealer
	dealerName := e.seats[e.dealer].Name
	sbSeat, bbSeat := e.seats[sb], e.seats[bb]
	e.mu.Unlock()

	e.logger.Info("hand started",
		"hand", handNum,
		"dealer", dealerName,
		"smallBlind", sbAmount,
		"bigBlind", bbAmount)

	e.publish(HandStartEvent{
		eventStamp: stamp(),
		HandNum:    handNum,
		Dealer:     dealer,
		DealerName: dealerName,
		SmallBlind: e.cfg.SmallBlind,
		BigBlind:   e.cfg.BigBlind,
	})
	e.publish(BlindPostedEvent{eventStamp: stamp(), Seat: sbSeat.Index, SeatName: sbSeat.Name, Amount: sbAmount})
	e.publish(BlindPostedEvent{eventStamp: stamp(), Seat: bbSeat.Index, SeatName: bbSeat.Name, Amount: bbAmount, Big: true})

	e.dealHoleCards()
}

// dealHoleCards deals two cards per seat, one card per seat per round,
// starting clockwise of the dealer.
func (e *Engine) dealHoleCards() {
	n := len(e.seats)
	for round := 0; round < 2; round++ {
		for i := 0; i < n; i++ {
			seat := e.seats[(e.dealer+1+i)%n]

			e.mu.Lock()
			card, err := e.deck.Draw()
			if err != nil {
				e.mu.Unlock()
				// Cannot happen with 52 cards and a correctly sized table;
				// abort the dealing step rather than crash.
				e.logger.Error("deck exhausted dealing hole cards", "seat", seat.Name, "err", err)
				return
			}
			seat.Hole = append(seat.Hole, card)
			e.mu.Unlock()

			event := HoleCardDealtEvent{eventStamp: stamp(), Seat: seat.Index, SeatName: seat.Name, Hidden: !seat.Human}
			if seat.Human {
				event.Card = card
			}
			e.publish(event)
		}
	}
}

// dealStreet advances the phase and deals its community cards.
func (e *Engine) dealStreet(next Phase, count int) {
	e.mu.Lock()
	e.phase = next
	dealt := make([]deck.Card, 0, count)
	for i := 0; i < count; i++ {
		card, err := e.deck.Draw()
		if err != nil {
			e.logger.Error("deck exhausted dealing community cards", "phase", next, "err", err)
			break
		}
		e.community = append(e.community, card)
		dealt = append(dealt, card)
	}
	board := append([]deck.Card(nil), e.community...)
	e.mu.Unlock()

	e.logger.Debug("street dealt", "phase", next, "board", board)
	e.publish(StreetDealtEvent{eventStamp: stamp(), Phase: next, Cards: dealt, Board: board})
}

// bettingRound runs one full round: every seat that is neither folded nor
// chip-less gets exactly one action.
func (e *Engine) bettingRound(ctx context.Context) error {
	e.mu.Lock()
	for _, s := range e.seats {
		s.Acted = false
	}
	e.mu.Unlock()

	for {
		// Hand over early: with one survivor no further action is asked of
		// anyone, including the survivor.
		if len(e.survivors()) <= 1 {
			return nil
		}
		if e.allActed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		e.mu.Lock()
		seat := e.seats[e.turn]
		eligible := !seat.Acted && seat.CanAct()
		e.mu.Unlock()

		if eligible {
			if seat.Human {
				if err := e.awaitHumanAction(ctx, seat); err != nil {
					return err
				}
			} else {
				e.playAITurn(seat)
			}
		}

		if err := e.advanceTurn(); err != nil {
			if e.allActed() || len(e.survivors()) <= 1 {
				return nil
			}
			e.logger.Error("turn advancement stalled", "err", err)
			return err
		}
	}
}

// allActed reports round completion: every seat is folded, chip-less or
// has acted.
func (e *Engine) allActed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.seats {
		if s.CanAct() && !s.Acted {
			return false
		}
	}
	return true
}

// advanceTurn moves the pointer to the next seat able to act, skipping
// folded and chip-less seats. The number of skips is bounded by one lap.
func (e *Engine) advanceTurn() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.seats)
	for attempts := 1; attempts <= n; attempts++ {
		idx := (e.turn + attempts) % n
		if e.seats[idx].CanAct() {
			e.turn = idx
			return nil
		}
	}
	return ErrNoActionableSeat
}

// awaitHumanAction suspends the hand until SubmitAction delivers a
// decision, the optional timeout folds the seat, or the hand is abandoned.
func (e *Engine) awaitHumanAction(ctx context.Context, seat *Seat) error {
	ch := make(chan Action, 1)

	e.mu.Lock()
	e.pending = ch
	e.pendingSeat = seat.Index
	toCall := e.currentBet
	e.mu.Unlock()

	// Arm the timeout before announcing the turn so that observers reacting
	// to the event always race against a live timer.
	var timeout chan struct{}
	if e.cfg.ActionTimeout > 0 {
		timeout = make(chan struct{})
		timer := e.clock.AfterFunc(e.cfg.ActionTimeout, func() {
			close(timeout)
		})
		defer timer.Stop()
	}

	e.publish(AwaitingActionEvent{eventStamp: stamp(), Seat: seat.Index, SeatName: seat.Name, ToCall: toCall})

	var action Action
	timedOut := false
	select {
	case action = <-ch:
	case <-timeout:
		action = Fold
		timedOut = true
		e.logger.Warn("action timed out, folding", "seat", seat.Name)
	case <-ctx.Done():
		e.clearPending()
		return ctx.Err()
	}
	e.clearPending()

	if err := e.applyAction(seat, action, timedOut); err != nil {
		// SubmitAction validates before resolving, so this is unreachable;
		// fold rather than wedge the round.
		e.logger.Error("submitted action failed to apply", "seat", seat.Name, "err", err)
		return e.applyAction(seat, Fold, false)
	}
	return nil
}

func (e *Engine) clearPending() {
	e.mu.Lock()
	e.pending = nil
	e.mu.Unlock()
}

// SubmitAction delivers the human seat's decision for the pending turn.
// It is a no-op with an error when no decision is pending or when the
// action is invalid; a rejected raise leaves the seat waiting so the
// caller can choose again.
func (e *Engine) SubmitAction(action Action) error {
	e.mu.Lock()
	if e.pending == nil {
		e.mu.Unlock()
		return ErrNotAwaitingAction
	}
	seat := e.seats[e.pendingSeat]

	switch action {
	case Call, Fold:
	case Raise:
		if min(e.currentBet*2, seat.Chips) <= e.currentBet {
			e.mu.Unlock()
			return ErrRaiseInsufficientChips
		}
	default:
		e.mu.Unlock()
		return ErrInvalidAction
	}

	ch := e.pending
	e.pending = nil
	e.mu.Unlock()

	ch <- action
	return nil
}

// playAITurn asks the strategy for a decision and applies it. A rejected
// raise falls back to a call, which is always applicable because calls cap
// at the seat's remaining chips.
func (e *Engine) playAITurn(seat *Seat) {
	e.mu.Lock()
	state := GameState{
		Community:  append([]deck.Card(nil), e.community...),
		CurrentBet: e.currentBet,
		Pot:        e.pot,
		Phase:      e.phase,
	}
	hole := append([]deck.Card(nil), seat.Hole...)
	chips := seat.Chips
	e.mu.Unlock()

	action := e.strategy.Decide(hole, chips, state)
	if err := e.applyAction(seat, action, false); err != nil {
		e.logger.Warn("ai action rejected, calling instead", "seat", seat.Name, "action", action, "err", err)
		_ = e.applyAction(seat, Call, false)
	}
}

// applyAction mutates seat/pot/bet state for one action. Rejections leave
// all state untouched.
func (e *Engine) applyAction(seat *Seat, action Action, timedOut bool) error {
	e.mu.Lock()
	var amount int
	switch action {
	case Call:
		amount = min(e.currentBet, seat.Chips)
		if amount < e.currentBet {
			seat.LastAction = AllIn
		} else {
			seat.LastAction = Call
		}
		seat.Chips -= amount
		e.pot += amount
	case Raise:
		newBet := min(e.currentBet*2, seat.Chips)
		if newBet <= e.currentBet {
			e.mu.Unlock()
			return ErrRaiseInsufficientChips
		}
		seat.Chips -= newBet
		e.pot += newBet
		e.currentBet = newBet
		seat.LastAction = Raise
		amount = newBet
	case Fold:
		seat.Folded = true
		seat.LastAction = Fold
	default:
		e.mu.Unlock()
		return ErrInvalidAction
	}
	seat.Acted = true
	applied := seat.LastAction
	pot := e.pot
	e.mu.Unlock()

	e.logger.Debug("seat acted", "seat", seat.Name, "action", applied, "amount", amount, "pot", pot)
	e.publish(SeatActedEvent{
		eventStamp: stamp(),
		Seat:       seat.Index,
		SeatName:   seat.Name,
		Action:     applied,
		Amount:     amount,
		Pot:        pot,
		TimedOut:   timedOut,
	})
	return nil
}

// survivors returns the non-folded seats in seat order.
func (e *Engine) survivors() []*Seat {
	e.mu.Lock()
	defer e.mu.Unlock()
	var active []*Seat
	for _, s := range e.seats {
		if !s.Folded {
			active = append(active, s)
		}
	}
	return active
}

func (e *Engine) currentPhase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// showdown ranks the remaining hands, pays out the pot and ends the hand.
// With a single survivor the pot is awarded without card comparison. Ties
// split the pot by integer division with any remainder credited to the
// first winner in evaluation order.
func (e *Engine) showdown() (*HandResult, error) {
	e.mu.Lock()
	e.phase = Showdown

	var active []*Seat
	for _, s := range e.seats {
		if !s.Folded {
			active = append(active, s)
		}
	}

	pot := e.pot
	var winners []WinnerInfo
	byFold := false

	if len(active) == 1 {
		byFold = true
		w := active[0]
		w.Chips += pot
		winners = append(winners, WinnerInfo{Seat: w.Index, Name: w.Name, Amount: pot})
	} else {
		var best evaluator.Evaluation
		var bestSeats []*Seat
		for _, s := range active {
			ev := evaluator.Evaluate(s.Hole, e.community)
			switch {
			case len(bestSeats) == 0 || evaluator.Compare(ev, best) > 0:
				best = ev
				bestSeats = []*Seat{s}
			case evaluator.Compare(ev, best) == 0:
				bestSeats = append(bestSeats, s)
			}
		}

		share := pot / len(bestSeats)
		remainder := pot % len(bestSeats)
		for i, s := range bestSeats {
			amount := share
			if i == 0 {
				amount += remainder
			}
			s.Chips += amount
			winners = append(winners, WinnerInfo{Seat: s.Index, Name: s.Name, Amount: amount, HandRank: best.Description})
		}
	}

	e.pot = 0
	handNum := e.handNum
	board := append([]deck.Card(nil), e.community...)
	e.mu.Unlock()

	if err := e.validateChipConservation(); err != nil {
		e.logger.Error("chip conservation violated", "err", err)
		return nil, err
	}

	e.logger.Info("hand complete", "hand", handNum, "pot", pot, "winners", len(winners), "byFold", byFold)
	e.publish(HandEndEvent{
		eventStamp: stamp(),
		HandNum:    handNum,
		Winners:    winners,
		Pot:        pot,
		ByFold:     byFold,
		Board:      board,
	})

	return &HandResult{HandNum: handNum, Winners: winners, Pot: pot, ByFold: byFold}, nil
}

// abandon ends the hand immediately without payout accounting beyond
// returning nothing: the hand is voided and the phase forced to Ended by
// PlayHand. Observers are told so they can re-render.
func (e *Engine) abandon() {
	e.mu.Lock()
	handNum := e.handNum
	e.phase = Ended
	e.mu.Unlock()

	e.logger.Warn("hand abandoned", "hand", handNum)
	e.publish(HandEndEvent{eventStamp: stamp(), HandNum: handNum, Abandoned: true})
}

// validateChipConservation checks that no chips were created or destroyed:
// the pot plus all stacks must equal the table's starting total.
func (e *Engine) validateChipConservation() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := e.pot
	for _, s := range e.seats {
		total += s.Chips
	}
	if total != e.totalChips {
		return fmt.Errorf("game: chip total %d != expected %d", total, e.totalChips)
	}
	return nil
}
