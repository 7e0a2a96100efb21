package game

import "github.com/lox/tablestakes/internal/deck"

// SeatState is the read-only view of a seat exposed to display adapters.
// Hole cards are masked unless the viewer owns the seat or the adapter has
// set the reveal option.
type SeatState struct {
	Index      int         `json:"index"`
	Name       string      `json:"name"`
	Human      bool        `json:"human"`
	Chips      int         `json:"chips"`
	Folded     bool        `json:"folded"`
	LastAction string      `json:"lastAction"`
	Status     string      `json:"status"`
	Hole       []deck.Card `json:"-"`
	HoleCards  []string    `json:"holeCards"`
	IsTurn     bool        `json:"isTurn"`
	IsDealer   bool        `json:"isDealer"`
}

// TableState is the read-only snapshot handed to display adapters and, in
// reduced form, to the AI strategy.
type TableState struct {
	HandNum    int         `json:"handNum"`
	Phase      string      `json:"phase"`
	Pot        int         `json:"pot"`
	CurrentBet int         `json:"currentBet"`
	Community  []deck.Card `json:"-"`
	Board      []string    `json:"board"`
	Seats      []SeatState `json:"seats"`
	Turn       int         `json:"turn"`
	InProgress bool        `json:"inProgress"`
}

// SnapshotOption adjusts visibility of a snapshot.
type SnapshotOption func(*snapshotOpts)

type snapshotOpts struct {
	viewer int
	reveal bool
}

// ForSeat marks the snapshot as taken on behalf of the given seat, making
// that seat's own hole cards visible.
func ForSeat(index int) SnapshotOption {
	return func(o *snapshotOpts) { o.viewer = index }
}

// RevealAll exposes every seat's hole cards. Spectator/debug mode only.
func RevealAll() SnapshotOption {
	return func(o *snapshotOpts) { o.reveal = true }
}

// Snapshot produces a read-only copy of the current table state. Safe to
// call from any goroutine.
func (e *Engine) Snapshot(opts ...SnapshotOption) TableState {
	o := snapshotOpts{viewer: -1}
	for _, opt := range opts {
		opt(&o)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ts := TableState{
		HandNum:    e.handNum,
		Phase:      e.phase.String(),
		Pot:        e.pot,
		CurrentBet: e.currentBet,
		Community:  append([]deck.Card(nil), e.community...),
		Turn:       e.turn,
		InProgress: e.inProgress,
	}
	for _, c := range ts.Community {
		ts.Board = append(ts.Board, c.String())
	}

	for _, s := range e.seats {
		visible := o.reveal || s.Index == o.viewer
		ss := SeatState{
			Index:      s.Index,
			Name:       s.Name,
			Human:      s.Human,
			Chips:      s.Chips,
			Folded:     s.Folded,
			LastAction: s.LastAction.String(),
			Status:     s.Status(),
			IsTurn:     e.turn == s.Index && e.inProgress,
			IsDealer:   e.dealer == s.Index,
		}
		for _, c := range s.Hole {
			if visible {
				ss.Hole = append(ss.Hole, c)
				ss.HoleCards = append(ss.HoleCards, c.String())
			} else {
				ss.HoleCards = append(ss.HoleCards, "??")
			}
		}
		ts.Seats = append(ts.Seats, ss)
	}

	return ts
}
