package game

import (
	"time"

	"github.com/lox/tablestakes/internal/deck"
)

// EventType identifies a game event
type EventType string

const (
	EventTypeHandStart      EventType = "hand_start"
	EventTypeBlindPosted    EventType = "blind_posted"
	EventTypeHoleCardDealt  EventType = "hole_card_dealt"
	EventTypeStreetDealt    EventType = "street_dealt"
	EventTypeAwaitingAction EventType = "awaiting_action"
	EventTypeSeatActed      EventType = "seat_acted"
	EventTypeHandEnd        EventType = "hand_end"
)

// Event is a game domain event published to observers after a state
// mutation.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// Observer receives game events. Implementations re-render from Snapshot
// and must not call back into the engine from OnEvent.
type Observer interface {
	OnEvent(event Event)
}

type eventStamp struct {
	at time.Time
}

func stamp() eventStamp {
	return eventStamp{at: time.Now()}
}

func (e eventStamp) Timestamp() time.Time { return e.at }

// HandStartEvent is published once blinds are set and before cards are
// dealt.
type HandStartEvent struct {
	eventStamp
	HandNum    int
	Dealer     int
	DealerName string
	SmallBlind int
	BigBlind   int
}

func (HandStartEvent) EventType() EventType { return EventTypeHandStart }

// BlindPostedEvent is published when a blind is deducted into the pot.
type BlindPostedEvent struct {
	eventStamp
	Seat     int
	SeatName string
	Amount   int
	Big      bool
}

func (BlindPostedEvent) EventType() EventType { return EventTypeBlindPosted }

// HoleCardDealtEvent is published per hole card. The card itself is only
// populated for human seats; adapters mask everything else.
type HoleCardDealtEvent struct {
	eventStamp
	Seat     int
	SeatName string
	Card     deck.Card
	Hidden   bool
}

func (HoleCardDealtEvent) EventType() EventType { return EventTypeHoleCardDealt }

// StreetDealtEvent is published after community cards for a new street hit
// the board.
type StreetDealtEvent struct {
	eventStamp
	Phase Phase
	Cards []deck.Card
	Board []deck.Card
}

func (StreetDealtEvent) EventType() EventType { return EventTypeStreetDealt }

// AwaitingActionEvent is published when the engine suspends for the human
// seat's decision.
type AwaitingActionEvent struct {
	eventStamp
	Seat     int
	SeatName string
	ToCall   int
}

func (AwaitingActionEvent) EventType() EventType { return EventTypeAwaitingAction }

// SeatActedEvent is published after an action has been applied.
type SeatActedEvent struct {
	eventStamp
	Seat     int
	SeatName string
	Action   Action
	Amount   int
	Pot      int
	TimedOut bool
}

func (SeatActedEvent) EventType() EventType { return EventTypeSeatActed }

// WinnerInfo describes one winner of the pot.
type WinnerInfo struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
	HandRank string `json:"handRank,omitempty"`
}

// HandEndEvent is published when the pot has been paid out and the hand is
// over.
type HandEndEvent struct {
	eventStamp
	HandNum   int
	Winners   []WinnerInfo
	Pot       int
	ByFold    bool
	Board     []deck.Card
	Abandoned bool
}

func (HandEndEvent) EventType() EventType { return EventTypeHandEnd }
