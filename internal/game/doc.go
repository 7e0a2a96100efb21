// Package game implements a four-seat Texas Hold'em table: dealing, blind
// posting, the four-street betting state machine, showdown and pot
// distribution.
//
// The Engine is the only stateful orchestrator. It owns the deck, the
// seats, the community cards and the pot; the evaluator and the AI
// strategies are pure functions it calls synchronously. A hand runs on a
// single logical thread: PlayHand drives every step in order, and the only
// suspension point is the human seat's turn, which blocks on a one-shot
// channel that SubmitAction resolves.
//
// Display adapters register as Observers and are notified synchronously
// after every state mutation. They re-render from Snapshot and must never
// call back into the engine from inside a notification.
package game
