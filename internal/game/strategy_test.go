package game

import (
	"testing"

	"github.com/lox/tablestakes/internal/deck"
	"github.com/lox/tablestakes/internal/randutil"
)

func cards(cs ...deck.Card) []deck.Card { return cs }

var junkHole = cards(
	deck.NewCard(deck.Hearts, deck.Two),
	deck.NewCard(deck.Clubs, deck.Seven),
)

var dryBoard = cards(
	deck.NewCard(deck.Spades, deck.Nine),
	deck.NewCard(deck.Diamonds, deck.Jack),
	deck.NewCard(deck.Clubs, deck.Four),
)

func TestBasicStrategyFoldsWhenShortOfTheBet(t *testing.T) {
	state := GameState{Community: dryBoard, CurrentBet: 50, Pot: 200, Phase: Flop}
	if got := (BasicStrategy{}).Decide(junkHole, 40, state); got != Fold {
		t.Errorf("decide = %v, want fold", got)
	}
}

func TestBasicStrategyRaisesStrongHandIntoBigPot(t *testing.T) {
	hole := cards(deck.NewCard(deck.Spades, deck.Ace), deck.NewCard(deck.Hearts, deck.Ace))
	board := cards(
		deck.NewCard(deck.Diamonds, deck.Ace),
		deck.NewCard(deck.Clubs, deck.Ace),
		deck.NewCard(deck.Spades, deck.King),
	)
	state := GameState{Community: board, CurrentBet: 50, Pot: 200, Phase: Flop}
	if got := (BasicStrategy{}).Decide(hole, 1000, state); got != Raise {
		t.Errorf("decide = %v, want raise", got)
	}
}

func TestBasicStrategyCallsWithGoodPotOdds(t *testing.T) {
	// High card vs a tiny bet into a big pot: pot odds are well below the
	// hand strength and the stack dwarfs the pot.
	state := GameState{Community: dryBoard, CurrentBet: 50, Pot: 500, Phase: Flop}
	if got := (BasicStrategy{}).Decide(junkHole, 1000, state); got != Call {
		t.Errorf("decide = %v, want call", got)
	}
}

func TestBasicStrategyFoldsOnLowChipRatio(t *testing.T) {
	// Odds favour a call but the stack is nearly gone relative to the pot.
	state := GameState{Community: dryBoard, CurrentBet: 50, Pot: 500, Phase: Flop}
	if got := (BasicStrategy{}).Decide(junkHole, 60, state); got != Fold {
		t.Errorf("decide = %v, want fold", got)
	}
}

func TestPhaseStrategyPreFlopCallsWhenCovered(t *testing.T) {
	s := NewPhaseStrategy(randutil.New(7))
	state := GameState{CurrentBet: 50, Pot: 75, Phase: PreFlop}

	// Two hole cards top out at a pair, so the pre-flop policy reduces to
	// call-when-covered for any holding.
	if got := s.Decide(junkHole, 1000, state); got != Call {
		t.Errorf("decide = %v, want call", got)
	}
	aces := cards(deck.NewCard(deck.Spades, deck.Ace), deck.NewCard(deck.Hearts, deck.Ace))
	if got := s.Decide(aces, 1000, state); got != Call {
		t.Errorf("decide with aces = %v, want call", got)
	}
}

func TestPhaseStrategyPreFlopFoldsWhenShort(t *testing.T) {
	s := NewPhaseStrategy(randutil.New(7))
	state := GameState{CurrentBet: 50, Pot: 75, Phase: PreFlop}
	for i := 0; i < 200; i++ {
		if got := s.Decide(junkHole, 40, state); got != Fold {
			t.Fatalf("iteration %d: decide = %v, want fold (no pre-flop bluffs)", i, got)
		}
	}
}

func TestPhaseStrategyBluffsPostFlop(t *testing.T) {
	s := NewPhaseStrategy(randutil.New(7))
	// A spot the general policy always folds, so any call or raise here is
	// a bluff.
	state := GameState{Community: dryBoard, CurrentBet: 50, Pot: 500, Phase: Flop}

	bluffs := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		switch s.Decide(junkHole, 60, state) {
		case Call, Raise:
			bluffs++
		case Fold:
		default:
			t.Fatal("unexpected action")
		}
	}
	if bluffs < trials/20 || bluffs > trials/5 {
		t.Errorf("bluffed %d/%d times, want roughly 10%%", bluffs, trials)
	}
}
