package game

import (
	rand "math/rand/v2"

	"github.com/lox/tablestakes/internal/deck"
	"github.com/lox/tablestakes/internal/evaluator"
)

// GameState is the reduced snapshot handed to a Strategy: exactly what an
// opponent could legitimately know, plus nothing that survives between
// calls.
type GameState struct {
	Community  []deck.Card
	CurrentBet int
	Pot        int
	Phase      Phase
}

// Strategy decides an action for an AI seat from its hole cards, its chip
// stack and the public game state. Implementations are pure apart from
// their own injected randomness and never retain references to their
// arguments.
type Strategy interface {
	Decide(hole []deck.Card, chips int, state GameState) Action
}

// bluffProbability is the chance a phase-aware AI ignores its hand
// strength entirely on post-flop streets.
const bluffProbability = 0.10

// PhaseStrategy is the canonical decision policy: a stochastic bluff
// component, a dedicated pre-flop policy, and the general strength/pot-odds
// policy on later streets.
type PhaseStrategy struct {
	rng *rand.Rand
}

// NewPhaseStrategy creates a phase-aware strategy with the given RNG. The
// RNG drives the bluff rolls only; pass a seeded source for deterministic
// play.
func NewPhaseStrategy(rng *rand.Rand) *PhaseStrategy {
	return &PhaseStrategy{rng: rng}
}

// Decide picks Call, Raise or Fold for the seat.
func (s *PhaseStrategy) Decide(hole []deck.Card, chips int, state GameState) Action {
	// A bluff never folds: it calls or raises with equal probability.
	if state.Phase != PreFlop && s.rng.Float64() < bluffProbability {
		if s.rng.Float64() < 0.5 {
			return Call
		}
		return Raise
	}

	ev := evaluator.Evaluate(hole, state.Community)

	if state.Phase == PreFlop {
		if ev.Strength > 0.8 {
			if chips > 3*state.CurrentBet {
				return Raise
			}
			return Call
		}
		if chips > state.CurrentBet {
			return Call
		}
		return Fold
	}

	return generalPolicy(ev.Strength, chips, state)
}

// BasicStrategy is the fallback policy for contexts without phase
// information: the general policy applied on every street, no bluffing.
type BasicStrategy struct{}

// Decide picks Call, Raise or Fold for the seat.
func (BasicStrategy) Decide(hole []deck.Card, chips int, state GameState) Action {
	ev := evaluator.Evaluate(hole, state.Community)
	return generalPolicy(ev.Strength, chips, state)
}

// generalPolicy turns hand strength, pot odds and the chip ratio into an
// action. Fold is the default when nothing else justifies continuing.
func generalPolicy(strength float64, chips int, state GameState) Action {
	potOdds := float64(state.CurrentBet) / float64(state.Pot+state.CurrentBet)
	chipRatio := float64(chips) / float64(state.Pot+state.CurrentBet)

	switch {
	case strength < 0.3 || chips < state.CurrentBet:
		return Fold
	case strength > 0.7 && chips > 2*state.CurrentBet && state.Pot > 100:
		return Raise
	case strength > potOdds && chipRatio > 0.5:
		return Call
	default:
		return Fold
	}
}
