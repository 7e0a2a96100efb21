// Package evaluator ranks 5-7 card poker hands into one of ten categories.
//
// Evaluation is a pure function over the cards passed in: both the AI
// strategy and the showdown use it, and repeated calls always return the
// same result. Comparison is by category first, then by the category's
// fixed strength constant. Two hands of the same category therefore always
// tie, even when kickers would separate them in standard hold'em; see the
// known-limitation tests before "fixing" this.
package evaluator

import (
	"sort"

	"github.com/lox/tablestakes/internal/deck"
)

// Rank is an ordered hand category. Higher categories beat lower ones
// outright regardless of strength.
type Rank int

const (
	HighCard Rank = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category label
func (r Rank) String() string {
	switch r {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Strength returns the fixed strength constant for the category, in
// [0.5, 1.0]. The AI thresholds in the strategy package are calibrated
// against these exact values.
func (r Rank) Strength() float64 {
	switch r {
	case RoyalFlush:
		return 1.0
	case StraightFlush:
		return 0.95
	case FourOfAKind:
		return 0.9
	case FullHouse:
		return 0.85
	case Flush:
		return 0.8
	case Straight:
		return 0.75
	case ThreeOfAKind:
		return 0.7
	case TwoPair:
		return 0.65
	case OnePair:
		return 0.6
	default:
		return 0.5
	}
}

// Evaluation is the result of ranking a hand.
type Evaluation struct {
	Rank        Rank
	Strength    float64
	Description string
}

// Compare orders two evaluations: 1 if a wins, -1 if b wins, 0 for a tie.
// Category decides first; strength only separates within a category.
func Compare(a, b Evaluation) int {
	if a.Rank != b.Rank {
		if a.Rank > b.Rank {
			return 1
		}
		return -1
	}
	if a.Strength != b.Strength {
		if a.Strength > b.Strength {
			return 1
		}
		return -1
	}
	return 0
}

// Evaluate ranks the best category present in the union of hole and
// community cards (5-7 cards). Checks run from strongest to weakest and
// the first match wins.
func Evaluate(hole, community []deck.Card) Evaluation {
	cards := make([]deck.Card, 0, len(hole)+len(community))
	cards = append(cards, hole...)
	cards = append(cards, community...)

	flush := hasFlush(cards)
	straight := hasStraight(cards)
	counts := countRanks(cards)

	switch {
	case flush && straight && isRoyal(cards):
		return eval(RoyalFlush)
	case flush && straight:
		return eval(StraightFlush)
	case hasNOfAKind(counts, 4):
		return eval(FourOfAKind)
	case hasFullHouse(counts):
		return eval(FullHouse)
	case flush:
		return eval(Flush)
	case straight:
		return eval(Straight)
	case hasNOfAKind(counts, 3):
		return eval(ThreeOfAKind)
	case hasTwoPair(counts):
		return eval(TwoPair)
	case hasNOfAKind(counts, 2):
		return eval(OnePair)
	default:
		return eval(HighCard)
	}
}

func eval(r Rank) Evaluation {
	return Evaluation{Rank: r, Strength: r.Strength(), Description: r.String()}
}

// hasFlush reports whether any suit appears five or more times.
func hasFlush(cards []deck.Card) bool {
	var suitCounts [4]int
	for _, c := range cards {
		suitCounts[c.Suit]++
	}
	for _, n := range suitCounts {
		if n >= 5 {
			return true
		}
	}
	return false
}

// hasStraight reports whether five consecutive rank values appear among
// the deduplicated ranks, including the ace-low A-2-3-4-5 case.
func hasStraight(cards []deck.Card) bool {
	unique := uniqueRankValues(cards)

	for i := 0; i+4 < len(unique); i++ {
		if unique[i+4]-unique[i] == 4 {
			return true
		}
	}

	// Ace-low straight: ace counts high (14) everywhere else, so it sits at
	// the end of the sorted uniques while 2-3-4-5 sit at the front.
	if len(unique) >= 5 && unique[len(unique)-1] == int(deck.Ace) {
		return unique[0] == 2 && unique[1] == 3 && unique[2] == 4 && unique[3] == 5
	}
	return false
}

// isRoyal reports whether the ranks collectively include 10, J, Q, K, A.
func isRoyal(cards []deck.Card) bool {
	present := make(map[deck.Rank]bool, len(cards))
	for _, c := range cards {
		present[c.Rank] = true
	}
	for _, r := range []deck.Rank{deck.Ten, deck.Jack, deck.Queen, deck.King, deck.Ace} {
		if !present[r] {
			return false
		}
	}
	return true
}

func countRanks(cards []deck.Card) map[deck.Rank]int {
	counts := make(map[deck.Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}

func hasNOfAKind(counts map[deck.Rank]int, n int) bool {
	for _, count := range counts {
		if count == n {
			return true
		}
	}
	return false
}

func hasFullHouse(counts map[deck.Rank]int) bool {
	var hasTrips, hasPair bool
	for _, count := range counts {
		switch count {
		case 3:
			hasTrips = true
		case 2:
			hasPair = true
		}
	}
	return hasTrips && hasPair
}

func hasTwoPair(counts map[deck.Rank]int) bool {
	pairs := 0
	for _, count := range counts {
		if count == 2 {
			pairs++
		}
	}
	return pairs >= 2
}

func uniqueRankValues(cards []deck.Card) []int {
	seen := make(map[int]bool, len(cards))
	values := make([]int, 0, len(cards))
	for _, c := range cards {
		v := c.Rank.Value()
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Ints(values)
	return values
}
