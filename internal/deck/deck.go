package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrExhausted is returned by Draw when no cards remain. A correctly sized
// hand never exhausts the deck, so callers treat this as an invariant
// failure of the dealing step rather than a normal outcome.
var ErrExhausted = errors.New("deck: no cards remaining")

// Deck is an ordered sequence of the 52 distinct cards. The random source
// is injected so shuffles are reproducible under a fixed seed.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a freshly shuffled 52-card deck using the provided RNG.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	d.fill()
	d.shuffle()
	return d
}

func (d *Deck) fill() {
	for suit := Spades; suit <= Diamonds; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// shuffle applies a uniform Fisher-Yates permutation.
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the last card in the deck.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrExhausted
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Reset restores the deck to a full 52 cards and reshuffles.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	d.fill()
	d.shuffle()
}
