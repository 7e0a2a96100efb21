package deck

import (
	"errors"
	"testing"

	"github.com/lox/tablestakes/internal/randutil"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(1))

	if d.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.Remaining())
	}

	seen := make(map[Card]bool)
	for {
		card, err := d.Draw()
		if err != nil {
			break
		}
		if seen[card] {
			t.Errorf("duplicate card drawn: %s", card)
		}
		seen[card] = true
	}

	if len(seen) != 52 {
		t.Errorf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestDrawRemovesWithoutReplacement(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(7))

	drawn := make(map[Card]bool)
	for i := 0; i < 20; i++ {
		card, err := d.Draw()
		if err != nil {
			t.Fatalf("unexpected error on draw %d: %v", i, err)
		}
		if drawn[card] {
			t.Fatalf("card %s drawn twice", card)
		}
		drawn[card] = true
	}

	if d.Remaining() != 32 {
		t.Errorf("expected 32 remaining, got %d", d.Remaining())
	}
}

func TestDrawExhausted(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(3))

	for i := 0; i < 52; i++ {
		if _, err := d.Draw(); err != nil {
			t.Fatalf("draw %d failed: %v", i, err)
		}
	}

	_, err := d.Draw()
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	t.Parallel()
	a := New(randutil.New(42))
	b := New(randutil.New(42))

	for i := 0; i < 52; i++ {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("draw %d diverged: %s vs %s", i, ca, cb)
		}
	}
}

func TestResetRestoresFullDeck(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(9))
	for i := 0; i < 13; i++ {
		if _, err := d.Draw(); err != nil {
			t.Fatalf("draw failed: %v", err)
		}
	}

	d.Reset()
	if d.Remaining() != 52 {
		t.Errorf("expected 52 after reset, got %d", d.Remaining())
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Spades, Ace), "A♠"},
		{NewCard(Hearts, Ten), "10♥"},
		{NewCard(Clubs, Two), "2♣"},
		{NewCard(Diamonds, Queen), "Q♦"},
	}

	for _, tt := range tests {
		if got := tt.card.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
