package game

import "github.com/lox/tablestakes/internal/deck"

// Seat represents a player position at the table. Seats are created once
// per engine; chips persist across hands while the transient per-hand
// fields are reset by resetForHand. All mutation happens through the
// engine's action processing.
type Seat struct {
	Index      int
	Name       string
	Human      bool
	Chips      int
	Hole       []deck.Card
	Folded     bool
	Acted      bool
	LastAction Action
}

// resetForHand clears the per-hand state while leaving chips untouched.
func (s *Seat) resetForHand() {
	s.Hole = s.Hole[:0]
	s.Folded = false
	s.Acted = false
	s.LastAction = None
}

// CanAct returns true if the seat can take the turn: not folded and with
// chips behind.
func (s *Seat) CanAct() bool {
	return !s.Folded && s.Chips > 0
}

// Status returns the seat's display status label.
func (s *Seat) Status() string {
	if s.Folded {
		return "folded"
	}
	switch s.LastAction {
	case Call:
		return "called"
	case Raise:
		return "raised"
	case AllIn:
		return "all-in"
	case Fold:
		return "folded"
	default:
		return "playing"
	}
}
