package game

// Phase represents the stage of the current hand
type Phase int

const (
	PreFlop Phase = iota
	Flop
	Turn
	River
	Showdown
	Ended
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PreFlop:
		return "pre-flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Action represents a seat action. None is the zero value used before a
// seat has acted in a hand; AllIn is recorded when a call is capped at the
// seat's remaining chips.
type Action int

const (
	None Action = iota
	Call
	Raise
	Fold
	AllIn
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Call:
		return "call"
	case Raise:
		return "raise"
	case Fold:
		return "fold"
	case AllIn:
		return "all-in"
	default:
		return "none"
	}
}
