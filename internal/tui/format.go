package tui

import (
	"fmt"
	"strings"

	"github.com/lox/tablestakes/internal/deck"
	"github.com/lox/tablestakes/internal/game"
)

// formatCards renders cards with suit-colored text.
func formatCards(cards []deck.Card) string {
	var formatted []string
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, redCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, blackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// formatEvent turns an engine event into a game log line. An empty string
// means the event has no log representation.
func formatEvent(event game.Event, humanSeat int) string {
	switch e := event.(type) {
	case game.HandStartEvent:
		return fmt.Sprintf("--- Hand #%d --- dealer: %s", e.HandNum, e.DealerName)

	case game.BlindPostedEvent:
		blind := "small blind"
		if e.Big {
			blind = "big blind"
		}
		return fmt.Sprintf("%s posts %s $%d", e.SeatName, blind, e.Amount)

	case game.HoleCardDealtEvent:
		if e.Hidden {
			return ""
		}
		return fmt.Sprintf("%s dealt %s", e.SeatName, formatCards([]deck.Card{e.Card}))

	case game.StreetDealtEvent:
		name := strings.ToUpper(e.Phase.String()[:1]) + e.Phase.String()[1:]
		return fmt.Sprintf("%s: %s", name, formatCards(e.Board))

	case game.AwaitingActionEvent:
		if e.Seat != humanSeat {
			return ""
		}
		return turnStyle.Render(fmt.Sprintf("Your turn — $%d to call", e.ToCall))

	case game.SeatActedEvent:
		line := ""
		switch e.Action {
		case game.Fold:
			line = fmt.Sprintf("%s folds", e.SeatName)
		case game.Call:
			line = fmt.Sprintf("%s calls $%d (pot $%d)", e.SeatName, e.Amount, e.Pot)
		case game.Raise:
			line = fmt.Sprintf("%s raises to $%d (pot $%d)", e.SeatName, e.Amount, e.Pot)
		case game.AllIn:
			line = fmt.Sprintf("%s is all-in for $%d (pot $%d)", e.SeatName, e.Amount, e.Pot)
		default:
			line = fmt.Sprintf("%s acts", e.SeatName)
		}
		if e.TimedOut {
			line += " (timed out)"
		}
		return line

	case game.HandEndEvent:
		if e.Abandoned {
			return errorStyle.Render("Hand abandoned")
		}
		var parts []string
		for _, w := range e.Winners {
			part := fmt.Sprintf("%s wins $%d", w.Name, w.Amount)
			if w.HandRank != "" {
				part += " with " + w.HandRank
			}
			parts = append(parts, part)
		}
		return winnerStyle.Render(strings.Join(parts, ", "))
	}
	return ""
}
