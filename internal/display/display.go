// Package display renders mirrored snapshots for the terminal. Both
// peers render the same way: the host from its own state, the joiner
// from the latest snapshot.
package display

import (
	"fmt"
	"strings"

	"github.com/josephklwork-hash/headsup/internal/deck"
	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/protocol"
)

// logTail is how many recent hand log lines are shown
const logTail = 6

// Render draws one snapshot from the viewer seat's perspective. Hole
// cards of the other seat stay hidden until the hand reveals them.
func Render(state *protocol.FullStateData, viewer game.Seat) string {
	var b strings.Builder

	match := state.Match
	b.WriteString(headerStyle.Render(fmt.Sprintf(" Heads-Up | hand %d ", match.HandsStarted)))
	b.WriteString("\n\n")

	hand := match.Hand
	if hand == nil {
		b.WriteString(fmt.Sprintf("Waiting for the first deal. Stacks: %s / %s\n",
			match.Stacks[game.SeatA], match.Stacks[game.SeatB]))
		return b.String()
	}

	opp := viewer.Other()
	b.WriteString(seatLine(hand, opp, viewer, state))
	b.WriteString("\n")

	board := hand.Board()
	if len(board) == 0 {
		b.WriteString(fmt.Sprintf("  %s, no board yet\n", hand.Street))
	} else {
		b.WriteString(fmt.Sprintf("  %s  %s\n", hand.Street, formatCards(board)))
	}
	b.WriteString(fmt.Sprintf("  pot %s\n", potStyle.Render(hand.Ledger.Pot.String())))

	b.WriteString(seatLine(hand, viewer, viewer, state))
	b.WriteString("\n\n")

	for _, entry := range tail(hand.Log, logTail) {
		b.WriteString(logStyle.Render("  " + entry.Message))
		b.WriteString("\n")
	}

	if hand.Result.Status == game.StatusEnded {
		b.WriteString("\n")
		b.WriteString(resultStyle.Render("  " + hand.Result.Message))
		b.WriteString("\n")
	} else if hand.Round.ToAct == viewer {
		b.WriteString("\n")
		b.WriteString(toActStyle.Render("  your turn"))
		b.WriteString("\n")
	}

	return b.String()
}

// Prompt describes the viewer's legal actions as an input hint, or an
// empty string when it is not the viewer's turn.
func Prompt(state *protocol.FullStateData, viewer game.Seat) string {
	hand := state.Match.Hand
	if hand == nil || hand.Result.Status != game.StatusPlaying || hand.Round.ToAct != viewer {
		return ""
	}
	legal, err := hand.LegalActions(viewer)
	if err != nil {
		return ""
	}

	parts := []string{"fold"}
	if legal.CanCheck {
		parts = append(parts, "check")
	}
	if legal.CanCall {
		parts = append(parts, fmt.Sprintf("call %s", legal.CallCost))
	}
	if legal.CanRaise {
		parts = append(parts, fmt.Sprintf("bet <amount> (%s..%s)", legal.MinRaiseTo, legal.MaxRaiseTo))
	}
	return strings.Join(parts, " | ")
}

func seatLine(hand *game.Hand, seat, viewer game.Seat, state *protocol.FullStateData) string {
	label := "opponent"
	if seat == viewer {
		label = "you"
	}

	cards := "[?? ??]"
	if seat == viewer || hand.Revealed[seat] {
		hole := hand.Deal.Hole(int(seat))
		cards = formatCards(hole[:])
	} else if hand.Mucked[seat] {
		cards = "[mucked]"
	}

	dealer := " "
	if hand.Dealer == seat {
		dealer = "D"
	}

	line := fmt.Sprintf("  %s %-8s %s  stack %s", dealer, label, cards, hand.Ledger.Stacks[seat])
	if hand.Ledger.Bets[seat] > 0 {
		line += fmt.Sprintf("  bet %s", hand.Ledger.Bets[seat])
	}
	if hand.Result.Status == game.StatusPlaying && hand.Round.ToAct == seat {
		line += toActStyle.Render("  to act")
	}
	return line
}

func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.Suit.IsRed() {
			formatted = append(formatted, redCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, blackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func tail(entries []game.LogEntry, n int) []game.LogEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
