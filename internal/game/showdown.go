package game

import (
	"fmt"

	"github.com/josephklwork-hash/headsup/internal/evaluator"
)

// showdown settles the pot after the river (or an all-in run-out). Both
// 7-card hands are scored by exhaustive best-five selection; the winner
// takes the pot and an exact tie splits it, odd cent to the non-dealer.
func (h *Hand) showdown() {
	for seat := SeatA; seat <= SeatB; seat++ {
		best, score := evaluator.BestFive(h.seven(seat))
		h.BestFive[seat] = best
		h.Scores[seat] = score
	}

	cmp := evaluator.Compare(h.Scores[SeatA], h.Scores[SeatB])
	allIn := h.Ledger.Stacks[SeatA] == 0 || h.Ledger.Stacks[SeatB] == 0

	// Show order: the last aggressor reveals first; with no bet on the
	// final street the out-of-position seat does.
	first := h.Round.LastAggressor
	if first == NoSeat {
		first = h.Dealer.Other()
	}
	h.ShowdownFirst = first
	h.Revealed[first] = true

	second := first.Other()
	secondLoses := (second == SeatA && cmp < 0) || (second == SeatB && cmp > 0)
	if secondLoses && !allIn {
		// Guaranteed loser may muck, and may still show voluntarily
		h.Mucked[second] = true
		h.CanShow[second] = true
		h.appendLog(second, "muck", 0, fmt.Sprintf("%s mucks", second))
	} else {
		h.Revealed[second] = true
	}

	pot := h.Ledger.Pot
	h.Ledger.Pot = 0

	switch {
	case cmp > 0:
		h.Ledger.Stacks[SeatA] += pot
		h.Result = Result{
			Status:  StatusEnded,
			Winner:  WinnerA,
			Reason:  ReasonShowdown,
			Pot:     pot,
			Message: fmt.Sprintf("A wins %s with %s", pot, h.Scores[SeatA].Category()),
		}
	case cmp < 0:
		h.Ledger.Stacks[SeatB] += pot
		h.Result = Result{
			Status:  StatusEnded,
			Winner:  WinnerB,
			Reason:  ReasonShowdown,
			Pot:     pot,
			Message: fmt.Sprintf("B wins %s with %s", pot, h.Scores[SeatB].Category()),
		}
	default:
		// Odd cent goes to the non-dealer
		half := pot / 2
		nonDealer := h.Dealer.Other()
		h.Ledger.Stacks[nonDealer] += pot - half
		h.Ledger.Stacks[h.Dealer] += half
		h.Result = Result{
			Status:  StatusEnded,
			Winner:  WinnerTie,
			Reason:  ReasonShowdown,
			Pot:     pot,
			Message: fmt.Sprintf("split pot, both show %s", h.Scores[SeatA].Category()),
		}
	}

	h.appendLog(NoSeat, "showdown", pot, h.Result.Message)
}

// ShowHand voluntarily reveals a hand that was mucked or folded. It has
// no effect on settlement.
func (h *Hand) ShowHand(seat Seat) error {
	if !seat.Valid() || !h.CanShow[seat] || h.Showed[seat] {
		return ErrCannotShow
	}
	h.Showed[seat] = true
	h.Revealed[seat] = true
	hole := h.Deal.Hole(int(seat))
	h.appendLog(seat, "show", 0, fmt.Sprintf("%s shows %s %s", seat, hole[0], hole[1]))
	return nil
}
