package game

import (
	"fmt"

	"github.com/josephklwork-hash/headsup/internal/deck"
	"github.com/josephklwork-hash/headsup/internal/evaluator"
)

// Hand is the complete mutable state of one heads-up hand. The dealer
// posts the small blind and acts first preflop; the other seat acts
// first on every later street.
type Hand struct {
	ID         int64      `json:"id"`
	Session    int64      `json:"session"`
	Dealer     Seat       `json:"dealer"`
	Deal       deck.Deal  `json:"deal"`
	Street     Street     `json:"street"`
	Ledger     Ledger     `json:"ledger"`
	Round      Round      `json:"round"`
	Result     Result     `json:"result"`
	SmallBlind Chips      `json:"smallBlind"`
	BigBlind   Chips      `json:"bigBlind"`
	Log        []LogEntry `json:"log"`

	// Showdown bookkeeping. Revealed marks hole cards exposed to both
	// players; a seat that mucked may still show voluntarily afterward.
	ShowdownFirst Seat               `json:"showdownFirst"`
	Revealed      [2]bool            `json:"revealed"`
	Mucked        [2]bool            `json:"mucked"`
	CanShow       [2]bool            `json:"canShow"`
	Showed        [2]bool            `json:"showed"`
	BestFive      [2][]deck.Card     `json:"bestFive,omitempty"`
	Scores        [2]evaluator.Score `json:"scores,omitempty"`

	startingTotal Chips
	nextSeq       int64
}

// NewHand deals a hand: blinds are posted (short-stacked blinds post
// what they can) and the dealer is first to act preflop.
func NewHand(id, session int64, dealer Seat, stacks [2]Chips, smallBlind, bigBlind Chips, deal deck.Deal) *Hand {
	h := &Hand{
		ID:            id,
		Session:       session,
		Dealer:        dealer,
		Deal:          deal,
		Street:        Preflop,
		SmallBlind:    smallBlind,
		BigBlind:      bigBlind,
		Result:        Result{Status: StatusPlaying},
		ShowdownFirst: NoSeat,
		startingTotal: stacks[SeatA] + stacks[SeatB],
	}
	h.Ledger.Stacks = stacks
	h.Round = newRound(dealer, bigBlind)

	sbSeat, bbSeat := dealer, dealer.Other()
	sbPost := minChips(smallBlind, h.Ledger.Stacks[sbSeat])
	bbPost := minChips(bigBlind, h.Ledger.Stacks[bbSeat])
	h.Ledger.Bets[sbSeat] = sbPost
	h.Ledger.Stacks[sbSeat] -= sbPost
	h.Ledger.Bets[bbSeat] = bbPost
	h.Ledger.Stacks[bbSeat] -= bbPost

	h.appendLog(sbSeat, "small_blind", sbPost, fmt.Sprintf("%s posts small blind %s", sbSeat, sbPost))
	h.appendLog(bbSeat, "big_blind", bbPost, fmt.Sprintf("%s posts big blind %s", bbSeat, bbPost))

	return h
}

// StartingTotal is the conserved chip total for this hand.
func (h *Hand) StartingTotal() Chips {
	return h.startingTotal
}

// Board returns the board cards exposed on the current street.
func (h *Hand) Board() []deck.Card {
	return h.Deal.Board(h.Street.BoardCards())
}

// seven returns the 7-card hand for a seat once the full board is out.
func (h *Hand) seven(seat Seat) []deck.Card {
	hole := h.Deal.Hole(int(seat))
	cards := make([]deck.Card, 0, 7)
	cards = append(cards, hole[0], hole[1])
	cards = append(cards, h.Deal.Board(5)...)
	return cards
}

// LegalActions describes what the seat to act may do right now.
type LegalActions struct {
	Seat       Seat  `json:"seat"`
	CanFold    bool  `json:"canFold"`
	CanCheck   bool  `json:"canCheck"`
	CanCall    bool  `json:"canCall"`
	CallCost   Chips `json:"callCost"`
	CanRaise   bool  `json:"canRaise"`
	MinRaiseTo Chips `json:"minRaiseTo"`
	MaxRaiseTo Chips `json:"maxRaiseTo"`
}

// LegalActions computes the legal action set for seat. Only the seat to
// act in a live hand has any.
func (h *Hand) LegalActions(seat Seat) (LegalActions, error) {
	if h.Result.Status != StatusPlaying {
		return LegalActions{}, ErrHandOver
	}
	if !seat.Valid() || seat != h.Round.ToAct {
		return LegalActions{}, ErrNotYourTurn
	}

	opp := seat.Other()
	myBet, oppBet := h.Ledger.Bets[seat], h.Ledger.Bets[opp]
	toCall := maxChips(0, oppBet-myBet)

	la := LegalActions{Seat: seat, CanFold: true}
	if toCall == 0 {
		la.CanCheck = true
	} else {
		la.CanCall = true
		la.CallCost = minChips(toCall, h.Ledger.Stacks[seat])
	}

	// Neither seat can be made to put in more than the shorter stack
	maxEffective := minChips(h.Ledger.Stacks[seat]+myBet, h.Ledger.Stacks[opp]+oppBet)
	if maxEffective > oppBet {
		la.CanRaise = true
		la.MinRaiseTo = minChips(h.minRaiseTo(seat), maxEffective)
		la.MaxRaiseTo = maxEffective
	}
	return la, nil
}

// minRaiseTo is the lowest legal total bet-to amount before clamping to
// the effective stack: facing a bet, the bet plus the last raise size;
// otherwise one big blind over the current (possibly zero) matched bet.
func (h *Hand) minRaiseTo(seat Seat) Chips {
	opp := seat.Other()
	myBet, oppBet := h.Ledger.Bets[seat], h.Ledger.Bets[opp]
	if oppBet > myBet {
		return oppBet + h.Round.LastRaiseSize
	}
	return oppBet + h.BigBlind
}

// Apply performs one transition of the state machine. Wrong-turn and
// settled-hand actions return an error and change nothing; the host
// drops them silently.
func (h *Hand) Apply(seat Seat, action Action) error {
	if err := action.Validate(); err != nil {
		return err
	}
	if h.Result.Status != StatusPlaying {
		return ErrHandOver
	}
	if !seat.Valid() || seat != h.Round.ToAct {
		return ErrNotYourTurn
	}

	switch action.Kind {
	case ActionFold:
		h.applyFold(seat)
		return nil
	case ActionCheck:
		return h.applyCheck(seat)
	case ActionCall:
		return h.applyCall(seat)
	case ActionBetRaise:
		return h.applyBetRaise(seat, action.To)
	default:
		return ErrInvalidAction
	}
}

func (h *Hand) applyFold(seat Seat) {
	winner := seat.Other()
	h.appendLog(seat, "fold", 0, fmt.Sprintf("%s folds", seat))

	pot := h.Ledger.Pot + h.Ledger.Bets[SeatA] + h.Ledger.Bets[SeatB]
	h.Ledger.Stacks[winner] += pot
	h.Ledger.Pot = 0
	h.Ledger.Bets = [2]Chips{}

	h.CanShow[seat] = true
	h.Result = Result{
		Status:  StatusEnded,
		Winner:  WinnerOf(winner),
		Reason:  ReasonFold,
		Pot:     pot,
		Message: fmt.Sprintf("%s wins, %s folded", winner, seat),
	}
	h.appendLog(NoSeat, "result", 0, h.Result.Message)
}

func (h *Hand) applyCheck(seat Seat) error {
	opp := seat.Other()
	if h.Ledger.Bets[opp] > h.Ledger.Bets[seat] {
		return fmt.Errorf("%w: cannot check facing a bet", ErrIllegalAction)
	}

	h.Round.Checked[seat] = true
	h.Round.ActionsThisStreet++
	h.appendLog(seat, "check", 0, fmt.Sprintf("%s checks", seat))

	noAggression := h.Round.LastAggressor == NoSeat
	bothChecked := h.Round.Checked[SeatA] && h.Round.Checked[SeatB]
	bbOption := h.Street == Preflop && h.Round.SawCall && seat == h.Dealer.Other()

	if noAggression && (bothChecked || bbOption) {
		h.closeStreet()
		return nil
	}
	h.Round.ToAct = opp
	return nil
}

func (h *Hand) applyCall(seat Seat) error {
	opp := seat.Other()
	toCall := maxChips(0, h.Ledger.Bets[opp]-h.Ledger.Bets[seat])
	paid := minChips(toCall, h.Ledger.Stacks[seat])

	h.Ledger.Bets[seat] += paid
	h.Ledger.Stacks[seat] -= paid

	// Short all-in call: the unmatched part of the opponent's bet goes
	// back to their stack so the totals stay conserved.
	if excess := h.Ledger.Bets[opp] - h.Ledger.Bets[seat]; excess > 0 {
		h.Ledger.Bets[opp] -= excess
		h.Ledger.Stacks[opp] += excess
	}

	h.Round.SawCall = true
	h.Round.ActionsThisStreet++
	h.appendLog(seat, "call", paid, fmt.Sprintf("%s calls %s", seat, paid))

	allIn := h.Ledger.Stacks[seat] == 0 || h.Ledger.Stacks[opp] == 0
	aggroSettled := h.Round.LastAggressor != NoSeat &&
		seat == h.Round.LastToActAfterAggro &&
		h.Ledger.Bets[seat] == h.Ledger.Bets[opp]

	if allIn || aggroSettled {
		h.closeStreet()
		return nil
	}
	h.Round.ToAct = opp
	return nil
}

func (h *Hand) applyBetRaise(seat Seat, target Chips) error {
	opp := seat.Other()
	myBet, oppBet := h.Ledger.Bets[seat], h.Ledger.Bets[opp]
	maxEffective := minChips(h.Ledger.Stacks[seat]+myBet, h.Ledger.Stacks[opp]+oppBet)

	// Clamp rather than reject: an out-of-range target resolves to the
	// nearest legal amount.
	minTo := minChips(h.minRaiseTo(seat), maxEffective)
	if target < minTo {
		target = minTo
	}
	if target > maxEffective {
		target = maxEffective
	}

	// A raise that resolves to exactly the opponent's bet is a call.
	if target == oppBet {
		return h.applyCall(seat)
	}
	if target <= myBet {
		return fmt.Errorf("%w: bet target %s below committed %s", ErrIllegalAction, target, myBet)
	}

	paid := target - myBet
	h.Ledger.Stacks[seat] -= paid
	h.Ledger.Bets[seat] = target

	raiseSize := target - oppBet
	h.Round.noteAggression(seat, raiseSize)
	h.Round.ActionsThisStreet++
	h.Round.ToAct = opp

	kind := "bet"
	if oppBet > 0 {
		kind = "raise"
	}
	h.appendLog(seat, kind, paid, fmt.Sprintf("%s %ss to %s", seat, kind, target))
	return nil
}

// closeStreet sweeps the bets into the pot and advances: to the next
// street with a fresh round, to a board run-out when a stack is empty,
// or to showdown after the river.
func (h *Hand) closeStreet() {
	h.Ledger.Pot += h.Ledger.Bets[SeatA] + h.Ledger.Bets[SeatB]
	h.Ledger.Bets = [2]Chips{}

	allIn := h.Ledger.Stacks[SeatA] == 0 || h.Ledger.Stacks[SeatB] == 0
	if h.Street == River || allIn {
		if h.Street != River {
			h.Street = River
			h.appendLog(NoSeat, "runout", 0, fmt.Sprintf("board runs out %v", h.Board()))
		}
		h.showdown()
		return
	}

	h.Street = h.Street.Next()
	h.Round = newRound(h.Dealer.Other(), h.BigBlind)
	h.appendLog(NoSeat, "street", 0, fmt.Sprintf("%s %v", h.Street, h.Board()))
}
