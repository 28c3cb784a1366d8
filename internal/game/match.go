package game

import (
	"math"
	rand "math/rand/v2"

	"github.com/josephklwork-hash/headsup/internal/deck"
)

// Match is the hand-to-hand state of one heads-up session: stacks carried
// between hands, the alternating dealer, blind stepping, and the terminal
// freeze once a stack is felted.
type Match struct {
	Session      int64    `json:"session"`
	HandsStarted int64    `json:"handsStarted"`
	Stacks       [2]Chips `json:"stacks"`
	SmallBlind   Chips    `json:"smallBlind"`
	BigBlind     Chips    `json:"bigBlind"`
	Frozen       bool     `json:"frozen"`
	Hand         *Hand    `json:"hand,omitempty"`

	dealerNext Seat
	stepHands  int64
	stepFactor float64
}

// NewMatch sets up a session from config. Seat A deals the first hand.
func NewMatch(session int64, cfg MatchSettings) *Match {
	stack := ChipsFromFloat(cfg.StartingStack)
	return &Match{
		Session:    session,
		Stacks:     [2]Chips{stack, stack},
		SmallBlind: ChipsFromFloat(cfg.SmallBlind),
		BigBlind:   ChipsFromFloat(cfg.BigBlind),
		dealerNext: SeatA,
		stepHands:  int64(cfg.BlindStepHands),
		stepFactor: cfg.BlindStepFactor,
	}
}

// StartHand deals the next hand: the dealer alternates, and every
// configured number of hands both stacks are scaled down by the step
// factor so the blinds bite harder as the session runs long.
func (m *Match) StartHand(rng *rand.Rand) (*Hand, error) {
	if m.Frozen {
		return nil, ErrMatchOver
	}
	if m.Hand != nil && m.Hand.Result.Status == StatusPlaying {
		return nil, ErrHandInProgress
	}

	m.HandsStarted++
	if m.stepHands > 0 && m.stepFactor > 0 && m.stepFactor < 1 &&
		m.HandsStarted > 1 && (m.HandsStarted-1)%m.stepHands == 0 {
		for seat := SeatA; seat <= SeatB; seat++ {
			m.Stacks[seat] = Chips(math.Round(float64(m.Stacks[seat]) * m.stepFactor))
		}
	}

	dealer := m.dealerNext
	m.dealerNext = dealer.Other()

	m.Hand = NewHand(m.HandsStarted, m.Session, dealer, m.Stacks, m.SmallBlind, m.BigBlind, deck.NewDeal(rng))
	return m.Hand, nil
}

// ConcludeHand carries the settled hand's stacks back into the match and
// freezes the session permanently once either stack is felted. It is a
// no-op while the hand is still live.
func (m *Match) ConcludeHand() {
	if m.Hand == nil || m.Hand.Result.Status != StatusEnded {
		return
	}
	m.Stacks = m.Hand.Ledger.Stacks
	if m.Stacks[SeatA] <= 0 || m.Stacks[SeatB] <= 0 {
		m.Frozen = true
	}
}
