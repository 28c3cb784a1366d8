// Package bot provides the built-in opponent used by solo mode. It plays
// a simple calling-station game with enough aggression to end hands.
package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/josephklwork-hash/headsup/internal/deck"
	"github.com/josephklwork-hash/headsup/internal/evaluator"
	"github.com/josephklwork-hash/headsup/internal/game"
)

// Opponent decides an action for the seat it occupies
type Opponent interface {
	Act(h *game.Hand, seat game.Seat, legal game.LegalActions) game.Action
}

// CallingStation checks and calls most of the time, bets its strong
// hands, and folds to large bets with nothing.
type CallingStation struct {
	logger *log.Logger
	rng    *rand.Rand
}

// NewCallingStation creates the default solo opponent
func NewCallingStation(logger *log.Logger, rng *rand.Rand) *CallingStation {
	return &CallingStation{
		logger: logger.WithPrefix("bot"),
		rng:    rng,
	}
}

// Act implements Opponent
func (b *CallingStation) Act(h *game.Hand, seat game.Seat, legal game.LegalActions) game.Action {
	strong := b.handIsStrong(h, seat)

	if legal.CanCheck {
		if strong && legal.CanRaise && b.rng.IntN(3) > 0 {
			to := minChips(legal.MinRaiseTo*2, legal.MaxRaiseTo)
			b.logger.Debug("Betting strong hand", "to", to)
			return game.Action{Kind: game.ActionBetRaise, To: to}
		}
		return game.Action{Kind: game.ActionCheck}
	}

	// Facing a bet: always continue with a strong hand, call cheap bets,
	// fold to heavy pressure otherwise.
	if strong {
		if legal.CanRaise && b.rng.IntN(4) == 0 {
			return game.Action{Kind: game.ActionBetRaise, To: legal.MinRaiseTo}
		}
		return game.Action{Kind: game.ActionCall}
	}

	potOdds := legal.CallCost <= (h.Ledger.Pot+h.Ledger.Bets[seat.Other()])/2
	if potOdds || legal.CallCost <= h.BigBlind*2 {
		return game.Action{Kind: game.ActionCall}
	}
	b.logger.Debug("Folding to pressure", "cost", legal.CallCost)
	return game.Action{Kind: game.ActionFold}
}

// handIsStrong is a crude strength read: premium hole cards preflop, a
// pair or better once there is a board.
func (b *CallingStation) handIsStrong(h *game.Hand, seat game.Seat) bool {
	hole := h.Deal.Hole(int(seat))

	if h.Street == game.Preflop {
		if hole[0].Rank == hole[1].Rank {
			return true
		}
		return hole[0].Rank >= deck.Queen && hole[1].Rank >= deck.Queen
	}

	cards := make([]deck.Card, 0, 7)
	cards = append(cards, hole[0], hole[1])
	cards = append(cards, h.Board()...)
	score := evaluator.Evaluate(cards)
	return score.Category() >= evaluator.Pair
}

func minChips(a, b game.Chips) game.Chips {
	if a < b {
		return a
	}
	return b
}
